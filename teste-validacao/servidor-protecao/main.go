// Servidor de validação manual: imita o POST /protection do serviço z-secure
// com uma janela fixa em memória por userId.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

type window struct {
	start time.Time
	count int64
}

type protection struct {
	mu      sync.Mutex
	windows map[string]*window
}

func (p *protection) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload domain.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	fmt.Printf("Log: protection userId=%q rateLimiting=%v shield=%v\n", payload.UserID, payload.RateLimiting != nil, payload.Shield != nil)

	remaining := int64(-1)
	if rl := payload.RateLimiting; rl != nil && rl.Limit > 0 && rl.WindowMs > 0 {
		var ok bool
		remaining, ok = p.take(payload.UserID, rl)
		if !ok {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"allow":     true,
		"remaining": remaining,
		"dryRun":    payload.RateLimiting != nil && payload.RateLimiting.Mode == domain.ModeDryRun,
	})
}

// take consome requested da janela do usuário; DRY_RUN nunca bloqueia.
func (p *protection) take(userID string, rl *domain.RateLimitingPayload) (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	win := p.windows[userID]
	if win == nil || now.Sub(win.start) >= time.Duration(rl.WindowMs)*time.Millisecond {
		win = &window{start: now}
		p.windows[userID] = win
	}

	if win.count+int64(rl.Requested) > rl.Limit && rl.Mode != domain.ModeDryRun {
		return 0, false
	}
	win.count += int64(rl.Requested)
	return max(rl.Limit-win.count, 0), true
}

func main() {
	addr := ":3000"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	http.Handle(domain.ProtectionPath, &protection{windows: map[string]*window{}})
	fmt.Printf("Servidor de proteção rodando em http://localhost%s%s\n", addr, domain.ProtectionPath)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("Erro ao subir o servidor: %s", err)
	}
}
