package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/LEVIII007/z-secure-SDK/zsecure"
	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
	"github.com/LEVIII007/z-secure-SDK/zsecure/infra"
)

func main() {
	// Exemplo: injetando o middleware diretamente no seu webserver (sem proxy)
	stats := infra.NewMemoryStatsStore(infra.WithTrackUsers(true))

	client, err := zsecure.New(zsecure.Options{
		APIKey:  os.Getenv("ZSECURE_API_KEY"),
		Logging: true,
		RateLimitingRule: domain.TokenBucketRule{
			Mode:       domain.ModeLive,
			RefillRate: 5,
			Interval:   1000,
			Capacity:   10,
		},
		ShieldRule:  &domain.ShieldRule{Mode: domain.ModeDryRun, WindowMs: 60000, Limit: 100, Threshold: 5},
		MaxInFlight: 50,
		Stats:       stats,
	})
	if err != nil {
		log.Fatalf("zsecure client error: %v", err)
	}

	r := chi.NewRouter()
	r.Use(zsecure.Middleware(zsecure.MiddlewareOptions{
		Client:             client,
		UserIDFn:           zsecure.UserIDFromHeader("X-User-ID"), // ou nil para usar IP
		SnapshotBody:       4 << 10,
		AddDecisionHeaders: true,
	}))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total":     stats.Total(),
			"byOutcome": stats.ByOutcome(),
		})
	})

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("example server listening on %s (protection at %s)", addr, client.BaseURL())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
