package zsecure

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

func TestMiddleware_AllowsWhenRemoteAllows(t *testing.T) {
	f := newFakeProtection(t, func(w http.ResponseWriter, _ []byte) {
		_, _ = io.WriteString(w, `{"allow":true}`)
	})
	c, _ := New(Options{APIKey: "k", BaseURL: f.srv.URL, RateLimitingRule: fixedWindow(), Env: noEnv})

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = io.WriteString(w, "ok")
	})
	h := Middleware(MiddlewareOptions{
		Client:             c,
		UserIDFn:           UserIDFromHeader("X-User-ID"),
		AddDecisionHeaders: true,
	})(next)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.Header.Set("X-User-ID", "alice")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK || calls != 1 {
		t.Fatalf("expected next to run with 200, got code=%d calls=%d", w.Code, calls)
	}
	if got := w.Header().Get("X-Zsecure-Status"); got != "200" {
		t.Fatalf("expected X-Zsecure-Status=200, got %q", got)
	}
	if p := f.payload(t); p.UserID != "alice" {
		t.Fatalf("expected userId from header, got %q", p.UserID)
	}
}

func TestMiddleware_RejectsLocalDenial(t *testing.T) {
	f := newFakeProtection(t, func(w http.ResponseWriter, _ []byte) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c, _ := New(Options{APIKey: "k", BaseURL: f.srv.URL, RateLimitingRule: fixedWindow(), Env: noEnv})

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ })
	h := Middleware(MiddlewareOptions{Client: c, AddDecisionHeaders: true})(next)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if calls != 0 {
		t.Fatalf("expected next handler not to be called")
	}
	if got := w.Header().Get("X-Zsecure-Reason"); got != string(domain.ReasonRateLimited) {
		t.Fatalf("expected reason header, got %q", got)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON body: %v", err)
	}
	if body["isDenied"] != true || body["message"] != "Rate limit exceeded" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestMiddleware_RemoteDenialUsesRejectStatus(t *testing.T) {
	f := newFakeProtection(t, func(w http.ResponseWriter, _ []byte) {
		_, _ = io.WriteString(w, `{"isDenied":true,"reason":"bot"}`)
	})
	c, _ := New(Options{APIKey: "k", BaseURL: f.srv.URL, RateLimitingRule: fixedWindow(), Env: noEnv})

	h := Middleware(MiddlewareOptions{Client: c, RejectStatus: http.StatusForbidden})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("next must not run on denial")
		}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example/", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"isDenied":true,"reason":"bot"}` {
		t.Fatalf("expected remote body verbatim, got %s", got)
	}
}

func TestDefaultDenyFunc(t *testing.T) {
	deny := DefaultDenyFunc(http.StatusTooManyRequests)

	cases := []struct {
		name   string
		dec    domain.Decision
		denied bool
		status int
	}{
		{"local denial", domain.Deny(504, domain.ReasonTimeout, domain.MessageTimeout), true, 504},
		{"remote allow", domain.Remote(200, []byte(`{"allow":true}`)), false, 0},
		{"remote allow false", domain.Remote(200, []byte(`{"allow":false}`)), true, 429},
		{"remote denied with status", domain.Remote(200, []byte(`{"isDenied":true,"status":451}`)), true, 451},
		{"remote array", domain.Remote(200, []byte(`[1,2]`)), false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			denied, status := deny(tc.dec)
			if denied != tc.denied || status != tc.status {
				t.Fatalf("expected (%v,%d), got (%v,%d)", tc.denied, tc.status, denied, status)
			}
		})
	}
}
