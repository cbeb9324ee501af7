package zsecure

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

// fakeProtection simula POST /protection do serviço remoto.
type fakeProtection struct {
	srv   *httptest.Server
	calls atomic.Int64
	last  atomic.Value // []byte
}

func newFakeProtection(t *testing.T, h func(w http.ResponseWriter, body []byte)) *fakeProtection {
	t.Helper()
	f := &fakeProtection{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/protection" {
			http.NotFound(w, r)
			return
		}
		b, _ := io.ReadAll(r.Body)
		f.calls.Add(1)
		f.last.Store(b)
		h(w, b)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeProtection) payload(t *testing.T) domain.Payload {
	t.Helper()
	b, _ := f.last.Load().([]byte)
	var p domain.Payload
	if err := json.Unmarshal(b, &p); err != nil {
		t.Fatalf("expected JSON payload, got %q: %v", b, err)
	}
	return p
}

func noEnv(string) (string, bool) { return "", false }

func fixedWindow() domain.FixedWindowRule {
	return domain.FixedWindowRule{Mode: domain.ModeLive, WindowMs: 60000, Limit: 5}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Options{RateLimitingRule: fixedWindow(), Env: noEnv})
	if !errors.Is(err, domain.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestNew_RequiresARule(t *testing.T) {
	_, err := New(Options{APIKey: "k", Env: noEnv})
	if !errors.Is(err, domain.ErrNoRules) {
		t.Fatalf("expected ErrNoRules, got %v", err)
	}
}

func TestNew_BaseURLResolution(t *testing.T) {
	c, err := New(Options{APIKey: "k", RateLimitingRule: fixedWindow(), Env: noEnv})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.BaseURL() != domain.DefaultBaseURL {
		t.Fatalf("expected default base url, got %q", c.BaseURL())
	}

	env := func(k string) (string, bool) {
		if k == domain.BaseURLEnv {
			return "http://from-env:9000", true
		}
		return "", false
	}
	c, _ = New(Options{APIKey: "k", RateLimitingRule: fixedWindow(), Env: env})
	if c.BaseURL() != "http://from-env:9000" {
		t.Fatalf("expected base url from env, got %q", c.BaseURL())
	}

	c, _ = New(Options{APIKey: "k", BaseURL: "http://explicit", RateLimitingRule: fixedWindow(), Env: env})
	if c.BaseURL() != "http://explicit" {
		t.Fatalf("expected explicit base url to win, got %q", c.BaseURL())
	}
}

func TestNew_GeneratesIdentificationKey(t *testing.T) {
	a, _ := New(Options{APIKey: "k", RateLimitingRule: fixedWindow(), Env: noEnv})
	b, _ := New(Options{APIKey: "k", RateLimitingRule: fixedWindow(), Env: noEnv})
	if len(a.IdentificationKey()) == 0 {
		t.Fatalf("expected identification key to be generated")
	}
	if a.IdentificationKey() == b.IdentificationKey() {
		t.Fatalf("expected distinct identification keys per client")
	}
}

func TestProtect_RemoteDecisionPassesThrough(t *testing.T) {
	f := newFakeProtection(t, func(w http.ResponseWriter, _ []byte) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"allow":true,"remaining":4}`)
	})
	c, err := New(Options{APIKey: "secret", BaseURL: f.srv.URL, RateLimitingRule: fixedWindow(), Env: noEnv})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "http://example/items?page=2", nil)
	r.RemoteAddr = "10.1.2.3:5555"
	dec := c.ProtectHTTP(r, "user-1", nil)

	if dec.IsDenied || dec.Local() {
		t.Fatalf("expected remote non-denied decision, got %+v", dec)
	}
	out, _ := json.Marshal(dec)
	if string(out) != `{"allow":true,"remaining":4}` {
		t.Fatalf("expected body unchanged, got %s", out)
	}

	p := f.payload(t)
	if p.Key != "secret" || p.UserID != "user-1" || p.IdentificationKey != c.IdentificationKey() {
		t.Fatalf("unexpected payload identity fields: %+v", p)
	}
	if p.RateLimiting == nil || p.RateLimiting.Algorithm != domain.AlgorithmFixedWindow || p.RateLimiting.Requested != 1 {
		t.Fatalf("unexpected rate limiting payload: %+v", p.RateLimiting)
	}
}

func TestProtect_RemoteLimitBecomes429(t *testing.T) {
	f := newFakeProtection(t, func(w http.ResponseWriter, _ []byte) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c, _ := New(Options{APIKey: "k", BaseURL: f.srv.URL, RateLimitingRule: fixedWindow(), Env: noEnv})

	dec := c.Protect(context.Background(), domain.Request{}, "u", nil)
	out, _ := json.Marshal(dec)
	if string(out) != `{"isDenied":true,"status":429,"message":"Rate limit exceeded"}` {
		t.Fatalf("unexpected decision: %s", out)
	}
}

func TestProtect_NonStringUserIDSkipsNetwork(t *testing.T) {
	f := newFakeProtection(t, func(w http.ResponseWriter, _ []byte) {
		_, _ = io.WriteString(w, `{}`)
	})
	c, _ := New(Options{APIKey: "k", BaseURL: f.srv.URL, RateLimitingRule: fixedWindow(), Env: noEnv})

	dec := c.Protect(context.Background(), domain.Request{}, 42, nil)
	if !dec.IsDenied || dec.Status != 400 || dec.Message != "Invalid userId" {
		t.Fatalf("expected invalid userId denial, got %+v", dec)
	}
	if n := f.calls.Load(); n != 0 {
		t.Fatalf("expected no network call, got %d", n)
	}
}

func TestProtect_UsesForwardedIPWhenNoUserID(t *testing.T) {
	f := newFakeProtection(t, func(w http.ResponseWriter, _ []byte) {
		_, _ = io.WriteString(w, `{"allow":true}`)
	})
	c, _ := New(Options{APIKey: "k", BaseURL: f.srv.URL, RateLimitingRule: fixedWindow(), Env: noEnv})

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	_ = c.ProtectHTTP(r, nil, Tokens(3))

	p := f.payload(t)
	if p.UserID != "203.0.113.9" {
		t.Fatalf("expected forwarded ip as userId, got %q", p.UserID)
	}
	if p.RateLimiting.Requested != 3 {
		t.Fatalf("expected requested=3, got %d", p.RateLimiting.Requested)
	}
}

func TestProtect_TimeoutBecomes504(t *testing.T) {
	release := make(chan struct{})
	f := newFakeProtection(t, func(w http.ResponseWriter, _ []byte) {
		<-release
	})
	defer close(release)

	c, _ := New(Options{
		APIKey:           "k",
		BaseURL:          f.srv.URL,
		Timeout:          50 * time.Millisecond,
		RateLimitingRule: fixedWindow(),
		Env:              noEnv,
	})

	start := time.Now()
	dec := c.Protect(context.Background(), domain.Request{}, "u", nil)
	if dec.Status != domain.StatusTimeout || !dec.IsDenied {
		t.Fatalf("expected 504 denial, got %+v", dec)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("expected timeout to be enforced quickly")
	}
}

func TestProtect_ShieldSnapshot(t *testing.T) {
	f := newFakeProtection(t, func(w http.ResponseWriter, _ []byte) {
		_, _ = io.WriteString(w, `{"allow":true}`)
	})
	c, _ := New(Options{
		APIKey:     "k",
		BaseURL:    f.srv.URL,
		ShieldRule: &domain.ShieldRule{Mode: domain.ModeDryRun, WindowMs: 1000, Limit: 10, Threshold: 3},
		Env:        noEnv,
	})

	r := httptest.NewRequest(http.MethodGet, "http://example/search?q=x", nil)
	_ = c.ProtectHTTP(r, "u", nil)

	p := f.payload(t)
	if p.RateLimiting != nil {
		t.Fatalf("expected no rate limiting block")
	}
	if p.Shield == nil || p.Shield.RequestDetails == nil {
		t.Fatalf("expected shield block with request details")
	}
	if p.Shield.RequestDetails.URL != "/search?q=x" || p.Shield.RequestDetails.Query != "q=x" {
		t.Fatalf("unexpected request details: %+v", p.Shield.RequestDetails)
	}
}
