package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/LEVIII007/z-secure-SDK/zsecure/config"
)

func envOf(m map[string]string) config.Env {
	return config.NewEnv(func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	})
}

func TestReadConfig_Defaults(t *testing.T) {
	cfg, err := readConfig(envOf(map[string]string{"UPSTREAM_URL": "http://upstream:9000"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.listenAddr != ":8080" || cfg.rejectStatus != http.StatusTooManyRequests {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestReadConfig_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"REJECT_STATUS":        "abc",
		"SNAPSHOT_BODY_BYTES":  "lots",
		"ADD_DECISION_HEADERS": "sim",
		"STATS_REDIS_DB":       "zero",
		"STATS_TTL":            "1day",
	}
	for k, v := range cases {
		_, err := readConfig(envOf(map[string]string{"UPSTREAM_URL": "http://upstream:9000", k: v}))
		if err == nil {
			t.Fatalf("expected error for %s=%q", k, v)
		}
		if !strings.Contains(err.Error(), k) {
			t.Fatalf("expected error to name %s, got %v", k, err)
		}
	}
}

func TestReadConfig_Requirements(t *testing.T) {
	if _, err := readConfig(envOf(nil)); err == nil {
		t.Fatalf("expected error without UPSTREAM_URL")
	}
	_, err := readConfig(envOf(map[string]string{"UPSTREAM_URL": "http://u", "STATS_ENABLED": "true"}))
	if err == nil || !strings.Contains(err.Error(), "STATS_REDIS_ADDR") {
		t.Fatalf("expected STATS_REDIS_ADDR requirement, got %v", err)
	}
	_, err = readConfig(envOf(map[string]string{"UPSTREAM_URL": "http://u", "REJECT_STATUS": "200"}))
	if err == nil {
		t.Fatalf("expected error for non-error REJECT_STATUS")
	}
}
