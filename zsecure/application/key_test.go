package application

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestGenerateKey_UniqueAndURLSafe(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		k, err := GenerateKey(DefaultKeyLength)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.ContainsAny(k, "/+") {
			t.Fatalf("expected url-safe key, got %q", k)
		}
		if _, dup := seen[k]; dup {
			t.Fatalf("duplicated key after %d trials: %q", i, k)
		}
		seen[k] = struct{}{}
	}
}

func TestGenerateKey_DefaultLength(t *testing.T) {
	k, err := GenerateKey(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 16 bytes em base64 padrão = 24 caracteres (com padding)
	if len(k) != base64.StdEncoding.EncodedLen(DefaultKeyLength) {
		t.Fatalf("expected %d chars, got %d (%q)", base64.StdEncoding.EncodedLen(DefaultKeyLength), len(k), k)
	}
}

func TestGenerateKeyFrom_SubstitutesUnsafeChars(t *testing.T) {
	// 0xfb 0xff 0xbf => "+/+/" em base64 padrão
	k, err := GenerateKeyFrom(strings.NewReader("\xfb\xff\xbf\xfb\xff\xbf"), 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k != "-_-_-_-_" {
		t.Fatalf("expected substituted key, got %q", k)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestGenerateKeyFrom_PropagatesReaderError(t *testing.T) {
	if _, err := GenerateKeyFrom(failingReader{}, 16); err == nil {
		t.Fatalf("expected error from failing reader")
	}
}
