package application

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

const DefaultKeyLength = 16

var urlSafe = strings.NewReplacer("/", "_", "+", "-")

// GenerateKey gera o token opaco que distingue instâncias que compartilham
// a mesma API key. Usa crypto/rand; length <= 0 usa DefaultKeyLength bytes.
func GenerateKey(length int) (string, error) {
	return GenerateKeyFrom(rand.Reader, length)
}

func GenerateKeyFrom(r io.Reader, length int) (string, error) {
	if length <= 0 {
		length = DefaultKeyLength
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("generate identification key: %w", err)
	}
	return urlSafe.Replace(base64.StdEncoding.EncodeToString(buf)), nil
}
