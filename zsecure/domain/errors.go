package domain

import (
	"errors"
	"strings"
)

// Erros de construção: fatais, devem ser corrigidos antes do primeiro uso.
var (
	ErrMissingAPIKey = errors.New("API key is required")
	ErrNoRules       = errors.New("at least one of rateLimitingRule or shieldRule is required")
)

type ValidationReason string

const (
	MissingAPIKey            ValidationReason = "MissingApiKey"
	MissingIdentificationKey ValidationReason = "MissingIdentificationKey"
	UnsupportedAlgorithm     ValidationReason = "UnsupportedAlgorithm"
	IncompleteRule           ValidationReason = "IncompleteRule"
	InvalidMode              ValidationReason = "InvalidMode"
	InvalidRequested         ValidationReason = "InvalidRequested"
	IncompleteShieldRule     ValidationReason = "IncompleteShieldRule"
)

// ValidationError descreve o primeiro invariante violado pelo payload.
// Fields lista os campos ausentes quando a razão é de regra incompleta.
type ValidationError struct {
	Reason    ValidationReason
	Algorithm Algorithm
	Fields    []string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case MissingAPIKey:
		return "API key is required"
	case MissingIdentificationKey:
		return "identification key is required"
	case UnsupportedAlgorithm:
		return "unsupported algorithm: " + quote(string(e.Algorithm))
	case IncompleteRule:
		return "incomplete " + string(e.Algorithm) + ": missing " + strings.Join(e.Fields, ", ")
	case InvalidMode:
		return "invalid mode for " + strings.Join(e.Fields, ", ") + ": must be LIVE or DRY_RUN"
	case InvalidRequested:
		return "requested must be zero or a positive number of tokens"
	case IncompleteShieldRule:
		return "incomplete shield rule: missing " + strings.Join(e.Fields, ", ")
	}
	return "invalid payload: " + string(e.Reason)
}

// Is permite errors.Is(err, &ValidationError{Reason: X}).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

func quote(s string) string { return "\"" + s + "\"" }
