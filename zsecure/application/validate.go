package application

import "github.com/LEVIII007/z-secure-SDK/zsecure/domain"

// Validate confere os invariantes do payload antes de qualquer chamada de
// rede. A primeira violação encontrada é devolvida como *domain.ValidationError.
func Validate(p domain.Payload) error {
	if p.Key == "" {
		return &domain.ValidationError{Reason: domain.MissingAPIKey}
	}
	if p.IdentificationKey == "" {
		return &domain.ValidationError{Reason: domain.MissingIdentificationKey}
	}
	if p.RateLimiting != nil {
		if err := validateRateLimiting(p.RateLimiting); err != nil {
			return err
		}
	}
	if p.Shield != nil {
		if err := validateShield(p.Shield); err != nil {
			return err
		}
	}
	return nil
}

type field struct {
	name    string
	present bool
}

func validateRateLimiting(rl *domain.RateLimitingPayload) error {
	var required []field
	switch rl.Algorithm {
	case domain.AlgorithmTokenBucket:
		required = []field{
			{"refillRate", rl.RefillRate != 0},
			{"interval", rl.Interval != 0},
			{"capacity", rl.Capacity != 0},
		}
	case domain.AlgorithmFixedWindow, domain.AlgorithmSlidingWindow:
		required = []field{
			{"windowMs", rl.WindowMs != 0},
			{"limit", rl.Limit != 0},
		}
	case domain.AlgorithmLeakyBucket:
		required = []field{
			{"leakRate", rl.LeakRate != 0},
			{"capacity", rl.Capacity != 0},
			{"timeout", rl.Timeout != 0},
		}
	default:
		return &domain.ValidationError{Reason: domain.UnsupportedAlgorithm, Algorithm: rl.Algorithm}
	}

	if missing := missingFields(required); len(missing) > 0 {
		return &domain.ValidationError{Reason: domain.IncompleteRule, Algorithm: rl.Algorithm, Fields: missing}
	}
	if !rl.Mode.Valid() {
		return &domain.ValidationError{Reason: domain.InvalidMode, Algorithm: rl.Algorithm, Fields: []string{string(rl.Algorithm)}}
	}
	if rl.Requested < 0 {
		return &domain.ValidationError{Reason: domain.InvalidRequested, Algorithm: rl.Algorithm}
	}
	return nil
}

func validateShield(s *domain.ShieldPayload) error {
	missing := missingFields([]field{
		{"windowMs", s.WindowMs != 0},
		{"limit", s.Limit != 0},
		{"threshold", s.Threshold != 0},
		{"requestDetails", s.RequestDetails != nil},
	})
	if len(missing) > 0 {
		return &domain.ValidationError{Reason: domain.IncompleteShieldRule, Fields: missing}
	}
	if !s.Mode.Valid() {
		return &domain.ValidationError{Reason: domain.InvalidMode, Fields: []string{"shield"}}
	}
	return nil
}

func missingFields(fs []field) []string {
	var out []string
	for _, f := range fs {
		if !f.present {
			out = append(out, f.name)
		}
	}
	return out
}
