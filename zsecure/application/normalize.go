package application

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

// BuildPayload é uma transformação pura: Config + requisição + identidade
// resolvida viram o corpo enviado ao serviço.
func BuildPayload(cfg domain.Config, req domain.Request, userID string, requested int) domain.Payload {
	return domain.Payload{
		Key:               cfg.APIKey,
		IdentificationKey: cfg.IdentificationKey,
		UserID:            userID,
		RateLimiting:      NormalizeRateLimiting(cfg.RateLimitingRule, requested),
		Shield:            NormalizeShield(cfg.ShieldRule, req),
	}
}

// NormalizeRateLimiting achata a variante ativa. Sem regra devolve nil.
func NormalizeRateLimiting(rule domain.RateLimitingRule, requested int) *domain.RateLimitingPayload {
	if rule == nil {
		return nil
	}

	out := &domain.RateLimitingPayload{
		Algorithm: rule.Algorithm(),
		Mode:      rule.RuleMode(),
		Requested: requested,
	}
	switch r := rule.(type) {
	case domain.TokenBucketRule:
		out.RefillRate, out.Interval, out.Capacity = r.RefillRate, r.Interval, r.Capacity
	case domain.FixedWindowRule:
		out.WindowMs, out.Limit = r.WindowMs, r.Limit
	case domain.LeakyBucketRule:
		out.LeakRate, out.Capacity, out.Timeout = r.LeakRate, r.Capacity, r.Timeout
	case domain.SlidingWindowRule:
		out.WindowMs, out.Limit = r.WindowMs, r.Limit
	}
	return out
}

// NormalizeShield copia a regra e anexa o snapshot da requisição.
func NormalizeShield(rule *domain.ShieldRule, req domain.Request) *domain.ShieldPayload {
	if rule == nil {
		return nil
	}
	return &domain.ShieldPayload{
		Mode:      rule.Mode,
		WindowMs:  rule.WindowMs,
		Limit:     rule.Limit,
		Threshold: rule.Threshold,
		RequestDetails: &domain.RequestSnapshot{
			Params: stringify(req.Params),
			URL:    req.URL,
			Query:  stringify(req.Query),
			Body:   stringify(req.Body),
		},
	}
}

// stringify serializa cada parte de forma independente; ausente vira "".
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case json.RawMessage:
		return string(t)
	case url.Values:
		return t.Encode()
	case fmt.Stringer:
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
