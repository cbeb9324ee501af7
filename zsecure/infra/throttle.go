package infra

import (
	"golang.org/x/time/rate"

	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

// NewThrottle cria um token-bucket (x/time/rate) para a vazão de chamadas ao
// serviço de proteção. Ele não decide admissão de requisições: só evita
// despejar chamadas demais no serviço remoto.
//
// rps <= 0 desativa (retorna nil). burst <= 0 vira 1.
func NewThrottle(rps float64, burst int) domain.Throttle {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
