package application

import (
	"context"
	"errors"
	"time"

	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

var ErrOutboundSaturated = errors.New("no outbound slot available")

// OutboundGate concentra a contenção das chamadas de saída (vagas em voo e
// vazão), sem saber nada sobre HTTP. Os dois campos são opcionais.
type OutboundGate struct {
	Pool           domain.SlotPool
	Throttle       domain.Throttle
	AcquireTimeout time.Duration
}

// Enter espera o throttle e depois tenta adquirir uma vaga.
// - Se `AcquireTimeout <= 0`, espera indefinidamente (até ctx cancelar).
// - Se `AcquireTimeout > 0`, espera a vaga até o timeout.
// Em caso de erro nenhuma vaga fica presa e release é nil.
func (g OutboundGate) Enter(ctx context.Context) (func(), error) {
	if g.Throttle != nil {
		if err := g.Throttle.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// rate.Limiter recusa quando a espera passaria do deadline
			return nil, errors.Join(ErrOutboundSaturated, err)
		}
	}

	if g.Pool == nil {
		return func() {}, nil
	}

	acqCtx := ctx
	if g.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		acqCtx, cancel = context.WithTimeout(ctx, g.AcquireTimeout)
		defer cancel()
	}

	release, ok := g.Pool.Acquire(acqCtx)
	if ok {
		return release, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, ErrOutboundSaturated
}
