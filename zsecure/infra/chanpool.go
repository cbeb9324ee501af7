package infra

import (
	"context"

	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

// ChanPool limita quantas chamadas ao serviço ficam em voo ao mesmo tempo.
type ChanPool struct {
	sem chan struct{}
}

var _ domain.SlotPool = (*ChanPool)(nil)

// NewChanPool cria um pool baseado em channel com capacidade `max` (> 0).
func NewChanPool(max int) *ChanPool {
	return &ChanPool{sem: make(chan struct{}, max)}
}

func (p *ChanPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.sem <- struct{}{}:
		return func() { <-p.sem }, true
	case <-ctx.Done():
		return nil, false
	}
}

func (p *ChanPool) InUse() int { return len(p.sem) }
func (p *ChanPool) Cap() int   { return cap(p.sem) }
