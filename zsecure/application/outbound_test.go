package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type blockingPool struct{}

func (p *blockingPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case <-time.After(5 * time.Second):
		// não deve chegar aqui nos testes
		return nil, false
	}
}

type immediatePool struct {
	acquired int
	released int
}

func (p *immediatePool) Acquire(ctx context.Context) (func(), bool) {
	p.acquired++
	return func() { p.released++ }, true
}

type fakeThrottle struct {
	err   error
	waits int
}

func (f *fakeThrottle) Wait(ctx context.Context) error {
	f.waits++
	return f.err
}

func TestOutboundGate_Enter_AllowsWhenEmpty(t *testing.T) {
	release, err := OutboundGate{}.Enter(context.Background())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	release()
}

func TestOutboundGate_Enter_AcquireTimeoutIsSaturation(t *testing.T) {
	g := OutboundGate{Pool: &blockingPool{}, AcquireTimeout: 10 * time.Millisecond}

	_, err := g.Enter(context.Background())
	if !errors.Is(err, ErrOutboundSaturated) {
		t.Fatalf("expected ErrOutboundSaturated, got %v", err)
	}
}

func TestOutboundGate_Enter_ParentDeadlineIsContextError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := OutboundGate{Pool: &blockingPool{}}.Enter(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestOutboundGate_Enter_WaitsThrottleThenPool(t *testing.T) {
	pool := &immediatePool{}
	th := &fakeThrottle{}

	release, err := OutboundGate{Pool: pool, Throttle: th}.Enter(context.Background())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	release()

	if th.waits != 1 || pool.acquired != 1 || pool.released != 1 {
		t.Fatalf("expected one wait/acquire/release, got %d/%d/%d", th.waits, pool.acquired, pool.released)
	}
}

func TestOutboundGate_Enter_ThrottleRefusalSkipsPool(t *testing.T) {
	pool := &immediatePool{}
	th := &fakeThrottle{err: errors.New("rate: Wait(n=1) would exceed context deadline")}

	_, err := OutboundGate{Pool: pool, Throttle: th}.Enter(context.Background())
	if !errors.Is(err, ErrOutboundSaturated) {
		t.Fatalf("expected ErrOutboundSaturated, got %v", err)
	}
	if pool.acquired != 0 {
		t.Fatalf("expected pool not to be touched, got %d", pool.acquired)
	}
}
