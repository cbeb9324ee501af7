package infra

import (
	"context"
	"sync"

	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento.
//
// Não faz expiração e não é indicada para produção.
type MemoryStatsStore struct {
	mu        sync.Mutex
	total     int64
	byOutcome map[string]int64
	byUser    map[string]map[string]int64

	trackUsers bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackUsers(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackUsers = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byOutcome: make(map[string]int64),
		byUser:    make(map[string]map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	outcome := outcomeField(ev)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.byOutcome[outcome]++
	if s.trackUsers && ev.UserID != "" {
		u := s.byUser[ev.UserID]
		if u == nil {
			u = make(map[string]int64)
			s.byUser[ev.UserID] = u
		}
		u[outcome]++
	}
	return nil
}

func (s *MemoryStatsStore) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByOutcome() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.byOutcome))
	for k, v := range s.byOutcome {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) ByUser(userID string) map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.byUser[userID]))
	for k, v := range s.byUser[userID] {
		out[k] = v
	}
	return out
}

// outcomeField vira o nome do contador: "remote" ou "denied:<reason>".
func outcomeField(ev domain.StatsEvent) string {
	if ev.Outcome == domain.OutcomeRemote || ev.Outcome == "" {
		return domain.OutcomeRemote
	}
	return "denied:" + ev.Outcome
}
