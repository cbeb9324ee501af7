package domain

import (
	"context"
	"time"
)

// StatsEvent representa o desfecho de uma chamada de Protect.
//
// Outcome é "remote" quando o serviço respondeu, ou a Reason da negação local.
// Observação: cuidado com cardinalidade ao guardar UserID.
type StatsEvent struct {
	UserID  string
	Outcome string
	Status  int

	At time.Time
}

const OutcomeRemote = "remote"

// StatsStore é a estratégia de persistência das estatísticas.
// O dispatcher trata erro como best-effort (nunca muda a decisão).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}

func EventFor(userID string, d Decision, at time.Time) StatsEvent {
	ev := StatsEvent{UserID: userID, Outcome: OutcomeRemote, Status: d.Status, At: at}
	if d.Local() {
		ev.Outcome = string(d.Reason)
	}
	return ev
}
