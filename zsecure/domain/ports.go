package domain

import "context"

// Transport é o colaborador HTTP: recebe URL e corpo JSON e devolve o status
// e o corpo da resposta. Status de erro (4xx/5xx) não são erro do Go; só
// falhas de transporte (rede, contexto) voltam em err.
type Transport interface {
	Post(ctx context.Context, url string, body []byte) (status int, respBody []byte, err error)
}

// Logger é o colaborador de log estruturado (pares chave/valor).
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Error(msg string, kv ...any)
}

type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

// Throttle limita a vazão de chamadas de saída. Wait bloqueia até liberar ou
// até o ctx encerrar. *rate.Limiter (golang.org/x/time/rate) satisfaz.
type Throttle interface {
	Wait(ctx context.Context) error
}
