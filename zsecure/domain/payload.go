package domain

// Payload é o corpo JSON de POST {baseUrl}/protection.
// É montado e consumido dentro de uma única chamada de Protect.
type Payload struct {
	Key               string               `json:"key"`
	IdentificationKey string               `json:"identificationKey"`
	UserID            string               `json:"userId"`
	RateLimiting      *RateLimitingPayload `json:"rateLimiting,omitempty"`
	Shield            *ShieldPayload       `json:"shield,omitempty"`
}

// RateLimitingPayload é o formato plano no fio: a tag do algoritmo seguida
// dos campos da variante ativa. Campos de outras variantes ficam zerados e
// são omitidos.
type RateLimitingPayload struct {
	Algorithm Algorithm `json:"algorithm"`
	Mode      Mode      `json:"mode"`

	RefillRate float64 `json:"refillRate,omitempty"`
	Interval   int64   `json:"interval,omitempty"`
	Capacity   int64   `json:"capacity,omitempty"`
	WindowMs   int64   `json:"windowMs,omitempty"`
	Limit      int64   `json:"limit,omitempty"`
	LeakRate   float64 `json:"leakRate,omitempty"`
	Timeout    int64   `json:"timeout,omitempty"`

	Requested int `json:"requested"`
}

type ShieldPayload struct {
	Mode      Mode  `json:"mode"`
	WindowMs  int64 `json:"windowMs"`
	Limit     int64 `json:"limit"`
	Threshold int64 `json:"threshold"`

	RequestDetails *RequestSnapshot `json:"requestDetails"`
}

// RequestSnapshot guarda as partes da requisição já serializadas.
// Partes ausentes viram string vazia.
type RequestSnapshot struct {
	Params string `json:"params"`
	URL    string `json:"url"`
	Query  string `json:"query"`
	Body   string `json:"body"`
}
