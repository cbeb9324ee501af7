package domain

import "encoding/json"

// Reason identifica por que uma decisão local foi sintetizada.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonInvalidUserID Reason = "invalid_user_id"
	ReasonValidation    Reason = "validation"
	ReasonRateLimited   Reason = "rate_limited"
	ReasonTimeout       Reason = "timeout"
	ReasonSaturated     Reason = "saturated"
	ReasonInternal      Reason = "internal"
)

const (
	MessageInvalidUserID = "Invalid userId"
	MessageRateLimited   = "Rate limit exceeded"
	MessageTimeout       = "Protection request timed out"
	MessageSaturated     = "Too many in-flight protection requests"
	MessageInternal      = "Internal server error"

	StatusBadRequest      = 400
	StatusTooManyRequests = 429
	StatusInternal        = 500
	StatusSaturated       = 503
	StatusTimeout         = 504
)

// Decision é o que Protect devolve.
//
// Quando o serviço remoto respondeu com sucesso, Body carrega o JSON
// recebido sem alterações e Status o código HTTP: o SDK não interpreta a
// decisão remota. Caso contrário é uma negação local
// {isDenied, status, message}.
type Decision struct {
	IsDenied bool
	Status   int
	Message  string
	Reason   Reason

	Body json.RawMessage
}

func Deny(status int, reason Reason, message string) Decision {
	return Decision{IsDenied: true, Status: status, Reason: reason, Message: message}
}

func Remote(status int, body []byte) Decision {
	return Decision{Status: status, Body: json.RawMessage(body)}
}

// Local informa se a decisão foi sintetizada pelo SDK.
func (d Decision) Local() bool { return d.Body == nil }

type localDecision struct {
	IsDenied bool   `json:"isDenied"`
	Status   int    `json:"status"`
	Message  string `json:"message"`
}

// MarshalJSON devolve o corpo remoto intacto, ou o registro local.
func (d Decision) MarshalJSON() ([]byte, error) {
	if !d.Local() {
		return d.Body, nil
	}
	return json.Marshal(localDecision{IsDenied: d.IsDenied, Status: d.Status, Message: d.Message})
}
