package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

const DefaultRequested = 1

// Service é o dispatcher: resolve a identidade, monta e valida o payload,
// chama o serviço de proteção e traduz o desfecho em uma domain.Decision.
//
// Todos os campos são lidos apenas; um mesmo Service pode atender chamadas
// concorrentes sem sincronização.
type Service struct {
	Config    domain.Config
	Transport domain.Transport
	Resolver  Resolver
	Gate      OutboundGate

	Logger domain.Logger
	Stats  domain.StatsStore
}

// Protect nunca devolve erro: qualquer falha vira negação local.
//
// userID nil ou "" aciona o Resolver; qualquer outro tipo que não seja
// string é erro do chamador. requested nil significa "não informado" (1).
func (s Service) Protect(ctx context.Context, req domain.Request, userID any, requested *int) domain.Decision {
	id, ok := userIDString(userID)
	if !ok {
		s.debug("invalid userId", "type", fmt.Sprintf("%T", userID))
		return s.finish(ctx, "", domain.Deny(domain.StatusBadRequest, domain.ReasonInvalidUserID, domain.MessageInvalidUserID))
	}
	if id == "" {
		id = s.Resolver.Resolve(req)
	}

	tokens := DefaultRequested
	if requested != nil {
		tokens = *requested
	}

	payload := BuildPayload(s.Config, req, id, tokens)
	if err := Validate(payload); err != nil {
		s.debug("payload rejected", "userId", id, "error", err.Error())
		return s.finish(ctx, id, domain.Deny(domain.StatusBadRequest, domain.ReasonValidation, err.Error()))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logError("encode payload", "userId", id, "error", err.Error())
		return s.finish(ctx, id, internalError())
	}
	s.debug("sending protection request", "url", s.Config.Endpoint(), "payload", maskedPayload(payload))

	return s.finish(ctx, id, s.send(ctx, id, body))
}

func (s Service) send(ctx context.Context, id string, body []byte) domain.Decision {
	if s.Transport == nil {
		s.logError("no transport configured", "userId", id)
		return internalError()
	}

	if s.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Config.Timeout)
		defer cancel()
	}

	release, err := s.Gate.Enter(ctx)
	if err != nil {
		s.logError("outbound gate", "userId", id, "error", err.Error())
		if errors.Is(err, ErrOutboundSaturated) {
			return domain.Deny(domain.StatusSaturated, domain.ReasonSaturated, domain.MessageSaturated)
		}
		return transportFailure(err)
	}
	defer release()

	status, resp, err := s.Transport.Post(ctx, s.Config.Endpoint(), body)
	if err != nil {
		s.logError("protection request failed", "userId", id, "error", err.Error())
		return transportFailure(err)
	}
	s.debug("protection response", "userId", id, "status", status, "body", string(resp))

	switch {
	case status == domain.StatusTooManyRequests:
		return domain.Deny(domain.StatusTooManyRequests, domain.ReasonRateLimited, domain.MessageRateLimited)
	case status < 200 || status > 299:
		s.logError("protection service error", "userId", id, "status", status)
		return internalError()
	case !json.Valid(resp):
		s.logError("malformed protection response", "userId", id, "status", status)
		return internalError()
	}
	return domain.Remote(status, resp)
}

func (s Service) finish(ctx context.Context, id string, d domain.Decision) domain.Decision {
	if s.Stats != nil {
		_ = s.Stats.Record(context.WithoutCancel(ctx), domain.EventFor(id, d, time.Now()))
	}
	return d
}

func transportFailure(err error) domain.Decision {
	if isTimeout(err) {
		return domain.Deny(domain.StatusTimeout, domain.ReasonTimeout, domain.MessageTimeout)
	}
	return internalError()
}

func internalError() domain.Decision {
	return domain.Deny(domain.StatusInternal, domain.ReasonInternal, domain.MessageInternal)
}

type timeoutError interface{ Timeout() bool }

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te timeoutError
	return errors.As(err, &te) && te.Timeout()
}

func userIDString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, utf8.ValidString(t)
	}
	return "", false
}

func (s Service) debug(msg string, kv ...any) {
	if s.Config.Logging && s.Logger != nil {
		s.Logger.Debug(msg, kv...)
	}
}

func (s Service) logError(msg string, kv ...any) {
	if s.Config.Logging && s.Logger != nil {
		s.Logger.Error(msg, kv...)
	}
}

// maskedPayload serializa o payload para log sem expor a API key.
func maskedPayload(p domain.Payload) string {
	p.Key = MaskSecret(p.Key)
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}

// MaskSecret mantém só os 4 primeiros caracteres.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
