package zsecure

import (
	"encoding/json"
	"net/http"

	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

type UserIDFunc func(r *http.Request) any

type RequestedFunc func(r *http.Request) *int

// DenyFunc decide se a decisão bloqueia a requisição e com qual status.
type DenyFunc func(d domain.Decision) (denied bool, status int)

type MiddlewareOptions struct {
	Client      *Client
	UserIDFn    UserIDFunc
	RequestedFn RequestedFunc
	DenyFn      DenyFunc
	// RejectStatus é usado quando a negação remota não informa status (padrão 429).
	RejectStatus int
	// SnapshotBody > 0 inclui até N bytes do corpo no snapshot do shield.
	SnapshotBody int64
	// AddDecisionHeaders expõe X-Zsecure-Status e X-Zsecure-Reason.
	AddDecisionHeaders bool
}

// UserIDFromHeader usa o valor do header como userID (vazio => identidade por IP).
func UserIDFromHeader(name string) UserIDFunc {
	return func(r *http.Request) any {
		if v := r.Header.Get(name); v != "" {
			return v
		}
		return nil
	}
}

// DefaultDenyFunc bloqueia negações locais e respostas remotas com
// "isDenied": true ou "allow": false.
func DefaultDenyFunc(rejectStatus int) DenyFunc {
	return func(d domain.Decision) (bool, int) {
		if d.Local() {
			return d.IsDenied, d.Status
		}

		var body struct {
			IsDenied *bool `json:"isDenied"`
			Allow    *bool `json:"allow"`
			Status   int   `json:"status"`
		}
		if err := json.Unmarshal(d.Body, &body); err != nil {
			return false, 0
		}
		denied := (body.IsDenied != nil && *body.IsDenied) || (body.Allow != nil && !*body.Allow)
		if !denied {
			return false, 0
		}
		if body.Status >= 400 && body.Status <= 599 {
			return true, body.Status
		}
		return true, rejectStatus
	}
}

// Middleware consulta o serviço de proteção antes de cada requisição.
// Requisições negadas recebem o JSON da decisão e não chegam em next.
func Middleware(opts MiddlewareOptions) func(next http.Handler) http.Handler {
	if opts.Client == nil {
		panic("zsecure: Middleware requires a Client")
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.DenyFn == nil {
		opts.DenyFn = DefaultDenyFunc(opts.RejectStatus)
	}

	var reqOpts []RequestOption
	if opts.SnapshotBody > 0 {
		reqOpts = append(reqOpts, WithBody(opts.SnapshotBody))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var userID any
			if opts.UserIDFn != nil {
				userID = opts.UserIDFn(r)
			}
			var requested *int
			if opts.RequestedFn != nil {
				requested = opts.RequestedFn(r)
			}

			dec := opts.Client.ProtectHTTP(r, userID, requested, reqOpts...)

			if opts.AddDecisionHeaders {
				w.Header().Set("X-Zsecure-Status", formatInt(dec.Status))
				if dec.Reason != domain.ReasonNone {
					w.Header().Set("X-Zsecure-Reason", string(dec.Reason))
				}
			}

			denied, status := opts.DenyFn(dec)
			if !denied {
				next.ServeHTTP(w, r)
				return
			}
			if status == 0 {
				status = opts.RejectStatus
			}
			writeDecision(w, status, dec)
		})
	}
}

func writeDecision(w http.ResponseWriter, status int, d domain.Decision) {
	b, err := json.Marshal(d)
	if err != nil {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}
