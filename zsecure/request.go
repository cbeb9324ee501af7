package zsecure

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

type RequestOption func(*requestSettings)

type requestSettings struct {
	bodyLimit int64
	params    any
	sourceIP  string
}

// WithBody inclui até max bytes do corpo no snapshot do shield. O corpo é
// restaurado para o próximo handler.
func WithBody(max int64) RequestOption {
	return func(s *requestSettings) { s.bodyLimit = max }
}

// WithParams anexa parâmetros de rota (ex.: chi.RouteContext(ctx).URLParams).
func WithParams(v any) RequestOption {
	return func(s *requestSettings) { s.params = v }
}

// WithSourceIP informa o IP visto pela plataforma (API Gateway, edge etc).
func WithSourceIP(ip string) RequestOption {
	return func(s *requestSettings) { s.sourceIP = ip }
}

// FromHTTP converte *http.Request na visão usada pelo cliente.
func FromHTTP(r *http.Request, opts ...RequestOption) domain.Request {
	var s requestSettings
	for _, o := range opts {
		o(&s)
	}

	req := domain.Request{
		Header:     domain.Header(r.Header),
		RemoteAddr: remoteHost(r.RemoteAddr),
		Params:     s.params,
	}
	if r.URL != nil {
		req.URL = r.URL.RequestURI()
		req.Query = r.URL.Query()
	}
	if s.sourceIP != "" {
		req.RequestContext = &domain.RequestContext{Identity: domain.RequestIdentity{SourceIP: s.sourceIP}}
	}
	if s.bodyLimit > 0 && r.Body != nil && r.Body != http.NoBody {
		// corpo ilegível não entra no snapshot; o erro segue para o próximo handler
		if b, err := snapshotBody(r, s.bodyLimit); err == nil {
			req.Body = b
		}
	}
	return req
}

func remoteHost(addr string) string {
	addr = strings.TrimSpace(addr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// snapshotBody lê até max bytes e sempre devolve o que foi lido na frente
// do restante. Se a leitura falhar, o próximo handler recebe os bytes lidos
// e depois o mesmo erro.
func snapshotBody(r *http.Request, max int64) ([]byte, error) {
	head, err := io.ReadAll(io.LimitReader(r.Body, max))
	rest := io.Reader(r.Body)
	if err != nil {
		rest = errReader{err: err}
	}
	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(head), rest), Closer: r.Body}
	if err != nil {
		return nil, err
	}
	return head, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }
