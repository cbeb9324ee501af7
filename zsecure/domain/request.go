package domain

import "strings"

// Header mapeia nome de header para seus valores, no mesmo formato de
// http.Header (conversão direta: domain.Header(r.Header)).
type Header map[string][]string

// Values busca o header ignorando maiúsculas/minúsculas, já que a origem
// pode ou não ter canonicalizado os nomes.
func (h Header) Values(name string) []string {
	if h == nil {
		return nil
	}
	if v, ok := h[name]; ok {
		return v
	}
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return nil
}

// RequestContext é a identidade fornecida pela plataforma (ex.: API Gateway).
type RequestContext struct {
	Identity RequestIdentity
}

type RequestIdentity struct {
	SourceIP string
}

// Request é a visão "agnóstica de HTTP" da requisição recebida.
//
// Query, Params e Body aceitam qualquer valor; o normalizer converte cada um
// para texto no snapshot enviado ao shield.
type Request struct {
	Header         Header
	RemoteAddr     string
	RequestContext *RequestContext

	URL    string
	Query  any
	Params any
	Body   any
}
