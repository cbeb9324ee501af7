package application

import (
	"strings"

	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

const (
	ForwardedForHeader = "X-Forwarded-For"
	FallbackClientIP   = "127.0.0.1"
)

type Platform string

const (
	PlatformCloudflare Platform = "cloudflare"
	PlatformFlyIO      Platform = "fly-io"
	PlatformVercel     Platform = "vercel"
)

// Resolver extrai o IP do cliente confiando no proxy.
//
// Headers de encaminhamento podem ser forjados pelo cliente. Platform e
// Proxies são aceitos para uma futura allowlist de proxies confiáveis mas
// ainda não alteram a resolução.
type Resolver struct {
	Platform Platform
	Proxies  []string
}

// Resolve nunca falha; a primeira fonte com valor vence:
// X-Forwarded-For, endereço remoto do transporte, IP da plataforma, 127.0.0.1.
func (Resolver) Resolve(req domain.Request) string {
	if ip := forwardedFor(req.Header.Values(ForwardedForHeader)); ip != "" {
		return ip
	}

	if req.RemoteAddr != "" {
		return req.RemoteAddr
	}

	if req.RequestContext != nil && req.RequestContext.Identity.SourceIP != "" {
		return req.RequestContext.Identity.SourceIP
	}

	return FallbackClientIP
}

// forwardedFor devolve "" para header ausente ou com primeiro token vazio,
// e a resolução segue para a próxima fonte.
func forwardedFor(vals []string) string {
	switch {
	case len(vals) == 0:
		return ""
	case len(vals) > 1:
		// lista de valores: o primeiro é o cliente original
		return vals[0]
	}
	first, _, _ := strings.Cut(vals[0], ",")
	return strings.TrimSpace(first)
}

func ResolveClientIP(req domain.Request) string {
	return Resolver{}.Resolve(req)
}
