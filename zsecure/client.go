package zsecure

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/LEVIII007/z-secure-SDK/zsecure/application"
	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
	"github.com/LEVIII007/z-secure-SDK/zsecure/infra"
)

type Options struct {
	APIKey  string
	BaseURL string
	Logging bool
	// Timeout limita cada chamada ao serviço (padrão domain.DefaultTimeout;
	// negativo desativa).
	Timeout time.Duration

	RateLimitingRule domain.RateLimitingRule
	ShieldRule       *domain.ShieldRule

	Platform application.Platform
	Proxies  []string

	// Colaboradores opcionais. Sem Transport usa infra.HTTPTransport; sem
	// Logger (e com Logging ligado) usa logrus em stderr; Env padrão os.LookupEnv.
	Transport domain.Transport
	Logger    domain.Logger
	Stats     domain.StatsStore
	Env       domain.EnvSource

	// Contenção de saída (0 = desligado).
	MaxInFlight    int
	AcquireTimeout time.Duration
	OutboundRPS    float64
	OutboundBurst  int
	HTTP2          bool
}

// Client é imutável após New e seguro para uso concorrente.
type Client struct {
	svc application.Service
}

// New valida a configuração. Erros aqui são de configuração e devem ser
// corrigidos antes do primeiro uso.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, domain.ErrMissingAPIKey
	}
	if opts.RateLimitingRule == nil && opts.ShieldRule == nil {
		return nil, domain.ErrNoRules
	}

	key, err := application.GenerateKey(application.DefaultKeyLength)
	if err != nil {
		return nil, err
	}

	env := opts.Env
	if env == nil {
		env = os.LookupEnv
	}

	timeout := opts.Timeout
	switch {
	case timeout == 0:
		timeout = domain.DefaultTimeout
	case timeout < 0:
		timeout = 0
	}

	cfg := domain.Config{
		APIKey:            opts.APIKey,
		BaseURL:           domain.ResolveBaseURL(opts.BaseURL, env),
		Logging:           opts.Logging,
		IdentificationKey: key,
		Timeout:           timeout,
		RateLimitingRule:  opts.RateLimitingRule,
		ShieldRule:        opts.ShieldRule,
	}

	transport := opts.Transport
	if transport == nil {
		tr, err := infra.NewHTTPTransport(infra.WithHTTP2(opts.HTTP2))
		if err != nil {
			return nil, fmt.Errorf("create transport: %w", err)
		}
		transport = tr
	}

	logger := opts.Logger
	if logger == nil {
		if opts.Logging {
			logger = infra.NewJSONLogger(os.Stderr)
		} else {
			logger = domain.NopLogger{}
		}
	}

	gate := application.OutboundGate{
		Throttle:       infra.NewThrottle(opts.OutboundRPS, opts.OutboundBurst),
		AcquireTimeout: opts.AcquireTimeout,
	}
	if opts.MaxInFlight > 0 {
		gate.Pool = infra.NewChanPool(opts.MaxInFlight)
	}

	c := &Client{svc: application.Service{
		Config:    cfg,
		Transport: transport,
		Resolver:  application.Resolver{Platform: opts.Platform, Proxies: opts.Proxies},
		Gate:      gate,
		Logger:    logger,
		Stats:     opts.Stats,
	}}

	if cfg.Logging {
		logger.Info("zsecure client configured",
			"baseUrl", cfg.BaseURL,
			"apiKey", application.MaskSecret(cfg.APIKey),
			"identificationKey", cfg.IdentificationKey,
			"rateLimiting", ruleName(cfg.RateLimitingRule),
			"shield", cfg.ShieldRule != nil,
			"timeout", cfg.Timeout.String(),
			"maxInFlight", opts.MaxInFlight,
			"outboundRps", opts.OutboundRPS)
	}
	return c, nil
}

// Protect decide a requisição. Nunca devolve erro: falhas viram negação local.
//
// userID deve ser string ou nil; nil/"" usa o IP resolvido da requisição.
// requested nil equivale a 1 token; use Tokens(n) para um valor explícito.
func (c *Client) Protect(ctx context.Context, req domain.Request, userID any, requested *int) domain.Decision {
	return c.svc.Protect(ctx, req, userID, requested)
}

// ProtectHTTP adapta r com FromHTTP e usa r.Context().
func (c *Client) ProtectHTTP(r *http.Request, userID any, requested *int, opts ...RequestOption) domain.Decision {
	return c.Protect(r.Context(), FromHTTP(r, opts...), userID, requested)
}

func (c *Client) IdentificationKey() string { return c.svc.Config.IdentificationKey }

func (c *Client) BaseURL() string { return c.svc.Config.BaseURL }

// Tokens devolve um ponteiro para n (quantidade explícita de tokens).
func Tokens(n int) *int { return &n }

func ruleName(r domain.RateLimitingRule) string {
	if r == nil {
		return ""
	}
	return string(r.Algorithm())
}
