package infra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// MaxResponseBytes limita a leitura do corpo de resposta do serviço.
const MaxResponseBytes = 1 << 20 // 1 MB

// ErrResponseTooLarge indica resposta acima de MaxResponseBytes; o corpo não
// é truncado.
var ErrResponseTooLarge = errors.New("protection response exceeds size limit")

// HTTPTransport implementa domain.Transport com POST JSON.
// O timeout da chamada vem do ctx (o dispatcher aplica Config.Timeout).
type HTTPTransport struct {
	client    *http.Client
	userAgent string
}

type HTTPTransportOption func(*httpTransportSettings)

type httpTransportSettings struct {
	client          *http.Client
	http2           bool
	maxIdlePerHost  int
	idleConnTimeout time.Duration
	dialTimeout     time.Duration
	userAgent       string
}

// WithHTTPClient usa um *http.Client pronto (demais opções de conexão são ignoradas).
func WithHTTPClient(c *http.Client) HTTPTransportOption {
	return func(s *httpTransportSettings) { s.client = c }
}

func WithHTTP2(enabled bool) HTTPTransportOption {
	return func(s *httpTransportSettings) { s.http2 = enabled }
}

func WithMaxIdleConnsPerHost(n int) HTTPTransportOption {
	return func(s *httpTransportSettings) { s.maxIdlePerHost = n }
}

func WithDialTimeout(d time.Duration) HTTPTransportOption {
	return func(s *httpTransportSettings) { s.dialTimeout = d }
}

func WithUserAgent(ua string) HTTPTransportOption {
	return func(s *httpTransportSettings) { s.userAgent = ua }
}

func NewHTTPTransport(opts ...HTTPTransportOption) (*HTTPTransport, error) {
	s := &httpTransportSettings{
		maxIdlePerHost:  16,
		idleConnTimeout: 90 * time.Second,
		dialTimeout:     5 * time.Second,
		userAgent:       "z-secure-go",
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client != nil {
		return &HTTPTransport{client: s.client, userAgent: s.userAgent}, nil
	}

	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: s.maxIdlePerHost,
		IdleConnTimeout:     s.idleConnTimeout,
		DialContext: (&net.Dialer{
			Timeout:   s.dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     s.http2,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if s.http2 {
		if err := http2.ConfigureTransport(tr); err != nil {
			return nil, fmt.Errorf("configure http2 transport: %w", err)
		}
	}

	return &HTTPTransport{client: &http.Client{Transport: tr}, userAgent: s.userAgent}, nil
}

func (t *HTTPTransport) Post(ctx context.Context, url string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("build protection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read protection response: %w", err)
	}
	if len(data) > MaxResponseBytes {
		return resp.StatusCode, nil, fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, MaxResponseBytes)
	}
	return resp.StatusCode, data, nil
}

// CloseIdleConnections libera conexões ociosas do pool do cliente.
func (t *HTTPTransport) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}
