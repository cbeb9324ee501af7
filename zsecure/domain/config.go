package domain

import (
	"strings"
	"time"
)

const (
	DefaultBaseURL = "http://localhost:3000"
	BaseURLEnv     = "BASE_URL"
	ProtectionPath = "/protection"

	DefaultTimeout = 10 * time.Second
)

// Config é criado uma única vez na construção do cliente e não muda depois.
// Leituras concorrentes sem sincronização são seguras.
type Config struct {
	APIKey            string
	BaseURL           string
	Logging           bool
	IdentificationKey string
	Timeout           time.Duration

	RateLimitingRule RateLimitingRule
	ShieldRule       *ShieldRule
}

// Endpoint devolve a URL completa do endpoint de proteção.
func (c Config) Endpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + ProtectionPath
}

// EnvSource é o colaborador que lê o ambiente do processo.
// Mesma assinatura de os.LookupEnv.
type EnvSource func(key string) (string, bool)

// ResolveBaseURL aplica a precedência opção > ambiente > padrão local.
func ResolveBaseURL(explicit string, env EnvSource) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if env != nil {
		if v, ok := env(BaseURLEnv); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return DefaultBaseURL
}
