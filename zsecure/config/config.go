package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/LEVIII007/z-secure-SDK/zsecure"
	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

const (
	EnvAPIKey        = "ZSECURE_API_KEY"
	EnvBaseURL       = "ZSECURE_BASE_URL"
	EnvLogging       = "ZSECURE_LOGGING"
	EnvTimeout       = "ZSECURE_TIMEOUT"
	EnvRulesFile     = "ZSECURE_RULES_FILE"
	EnvMaxInFlight   = "ZSECURE_MAX_IN_FLIGHT"
	EnvAcquireWait   = "ZSECURE_ACQUIRE_TIMEOUT"
	EnvOutboundRPS   = "ZSECURE_OUTBOUND_RPS"
	EnvOutboundBurst = "ZSECURE_OUTBOUND_BURST"
	EnvHTTP2         = "ZSECURE_HTTP2"
)

// Load lê um .env no diretório atual (se existir) e depois o ambiente.
func Load() (zsecure.Options, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// LoadFiles é como Load mas com arquivos .env explícitos; arquivo ausente é erro.
func LoadFiles(files ...string) (zsecure.Options, error) {
	if err := godotenv.Load(files...); err != nil {
		return zsecure.Options{}, fmt.Errorf("load env files: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup monta as opções a partir de uma fonte de ambiente qualquer.
// BASE_URL não é lido aqui: fica com zsecure.New via Options.Env.
func FromLookup(lookup domain.EnvSource) (zsecure.Options, error) {
	e := NewEnv(lookup)

	opts := zsecure.Options{
		APIKey:  e.Get(EnvAPIKey, ""),
		BaseURL: e.Get(EnvBaseURL, ""),
		Env:     lookup,
	}

	var err error
	if opts.Logging, err = e.Bool(EnvLogging, false); err != nil {
		return zsecure.Options{}, err
	}
	if opts.Timeout, err = e.Duration(EnvTimeout, domain.DefaultTimeout); err != nil {
		return zsecure.Options{}, err
	}
	if opts.MaxInFlight, err = e.Int(EnvMaxInFlight, 0); err != nil {
		return zsecure.Options{}, err
	}
	if opts.AcquireTimeout, err = e.Duration(EnvAcquireWait, 0); err != nil {
		return zsecure.Options{}, err
	}
	if opts.OutboundRPS, err = e.Float(EnvOutboundRPS, 0); err != nil {
		return zsecure.Options{}, err
	}
	if opts.OutboundBurst, err = e.Int(EnvOutboundBurst, 0); err != nil {
		return zsecure.Options{}, err
	}
	if opts.HTTP2, err = e.Bool(EnvHTTP2, false); err != nil {
		return zsecure.Options{}, err
	}

	if path := e.Get(EnvRulesFile, ""); path != "" {
		rl, shield, err := LoadRulesFile(path)
		if err != nil {
			return zsecure.Options{}, fmt.Errorf("invalid %s: %w", EnvRulesFile, err)
		}
		opts.RateLimitingRule = rl
		opts.ShieldRule = shield
	}

	return opts, nil
}

// Env lê variáveis tipadas de uma fonte de ambiente. Valor ausente ou em
// branco usa o padrão; valor inválido é erro que nomeia a variável.
type Env struct {
	lookup domain.EnvSource
}

func NewEnv(lookup domain.EnvSource) Env { return Env{lookup: lookup} }

func (e Env) Get(k, def string) string {
	if e.lookup == nil {
		return def
	}
	v, ok := e.lookup(k)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func (e Env) Bool(k string, def bool) (bool, error) {
	v := e.Get(k, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", k, err)
	}
	return b, nil
}

func (e Env) Int(k string, def int) (int, error) {
	v := e.Get(k, "")
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", k, err)
	}
	return i, nil
}

func (e Env) Float(k string, def float64) (float64, error) {
	v := e.Get(k, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", k, err)
	}
	return f, nil
}

func (e Env) Duration(k string, def time.Duration) (time.Duration, error) {
	v := e.Get(k, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", k, err)
	}
	return d, nil
}
