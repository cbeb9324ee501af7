// Package config carrega as opções do SDK a partir do ambiente (com .env
// opcional via godotenv) e de arquivos de regras YAML ou TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.yaml.in/yaml/v2"

	"github.com/LEVIII007/z-secure-SDK/zsecure/domain"
)

var (
	ErrUnknownAlgorithm = errors.New("unknown rate limiting algorithm")
	ErrForeignField     = errors.New("field does not belong to algorithm")
	ErrUnsupportedFile  = errors.New("unsupported rules file extension")
)

// RulesFile é o formato em disco:
//
//	rate_limiting:
//	  algorithm: FixedWindowRule
//	  mode: LIVE
//	  window_ms: 60000
//	  limit: 5
//	shield:
//	  mode: LIVE
//	  window_ms: 60000
//	  limit: 100
//	  threshold: 5
type RulesFile struct {
	RateLimiting *RuleSpec   `yaml:"rate_limiting" toml:"rate_limiting"`
	Shield       *ShieldSpec `yaml:"shield" toml:"shield"`
}

// RuleSpec é a forma plana de arquivo; ToRule a converte na variante certa
// e recusa campos de outro algoritmo.
type RuleSpec struct {
	Algorithm  string  `yaml:"algorithm" toml:"algorithm"`
	Mode       string  `yaml:"mode" toml:"mode"`
	RefillRate float64 `yaml:"refill_rate" toml:"refill_rate"`
	Interval   int64   `yaml:"interval" toml:"interval"`
	Capacity   int64   `yaml:"capacity" toml:"capacity"`
	WindowMs   int64   `yaml:"window_ms" toml:"window_ms"`
	Limit      int64   `yaml:"limit" toml:"limit"`
	LeakRate   float64 `yaml:"leak_rate" toml:"leak_rate"`
	Timeout    int64   `yaml:"timeout" toml:"timeout"`
}

type ShieldSpec struct {
	Mode      string `yaml:"mode" toml:"mode"`
	WindowMs  int64  `yaml:"window_ms" toml:"window_ms"`
	Limit     int64  `yaml:"limit" toml:"limit"`
	Threshold int64  `yaml:"threshold" toml:"threshold"`
}

func (s RuleSpec) ToRule() (domain.RateLimitingRule, error) {
	mode := domain.Mode(strings.ToUpper(strings.TrimSpace(s.Mode)))
	alg := domain.Algorithm(strings.TrimSpace(s.Algorithm))

	var (
		rule    domain.RateLimitingRule
		foreign []string
	)
	switch alg {
	case domain.AlgorithmTokenBucket:
		rule = domain.TokenBucketRule{Mode: mode, RefillRate: s.RefillRate, Interval: s.Interval, Capacity: s.Capacity}
		foreign = s.setFields("window_ms", "limit", "leak_rate", "timeout")
	case domain.AlgorithmFixedWindow:
		rule = domain.FixedWindowRule{Mode: mode, WindowMs: s.WindowMs, Limit: s.Limit}
		foreign = s.setFields("refill_rate", "interval", "capacity", "leak_rate", "timeout")
	case domain.AlgorithmSlidingWindow:
		rule = domain.SlidingWindowRule{Mode: mode, WindowMs: s.WindowMs, Limit: s.Limit}
		foreign = s.setFields("refill_rate", "interval", "capacity", "leak_rate", "timeout")
	case domain.AlgorithmLeakyBucket:
		rule = domain.LeakyBucketRule{Mode: mode, LeakRate: s.LeakRate, Capacity: s.Capacity, Timeout: s.Timeout}
		foreign = s.setFields("refill_rate", "interval", "window_ms", "limit")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s.Algorithm)
	}

	if len(foreign) > 0 {
		return nil, fmt.Errorf("%w %s: %s", ErrForeignField, alg, strings.Join(foreign, ", "))
	}
	return rule, nil
}

func (s RuleSpec) setFields(names ...string) []string {
	set := map[string]bool{
		"refill_rate": s.RefillRate != 0,
		"interval":    s.Interval != 0,
		"capacity":    s.Capacity != 0,
		"window_ms":   s.WindowMs != 0,
		"limit":       s.Limit != 0,
		"leak_rate":   s.LeakRate != 0,
		"timeout":     s.Timeout != 0,
	}
	var out []string
	for _, n := range names {
		if set[n] {
			out = append(out, n)
		}
	}
	return out
}

func (s ShieldSpec) ToRule() *domain.ShieldRule {
	return &domain.ShieldRule{
		Mode:      domain.Mode(strings.ToUpper(strings.TrimSpace(s.Mode))),
		WindowMs:  s.WindowMs,
		Limit:     s.Limit,
		Threshold: s.Threshold,
	}
}

// Rules converte o arquivo nas regras de domínio (qualquer uma pode ser nil).
func (f RulesFile) Rules() (domain.RateLimitingRule, *domain.ShieldRule, error) {
	var (
		rl     domain.RateLimitingRule
		shield *domain.ShieldRule
	)
	if f.RateLimiting != nil {
		r, err := f.RateLimiting.ToRule()
		if err != nil {
			return nil, nil, err
		}
		rl = r
	}
	if f.Shield != nil {
		shield = f.Shield.ToRule()
	}
	return rl, shield, nil
}

func DecodeYAML(data []byte) (RulesFile, error) {
	var f RulesFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return RulesFile{}, fmt.Errorf("decode yaml rules: %w", err)
	}
	return f, nil
}

func DecodeTOML(data []byte) (RulesFile, error) {
	var f RulesFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return RulesFile{}, fmt.Errorf("decode toml rules: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return RulesFile{}, fmt.Errorf("decode toml rules: unknown keys %v", undec)
	}
	return f, nil
}

// LoadRulesFile escolhe o decoder pela extensão (.yaml, .yml, .toml).
func LoadRulesFile(path string) (domain.RateLimitingRule, *domain.ShieldRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var f RulesFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err = DecodeYAML(data)
	case ".toml":
		f, err = DecodeTOML(data)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
	if err != nil {
		return nil, nil, err
	}
	return f.Rules()
}
