package domain

// Camada de domínio das regras.
//
// RateLimitingRule é um tipo soma fechado: cada variante carrega o próprio
// conjunto de campos e informa o seu Algorithm(). Não existe forma de
// combinar a tag de um algoritmo com os campos de outro.

type Mode string

const (
	ModeLive   Mode = "LIVE"
	ModeDryRun Mode = "DRY_RUN"
)

func (m Mode) Valid() bool {
	return m == ModeLive || m == ModeDryRun
}

type Algorithm string

const (
	AlgorithmTokenBucket   Algorithm = "TokenBucketRule"
	AlgorithmFixedWindow   Algorithm = "FixedWindowRule"
	AlgorithmLeakyBucket   Algorithm = "LeakyBucketRule"
	AlgorithmSlidingWindow Algorithm = "SlidingWindowRule"
)

// Known informa se a tag pertence ao conjunto fechado de algoritmos aceitos
// pelo serviço remoto.
func (a Algorithm) Known() bool {
	switch a {
	case AlgorithmTokenBucket, AlgorithmFixedWindow, AlgorithmLeakyBucket, AlgorithmSlidingWindow:
		return true
	}
	return false
}

// RateLimitingRule representa exatamente um algoritmo de rate limit ativo.
// Só as variantes deste pacote implementam a interface.
type RateLimitingRule interface {
	Algorithm() Algorithm
	RuleMode() Mode
	rateLimitingRule()
}

type TokenBucketRule struct {
	Mode       Mode
	RefillRate float64
	Interval   int64
	Capacity   int64
}

type FixedWindowRule struct {
	Mode     Mode
	WindowMs int64
	Limit    int64
}

type LeakyBucketRule struct {
	Mode     Mode
	LeakRate float64
	Capacity int64
	Timeout  int64
}

type SlidingWindowRule struct {
	Mode     Mode
	WindowMs int64
	Limit    int64
}

func (TokenBucketRule) Algorithm() Algorithm   { return AlgorithmTokenBucket }
func (FixedWindowRule) Algorithm() Algorithm   { return AlgorithmFixedWindow }
func (LeakyBucketRule) Algorithm() Algorithm   { return AlgorithmLeakyBucket }
func (SlidingWindowRule) Algorithm() Algorithm { return AlgorithmSlidingWindow }

func (r TokenBucketRule) RuleMode() Mode   { return r.Mode }
func (r FixedWindowRule) RuleMode() Mode   { return r.Mode }
func (r LeakyBucketRule) RuleMode() Mode   { return r.Mode }
func (r SlidingWindowRule) RuleMode() Mode { return r.Mode }

func (TokenBucketRule) rateLimitingRule()   {}
func (FixedWindowRule) rateLimitingRule()   {}
func (LeakyBucketRule) rateLimitingRule()   {}
func (SlidingWindowRule) rateLimitingRule() {}

// ShieldRule é configurado por completo ou fica ausente (nil).
type ShieldRule struct {
	Mode      Mode
	WindowMs  int64
	Limit     int64
	Threshold int64
}
