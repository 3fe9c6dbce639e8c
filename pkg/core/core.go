package core

import (
	"github.com/redactyl/piimask/internal/detectors"
	"github.com/redactyl/piimask/internal/engine"
	"github.com/redactyl/piimask/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Config     = engine.Config
	CustomRule = engine.CustomRule
	Session    = engine.Session
	Result     = engine.Result
	Option     = engine.Option
	Finding    = types.Finding
	Strategy   = types.Strategy
	Category   = types.Category
)

const (
	Replace  = types.StrategyReplace
	Redact   = types.StrategyRedact
	Encrypt  = types.StrategyEncrypt
	Tokenize = types.StrategyTokenize
	Faker    = types.StrategyFaker
)

var (
	ErrInvalidConfig = engine.ErrInvalidConfig
	ErrUnknownToken  = engine.ErrUnknownToken
)

// NewSession is the stable entrypoint for other programs. Build cfg from
// DefaultConfig: a zero Config turns off format preservation, partial reveal
// and email domain preservation.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	return engine.NewSession(cfg, opts...)
}

var (
	WithRegistry = engine.WithRegistry
	WithLogger   = engine.WithLogger
)

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config { return engine.DefaultConfig() }

// DetectorIDs returns the names of the built-in rules in priority order.
// This is exposed for convenience to avoid importing internals directly.
func DetectorIDs() []string { return detectors.IDs() }

// Mask is a one-shot helper: it builds a session from cfg and masks v.
func Mask(cfg Config, v any) (any, error) {
	s, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return s.MaskValue(v)
}
