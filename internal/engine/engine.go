package engine

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/redactyl/piimask/internal/detectors"
	"github.com/redactyl/piimask/internal/registry"
	"github.com/redactyl/piimask/internal/strategy"
	"github.com/redactyl/piimask/internal/types"
	"github.com/redactyl/piimask/internal/walker"
	"github.com/redactyl/piimask/internal/whitelist"
	"go.uber.org/zap"
)

// Option customises a Session.
type Option func(*Session)

// WithRegistry replaces the built-in registry. The session works on a clone,
// so custom rules from the config never leak into reg.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Session) { s.reg = reg }
}

// WithLogger sets the logger. Sessions log paths and rule names, never values.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Session masks values under one configuration. Token mappings and the
// encryption key live as long as the session. A Session may be shared across
// goroutines: detection runs concurrently and strategy calls are serialised.
type Session struct {
	id     string
	cfg    Config
	reg    *registry.Registry
	det    *detectors.Detector
	eng    *strategy.Engine
	walker *walker.Walker
	log    *zap.Logger

	mu sync.Mutex
}

// Result is the outcome of Session.Mask.
type Result struct {
	Value any
	// Skipped lists leaves replaced by the redact placeholder in lenient mode.
	Skipped []*walker.LeafError
}

// Err folds Skipped into a single error, or nil.
func (r Result) Err() error {
	return walker.Combine(r.Skipped)
}

// NewSession validates cfg and builds a session. Every configuration problem
// is reported as an *InvalidConfigError.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if cfg.Strategy == "" {
		cfg.Strategy = types.StrategyReplace
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	st, _ := types.ParseStrategy(string(cfg.Strategy))
	cfg.Strategy = st

	s := &Session{id: uuid.NewString(), cfg: cfg, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	if s.reg == nil {
		reg, err := detectors.NewRegistry()
		if err != nil {
			return nil, invalid("registry", err)
		}
		s.reg = reg
	} else {
		s.reg = s.reg.Clone()
	}
	if err := s.registerCustom(); err != nil {
		return nil, err
	}

	wl, err := whitelist.New(cfg.Whitelist)
	if err != nil {
		return nil, invalid("whitelist", err)
	}
	s.det, err = detectors.New(s.reg, detectors.Options{
		MinConfidence: cfg.MinConfidence,
		Whitelist:     wl,
		ContextWindow: cfg.ContextWindow,
		ContextBonus:  cfg.ContextBonus,
		Enable:        cfg.EnableRules,
		Disable:       cfg.DisableRules,
	})
	if err != nil {
		return nil, invalid("rules", err)
	}

	var key []byte
	if cfg.EncryptionKey != "" {
		if key, err = strategy.ParseKey(cfg.EncryptionKey); err != nil {
			return nil, invalid("encryption_key", err)
		}
	}
	s.eng, err = strategy.New(strategy.Options{
		PreserveFormat:    cfg.PreserveFormat,
		PartialMask:       cfg.PartialMask,
		PreserveDomains:   cfg.PreserveDomains,
		MaskChar:          cfg.maskRune(),
		PartialPrefix:     cfg.PartialPrefix,
		PartialSuffix:     cfg.PartialSuffix,
		ReplaceLength:     cfg.ReplaceLength,
		RedactPlaceholder: cfg.RedactPlaceholder,
		Key:               key,
		TokenSeed:         cfg.TokenSeed,
		Whitelist:         wl,
	})
	if err != nil {
		return nil, invalid("strategy", err)
	}

	s.walker, err = walker.New(s.det, s.maskSpan, walker.Options{
		MaxDepth:    cfg.MaxDepth,
		ErrorMode:   cfg.ErrorMode,
		SkipPaths:   cfg.SkipPaths,
		Placeholder: s.eng.Redact,
	})
	if err != nil {
		return nil, invalid("walker", err)
	}

	s.log = s.log.With(zap.String("session", s.id))
	s.log.Info("session created",
		zap.String("strategy", string(cfg.Strategy)),
		zap.Int("rules", len(s.det.Rules())),
		zap.Int("whitelist", wl.Len()),
		zap.Bool("supplied_key", key != nil),
	)
	return s, nil
}

func (s *Session) registerCustom() error {
	names := make([]string, 0, len(s.cfg.CustomPatterns))
	for n := range s.cfg.CustomPatterns {
		names = append(names, n)
	}
	sort.Strings(names)
	rules := make([]CustomRule, 0, len(names)+len(s.cfg.CustomRules))
	for _, n := range names {
		rules = append(rules, CustomRule{Name: n, Pattern: s.cfg.CustomPatterns[n]})
	}
	rules = append(rules, s.cfg.CustomRules...)

	for _, cr := range rules {
		conf := cr.Confidence
		if conf == 0 {
			conf = DefaultCustomConfidence
		}
		r, err := registry.Compile(cr.Name, cr.Category, cr.Pattern, conf)
		if err != nil {
			return invalid("custom_patterns", err)
		}
		r.Keywords = cr.Keywords
		if err := s.reg.Register(r, cr.Override); err != nil {
			return invalid("custom_patterns", err)
		}
	}
	return nil
}

func (s *Session) maskSpan(value string, span types.Span) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Mask(s.cfg.Strategy, value, span)
}

// ID returns the random identifier attached to this session's log lines.
func (s *Session) ID() string { return s.id }

// Config returns the validated configuration.
func (s *Session) Config() Config { return s.cfg }

// Rules returns the rules the session's detector applies, in priority order.
func (s *Session) Rules() []registry.Rule { return s.det.Rules() }

// Mask returns a masked copy of v. Only string leaves change; maps keep
// their keys and sequences their order.
func (s *Session) Mask(v any) (Result, error) {
	out, skipped, err := s.walker.Mask(v)
	if err != nil {
		s.log.Warn("mask failed", zap.Error(err))
		return Result{}, err
	}
	for _, le := range skipped {
		s.log.Warn("leaf redacted after masking error",
			zap.String("path", le.Path), zap.String("rule", le.Rule), zap.NamedError("cause", le.Err))
	}
	return Result{Value: out, Skipped: skipped}, nil
}

// MaskValue is Mask without the skipped-leaf report.
func (s *Session) MaskValue(v any) (any, error) {
	res, err := s.Mask(v)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// MaskText masks a single string.
func (s *Session) MaskText(text string) (string, error) {
	out, err := s.MaskValue(text)
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// Detect returns the spans found in a single string.
func (s *Session) Detect(text string) []types.Span {
	return s.det.Detect(text)
}

// Analyze reports detections in v without masking.
func (s *Session) Analyze(v any) ([]types.Finding, error) {
	findings, err := s.walker.Analyze(v)
	if err != nil {
		return nil, err
	}
	s.log.Debug("analysis complete", zap.Int("findings", len(findings)))
	return findings, nil
}

// Decrypt reverses encryption by replacing every embedded token with its
// plaintext. Text without tokens comes back unchanged, so Decrypt inverts
// MaskText for any input. A malformed token, or one that does not open under
// this session's key, is a *strategy.DecryptionError.
func (s *Session) Decrypt(text string) (string, error) {
	out, _, err := s.eng.Cipher().DecryptAll(text)
	if err != nil {
		return "", err
	}
	return out, nil
}

// DecryptValue decrypts every token in the string leaves of v.
func (s *Session) DecryptValue(v any) (any, error) {
	c := s.eng.Cipher()
	w, err := walker.New(spanFunc(strategy.FindTokens), func(tok string, _ types.Span) (string, error) {
		return c.Decrypt(tok)
	}, walker.Options{MaxDepth: s.cfg.MaxDepth})
	if err != nil {
		return nil, err
	}
	out, _, err := w.Mask(v)
	return out, err
}

// Detokenize replaces the tokens this session minted in text with their
// original values. It fails with ErrUnknownToken when none are found.
func (s *Session) Detokenize(text string) (string, error) {
	out, n := s.eng.Tokens().Detokenize(text)
	if n == 0 {
		return "", ErrUnknownToken
	}
	return out, nil
}

// DetokenizeValue reverses tokenization in every string leaf of v. Unknown
// tokens are left as they are.
func (s *Session) DetokenizeValue(v any) (any, error) {
	ts := s.eng.Tokens()
	w, err := walker.New(spanFunc(ts.FindTokens), func(tok string, _ types.Span) (string, error) {
		orig, _, ok := ts.Lookup(tok)
		if !ok {
			return "", ErrUnknownToken
		}
		return orig, nil
	}, walker.Options{MaxDepth: s.cfg.MaxDepth})
	if err != nil {
		return nil, err
	}
	out, _, err := w.Mask(v)
	return out, err
}

// ExportKey returns the session key in the base64 form accepted by
// Config.EncryptionKey. The engine never stores it anywhere.
func (s *Session) ExportKey() string {
	return strategy.EncodeKey(s.eng.Cipher().Key())
}

// IsDecryptionError reports whether err came from a failed decryption.
func IsDecryptionError(err error) bool {
	return errors.Is(err, strategy.ErrDecryption)
}

type spanFunc func(string) []types.Span

func (f spanFunc) Detect(text string) []types.Span { return f(text) }
