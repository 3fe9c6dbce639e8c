// Package strategy transforms detected spans. Five strategies are supported:
// replace, redact, encrypt, tokenize and faker. An Engine owns the state that
// makes tokens consistent and ciphertext reversible within one session.
package strategy

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"github.com/redactyl/piimask/internal/types"
	"github.com/redactyl/piimask/internal/whitelist"
)

// Strategy masks the value of a single span.
type Strategy interface {
	Mask(value string, span types.Span) (string, error)
}

const (
	DefaultMaskChar          = '█'
	DefaultReplaceLength     = 8
	DefaultPartialSuffix     = 4
	DefaultRedactPlaceholder = "[REDACTED]"
)

// Options configure an Engine. Zero values select the defaults above.
type Options struct {
	PreserveFormat  bool
	PartialMask     bool
	PreserveDomains bool
	MaskChar        rune
	DigitGlyph      rune
	LetterGlyph     rune
	PartialPrefix   int
	PartialSuffix   int
	ReplaceLength   int
	// RedactPlaceholder may contain {{CATEGORY}}.
	RedactPlaceholder string
	// Key is the 32-byte encryption key; nil generates one.
	Key []byte
	// TokenSeed salts token derivation; empty generates a random seed.
	TokenSeed string
	// Whitelist keeps faker output from colliding with exempt values.
	Whitelist *whitelist.Filter
}

func (o *Options) setDefaults() {
	if o.MaskChar == 0 {
		o.MaskChar = DefaultMaskChar
	}
	if o.DigitGlyph == 0 {
		o.DigitGlyph = o.MaskChar
	}
	if o.LetterGlyph == 0 {
		o.LetterGlyph = o.MaskChar
	}
	if o.ReplaceLength <= 0 {
		o.ReplaceLength = DefaultReplaceLength
	}
	if o.RedactPlaceholder == "" {
		o.RedactPlaceholder = DefaultRedactPlaceholder
	}
}

// Engine dispatches spans to strategies. It is not safe for concurrent use;
// callers serialise access.
type Engine struct {
	opts   Options
	cipher *Cipher
	tokens *TokenStore
	faker  *Faker
	byTag  map[types.Strategy]Strategy
}

// New builds an engine with a fresh or supplied key and token seed.
func New(opts Options) (*Engine, error) {
	opts.setDefaults()
	if !utf8.ValidRune(opts.MaskChar) {
		return nil, fmt.Errorf("invalid mask character %q", opts.MaskChar)
	}
	if opts.PartialPrefix < 0 || opts.PartialSuffix < 0 {
		return nil, fmt.Errorf("partial reveal counts must not be negative")
	}
	key := opts.Key
	if key == nil {
		var err error
		if key, err = GenerateKey(); err != nil {
			return nil, err
		}
	}
	c, err := NewCipher(key)
	if err != nil {
		return nil, err
	}
	seed := opts.TokenSeed
	if seed == "" {
		b := make([]byte, 16)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("token seed: %w", err)
		}
		seed = hex.EncodeToString(b)
	}
	f, err := NewFaker(opts.PreserveFormat, opts.Whitelist)
	if err != nil {
		return nil, err
	}
	e := &Engine{opts: opts, cipher: c, tokens: NewTokenStore(seed), faker: f}
	e.byTag = map[types.Strategy]Strategy{
		types.StrategyReplace:  &Replacer{opts: opts},
		types.StrategyRedact:   Redactor{Placeholder: opts.RedactPlaceholder},
		types.StrategyEncrypt:  c,
		types.StrategyTokenize: e.tokens,
		types.StrategyFaker:    f,
	}
	return e, nil
}

// For returns the strategy registered for tag.
func (e *Engine) For(tag types.Strategy) (Strategy, error) {
	s, ok := e.byTag[tag]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", tag)
	}
	return s, nil
}

// Mask applies the tagged strategy to one span. Empty values stay empty.
func (e *Engine) Mask(tag types.Strategy, value string, span types.Span) (string, error) {
	s, err := e.For(tag)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", nil
	}
	return s.Mask(value, span)
}

// Redact returns the redact placeholder for span; it never fails.
func (e *Engine) Redact(span types.Span) string {
	out, _ := Redactor{Placeholder: e.opts.RedactPlaceholder}.Mask("x", span)
	return out
}

func (e *Engine) Cipher() *Cipher { return e.cipher }

func (e *Engine) Tokens() *TokenStore { return e.tokens }

func (e *Engine) Options() Options { return e.opts }
