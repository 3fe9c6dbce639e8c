package engine

import (
	"unicode/utf8"

	"github.com/redactyl/piimask/internal/types"
	"github.com/redactyl/piimask/internal/walker"
)

// CustomRule is a user supplied detection rule.
type CustomRule struct {
	Name       string
	Pattern    string
	Category   types.Category
	Confidence float64
	Keywords   []string
	// Override replaces a registered rule of the same name in place.
	Override bool
}

// DefaultCustomConfidence applies to custom patterns given without a confidence.
const DefaultCustomConfidence = 0.9

// Config controls detection and masking. It is validated once by NewSession
// and is immutable for the life of the session. Boolean options are off in
// the zero value; start from DefaultConfig to get the CLI behaviour.
type Config struct {
	Strategy       types.Strategy
	PreserveFormat bool
	PartialMask    bool
	// PreserveDomains keeps the domain of emails under the replace strategy.
	// It is set by DefaultConfig only; a zero Config masks the domain too.
	PreserveDomains bool
	// MaskCharacter must be a single character.
	MaskCharacter     string
	PartialPrefix     int
	PartialSuffix     int
	ReplaceLength     int
	RedactPlaceholder string

	// EncryptionKey is a base64 32-byte key or a passphrase. Empty generates
	// an ephemeral key that can be read back with Session.ExportKey.
	EncryptionKey string
	TokenSeed     string

	// CustomPatterns maps rule names to regular expressions; they join the
	// custom category at DefaultCustomConfidence.
	CustomPatterns map[string]string
	CustomRules    []CustomRule
	Whitelist      []string

	MinConfidence float64
	ContextWindow int
	ContextBonus  float64
	EnableRules   []string
	DisableRules  []string

	MaxDepth  int
	ErrorMode walker.ErrorMode
	SkipPaths []string
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		Strategy:          types.StrategyReplace,
		PreserveFormat:    true,
		PartialMask:       true,
		PreserveDomains:   true,
		MaskCharacter:     "█",
		PartialSuffix:     4,
		ReplaceLength:     8,
		RedactPlaceholder: "[REDACTED]",
		MinConfidence:     0.8,
		ContextWindow:     32,
		ContextBonus:      0.10,
		MaxDepth:          walker.DefaultMaxDepth,
		ErrorMode:         walker.Strict,
	}
}

// Validate checks field ranges and cross-field conflicts.
func (c Config) Validate() error {
	if _, ok := types.ParseStrategy(string(c.Strategy)); !ok {
		return invalidf("strategy", "unknown strategy %q", c.Strategy)
	}
	if c.MaskCharacter != "" && utf8.RuneCountInString(c.MaskCharacter) != 1 {
		return invalidf("mask_character", "must be a single character, got %q", c.MaskCharacter)
	}
	if c.PartialPrefix < 0 || c.PartialSuffix < 0 {
		return invalidf("partial_mask", "reveal counts must not be negative")
	}
	if c.ReplaceLength < 0 {
		return invalidf("replace_length", "must not be negative")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return invalidf("min_confidence", "%.2f outside [0,1]", c.MinConfidence)
	}
	if c.ContextBonus < 0 || c.ContextBonus > 1 {
		return invalidf("context_bonus", "%.2f outside [0,1]", c.ContextBonus)
	}
	if c.MaxDepth < 0 {
		return invalidf("max_depth", "must not be negative")
	}
	switch c.ErrorMode {
	case "", walker.Strict, walker.Lenient:
	default:
		return invalidf("error_mode", "unknown mode %q", c.ErrorMode)
	}

	enabled := map[string]bool{}
	for _, n := range c.EnableRules {
		enabled[n] = true
	}
	for _, n := range c.DisableRules {
		if enabled[n] {
			return invalidf("rules", "%q is both enabled and disabled", n)
		}
	}
	for _, r := range c.CustomRules {
		if _, dup := c.CustomPatterns[r.Name]; dup {
			return invalidf("custom_patterns", "%q is defined twice", r.Name)
		}
		if r.Confidence < 0 || r.Confidence > 1 {
			return invalidf("custom_patterns", "%q: confidence %.2f outside [0,1]", r.Name, r.Confidence)
		}
	}
	return nil
}

func (c Config) maskRune() rune {
	if c.MaskCharacter == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.MaskCharacter)
	return r
}
