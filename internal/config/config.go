package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redactyl/piimask/internal/engine"
	"github.com/redactyl/piimask/internal/types"
	"github.com/redactyl/piimask/internal/walker"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk configuration shape. Pointer fields distinguish
// "unset" from zero values so that files can be layered.
type FileConfig struct {
	Strategy          *string `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	PreserveFormat    *bool   `yaml:"preserve_format,omitempty" json:"preserve_format,omitempty"`
	PartialMask       *bool   `yaml:"partial_mask,omitempty" json:"partial_mask,omitempty"`
	PreserveDomains   *bool   `yaml:"preserve_domains,omitempty" json:"preserve_domains,omitempty"`
	MaskCharacter     *string `yaml:"mask_character,omitempty" json:"mask_character,omitempty"`
	PartialPrefix     *int    `yaml:"partial_prefix,omitempty" json:"partial_prefix,omitempty"`
	PartialSuffix     *int    `yaml:"partial_suffix,omitempty" json:"partial_suffix,omitempty"`
	ReplaceLength     *int    `yaml:"replace_length,omitempty" json:"replace_length,omitempty"`
	RedactPlaceholder *string `yaml:"redact_placeholder,omitempty" json:"redact_placeholder,omitempty"`
	EncryptionKey     *string `yaml:"encryption_key,omitempty" json:"encryption_key,omitempty"`
	TokenSeed         *string `yaml:"token_seed,omitempty" json:"token_seed,omitempty"`

	CustomPatterns map[string]string `yaml:"custom_patterns,omitempty" json:"custom_patterns,omitempty"`
	Rules          []RuleConfig      `yaml:"rules,omitempty" json:"rules,omitempty"`
	Whitelist      []string          `yaml:"whitelist,omitempty" json:"whitelist,omitempty"`

	MinConfidence *float64 `yaml:"min_confidence,omitempty" json:"min_confidence,omitempty"`
	ContextWindow *int     `yaml:"context_window,omitempty" json:"context_window,omitempty"`
	ContextBonus  *float64 `yaml:"context_bonus,omitempty" json:"context_bonus,omitempty"`
	Enable        *string  `yaml:"enable,omitempty" json:"enable,omitempty"`
	Disable       *string  `yaml:"disable,omitempty" json:"disable,omitempty"`

	MaxDepth  *int     `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`
	ErrorMode *string  `yaml:"error_mode,omitempty" json:"error_mode,omitempty"`
	SkipPaths []string `yaml:"skip_paths,omitempty" json:"skip_paths,omitempty"`

	// CLI only
	Threads   *int    `yaml:"threads,omitempty" json:"threads,omitempty"`
	NoColor   *bool   `yaml:"no_color,omitempty" json:"no_color,omitempty"`
	LogLevel  *string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	LogFormat *string `yaml:"log_format,omitempty" json:"log_format,omitempty"`
}

// RuleConfig declares a custom rule with full metadata.
type RuleConfig struct {
	Name       string   `yaml:"name" json:"name"`
	Pattern    string   `yaml:"pattern" json:"pattern"`
	Category   string   `yaml:"category,omitempty" json:"category,omitempty"`
	Confidence float64  `yaml:"confidence,omitempty" json:"confidence,omitempty"`
	Keywords   []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Override   bool     `yaml:"override,omitempty" json:"override,omitempty"`
}

// LoadFile reads a YAML (or JSON) config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a project config file in the given root.
// It supports .piimask.yml/.yaml and piimask.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".piimask.yml", ".piimask.yaml", "piimask.yml", "piimask.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "piimask", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// Merge layers over on top of base. Set pointer fields and non-empty
// collections in over win; custom patterns are merged key by key.
func Merge(base, over FileConfig) FileConfig {
	out := base
	pick(&out.Strategy, over.Strategy)
	pick(&out.PreserveFormat, over.PreserveFormat)
	pick(&out.PartialMask, over.PartialMask)
	pick(&out.PreserveDomains, over.PreserveDomains)
	pick(&out.MaskCharacter, over.MaskCharacter)
	pick(&out.PartialPrefix, over.PartialPrefix)
	pick(&out.PartialSuffix, over.PartialSuffix)
	pick(&out.ReplaceLength, over.ReplaceLength)
	pick(&out.RedactPlaceholder, over.RedactPlaceholder)
	pick(&out.EncryptionKey, over.EncryptionKey)
	pick(&out.TokenSeed, over.TokenSeed)
	pick(&out.MinConfidence, over.MinConfidence)
	pick(&out.ContextWindow, over.ContextWindow)
	pick(&out.ContextBonus, over.ContextBonus)
	pick(&out.Enable, over.Enable)
	pick(&out.Disable, over.Disable)
	pick(&out.MaxDepth, over.MaxDepth)
	pick(&out.ErrorMode, over.ErrorMode)
	pick(&out.Threads, over.Threads)
	pick(&out.NoColor, over.NoColor)
	pick(&out.LogLevel, over.LogLevel)
	pick(&out.LogFormat, over.LogFormat)

	if len(over.CustomPatterns) > 0 {
		m := make(map[string]string, len(base.CustomPatterns)+len(over.CustomPatterns))
		for k, v := range base.CustomPatterns {
			m[k] = v
		}
		for k, v := range over.CustomPatterns {
			m[k] = v
		}
		out.CustomPatterns = m
	}
	if len(over.Rules) > 0 {
		out.Rules = over.Rules
	}
	if len(over.Whitelist) > 0 {
		out.Whitelist = over.Whitelist
	}
	if len(over.SkipPaths) > 0 {
		out.SkipPaths = over.SkipPaths
	}
	return out
}

func pick[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

// Apply copies every set field of fc onto cfg.
func (fc FileConfig) Apply(cfg *engine.Config) {
	if fc.Strategy != nil {
		cfg.Strategy = types.Strategy(strings.ToLower(*fc.Strategy))
	}
	set(&cfg.PreserveFormat, fc.PreserveFormat)
	set(&cfg.PartialMask, fc.PartialMask)
	set(&cfg.PreserveDomains, fc.PreserveDomains)
	set(&cfg.MaskCharacter, fc.MaskCharacter)
	set(&cfg.PartialPrefix, fc.PartialPrefix)
	set(&cfg.PartialSuffix, fc.PartialSuffix)
	set(&cfg.ReplaceLength, fc.ReplaceLength)
	set(&cfg.RedactPlaceholder, fc.RedactPlaceholder)
	set(&cfg.EncryptionKey, fc.EncryptionKey)
	set(&cfg.TokenSeed, fc.TokenSeed)
	set(&cfg.MinConfidence, fc.MinConfidence)
	set(&cfg.ContextWindow, fc.ContextWindow)
	set(&cfg.ContextBonus, fc.ContextBonus)
	set(&cfg.MaxDepth, fc.MaxDepth)
	if fc.ErrorMode != nil {
		cfg.ErrorMode = walker.ErrorMode(strings.ToLower(*fc.ErrorMode))
	}
	if fc.Enable != nil {
		cfg.EnableRules = SplitList(*fc.Enable)
	}
	if fc.Disable != nil {
		cfg.DisableRules = SplitList(*fc.Disable)
	}
	if len(fc.CustomPatterns) > 0 {
		cfg.CustomPatterns = fc.CustomPatterns
	}
	for _, r := range fc.Rules {
		cfg.CustomRules = append(cfg.CustomRules, engine.CustomRule{
			Name:       r.Name,
			Pattern:    r.Pattern,
			Category:   types.Category(r.Category),
			Confidence: r.Confidence,
			Keywords:   r.Keywords,
			Override:   r.Override,
		})
	}
	if len(fc.Whitelist) > 0 {
		cfg.Whitelist = fc.Whitelist
	}
	if len(fc.SkipPaths) > 0 {
		cfg.SkipPaths = fc.SkipPaths
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// SplitList parses a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Sample returns a configuration populated with the engine defaults and a
// few illustrative custom entries.
func Sample() FileConfig {
	d := engine.DefaultConfig()
	strategy := string(d.Strategy)
	errorMode := string(d.ErrorMode)
	return FileConfig{
		Strategy:          &strategy,
		PreserveFormat:    &d.PreserveFormat,
		PartialMask:       &d.PartialMask,
		PreserveDomains:   &d.PreserveDomains,
		MaskCharacter:     &d.MaskCharacter,
		PartialPrefix:     &d.PartialPrefix,
		PartialSuffix:     &d.PartialSuffix,
		ReplaceLength:     &d.ReplaceLength,
		RedactPlaceholder: &d.RedactPlaceholder,
		MinConfidence:     &d.MinConfidence,
		ContextWindow:     &d.ContextWindow,
		ContextBonus:      &d.ContextBonus,
		MaxDepth:          &d.MaxDepth,
		ErrorMode:         &errorMode,
		CustomPatterns: map[string]string{
			"employee_id": `EMP\d{6}`,
		},
		Rules: []RuleConfig{{
			Name: "internal_account", Pattern: `ACCT-[0-9]{8}`, Category: "custom",
			Confidence: 0.85, Keywords: []string{"account"},
		}},
		Whitelist: []string{"admin@company.com", "*@example.com"},
		SkipPaths: []string{"metadata/**"},
	}
}

// WriteSample writes Sample to path, as JSON when the extension is .json
// and YAML otherwise. Existing files are not overwritten unless force is set.
func WriteSample(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	var (
		b   []byte
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		b, err = json.MarshalIndent(Sample(), "", "  ")
		b = append(b, '\n')
	} else {
		b, err = yaml.Marshal(Sample())
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
