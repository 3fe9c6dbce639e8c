package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/redactyl/piimask/internal/engine"
	"github.com/redactyl/piimask/internal/types"
	"github.com/redactyl/piimask/internal/walker"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "piimask.yaml", `strategy: tokenize
min_confidence: 0.7
preserve_format: false
custom_patterns:
  product: 'PROD-\d{4}'
whitelist: ["admin@company.com"]
enable: email, phone
`)
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Strategy == nil || *cfg.Strategy != "tokenize" {
		t.Fatalf("expected strategy=tokenize, got %#v", cfg.Strategy)
	}
	if cfg.MinConfidence == nil || *cfg.MinConfidence != 0.7 {
		t.Fatalf("expected min_confidence=0.7, got %#v", cfg.MinConfidence)
	}
	if cfg.PreserveFormat == nil || *cfg.PreserveFormat {
		t.Fatalf("expected preserve_format=false")
	}
	if cfg.CustomPatterns["product"] != `PROD-\d{4}` {
		t.Fatalf("unexpected custom patterns %#v", cfg.CustomPatterns)
	}
}

func TestLoadFile_JSON(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "piimask.json", `{"strategy": "redact", "max_depth": 12, "skip_paths": ["audit/**"]}`)
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.MaxDepth == nil || *cfg.MaxDepth != 12 {
		t.Fatalf("expected max_depth=12, got %#v", cfg.MaxDepth)
	}
	if len(cfg.SkipPaths) != 1 || cfg.SkipPaths[0] != "audit/**" {
		t.Fatalf("unexpected skip paths %#v", cfg.SkipPaths)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "piimask.yaml", "strategy: [unclosed\n")
	if _, err := LoadFile(p); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	// place both, expect the dotfile to be picked first by search order
	writeTemp(t, dir, "piimask.yaml", "threads: 1\n")
	writeTemp(t, dir, ".piimask.yaml", "threads: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 7 {
		t.Fatalf("expected threads=7 from .piimask.yaml, got %#v", cfg.Threads)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLocal(dir); err == nil {
		t.Fatal("expected error when no local config exists")
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "piimask")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p := filepath.Join(cfgDir, "config.yml")
	if err := os.WriteFile(p, []byte("threads: 9\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 9 {
		t.Fatalf("expected threads=9 from global config, got %#v", cfg.Threads)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	// Simulate no HOME as well by clearing HOME; LoadGlobal should error
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}

func TestMerge_OverrideWins(t *testing.T) {
	one, two := "redact", "encrypt"
	lo := 0.5
	base := FileConfig{Strategy: &one, MinConfidence: &lo, CustomPatterns: map[string]string{"a": "x", "b": "y"}}
	over := FileConfig{Strategy: &two, CustomPatterns: map[string]string{"b": "z"}}
	got := Merge(base, over)
	if *got.Strategy != "encrypt" {
		t.Fatalf("expected strategy from override, got %s", *got.Strategy)
	}
	if *got.MinConfidence != lo {
		t.Fatalf("expected base min_confidence to survive")
	}
	if got.CustomPatterns["a"] != "x" || got.CustomPatterns["b"] != "z" {
		t.Fatalf("unexpected merged patterns %#v", got.CustomPatterns)
	}
	if base.CustomPatterns["b"] != "y" {
		t.Fatalf("Merge must not modify its inputs")
	}
}

func TestApply(t *testing.T) {
	strategy, mode, enable := "Faker", "lenient", "email, ssn,,"
	conf := 0.6
	fc := FileConfig{
		Strategy:      &strategy,
		ErrorMode:     &mode,
		Enable:        &enable,
		MinConfidence: &conf,
		Rules:         []RuleConfig{{Name: "acct", Pattern: `ACCT-\d+`, Category: "custom", Confidence: 0.85, Keywords: []string{"account"}}},
	}
	cfg := engine.DefaultConfig()
	fc.Apply(&cfg)

	if cfg.Strategy != types.StrategyFaker {
		t.Fatalf("expected faker, got %s", cfg.Strategy)
	}
	if cfg.ErrorMode != walker.Lenient {
		t.Fatalf("expected lenient, got %s", cfg.ErrorMode)
	}
	if len(cfg.EnableRules) != 2 || cfg.EnableRules[1] != "ssn" {
		t.Fatalf("unexpected enable list %#v", cfg.EnableRules)
	}
	if cfg.MinConfidence != 0.6 {
		t.Fatalf("expected min_confidence=0.6, got %v", cfg.MinConfidence)
	}
	if !cfg.PreserveFormat {
		t.Fatalf("unset fields must keep their defaults")
	}
	if len(cfg.CustomRules) != 1 || cfg.CustomRules[0].Confidence != 0.85 {
		t.Fatalf("unexpected custom rules %#v", cfg.CustomRules)
	}
	if _, err := engine.NewSession(cfg); err != nil {
		t.Fatalf("applied config should build a session: %v", err)
	}
}

func TestWriteSample_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"sample.yml", "sample.json"} {
		p := filepath.Join(dir, name)
		if err := WriteSample(p, false); err != nil {
			t.Fatalf("WriteSample(%s): %v", name, err)
		}
		fc, err := LoadFile(p)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", name, err)
		}
		cfg := engine.DefaultConfig()
		fc.Apply(&cfg)
		if _, err := engine.NewSession(cfg); err != nil {
			t.Fatalf("sample %s does not build a session: %v", name, err)
		}
		if err := WriteSample(p, false); err == nil {
			t.Fatalf("expected refusal to overwrite %s", name)
		}
		if err := WriteSample(p, true); err != nil {
			t.Fatalf("forced overwrite: %v", err)
		}
	}
}
