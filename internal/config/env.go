package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. PIIMASK_STRATEGY.
const EnvPrefix = "PIIMASK"

// LoadEnv reads PIIMASK_* environment variables into a FileConfig. Keys
// use the file names with underscores, so min_confidence is read from
// PIIMASK_MIN_CONFIDENCE. List values are comma-separated.
func LoadEnv() FileConfig {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var fc FileConfig
	fc.Strategy = envString(v, "strategy")
	fc.MaskCharacter = envString(v, "mask_character")
	fc.RedactPlaceholder = envString(v, "redact_placeholder")
	fc.EncryptionKey = envString(v, "encryption_key")
	fc.TokenSeed = envString(v, "token_seed")
	fc.Enable = envString(v, "enable")
	fc.Disable = envString(v, "disable")
	fc.ErrorMode = envString(v, "error_mode")
	fc.LogLevel = envString(v, "log_level")
	fc.LogFormat = envString(v, "log_format")

	fc.PreserveFormat = envBool(v, "preserve_format")
	fc.PartialMask = envBool(v, "partial_mask")
	fc.PreserveDomains = envBool(v, "preserve_domains")
	fc.NoColor = envBool(v, "no_color")

	fc.PartialPrefix = envInt(v, "partial_prefix")
	fc.PartialSuffix = envInt(v, "partial_suffix")
	fc.ReplaceLength = envInt(v, "replace_length")
	fc.ContextWindow = envInt(v, "context_window")
	fc.MaxDepth = envInt(v, "max_depth")
	fc.Threads = envInt(v, "threads")

	fc.MinConfidence = envFloat(v, "min_confidence")
	fc.ContextBonus = envFloat(v, "context_bonus")

	if v.IsSet("whitelist") {
		fc.Whitelist = SplitList(v.GetString("whitelist"))
	}
	if v.IsSet("skip_paths") {
		fc.SkipPaths = SplitList(v.GetString("skip_paths"))
	}
	return fc
}

func envString(v *viper.Viper, key string) *string {
	if !v.IsSet(key) {
		return nil
	}
	s := v.GetString(key)
	return &s
}

func envBool(v *viper.Viper, key string) *bool {
	if !v.IsSet(key) {
		return nil
	}
	b := v.GetBool(key)
	return &b
}

func envInt(v *viper.Viper, key string) *int {
	if !v.IsSet(key) {
		return nil
	}
	n := v.GetInt(key)
	return &n
}

func envFloat(v *viper.Viper, key string) *float64 {
	if !v.IsSet(key) {
		return nil
	}
	f := v.GetFloat64(key)
	return &f
}
