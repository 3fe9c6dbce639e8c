package piimask

import (
	"fmt"
	"time"

	"github.com/redactyl/piimask/internal/audit"
	"github.com/redactyl/piimask/internal/config"
	"github.com/redactyl/piimask/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type maskFlags struct {
	strategy          string
	key               string
	tokenSeed         string
	maskChar          string
	placeholder       string
	format            string
	noPreserveFormat  bool
	noPartial         bool
	noPreserveDomains bool
	out               outputFlags
}

func newMaskCmd(g *globalFlags) *cobra.Command {
	mf := &maskFlags{}
	cmd := &cobra.Command{
		Use:   "mask [file...]",
		Short: "Mask personal data in JSON, YAML or text (stdin when no file is given)",
		Example: `  piimask mask users.json
  cat app.log | piimask mask --strategy redact
  piimask mask --strategy encrypt --key "$PIIMASK_ENCRYPTION_KEY" -w fixtures/*.yml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMask(cmd, args, g, mf)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&mf.strategy, "strategy", "s", "", "replace | redact | encrypt | tokenize | faker")
	f.StringVar(&mf.key, "key", "", "encryption key (base64, 32 bytes) or passphrase")
	f.StringVar(&mf.tokenSeed, "token-seed", "", "seed making tokens stable across runs")
	f.StringVar(&mf.maskChar, "mask-char", "", "character used by the replace strategy")
	f.StringVar(&mf.placeholder, "placeholder", "", "redact placeholder; {{CATEGORY}} expands to the category label")
	f.StringVar(&mf.format, "format", "", "input format: json | yaml | text (default: detect)")
	f.BoolVar(&mf.noPreserveFormat, "no-preserve-format", false, "do not keep separators and length when replacing")
	f.BoolVar(&mf.noPartial, "no-partial", false, "do not reveal the last characters of replaced values")
	f.BoolVar(&mf.noPreserveDomains, "no-preserve-domains", false, "mask email domains too")
	mf.out.register(cmd)
	return cmd
}

func (mf *maskFlags) apply(cmd *cobra.Command, fc *config.FileConfig) {
	f := cmd.Flags()
	if f.Changed("strategy") {
		fc.Strategy = &mf.strategy
	}
	if f.Changed("key") {
		fc.EncryptionKey = &mf.key
	}
	if f.Changed("token-seed") {
		fc.TokenSeed = &mf.tokenSeed
	}
	if f.Changed("mask-char") {
		fc.MaskCharacter = &mf.maskChar
	}
	if f.Changed("placeholder") {
		fc.RedactPlaceholder = &mf.placeholder
	}
	if f.Changed("no-preserve-format") {
		v := !mf.noPreserveFormat
		fc.PreserveFormat = &v
	}
	if f.Changed("no-partial") {
		v := !mf.noPartial
		fc.PartialMask = &v
	}
	if f.Changed("no-preserve-domains") {
		v := !mf.noPreserveDomains
		fc.PreserveDomains = &v
	}
}

func runMask(cmd *cobra.Command, args []string, g *globalFlags, mf *maskFlags) error {
	fc, err := g.loadConfig(cmd)
	if err != nil {
		return err
	}
	mf.apply(cmd, &fc)
	sess, log, err := newSession(cmd, fc)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	start := time.Now()
	inputs, err := readInputs(cmd, args, mf.format)
	if err != nil {
		return err
	}
	if err := mf.out.check(inputs); err != nil {
		return err
	}
	mf.out.color = useColor(cmd.OutOrStdout(), deref(fc.NoColor))
	values := make([]any, len(inputs))
	for i, in := range inputs {
		values[i] = in.value
	}
	var found []types.Finding
	if g.auditEnabled() {
		if found, err = analyzeInputs(sess, inputs); err != nil {
			return err
		}
	}
	results, err := sess.MaskAll(cmd.Context(), values, deref(fc.Threads))
	if err != nil {
		return err
	}
	skipped := 0
	for i, res := range results {
		skipped += len(res.Skipped)
		in := inputs[i]
		for _, le := range res.Skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v (redacted)\n", in.display(), le)
		}
		if err := mf.out.write(cmd, in, res.Value); err != nil {
			return err
		}
		log.Debug("masked", zap.String("input", in.display()), zap.String("format", string(in.format)), zap.Int("skipped", len(res.Skipped)))
	}

	cfg := sess.Config()
	rec := audit.NewRecord(sess.ID(), "mask", inputNames(inputs), found, 0, time.Since(start))
	rec.Strategy = string(cfg.Strategy)
	rec.Skipped = skipped
	g.record(cmd, rec)

	// An ephemeral key is lost with the process; print it so the output
	// can be decrypted later.
	if cfg.Strategy == types.StrategyEncrypt && cfg.EncryptionKey == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "encryption key (keep it to decrypt): %s\n", sess.ExportKey())
	}
	return nil
}
