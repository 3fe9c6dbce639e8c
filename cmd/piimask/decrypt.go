package piimask

import (
	"fmt"

	"github.com/redactyl/piimask/internal/engine"
	"github.com/spf13/cobra"
)

type decryptFlags struct {
	key    string
	format string
	out    outputFlags
}

func newDecryptCmd(g *globalFlags) *cobra.Command {
	df := &decryptFlags{}
	cmd := &cobra.Command{
		Use:   "decrypt [file...]",
		Short: "Restore values masked with the encrypt strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecrypt(cmd, args, g, df)
		},
	}
	cmd.Flags().StringVar(&df.key, "key", "", "key or passphrase used when masking (or PIIMASK_ENCRYPTION_KEY)")
	cmd.Flags().StringVar(&df.format, "format", "", "input format: json | yaml | text (default: detect)")
	df.out.register(cmd)
	return cmd
}

func runDecrypt(cmd *cobra.Command, args []string, g *globalFlags, df *decryptFlags) error {
	fc, err := g.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("key") {
		fc.EncryptionKey = &df.key
	}
	if deref(fc.EncryptionKey) == "" {
		return fmt.Errorf("decrypt needs --key or PIIMASK_ENCRYPTION_KEY")
	}
	strategy := "encrypt"
	fc.Strategy = &strategy
	sess, log, err := newSession(cmd, fc)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	inputs, err := readInputs(cmd, args, df.format)
	if err != nil {
		return err
	}
	if err := df.out.check(inputs); err != nil {
		return err
	}
	df.out.color = useColor(cmd.OutOrStdout(), deref(fc.NoColor))
	for _, in := range inputs {
		v, err := sess.DecryptValue(in.value)
		if err != nil {
			if engine.IsDecryptionError(err) {
				return fmt.Errorf("%s: %w (wrong key?)", in.display(), err)
			}
			return fmt.Errorf("%s: %w", in.display(), err)
		}
		if err := df.out.write(cmd, in, v); err != nil {
			return err
		}
	}
	return nil
}
