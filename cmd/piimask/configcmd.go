package piimask

import (
	"fmt"

	"github.com/redactyl/piimask/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(g *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}

	var (
		output string
		force  bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample .piimask.yml with the default settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.WriteSample(output, force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", ".piimask.yml", "output file path (.json writes JSON)")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration after files and environment are layered",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fc, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			if fc.EncryptionKey != nil {
				hidden := "********"
				fc.EncryptionKey = &hidden
			}
			b, err := yaml.Marshal(&fc)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	cfgCmd.AddCommand(initCmd, showCmd)
	return cfgCmd
}
