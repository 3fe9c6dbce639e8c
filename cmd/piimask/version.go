package piimask

import (
	"fmt"
	"runtime/debug"

	"github.com/redactyl/piimask/internal/update"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the piimask version",
		Run: func(cmd *cobra.Command, _ []string) {
			v := version
			if info, ok := debug.ReadBuildInfo(); ok {
				for _, s := range info.Settings {
					if s.Key == "vcs.revision" && len(s.Value) >= 7 {
						v += " (" + s.Value[:7] + ")"
					}
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "piimask", v)
			if !check {
				return
			}
			if latest, newer, _ := update.Check(version, false); newer {
				fmt.Fprintf(cmd.ErrOrStderr(), "(new version available: v%s)  run 'piimask update' to upgrade\n", latest)
			}
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update piimask to the latest release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := update.Apply(version)
			if err != nil {
				return fmt.Errorf("self-update: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "piimask is at v%s\n", v)
			return nil
		},
	}
}
