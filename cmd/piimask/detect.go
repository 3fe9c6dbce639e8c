package piimask

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newDetectCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [text]",
		Short: "Show the detections in a piece of text (argument or stdin)",
		Long:  "detect runs every enabled rule against the text and prints each accepted span with its rule, category and confidence. Useful when tuning custom patterns and thresholds.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			sess, _, err := newSession(cmd, fc)
			if err != nil {
				return err
			}
			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = strings.TrimRight(string(b), "\n")
			}
			spans := sess.Detect(text)
			out := cmd.OutOrStdout()
			if len(spans) == 0 {
				fmt.Fprintln(out, "No PII found ✅")
				return nil
			}
			table := tablewriter.NewWriter(out)
			table.Header("RULE", "CATEGORY", "CONFIDENCE", "SPAN", "MATCH")
			for _, sp := range spans {
				_ = table.Append(sp.Rule, string(sp.Category), fmt.Sprintf("%.2f", sp.Confidence), fmt.Sprintf("%d-%d", sp.Start, sp.End), sp.Value)
			}
			return table.Render()
		},
	}
}
