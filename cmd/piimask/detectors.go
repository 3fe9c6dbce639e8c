package piimask

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/redactyl/piimask/internal/detectors"
	"github.com/redactyl/piimask/internal/types"
	"github.com/spf13/cobra"
)

func newDetectorsCmd() *cobra.Command {
	var (
		verbose    bool
		categories bool
	)
	cmd := &cobra.Command{
		Use:   "detectors",
		Short: "List built-in detection rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if categories {
				for _, c := range types.Categories() {
					fmt.Fprintf(out, "%-12s %s\n", c, c.Label())
				}
				return nil
			}
			if !verbose {
				for _, id := range detectors.IDs() {
					fmt.Fprintln(out, id)
				}
				return nil
			}
			table := tablewriter.NewWriter(out)
			table.Header("ID", "CATEGORY", "CONFIDENCE", "KEYWORDS")
			for _, r := range detectors.Builtins() {
				_ = table.Append(r.Name, string(r.Category), fmt.Sprintf("%.2f", r.Confidence), strings.Join(r.Keywords, ","))
			}
			return table.Render()
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show category, base confidence and context keywords")
	cmd.Flags().BoolVar(&categories, "categories", false, "list PII categories instead of rules")
	return cmd
}
