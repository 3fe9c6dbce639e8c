package piimask

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/redactyl/piimask/internal/audit"
	"github.com/spf13/cobra"
)

func (g *globalFlags) auditEnabled() bool {
	return g.audit || g.auditLog != ""
}

func (g *globalFlags) auditLogger() *audit.Log {
	wd, _ := os.Getwd()
	return audit.New(g.auditLog, wd)
}

// record appends an audit record when auditing is on. Failures are
// reported but never fail the run.
func (g *globalFlags) record(cmd *cobra.Command, rec audit.Record) {
	if !g.auditEnabled() {
		return
	}
	if err := g.auditLogger().Append(rec); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "audit warning:", err)
	}
}

func inputNames(inputs []input) []string {
	names := make([]string, len(inputs))
	for i, in := range inputs {
		names[i] = in.name
	}
	return names
}

func newAuditCmd(g *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recorded mask and analyze runs, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			l := g.auditLogger()
			recs, err := l.History()
			if err != nil {
				return err
			}
			if limit > 0 && len(recs) > limit {
				recs = recs[:limit]
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("TIME", "COMMAND", "STRATEGY", "INPUTS", "FINDINGS", "SKIPPED", "DURATION")
			for _, r := range recs {
				_ = table.Append(
					r.Timestamp.Local().Format(time.DateTime),
					r.Command,
					r.Strategy,
					strings.Join(r.Inputs, ","),
					fmt.Sprint(r.Findings),
					fmt.Sprint(r.Skipped),
					r.Duration,
				)
			}
			return table.Render()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many records (0 = all)")
	return cmd
}
