package piimask

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath    string
	threads       int
	noColor       bool
	logLevel      string
	logFormat     string
	minConfidence float64
	enable        string
	disable       string
	whitelist     []string
	patterns      []string
	skipPaths     []string
	maxDepth      int
	errorMode     string
	audit         bool
	auditLog      string
}

// exitError carries a non-zero exit status without printing an error.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "piimask",
		Short: "Detect and mask personal data in JSON, YAML and text",
		Long: "piimask finds personally identifiable information in strings and nested documents " +
			"and replaces it by masking, redaction, reversible encryption, consistent tokens or fake values.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "config file (default: .piimask.yml, then ~/.config/piimask/config.yml)")
	pf.IntVar(&g.threads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	pf.BoolVar(&g.noColor, "no-color", false, "disable colorized output")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.StringVar(&g.logFormat, "log-format", "", "log format: console|json")
	pf.Float64Var(&g.minConfidence, "min-confidence", 0, "only act on detections with confidence >= value (0-1)")
	pf.StringVar(&g.enable, "enable", "", "only run these rules (comma-separated IDs)")
	pf.StringVar(&g.disable, "disable", "", "disable these rules (comma-separated IDs)")
	pf.StringSliceVar(&g.whitelist, "whitelist", nil, "values never treated as PII (literal, glob or re:<regex>)")
	pf.StringArrayVar(&g.patterns, "pattern", nil, "custom rule as name=regex (repeatable)")
	pf.StringSliceVar(&g.skipPaths, "skip-path", nil, "document paths to leave untouched (glob, e.g. metadata/**)")
	pf.IntVar(&g.maxDepth, "max-depth", 0, "maximum nesting depth of documents")
	pf.StringVar(&g.errorMode, "error-mode", "", "strict fails on the first masking error; lenient redacts the leaf and continues")
	pf.BoolVar(&g.audit, "audit", false, "append a record of the run to the audit log")
	pf.StringVar(&g.auditLog, "audit-log", "", "audit log path (implies --audit; default .git/piimask_audit.jsonl)")

	root.AddCommand(
		newMaskCmd(g),
		newAnalyzeCmd(g),
		newDecryptCmd(g),
		newDetectCmd(g),
		newDetectorsCmd(),
		newAuditCmd(g),
		newConfigCmd(g),
		newCICmd(),
		newVersionCmd(),
		newUpdateCmd(),
		newCompletionCmd(),
	)
	return root
}

// Execute runs the piimask CLI. It should be called by the main package.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit status: 0 on
// success, 1 when analyze finds PII at the --fail-on level, 2 on errors.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	return 0
}
