package piimask

import (
	"fmt"
	"time"

	"github.com/redactyl/piimask/internal/audit"
	"github.com/redactyl/piimask/internal/engine"
	"github.com/redactyl/piimask/internal/formats"
	"github.com/redactyl/piimask/internal/git"
	"github.com/redactyl/piimask/internal/report"
	"github.com/redactyl/piimask/internal/tui"
	"github.com/redactyl/piimask/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultBaseline = "piimask.baseline.json"

type analyzeFlags struct {
	format         string
	json           bool
	yaml           bool
	sarif          bool
	text           bool
	failOn         string
	baseline       string
	updateBaseline bool
	staged         bool
	interactive    bool
}

func newAnalyzeCmd(g *globalFlags) *cobra.Command {
	af := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze [file...]",
		Short: "Report personal data found in documents without changing them",
		Long: "analyze walks each document and reports the path, rule, category and confidence of every detection. " +
			"Matched values are never printed. The exit status is 1 when a finding reaches --fail-on.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, g, af)
		},
	}
	f := cmd.Flags()
	f.StringVar(&af.format, "format", "", "input format: json | yaml | text (default: detect)")
	f.BoolVar(&af.json, "json", false, "emit JSON")
	f.BoolVar(&af.yaml, "yaml", false, "emit YAML")
	f.BoolVar(&af.sarif, "sarif", false, "emit SARIF 2.1.0")
	f.BoolVar(&af.text, "text", false, "output in plain text columnar format")
	f.StringVar(&af.failOn, "fail-on", "medium", "fail on low|medium|high")
	f.StringVar(&af.baseline, "baseline", defaultBaseline, "suppress findings recorded in this baseline file")
	f.BoolVar(&af.updateBaseline, "update-baseline", false, "record current findings in the baseline and exit")
	f.BoolVar(&af.staged, "staged", false, "analyze files staged in the git index instead of arguments")
	f.BoolVarP(&af.interactive, "interactive", "i", false, "browse findings in a terminal viewer")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, g *globalFlags, af *analyzeFlags) error {
	switch af.failOn {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("--fail-on must be low, medium or high")
	}
	fc, err := g.loadConfig(cmd)
	if err != nil {
		return err
	}
	sess, log, err := newSession(cmd, fc)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	start := time.Now()
	var inputs []input
	if af.staged {
		inputs, err = stagedInputs(af.format)
	} else {
		inputs, err = readInputs(cmd, args, af.format)
	}
	if err != nil {
		return err
	}
	findings, err := analyzeInputs(sess, inputs)
	if err != nil {
		return err
	}
	total := len(findings)

	if af.updateBaseline {
		if err := report.SaveBaseline(af.baseline, findings); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated with %d findings.\n", len(findings))
		return nil
	}
	if base, err := report.LoadBaseline(af.baseline); err == nil {
		findings = report.FilterNewFindings(findings, base)
		if findings == nil {
			findings = []types.Finding{}
		}
	}
	log.Debug("analysis complete", zap.Int("inputs", len(inputs)), zap.Int("findings", len(findings)))
	g.record(cmd, audit.NewRecord(sess.ID(), "analyze", inputNames(inputs), findings, total-len(findings), time.Since(start)))

	out := cmd.OutOrStdout()
	opts := report.PrintOptions{
		NoColor:      !useColor(out, deref(fc.NoColor)),
		Duration:     time.Since(start),
		FilesScanned: len(inputs),
	}
	switch {
	case af.interactive:
		if !isTerminal(out) {
			return fmt.Errorf("--interactive needs a terminal")
		}
		return tui.Run(findings, func(fs []types.Finding) error {
			return report.AppendBaseline(af.baseline, fs)
		})
	case af.sarif:
		err = report.WriteSARIF(out, findings, version)
	case af.json:
		err = report.WriteJSON(out, findings)
	case af.yaml:
		err = report.WriteYAML(out, findings)
	case af.text:
		report.PrintText(out, findings, opts)
	default:
		report.PrintTable(out, findings, opts)
	}
	if err != nil {
		return err
	}
	if report.ShouldFail(findings, af.failOn) {
		return &exitError{code: 1}
	}
	return nil
}

// analyzeInputs reports findings for every input, tagged with its file.
func analyzeInputs(sess *engine.Session, inputs []input) ([]types.Finding, error) {
	findings := []types.Finding{}
	for _, in := range inputs {
		fs, err := sess.Analyze(in.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.display(), err)
		}
		for _, f := range fs {
			if in.name != stdinName {
				f.File = in.name
			}
			findings = append(findings, f)
		}
	}
	return findings, nil
}

// stagedInputs decodes the staged JSON, YAML and text files of the
// repository containing the working directory.
func stagedInputs(forced string) ([]input, error) {
	ff, err := formats.Parse(forced)
	if err != nil {
		return nil, err
	}
	files, err := git.StagedFiles(".")
	if err != nil {
		return nil, err
	}
	inputs := make([]input, 0, len(files))
	for _, f := range files {
		in, err := decodeInput(f.Path, f.Data, ff)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}
