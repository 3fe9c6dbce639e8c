package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/redactyl/piimask/internal/types"
	"gopkg.in/yaml.v3"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
}

var (
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func location(f types.Finding) string {
	if f.File == "" {
		return f.Path
	}
	return f.File + ":" + f.Path
}

// PrintText writes one line per finding followed by a summary footer.
func PrintText(w io.Writer, findings []types.Finding, opts PrintOptions) {
	Sort(findings)
	if len(findings) == 0 {
		fmt.Fprintln(w, "No PII found ✅")
	} else {
		maxRule := 8
		for _, f := range findings {
			if l := len(f.Rule); l > maxRule {
				maxRule = l
			}
		}
		fmt.Fprintf(w, "Findings: %d\n", len(findings))
		for _, f := range findings {
			fmt.Fprintf(w, "%-6s %-*s %s [%d:%d]\n", confidence(f.Confidence, opts.NoColor), maxRule, f.Rule, location(f), f.Start, f.End)
		}
	}
	printFooter(w, findings, opts)
}

// PrintTable renders findings as a bordered table followed by a summary footer.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	Sort(findings)
	if len(findings) == 0 {
		fmt.Fprintln(w, "No PII found ✅")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("CONFIDENCE", "RULE", "CATEGORY", "LOCATION", "SPAN")
		for _, f := range findings {
			_ = table.Append(
				confidence(f.Confidence, opts.NoColor),
				f.Rule,
				string(f.Category),
				location(f),
				fmt.Sprintf("%d-%d", f.Start, f.End),
			)
		}
		_ = table.Render()
	}
	printFooter(w, findings, opts)
}

func printFooter(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if len(findings) == 0 && opts.Duration == 0 && opts.FilesScanned == 0 {
		return
	}
	s := Summarize(findings)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (high: %d, medium: %d, low: %d)\n", s.Total, s.Confidence["high"], s.Confidence["medium"], s.Confidence["low"])
	if len(s.ByCategory) > 0 {
		parts := make([]string, 0, len(s.ByCategory))
		for _, c := range sortedCounts(s.ByCategory) {
			parts = append(parts, fmt.Sprintf("%s: %d", c, s.ByCategory[c]))
		}
		fmt.Fprintf(w, "By category: %s\n", strings.Join(parts, ", "))
	}
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Analysis duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files analysed: %d\n", opts.FilesScanned)
	}
}

func confidence(c float64, noColor bool) string {
	s := fmt.Sprintf("%.2f", c)
	if noColor {
		return s
	}
	switch Band(c) {
	case "high":
		return highStyle.Render(s)
	case "medium":
		return mediumStyle.Render(s)
	default:
		return lowStyle.Render(s)
	}
}

// Document is the machine-readable analysis report.
type Document struct {
	Summary  Summary         `json:"summary" yaml:"summary"`
	Findings []types.Finding `json:"findings" yaml:"findings"`
}

func newDocument(findings []types.Finding) Document {
	Sort(findings)
	if findings == nil {
		findings = []types.Finding{}
	}
	return Document{Summary: Summarize(findings), Findings: findings}
}

// WriteJSON writes the summary and findings as indented JSON.
func WriteJSON(w io.Writer, findings []types.Finding) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(findings))
}

// WriteYAML writes the summary and findings as YAML.
func WriteYAML(w io.Writer, findings []types.Finding) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(findings)); err != nil {
		return err
	}
	return enc.Close()
}
