package report

import (
	"sort"

	"github.com/redactyl/piimask/internal/types"
)

// Confidence bands used in summaries, SARIF levels and --fail-on.
const (
	HighConfidence   = 0.9
	MediumConfidence = 0.7
)

// Band names the confidence band of c: high, medium or low.
func Band(c float64) string {
	switch {
	case c >= HighConfidence:
		return "high"
	case c >= MediumConfidence:
		return "medium"
	default:
		return "low"
	}
}

// Summary aggregates findings for the analyze report.
type Summary struct {
	Total      int            `json:"total" yaml:"total"`
	Files      int            `json:"files" yaml:"files"`
	Paths      int            `json:"paths" yaml:"paths"`
	ByCategory map[string]int `json:"by_category" yaml:"by_category"`
	ByRule     map[string]int `json:"by_rule" yaml:"by_rule"`
	Confidence map[string]int `json:"confidence" yaml:"confidence"`
}

// Summarize counts findings by category, rule, confidence band and location.
func Summarize(findings []types.Finding) Summary {
	s := Summary{
		Total:      len(findings),
		ByCategory: map[string]int{},
		ByRule:     map[string]int{},
		Confidence: map[string]int{"high": 0, "medium": 0, "low": 0},
	}
	files := map[string]bool{}
	paths := map[string]bool{}
	for _, f := range findings {
		s.ByCategory[string(f.Category)]++
		s.ByRule[f.Rule]++
		s.Confidence[Band(f.Confidence)]++
		files[f.File] = true
		paths[f.File+"\x00"+f.Path] = true
	}
	s.Files = len(files)
	s.Paths = len(paths)
	return s
}

// Sort orders findings by file, path and start offset.
func Sort(findings []types.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Start < b.Start
	})
}

// ShouldFail reports whether any finding reaches the failOn band
// (low, medium or high; medium when empty).
func ShouldFail(findings []types.Finding, failOn string) bool {
	level := map[string]int{"low": 1, "medium": 2, "high": 3}
	th := level[failOn]
	if th == 0 {
		th = 2
	}
	for _, f := range findings {
		if level[Band(f.Confidence)] >= th {
			return true
		}
	}
	return false
}

func sortedCounts(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
