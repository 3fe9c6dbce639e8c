package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/redactyl/piimask/internal/types"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID     string         `json:"ruleId"`
	RuleIndex  int            `json:"ruleIndex"`
	Level      string         `json:"level"`
	Message    sarifMessage   `json:"message"`
	Locations  []sarifLoc     `json:"locations"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation *sarifPhys     `json:"physicalLocation,omitempty"`
	LogicalLocations []sarifLogical `json:"logicalLocations,omitempty"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt `json:"artifactLocation"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifLogical struct {
	FullyQualifiedName string `json:"fullyQualifiedName"`
	Kind               string `json:"kind"`
}

func bandToLevel(c float64) string {
	switch Band(c) {
	case "high":
		return "error"
	case "medium":
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes findings as SARIF 2.1.0. The structured path of each
// finding is reported as a logical location; values are never included.
func WriteSARIF(w io.Writer, findings []types.Finding, version string) error {
	Sort(findings)
	ruleIdx := map[string]int{}
	var ids []string
	for _, f := range findings {
		if _, ok := ruleIdx[f.Rule]; !ok {
			ruleIdx[f.Rule] = 0
			ids = append(ids, f.Rule)
		}
	}
	sort.Strings(ids)
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: "piimask", Version: version}},
		Results: []sarifResult{},
	}
	for i, id := range ids {
		ruleIdx[id] = i
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{ID: id, ShortDescription: sarifMessage{Text: id + " personal data"}})
	}
	for _, f := range findings {
		loc := sarifLoc{LogicalLocations: []sarifLogical{{FullyQualifiedName: f.Path, Kind: "member"}}}
		if f.File != "" {
			loc.PhysicalLocation = &sarifPhys{ArtifactLocation: sarifArt{URI: f.File}}
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:    f.Rule,
			RuleIndex: ruleIdx[f.Rule],
			Level:     bandToLevel(f.Confidence),
			Message:   sarifMessage{Text: fmt.Sprintf("%s detected at %s", f.Category, f.Path)},
			Locations: []sarifLoc{loc},
			Properties: map[string]any{
				"category":   f.Category,
				"confidence": f.Confidence,
				"start":      f.Start,
				"end":        f.End,
			},
		})
	}
	s := Summarize(findings)
	run.Properties = map[string]any{"byCategory": s.ByCategory}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
