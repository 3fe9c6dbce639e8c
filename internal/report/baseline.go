package report

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/redactyl/piimask/internal/types"
)

// Baseline records findings that have been reviewed and accepted. Keys hold
// locations and rule names only.
type Baseline struct {
	Items map[string]bool `json:"items"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(f, &b); err != nil {
		return b, err
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{Items: map[string]bool{}}
	for _, f := range findings {
		b.Items[key(f)] = true
	}
	return b.save(path)
}

// AppendBaseline adds findings to the baseline at path, creating it when
// missing.
func AppendBaseline(path string, findings []types.Finding) error {
	b, err := LoadBaseline(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	for _, f := range findings {
		b.Items[key(f)] = true
	}
	return b.save(path)
}

func (b Baseline) save(path string) error {
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// FilterNewFindings drops findings already present in base.
func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if !base.Items[key(f)] {
			out = append(out, f)
		}
	}
	return out
}

func key(f types.Finding) string {
	return f.File + "|" + f.Path + "|" + f.Rule
}
