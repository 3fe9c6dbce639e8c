// Package audit appends one JSON line per mask or analyze run. Records hold
// counts, rule names and locations; matched values are never written.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redactyl/piimask/internal/report"
	"github.com/redactyl/piimask/internal/types"
)

// DefaultFile is used when the log is placed next to a repository.
const DefaultFile = "piimask_audit.jsonl"

// Record describes one run.
type Record struct {
	Timestamp  time.Time      `json:"timestamp"`
	SessionID  string         `json:"session_id"`
	Command    string         `json:"command"`
	Strategy   string         `json:"strategy,omitempty"`
	Inputs     []string       `json:"inputs"`
	Findings   int            `json:"findings"`
	Baselined  int            `json:"baselined,omitempty"`
	Skipped    int            `json:"skipped,omitempty"`
	ByCategory map[string]int `json:"by_category,omitempty"`
	Confidence map[string]int `json:"confidence,omitempty"`
	Duration   string         `json:"duration"`
	Locations  []string       `json:"locations,omitempty"`
}

// maxLocations bounds how many finding locations a record keeps.
const maxLocations = 10

type Log struct {
	path string
}

// New returns a log at path. An empty path means .git/piimask_audit.jsonl
// when root is a repository, else root/.piimask_audit.jsonl.
func New(path, root string) *Log {
	if path != "" {
		return &Log{path: path}
	}
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return &Log{path: filepath.Join(gitDir, DefaultFile)}
	}
	return &Log{path: filepath.Join(root, "."+DefaultFile)}
}

func (a *Log) Path() string { return a.path }

// NewRecord summarises a run from its findings.
func NewRecord(sessionID, command string, inputs []string, findings []types.Finding, baselined int, duration time.Duration) Record {
	s := report.Summarize(findings)
	r := Record{
		Timestamp:  time.Now().UTC(),
		SessionID:  sessionID,
		Command:    command,
		Inputs:     inputs,
		Findings:   len(findings),
		Baselined:  baselined,
		ByCategory: s.ByCategory,
		Confidence: s.Confidence,
		Duration:   duration.String(),
	}
	for i, f := range findings {
		if i >= maxLocations {
			break
		}
		loc := f.Path
		if f.File != "" {
			loc = f.File + ":" + f.Path
		}
		r.Locations = append(r.Locations, loc+" "+f.Rule)
	}
	return r
}

// Append writes record as one JSON line.
func (a *Log) Append(record Record) error {
	// Owner-only: locations can reveal where personal data lives.
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// History returns records newest first. Malformed lines are skipped.
func (a *Log) History() ([]Record, error) {
	f, err := os.Open(a.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []Record
	dec := json.NewDecoder(f)
	for dec.More() {
		var r Record
		if err := dec.Decode(&r); err != nil {
			break
		}
		records = append(records, r)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}
