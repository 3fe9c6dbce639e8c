package core

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// MarshalFindings pretty-prints findings as JSON for humans or pipelines.
// Findings never carry matched values, so the output is safe to share.
func MarshalFindings(w io.Writer, findings []Finding) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

// UnmarshalFindings decodes findings JSON, useful for ingestion tests.
func UnmarshalFindings(r io.Reader) ([]Finding, error) {
	var fs []Finding
	if err := json.NewDecoder(r).Decode(&fs); err != nil {
		return nil, err
	}
	return fs, nil
}

// MarshalFindingsYAML writes findings as a YAML sequence.
func MarshalFindingsYAML(w io.Writer, findings []Finding) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(findings); err != nil {
		return err
	}
	return enc.Close()
}
