// Package formats decodes input files into values the engine can walk and
// encodes masked values back. YAML is kept as *yaml.Node so that comments
// and key order survive masking.
package formats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a file encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	Text Format = "text"
)

// Parse maps a user supplied name to a Format. Empty means auto-detect.
func Parse(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return "", nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "text", "txt":
		return Text, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Detect picks a format from the file extension, falling back to sniffing
// the content for a JSON object or array. Everything else is text.
func Detect(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".yml", ".yaml":
		return YAML
	case ".txt", ".log", ".csv", ".md":
		return Text
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && json.Valid(trimmed) {
		return JSON
	}
	return Text
}

// Decode parses data. JSON numbers are kept as json.Number so that they
// round-trip exactly. A YAML stream with several documents decodes to []any
// of *yaml.Node.
func Decode(f Format, data []byte) (any, error) {
	switch f {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		if dec.More() {
			return nil, errors.New("decode json: trailing data")
		}
		return v, nil
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		var docs []any
		for {
			var n yaml.Node
			err := dec.Decode(&n)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("decode yaml: %w", err)
			}
			docs = append(docs, &n)
		}
		switch len(docs) {
		case 0:
			return "", nil
		case 1:
			return docs[0], nil
		}
		return docs, nil
	case Text:
		return string(data), nil
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// Encode renders v in format f.
func Encode(f Format, v any) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case JSON:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
	case YAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		docs, ok := v.([]any)
		if !ok || !allNodes(docs) {
			docs = []any{v}
		}
		for _, d := range docs {
			if err := enc.Encode(d); err != nil {
				return nil, fmt.Errorf("encode yaml: %w", err)
			}
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	case Text:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("encode text: got %T", v)
		}
		buf.WriteString(s)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	return buf.Bytes(), nil
}

func allNodes(vs []any) bool {
	for _, v := range vs {
		if _, ok := v.(*yaml.Node); !ok {
			return false
		}
	}
	return len(vs) > 0
}
