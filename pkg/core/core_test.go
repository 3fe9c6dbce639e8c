package core

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask_Smoke(t *testing.T) {
	out, err := Mask(DefaultConfig(), map[string]any{"email": "john.doe@company.com"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "████████@company.com"}, out)

	ids := DetectorIDs()
	if len(ids) == 0 {
		t.Fatal("expected non-empty detector IDs")
	}
}

func TestNewSession_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = "nope"
	_, err := NewSession(cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestFindingsJSON_RoundTrip(t *testing.T) {
	s, err := NewSession(DefaultConfig())
	require.NoError(t, err)
	findings, err := s.Analyze("call 555-123-4567")
	require.NoError(t, err)
	require.Len(t, findings, 1)

	var buf bytes.Buffer
	require.NoError(t, MarshalFindings(&buf, findings))
	assert.NotContains(t, buf.String(), "555-123-4567")
	back, err := UnmarshalFindings(&buf)
	require.NoError(t, err)
	assert.Equal(t, findings, back)
}

func TestMarshalFindingsYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarshalFindingsYAML(&buf, []Finding{{Path: "$.email", Rule: "email", Category: "email", Confidence: 0.95, Start: 0, End: 7}}))
	assert.Contains(t, buf.String(), "- path: $.email")
	assert.Contains(t, buf.String(), "confidence: 0.95")
}
