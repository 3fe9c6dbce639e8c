package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	f, err := New([]string{"admin@company.com", "*@example.org", "re:10\\.0\\.0\\.\\d+", "  "})
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())

	tcs := []struct {
		value string
		want  bool
	}{
		{"admin@company.com", true},
		{"user@company.com", false},
		{"anyone@example.org", true},
		{"10.0.0.7", true},
		{"110.0.0.7", false},
		{"", false},
	}
	for _, tc := range tcs {
		assert.Equal(t, tc.want, f.Allowed(tc.value), tc.value)
	}
}

func TestNew_Malformed(t *testing.T) {
	_, err := New([]string{"re:(unclosed"})
	assert.Error(t, err)

	_, err = New([]string{"[unclosed"})
	assert.Error(t, err)
}

func TestNilFilter(t *testing.T) {
	var f *Filter
	assert.False(t, f.Allowed("x"))
	assert.Equal(t, 0, f.Len())
}
