package formats

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDetect(t *testing.T) {
	tcs := []struct {
		path string
		data string
		want Format
	}{
		{"a.json", "", JSON},
		{"a.YAML", "", YAML},
		{"a.yml", "", YAML},
		{"notes.txt", `{"a":1}`, Text},
		{"-", `  {"a": 1}`, JSON},
		{"-", `[1, 2`, Text},
		{"-", "key: value", Text},
	}
	for _, tc := range tcs {
		assert.Equal(t, tc.want, Detect(tc.path, []byte(tc.data)), tc.path+" "+tc.data)
	}
}

func TestParse(t *testing.T) {
	f, err := Parse("YML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)
	f, err = Parse("")
	require.NoError(t, err)
	assert.Equal(t, Format(""), f)
	_, err = Parse("xml")
	assert.Error(t, err)
}

func TestJSON_RoundTrip(t *testing.T) {
	in := `{"id": 12345678901234567890, "email": "a@b.com", "tags": ["x"], "html": "<b>"}`
	v, err := Decode(JSON, []byte(in))
	require.NoError(t, err)
	m := v.(map[string]any)
	assert.Equal(t, json.Number("12345678901234567890"), m["id"])

	out, err := Encode(JSON, v)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"id": 12345678901234567890`)
	assert.Contains(t, string(out), `"html": "<b>"`)

	_, err = Decode(JSON, []byte(`{"a": 1} {"b": 2}`))
	assert.Error(t, err)
}

func TestYAML_KeepsComments(t *testing.T) {
	in := "# top\nname: Jane # who\nage: 3\n"
	v, err := Decode(YAML, []byte(in))
	require.NoError(t, err)
	_, ok := v.(*yaml.Node)
	require.True(t, ok)

	out, err := Encode(YAML, v)
	require.NoError(t, err)
	assert.Contains(t, string(out), "# top")
	assert.Contains(t, string(out), "# who")
	assert.Less(t, strings.Index(string(out), "name"), strings.Index(string(out), "age"))
}

func TestYAML_MultiDocument(t *testing.T) {
	v, err := Decode(YAML, []byte("a: 1\n---\nb: 2\n"))
	require.NoError(t, err)
	docs, ok := v.([]any)
	require.True(t, ok)
	assert.Len(t, docs, 2)

	out, err := Encode(YAML, v)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n---\nb: 2\n", string(out))
}

func TestText(t *testing.T) {
	v, err := Decode(Text, []byte("hello\n"))
	require.NoError(t, err)
	out, err := Encode(Text, v)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))

	_, err = Encode(Text, 42)
	assert.Error(t, err)
}
