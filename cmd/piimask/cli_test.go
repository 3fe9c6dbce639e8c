package piimask

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI in-process with config discovery isolated from the
// developer's machine.
func execute(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestMask_StdinJSON(t *testing.T) {
	in := `{"user": {"email": "john.doe@example.com", "note": "hello"}}`
	out, stderr, code := execute(t, in, "mask", "--format", "json", "--strategy", "redact")
	require.Equal(t, 0, code, stderr)
	assert.NotContains(t, out, "john.doe@example.com")
	assert.Contains(t, out, "[REDACTED]")
	assert.Contains(t, out, `"note": "hello"`)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "user")
}

func TestMask_CustomPattern(t *testing.T) {
	out, stderr, code := execute(t, "badge EMP123456 issued", "mask", "--format", "text",
		"--strategy", "redact", "--pattern", `employee_id=EMP\d{6}`)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "badge [REDACTED] issued", out)
}

func TestMask_BadPatternFlag(t *testing.T) {
	_, stderr, code := execute(t, "x", "mask", "--pattern", "novalue")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "want name=regex")
}

func TestMask_InvalidStrategy(t *testing.T) {
	_, stderr, code := execute(t, "x", "mask", "--strategy", "shred")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "error:")
}

func TestMask_EncryptThenDecrypt(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "contact.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"email": "jane@corp.io", "city": "Oslo"}`), 0o600))

	masked := filepath.Join(dir, "masked.json")
	_, stderr, code := execute(t, "", "mask", "--strategy", "encrypt", "-o", masked, src)
	require.Equal(t, 0, code, stderr)
	const prefix = "encryption key (keep it to decrypt): "
	i := strings.Index(stderr, prefix)
	require.GreaterOrEqual(t, i, 0, stderr)
	key := strings.TrimSpace(stderr[i+len(prefix):])

	b, err := os.ReadFile(masked)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "jane@corp.io")
	assert.Contains(t, string(b), "[ENCRYPTED:")

	out, stderr, code := execute(t, "", "decrypt", "--key", key, masked)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "jane@corp.io")
	assert.Contains(t, out, "Oslo")

	_, stderr, code = execute(t, "", "decrypt", masked)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--key")
}

func TestMask_MultipleInputsNeedInPlace(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("mail a@b.com"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("mail c@d.com"), 0o600))

	_, stderr, code := execute(t, "", "mask", a, b)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--in-place")

	_, stderr, code = execute(t, "", "mask", "--strategy", "redact", "-w", a, b)
	require.Equal(t, 0, code, stderr)
	got, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, "mail [REDACTED]", string(got))
}

func TestAnalyze_JSONAndExitCode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "people.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"people": [{"ssn": "SSN: 123-45-6789"}]}`), 0o600))
	baseline := filepath.Join(dir, "baseline.json")

	out, stderr, code := execute(t, "", "analyze", "--json", "--baseline", baseline, src)
	assert.Equal(t, 1, code, stderr)
	var doc struct {
		Findings []struct {
			File string `json:"file"`
			Path string `json:"path"`
			Rule string `json:"rule"`
		} `json:"findings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	require.Len(t, doc.Findings, 1)
	assert.Equal(t, "ssn", doc.Findings[0].Rule)
	assert.Equal(t, src, doc.Findings[0].File)
	assert.Equal(t, "$.people[0].ssn", doc.Findings[0].Path)
	assert.NotContains(t, out, "123-45-6789")

	out, stderr, code = execute(t, "", "analyze", "--baseline", baseline, "--update-baseline", src)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Baseline updated with 1 findings.")

	out, stderr, code = execute(t, "", "analyze", "--text", "--baseline", baseline, src)
	assert.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "No PII found")
}

func TestAnalyze_CleanInput(t *testing.T) {
	out, stderr, code := execute(t, "nothing to see here", "analyze", "--baseline", filepath.Join(t.TempDir(), "b.json"))
	assert.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "No PII found")
}

func TestAnalyze_BadFailOn(t *testing.T) {
	_, stderr, code := execute(t, "", "analyze", "--fail-on", "severe")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--fail-on")
}

func TestDetectors(t *testing.T) {
	out, _, code := execute(t, "", "detectors")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "email\n")
	assert.Contains(t, out, "credit_card\n")

	out, _, code = execute(t, "", "detectors", "--categories")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "ip_address")
}

func TestDetect(t *testing.T) {
	out, stderr, code := execute(t, "", "detect", "write to ops@corp.io")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "email")
	assert.Contains(t, out, "ops@corp.io")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piimask.yml")
	out, stderr, code := execute(t, "", "config", "init", "-o", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Wrote")

	_, stderr, code = execute(t, "", "config", "init", "-o", path)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "already exists")

	out, stderr, code = execute(t, "", "--config", path, "config", "show")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "strategy: replace")
}

func TestConfigShow_HidesKey(t *testing.T) {
	t.Setenv("PIIMASK_ENCRYPTION_KEY", "correct horse battery staple")
	out, stderr, code := execute(t, "", "config", "show")
	require.Equal(t, 0, code, stderr)
	assert.NotContains(t, out, "correct horse")
	assert.Contains(t, out, "********")
}

func TestCITemplate(t *testing.T) {
	for _, p := range []string{"github", "gitlab", "bitbucket", "azure"} {
		path, body, err := ciTemplate(p, "data/*.yml")
		require.NoError(t, err, p)
		assert.NotEmpty(t, path)
		assert.Contains(t, body, "piimask analyze --sarif --fail-on medium data/*.yml", p)
	}
	_, _, err := ciTemplate("jenkins", "x")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, code := execute(t, "", "version")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "piimask "+version))
}

func TestAnalyze_Staged(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("hello"), 0o644))
	_, err = wt.Add("README.txt")
	require.NoError(t, err)
	_, err = wt.Commit("init", &gogit.CommitOptions{Author: &object.Signature{Name: "t", Email: "t@example.com", When: time.Now()}})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "people.yml"), []byte("ssn: 123-45-6789\n"), 0o644))
	_, err = wt.Add("people.yml")
	require.NoError(t, err)

	baseline := filepath.Join(t.TempDir(), "baseline.json")
	t.Chdir(dir)
	out, stderr, code := execute(t, "", "analyze", "--staged", "--json", "--baseline", baseline)
	assert.Equal(t, 1, code, stderr)
	assert.Contains(t, out, `"file": "people.yml"`)
	assert.Contains(t, out, `"path": "$.ssn"`)
}

func TestAnalyze_InteractiveNeedsTerminal(t *testing.T) {
	_, stderr, code := execute(t, "x", "analyze", "-i", "--baseline", filepath.Join(t.TempDir(), "b.json"))
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "terminal")
}

func TestAuditLog(t *testing.T) {
	dir := t.TempDir()
	log := filepath.Join(dir, "audit.jsonl")

	_, stderr, code := execute(t, "mail ops@corp.io", "--audit-log", log, "mask", "--strategy", "redact")
	require.Equal(t, 0, code, stderr)
	_, stderr, code = execute(t, "nothing here", "--audit-log", log, "analyze", "--baseline", filepath.Join(dir, "b.json"))
	require.Equal(t, 0, code, stderr)

	b, err := os.ReadFile(log)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"command":"mask"`)
	assert.Contains(t, lines[0], `"strategy":"redact"`)
	assert.Contains(t, lines[0], `"findings":1`)
	assert.NotContains(t, string(b), "ops@corp.io")

	out, stderr, code := execute(t, "", "--audit-log", log, "audit")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "analyze")
	assert.Contains(t, out, "mask")
}
