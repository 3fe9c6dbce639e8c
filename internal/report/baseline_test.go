package report

import (
	"path/filepath"
	"testing"

	"github.com/redactyl/piimask/internal/types"
)

func TestBaseline_RoundTripFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	known := sample()[:2]
	if err := SaveBaseline(path, known); err != nil {
		t.Fatalf("SaveBaseline: %v", err)
	}
	base, err := LoadBaseline(path)
	if err != nil {
		t.Fatalf("LoadBaseline: %v", err)
	}
	fresh := FilterNewFindings(sample(), base)
	if len(fresh) != 1 || fresh[0].Rule != "zip_code" {
		t.Fatalf("expected only the zip_code finding, got %+v", fresh)
	}
}

func TestBaseline_IgnoresOffsets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	f := types.Finding{File: "a.yml", Path: "$.email", Rule: "email", Start: 0, End: 10}
	if err := SaveBaseline(path, []types.Finding{f}); err != nil {
		t.Fatal(err)
	}
	base, err := LoadBaseline(path)
	if err != nil {
		t.Fatal(err)
	}
	f.Start, f.End = 5, 15
	if got := FilterNewFindings([]types.Finding{f}, base); len(got) != 0 {
		t.Fatalf("shifted offsets should still match the baseline, got %+v", got)
	}
}

func TestLoadBaseline_Missing(t *testing.T) {
	b, err := LoadBaseline(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing baseline")
	}
	if b.Items == nil {
		t.Fatal("items map should be initialised even on error")
	}
}

func TestAppendBaseline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	all := sample()
	if err := AppendBaseline(path, all[:1]); err != nil {
		t.Fatalf("AppendBaseline (create): %v", err)
	}
	if err := AppendBaseline(path, all[2:]); err != nil {
		t.Fatalf("AppendBaseline (extend): %v", err)
	}
	base, err := LoadBaseline(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(base.Items) != 2 {
		t.Fatalf("expected 2 baseline items, got %d", len(base.Items))
	}
	fresh := FilterNewFindings(all, base)
	if len(fresh) != 1 || fresh[0].Rule != "email" {
		t.Fatalf("expected only the email finding to remain, got %+v", fresh)
	}
}
