package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redactyl/piimask/internal/types"
)

func sample() []types.Finding {
	return []types.Finding{
		{File: "a.json", Path: "$.ssn", Rule: "ssn", Category: types.CategorySSN, Confidence: 0.95},
		{File: "a.json", Path: "$.zip", Rule: "zip_code", Category: types.CategoryZipCode, Confidence: 0.6},
		{File: "b.json", Path: "$.email", Rule: "email", Category: types.CategoryEmail, Confidence: 0.8},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestView_Rendering(t *testing.T) {
	m := NewModel(sample(), nil)
	out := m.View()
	if !strings.Contains(out, "3 findings") {
		t.Fatalf("expected title with count; got: %q", out)
	}
	if !strings.Contains(out, "a.json:$.ssn") {
		t.Fatalf("expected location of first finding; got: %q", out)
	}

	empty := NewModel(nil, nil)
	if !strings.Contains(empty.View(), "No PII to review") {
		t.Fatalf("expected empty message; got: %q", empty.View())
	}
}

func TestBandFilter(t *testing.T) {
	m := press(NewModel(sample(), nil), "1")
	if len(m.visible) != 1 || m.visible[0].Rule != "ssn" {
		t.Fatalf("expected only the high finding, got %+v", m.visible)
	}
	m = press(m, "3")
	if len(m.visible) != 1 || m.visible[0].Rule != "zip_code" {
		t.Fatalf("expected only the low finding, got %+v", m.visible)
	}
	m = press(m, "0")
	if len(m.visible) != 3 {
		t.Fatalf("expected all findings, got %d", len(m.visible))
	}
}

func TestNavigationAndCopy(t *testing.T) {
	m := NewModel(sample(), nil)
	var copied string
	m.copy = func(s string) error { copied = s; return nil }

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = press(next.(Model), "y")
	f, ok := m.Selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	if copied != f.File+":"+f.Path {
		t.Fatalf("expected selected location copied, got %q", copied)
	}
	if !strings.Contains(m.View(), "copied") {
		t.Fatalf("expected status line")
	}

	m.copy = func(string) error { return errors.New("no clipboard") }
	m = press(m, "y")
	if !strings.Contains(m.status, "copy failed") {
		t.Fatalf("expected failure status, got %q", m.status)
	}
}

func TestBaselineRemovesFinding(t *testing.T) {
	var accepted []types.Finding
	m := NewModel(sample(), func(fs []types.Finding) error {
		accepted = append(accepted, fs...)
		return nil
	})
	first, _ := m.Selected()
	m = press(m, "b")
	if len(accepted) != 1 || accepted[0] != first {
		t.Fatalf("expected selected finding baselined, got %+v", accepted)
	}
	if len(m.findings) != 2 {
		t.Fatalf("expected finding removed from list, got %d", len(m.findings))
	}
}

func TestQuit(t *testing.T) {
	next, cmd := NewModel(sample(), nil).Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if next.(Model).View() != "" {
		t.Fatal("expected empty view after quit")
	}
}
