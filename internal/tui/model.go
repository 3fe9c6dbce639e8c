// Package tui is an interactive viewer for analysis findings. It lists
// locations and rules only; matched values are never shown.
package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/redactyl/piimask/internal/report"
	"github.com/redactyl/piimask/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Bold(true)
)

// Model is the bubbletea model behind Run.
type Model struct {
	findings []types.Finding
	visible  []types.Finding
	band     string

	table  table.Model
	status string
	width  int
	height int

	quitting bool

	copy     func(string) error
	baseline func([]types.Finding) error
}

// NewModel initializes a viewer over findings. onBaseline, when set, is
// called with findings the user accepts; they then leave the list.
func NewModel(findings []types.Finding, onBaseline func([]types.Finding) error) Model {
	fs := append([]types.Finding(nil), findings...)
	report.Sort(fs)

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Conf", Width: 6},
			{Title: "Rule", Width: 20},
			{Title: "Category", Width: 12},
			{Title: "Location", Width: 50},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	m := Model{
		findings: fs,
		table:    t,
		copy:     clipboard.WriteAll,
		baseline: onBaseline,
	}
	m.refresh()
	return m
}

func location(f types.Finding) string {
	if f.File == "" {
		return f.Path
	}
	return f.File + ":" + f.Path
}

// refresh rebuilds the visible rows from the band filter.
func (m *Model) refresh() {
	m.visible = nil
	for _, f := range m.findings {
		if m.band == "" || report.Band(f.Confidence) == m.band {
			m.visible = append(m.visible, f)
		}
	}
	rows := make([]table.Row, len(m.visible))
	for i, f := range m.visible {
		rows[i] = table.Row{fmt.Sprintf("%.2f", f.Confidence), f.Rule, string(f.Category), location(f)}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Selected returns the finding under the cursor.
func (m Model) Selected() (types.Finding, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.visible) {
		return types.Finding{}, false
	}
	return m.visible[c], true
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 3))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "0":
			m.band = ""
			m.refresh()
			return m, nil
		case "1", "2", "3":
			m.band = map[string]string{"1": "high", "2": "medium", "3": "low"}[msg.String()]
			m.refresh()
			return m, nil
		case "y":
			if f, ok := m.Selected(); ok {
				if err := m.copy(location(f)); err != nil {
					m.status = "copy failed: " + err.Error()
				} else {
					m.status = "copied " + location(f)
				}
			}
			return m, nil
		case "b":
			f, ok := m.Selected()
			if !ok || m.baseline == nil {
				return m, nil
			}
			if err := m.baseline([]types.Finding{f}); err != nil {
				m.status = "baseline failed: " + err.Error()
				return m, nil
			}
			m.remove(f)
			m.status = "added to baseline: " + location(f)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) remove(f types.Finding) {
	kept := make([]types.Finding, 0, len(m.findings))
	removed := false
	for _, g := range m.findings {
		if !removed && g == f {
			removed = true
			continue
		}
		kept = append(kept, g)
	}
	m.findings = kept
	m.refresh()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	s := report.Summarize(m.findings)
	title := fmt.Sprintf("piimask  %d findings (high %d, medium %d, low %d)",
		s.Total, s.Confidence["high"], s.Confidence["medium"], s.Confidence["low"])
	if m.band != "" {
		title += "  [" + m.band + "]"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if len(m.visible) == 0 {
		b.WriteString(emptyStyle.Render("[OK] No PII to review"))
		b.WriteString("\n")
	} else {
		b.WriteString(tableBorderStyle.Render(m.table.View()))
		b.WriteString("\n")
		if f, ok := m.Selected(); ok {
			b.WriteString(detailStyle.Render(fmt.Sprintf("%s  %s\nrule %s  confidence %.2f  bytes %d-%d",
				f.Category.Label(), location(f), f.Rule, f.Confidence, f.Start, f.End)))
			b.WriteString("\n")
		}
	}
	help := keyStyle.Render("↑/↓") + " move  " + keyStyle.Render("0-3") + " band  " +
		keyStyle.Render("y") + " copy location  " + keyStyle.Render("b") + " baseline  " + keyStyle.Render("q") + " quit"
	b.WriteString(help)
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}
	return b.String()
}
