package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redactyl/piimask/internal/types"
)

// Run starts the viewer full screen and blocks until the user quits.
func Run(findings []types.Finding, onBaseline func([]types.Finding) error) error {
	m := NewModel(findings, onBaseline)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
