package ui

// base_model.go provides common Bubble Tea helpers shared by the explorer
// screen and the standalone prompts.

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// InitTable creates and configures a table with proper styling and dimensions.
// Use this instead of calling table.New() directly.
//
// Example:
//
//	columns := CalculateColumns(SalesColumns(), layout.TableWidth)
//	m.table = InitTable(columns, nil, layout.TableHeight)
func InitTable(columns []table.Column, rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
	)

	ApplyTableStyles(&t)

	// Ensure cursor starts at the top for proper viewport positioning
	t.GotoTop()

	return t
}

// StandardInit returns the standard Init command: ask for the window size.
func StandardInit() tea.Cmd {
	return tea.WindowSize()
}

// HandleQuitKeys returns true and Quit cmd for esc/ctrl+c.
// q is left alone because the explorer is mostly text inputs.
func HandleQuitKeys(key string) (bool, tea.Cmd) {
	switch key {
	case "esc", "ctrl+c":
		return true, tea.Quit
	}
	return false, nil
}
