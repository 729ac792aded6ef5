package ui

// history_browser.go shows the local export and upload logs as two
// read-only pages switched with Tab/←/→.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thesavant42/salesview/internal/models"
)

// historyPage is one tab of the browser.
type historyPage struct {
	name    string
	columns []ColumnSpec
	rows    []table.Row
}

// HistoryBrowserModel is a tabbed viewer over the history database.
type HistoryBrowserModel struct {
	PageState

	pages       []historyPage
	tables      []table.Model
	currentPage int
}

// ExportHistoryColumns returns column specs for the export log page.
func ExportHistoryColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "When", FixedWidth: 19},
		{Title: "Format", FixedWidth: 6},
		{Title: "Rows", FixedWidth: 8},
		{Title: "Query", FlexRatio: 50, MinWidth: 12},
		{Title: "File", FlexRatio: 50, MinWidth: 12},
	}
}

// ImportHistoryColumns returns column specs for the upload log page.
func ImportHistoryColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "When", FixedWidth: 19},
		{Title: "Status", FixedWidth: 6},
		{Title: "Files", FlexRatio: 50, MinWidth: 12},
		{Title: "Message", FlexRatio: 50, MinWidth: 12},
	}
}

// NewHistoryBrowserModel builds the Exports and Imports pages.
func NewHistoryBrowserModel(exports []models.ExportRecord, imports []models.ImportRecord) HistoryBrowserModel {
	layout := DefaultLayout()

	exportRows := make([]table.Row, len(exports))
	for i, r := range exports {
		exportRows[i] = table.Row{
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Format,
			strconv.Itoa(r.RowCount),
			TruncateCell(r.Query),
			TruncateCell(r.Filename),
		}
	}

	importRows := make([]table.Row, len(imports))
	for i, r := range imports {
		status := "failed"
		if r.Succeeded {
			status = "ok"
		}
		importRows[i] = table.Row{
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			status,
			TruncateCell(r.Files),
			TruncateCell(r.Message),
		}
	}

	pages := []historyPage{
		{name: fmt.Sprintf("Exports (%d)", len(exports)), columns: ExportHistoryColumns(), rows: exportRows},
		{name: fmt.Sprintf("Imports (%d)", len(imports)), columns: ImportHistoryColumns(), rows: importRows},
	}

	tables := make([]table.Model, len(pages))
	for i, p := range pages {
		tables[i] = InitTable(CalculateColumns(p.columns, layout.TableWidth), p.rows, layout.TableHeight)
	}
	tables[0].Focus()

	return HistoryBrowserModel{
		PageState: NewPageState(layout),
		pages:     pages,
		tables:    tables,
	}
}

func (m HistoryBrowserModel) Init() tea.Cmd {
	return StandardInit()
}

func (m HistoryBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.UpdateLayout(msg.Width, msg.Height) {
			for i, p := range m.pages {
				m.tables[i].SetColumns(CalculateColumns(p.columns, m.Layout.TableWidth))
				m.tables[i].SetHeight(m.Layout.TableHeight)
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		case "tab", "right", "l":
			m.switchPage((m.currentPage + 1) % len(m.pages))
			return m, nil
		case "shift+tab", "left", "h":
			m.switchPage((m.currentPage + len(m.pages) - 1) % len(m.pages))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.tables[m.currentPage], cmd = m.tables[m.currentPage].Update(msg)
	return m, cmd
}

func (m *HistoryBrowserModel) switchPage(page int) {
	m.tables[m.currentPage].Blur()
	m.currentPage = page
	m.tables[m.currentPage].Focus()
	m.tables[m.currentPage].GotoTop()
}

func (m HistoryBrowserModel) View() string {
	if m.Quitting {
		return ""
	}

	var content strings.Builder
	content.WriteString(RenderTitle("History"))
	content.WriteString("\n")
	content.WriteString(m.renderTabIndicator())
	content.WriteString("\n")
	content.WriteString(FullWidthDivider(m.Layout.InnerWidth))
	content.WriteString("\n\n")

	if len(m.pages[m.currentPage].rows) == 0 {
		content.WriteString(RenderDim("Nothing recorded yet."))
	} else {
		content.WriteString(RenderTableWithSelection(m.tables[m.currentPage], m.Layout, true))
	}

	return BuildTwoBoxView(content.String(), "↑/↓: navigate | Tab/←/→: switch page | q/Esc: back", m.Layout)
}

func (m HistoryBrowserModel) renderTabIndicator() string {
	parts := make([]string, len(m.pages))
	for i, p := range m.pages {
		if i == m.currentPage {
			parts[i] = SelectedStyle.Render(" " + p.name + " ")
		} else {
			parts[i] = DimStyle.Render(" " + p.name + " ")
		}
	}
	return strings.Join(parts, " ") + "  " + RenderDim("(Tab/←/→)")
}

// RunHistoryBrowser shows the history pages until the user quits.
func RunHistoryBrowser(exports []models.ExportRecord, imports []models.ImportRecord) error {
	p := tea.NewProgram(NewHistoryBrowserModel(exports, imports), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("history browser error: %w", err)
	}
	return nil
}
