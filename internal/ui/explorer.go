package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/thesavant42/salesview/internal/api"
	"github.com/thesavant42/salesview/internal/db"
	"github.com/thesavant42/salesview/internal/explorer"
	"github.com/thesavant42/salesview/internal/export"
	"github.com/thesavant42/salesview/internal/models"
)

const (
	statusDuration = 5 * time.Second
	trendsHeight   = 6
)

// SalesAPI is the part of the sales client the explorer screen uses.
type SalesAPI interface {
	explorer.Fetcher
	FetchDashboard(ctx context.Context) (models.Dashboard, error)
	ImportCSV(ctx context.Context, paths []string) (models.ImportResult, error)
}

// ExplorerOptions wires the explorer screen to its collaborators.
type ExplorerOptions struct {
	Client        SalesAPI
	Database      *db.DB // optional export/upload history
	Logger        *log.Logger
	ExportDir     string
	ExportOptions export.Options
}

// filterField describes one filter input.
type filterField struct {
	key         models.FilterKey
	label       string
	placeholder string
}

var filterFields = []filterField{
	{models.FilterDateRange, "Date Range", "YYYY-MM-DD,YYYY-MM-DD"},
	{models.FilterCategory, "Category", "Category"},
	{models.FilterDeliveryStatus, "Delivery Status", "Delivery Status"},
	{models.FilterPlatform, "Platform", "Platform"},
	{models.FilterState, "State", "State"},
}

// focusTable is the focus index after the last filter input.
var focusTable = len(filterFields)

// ExplorerModel is the TUI model for filtering, browsing, and exporting sales rows
type ExplorerModel struct {
	PageState

	opts  ExplorerOptions
	coord *explorer.Coordinator

	inputs      []textinput.Model
	focus       int
	table       table.Model
	trends      table.Model
	showTrends  bool
	spinner     spinner.Model
	uploadInput textinput.Model

	// Dashboard header
	dashboard    *models.Dashboard
	dashboardErr error
	dashboardSeq uint64 // latest issued load

	// Upload state
	uploading bool // path prompt open
	importing bool // upload in flight
}

// NewExplorerModel creates the explorer screen in the Empty state
func NewExplorerModel(opts ExplorerOptions) ExplorerModel {
	layout := DefaultLayout()

	inputs := make([]textinput.Model, len(filterFields))
	for i, f := range filterFields {
		ti := textinput.New()
		ti.Placeholder = f.placeholder
		ti.CharLimit = 100
		ti.TextStyle = NormalStyle
		ti.PromptStyle = NormalStyle
		ti.Prompt = "> "
		inputs[i] = ti
	}
	inputs[0].Focus()

	upload := textinput.New()
	upload.Placeholder = "path/to/sales.csv, another.csv"
	upload.CharLimit = 1024
	upload.TextStyle = NormalStyle
	upload.PromptStyle = AccentStyle

	m := ExplorerModel{
		PageState:    NewPageState(layout),
		opts:         opts,
		coord:        explorer.NewCoordinator(opts.Client, opts.Logger),
		inputs:       inputs,
		table:        InitTable(CalculateColumns(SalesColumns(), layout.TableWidth), nil, layout.TableHeight),
		trends:       InitTable(CalculateColumns(TrendColumns(), layout.TableWidth), nil, trendsHeight),
		spinner:      NewAppSpinner(),
		uploadInput:  upload,
		dashboardSeq: 1, // loaded by Init
	}
	m.resize()
	return m
}

func (m ExplorerModel) Init() tea.Cmd {
	return tea.Batch(
		StandardInit(),
		textinput.Blink,
		loadDashboard(m.opts.Client, m.dashboardSeq),
	)
}

func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.ClearExpiredStatus(time.Now())

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.UpdateLayout(msg.Width, msg.Height)
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case rowsFetchedMsg:
		return m.handleRowsFetched(msg)

	case dashboardLoadedMsg:
		if msg.seq != m.dashboardSeq {
			return m, nil
		}
		if msg.err != nil {
			m.dashboardErr = msg.err
			if m.opts.Logger != nil {
				m.opts.Logger.Warn("Dashboard unavailable", "error", msg.err)
			}
			return m, nil
		}
		d := msg.dashboard
		m.dashboard = &d
		m.dashboardErr = nil
		m.refreshTrends()
		return m, nil

	case importDoneMsg:
		return m.handleImportDone(msg)

	case exportDoneMsg:
		if msg.err != nil {
			m.SetStatus(fmt.Sprintf("Export failed: %v", msg.err), StatusError, 0)
			return m, nil
		}
		status := fmt.Sprintf("Exported %d rows to %s", msg.rows, msg.path)
		if msg.replaced {
			status += " (replaced previous export)"
		}
		m.SetStatus(status, StatusSuccess, statusDuration)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m.updateFocused(msg)
}

func (m ExplorerModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.uploading {
		return m.handleUploadKeys(msg)
	}

	if quit, cmd := HandleQuitKeys(msg.String()); quit {
		m.Quitting = true
		return m, cmd
	}

	switch msg.String() {
	case "tab":
		m.setFocus((m.focus + 1) % (focusTable + 1))
		return m, nil

	case "shift+tab":
		m.setFocus((m.focus + focusTable) % (focusTable + 1))
		return m, nil

	case "enter":
		return m.search(m.coord.Search())

	case "ctrl+r":
		m.coord.Clear()
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.refreshTable()
		m.SetStatus("Filters cleared", StatusInfo, statusDuration)
		return m, nil

	case "ctrl+e":
		return m.startExport(export.FormatCSV)

	case "ctrl+x":
		return m.startExport(export.FormatXLSX)

	case "ctrl+u":
		if m.importing {
			m.SetStatus("An upload is already running", StatusInfo, statusDuration)
			return m, nil
		}
		m.uploading = true
		m.uploadInput.SetValue("")
		m.blurAll()
		return m, m.uploadInput.Focus()

	case "ctrl+t":
		m.showTrends = !m.showTrends
		m.resize()
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m ExplorerModel) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.uploading = false
		m.uploadInput.Blur()
		m.setFocus(m.focus)
		return m, nil

	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit

	case "enter":
		paths := ParsePathList(m.uploadInput.Value())
		if err := ValidateCSVPaths(paths); err != nil {
			m.SetStatus(err.Error(), StatusError, statusDuration)
			return m, nil
		}
		m.uploading = false
		m.importing = true
		m.uploadInput.Blur()
		m.setFocus(m.focus)
		m.ClearStatus()
		return m, tea.Batch(m.importFiles(paths), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.uploadInput, cmd = m.uploadInput.Update(msg)
	return m, cmd
}

// updateFocused forwards msg to the focused input or the table, and copies
// the edited input value into the held criteria.
func (m ExplorerModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.uploading {
		m.uploadInput, cmd = m.uploadInput.Update(msg)
		return m, cmd
	}

	if m.focus == focusTable {
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	field := filterFields[m.focus]
	if err := m.coord.SetField(field.key, strings.TrimSpace(m.inputs[m.focus].Value())); err != nil && m.opts.Logger != nil {
		m.opts.Logger.Error("Failed to set filter", "key", field.key, "error", err)
	}
	return m, cmd
}

func (m ExplorerModel) search(p explorer.Pending) (tea.Model, tea.Cmd) {
	m.ClearStatus()
	return m, tea.Batch(fetchRows(p), m.spinner.Tick)
}

func (m ExplorerModel) handleRowsFetched(msg rowsFetchedMsg) (tea.Model, tea.Cmd) {
	if !m.coord.Apply(msg.outcome) {
		return m, nil
	}
	m.refreshTable()

	switch m.coord.Phase() {
	case explorer.PhaseErrored:
		m.SetStatus(api.UserMessage, StatusError, 0)
	case explorer.PhaseLoaded:
		if n := m.coord.Result().Len(); n == 0 {
			m.SetStatus("No sales match the current filters", StatusInfo, statusDuration)
		} else {
			m.SetStatus(fmt.Sprintf("Loaded %d rows", n), StatusSuccess, statusDuration)
		}
	}
	return m, nil
}

func (m ExplorerModel) handleImportDone(msg importDoneMsg) (tea.Model, tea.Cmd) {
	m.importing = false

	if msg.err != nil {
		status := "Error uploading CSV file."
		var terr *api.TransportError
		if errors.As(msg.err, &terr) && terr.Message != "" {
			status += " " + terr.Message
		}
		m.SetStatus(status, StatusError, 0)
		return m, nil
	}
	if !msg.result.Succeeded() {
		m.SetStatus("Upload not accepted: "+msg.result.Error+msg.result.Message, StatusError, 0)
		return m, nil
	}

	m.SetStatus("CSV files imported successfully!", StatusSuccess, statusDuration)

	cmds := []tea.Cmd{m.reloadDashboard()}
	if p, ok := m.coord.NotifyExternalChange(); ok {
		cmds = append(cmds, fetchRows(p), m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m ExplorerModel) startExport(format export.Format) (tea.Model, tea.Cmd) {
	rs, err := m.coord.Snapshot()
	var job *export.Job
	if err == nil {
		job, err = export.NewJob(rs, m.opts.ExportOptions)
	}
	if err != nil {
		var perr *models.PreconditionError
		if errors.As(err, &perr) {
			m.SetStatus("No data available to export!", StatusError, statusDuration)
			return m, nil
		}
		m.SetStatus(fmt.Sprintf("Export failed: %v", err), StatusError, 0)
		return m, nil
	}

	m.SetStatus(fmt.Sprintf("Exporting %d rows...", job.Len()), StatusInfo, 0)
	return m, exportJob(job, m.opts.ExportDir, format, m.opts.Database, m.opts.Logger)
}

// =============================================================================
// State helpers
// =============================================================================

func (m ExplorerModel) busy() bool {
	return m.coord.Phase() == explorer.PhaseLoading || m.importing
}

func (m *ExplorerModel) blurAll() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.table.Blur()
}

func (m *ExplorerModel) setFocus(focus int) {
	m.blurAll()
	m.focus = focus
	if focus == focusTable {
		m.table.Focus()
		return
	}
	m.inputs[focus].Focus()
}

func (m *ExplorerModel) resize() {
	inputWidth := m.Layout.InnerWidth - LabelStyle.GetWidth() - 4
	for i := range m.inputs {
		m.inputs[i].Width = inputWidth
	}
	m.uploadInput.Width = inputWidth

	height := m.Layout.TableHeight
	if m.showTrends {
		height -= trendsHeight + 4
		if height < MinTableHeight {
			height = MinTableHeight
		}
	}
	m.table.SetColumns(CalculateColumns(SalesColumns(), m.Layout.TableWidth))
	m.table.SetHeight(height)
	m.trends.SetColumns(CalculateColumns(TrendColumns(), m.Layout.TableWidth))
}

// refreshTable replaces the table rows with the current result. A failed or
// cleared view has no result, so the table empties.
func (m *ExplorerModel) refreshTable() {
	rs := m.coord.Result()
	rows := make([]table.Row, 0, rs.Len())
	for _, r := range rs.Rows() {
		rows = append(rows, salesRow(r))
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m *ExplorerModel) refreshTrends() {
	if m.dashboard == nil {
		return
	}
	rows := make([]table.Row, 0, len(m.dashboard.Trends))
	for _, t := range m.dashboard.Trends {
		rows = append(rows, table.Row{t.Month, string(t.QuantitySold), string(t.Revenue)})
	}
	m.trends.SetRows(rows)
	m.trends.SetCursor(0)
}

// Criteria returns the filter values currently held by the screen.
func (m ExplorerModel) Criteria() models.FilterCriteria {
	return m.coord.Criteria()
}

// Phase returns the lifecycle state of the results table.
func (m ExplorerModel) Phase() explorer.Phase {
	return m.coord.Phase()
}

// =============================================================================
// View
// =============================================================================

func (m ExplorerModel) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(ViewHeaderWithSubtitle("Sales Explorer", m.renderSummary(), m.Layout.InnerWidth))

	for i, f := range filterFields {
		label := LabelStyle.Render(f.label)
		if i == m.focus && !m.uploading {
			label = FocusedLabelStyle.Render(f.label)
		}
		b.WriteString(label)
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if m.uploading {
		b.WriteString("\n")
		b.WriteString(FocusedLabelStyle.Render("Upload CSV"))
		b.WriteString(m.uploadInput.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n\n")
	b.WriteString(m.renderResults())

	if m.showTrends {
		b.WriteString("\n\n")
		b.WriteString(ViewHeader("Monthly Trends", m.Layout.InnerWidth))
		b.WriteString(m.renderTrends())
	}

	return BuildTwoBoxView(b.String(), m.helpText(), m.Layout)
}

func (m ExplorerModel) renderSummary() string {
	switch {
	case m.dashboard != nil:
		s := m.dashboard.Summary
		return fmt.Sprintf("Revenue: %s  |  Orders: %d  |  Products sold: %s  |  Canceled: %.2f%%",
			s.TotalRevenue, s.TotalOrders, s.TotalProductsSold, s.CanceledOrderPercentage)
	case m.dashboardErr != nil:
		return "Summary unavailable"
	}
	return "Loading summary..."
}

func (m ExplorerModel) renderStatusLine() string {
	switch {
	case m.importing:
		return m.spinner.View() + " " + RenderNormal("Uploading CSV files...")
	case m.coord.Phase() == explorer.PhaseLoading:
		return m.spinner.View() + " " + RenderNormal("Loading sales data...")
	case m.HasStatus():
		return m.RenderStatus()
	case m.coord.Phase() == explorer.PhaseEmpty:
		return RenderDim("Enter filters and press enter to search")
	}
	return RenderDim(m.coord.Criteria().String())
}

func (m ExplorerModel) renderResults() string {
	switch m.coord.Phase() {
	case explorer.PhaseEmpty:
		return RenderDim("No results.")
	case explorer.PhaseErrored:
		return RenderError(api.UserMessage)
	}

	if m.coord.Result().Len() == 0 && m.coord.Phase() == explorer.PhaseLoaded {
		return RenderTableWithSelection(m.table, m.Layout, false) + "\n" + RenderDim("No rows.")
	}
	return RenderTableWithSelection(m.table, m.Layout, m.focus == focusTable && !m.uploading)
}

func (m ExplorerModel) renderTrends() string {
	switch {
	case m.dashboard == nil:
		return RenderDim("No trend data.")
	case len(m.dashboard.Trends) == 0:
		return RenderDim("No sales recorded yet.")
	}
	return RenderTableWithSelection(m.trends, m.Layout, false)
}

func (m ExplorerModel) helpText() string {
	if m.uploading {
		return "enter: upload | esc: cancel"
	}
	return "tab: next field | enter: search | ctrl+r: clear | ctrl+e: csv | ctrl+x: xlsx | ctrl+u: upload | ctrl+t: trends | esc: quit"
}

// RunExplorer runs the explorer screen until the user quits
func RunExplorer(opts ExplorerOptions) error {
	p := tea.NewProgram(NewExplorerModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
