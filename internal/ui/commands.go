package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/thesavant42/salesview/internal/db"
	"github.com/thesavant42/salesview/internal/explorer"
	"github.com/thesavant42/salesview/internal/export"
	"github.com/thesavant42/salesview/internal/models"
)

// Async results delivered back to the Update loop.
type (
	rowsFetchedMsg struct {
		outcome explorer.Outcome
	}

	dashboardLoadedMsg struct {
		seq       uint64
		dashboard models.Dashboard
		err       error
	}

	importDoneMsg struct {
		files  []string
		result models.ImportResult
		err    error
	}

	exportDoneMsg struct {
		path     string
		format   export.Format
		rows     int
		replaced bool
		err      error
	}
)

// fetchRows runs p off the Update loop. Superseded fetches still complete;
// Coordinator.Apply drops their outcome.
func fetchRows(p explorer.Pending) tea.Cmd {
	return func() tea.Msg {
		return rowsFetchedMsg{outcome: p.Run(context.Background())}
	}
}

// reloadDashboard issues a new dashboard load. Only the reply carrying the
// latest sequence number is shown.
func (m *ExplorerModel) reloadDashboard() tea.Cmd {
	m.dashboardSeq++
	return loadDashboard(m.opts.Client, m.dashboardSeq)
}

func loadDashboard(client SalesAPI, seq uint64) tea.Cmd {
	return func() tea.Msg {
		d, err := client.FetchDashboard(context.Background())
		return dashboardLoadedMsg{seq: seq, dashboard: d, err: err}
	}
}

func (m ExplorerModel) importFiles(paths []string) tea.Cmd {
	client := m.opts.Client
	database := m.opts.Database
	logger := m.opts.Logger
	return func() tea.Msg {
		result, err := client.ImportCSV(context.Background(), paths)
		RecordImport(database, logger, paths, result, err)
		return importDoneMsg{files: paths, result: result, err: err}
	}
}

func exportJob(job *export.Job, dir string, format export.Format, database *db.DB, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		_, statErr := os.Stat(export.Path(dir, format))
		path, err := WriteExport(job, dir, format, database, logger)
		return exportDoneMsg{path: path, format: format, rows: job.Len(), replaced: statErr == nil, err: err}
	}
}

// RecordImport stores the outcome of an upload in the history database.
// A nil database is a no-op.
func RecordImport(database *db.DB, logger *log.Logger, paths []string, result models.ImportResult, err error) {
	if database == nil {
		return
	}

	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}

	rec := models.ImportRecord{
		Files:     strings.Join(names, ","),
		Succeeded: err == nil && result.Succeeded(),
		Message:   result.Message,
		CreatedAt: time.Now(),
	}
	switch {
	case err != nil:
		rec.Message = err.Error()
	case result.Error != "":
		rec.Message = result.Error
	}

	if _, dbErr := database.RecordImport(rec); dbErr != nil && logger != nil {
		logger.Warn("Failed to record import", "files", rec.Files, "error", dbErr)
	}
}
