package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/thesavant42/salesview/internal/api"
	"github.com/thesavant42/salesview/internal/config"
	"github.com/thesavant42/salesview/internal/db"
	"github.com/thesavant42/salesview/internal/explorer"
	"github.com/thesavant42/salesview/internal/export"
	"github.com/thesavant42/salesview/internal/logging"
	"github.com/thesavant42/salesview/internal/models"
	"github.com/thesavant42/salesview/internal/ui"
)

const usage = `Usage: salesview [flags] [command] [args]

Commands:
  tui                 Interactive explorer (default)
  export              Fetch rows for the filter flags and write visible_data.csv/.xlsx
  import FILE...      Upload sales CSV files to the backend
  report              Print the dashboard summary and the filtered rows
  history             Print the local export and upload history

Flags:
`

// app bundles what every command needs.
type app struct {
	cfg      *config.Config
	client   *api.SalesClient
	database *db.DB
	logger   *log.Logger
}

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	os.Exit(run(os.Args[1:]))
}

// run parses args, executes one command, and returns the process exit code.
// Resources opened for the command are closed before it returns.
func run(args []string) int {
	flags := pflag.NewFlagSet("salesview", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}

	configPath := flags.StringP("config", "c", "", "Path to YAML config (default salesview.yaml when present)")
	baseURL := flags.String("base-url", "", "Sales API root, e.g. http://127.0.0.1:8000/api")
	dbPath := flags.String("db", "", "Path to the SQLite history database (\"-\" disables history)")
	logFile := flags.String("log-file", "", "Log file path (\"-\" disables logging)")
	logLevel := flags.String("log-level", "", "Log level: debug, info, warn, error")
	noSplash := flags.Bool("no-splash", false, "Skip the startup splash screen")

	// Filters, shared by export and report
	filterValues := make(map[models.FilterKey]*string, len(models.FilterKeys))
	for _, k := range models.FilterKeys {
		flagName := strings.ReplaceAll(string(k), "_", "-")
		filterValues[k] = flags.String(flagName, "", fmt.Sprintf("Filter on %s", k))
	}

	formatFlag := flags.StringP("format", "f", "csv", "Export format: csv or xlsx")
	outputDir := flags.StringP("output", "o", "", "Export directory (default from config)")
	force := flags.Bool("force", false, "Overwrite an existing export without asking")
	escape := flags.Bool("escape", false, "Quote CSV fields that contain commas or quotes")
	markdown := flags.String("markdown", "", "Also write the report as markdown to this file")
	limit := flags.IntP("limit", "n", 20, "Number of history entries to show (0 = all)")
	browse := flags.Bool("browse", false, "Open the history in an interactive viewer")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		ui.PrintError(err.Error())
		return 2
	}

	command := "tui"
	args = flags.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		ui.PrintError(err.Error())
		return 1
	}

	// Flags win over file and environment
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}
	if *dbPath != "" {
		cfg.Storage.DBPath = *dbPath
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if *logLevel != "" {
		cfg.Log.Level = strings.ToLower(*logLevel)
	}
	if *outputDir != "" {
		cfg.Export.Dir = *outputDir
	}
	if *escape {
		cfg.Export.EscapeFields = true
	}
	if cfg.Storage.DBPath == "-" {
		cfg.Storage.DBPath = ""
	}
	if cfg.Log.File == "-" {
		cfg.Log.File = ""
	}

	if err := config.Validate(cfg); err != nil {
		ui.PrintError(err.Error())
		return 1
	}

	criteria, err := criteriaFromFlags(filterValues)
	if err != nil {
		ui.PrintError(err.Error())
		return 2
	}

	switch command {
	case "tui", "export", "import", "report", "history":
	default:
		ui.PrintError(fmt.Sprintf("unknown command %q", command))
		flags.Usage()
		return 2
	}

	a, closeAll, err := newApp(cfg)
	if err != nil {
		ui.PrintError(err.Error())
		return 1
	}
	defer closeAll()

	switch command {
	case "tui":
		if !*noSplash {
			ui.ShowSplash(cfg.API.BaseURL)
		}
		err = ui.RunExplorer(ui.ExplorerOptions{
			Client:        a.client,
			Database:      a.database,
			Logger:        a.logger,
			ExportDir:     cfg.Export.Dir,
			ExportOptions: export.Options{EscapeFields: cfg.Export.EscapeFields},
		})
	case "export":
		err = a.runExport(criteria, *formatFlag, *force)
	case "import":
		err = a.runImport(args)
	case "report":
		err = a.runReport(criteria, *markdown)
	case "history":
		err = a.runHistory(*limit, *browse)
	}

	if err != nil {
		if errors.Is(err, ui.ErrCancelled) {
			return 0
		}
		ui.PrintError(err.Error())
		return 1
	}
	return 0
}

// newApp opens the logger, API client, and history database.
func newApp(cfg *config.Config) (*app, func(), error) {
	logger, logCloser, err := logging.Open(cfg.Log.File, cfg.Log.Level, "salesview")
	if err != nil {
		return nil, nil, err
	}

	client, err := api.NewSalesClient(api.SalesOptions{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		Proxy:     cfg.API.Proxy,
		NoProxy:   cfg.API.NoProxy,
		Logger:    logger,
	})
	if err != nil {
		logCloser.Close()
		return nil, nil, err
	}

	var database *db.DB
	if cfg.Storage.DBPath != "" {
		database, err = db.New(cfg.Storage.DBPath)
		if err != nil {
			logCloser.Close()
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	closers := []io.Closer{logCloser}
	if database != nil {
		closers = append([]io.Closer{database}, closers...)
	}
	closeAll := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	if logger != nil {
		logger.Info("Starting", "base_url", cfg.API.BaseURL, "db", cfg.Storage.DBPath)
	}

	return &app{cfg: cfg, client: client, database: database, logger: logger}, closeAll, nil
}

func criteriaFromFlags(values map[models.FilterKey]*string) (models.FilterCriteria, error) {
	criteria := models.ClearCriteria()
	for _, k := range models.FilterKeys {
		next, err := criteria.SetField(k, strings.TrimSpace(*values[k]))
		if err != nil {
			return criteria, err
		}
		criteria = next
	}
	return criteria, nil
}

// explorerFor returns a Coordinator holding criteria.
func explorerFor(client explorer.Fetcher, logger *log.Logger, criteria models.FilterCriteria) *explorer.Coordinator {
	coord := explorer.NewCoordinator(client, logger)
	for _, k := range models.FilterKeys {
		v, _ := criteria.Get(k)
		_ = coord.SetField(k, v)
	}
	return coord
}

// fetch runs one search through a Coordinator so the CLI follows the same
// state transitions as the interactive screen.
func (a *app) fetch(criteria models.FilterCriteria) (*models.ResultSet, error) {
	coord := explorerFor(a.client, a.logger, criteria)
	outcome := coord.Search().Run(context.Background())
	coord.Apply(outcome)
	if err := coord.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", api.UserMessage, err)
	}
	return coord.Result(), nil
}

func (a *app) runExport(criteria models.FilterCriteria, rawFormat string, force bool) error {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return err
	}

	var rs *models.ResultSet
	err = ui.RunWithSpinner("Fetching sales data...", func() error {
		var fetchErr error
		rs, fetchErr = a.fetch(criteria)
		return fetchErr
	})
	if err != nil {
		return err
	}

	job, err := export.NewJob(rs, export.Options{EscapeFields: a.cfg.Export.EscapeFields})
	if err != nil {
		return err
	}

	path := export.Path(a.cfg.Export.Dir, format)
	if _, statErr := os.Stat(path); statErr == nil && !force {
		ok, err := ui.ConfirmOverwrite(path)
		if err != nil {
			return err
		}
		if !ok {
			return ui.ErrCancelled
		}
	}

	written, err := ui.WriteExport(job, a.cfg.Export.Dir, format, a.database, a.logger)
	if err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Exported %d rows to %s", job.Len(), written))
	return nil
}

func (a *app) runImport(paths []string) error {
	if len(paths) == 0 {
		var err error
		paths, err = ui.PromptForImportFiles()
		if err != nil {
			return err
		}
	}
	if err := ui.ValidateCSVPaths(paths); err != nil {
		return err
	}

	var result models.ImportResult
	err := ui.RunWithSpinner(fmt.Sprintf("Uploading %d file(s)...", len(paths)), func() error {
		var importErr error
		result, importErr = a.client.ImportCSV(context.Background(), paths)
		ui.RecordImport(a.database, a.logger, paths, result, importErr)
		return importErr
	})
	if err != nil {
		if errors.Is(err, ui.ErrCancelled) {
			return err
		}
		var terr *api.TransportError
		if errors.As(err, &terr) && terr.Message != "" {
			return fmt.Errorf("error uploading CSV file: %s", terr.Message)
		}
		return fmt.Errorf("error uploading CSV file: %w", err)
	}
	if !result.Succeeded() {
		return fmt.Errorf("upload not accepted: %s%s", result.Error, result.Message)
	}

	ui.PrintSuccess("CSV files imported successfully!")
	return nil
}

func (a *app) runReport(criteria models.FilterCriteria, markdownPath string) error {
	var (
		dashboard models.Dashboard
		rs        *models.ResultSet
	)
	err := ui.RunWithSpinner("Loading report...", func() error {
		var err error
		if dashboard, err = a.client.FetchDashboard(context.Background()); err != nil {
			return err
		}
		rs, err = a.fetch(criteria)
		return err
	})
	if err != nil {
		return err
	}

	ui.PrintHeader(criteria, rs.Len())
	ui.PrintSummary(dashboard)
	ui.PrintSalesTable("Sales", rs.Rows(), "")

	if markdownPath != "" {
		md := ui.GenerateMarkdownReport(dashboard, criteria, rs.Rows())
		if err := os.WriteFile(markdownPath, []byte(md), 0644); err != nil {
			return fmt.Errorf("failed to write markdown report: %w", err)
		}
		ui.PrintSuccess("Report written to " + markdownPath)
	}
	return nil
}

func (a *app) runHistory(limit int, browse bool) error {
	if a.database == nil {
		return errors.New("history is disabled (no database configured)")
	}

	exports, err := a.database.ListExports(limit)
	if err != nil {
		return err
	}
	imports, err := a.database.ListImports(limit)
	if err != nil {
		return err
	}

	if browse {
		return ui.RunHistoryBrowser(exports, imports)
	}
	ui.PrintExportHistory(exports)
	ui.PrintImportHistory(imports)
	return nil
}
