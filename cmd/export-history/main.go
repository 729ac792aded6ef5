package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/pflag"

	"github.com/thesavant42/salesview/internal/db"
	"github.com/thesavant42/salesview/internal/ui"
)

func main() {
	dbPath := pflag.String("db", "salesview.db", "Path to SQLite history database")
	exportsPath := pflag.String("exports", "exports.csv", "Output CSV for the export log")
	importsPath := pflag.String("imports", "imports.csv", "Output CSV for the upload log")
	backupDir := pflag.String("backup", "", "Also copy the database into this directory")
	pflag.Parse()

	if _, err := os.Stat(*dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}

	database, err := db.New(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	exports, err := database.ListExports(0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query exports: %v\n", err)
		os.Exit(1)
	}
	rows := make([][]string, len(exports))
	for i, e := range exports {
		rows[i] = []string{e.ID, e.CreatedAt.Format(time.RFC3339), e.Format, strconv.Itoa(e.RowCount), e.Query, e.Filename}
	}
	if err := writeCSV(*exportsPath, []string{"id", "created_at", "format", "row_count", "query", "filename"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d export records to %s\n", len(rows), *exportsPath)

	imports, err := database.ListImports(0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query imports: %v\n", err)
		os.Exit(1)
	}
	rows = make([][]string, len(imports))
	for i, r := range imports {
		rows[i] = []string{strconv.FormatInt(r.ID, 10), r.CreatedAt.Format(time.RFC3339), strconv.FormatBool(r.Succeeded), r.Files, r.Message}
	}
	if err := writeCSV(*importsPath, []string{"id", "created_at", "succeeded", "files", "message"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d upload records to %s\n", len(rows), *importsPath)

	if *backupDir != "" {
		var (
			path      string
			backupErr error
		)
		if err := spinner.New().
			Title("Copying database...").
			Action(func() {
				path, backupErr = ui.ExportDatabaseBackup(*dbPath, *backupDir)
			}).
			Run(); err != nil {
			backupErr = err
		}
		if backupErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to back up database: %v\n", backupErr)
			os.Exit(1)
		}
		fmt.Printf("Database copied to %s\n", path)
	}
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}
