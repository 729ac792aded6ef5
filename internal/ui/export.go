package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/thesavant42/salesview/internal/db"
	"github.com/thesavant42/salesview/internal/export"
	"github.com/thesavant42/salesview/internal/models"
)

// WriteExport writes the job to dir and records it in the export history
// when a database is available. A history failure does not fail the export.
func WriteExport(job *export.Job, dir string, format export.Format, database *db.DB, logger *log.Logger) (string, error) {
	path, err := job.WriteFile(dir, format)
	if err != nil {
		if logger != nil {
			logger.Error("Export failed", "format", format, "dir", dir, "error", err)
		}
		return "", err
	}
	if logger != nil {
		logger.Info("Export written", "id", job.ID, "path", path, "rows", job.Len())
	}

	if database != nil {
		rec := models.ExportRecord{
			ID:        job.ID,
			Filename:  path,
			Format:    string(format),
			RowCount:  job.Len(),
			Query:     job.Criteria.Serialize().Encode(),
			CreatedAt: job.CreatedAt,
		}
		if err := database.RecordExport(rec); err != nil && logger != nil {
			logger.Warn("Failed to record export", "id", job.ID, "error", err)
		}
	}

	return path, nil
}

// ExportDatabaseBackup copies the history database into dir with a timestamped name
func ExportDatabaseBackup(currentDBPath, dir string) (string, error) {
	// Generate backup filename with timestamp
	timestamp := time.Now().Format("2006-01-02-150405")
	baseName := strings.TrimSuffix(filepath.Base(currentDBPath), filepath.Ext(currentDBPath))
	backupFilename := filepath.Join(dir, fmt.Sprintf("%s-backup-%s.db", baseName, timestamp))

	// Open source file
	src, err := os.Open(currentDBPath)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	// Create destination file
	dst, err := os.Create(backupFilename)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	// Copy contents
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy database: %w", err)
	}

	return backupFilename, nil
}
