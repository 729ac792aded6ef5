package db

import (
	"fmt"
	"time"

	"github.com/thesavant42/salesview/internal/models"
)

// RecordExport stores one written export.
func (db *DB) RecordExport(r models.ExportRecord) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := db.conn.Exec(insertExport,
		r.ID,
		r.Filename,
		r.Format,
		r.RowCount,
		r.Query,
		r.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	return nil
}

// ListExports returns the most recent exports, newest first.
// limit <= 0 returns all of them.
func (db *DB) ListExports(limit int) ([]models.ExportRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(selectExports, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	var records []models.ExportRecord
	for rows.Next() {
		var r models.ExportRecord
		var created string
		if err := rows.Scan(&r.ID, &r.Filename, &r.Format, &r.RowCount, &r.Query, &created); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		r.CreatedAt, _ = time.Parse(timeFormat, created)
		records = append(records, r)
	}
	return records, rows.Err()
}

// RecordImport stores the outcome of one upload and returns its id.
func (db *DB) RecordImport(r models.ImportRecord) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	succeeded := 0
	if r.Succeeded {
		succeeded = 1
	}
	res, err := db.conn.Exec(insertImport, r.Files, succeeded, r.Message, r.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("failed to record import: %w", err)
	}
	return res.LastInsertId()
}

// ListImports returns the most recent uploads, newest first.
func (db *DB) ListImports(limit int) ([]models.ImportRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(selectImports, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	defer rows.Close()

	var records []models.ImportRecord
	for rows.Next() {
		var r models.ImportRecord
		var succeeded int
		var created string
		if err := rows.Scan(&r.ID, &r.Files, &succeeded, &r.Message, &created); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		r.Succeeded = succeeded == 1
		r.CreatedAt, _ = time.Parse(timeFormat, created)
		records = append(records, r)
	}
	return records, rows.Err()
}
