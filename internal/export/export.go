// Package export turns the displayed ResultSet into a downloadable file.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/thesavant42/salesview/internal/models"
)

// Format selects the file type of an export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(raw)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", raw)
}

// Filename returns the download name for the format.
func (f Format) Filename() string {
	return "visible_data." + string(f)
}

// MIMEType returns the content type for the format.
func (f Format) MIMEType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Column maps an export header to the row field it reads.
type Column struct {
	Header string
	Field  string
}

// Columns is the fixed header set and order of every export.
var Columns = []Column{
	{"Order ID", models.FieldOrderID},
	{"Category", models.FieldCategory},
	{"Platform", models.FieldPlatform},
	{"Quantity Sold", models.FieldQuantitySold},
	{"Selling Price", models.FieldSellingPrice},
	{"Date of Sale", models.FieldDateOfSale},
	{"Delivery Status", models.FieldDeliveryStatus},
	{"Delivery State", models.FieldDeliveryState},
}

const sheetName = "Visible Data"

// Options tunes how a Job renders.
type Options struct {
	// EscapeFields quotes values per RFC 4180. Off by default so output
	// stays byte-identical to the dashboard's plain comma join.
	EscapeFields bool
}

// Job is an immutable snapshot of the rows on screen when export was invoked.
type Job struct {
	ID        string
	CreatedAt time.Time
	Criteria  models.FilterCriteria

	rows []models.Row
	opts Options
}

// NewJob snapshots rs. An absent or empty ResultSet is a
// *models.PreconditionError.
func NewJob(rs *models.ResultSet, opts Options) (*Job, error) {
	if rs.Len() == 0 {
		return nil, &models.PreconditionError{Reason: models.ReasonNothingToExport}
	}
	return &Job{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Criteria:  rs.Criteria(),
		rows:      rs.Rows(),
		opts:      opts,
	}, nil
}

// Len returns the number of rows in the snapshot.
func (j *Job) Len() int {
	return len(j.rows)
}

func headers() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.Header
	}
	return out
}

func record(row models.Row) []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = row.Field(c.Field)
	}
	return out
}

// CSV renders the header line followed by one line per row, in order.
// Lines are separated by "\n" with no trailing newline.
func (j *Job) CSV() ([]byte, error) {
	if j.opts.EscapeFields {
		return j.escapedCSV()
	}

	lines := make([]string, 0, len(j.rows)+1)
	lines = append(lines, strings.Join(headers(), ","))
	for _, row := range j.rows {
		lines = append(lines, strings.Join(record(row), ","))
	}
	return []byte(strings.Join(lines, "\n")), nil
}

func (j *Job) escapedCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers()); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range j.rows {
		if err := w.Write(record(row)); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// XLSX renders the same header and rows into a single worksheet.
// Values are written as text so numbers keep the server's formatting.
func (j *Job) XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, h := range headers() {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range j.rows {
		values := make([]interface{}, len(Columns))
		for k, v := range record(row) {
			values[k] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Render returns the bytes for the requested format.
func (j *Job) Render(format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return j.CSV()
	case FormatXLSX:
		return j.XLSX()
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// Path returns where WriteFile would put the export inside dir.
func Path(dir string, format Format) string {
	return filepath.Join(dir, format.Filename())
}

// WriteFile renders the job and writes it to dir, replacing any previous
// export of the same format. It returns the written path.
func (j *Job) WriteFile(dir string, format Format) (string, error) {
	data, err := j.Render(format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	path := Path(dir, format)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
