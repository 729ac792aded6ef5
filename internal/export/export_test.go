package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/thesavant42/salesview/internal/models"
)

const header = "Order ID,Category,Platform,Quantity Sold,Selling Price,Date of Sale,Delivery Status,Delivery State"

func decode(t *testing.T, body string) []models.Row {
	t.Helper()
	rows, err := models.DecodeRows(strings.NewReader(body))
	require.NoError(t, err)
	return rows
}

func TestCSVSingleRow(t *testing.T) {
	rows := decode(t, `[{"order_id":"A1","product__category":"Toys","platform":"Web","quantity_sold":2,
		"selling_price":9.99,"date_of_sale":"2024-01-05","delivery__delivery_status":"Delivered",
		"delivery__delivery_address_state":"CA"}]`)
	job, err := NewJob(models.NewResultSet(models.FilterCriteria{}, rows), Options{})
	require.NoError(t, err)

	out, err := job.CSV()
	require.NoError(t, err)

	assert.Equal(t, header+"\nA1,Toys,Web,2,9.99,2024-01-05,Delivered,CA", string(out))
}

func TestCSVKeepsOrderAndBlanksMissingFields(t *testing.T) {
	rows := []models.Row{
		{"order_id": "Z9", "platform": "Amazon"},
		{"order_id": "A1", "extra": "ignored"},
	}
	job, err := NewJob(models.NewResultSet(models.FilterCriteria{}, rows), Options{})
	require.NoError(t, err)

	out, err := job.CSV()
	require.NoError(t, err)

	lines := strings.Split(string(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, header, lines[0])
	assert.Equal(t, "Z9,,Amazon,,,,,", lines[1])
	assert.Equal(t, "A1,,,,,,,", lines[2])
}

func TestCSVDelimiterInValue(t *testing.T) {
	rows := []models.Row{{"order_id": "A1", "delivery__delivery_address_state": "Tamil Nadu, South"}}
	rs := models.NewResultSet(models.FilterCriteria{}, rows)

	t.Run("plain join", func(t *testing.T) {
		job, err := NewJob(rs, Options{})
		require.NoError(t, err)
		out, err := job.CSV()
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(string(out), ",Tamil Nadu, South"))
	})

	t.Run("escaped", func(t *testing.T) {
		job, err := NewJob(rs, Options{EscapeFields: true})
		require.NoError(t, err)
		out, err := job.CSV()
		require.NoError(t, err)
		assert.Equal(t, header+"\nA1,,,,,,,\"Tamil Nadu, South\"", string(out))
	})
}

func TestNewJobRequiresRows(t *testing.T) {
	for name, rs := range map[string]*models.ResultSet{
		"nil":   nil,
		"empty": models.NewResultSet(models.FilterCriteria{Category: "Toys"}, nil),
	} {
		t.Run(name, func(t *testing.T) {
			job, err := NewJob(rs, Options{})

			var perr *models.PreconditionError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, models.ReasonNothingToExport, perr.Reason)
			assert.Nil(t, job)
		})
	}
}

func TestJobIsASnapshot(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(rows []models.Row, rs *models.ResultSet)
	}{
		{"replace caller slice element", func(rows []models.Row, _ *models.ResultSet) {
			rows[0] = models.Row{"order_id": "mutated"}
		}},
		{"edit caller row in place", func(rows []models.Row, _ *models.ResultSet) {
			rows[0]["order_id"] = "mutated"
		}},
		{"edit row returned by At", func(_ []models.Row, rs *models.ResultSet) {
			rs.At(0)["platform"] = "X"
		}},
		{"edit row returned by Rows", func(_ []models.Row, rs *models.ResultSet) {
			rs.Rows()[0]["category"] = "X"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []models.Row{{"order_id": "A1"}}
			rs := models.NewResultSet(models.FilterCriteria{Platform: "Web"}, rows)
			job, err := NewJob(rs, Options{})
			require.NoError(t, err)

			tt.mutate(rows, rs)

			assert.NotEmpty(t, job.ID)
			assert.Equal(t, 1, job.Len())
			out, err := job.CSV()
			require.NoError(t, err)
			assert.Equal(t, header+"\nA1,,,,,,,", string(out))
			assert.Equal(t, models.FilterCriteria{Platform: "Web"}, job.Criteria)
		})
	}
}

func TestXLSX(t *testing.T) {
	rows := []models.Row{
		{"order_id": "A1", "quantity_sold": "2", "selling_price": "9.99"},
		{"order_id": "A2", "platform": "Meesho"},
	}
	job, err := NewJob(models.NewResultSet(models.FilterCriteria{}, rows), Options{})
	require.NoError(t, err)

	data, err := job.XLSX()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, strings.Split(header, ","), got[0])
	assert.Equal(t, []string{"A1", "", "", "2", "9.99", "", "", ""}, pad(got[1]))
	assert.Equal(t, []string{"A2", "", "Meesho", "", "", "", "", ""}, pad(got[2]))
}

// pad restores the blank tail cells GetRows skips.
func pad(row []string) []string {
	for len(row) < len(Columns) {
		row = append(row, "")
	}
	return row
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	job, err := NewJob(models.NewResultSet(models.FilterCriteria{}, []models.Row{{"order_id": "A1"}}), Options{})
	require.NoError(t, err)

	path, err := job.WriteFile(dir, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "visible_data.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, header+"\nA1,,,,,,,", string(data))

	path, err = job.WriteFile(dir, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "visible_data.xlsx", filepath.Base(path))
}

func TestFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)

	assert.Equal(t, "text/csv", FormatCSV.MIMEType())
	assert.Equal(t, "visible_data.csv", FormatCSV.Filename())
}
