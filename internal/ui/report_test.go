package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thesavant42/salesview/internal/models"
)

func TestGenerateMarkdownReport(t *testing.T) {
	d := models.Dashboard{
		Summary: models.SummaryMetrics{TotalRevenue: "120.50", TotalOrders: 2, TotalProductsSold: "3", CanceledOrderPercentage: 50},
		Trends:  []models.MonthlyTrend{{Month: "2024-01", QuantitySold: "3", Revenue: "120.50"}},
	}
	criteria, err := models.ClearCriteria().SetField(models.FilterPlatform, "Amazon")
	assert.NoError(t, err)

	rows := []models.Row{{
		models.FieldOrderID:     "A|1",
		models.FieldProductName: "Widget",
	}}

	md := GenerateMarkdownReport(d, criteria, rows)

	assert.Contains(t, md, "# Sales Report")
	assert.Contains(t, md, "platform=Amazon")
	assert.Contains(t, md, "- **Canceled Orders:** 50.00%")
	assert.Contains(t, md, "| 2024-01 | 3 | 120.50 |")
	assert.Contains(t, md, "## Sales (1 rows)")
	assert.Contains(t, md, "| Order ID | Product Name | Platform |")
	assert.Contains(t, md, "| A\\|1 | Widget |  |")
}

func TestGenerateMarkdownReportNoRows(t *testing.T) {
	md := GenerateMarkdownReport(models.Dashboard{}, models.ClearCriteria(), nil)
	assert.Equal(t, 2, strings.Count(md, "No data\n"))
}

func TestFormatBoxRow(t *testing.T) {
	cols := []reportColumn{{"A", 4}, {"B", 6}}

	assert.Equal(t, "│ ab   │ cdef   │", formatBoxRow(cols, []string{"ab", "cdef"}))
	assert.Equal(t, "│      │        │", formatBoxRow(cols, nil))

	long := formatBoxRow(cols, []string{"abcdefgh", ""})
	assert.Equal(t, StringWidth("│ abcd │        │"), StringWidth(long))
}
