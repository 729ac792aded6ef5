package ui

// columns.go provides column width calculation for bubbles/table.

import (
	"github.com/charmbracelet/bubbles/table"

	"github.com/thesavant42/salesview/internal/models"
)

// ColumnSpec defines a table column with flexible or fixed width.
type ColumnSpec struct {
	Title      string
	MinWidth   int // Minimum width (0 = no minimum)
	FixedWidth int // If > 0, use this exact width (ignores FlexRatio)
	FlexRatio  int // Relative ratio for flexible columns (0 = fixed-only)
}

// CalculateColumns computes column widths from specs.
// Flexible columns split remaining space by ratio after fixed columns are allocated.
func CalculateColumns(specs []ColumnSpec, totalWidth int) []table.Column {
	if totalWidth < 50 {
		totalWidth = 50
	}

	fixedTotal := 0
	flexTotal := 0
	for _, s := range specs {
		if s.FixedWidth > 0 {
			fixedTotal += s.FixedWidth
		} else {
			flexTotal += s.FlexRatio
		}
	}

	remaining := totalWidth - fixedTotal
	if remaining < 0 {
		remaining = 0
	}

	columns := make([]table.Column, len(specs))
	for i, s := range specs {
		var width int
		if s.FixedWidth > 0 {
			width = s.FixedWidth
		} else if flexTotal > 0 {
			width = remaining * s.FlexRatio / flexTotal
		}

		if s.MinWidth > 0 && width < s.MinWidth {
			width = s.MinWidth
		}

		columns[i] = table.Column{Title: s.Title, Width: width}
	}

	return columns
}

// salesColumn pairs a results-table column with the row field it shows.
type salesColumn struct {
	spec  ColumnSpec
	field string
}

// salesTable lists the on-screen columns. The screen shows the product name
// where the export file carries the category.
var salesTable = []salesColumn{
	{ColumnSpec{Title: "Order ID", FlexRatio: 15, MinWidth: 10}, models.FieldOrderID},
	{ColumnSpec{Title: "Product Name", FlexRatio: 30, MinWidth: 14}, models.FieldProductName},
	{ColumnSpec{Title: "Platform", FixedWidth: 10}, models.FieldPlatform},
	{ColumnSpec{Title: "Quantity Sold", FixedWidth: 13}, models.FieldQuantitySold},
	{ColumnSpec{Title: "Selling Price", FixedWidth: 13}, models.FieldSellingPrice},
	{ColumnSpec{Title: "Sale Date", FixedWidth: 10}, models.FieldDateOfSale},
	{ColumnSpec{Title: "Delivery Status", FixedWidth: 15}, models.FieldDeliveryStatus},
	{ColumnSpec{Title: "State", FlexRatio: 20, MinWidth: 12}, models.FieldDeliveryState},
}

// SalesColumns returns column specs for the results table.
func SalesColumns() []ColumnSpec {
	specs := make([]ColumnSpec, len(salesTable))
	for i, c := range salesTable {
		specs[i] = c.spec
	}
	return specs
}

// salesRow converts a server row into table cells. Missing fields render empty.
func salesRow(row models.Row) table.Row {
	cells := make(table.Row, len(salesTable))
	for i, c := range salesTable {
		cells[i] = TruncateCell(row.Field(c.field))
	}
	return cells
}

// TrendColumns returns column specs for the monthly trends table.
func TrendColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "Month", FixedWidth: 10},
		{Title: "Quantity Sold", FlexRatio: 50, MinWidth: 14},
		{Title: "Revenue", FlexRatio: 50, MinWidth: 14},
	}
}
