package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowField(t *testing.T) {
	row := Row{
		"order_id":      "A1",
		"quantity_sold": json.Number("2"),
		"selling_price": 9.99,
		"count":         3,
		"prime":         true,
		"missing_value": nil,
	}

	tests := []struct {
		name string
		want string
	}{
		{"order_id", "A1"},
		{"quantity_sold", "2"},
		{"selling_price", "9.99"},
		{"count", "3"},
		{"prime", "true"},
		{"missing_value", ""},
		{"not_there", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, row.Field(tt.name))
		})
	}
}

func TestDecodeRowsKeepsNumberText(t *testing.T) {
	body := `[{"order_id":"A1","quantity_sold":2,"selling_price":"9.90","date_of_sale":"2024-01-05"},
	          {"order_id":"A2","selling_price":10.50}]`

	rows, err := DecodeRows(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2", rows[0].Field(FieldQuantitySold))
	assert.Equal(t, "9.90", rows[0].Field(FieldSellingPrice))
	assert.Equal(t, "10.50", rows[1].Field(FieldSellingPrice))
	assert.Equal(t, "", rows[1].Field(FieldDeliveryStatus))
}

func TestDecodeRowsEmptyAndNull(t *testing.T) {
	rows, err := DecodeRows(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	rows, err = DecodeRows(strings.NewReader(`null`))
	require.NoError(t, err)
	assert.NotNil(t, rows)

	_, err = DecodeRows(strings.NewReader(`{"error":"Invalid date range format."}`))
	assert.Error(t, err)
}

func TestSummaryMetricsDecode(t *testing.T) {
	body := `{"total_revenue":"1520.50","total_orders":4,"total_products_sold":0,"canceled_order_percentage":25.0}`

	var m SummaryMetrics
	require.NoError(t, json.Unmarshal([]byte(body), &m))

	assert.Equal(t, Number("1520.50"), m.TotalRevenue)
	assert.InDelta(t, 1520.5, m.TotalRevenue.Float(), 0.0001)
	assert.Equal(t, 4, m.TotalOrders)
	assert.Equal(t, Number("0"), m.TotalProductsSold)
	assert.InDelta(t, 25.0, m.CanceledOrderPercentage, 0.0001)
}

func TestResultSetIsACopy(t *testing.T) {
	rows := []Row{{"order_id": "A1"}, {"order_id": "A2"}}
	rs := NewResultSet(FilterCriteria{Category: "Toys"}, rows)

	rows[0] = Row{"order_id": "changed"}
	rows[1]["order_id"] = "changed in place"
	out := rs.Rows()
	out[1] = Row{"order_id": "also changed"}
	out[0]["order_id"] = "changed through Rows"
	rs.At(0)["platform"] = "X"

	assert.Equal(t, 2, rs.Len())
	assert.Equal(t, "A1", rs.At(0).Field(FieldOrderID))
	assert.Equal(t, "A2", rs.At(1).Field(FieldOrderID))
	assert.Equal(t, "", rs.At(0).Field(FieldPlatform))
	assert.Equal(t, FilterCriteria{Category: "Toys"}, rs.Criteria())

	var nilSet *ResultSet
	assert.Equal(t, 0, nilSet.Len())
}

func TestImportResultSucceeded(t *testing.T) {
	assert.True(t, ImportResult{Message: ImportSucceededMessage}.Succeeded())
	assert.False(t, ImportResult{Error: "No files uploaded."}.Succeeded())
}

func TestMergeTrends(t *testing.T) {
	quantity := []MonthlyQuantity{{Month: "2024-02", QuantitySold: "5"}, {Month: "2024-01", QuantitySold: "3"}}
	revenue := []MonthlyRevenue{{Month: "2024-01", Revenue: "30.5"}, {Month: "2024-03", Revenue: "12"}}

	got := MergeTrends(quantity, revenue)

	assert.Equal(t, []MonthlyTrend{
		{Month: "2024-01", QuantitySold: "3", Revenue: "30.5"},
		{Month: "2024-02", QuantitySold: "5", Revenue: "0"},
		{Month: "2024-03", QuantitySold: "0", Revenue: "12"},
	}, got)
	assert.Empty(t, MergeTrends(nil, nil))
}
