package models

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"
)

// Field names of a sales row as returned by GET /filterable-data/.
const (
	FieldOrderID        = "order_id"
	FieldProductName    = "product__product_name"
	FieldCategory       = "product__category"
	FieldPlatform       = "platform"
	FieldQuantitySold   = "quantity_sold"
	FieldSellingPrice   = "selling_price"
	FieldDateOfSale     = "date_of_sale"
	FieldDeliveryStatus = "delivery__delivery_status"
	FieldDeliveryState  = "delivery__delivery_address_state"
)

// Row is one server-defined sales record. The server decides which fields are
// present; readers go through Field so absent values render as "".
type Row map[string]any

// Field renders the named value as text. Missing and null values yield "".
func (r Row) Field(name string) string {
	v, ok := r[name]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// DecodeRows reads a JSON array of rows. Numbers keep their literal text.
func DecodeRows(r io.Reader) ([]Row, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows []Row
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}

// Number is a numeric JSON value the backend may send either as a number or
// as a decimal string. The literal text is kept.
type Number string

// UnmarshalJSON accepts 12, 12.5, "12.50" and null.
func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	*n = Number(b)
	return nil
}

// Float parses the number, returning 0 when empty or malformed.
func (n Number) Float() float64 {
	f, _ := strconv.ParseFloat(string(n), 64)
	return f
}

// SummaryMetrics is the response of GET /summary-metrics/.
type SummaryMetrics struct {
	TotalRevenue            Number  `json:"total_revenue"`
	TotalOrders             int     `json:"total_orders"`
	TotalProductsSold       Number  `json:"total_products_sold"`
	CanceledOrderPercentage float64 `json:"canceled_order_percentage"`
}

// MonthlyQuantity is one point of GET /line-chart/.
type MonthlyQuantity struct {
	Month        string `json:"month"` // YYYY-MM
	QuantitySold Number `json:"quantity_sold"`
}

// MonthlyRevenue is one point of GET /bar-chart/.
type MonthlyRevenue struct {
	Month   string `json:"month"` // YYYY-MM
	Revenue Number `json:"revenue"`
}

// MonthlyTrend merges quantity and revenue for one month.
type MonthlyTrend struct {
	Month        string
	QuantitySold Number
	Revenue      Number
}

// MergeTrends joins the line-chart and bar-chart series on month, sorted
// ascending. A month present in only one series gets "0" for the other.
func MergeTrends(quantity []MonthlyQuantity, revenue []MonthlyRevenue) []MonthlyTrend {
	byMonth := make(map[string]*MonthlyTrend, len(quantity))
	get := func(month string) *MonthlyTrend {
		t, ok := byMonth[month]
		if !ok {
			t = &MonthlyTrend{Month: month, QuantitySold: "0", Revenue: "0"}
			byMonth[month] = t
		}
		return t
	}
	for _, q := range quantity {
		get(q.Month).QuantitySold = q.QuantitySold
	}
	for _, r := range revenue {
		get(r.Month).Revenue = r.Revenue
	}

	out := make([]MonthlyTrend, 0, len(byMonth))
	for _, t := range byMonth {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Dashboard is the aggregate header shown above the table.
type Dashboard struct {
	Summary SummaryMetrics
	Trends  []MonthlyTrend
}

// ImportResult is the body returned by POST /import-csv/.
type ImportResult struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ImportSucceededMessage is the exact message the backend returns when every
// uploaded file was processed.
const ImportSucceededMessage = "All CSV files processed successfully"

// Succeeded reports whether the backend accepted every file.
func (r ImportResult) Succeeded() bool {
	return r.Message == ImportSucceededMessage
}

// ExportRecord is one row of the local export history.
type ExportRecord struct {
	ID        string // export job id (uuid)
	Filename  string
	Format    string // "csv" or "xlsx"
	RowCount  int
	Query     string // encoded query that produced the rows
	CreatedAt time.Time
}

// ImportRecord is one row of the local upload history.
type ImportRecord struct {
	ID        int64
	Files     string // comma-separated base names
	Succeeded bool
	Message   string
	CreatedAt time.Time
}
