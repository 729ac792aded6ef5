package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesavant42/salesview/internal/models"
)

func TestNewLayout(t *testing.T) {
	tests := []struct {
		name        string
		width       int
		height      int
		wantWidth   int
		wantTableHt int
	}{
		{"narrow terminal clamps up", 80, 40, MinViewportWidth, 40 - reservedRows},
		{"wide terminal clamps down", 300, 40, MaxViewportWidth, 40 - reservedRows},
		{"short terminal keeps minimum rows", 120, 10, 120, MinTableHeight},
		{"unknown height uses default", 120, 0, 120, DefaultHeight - reservedRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayout(tt.width, tt.height)
			assert.Equal(t, tt.wantWidth, l.ViewportWidth)
			assert.Equal(t, tt.wantWidth-2, l.InnerWidth)
			assert.Equal(t, tt.wantTableHt, l.TableHeight)
		})
	}
}

func TestCalculateColumns(t *testing.T) {
	specs := []ColumnSpec{
		{Title: "Fixed", FixedWidth: 10},
		{Title: "Big", FlexRatio: 3},
		{Title: "Small", FlexRatio: 1, MinWidth: 30},
	}

	cols := CalculateColumns(specs, 90)
	require.Len(t, cols, 3)
	assert.Equal(t, 10, cols[0].Width)
	assert.Equal(t, 60, cols[1].Width)
	assert.Equal(t, 30, cols[2].Width) // 20 raised to MinWidth
}

func TestSalesRow(t *testing.T) {
	row := models.Row{
		models.FieldOrderID:       "A1",
		models.FieldProductName:   strings.Repeat("x", 100),
		models.FieldQuantitySold:  float64(3),
		models.FieldDeliveryState: nil,
	}

	cells := salesRow(row)
	require.Len(t, cells, len(SalesColumns()))
	assert.Equal(t, "A1", cells[0])
	assert.Equal(t, maxCellTextLength, StringWidth(cells[1]))
	assert.True(t, strings.HasSuffix(cells[1], "…"))
	assert.Equal(t, "", cells[2])
	assert.Equal(t, "3", cells[3])
	assert.Equal(t, "", cells[7])
}

func TestPageStateStatus(t *testing.T) {
	p := NewPageState(DefaultLayout())
	assert.False(t, p.HasStatus())

	p.SetStatus("saved", StatusSuccess, time.Second)
	assert.True(t, p.HasStatus())

	p.ClearExpiredStatus(time.Now())
	assert.True(t, p.HasStatus())

	p.ClearExpiredStatus(time.Now().Add(2 * time.Second))
	assert.False(t, p.HasStatus())

	p.SetStatus("sticky", StatusError, 0)
	p.ClearExpiredStatus(time.Now().Add(time.Hour))
	assert.Equal(t, "sticky", p.StatusMsg)
	assert.Equal(t, StatusError, p.StatusKind)

	assert.False(t, p.UpdateLayout(DefaultWidth, DefaultHeight))
	assert.True(t, p.UpdateLayout(140, 50))
}

func TestParsePathList(t *testing.T) {
	assert.Equal(t, []string{"a.csv", "b c.csv"}, ParsePathList(" a.csv ,, b c.csv\x00 "))
	assert.Nil(t, ParsePathList("  "))
}
