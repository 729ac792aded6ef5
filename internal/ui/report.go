package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thesavant42/salesview/internal/models"
)

var (
	// Color palette
	purple = lipgloss.Color("99")  // for borders
	pink   = lipgloss.Color("205") // for header text
	cyan   = lipgloss.Color("86")
	white  = lipgloss.Color("255")
	green  = lipgloss.Color("82")
	yellow = lipgloss.Color("220")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(pink).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(cyan).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Foreground(pink).
			Bold(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(white)

	statStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	borderStyle = lipgloss.NewStyle().
			Foreground(purple)

	highlightStyle = lipgloss.NewStyle().
			Foreground(yellow).
			Bold(true)
)

// reportColumn is one column of a printed CLI table.
type reportColumn struct {
	title string
	width int
}

// PrintHeader prints a styled header for a sales report
func PrintHeader(criteria models.FilterCriteria, rowCount int) {
	header := titleStyle.Render("Sales Report")
	filters := subtitleStyle.Render("Filters: " + criteria.String())
	stats := subtitleStyle.Render(fmt.Sprintf("Matching rows: %s", statStyle.Render(fmt.Sprintf("%d", rowCount))))

	fmt.Println()
	fmt.Println(header)
	fmt.Println(filters)
	fmt.Println(stats)
	fmt.Println()
}

// PrintSalesTable prints rows with the same columns as the interactive table.
// Rows whose text contains highlight (case-insensitive) are emphasized.
//
// This is a non-interactive report, so the table is built with string
// formatting; lipgloss only colors the lines.
func PrintSalesTable(title string, rows []models.Row, highlight string) {
	if len(rows) == 0 {
		fmt.Println(subtitleStyle.Render(title + ": No data"))
		return
	}

	cols := make([]reportColumn, len(salesTable))
	for i, c := range salesTable {
		w := c.spec.FixedWidth
		if w == 0 {
			w = c.spec.MinWidth + 4
		}
		cols[i] = reportColumn{title: c.spec.Title, width: w}
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		line := make([]string, len(salesTable))
		for j, c := range salesTable {
			line[j] = r.Field(c.field)
		}
		cells[i] = line
	}

	printBoxTable(title, cols, cells, highlight)
}

// PrintSummary prints the dashboard metrics and monthly trends
func PrintSummary(d models.Dashboard) {
	s := d.Summary
	fmt.Println(titleStyle.Render("Sales Summary"))
	fmt.Printf("  Total revenue:        %s\n", statStyle.Render(string(s.TotalRevenue)))
	fmt.Printf("  Total orders:         %s\n", statStyle.Render(fmt.Sprintf("%d", s.TotalOrders)))
	fmt.Printf("  Products sold:        %s\n", statStyle.Render(string(s.TotalProductsSold)))
	fmt.Printf("  Canceled orders:      %s\n", statStyle.Render(fmt.Sprintf("%.2f%%", s.CanceledOrderPercentage)))
	fmt.Println()

	cells := make([][]string, len(d.Trends))
	for i, t := range d.Trends {
		cells[i] = []string{t.Month, string(t.QuantitySold), string(t.Revenue)}
	}
	if len(cells) == 0 {
		fmt.Println(subtitleStyle.Render("Monthly Trends: No data"))
		return
	}
	printBoxTable("Monthly Trends", []reportColumn{
		{"Month", 8},
		{"Quantity Sold", 14},
		{"Revenue", 16},
	}, cells, "")
}

// PrintExportHistory prints the local export log
func PrintExportHistory(records []models.ExportRecord) {
	cells := make([][]string, len(records))
	for i, r := range records {
		cells[i] = []string{
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Format,
			fmt.Sprintf("%d", r.RowCount),
			r.Query,
			r.Filename,
		}
	}
	if len(cells) == 0 {
		fmt.Println(subtitleStyle.Render("Exports: No data"))
		return
	}
	printBoxTable("Exports", []reportColumn{
		{"When", 19},
		{"Format", 6},
		{"Rows", 6},
		{"Query", 30},
		{"File", 30},
	}, cells, "")
}

// PrintImportHistory prints the local upload log
func PrintImportHistory(records []models.ImportRecord) {
	cells := make([][]string, len(records))
	for i, r := range records {
		status := "failed"
		if r.Succeeded {
			status = "ok"
		}
		cells[i] = []string{
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			status,
			r.Files,
			r.Message,
		}
	}
	if len(cells) == 0 {
		fmt.Println(subtitleStyle.Render("Imports: No data"))
		return
	}
	printBoxTable("Imports", []reportColumn{
		{"When", 19},
		{"Status", 6},
		{"Files", 30},
		{"Message", 40},
	}, cells, "failed")
}

func printBoxTable(title string, cols []reportColumn, cells [][]string, highlight string) {
	fmt.Println(titleStyle.Render(title))

	totalWidth := 1 // left border
	for _, c := range cols {
		totalWidth += c.width + 3 // " x │"
	}
	separator := strings.Repeat("─", totalWidth-2)

	fmt.Println(borderStyle.Render("┌" + separator + "┐"))

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	fmt.Println(headerStyle.Render(formatBoxRow(cols, titles)))
	fmt.Println(borderStyle.Render("├" + separator + "┤"))

	highlightLower := strings.ToLower(highlight)
	for _, line := range cells {
		text := formatBoxRow(cols, line)
		if highlight != "" && strings.Contains(strings.ToLower(strings.Join(line, " ")), highlightLower) {
			fmt.Println(highlightStyle.Render(text))
		} else {
			fmt.Println(rowStyle.Render(text))
		}
	}

	fmt.Println(borderStyle.Render("└" + separator + "┘"))
	fmt.Println()
}

// formatBoxRow pads or truncates each value to its column width.
func formatBoxRow(cols []reportColumn, values []string) string {
	var sb strings.Builder
	sb.WriteString("│")
	for i, c := range cols {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		if StringWidth(v) > c.width {
			v = truncateToWidth(v, c.width)
		}
		sb.WriteString(" ")
		sb.WriteString(v)
		sb.WriteString(strings.Repeat(" ", c.width-StringWidth(v)))
		sb.WriteString(" │")
	}
	return sb.String()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	successStyle := lipgloss.NewStyle().
		Foreground(green).
		Bold(true)
	fmt.Println(successStyle.Render(message))
}

// PrintError prints an error message
func PrintError(message string) {
	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)
	fmt.Println(errorStyle.Render("Error: " + message))
}

// GenerateMarkdownReport renders the summary, trends, and the filtered rows as markdown
func GenerateMarkdownReport(d models.Dashboard, criteria models.FilterCriteria, rows []models.Row) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Sales Report\n\n")
	sb.WriteString(fmt.Sprintf("**Filters:** %s\n\n", criteria.String()))

	// Summary
	s := d.Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total Revenue:** %s\n", s.TotalRevenue))
	sb.WriteString(fmt.Sprintf("- **Total Orders:** %d\n", s.TotalOrders))
	sb.WriteString(fmt.Sprintf("- **Products Sold:** %s\n", s.TotalProductsSold))
	sb.WriteString(fmt.Sprintf("- **Canceled Orders:** %.2f%%\n\n", s.CanceledOrderPercentage))

	// Trends
	sb.WriteString("## Monthly Trends\n\n")
	if len(d.Trends) == 0 {
		sb.WriteString("No data\n\n")
	} else {
		sb.WriteString("| Month | Quantity Sold | Revenue |\n")
		sb.WriteString("|-------|---------------|---------|\n")
		for _, t := range d.Trends {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", t.Month, t.QuantitySold, t.Revenue))
		}
		sb.WriteString("\n")
	}

	// Rows
	sb.WriteString(fmt.Sprintf("## Sales (%d rows)\n\n", len(rows)))
	sb.WriteString(generateMarkdownTable(rows))

	return sb.String()
}

// generateMarkdownTable renders rows with the interactive table's columns
func generateMarkdownTable(rows []models.Row) string {
	if len(rows) == 0 {
		return "No data\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString("|")
	for _, c := range salesTable {
		sb.WriteString(" " + c.spec.Title + " |")
	}
	sb.WriteString("\n|")
	for range salesTable {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	// Rows
	for _, r := range rows {
		sb.WriteString("|")
		for _, c := range salesTable {
			sb.WriteString(" " + strings.ReplaceAll(r.Field(c.field), "|", "\\|") + " |")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
