package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Layout constants - single source of truth for all viewport dimensions
const (
	MinViewportWidth  = 110
	MaxViewportWidth  = 160
	DefaultWidth      = 110 // Used when terminal size is unknown
	DefaultHeight     = 40
	MinTableHeight    = 5
	reservedRows      = 18 // filter form, summary, status, help box and borders
	maxCellTextLength = 64
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth  int // clamped terminal width
	ViewportHeight int // terminal height
	InnerWidth     int // EXACT width for content inside borders
	TableWidth     int // sum of column widths + separators
	TableHeight    int // visible data rows of the results table
}

// NewLayout creates a Layout from the terminal size, clamping the width to min/max
func NewLayout(terminalWidth, terminalHeight int) Layout {
	width := clamp(terminalWidth, MinViewportWidth, MaxViewportWidth)
	if terminalHeight <= 0 {
		terminalHeight = DefaultHeight
	}
	tableHeight := terminalHeight - reservedRows
	if tableHeight < MinTableHeight {
		tableHeight = MinTableHeight
	}
	return Layout{
		ViewportWidth:  width,
		ViewportHeight: terminalHeight,
		InnerWidth:     width - 2,       // minus border chars
		TableWidth:     width - 2 - 2*8, // minus borders and the 8 column paddings
		TableHeight:    tableHeight,
	}
}

// DefaultLayout returns a layout using the default size
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, DefaultHeight)
}

// clamp restricts a value to the given range
func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Color palette - centralized color definitions
var (
	ColorBorder    = lipgloss.Color("196") // red
	ColorHighlight = lipgloss.Color("88")  // dark red background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("226") // bright yellow
	ColorTextDim   = lipgloss.Color("241") // gray
	ColorSuccess   = lipgloss.Color("42")  // green
)

// Common styles - reusable style definitions
var (
	// Border style for main viewport.
	// Always use .Width(ViewportWidth) with NO .Padding(); content inside
	// the border must fit InnerWidth.
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// Help box border
	HelpBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorText)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Italic(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorBorder).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// Label in front of each filter input
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Width(18)

	FocusedLabelStyle = LabelStyle.
				Foreground(ColorAccent).
				Bold(true)
)

// =============================================================================
// Render helpers
// =============================================================================

func RenderTitle(s string) string  { return TitleStyle.Render(s) }
func RenderNormal(s string) string { return NormalStyle.Render(s) }
func RenderDim(s string) string    { return DimStyle.Render(s) }
func RenderError(s string) string  { return ErrorStyle.Render(s) }
func RenderAccent(s string) string { return AccentStyle.Render(s) }

// RenderSelectedWidth highlights s across the full width.
func RenderSelectedWidth(s string, width int) string {
	if w := StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return SelectedStyle.Render(s)
}

// StringWidth returns the printable cell width of s, ignoring ANSI codes.
func StringWidth(s string) int {
	return lipgloss.Width(s)
}

func stripEscapeCodes(s string) string {
	return ansi.Strip(s)
}

func truncateToWidth(s string, width int) string {
	return ansi.Truncate(s, width, "")
}

// TruncateCell shortens long server values so one row stays one line.
func TruncateCell(s string) string {
	if StringWidth(s) <= maxCellTextLength {
		return s
	}
	return ansi.Truncate(s, maxCellTextLength, "…")
}

// PadContentToHeight pads content with newlines to fill target height.
func PadContentToHeight(content string, targetHeight int) string {
	lines := strings.Count(content, "\n") + 1
	if lines >= targetHeight {
		return content
	}
	return content + strings.Repeat("\n", targetHeight-lines)
}

// BuildTwoBoxView renders the main bordered box with a one-row help box below.
func BuildTwoBoxView(content, helpText string, layout Layout) string {
	// 2 border rows for each box plus the help line
	main := BorderStyle.
		Width(layout.InnerWidth).
		Render(PadContentToHeight(content, layout.ViewportHeight-5))

	help := HelpBorderStyle.
		Width(layout.InnerWidth).
		Render(CenterText(HintStyle.Render(helpText), layout.InnerWidth))

	return lipgloss.JoinVertical(lipgloss.Left, main, help)
}

// ApplyTableStyles sets the standard table look. The selected row uses a
// neutral style; RenderTableWithSelection draws the visible highlight.
func ApplyTableStyles(t *table.Model) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(false).
		Bold(true).
		Foreground(ColorText)
	s.Selected = s.Selected.
		Foreground(ColorText).
		Bold(false)
	s.Cell = s.Cell.Foreground(ColorText)
	t.SetStyles(s)
}

// NewAppSpinner returns the white dot spinner used everywhere.
func NewAppSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorText)
	return s
}

// NewAppTheme creates a huh theme matching the app's style guide.
// White text, red highlights/selection.
func NewAppTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Description = t.Focused.Description

	t.Focused.Base = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Base = t.Focused.Base

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(ColorBorder)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(ColorBorder)

	t.Focused.ErrorMessage = ErrorStyle
	t.Focused.ErrorIndicator = ErrorStyle

	return t
}
