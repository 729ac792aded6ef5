package ui

// view_helpers.go provides common View() rendering helpers shared by the
// explorer screen and the standalone prompts.

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

// =============================================================================
// Table Rendering with Full-Width Selection
// =============================================================================

// RenderTableWithSelection renders a bubbles table with a full-width selection
// highlight. When focused is false the cursor row is drawn like any other.
//
// bubbles/table View() output is the header on line 0 followed by only the
// visible data rows, so the cursor index has to be mapped through the
// table's scroll offset before it can be highlighted.
func RenderTableWithSelection(t table.Model, layout Layout, focused bool) string {
	lines := strings.Split(t.View(), "\n")
	result := make([]string, 0, len(lines)+1)

	cursor := t.Cursor()
	height := t.Height()
	totalRows := len(t.Rows())

	// Mirror the table's internal viewport: it only scrolls once the cursor
	// leaves the first page, and never past the last full page.
	start := 0
	if totalRows > height {
		if cursor >= height {
			start = cursor - height + 1
		}
		if maxStart := totalRows - height; start > maxStart {
			start = maxStart
		}
	}
	visibleCursorIndex := cursor - start

	for i, line := range lines {
		if i == 0 {
			result = append(result, NormalStyle.Render(line))
			result = append(result, FullWidthDivider(layout.InnerWidth))
			continue
		}

		if focused && totalRows > 0 && i-1 == visibleCursorIndex {
			// Strip escape codes first so embedded resets don't kill the background
			clean := stripEscapeCodes(line)
			if StringWidth(clean) > layout.InnerWidth {
				clean = truncateToWidth(clean, layout.InnerWidth)
			}
			result = append(result, RenderSelectedWidth(clean, layout.InnerWidth))
			continue
		}

		result = append(result, NormalStyle.Render(line))
	}

	return strings.Join(result, "\n")
}

// =============================================================================
// View Header - Title + Divider Pattern
// =============================================================================

// ViewHeader renders title + full-width divider + spacing.
func ViewHeader(title string, innerWidth int) string {
	return ViewHeaderWithSubtitle(title, "", innerWidth)
}

// ViewHeaderWithSubtitle renders title + optional dim subtitle + divider + spacing.
func ViewHeaderWithSubtitle(title, subtitle string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	if subtitle != "" {
		b.WriteString(RenderDim(subtitle))
		b.WriteString("\n")
	}
	b.WriteString(FullWidthDivider(innerWidth))
	b.WriteString("\n\n")
	return b.String()
}

// =============================================================================
// Text Helpers
// =============================================================================

// CenterText centers text within given width.
func CenterText(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	return strings.Repeat(" ", (width-textW)/2) + text
}

// FullWidthDivider returns a horizontal divider spanning the inner width.
func FullWidthDivider(innerWidth int) string {
	return strings.Repeat("─", innerWidth)
}
