package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		// Keep printable characters and normal whitespace (space, tab, newline)
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
}

// ParsePathList splits a comma separated list of paths, dropping blanks.
func ParsePathList(raw string) []string {
	var paths []string
	for _, p := range strings.Split(sanitizeInput(raw), ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// ValidateCSVPaths checks that every path names an existing .csv file.
func ValidateCSVPaths(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("enter at least one CSV file")
	}
	for _, p := range paths {
		if !strings.HasSuffix(p, ".csv") {
			return fmt.Errorf("%s is not a .csv file", p)
		}
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("cannot read %s", p)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", p)
		}
	}
	return nil
}

// PromptForImportFiles asks for one or more sales CSV files to upload.
func PromptForImportFiles() ([]string, error) {
	var raw string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Import Sales CSV").
				Description("One or more files, comma separated (e.g., amazon.csv, flipkart.csv)").
				Placeholder("sales.csv").
				Value(&raw).
				Validate(func(s string) error {
					return ValidateCSVPaths(ParsePathList(s))
				}),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("prompt cancelled: %w", err)
	}

	return ParsePathList(raw), nil
}

// ConfirmOverwrite asks before replacing an existing export file.
func ConfirmOverwrite(path string) (bool, error) {
	var confirm bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Overwrite %s?", path)).
				Description("A previous export with this name already exists").
				Affirmative("Yes, overwrite").
				Negative("Cancel").
				Value(&confirm),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirm, nil
}
