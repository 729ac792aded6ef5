package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesavant42/salesview/internal/db"
	"github.com/thesavant42/salesview/internal/models"
)

func TestCriteriaFromFlags(t *testing.T) {
	values := make(map[models.FilterKey]*string, len(models.FilterKeys))
	for _, k := range models.FilterKeys {
		v := ""
		values[k] = &v
	}
	*values[models.FilterCategory] = "  Toys "
	*values[models.FilterState] = "\tCA"

	criteria, err := criteriaFromFlags(values)
	require.NoError(t, err)
	assert.Equal(t, models.FilterCriteria{Category: "Toys", State: "CA"}, criteria)
}

func TestRunExitCodes(t *testing.T) {
	chdir(t, t.TempDir())
	offline := []string{"--base-url", "http://127.0.0.1:8000/api", "--db", "-", "--log-file", "-", "--no-splash"}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown command", append(offline, "launch"), 2},
		{"unknown flag", []string{"--no-such-flag"}, 2},
		{"help", []string{"--help"}, 0},
		{"invalid log level", append(offline, "--log-level", "loud", "history"), 1},
		{"missing explicit config", append(offline, "--config", "missing.yaml", "history"), 1},
		{"history without database", append(offline, "history"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(tt.args))
		})
	}
}

func TestRunHistoryWithDatabase(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	dbPath := filepath.Join(dir, "history.db")
	logPath := filepath.Join(dir, "salesview.log")

	code := run([]string{"--db", dbPath, "--log-file", logPath, "--no-splash", "history"})
	assert.Equal(t, 0, code)

	logData, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "Starting")

	database, err := db.New(dbPath)
	require.NoError(t, err)
	defer database.Close()
	exports, err := database.ListExports(0)
	require.NoError(t, err)
	assert.Empty(t, exports)
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(old)) })
}
