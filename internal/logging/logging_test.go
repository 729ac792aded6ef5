package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "salesview.log")

	logger, closer, err := Open(path, "info", "API")
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("GET", "endpoint", "/filterable-data/")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "API")
	assert.Contains(t, string(data), "endpoint=/filterable-data/")
	assert.NotContains(t, string(data), "hidden")
}

func TestOpenDisabled(t *testing.T) {
	logger, closer, err := Open("", "info", "API")
	require.NoError(t, err)
	assert.Nil(t, logger)
	assert.NoError(t, closer.Close())
}

func TestOpenRejectsBadLevel(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "x.log"), "loud", "")
	assert.Error(t, err)
}
