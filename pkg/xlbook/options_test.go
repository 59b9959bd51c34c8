package xlbook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	content := "report_title: Quarterly Audit\nmax_column_width: 40\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	opts, err := OptionsFromYAMLFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Quarterly Audit", opts.ReportTitle)
	assert.Equal(t, 40.0, opts.MaxColumnWidth)
	// Unset keys keep their defaults.
	assert.Equal(t, "366092", opts.HeaderFillColor)
	assert.Equal(t, 100, opts.WidthSampleRows)
}

func TestOptionsFromYAMLFileMissing(t *testing.T) {
	_, err := OptionsFromYAMLFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, "RPX Portfolio Analysis", opts.ReportTitle)
	assert.Equal(t, "FFFFFF", opts.HeaderFontColor)
	assert.Equal(t, 50.0, opts.MaxColumnWidth)
}
