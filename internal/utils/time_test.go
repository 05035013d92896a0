package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryTime_Unbounded(t *testing.T) {
	start, end, err := ParseQueryTime("", "")
	require.NoError(t, err)
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())
}

func TestParseQueryTime_Window(t *testing.T) {
	start, end, err := ParseQueryTime("2026-01-02 03:04:05", "2026-01-03")
	require.NoError(t, err)
	assert.Equal(t, 2, start.Day())
	assert.Equal(t, 3, start.Hour())
	assert.Equal(t, 3, end.Day())
}

func TestParseQueryTime_Reversed(t *testing.T) {
	_, _, err := ParseQueryTime("2026-01-03", "2026-01-02")
	assert.Error(t, err)
}

func TestParseQueryTime_Invalid(t *testing.T) {
	_, _, err := ParseQueryTime("#?!", "")
	assert.Error(t, err)
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2026, 10, 17, 9, 8, 7, 123456000, time.Local)
	assert.Equal(t, "2026-10-17T09:08:07.123456", FormatTimestamp(ts))
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2026, 10, 17, 9, 8, 7, 0, time.Local)
	assert.Equal(t, "telemetry_20261017_090807.xlsx", ExportFilename("telemetry", "xlsx", ts))
}
