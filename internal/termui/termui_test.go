package termui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestion_RendersMarkdown(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(&buf, "notty", 80)
	require.NoError(t, err)

	p.Suggestion("## Root cause\n\nThe **database** pool is exhausted.")

	out := buf.String()
	assert.Contains(t, out, "Analysis completed")
	assert.Contains(t, out, "Root cause")
	assert.Contains(t, out, "database")
}

func TestWarnAndError(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(&buf, "notty", 0)
	require.NoError(t, err)

	p.Warn("Please upload a log file first.")
	p.Error("Backend error: Uploaded log file is empty.")

	assert.Contains(t, buf.String(), "Please upload a log file first.")
	assert.Contains(t, buf.String(), "Backend error: Uploaded log file is empty.")
}
