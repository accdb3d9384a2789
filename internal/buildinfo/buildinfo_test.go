package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData(t *testing.T) {
	Version, Date, Commit = "1.2.0", "2025-03-10", "abc123"
	t.Cleanup(func() { Version, Date, Commit = "N/A", "N/A", "N/A" })

	var buf bytes.Buffer
	PrintBuildData(&buf)
	assert.Equal(t, "Build version: 1.2.0\nBuild date: 2025-03-10\nBuild commit: abc123\n", buf.String())
}
