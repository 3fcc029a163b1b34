package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateUniquePathFreeName(t *testing.T) {
	root := t.TempDir()

	relPath, finalName, err := AllocateUniquePath(root, "ep-1", "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "uploads/ep-1/report.pdf", relPath)
	assert.Equal(t, "report.pdf", finalName)

	// The name is reserved on disk immediately.
	_, err = os.Stat(filepath.Join(root, "uploads", "ep-1", "report.pdf"))
	assert.NoError(t, err)
}

func TestAllocateUniquePathCollision(t *testing.T) {
	root := t.TempDir()

	first, _, err := AllocateUniquePath(root, "ep-1", "report.pdf")
	require.NoError(t, err)

	second, secondName, err := AllocateUniquePath(root, "ep-1", "report.pdf")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(secondName, "report-"))
	assert.True(t, strings.HasSuffix(secondName, ".pdf"))

	// Both reservations coexist on disk.
	_, err = os.Stat(filepath.Join(root, "uploads", "ep-1", secondName))
	assert.NoError(t, err)
}

func TestAllocateUniquePathCreatesEndpointDir(t *testing.T) {
	root := t.TempDir()

	_, _, err := AllocateUniquePath(root, "new-endpoint", "a.txt")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, "uploads", "new-endpoint"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent on repeat.
	_, _, err = AllocateUniquePath(root, "new-endpoint", "b.txt")
	assert.NoError(t, err)
}
