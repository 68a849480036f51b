package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	path, err := s.Save(ctx, "2024-06/monthly-report.pdf", strings.NewReader("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024-06", "monthly-report.pdf"), path)

	ok, err := s.Exists(ctx, "2024-06/monthly-report.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Open(ctx, "2024-06/monthly-report.pdf")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(b))

	_, err = s.Save(ctx, "2024-06/monthly-report.pdf", strings.NewReader("replaced"))
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(content))

	require.NoError(t, s.Delete(ctx, "2024-06/monthly-report.pdf"))
	require.NoError(t, s.Delete(ctx, "2024-06/monthly-report.pdf"))
	ok, err = s.Exists(ctx, "2024-06/monthly-report.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := os.ReadDir(filepath.Join(dir, "2024-06"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorage_StaysInsideBase(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "reports"))
	require.NoError(t, err)

	path, err := s.Save(ctx, "../../escape.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reports", "escape.pdf"), path)

	_, err = s.Save(ctx, "", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = s.Open(ctx, "missing.pdf")
	assert.Error(t, err)
}
