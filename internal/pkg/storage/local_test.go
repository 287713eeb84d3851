package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadExistsDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "http://localhost:8080/files/")
	require.NoError(t, err)

	path, err := store.Upload(ctx, strings.NewReader("pdf"), "payslips/2025/07/slip.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "payslips/2025/07/slip.pdf", path)

	content, err := os.ReadFile(filepath.Join(dir, "payslips", "2025", "07", "slip.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(content))

	exists, err := store.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "http://localhost:8080/files/payslips/2025/07/slip.pdf", store.URL(path))

	require.NoError(t, store.Delete(ctx, path))
	require.NoError(t, store.Delete(ctx, path))
	exists, err = store.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_StaysInsideBasePath(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir(), "http://localhost/files")
	require.NoError(t, err)

	path, err := store.Upload(ctx, strings.NewReader("x"), "../../etc/passwd", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", path)

	_, err = store.Upload(ctx, strings.NewReader("x"), "/", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
