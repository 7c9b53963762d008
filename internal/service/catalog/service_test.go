package catalog

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/filecrate/filecrate-backend-go/internal/domain/file"
	"github.com/filecrate/filecrate-backend-go/internal/pkg/naming"
	"github.com/filecrate/filecrate-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxStorageSize = 1024 * 1024

func newTestCatalog(t *testing.T) (file.CatalogService, storage.Directory) {
	t.Helper()

	dir, err := storage.NewLocalDirectory(t.TempDir())
	require.NoError(t, err)

	return NewCatalogService(dir, testMaxStorageSize), dir
}

func seedFile(t *testing.T, dir storage.Directory, originalName, content string) string {
	t.Helper()

	storedName := naming.NewStoredName(originalName)
	_, err := dir.Write(context.Background(), storedName, strings.NewReader(content))
	require.NoError(t, err)

	return storedName
}

func TestListFiles(t *testing.T) {
	service, dir := newTestCatalog(t)
	ctx := context.Background()

	seedFile(t, dir, "notes.txt", "some notes")
	seedFile(t, dir, "archive.zip", "zipzip")
	seedFile(t, dir, "photo.png", "pngdata")

	files, err := service.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 3)

	// Sorted by original name, not by the uuid-prefixed stored name
	assert.Equal(t, "archive.zip", files[0].OriginalName)
	assert.Equal(t, "notes.txt", files[1].OriginalName)
	assert.Equal(t, "photo.png", files[2].OriginalName)

	assert.Equal(t, "archive", files[0].FileType)
	assert.False(t, files[0].CanPreview)
	assert.Equal(t, "text", files[1].FileType)
	assert.True(t, files[1].CanPreview)
	assert.Equal(t, "image", files[2].FileType)
	assert.True(t, files[2].CanPreview)

	assert.Equal(t, int64(6), files[0].SizeBytes)
	assert.True(t, strings.HasSuffix(files[0].StoredName, "-archive.zip"))
	assert.False(t, files[0].CreatedAt.IsZero())
}

func TestListFilesEmpty(t *testing.T) {
	service, _ := newTestCatalog(t)

	files, err := service.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDownload(t *testing.T) {
	service, dir := newTestCatalog(t)
	ctx := context.Background()

	storedName := seedFile(t, dir, "report.pdf", "pdf bytes")

	reader, entry, err := service.Download(ctx, storedName)
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(content))
	assert.Equal(t, storedName, entry.StoredName)
	assert.Equal(t, "report.pdf", entry.OriginalName)
	assert.Equal(t, int64(9), entry.SizeBytes)
}

func TestDownloadAbsent(t *testing.T) {
	service, _ := newTestCatalog(t)

	_, _, err := service.Download(context.Background(), naming.NewStoredName("ghost.txt"))
	assert.ErrorIs(t, err, file.ErrFileNotFound)
}

func TestDownloadRejectsUnsafeNames(t *testing.T) {
	service, _ := newTestCatalog(t)
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "../secret.txt", "a/b.txt", "line\nbreak"} {
		_, _, err := service.Download(ctx, name)
		assert.ErrorIs(t, err, file.ErrInvalidStoredName, "Download(%q)", name)
	}
}

func TestDelete(t *testing.T) {
	service, dir := newTestCatalog(t)
	ctx := context.Background()

	storedName := seedFile(t, dir, "old.txt", "bye")

	require.NoError(t, service.Delete(ctx, storedName))

	files, err := service.ListFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)

	err = service.Delete(ctx, storedName)
	assert.ErrorIs(t, err, file.ErrFileNotFound)
}

func TestDeleteRejectsUnsafeNames(t *testing.T) {
	service, _ := newTestCatalog(t)

	err := service.Delete(context.Background(), "../escape.txt")
	assert.ErrorIs(t, err, file.ErrInvalidStoredName)
}

func TestPreviewTextFile(t *testing.T) {
	service, dir := newTestCatalog(t)
	ctx := context.Background()

	storedName := seedFile(t, dir, "readme.md", "# Title\n\nbody text")

	preview, err := service.Preview(ctx, storedName)
	require.NoError(t, err)
	assert.Equal(t, "readme.md", preview.Filename)
	assert.Equal(t, "text", preview.Type)
	assert.Equal(t, "# Title\n\nbody text", preview.Content)
}

func TestPreviewTruncatesLargeFiles(t *testing.T) {
	service, dir := newTestCatalog(t)
	ctx := context.Background()

	storedName := seedFile(t, dir, "big.log", strings.Repeat("a", previewLimit+100))

	preview, err := service.Preview(ctx, storedName)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(preview.Content, strings.Repeat("a", previewLimit)))
	assert.True(t, strings.HasSuffix(preview.Content, "[Content truncated - showing first 10KB of big.log]"))
	assert.Contains(t, preview.Content, "...\n\n[Content truncated")
}

func TestPreviewRejectsBinaryKinds(t *testing.T) {
	service, dir := newTestCatalog(t)
	ctx := context.Background()

	storedName := seedFile(t, dir, "image.png", "not really a png")

	_, err := service.Preview(ctx, storedName)
	assert.ErrorIs(t, err, file.ErrNotPreviewable)
}

func TestPreviewAbsent(t *testing.T) {
	service, _ := newTestCatalog(t)

	_, err := service.Preview(context.Background(), naming.NewStoredName("ghost.txt"))
	assert.ErrorIs(t, err, file.ErrFileNotFound)
}

func TestStorageInfo(t *testing.T) {
	service, dir := newTestCatalog(t)
	ctx := context.Background()

	seedFile(t, dir, "one.txt", strings.Repeat("x", 600))
	seedFile(t, dir, "two.txt", strings.Repeat("y", 400))

	info, err := service.StorageInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), info.UsedBytes)
	assert.Equal(t, 2, info.TotalFiles)
	assert.Equal(t, "1000 B", info.FormattedUsed)
	assert.Equal(t, int64(1), info.MaxSizeMB)
	assert.InDelta(t, float64(1000)/float64(testMaxStorageSize)*100, info.UsedPercentage, 0.0001)

	// Local storage sits on a real disk
	assert.Greater(t, info.DiskTotalBytes, uint64(0))
	assert.GreaterOrEqual(t, info.DiskUsedPercentage, 0.0)
	assert.NotEmpty(t, info.FormattedDiskTotal)
}
