package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/filecrate/filecrate-backend-go/internal/domain/file"
	"github.com/filecrate/filecrate-backend-go/internal/pkg/naming"
	"github.com/filecrate/filecrate-backend-go/internal/pkg/storage"
	"github.com/filecrate/filecrate-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMaxFileSize  = 1024
	testMaxFileCount = 3
)

func newTestService(t *testing.T) (file.UploadService, storage.Directory) {
	t.Helper()

	dir, err := storage.NewLocalDirectory(t.TempDir())
	require.NoError(t, err)

	return NewUploadService(dir, testMaxFileSize, testMaxFileCount), dir
}

func streamOf(name, content string) file.UploadStream {
	return file.UploadStream{
		OriginalName: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestUploadSingleFile(t *testing.T) {
	service, dir := newTestService(t)
	ctx := context.Background()

	results, err := service.Upload(ctx, file.UploadRequest{
		Files: []file.UploadStream{streamOf("report.pdf", "hello")},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, "report.pdf", result.OriginalName)
	assert.Empty(t, result.Error)
	assert.Equal(t, int64(5), result.SizeBytes)
	assert.True(t, strings.HasSuffix(result.StoredName, "-report.pdf"))
	assert.Equal(t, "report.pdf", naming.DisplayName(result.StoredName))

	entries, err := dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, result.StoredName, entries[0].Name)
	assert.Equal(t, int64(5), entries[0].Size)
}

func TestUploadBatchKeepsRequestOrderAndIndependence(t *testing.T) {
	service, dir := newTestService(t)
	ctx := context.Background()

	results, err := service.Upload(ctx, file.UploadRequest{
		Files: []file.UploadStream{
			streamOf("first.txt", "one"),
			streamOf("huge.bin", strings.Repeat("x", testMaxFileSize+1)),
			streamOf("third.txt", "three"),
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "first.txt", results[0].OriginalName)
	assert.Empty(t, results[0].Error)

	assert.Equal(t, "huge.bin", results[1].OriginalName)
	assert.Equal(t, file.UploadErrorTooLarge, results[1].Error)
	assert.Empty(t, results[1].StoredName)
	assert.Zero(t, results[1].SizeBytes)

	assert.Equal(t, "third.txt", results[2].OriginalName)
	assert.Empty(t, results[2].Error)

	entries, err := dir.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "only the files within the size limit are stored")
}

func TestUploadTooManyFilesStoresNothing(t *testing.T) {
	service, dir := newTestService(t)
	ctx := context.Background()

	files := make([]file.UploadStream, testMaxFileCount+1)
	for i := range files {
		files[i] = streamOf("doc.txt", "content")
	}

	results, err := service.Upload(ctx, file.UploadRequest{Files: files})
	assert.ErrorIs(t, err, file.ErrTooManyFiles)
	assert.Nil(t, results)

	entries, err := dir.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries, "a rejected batch must not store any file")
}

func TestUploadBatchAtCountLimit(t *testing.T) {
	service, dir := newTestService(t)
	ctx := context.Background()

	files := make([]file.UploadStream, testMaxFileCount)
	for i := range files {
		files[i] = streamOf("doc.txt", "content")
	}

	results, err := service.Upload(ctx, file.UploadRequest{Files: files})
	require.NoError(t, err)
	assert.Len(t, results, testMaxFileCount)

	entries, err := dir.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, testMaxFileCount)
}

func TestUploadZeroFilesFailsValidation(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Upload(context.Background(), file.UploadRequest{})
	require.Error(t, err)

	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
}

func TestUploadFileAtSizeLimit(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	results, err := service.Upload(ctx, file.UploadRequest{
		Files: []file.UploadStream{streamOf("exact.bin", strings.Repeat("x", testMaxFileSize))},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Error)
	assert.Equal(t, int64(testMaxFileSize), results[0].SizeBytes)
}

func TestUploadDuplicateNamesGetDistinctStoredNames(t *testing.T) {
	service, dir := newTestService(t)
	ctx := context.Background()

	results, err := service.Upload(ctx, file.UploadRequest{
		Files: []file.UploadStream{
			streamOf("dup.txt", "first"),
			streamOf("dup.txt", "second"),
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Empty(t, results[0].Error)
	assert.Empty(t, results[1].Error)
	assert.NotEqual(t, results[0].StoredName, results[1].StoredName)

	entries, err := dir.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestUploadHostileNameIsStoredSafely(t *testing.T) {
	service, dir := newTestService(t)
	ctx := context.Background()

	results, err := service.Upload(ctx, file.UploadRequest{
		Files: []file.UploadStream{streamOf("../../etc/passwd", "malicious")},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Error)
	assert.NotContains(t, results[0].StoredName, "/")
	assert.NotContains(t, results[0].StoredName, "..")

	entries, err := dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, results[0].StoredName, entries[0].Name)
}

func TestUploadOpenFailureIsReportedPerFile(t *testing.T) {
	service, dir := newTestService(t)
	ctx := context.Background()

	results, err := service.Upload(ctx, file.UploadRequest{
		Files: []file.UploadStream{
			{
				OriginalName: "broken.txt",
				Open: func() (io.ReadCloser, error) {
					return nil, errors.New("stream gone")
				},
			},
			streamOf("fine.txt", "ok"),
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, file.UploadErrorStorage, results[0].Error)
	assert.Empty(t, results[1].Error)

	entries, err := dir.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBoundedReaderTripsPastLimit(t *testing.T) {
	bounded := newBoundedReader(strings.NewReader("123456"), 5)

	_, err := io.ReadAll(bounded)
	assert.ErrorIs(t, err, file.ErrFileTooLarge)
	assert.True(t, bounded.Exceeded())
}

func TestBoundedReaderAllowsExactLimit(t *testing.T) {
	bounded := newBoundedReader(strings.NewReader("12345"), 5)

	content, err := io.ReadAll(bounded)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(content))
	assert.False(t, bounded.Exceeded())
}
