package file

import (
	"context"
	"io"
)

// UploadService drives ingestion of upload batches into storage.
type UploadService interface {
	// Upload validates the batch and writes each accepted stream, returning
	// one outcome per requested file in request order. A count violation
	// rejects the whole batch with ErrTooManyFiles before anything is written.
	Upload(ctx context.Context, req UploadRequest) ([]UploadResult, error)
}

// CatalogService is the read and delete side of the stored file catalog.
type CatalogService interface {
	// ListFiles returns the currently visible entries.
	ListFiles(ctx context.Context) ([]FileResponse, error)

	// Download opens a stored file for streaming. The caller closes the reader.
	Download(ctx context.Context, storedName string) (io.ReadCloser, Entry, error)

	// Delete removes a stored file; ErrFileNotFound when absent.
	Delete(ctx context.Context, storedName string) error

	// Preview returns the leading text of a previewable stored file.
	Preview(ctx context.Context, storedName string) (PreviewResponse, error)

	// StorageInfo reports aggregate usage of the storage directory.
	StorageInfo(ctx context.Context) (StorageInfoResponse, error)
}
