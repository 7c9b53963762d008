package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/filecrate/filecrate-backend-go/internal/domain/file"
	"github.com/filecrate/filecrate-backend-go/internal/pkg/filekind"
	"github.com/filecrate/filecrate-backend-go/internal/pkg/naming"
	"github.com/filecrate/filecrate-backend-go/internal/pkg/sizefmt"
	"github.com/filecrate/filecrate-backend-go/internal/pkg/storage"
)

// previewLimit caps how much of a file a text preview returns.
const previewLimit = 10 * 1024

type CatalogServiceImpl struct {
	storage        storage.Directory
	maxStorageSize uint64
}

func NewCatalogService(storage storage.Directory, maxStorageSize uint64) file.CatalogService {
	return &CatalogServiceImpl{
		storage:        storage,
		maxStorageSize: maxStorageSize,
	}
}

// ListFiles implements file.CatalogService.
func (s *CatalogServiceImpl) ListFiles(ctx context.Context) ([]file.FileResponse, error) {
	entries, err := s.storage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]file.FileResponse, 0, len(entries))
	for _, entry := range entries {
		displayName := naming.DisplayName(entry.Name)
		kind, canPreview := filekind.Detect(displayName)

		files = append(files, file.FileResponse{
			StoredName:   entry.Name,
			OriginalName: displayName,
			SizeBytes:    entry.Size,
			CreatedAt:    entry.ModTime,
			FileType:     string(kind),
			CanPreview:   canPreview,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].OriginalName < files[j].OriginalName
	})

	return files, nil
}

// Download implements file.CatalogService.
func (s *CatalogServiceImpl) Download(ctx context.Context, storedName string) (io.ReadCloser, file.Entry, error) {
	if !naming.IsSafeStoredName(storedName) {
		return nil, file.Entry{}, file.ErrInvalidStoredName
	}

	reader, info, err := s.storage.Open(ctx, storedName)
	if err != nil {
		return nil, file.Entry{}, classifyLookupErr(err, "failed to open file")
	}

	entry := file.Entry{
		StoredName:   info.Name,
		OriginalName: naming.DisplayName(info.Name),
		SizeBytes:    info.Size,
		CreatedAt:    info.ModTime,
	}

	return reader, entry, nil
}

// Delete implements file.CatalogService.
func (s *CatalogServiceImpl) Delete(ctx context.Context, storedName string) error {
	if !naming.IsSafeStoredName(storedName) {
		return file.ErrInvalidStoredName
	}

	if err := s.storage.Delete(ctx, storedName); err != nil {
		return classifyLookupErr(err, "failed to delete file")
	}

	return nil
}

// Preview implements file.CatalogService.
func (s *CatalogServiceImpl) Preview(ctx context.Context, storedName string) (file.PreviewResponse, error) {
	if !naming.IsSafeStoredName(storedName) {
		return file.PreviewResponse{}, file.ErrInvalidStoredName
	}

	displayName := naming.DisplayName(storedName)
	kind, _ := filekind.Detect(displayName)
	if !filekind.IsTextual(kind) {
		return file.PreviewResponse{}, file.ErrNotPreviewable
	}

	reader, info, err := s.storage.Open(ctx, storedName)
	if err != nil {
		return file.PreviewResponse{}, classifyLookupErr(err, "failed to open file")
	}
	defer reader.Close()

	content, err := io.ReadAll(io.LimitReader(reader, previewLimit))
	if err != nil {
		return file.PreviewResponse{}, fmt.Errorf("failed to read file: %w", err)
	}

	text := string(content)
	if info.Size > previewLimit {
		text += fmt.Sprintf("...\n\n[Content truncated - showing first 10KB of %s]", displayName)
	}

	return file.PreviewResponse{
		Filename: displayName,
		Type:     string(kind),
		Content:  text,
	}, nil
}

// StorageInfo implements file.CatalogService.
func (s *CatalogServiceImpl) StorageInfo(ctx context.Context) (file.StorageInfoResponse, error) {
	usage, err := s.storage.Usage(ctx)
	if err != nil {
		return file.StorageInfoResponse{}, fmt.Errorf("failed to read storage usage: %w", err)
	}

	info := file.StorageInfoResponse{
		UsedBytes:          usage.UsedBytes,
		TotalFiles:         usage.FileCount,
		FormattedUsed:      sizefmt.Bytes(uint64(usage.UsedBytes)),
		MaxSizeMB:          int64(s.maxStorageSize / 1024 / 1024),
		DiskFreeBytes:      usage.DiskFree,
		DiskTotalBytes:     usage.DiskTotal,
		FormattedDiskFree:  sizefmt.Bytes(usage.DiskFree),
		FormattedDiskTotal: sizefmt.Bytes(usage.DiskTotal),
	}

	if s.maxStorageSize > 0 {
		info.UsedPercentage = float64(usage.UsedBytes) / float64(s.maxStorageSize) * 100
	}

	if usage.DiskTotal > 0 {
		diskUsed := usage.DiskTotal - usage.DiskFree
		info.DiskUsedPercentage = float64(diskUsed) / float64(usage.DiskTotal) * 100
	}

	return info, nil
}

// classifyLookupErr maps storage lookup failures onto the domain error the
// catalog exposes for them.
func classifyLookupErr(err error, msg string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return file.ErrFileNotFound
	case errors.Is(err, storage.ErrUnsafeName):
		return file.ErrInvalidStoredName
	}
	return fmt.Errorf("%s: %w", msg, err)
}
