package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/filecrate/filecrate-backend-go/internal/domain/file"
	"github.com/filecrate/filecrate-backend-go/internal/pkg/naming"
	"github.com/filecrate/filecrate-backend-go/internal/pkg/storage"
)

type UploadServiceImpl struct {
	storage      storage.Directory
	maxFileSize  int64
	maxFileCount int
}

func NewUploadService(storage storage.Directory, maxFileSize int64, maxFileCount int) file.UploadService {
	return &UploadServiceImpl{
		storage:      storage,
		maxFileSize:  maxFileSize,
		maxFileCount: maxFileCount,
	}
}

// Upload implements file.UploadService.
func (s *UploadServiceImpl) Upload(ctx context.Context, req file.UploadRequest) ([]file.UploadResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The count gate runs before any file is stored, so an oversized batch
	// leaves the directory untouched.
	if len(req.Files) > s.maxFileCount {
		return nil, file.ErrTooManyFiles
	}

	results := make([]file.UploadResult, 0, len(req.Files))
	for _, stream := range req.Files {
		results = append(results, s.storeOne(ctx, stream))
	}

	return results, nil
}

// storeOne stores a single file under a fresh unique name. Failures are
// recorded in the result instead of returned, so one bad file never affects
// the other files of the batch.
func (s *UploadServiceImpl) storeOne(ctx context.Context, stream file.UploadStream) file.UploadResult {
	result := file.UploadResult{OriginalName: stream.OriginalName}

	source, err := stream.Open()
	if err != nil {
		slog.Error("Failed to open uploaded file", "original_name", stream.OriginalName, "error", err)
		result.Error = file.UploadErrorStorage
		return result
	}
	defer source.Close()

	storedName := naming.NewStoredName(stream.OriginalName)
	bounded := newBoundedReader(source, s.maxFileSize)

	written, err := s.storage.Write(ctx, storedName, bounded)
	if err != nil {
		if bounded.Exceeded() || errors.Is(err, file.ErrFileTooLarge) {
			slog.Warn("Rejected oversized upload", "original_name", stream.OriginalName, "max_bytes", s.maxFileSize)
			result.Error = file.UploadErrorTooLarge
			return result
		}

		slog.Error("Failed to store uploaded file", "original_name", stream.OriginalName, "error", err)
		result.Error = file.UploadErrorStorage
		return result
	}

	result.StoredName = storedName
	result.SizeBytes = written
	return result
}

// ==================== HELPER FUNCTIONS ====================

// boundedReader passes through at most max bytes and fails the read that goes
// beyond them. The error surfaces mid-copy inside the storage layer, which
// discards its staging data, so an oversized file never becomes visible.
type boundedReader struct {
	source   io.Reader
	max      int64
	read     int64
	exceeded bool
}

func newBoundedReader(source io.Reader, max int64) *boundedReader {
	return &boundedReader{source: source, max: max}
}

func (r *boundedReader) Read(p []byte) (int, error) {
	if r.exceeded {
		return 0, file.ErrFileTooLarge
	}

	// Leave room for one byte beyond the limit so overflow is detected on
	// this read instead of the next one.
	if allowed := r.max - r.read + 1; int64(len(p)) > allowed {
		p = p[:allowed]
	}

	n, err := r.source.Read(p)
	r.read += int64(n)
	if r.read > r.max {
		r.exceeded = true
		return n, file.ErrFileTooLarge
	}

	return n, err
}

// Exceeded reports whether the source ran past the limit. It stays reliable
// even when a storage backend swallows the original read error.
func (r *boundedReader) Exceeded() bool {
	return r.exceeded
}
