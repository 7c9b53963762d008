package file

import (
	"io"
	"time"

	"github.com/filecrate/filecrate-backend-go/internal/pkg/validator"
)

// UploadStream is one incoming file: the client-supplied name plus a lazy
// handle on its content. Open is called at most once, by the pipeline, when
// the stream is written.
type UploadStream struct {
	OriginalName string
	Open         func() (io.ReadCloser, error)
}

// UploadRequest carries an ordered batch of upload streams. Count and size
// bounds are service configuration, not request fields.
type UploadRequest struct {
	Files []UploadStream
}

func (r *UploadRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Files) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "files",
			Message: "at least one file is required",
		})
	}

	for i, f := range r.Files {
		if f.Open == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "files",
				Message: "file stream " + validator.Itoa(i) + " has no content",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Per-file upload failure codes carried in UploadResult.Error.
const (
	UploadErrorTooLarge = "file_too_large"
	UploadErrorStorage  = "storage_error"
)

// UploadResult is the outcome for a single file of a batch upload. Results
// are reported in request order, one per requested file.
type UploadResult struct {
	OriginalName string `json:"original_name"`
	StoredName   string `json:"stored_name,omitempty"`
	SizeBytes    int64  `json:"size_bytes"`
	Error        string `json:"error,omitempty"`
}

// FileResponse is one catalog entry as served to clients.
type FileResponse struct {
	StoredName   string    `json:"stored_name"`
	OriginalName string    `json:"original_name"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
	FileType     string    `json:"file_type"`
	CanPreview   bool      `json:"can_preview"`
}

// PreviewResponse carries the leading text of a previewable file.
type PreviewResponse struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Content  string `json:"content"`
}

// StorageInfoResponse reports aggregate usage of the storage directory and of
// the disk underneath it. Disk figures are zero for backends without one.
type StorageInfoResponse struct {
	UsedBytes          int64   `json:"used_bytes"`
	TotalFiles         int     `json:"total_files"`
	UsedPercentage     float64 `json:"used_percentage"`
	FormattedUsed      string  `json:"formatted_used"`
	MaxSizeMB          int64   `json:"max_size_mb"`
	DiskFreeBytes      uint64  `json:"disk_free_bytes"`
	DiskTotalBytes     uint64  `json:"disk_total_bytes"`
	DiskUsedPercentage float64 `json:"disk_used_percentage"`
	FormattedDiskFree  string  `json:"formatted_disk_free"`
	FormattedDiskTotal string  `json:"formatted_disk_total"`
}
