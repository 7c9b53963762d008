package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/filecrate/filecrate-backend-go/internal/domain/file"
	"github.com/filecrate/filecrate-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type FileHandler interface {
	// Batch uploads
	Upload(w http.ResponseWriter, r *http.Request)

	// Catalog reads
	List(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)
	StorageInfo(w http.ResponseWriter, r *http.Request)

	// Catalog writes
	Delete(w http.ResponseWriter, r *http.Request)
}

type fileHandlerImpl struct {
	uploadService  file.UploadService
	catalogService file.CatalogService
	maxFileCount   int
}

func NewFileHandler(uploadService file.UploadService, catalogService file.CatalogService, maxFileCount int) FileHandler {
	return &fileHandlerImpl{
		uploadService:  uploadService,
		catalogService: catalogService,
		maxFileCount:   maxFileCount,
	}
}

// Upload implements FileHandler.
func (h *fileHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form (parts beyond 32MB spill to temp files)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	var fileHeaders []*multipart.FileHeader
	if r.MultipartForm != nil {
		fileHeaders = r.MultipartForm.File["files"]
	}

	req := file.UploadRequest{
		Files: make([]file.UploadStream, 0, len(fileHeaders)),
	}
	for _, header := range fileHeaders {
		req.Files = append(req.Files, file.UploadStream{
			OriginalName: header.Filename,
			Open: func() (io.ReadCloser, error) {
				return header.Open()
			},
		})
	}

	results, err := h.uploadService.Upload(r.Context(), req)
	if err != nil {
		if errors.Is(err, file.ErrTooManyFiles) {
			response.BadRequest(w, fmt.Sprintf("Maximum %d files allowed", h.maxFileCount), nil)
			return
		}
		response.HandleError(w, err)
		return
	}

	succeeded := 0
	for _, result := range results {
		if result.Error == "" {
			succeeded++
		}
	}

	response.SuccessWithMessage(w, fmt.Sprintf("Successfully uploaded %d file(s)", succeeded), results)
}

// List implements FileHandler.
func (h *fileHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.catalogService.ListFiles(r.Context())
	if err != nil {
		slog.Error("Failed to list files", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, files)
}

// Download implements FileHandler.
func (h *fileHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	storedName := chi.URLParam(r, "storedName")

	reader, entry, err := h.catalogService.Download(r.Context(), storedName)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(filepath.Ext(entry.OriginalName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(entry.SizeBytes, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", entry.OriginalName))

	if _, err := io.Copy(w, reader); err != nil {
		// Headers are out already, nothing to send to the client
		slog.Error("Failed to stream file", "stored_name", entry.StoredName, "error", err)
	}
}

// Preview implements FileHandler.
func (h *fileHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	storedName := chi.URLParam(r, "storedName")

	preview, err := h.catalogService.Preview(r.Context(), storedName)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, preview)
}

// StorageInfo implements FileHandler.
func (h *fileHandlerImpl) StorageInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.catalogService.StorageInfo(r.Context())
	if err != nil {
		slog.Error("Failed to read storage info", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, info)
}

// Delete implements FileHandler.
func (h *fileHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	storedName := chi.URLParam(r, "storedName")

	if err := h.catalogService.Delete(r.Context(), storedName); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "File deleted successfully", nil)
}
