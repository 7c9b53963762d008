package response

import (
	"errors"
	"net/http"

	"github.com/filecrate/filecrate-backend-go/internal/domain/file"
	"github.com/filecrate/filecrate-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// File domain errors
	switch {
	case errors.Is(err, file.ErrFileNotFound):
		NotFound(w, "File not found")
	case errors.Is(err, file.ErrTooManyFiles):
		BadRequest(w, "Too many files in a single upload", nil)
	case errors.Is(err, file.ErrInvalidStoredName):
		BadRequest(w, "Invalid file name", nil)
	case errors.Is(err, file.ErrNotPreviewable):
		BadRequest(w, "File cannot be previewed as text", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
