package file

import "errors"

var (
	ErrTooManyFiles      = errors.New("Too many files in upload")
	ErrFileTooLarge      = errors.New("File exceeds the maximum allowed size")
	ErrFileNotFound      = errors.New("File not found")
	ErrInvalidStoredName = errors.New("Invalid file name")
	ErrNotPreviewable    = errors.New("File cannot be previewed as text")
)
