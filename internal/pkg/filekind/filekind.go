package filekind

import (
	"path/filepath"
	"strings"
)

// Kind labels the broad category of a file, derived from its extension.
type Kind string

const (
	Image    Kind = "image"
	Video    Kind = "video"
	Audio    Kind = "audio"
	Text     Kind = "text"
	Code     Kind = "code"
	PDF      Kind = "pdf"
	Archive  Kind = "archive"
	Document Kind = "document"
	Unknown  Kind = "unknown"
)

// Detect classifies a filename by extension and reports whether clients can
// render an inline preview for it.
func Detect(filename string) (Kind, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")

	switch ext {
	case "jpg", "jpeg", "png", "gif", "webp", "svg", "bmp", "ico":
		return Image, true
	case "mp4", "webm", "mov", "avi", "mkv", "m4v":
		return Video, true
	case "mp3", "wav", "m4a", "aac", "flac", "ogg":
		return Audio, true
	case "txt", "md", "json", "xml", "csv", "log", "yml", "yaml", "toml", "ini":
		return Text, true
	case "js", "ts", "html", "css", "rs", "py", "java", "c", "cpp", "h", "hpp", "go", "rb", "php", "sh", "bash":
		return Code, true
	case "pdf":
		return PDF, true
	case "zip", "rar", "7z", "tar", "gz", "bz2":
		return Archive, false
	case "doc", "docx", "xls", "xlsx", "ppt", "pptx":
		return Document, false
	default:
		return Unknown, false
	}
}

// IsTextual reports whether a kind holds plain text that can be served as an
// inline text preview.
func IsTextual(k Kind) bool {
	return k == Text || k == Code
}
