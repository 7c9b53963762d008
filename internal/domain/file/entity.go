package file

import (
	"time"
)

// Entry represents one stored file. The backing directory listing is the
// catalog: all fields derive from storage attributes at read time, no
// separate index exists.
type Entry struct {
	StoredName   string
	OriginalName string
	SizeBytes    int64
	CreatedAt    time.Time
}
