package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no entry exists under the requested name.
	ErrNotFound = errors.New("Entry not found")

	// ErrUnsafeName is returned for names that could resolve outside the
	// directory (path separators, traversal segments, reserved names).
	ErrUnsafeName = errors.New("Unsafe entry name")
)

// EntryInfo describes a single visible entry.
type EntryInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// UsageInfo aggregates usage of a directory. Disk figures are zero when the
// backend has no local filesystem underneath it.
type UsageInfo struct {
	UsedBytes int64
	FileCount int
	DiskFree  uint64
	DiskTotal uint64
}

// Directory is a flat collection of named file entries. Implementations must
// be safe for concurrent use: Write publishes each entry in a single atomic
// step, so a reader never observes partial content, and operations on
// distinct names are independent.
type Directory interface {
	// Write consumes content into a staging area and atomically publishes it
	// under name. On any failure nothing becomes visible and staging data is
	// removed. Errors from content are wrapped, so callers can classify them
	// with errors.Is. Returns the number of bytes written.
	Write(ctx context.Context, name string, content io.Reader) (int64, error)

	// List enumerates the currently visible entries in lexical name order.
	List(ctx context.Context) ([]EntryInfo, error)

	// Open returns the content of a visible entry together with its
	// metadata. The caller closes the reader. Returns ErrNotFound when no
	// entry exists under name.
	Open(ctx context.Context, name string) (io.ReadCloser, EntryInfo, error)

	// Delete removes a visible entry. Returns ErrNotFound when no entry
	// exists under name, including repeated deletes of the same name.
	Delete(ctx context.Context, name string) error

	// Exists checks if an entry is currently visible. Advisory only: the
	// answer can change before the caller acts on it.
	Exists(ctx context.Context, name string) (bool, error)

	// Usage reports aggregate usage of the directory.
	Usage(ctx context.Context) (UsageInfo, error)
}

// validateName rejects names no flat directory entry may carry: empty names,
// path separators, and leading dots, which are reserved for internal entries
// such as the staging area.
func validateName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	return nil
}
