package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// stagingDirName holds in-flight writes. It starts with a dot so listings,
// which skip dot entries, never see partially written data.
const stagingDirName = ".staging"

// LocalDirectory stores entries as a flat directory of regular files. Writes
// land in a staging subdirectory first and become visible through os.Rename,
// which is atomic on POSIX filesystems.
type LocalDirectory struct {
	root    string
	staging string
}

func NewLocalDirectory(root string) (*LocalDirectory, error) {
	// Create base directory if not exists
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	staging := filepath.Join(root, stagingDirName)
	if err := os.MkdirAll(staging, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	d := &LocalDirectory{
		root:    root,
		staging: staging,
	}

	// At startup no write is in flight, so everything in staging is a
	// leftover from a previous process.
	if _, err := d.SweepStale(context.Background(), 0); err != nil {
		return nil, err
	}

	return d, nil
}

// SweepStale removes staging files older than maxAge. A zero maxAge removes
// everything and is only safe while no writes are in flight.
func (d *LocalDirectory) SweepStale(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(d.staging)
	if err != nil {
		return 0, fmt.Errorf("failed to read staging directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(d.staging, entry.Name())); err == nil {
			removed++
		}
	}

	return removed, nil
}

// entryPath resolves name inside the root. Entries are flat, so anything with
// separators, traversal segments, or a leading dot is rejected before it can
// touch the filesystem.
func (d *LocalDirectory) entryPath(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	fullPath := filepath.Join(d.root, name)

	// Security check
	if filepath.Dir(fullPath) != filepath.Clean(d.root) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}

	return fullPath, nil
}

func (d *LocalDirectory) Write(ctx context.Context, name string, content io.Reader) (int64, error) {
	target, err := d.entryPath(name)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(d.staging, "upload-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create staging file: %w", err)
	}

	written, err := io.Copy(tmp, content)
	if err != nil {
		discardStaging(tmp)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	// Flush before publishing so the rename never exposes bytes that are
	// not durable yet.
	if err := tmp.Sync(); err != nil {
		discardStaging(tmp)
		return 0, fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("failed to close staging file: %w", err)
	}

	// Atomic publish: the entry appears under its final name all at once.
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("failed to publish file: %w", err)
	}

	return written, nil
}

func discardStaging(tmp *os.File) {
	tmp.Close()
	os.Remove(tmp.Name())
}

func (d *LocalDirectory) List(ctx context.Context) ([]EntryInfo, error) {
	dirents, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	entries := make([]EntryInfo, 0, len(dirents))
	for _, dirent := range dirents {
		if dirent.IsDir() || strings.HasPrefix(dirent.Name(), ".") {
			continue
		}

		info, err := dirent.Info()
		if err != nil {
			// Entry removed between listing and stat
			continue
		}

		entries = append(entries, EntryInfo{
			Name:    dirent.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return entries, nil
}

func (d *LocalDirectory) Open(ctx context.Context, name string) (io.ReadCloser, EntryInfo, error) {
	fullPath, err := d.entryPath(name)
	if err != nil {
		return nil, EntryInfo{}, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, EntryInfo{}, ErrNotFound
		}
		return nil, EntryInfo{}, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, EntryInfo{}, fmt.Errorf("failed to stat file: %w", err)
	}

	return file, EntryInfo{Name: name, Size: stat.Size(), ModTime: stat.ModTime()}, nil
}

func (d *LocalDirectory) Delete(ctx context.Context, name string) error {
	fullPath, err := d.entryPath(name)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

func (d *LocalDirectory) Exists(ctx context.Context, name string) (bool, error) {
	fullPath, err := d.entryPath(name)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (d *LocalDirectory) Usage(ctx context.Context) (UsageInfo, error) {
	entries, err := d.List(ctx)
	if err != nil {
		return UsageInfo{}, err
	}

	usage := UsageInfo{FileCount: len(entries)}
	for _, entry := range entries {
		usage.UsedBytes += entry.Size
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(d.root, &stat); err == nil {
		usage.DiskFree = stat.Bavail * uint64(stat.Bsize)
		usage.DiskTotal = stat.Blocks * uint64(stat.Bsize)
	}

	return usage, nil
}
