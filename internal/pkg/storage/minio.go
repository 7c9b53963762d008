package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"sort"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/filecrate/filecrate-backend-go/internal/config"
)

const codeNoSuchKey = "NoSuchKey"

// MinioDirectory stores entries as objects in a single bucket. Object PUTs
// are atomic on the server side, so no staging area is needed: an object is
// either fully visible or absent.
type MinioDirectory struct {
	client *minio.Client
	bucket string
}

func NewMinioDirectory(cfg config.MinioConfig) (*MinioDirectory, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioDirectory{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (d *MinioDirectory) Write(ctx context.Context, name string, content io.Reader) (int64, error) {
	if err := validateName(name); err != nil {
		return 0, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := d.client.PutObject(ctx, d.bucket, name, content, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to store object: %w", err)
	}

	return info.Size, nil
}

func (d *MinioDirectory) List(ctx context.Context) ([]EntryInfo, error) {
	entries := []EntryInfo{}
	for object := range d.client.ListObjects(ctx, d.bucket, minio.ListObjectsOptions{}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		entries = append(entries, EntryInfo{
			Name:    object.Key,
			Size:    object.Size,
			ModTime: object.LastModified,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

func (d *MinioDirectory) Open(ctx context.Context, name string) (io.ReadCloser, EntryInfo, error) {
	if err := validateName(name); err != nil {
		return nil, EntryInfo{}, err
	}

	object, err := d.client.GetObject(ctx, d.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, EntryInfo{}, fmt.Errorf("failed to get object: %w", err)
	}

	stat, err := object.Stat()
	if err != nil {
		object.Close()
		if minio.ToErrorResponse(err).Code == codeNoSuchKey {
			return nil, EntryInfo{}, ErrNotFound
		}
		return nil, EntryInfo{}, fmt.Errorf("failed to stat object: %w", err)
	}

	return object, EntryInfo{Name: name, Size: stat.Size, ModTime: stat.LastModified}, nil
}

func (d *MinioDirectory) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	// RemoveObject succeeds silently for absent keys, so stat first to keep
	// delete-of-absent reporting ErrNotFound.
	if _, err := d.client.StatObject(ctx, d.bucket, name, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == codeNoSuchKey {
			return ErrNotFound
		}
		return fmt.Errorf("failed to stat object: %w", err)
	}

	if err := d.client.RemoveObject(ctx, d.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

func (d *MinioDirectory) Exists(ctx context.Context, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	_, err := d.client.StatObject(ctx, d.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == codeNoSuchKey {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (d *MinioDirectory) Usage(ctx context.Context) (UsageInfo, error) {
	entries, err := d.List(ctx)
	if err != nil {
		return UsageInfo{}, err
	}

	usage := UsageInfo{FileCount: len(entries)}
	for _, entry := range entries {
		usage.UsedBytes += entry.Size
	}

	// Disk figures stay zero: bucket capacity is not observable through the
	// S3 API.
	return usage, nil
}
