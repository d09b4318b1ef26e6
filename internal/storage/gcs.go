package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsScheme = "gs://"

var ErrObjectNotFound = errors.New("object not found")

type GCSStorage struct {
	client *storage.Client
}

func NewGCSStorage(ctx context.Context, opts ...option.ClientOption) (*GCSStorage, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSStorage{client: client}, nil
}

// GCSDownloader is the Resolver factory for a real bucket client.
func GCSDownloader(opts ...option.ClientOption) func(ctx context.Context) (Downloader, error) {
	return func(ctx context.Context) (Downloader, error) {
		return NewGCSStorage(ctx, opts...)
	}
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) Download(ctx context.Context, bucket, object, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gs://%s/%s: %w", bucket, object, ErrObjectNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to create reader: %w", err)
	}
	defer func() { _ = r.Close() }()

	return writeAtomic(localPath, r)
}

// writeAtomic keeps a half-written download out of the cache.
func writeAtomic(localPath string, src io.Reader) error {
	tmp := localPath + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create local file: %w", err)
	}

	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to download file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close local file: %w", err)
	}
	return os.Rename(tmp, localPath)
}

func ParseURI(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(uri, gcsScheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" || strings.HasSuffix(object, "/") || slices.Contains(strings.Split(object, "/"), "..") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}
	return bucket, object, nil
}
