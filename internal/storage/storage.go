package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"studioupload/pkg/retry"
)

var ErrInvalidURI = errors.New("invalid gs:// uri")

type Downloader interface {
	Download(ctx context.Context, bucket, object, localPath string) error
	Close() error
}

// Resolver turns media references into paths the browser can hand to a file
// input: local paths as-is, gs:// objects through the download cache.
type Resolver struct {
	local         *LocalStorage
	checkLocal    bool
	policy        *retry.Policy
	newDownloader func(ctx context.Context) (Downloader, error)
	downloader    Downloader
}

type ResolverOptions struct {
	CacheDir string
	// SkipLocalCheck is set for remote browsers, whose filesystem is not ours.
	SkipLocalCheck bool
	// Retry falls back to retry.DefaultConfig when MaxAttempts is zero.
	Retry          retry.Config
	Sleep          retry.SleepFunc
	NewDownloader  func(ctx context.Context) (Downloader, error)
}

func NewResolver(opts ResolverOptions) *Resolver {
	config := opts.Retry
	if config.MaxAttempts == 0 {
		config = retry.DefaultConfig()
	}
	policy := retry.New(config).WithSleep(opts.Sleep).WithRetryable(func(err error) bool {
		return !errors.Is(err, ErrObjectNotFound) && !errors.Is(err, context.Canceled)
	}).OnRetry(func(attempt int, err error) {
		slog.Warn("Download failed, retrying", "attempt", attempt, "error", err)
	})

	return &Resolver{
		local:         NewLocalStorage(opts.CacheDir),
		checkLocal:    !opts.SkipLocalCheck,
		policy:        policy,
		newDownloader: opts.NewDownloader,
	}
}

func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	if !IsGCS(ref) {
		return r.local.Resolve(ref, r.checkLocal)
	}

	bucket, object, err := ParseURI(ref)
	if err != nil {
		return "", err
	}

	localPath := r.local.CachePath(bucket, object)
	if _, err := os.Stat(localPath); err == nil {
		slog.Debug("Using cached media", "uri", ref, "path", localPath)
		return localPath, nil
	}

	d, err := r.client(ctx)
	if err != nil {
		return "", err
	}

	err = r.policy.Do(ctx, func(ctx context.Context) error {
		return d.Download(ctx, bucket, object, localPath)
	})
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", ref, err)
	}

	slog.Info("Downloaded media", "uri", ref, "path", localPath)
	return localPath, nil
}

func (r *Resolver) client(ctx context.Context) (Downloader, error) {
	if r.downloader != nil {
		return r.downloader, nil
	}
	if r.newDownloader == nil {
		return nil, errors.New("no gs:// downloader configured")
	}
	d, err := r.newDownloader(ctx)
	if err != nil {
		return nil, err
	}
	r.downloader = d
	return d, nil
}

func (r *Resolver) Close() error {
	if r.downloader == nil {
		return nil
	}
	return r.downloader.Close()
}

func IsGCS(ref string) bool {
	return strings.HasPrefix(ref, gcsScheme)
}
