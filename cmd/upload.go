package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studioupload/internal/storage"
	"studioupload/internal/studio"
	"studioupload/pkg/config"
	"studioupload/pkg/retry"

	"github.com/spf13/cobra"
)

var (
	uploadTitle            string
	uploadDescription      string
	uploadThumbnail        string
	uploadGame             string
	uploadKids             bool
	uploadTime             string
	uploadAcceptVisibility bool
	uploadEndScreen        bool
)

var uploadTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var uploadCmd = &cobra.Command{
	Use:   "upload VIDEO_PATH",
	Short: "Upload one video through the studio wizard",
	Long: `Upload a video by walking the YouTube Studio upload wizard in a browser.
VIDEO_PATH and --thumbnail may be local paths or gs://bucket/object URIs.
Exits with status 1 when the daily upload limit is reached and 2 on any other failure.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	addSessionFlags(uploadCmd)
	uploadCmd.Flags().StringVarP(&uploadTitle, "title", "t", "", "Video title (defaults to the file name)")
	uploadCmd.Flags().StringVarP(&uploadDescription, "description", "d", "", "Video description")
	uploadCmd.Flags().StringVar(&uploadThumbnail, "thumbnail", "", "Thumbnail image path or gs:// URI")
	uploadCmd.Flags().StringVarP(&uploadGame, "game", "g", "", "Game title to tag the video with")
	uploadCmd.Flags().BoolVarP(&uploadKids, "kids", "k", false, "Mark the video as made for kids")
	uploadCmd.Flags().StringVar(&uploadTime, "upload-time", "", "Schedule publication, e.g. 2021-04-04T20:00:00 or 2021-04-04 for midnight (UTC unless an offset is given)")
	uploadCmd.Flags().BoolVar(&uploadAcceptVisibility, "accept-default-visibility", false, "Allow an unscheduled upload to keep the studio's default visibility")
	uploadCmd.Flags().BoolVar(&uploadEndScreen, "end-screen", false, "Add an end screen card after processing")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applySessionFlags(cmd, cfg)
	if uploadAcceptVisibility {
		cfg.Studio.AcceptDefaultVisibility = true
	}
	if uploadEndScreen {
		cfg.Studio.EndScreen = true
	}

	scheduledAt, err := parseUploadTime(uploadTime)
	if err != nil {
		return err
	}

	req := studio.UploadRequest{
		VideoPath:     args[0],
		Title:         uploadTitle,
		Description:   uploadDescription,
		ThumbnailPath: uploadThumbnail,
		Game:          uploadGame,
		MadeForKids:   uploadKids,
		ScheduledAt:   scheduledAt,
	}
	opts := driverOptions(cfg)
	if err := studio.Preflight(req, opts); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver := newResolver(cfg)
	defer func() { _ = resolver.Close() }()

	if req.VideoPath, err = resolver.Resolve(ctx, req.VideoPath); err != nil {
		return err
	}
	if req.ThumbnailPath != "" {
		if req.ThumbnailPath, err = resolver.Resolve(ctx, req.ThumbnailPath); err != nil {
			return err
		}
	}

	cookies, err := loadCookies(ctx, cfg)
	if err != nil {
		return err
	}

	sess, err := openStudio(ctx, cfg, cookies)
	if err != nil {
		return err
	}
	defer closeSession(sess)

	slog.Info("Uploading video", "path", req.VideoPath, "scheduled", scheduledAt != nil)
	return studio.NewDriver(sess.Page(), opts).Upload(ctx, req)
}

func driverOptions(cfg *config.Config) studio.Options {
	return studio.Options{
		Logger:                  slog.Default(),
		WaitTimeout:             cfg.Studio.WaitTimeout,
		LabelTimeout:            cfg.Studio.LabelTimeout,
		PollInterval:            cfg.Studio.PollInterval,
		ProgressInterval:        cfg.Studio.ProgressInterval,
		SettleDelay:             cfg.Studio.SettleDelay,
		CloseDelay:              cfg.Studio.CloseDelay,
		AcceptDefaultVisibility: cfg.Studio.AcceptDefaultVisibility,
		EndScreen:               cfg.Studio.EndScreen,
		OnStep: func(step string) {
			slog.Info("Wizard step", "step", step)
		},
	}
}

func newResolver(cfg *config.Config) *storage.Resolver {
	return storage.NewResolver(storage.ResolverOptions{
		CacheDir:       cfg.Storage.CacheDir,
		SkipLocalCheck: isRemote(cfg),
		Retry: retry.Config{
			MaxAttempts:  cfg.Storage.DownloadAttempts,
			InitialDelay: cfg.Storage.DownloadBackoff,
			Jitter:       true,
		},
		NewDownloader: storage.GCSDownloader(clientOptions(cfg)...),
	})
}

func parseUploadTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range uploadTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid --upload-time %q: want ISO-8601 such as 2021-04-04T20:00:00", value)
}
