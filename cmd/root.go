package cmd

import (
	"errors"
	"log/slog"
	"os"

	"studioupload/internal/studio"

	"github.com/spf13/cobra"
)

const (
	exitDailyLimit = 1
	exitFailure    = 2
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "studioupload",
	Short: "Upload videos through YouTube Studio",
	Long: `Studioupload drives a real browser through the YouTube Studio upload wizard
using an exported cookie session, so no Data API quota or OAuth client is needed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogger()
	}
}

func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, studio.ErrDailyUploadLimitReached):
		return exitDailyLimit
	default:
		return exitFailure
	}
}

func setupLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
