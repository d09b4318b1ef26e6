package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"studioupload/internal/storage"
	"studioupload/pkg/config"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the media download cache",
	Long:  `Remove every gs:// object downloaded for earlier uploads.`,
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cache := storage.NewLocalStorage(cfg.Storage.CacheDir)
	count := countFiles(cache.CacheDir())
	if err := cache.Clear(); err != nil {
		return err
	}

	fmt.Printf("Cleared %d file(s) from %s\n", count, cache.CacheDir())
	return nil
}

func countFiles(dir string) int {
	count := 0
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			count++
		}
		return nil
	})
	return count
}
