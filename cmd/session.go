package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"studioupload/internal/browser"
	"studioupload/internal/secrets"
	"studioupload/pkg/config"

	"github.com/go-rod/rod/lib/proto"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"
)

var (
	sessionCookies  string
	sessionBrowser  string
	sessionHeadless bool
)

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&sessionCookies, "cookies", "c", "", "Cookie file path or sm://projects/P/secrets/S reference")
	cmd.Flags().StringVarP(&sessionBrowser, "browser", "b", "", "Browser to drive: chrome, remote (docker) or firefox")
	cmd.Flags().BoolVar(&sessionHeadless, "headless", false, "Run the browser without a window")
}

// applySessionFlags lets explicit flags win over config.yaml and the environment.
func applySessionFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("cookies") {
		cfg.CookiesPath = sessionCookies
	}
	if cmd.Flags().Changed("browser") {
		cfg.Browser.Mode = sessionBrowser
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = sessionHeadless
	}
}

func browserOptions(cfg *config.Config) browser.Options {
	return browser.Options{
		Mode:         cfg.Browser.Mode,
		Bin:          cfg.Browser.Bin,
		Headless:     cfg.Browser.Headless,
		RemoteURL:    cfg.Browser.RemoteURL,
		UserAgent:    cfg.Browser.UserAgent,
		Language:     cfg.Browser.Language,
		WindowWidth:  cfg.Browser.WindowWidth,
		WindowHeight: cfg.Browser.WindowHeight,
		LoginTimeout: cfg.Browser.LoginTimeout,
	}
}

func isRemote(cfg *config.Config) bool {
	return cfg.Browser.Mode == browser.ModeRemote || cfg.Browser.Mode == browser.ModeDocker
}

func clientOptions(cfg *config.Config) []option.ClientOption {
	if cfg.GCSCredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.GCSCredentialsFile)}
}

func loadCookies(ctx context.Context, cfg *config.Config) ([]*proto.NetworkCookieParam, error) {
	if cfg.CookiesPath == "" {
		return nil, fmt.Errorf("no cookie file: pass --cookies or set STUDIOUPLOAD_COOKIES")
	}

	data, err := secrets.NewReader(clientOptions(cfg)...).Read(ctx, cfg.CookiesPath)
	if err != nil {
		return nil, err
	}
	return browser.ParseCookies(data)
}

// openStudio returns a logged-in session showing the studio dashboard. The
// session is closed on every error path; on success the caller owns it.
func openStudio(ctx context.Context, cfg *config.Config, cookies []*proto.NetworkCookieParam) (*browser.Session, error) {
	sess, err := browser.Launch(ctx, browserOptions(cfg))
	if err != nil {
		return nil, err
	}

	if err := sess.Login(ctx, cookies); err != nil {
		closeSession(sess)
		return nil, err
	}
	if err := sess.OpenStudio(ctx); err != nil {
		closeSession(sess)
		return nil, err
	}
	return sess, nil
}

func closeSession(sess *browser.Session) {
	if err := sess.Close(); err != nil {
		slog.Warn("Failed to close browser", "error", err)
	}
}
