package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"studioupload/pkg/retry"
)

const (
	ModeChrome  = "chrome"
	ModeRemote  = "remote"
	ModeDocker  = "docker"
	ModeFirefox = "firefox"

	defaultYouTubeURL   = "https://www.youtube.com"
	defaultStudioURL    = "https://studio.youtube.com"
	defaultRemoteURL    = "http://127.0.0.1:9222"
	defaultLanguage     = "en-US"
	defaultWidth        = 1920
	defaultHeight       = 1080
	defaultLoginTimeout = 10 * time.Second

	youtubeTitle   = "YouTube"
	dashboardTitle = "Channel dashboard"
	avatarSelector = "button#avatar-btn"
	titlePoll      = 500 * time.Millisecond
)

var (
	ErrUnsupportedBrowser = errors.New("unsupported browser")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrUnexpectedPage     = errors.New("unexpected page")
)

type Options struct {
	Mode         string
	Bin          string
	Headless     bool
	RemoteURL    string
	UserAgent    string
	Language     string
	WindowWidth  int
	WindowHeight int
	YouTubeURL   string
	StudioURL    string
	LoginTimeout time.Duration
}

// Session is one browser with one tab. Whoever calls Launch owns it and must
// call Close on every path.
type Session struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	opts     Options
}

func applyDefaults(opts *Options) {
	if opts.Mode == "" {
		opts.Mode = ModeChrome
	}
	if opts.Mode == ModeDocker {
		opts.Mode = ModeRemote
	}
	if opts.RemoteURL == "" {
		opts.RemoteURL = defaultRemoteURL
	}
	if opts.Language == "" {
		opts.Language = defaultLanguage
	}
	if opts.WindowWidth == 0 {
		opts.WindowWidth = defaultWidth
	}
	if opts.WindowHeight == 0 {
		opts.WindowHeight = defaultHeight
	}
	if opts.YouTubeURL == "" {
		opts.YouTubeURL = defaultYouTubeURL
	}
	if opts.StudioURL == "" {
		opts.StudioURL = defaultStudioURL
	}
	if opts.LoginTimeout == 0 {
		opts.LoginTimeout = defaultLoginTimeout
	}
}

func Launch(ctx context.Context, opts Options) (*Session, error) {
	applyDefaults(&opts)

	s := &Session{opts: opts}

	controlURL, err := s.controlURL(ctx)
	if err != nil {
		return nil, err
	}

	// Not bound to ctx: Close has to work after cancellation.
	s.browser = rod.New().ControlURL(controlURL)
	if err := s.browser.Connect(); err != nil {
		s.browser = nil
		s.killLauncher()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("open tab: %w", err)
	}
	s.page = page

	if err := s.configurePage(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	slog.Debug("Browser session ready", "mode", opts.Mode, "headless", opts.Headless, "control_url", controlURL)
	return s, nil
}

func (s *Session) controlURL(ctx context.Context) (string, error) {
	switch s.opts.Mode {
	case ModeChrome:
		l := launcher.New().
			Headless(s.opts.Headless).
			Set("window-size", fmt.Sprintf("%d,%d", s.opts.WindowWidth, s.opts.WindowHeight)).
			Set("lang", s.opts.Language).
			Set("accept-lang", s.opts.Language)
		if s.opts.Headless {
			l = l.NoSandbox(true).Set("disable-gpu").Set("start-maximized")
		}
		if s.opts.Bin != "" {
			l = l.Bin(s.opts.Bin)
		}
		s.launcher = l.Context(ctx)

		u, err := s.launcher.Launch()
		if err != nil {
			return "", fmt.Errorf("launch chrome: %w", err)
		}
		return u, nil

	case ModeRemote:
		u, err := launcher.ResolveURL(s.opts.RemoteURL)
		if err != nil {
			return "", fmt.Errorf("resolve remote browser %s: %w", s.opts.RemoteURL, err)
		}
		return u, nil

	default:
		return "", fmt.Errorf("%w: %q (use %s or %s)", ErrUnsupportedBrowser, s.opts.Mode, ModeChrome, ModeRemote)
	}
}

func (s *Session) configurePage(ctx context.Context) error {
	page := s.page.Context(ctx)

	err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.opts.WindowWidth,
		Height:            s.opts.WindowHeight,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}

	if s.opts.UserAgent != "" {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      s.opts.UserAgent,
			AcceptLanguage: s.opts.Language,
		})
		if err != nil {
			return fmt.Errorf("set user agent: %w", err)
		}
	}
	return nil
}

// Login installs the session cookies and checks that youtube.com shows a
// signed-in account.
func (s *Session) Login(ctx context.Context, cookies []*proto.NetworkCookieParam) error {
	if err := s.browser.Context(ctx).SetCookies(cookies); err != nil {
		return fmt.Errorf("set cookies: %w", err)
	}

	if err := s.open(ctx, s.opts.YouTubeURL, youtubeTitle); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.opts.LoginTimeout)
	defer cancel()
	if _, err := s.page.Context(waitCtx).Element(avatarSelector); err != nil {
		return fmt.Errorf("%w: no account avatar on %s: %v", ErrNotLoggedIn, s.opts.YouTubeURL, err)
	}

	slog.Info("Logged in", "cookies", len(cookies))
	return nil
}

func (s *Session) OpenStudio(ctx context.Context) error {
	return s.open(ctx, s.opts.StudioURL, dashboardTitle)
}

func (s *Session) open(ctx context.Context, url, wantTitle string) error {
	page := s.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("load %s: %w", url, err)
	}

	attempts := max(int(s.opts.LoginTimeout/titlePoll), 1)
	var title string
	err := retry.New(retry.Fixed(attempts, titlePoll)).Do(ctx, func(ctx context.Context) error {
		info, err := s.page.Context(ctx).Info()
		if err != nil {
			return err
		}
		title = info.Title
		if !strings.Contains(title, wantTitle) {
			return ErrUnexpectedPage
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: title %q does not contain %q: %w", url, title, wantTitle, err)
	}

	slog.Debug("Page opened", "url", url, "title", title)
	return nil
}

func (s *Session) Page() *Page {
	return &Page{page: s.page}
}

func (s *Session) Close() error {
	var err error
	switch {
	case s.launcher != nil && s.browser != nil:
		err = s.browser.Close()
	case s.page != nil:
		// Remote browsers are shared; only close our tab.
		err = s.page.Close()
	}
	s.killLauncher()
	return err
}

func (s *Session) killLauncher() {
	if s.launcher == nil {
		return
	}
	s.launcher.Kill()
	s.launcher.Cleanup()
}
