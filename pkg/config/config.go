package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath = "config.yaml"

	defaultBrowserMode  = "chrome"
	defaultRemoteURL    = "http://127.0.0.1:9222"
	defaultLanguage     = "en-US"
	defaultWindowWidth  = 1920
	defaultWindowHeight = 1080
	defaultLoginTimeout = 10 * time.Second

	defaultWaitTimeout      = 20 * time.Second
	defaultLabelTimeout     = 10 * time.Second
	defaultPollInterval     = 500 * time.Millisecond
	defaultProgressInterval = 5 * time.Second
	defaultSettleDelay      = 5 * time.Second
	defaultCloseDelay       = 10 * time.Second

	defaultCacheDir         = "./.cache/media"
	defaultDownloadAttempts = 4
	defaultDownloadBackoff  = time.Second
)

type Config struct {
	ConfigPath         string `yaml:"-"`
	CookiesPath        string `yaml:"-"`
	GCSCredentialsFile string `yaml:"-"`

	Browser BrowserConfig `yaml:"browser"`
	Studio  StudioConfig  `yaml:"studio"`
	Storage StorageConfig `yaml:"storage"`
}

type BrowserConfig struct {
	Mode         string        `yaml:"mode"` // "chrome" or "remote"
	Headless     bool          `yaml:"headless"`
	Bin          string        `yaml:"bin"`
	RemoteURL    string        `yaml:"remote_url"`
	UserAgent    string        `yaml:"user_agent"`
	Language     string        `yaml:"language"`
	WindowWidth  int           `yaml:"window_width"`
	WindowHeight int           `yaml:"window_height"`
	LoginTimeout time.Duration `yaml:"login_timeout"`
}

type StudioConfig struct {
	WaitTimeout             time.Duration `yaml:"wait_timeout"`
	LabelTimeout            time.Duration `yaml:"label_timeout"`
	PollInterval            time.Duration `yaml:"poll_interval"`
	ProgressInterval        time.Duration `yaml:"progress_interval"`
	SettleDelay             time.Duration `yaml:"settle_delay"`
	CloseDelay              time.Duration `yaml:"close_delay"`
	AcceptDefaultVisibility bool          `yaml:"accept_default_visibility"`
	EndScreen               bool          `yaml:"end_screen"`
}

type StorageConfig struct {
	CacheDir         string        `yaml:"cache_dir"`
	DownloadAttempts int           `yaml:"download_attempts"`
	DownloadBackoff  time.Duration `yaml:"download_backoff"`
}

// Load reads .env, then the YAML file, then applies environment overrides
// and defaults. A missing YAML file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		ConfigPath:         getEnvOrDefault("STUDIOUPLOAD_CONFIG", defaultConfigPath),
		CookiesPath:        os.Getenv("STUDIOUPLOAD_COOKIES"),
		GCSCredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
	}

	if err := loadYAMLConfig(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func loadYAMLConfig(cfg *Config) error {
	data, err := os.ReadFile(cfg.ConfigPath)
	if os.IsNotExist(err) {
		slog.Debug("No config file found, using defaults", "path", cfg.ConfigPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cfg.ConfigPath, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", cfg.ConfigPath, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Browser.RemoteURL = getEnvOrDefault("BROWSER_REMOTE_URL", cfg.Browser.RemoteURL)
	cfg.Browser.Bin = getEnvOrDefault("BROWSER_BIN", cfg.Browser.Bin)
}

func applyDefaults(cfg *Config) {
	applyBrowserDefaults(cfg)
	applyStudioDefaults(cfg)
	applyStorageDefaults(cfg)
}

func applyBrowserDefaults(cfg *Config) {
	if cfg.Browser.Mode == "" {
		cfg.Browser.Mode = defaultBrowserMode
	}
	if cfg.Browser.RemoteURL == "" {
		cfg.Browser.RemoteURL = defaultRemoteURL
	}
	if cfg.Browser.Language == "" {
		cfg.Browser.Language = defaultLanguage
	}
	if cfg.Browser.WindowWidth == 0 {
		cfg.Browser.WindowWidth = defaultWindowWidth
	}
	if cfg.Browser.WindowHeight == 0 {
		cfg.Browser.WindowHeight = defaultWindowHeight
	}
	if cfg.Browser.LoginTimeout == 0 {
		cfg.Browser.LoginTimeout = defaultLoginTimeout
	}
}

func applyStudioDefaults(cfg *Config) {
	if cfg.Studio.WaitTimeout == 0 {
		cfg.Studio.WaitTimeout = defaultWaitTimeout
	}
	if cfg.Studio.LabelTimeout == 0 {
		cfg.Studio.LabelTimeout = defaultLabelTimeout
	}
	if cfg.Studio.PollInterval == 0 {
		cfg.Studio.PollInterval = defaultPollInterval
	}
	if cfg.Studio.ProgressInterval == 0 {
		cfg.Studio.ProgressInterval = defaultProgressInterval
	}
	if cfg.Studio.SettleDelay == 0 {
		cfg.Studio.SettleDelay = defaultSettleDelay
	}
	if cfg.Studio.CloseDelay == 0 {
		cfg.Studio.CloseDelay = defaultCloseDelay
	}
}

func applyStorageDefaults(cfg *Config) {
	if cfg.Storage.CacheDir == "" {
		cfg.Storage.CacheDir = defaultCacheDir
	}
	if cfg.Storage.DownloadAttempts == 0 {
		cfg.Storage.DownloadAttempts = defaultDownloadAttempts
	}
	if cfg.Storage.DownloadBackoff == 0 {
		cfg.Storage.DownloadBackoff = defaultDownloadBackoff
	}
}

// Save writes the YAML part of cfg; environment-only fields are skipped.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
