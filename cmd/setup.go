package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"studioupload/internal/browser"
	"studioupload/pkg/config"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/cobra"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Studioupload",
	Long:  `Pick a browser, point at a cookie session and write config.yaml and .env.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

type setupState struct {
	cfg *config.Config
	env map[string]string
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎬 Studioupload Setup"))

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	state := &setupState{cfg: cfg, env: make(map[string]string)}

	steps := []struct {
		name string
		fn   func(*setupState) error
	}{
		{"Choosing browser", configureBrowser},
		{"Configuring uploads", configureUploads},
		{"Configuring cookies", configureCookies},
		{"Creating directories", createDirectories},
		{"Writing config", writeConfig},
		{"Configuring environment", writeEnvFile},
	}

	for _, step := range steps {
		if err := step.fn(state); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	printNextSteps()
	return nil
}

func configureBrowser(state *setupState) error {
	cfg := state.cfg

	if err := huh.NewSelect[string]().
		Title("Browser").
		Options(
			huh.NewOption("Local Chrome / Chromium", browser.ModeChrome),
			huh.NewOption("Remote browser (DevTools URL, e.g. a container)", browser.ModeRemote),
		).
		Value(&cfg.Browser.Mode).
		Run(); err != nil {
		return err
	}

	if cfg.Browser.Mode == browser.ModeRemote {
		return huh.NewInput().
			Title("Remote browser URL").
			Description("DevTools endpoint, e.g. http://127.0.0.1:9222").
			Value(&cfg.Browser.RemoteURL).
			Validate(required("Remote browser URL")).
			Run()
	}

	if err := huh.NewConfirm().
		Title("Run headless?").
		Description("No window; needed on servers without a display").
		Value(&cfg.Browser.Headless).
		Run(); err != nil {
		return err
	}

	if path, found := launcher.LookPath(); found {
		fmt.Println(successStyle.Render("✓ Found browser: " + path))
		return nil
	}

	var download bool
	if err := huh.NewConfirm().
		Title("Chrome not found").
		Description("Download a Chromium build now?").
		Affirmative("Yes").
		Negative("No").
		Value(&download).
		Run(); err != nil {
		return err
	}
	if !download {
		fmt.Println(warnStyle.Render("Chromium will be downloaded on the first upload"))
		return nil
	}

	return runWithSpinner("Downloading Chromium", func() error {
		path, err := launcher.NewBrowser().Get()
		if err != nil {
			return err
		}
		cfg.Browser.Bin = path
		return nil
	})
}

func configureUploads(state *setupState) error {
	cfg := state.cfg
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Allow unscheduled uploads?").
				Description("They keep the visibility YouTube Studio picks by default").
				Value(&cfg.Studio.AcceptDefaultVisibility),
			huh.NewConfirm().
				Title("Add an end screen card?").
				Description("Runs after processing finishes").
				Value(&cfg.Studio.EndScreen),
		),
	)
	return form.Run()
}

func configureCookies(state *setupState) error {
	fmt.Println(infoStyle.Render(`
Export the cookies of a logged-in youtube.com tab as a JSON array,
for example with a cookie export extension, and save it to a file.
`))

	var path string
	if err := huh.NewInput().
		Title("Cookie file").
		Placeholder("./cookies.json").
		Value(&path).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("cookie file is required")
			}
			if _, err := os.Stat(strings.TrimSpace(s)); err != nil {
				return fmt.Errorf("cannot read %s", s)
			}
			return nil
		}).
		Run(); err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	state.env["STUDIOUPLOAD_COOKIES"] = path

	if !commandExists("gcloud") {
		return nil
	}

	var store bool
	if err := huh.NewConfirm().
		Title("Store cookies in Secret Manager?").
		Description("Keeps the session out of the working directory").
		Value(&store).
		Run(); err != nil || !store {
		return err
	}

	ref, err := storeCookieSecret(path)
	if err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Secret Manager skipped: %v", err)))
		return nil
	}
	state.env["STUDIOUPLOAD_COOKIES"] = ref
	return nil
}

func storeCookieSecret(path string) (string, error) {
	project := getActiveProject()
	if project == "" {
		return "", fmt.Errorf("no active gcloud project")
	}

	name := "studioupload-cookies"
	if err := huh.NewInput().
		Title("Secret name").
		Value(&name).
		Validate(required("Secret name")).
		Run(); err != nil {
		return "", err
	}

	if err := runWithSpinner("Enabling Secret Manager", func() error {
		return runSetupCmd("gcloud", "services", "enable", "secretmanager.googleapis.com", "--project", project)
	}); err != nil {
		return "", err
	}

	err := runWithSpinner("Uploading cookies", func() error {
		if runSetupCmd("gcloud", "secrets", "describe", name, "--project", project) == nil {
			return runSetupCmd("gcloud", "secrets", "versions", "add", name, "--data-file", path, "--project", project)
		}
		return runSetupCmd("gcloud", "secrets", "create", name, "--data-file", path, "--project", project)
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("sm://projects/%s/secrets/%s", project, name), nil
}

func getActiveProject() string {
	out, err := exec.Command("gcloud", "config", "get-value", "project").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func createDirectories(state *setupState) error {
	if err := os.MkdirAll(state.cfg.Storage.CacheDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", state.cfg.Storage.CacheDir, err)
	}
	fmt.Println(successStyle.Render("✓ Created " + state.cfg.Storage.CacheDir))
	return nil
}

func writeConfig(state *setupState) error {
	path := state.cfg.ConfigPath
	if !confirmOverwrite(path) {
		fmt.Println(infoStyle.Render("Kept existing " + path))
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := config.Save(state.cfg, path); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Created " + path))
	return nil
}

func writeEnvFile(state *setupState) error {
	if state.cfg.Browser.Mode == browser.ModeRemote {
		state.env["BROWSER_REMOTE_URL"] = state.cfg.Browser.RemoteURL
	}
	if !confirmOverwrite(".env") {
		fmt.Println(infoStyle.Render("Kept existing .env"))
		return nil
	}

	f, err := os.Create(".env")
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	order := []string{
		"STUDIOUPLOAD_COOKIES",
		"BROWSER_REMOTE_URL",
		"GCS_CREDENTIALS_FILE",
	}

	for _, key := range order {
		if val, ok := state.env[key]; ok && val != "" {
			_, _ = fmt.Fprintf(f, "%s=%s\n", key, val)
		}
	}

	fmt.Println(successStyle.Render("✓ Created .env file"))
	return nil
}

func confirmOverwrite(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return true
	}
	var overwrite bool
	if err := huh.NewConfirm().
		Title("Found existing " + path).
		Description("Overwrite?").
		Value(&overwrite).
		Run(); err != nil {
		return false
	}
	return overwrite
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Run: studioupload check")
	fmt.Println("  2. Run: studioupload upload ./video.mp4 --title \"My video\" --upload-time 2021-04-04T20:00:00")
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func runSetupCmd(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %s", err, stderr.String())
	}
	return nil
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}
