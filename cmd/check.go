package cmd

import (
	"fmt"
	"os"

	"studioupload/pkg/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	checkInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	checkSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	checkErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the cookie session can reach YouTube Studio",
	Long:  `Launch the browser, log in with the cookie session and open the studio dashboard without uploading anything.`,
	RunE:  runCheck,
}

func init() {
	addSessionFlags(checkCmd)
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applySessionFlags(cmd, cfg)

	fmt.Println(checkInfoStyle.Render("\nStudio Session Status:\n"))

	if _, err := os.Stat(cfg.ConfigPath); err == nil {
		fmt.Println(checkSuccessStyle.Render("✓ Config: " + cfg.ConfigPath))
	} else {
		fmt.Println(checkInfoStyle.Render("○ Config: no " + cfg.ConfigPath + ", using defaults"))
	}

	if cfg.GCSCredentialsFile != "" {
		fmt.Println(checkSuccessStyle.Render("✓ GCS: credentials file " + cfg.GCSCredentialsFile))
	} else {
		fmt.Println(checkInfoStyle.Render("○ GCS: application default credentials (optional)"))
	}

	fmt.Println(checkInfoStyle.Render("○ Media cache: " + cfg.Storage.CacheDir))
	fmt.Println(checkInfoStyle.Render(fmt.Sprintf("○ Browser: %s (headless: %t)", cfg.Browser.Mode, cfg.Browser.Headless)))

	cookies, err := loadCookies(ctx, cfg)
	if err != nil {
		fmt.Println(checkErrorStyle.Render("✗ Cookies: " + err.Error()))
		return err
	}
	fmt.Println(checkSuccessStyle.Render(fmt.Sprintf("✓ Cookies: %d loaded from %s", len(cookies), cfg.CookiesPath)))

	sess, err := openStudio(ctx, cfg, cookies)
	if err != nil {
		fmt.Println(checkErrorStyle.Render("✗ Studio: " + err.Error()))
		return err
	}
	defer closeSession(sess)
	fmt.Println(checkSuccessStyle.Render("✓ Studio: logged in, dashboard reachable"))

	fmt.Println()
	return nil
}
