package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/tabterm/internal/app"
	"github.com/zhubert/tabterm/internal/config"
	"github.com/zhubert/tabterm/internal/logger"
	"github.com/zhubert/tabterm/internal/shell"
	"github.com/zhubert/tabterm/internal/ui"
)

var (
	debugMode             bool
	quietMode             bool
	shellFlag             string
	commandFlag           string
	themeFlag             string
	notifyFlag            bool
	saveFlag              bool
	loginFlag             bool
	logFileFlag           string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "tabterm",
	Short: "Tabbed terminal multiplexer that can act as a login shell",
	Long: `tabterm runs several shells side by side inside one terminal, one per tab.
It can be installed as a user's login shell; "tabterm -c CMD" then runs CMD in
the user's real shell so remote commands over ssh keep working.`,
	// Login shells are started as "$SHELL -l" or "$SHELL --login" and may
	// carry extra arguments; anything but -c is ignored.
	Args:          cobra.ArbitraryArgs,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", logger.DefaultLogPath, "Write the TUI log to this file")
	rootCmd.Flags().StringVar(&shellFlag, "shell", "", "Shell to run in new tabs (default: detected login shell)")
	rootCmd.Flags().StringVarP(&commandFlag, "command", "c", "", "Run a command in the user's shell instead of starting the TUI")
	rootCmd.Flags().StringVar(&themeFlag, "theme", "", "Color theme ("+themeList()+")")
	rootCmd.Flags().BoolVar(&notifyFlag, "notify", false, "Send a desktop notification when a background tab exits")
	rootCmd.Flags().BoolVar(&saveFlag, "save", false, "Persist --shell, --theme and --notify to the config file")
	rootCmd.Flags().BoolVarP(&loginFlag, "login", "l", false, "Accepted for login shell compatibility; has no effect")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	// Set version dynamically
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("tabterm %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("tabterm %s\n", version)
}

func themeList() string {
	names := make([]string, 0, len(ui.ThemeNames()))
	for _, n := range ui.ThemeNames() {
		names = append(names, string(n))
	}
	return strings.Join(names, ", ")
}

// resolveShell picks the tab shell: --shell, then the config file, then
// login shell detection. A flag or configured shell that is tabterm itself is
// skipped, since every tab would start another tabterm.
func resolveShell(flag string, cfg *config.Config, detect func() string, isSelf func(string) bool) string {
	if flag != "" {
		if !isSelf(flag) {
			return flag
		}
		logger.Warn("ignoring --shell %s: it is tabterm", flag)
	}
	if s := cfg.GetShell(); s != "" {
		if !isSelf(s) {
			return s
		}
		logger.Warn("ignoring configured shell %s: it is tabterm", s)
	}
	return detect()
}

// applySettings copies --theme and --notify into cfg and, with --save, also
// --shell before writing the file. changed reports which flags were set.
func applySettings(cfg *config.Config, changed func(string) bool) error {
	if changed("theme") {
		if !slices.Contains(ui.ThemeNames(), ui.ThemeName(themeFlag)) {
			return fmt.Errorf("unknown theme %q (available: %s)", themeFlag, themeList())
		}
		cfg.SetTheme(themeFlag)
	}
	if changed("notify") {
		cfg.SetNotificationsEnabled(notifyFlag)
	}
	if !saveFlag {
		return nil
	}
	if changed("shell") {
		cfg.SetShell(shellFlag)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	logger.Info("saved settings to %s", cfg.FilePath())
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		logger.Debug("ignoring arguments %q", args)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	userShell := resolveShell(shellFlag, cfg, shell.Detect, shell.IsSelf)

	if cmd.Flags().Changed("command") {
		// Only returns on failure
		if err := shell.ExecCommand(userShell, commandFlag); err != nil {
			return fmt.Errorf("error running %s -c: %w", userShell, err)
		}
		return nil
	}

	if err := logger.Init(logFileFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	// Ensure logger is closed on exit
	defer logger.Close()

	if err := applySettings(cfg, cmd.Flags().Changed); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Shells started in tabs see the real shell, not tabterm.
	if err := os.Setenv(config.UserShellEnv, userShell); err != nil {
		return err
	}

	logger.Info("starting tabterm %s with shell %s", version, userShell)

	// Create and run the app
	m := app.New(app.Options{Config: cfg, Version: version, Shell: userShell})
	defer m.Close()
	logger.Debug("using theme %s", ui.CurrentThemeName())
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	if debugMode {
		fmt.Fprintf(os.Stderr, "Debug log: %s\n", logger.Path())
	}
	if err := m.Err(); err != nil {
		logger.Error("startup failed: %v", err)
		return err
	}
	return nil
}
