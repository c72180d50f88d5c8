package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/zhubert/tabterm/internal/config"
	"github.com/zhubert/tabterm/internal/daemon"
	"github.com/zhubert/tabterm/internal/shell"
)

func TestDebugFlagDefaultFalse(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("debug")
	if flag == nil {
		t.Fatal("--debug flag not found")
	}
	if flag.DefValue != "false" {
		t.Errorf("--debug default = %q, want %q", flag.DefValue, "false")
	}
}

func TestQuietFlagExists(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("quiet")
	if flag == nil {
		t.Fatal("--quiet flag not found")
	}
	if flag.Shorthand != "q" {
		t.Errorf("--quiet shorthand = %q, want %q", flag.Shorthand, "q")
	}
}

func TestCommandFlagShorthand(t *testing.T) {
	flag := rootCmd.Flags().Lookup("command")
	if flag == nil {
		t.Fatal("--command flag not found")
	}
	if flag.Shorthand != "c" {
		t.Errorf("--command shorthand = %q, want %q", flag.Shorthand, "c")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"daemon", "status"} {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestInitConfig_QuietOverridesDebug(t *testing.T) {
	origDebug, origQuiet := debugMode, quietMode
	defer func() { debugMode, quietMode = origDebug, origQuiet }()

	debugMode = true
	quietMode = true

	// Should not panic - quiet should take precedence
	initConfig()
}

func TestResolveShell(t *testing.T) {
	detect := func() string { return "/bin/detected" }
	isSelf := func(s string) bool { return strings.HasSuffix(s, "/tabterm") }

	withShell := &config.Config{}
	withShell.SetShell("/bin/configured")
	withSelf := &config.Config{}
	withSelf.SetShell("/usr/local/bin/tabterm")

	tests := []struct {
		name string
		flag string
		cfg  *config.Config
		want string
	}{
		{"flag wins", "/bin/flag", withShell, "/bin/flag"},
		{"config next", "", withShell, "/bin/configured"},
		{"detect last", "", &config.Config{}, "/bin/detected"},
		{"configured tabterm falls back to detect", "", withSelf, "/bin/detected"},
		{"tabterm flag falls back to config", "/usr/local/bin/tabterm", withShell, "/bin/configured"},
		{"tabterm everywhere falls back to detect", "/usr/local/bin/tabterm", withSelf, "/bin/detected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveShell(tt.flag, tt.cfg, detect, isSelf); got != tt.want {
				t.Errorf("resolveShell() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveShell_SHELLPointingAtTabterm(t *testing.T) {
	// sshd exports SHELL=<tabterm> when tabterm is the login shell.
	for _, k := range []string{"TABTERM_SHELL", "TABTERM_THEME"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("SHELL", "/usr/local/bin/tabterm")

	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	got := resolveShell("", cfg, func() string { return "/bin/bash" }, shell.IsSelf)
	if got != "/bin/bash" {
		t.Errorf("resolveShell() = %q, want /bin/bash", got)
	}
}

func TestLoginFlagAccepted(t *testing.T) {
	flag := rootCmd.Flags().Lookup("login")
	if flag == nil {
		t.Fatal("--login flag not found")
	}
	if flag.Shorthand != "l" {
		t.Errorf("--login shorthand = %q, want %q", flag.Shorthand, "l")
	}

	tests := []struct {
		name string
		args []string
	}{
		{"short", []string{"-l"}},
		{"long", []string{"--login"}},
		{"with command", []string{"-l", "-c", "true"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := rootCmd.ParseFlags(tt.args); err != nil {
				t.Errorf("ParseFlags(%v) error = %v", tt.args, err)
			}
		})
	}
}

func TestStrayArgsAccepted(t *testing.T) {
	if err := rootCmd.ValidateArgs([]string{"extra", "args"}); err != nil {
		t.Errorf("ValidateArgs() error = %v, want nil", err)
	}
}

func TestApplySettings(t *testing.T) {
	origTheme, origNotify, origSave, origShell := themeFlag, notifyFlag, saveFlag, shellFlag
	defer func() { themeFlag, notifyFlag, saveFlag, shellFlag = origTheme, origNotify, origSave, origShell }()

	changedSet := func(names ...string) func(string) bool {
		return func(n string) bool { return slices.Contains(names, n) }
	}

	t.Run("unknown theme rejected", func(t *testing.T) {
		cfg, _ := config.LoadFrom(filepath.Join(t.TempDir(), "config.json"))
		themeFlag, saveFlag = "solarized", false
		if err := applySettings(cfg, changedSet("theme")); err == nil {
			t.Error("expected error for unknown theme")
		}
	})

	t.Run("applied without saving", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		cfg, _ := config.LoadFrom(path)
		themeFlag, notifyFlag, saveFlag = "nord", true, false
		if err := applySettings(cfg, changedSet("theme", "notify")); err != nil {
			t.Fatalf("applySettings() error = %v", err)
		}
		if cfg.GetTheme() != "nord" || !cfg.GetNotificationsEnabled() {
			t.Errorf("theme=%q notify=%v", cfg.GetTheme(), cfg.GetNotificationsEnabled())
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("config file written without --save")
		}
	})

	t.Run("saved", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		cfg, _ := config.LoadFrom(path)
		themeFlag, shellFlag, saveFlag = "dracula", "/bin/zsh", true
		if err := applySettings(cfg, changedSet("theme", "shell")); err != nil {
			t.Fatalf("applySettings() error = %v", err)
		}
		loaded, err := config.LoadFrom(path)
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		if loaded.GetTheme() != "dracula" || loaded.GetShell() != "/bin/zsh" {
			t.Errorf("loaded theme=%q shell=%q", loaded.GetTheme(), loaded.GetShell())
		}
	})
}

func TestVersionTemplate(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer SetVersionInfo(origV, origC, origD)

	SetVersionInfo("1.2.3", "none", "unknown")
	if got := versionTemplate(); got != "tabterm 1.2.3\n" {
		t.Errorf("versionTemplate() = %q", got)
	}

	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	if got := versionTemplate(); !strings.Contains(got, "commit: abc123") {
		t.Errorf("versionTemplate() = %q, want commit line", got)
	}
}

func TestPrintStatus(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printStatus(&buf, "/run/tabterm/alice.sock", &daemon.Status{
		ID:            "id-1",
		User:          "alice",
		PID:           42,
		Hostname:      "box",
		Started:       "2026-01-01T00:00:00Z",
		UptimeSeconds: 90,
	}, nil)
	out := buf.String()
	for _, want := range []string{"daemon running", "alice", "42", "box", "1m30s", "id-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printStatus(&buf, "/run/tabterm/alice.sock", nil, errors.New("refused"))
	if !strings.Contains(buf.String(), "daemon not running") {
		t.Errorf("output = %q, want not running", buf.String())
	}
}
