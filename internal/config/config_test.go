package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	pkgerrors "github.com/zhubert/tabterm/internal/errors"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.GetShell() != "" {
		t.Errorf("Shell = %q, want empty", cfg.GetShell())
	}
	if cfg.GetSocketDir() != DefaultSocketDir {
		t.Errorf("SocketDir = %q, want %q", cfg.GetSocketDir(), DefaultSocketDir)
	}
	if cfg.GetLogDir() != DefaultLogDir {
		t.Errorf("LogDir = %q, want %q", cfg.GetLogDir(), DefaultLogDir)
	}
	if cfg.GetNotificationsEnabled() {
		t.Error("notifications should be disabled by default")
	}
}

func TestLoadFrom_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"shell": "/bin/zsh", "theme": "nord", "notifications_enabled": true, "socket_dir": "/tmp/tt"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.GetShell() != "/bin/zsh" {
		t.Errorf("Shell = %q, want /bin/zsh", cfg.GetShell())
	}
	if cfg.GetTheme() != "nord" {
		t.Errorf("Theme = %q, want nord", cfg.GetTheme())
	}
	if !cfg.GetNotificationsEnabled() {
		t.Error("NotificationsEnabled should be true")
	}
	if cfg.GetSocketDir() != "/tmp/tt" {
		t.Errorf("SocketDir = %q, want /tmp/tt", cfg.GetSocketDir())
	}
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"shell": "/bin/zsh", "theme": "nord"}`), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TABTERM_SHELL", "/bin/sh")
	t.Setenv("TABTERM_NOTIFICATIONS_ENABLED", "true")
	t.Setenv("TABTERM_SOCKET_DIR", "/tmp/tt-sock")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.GetShell() != "/bin/sh" {
		t.Errorf("Shell = %q, want env override /bin/sh", cfg.GetShell())
	}
	if cfg.GetTheme() != "nord" {
		t.Errorf("Theme = %q, want file value nord", cfg.GetTheme())
	}
	if !cfg.GetNotificationsEnabled() {
		t.Error("TABTERM_NOTIFICATIONS_ENABLED=true should enable notifications")
	}
	if cfg.GetSocketDir() != "/tmp/tt-sock" {
		t.Errorf("SocketDir = %q, want env override /tmp/tt-sock", cfg.GetSocketDir())
	}
}

// Unprefixed variables belong to the login environment, not to tabterm.
// SHELL in particular names tabterm itself when it is the login shell.
func TestLoadFrom_IgnoresUnprefixedEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	for _, k := range []string{"TABTERM_SHELL", "TABTERM_THEME", "TABTERM_LOG_DIR"} {
		t.Setenv(k, "") // restored after the test
		os.Unsetenv(k)
	}
	t.Setenv("SHELL", "/usr/local/bin/tabterm")
	t.Setenv("THEME", "nord")
	t.Setenv("LOG_DIR", "/tmp/elsewhere")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.GetShell() != "" {
		t.Errorf("Shell = %q, want empty (SHELL must not be read)", cfg.GetShell())
	}
	if cfg.GetTheme() != "" {
		t.Errorf("Theme = %q, want empty", cfg.GetTheme())
	}
	if cfg.GetLogDir() != DefaultLogDir {
		t.Errorf("LogDir = %q, want %q", cfg.GetLogDir(), DefaultLogDir)
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !pkgerrors.Is(err, pkgerrors.KindConfig) {
		t.Errorf("error kind = %v, want KindConfig", pkgerrors.GetKind(err))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"empty", &Config{}, false},
		{"absolute shell", &Config{Shell: "/bin/bash"}, false},
		{"relative shell", &Config{Shell: "bash"}, true},
		{"relative socket dir", &Config{SocketDir: "run"}, true},
		{"relative log dir", &Config{LogDir: "logs"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !pkgerrors.Is(err, pkgerrors.KindInvalid) {
				t.Errorf("Validate() kind = %v, want KindInvalid", pkgerrors.GetKind(err))
			}
		})
	}
}

func TestSave_RoundTripsThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	cfg.SetShell("/bin/sh")
	cfg.SetTheme("dracula")
	cfg.SetNotificationsEnabled(true)

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() after save error = %v", err)
	}
	if loaded.GetShell() != "/bin/sh" || loaded.GetTheme() != "dracula" || !loaded.GetNotificationsEnabled() {
		t.Errorf("loaded = {%q %q %v}, want {/bin/sh dracula true}",
			loaded.GetShell(), loaded.GetTheme(), loaded.GetNotificationsEnabled())
	}
}

func TestConfig_ConcurrentAccess(t *testing.T) {
	cfg := &Config{}
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cfg.SetTheme("nord")
			cfg.SetNotificationsEnabled(true)
		}()
		go func() {
			defer wg.Done()
			_ = cfg.GetTheme()
			_ = cfg.GetNotificationsEnabled()
		}()
	}

	wg.Wait()
}
