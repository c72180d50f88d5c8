package app

import (
	"github.com/zhubert/tabterm/internal/config"
	"github.com/zhubert/tabterm/internal/notification"
	"github.com/zhubert/tabterm/internal/shell"
	"github.com/zhubert/tabterm/internal/tabs"
)

// Options configures the app model.
type Options struct {
	Config  *config.Config
	Version string

	// Shell started in every new tab. Defaults to shell.Detect().
	Shell string

	// Spawner starts sessions. Defaults to real PTY sessions.
	Spawner tabs.Spawner

	// Notify announces a background tab's exit. Defaults to a desktop
	// notification.
	Notify func(title string, exitCode int) error
}

func (o Options) withDefaults() Options {
	if o.Config == nil {
		o.Config = &config.Config{}
	}
	if o.Shell == "" {
		o.Shell = shell.Detect()
	}
	if o.Spawner == nil {
		o.Spawner = tabs.PTYSpawner{}
	}
	if o.Notify == nil {
		o.Notify = notification.SessionExited
	}
	return o
}
