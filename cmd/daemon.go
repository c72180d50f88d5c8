package cmd

import (
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zhubert/tabterm/internal/config"
	"github.com/zhubert/tabterm/internal/daemon"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the per-user session daemon",
	Long: `Runs a small health daemon for the current user, normally under a service
manager. It answers "status" requests on <socket_dir>/<user>.sock and stops on
SIGTERM or SIGINT.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

// currentUser returns the login name, falling back to $USER.
func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	d := daemon.New(daemon.Options{
		SocketDir: cfg.GetSocketDir(),
		LogDir:    cfg.GetLogDir(),
		User:      currentUser(),
		Stderr:    cmd.ErrOrStderr(),
	})
	defer d.Close()

	return d.Run(ctx)
}
