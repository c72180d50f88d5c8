package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zhubert/tabterm/internal/config"
	"github.com/zhubert/tabterm/internal/daemon"
)

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
	bold  = color.New(color.Bold)
	dim   = color.New(color.Faint)
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the session daemon is running",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	socketPath := daemon.SocketPath(cfg.GetSocketDir(), currentUser())
	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
	defer cancel()

	st, err := daemon.Query(ctx, socketPath)
	printStatus(cmd.OutOrStdout(), socketPath, st, err)
	return err
}

func printStatus(w io.Writer, socketPath string, st *daemon.Status, err error) {
	if err != nil {
		red.Fprintf(w, "✗ daemon not running")
		dim.Fprintf(w, " (%s)\n", socketPath)
		return
	}

	green.Fprint(w, "● daemon running")
	dim.Fprintf(w, " (%s)\n", socketPath)
	fields := []struct{ name, value string }{
		{"user", st.User},
		{"pid", fmt.Sprint(st.PID)},
		{"host", st.Hostname},
		{"started", st.Started},
		{"uptime", (time.Duration(st.UptimeSeconds) * time.Second).String()},
		{"id", st.ID},
	}
	for _, f := range fields {
		bold.Fprintf(w, "  %-8s", f.name)
		fmt.Fprintln(w, f.value)
	}
}
