// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/zhubert/tabterm/internal/logger"
)

var (
	mu       sync.Mutex
	notifyFn = beeep.Notify
)

// SetNotifier replaces the function used to deliver notifications.
func SetNotifier(fn func(title, message string, icon any) error) {
	mu.Lock()
	defer mu.Unlock()
	notifyFn = fn
}

// ResetNotifier restores beeep as the notifier.
func ResetNotifier() {
	SetNotifier(beeep.Notify)
}

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	mu.Lock()
	fn := notifyFn
	mu.Unlock()

	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title, "message", message)
	// Empty icon: beeep picks the platform default.
	err := fn(title, message, "")
	if err != nil {
		log.Warn("notification failed", "error", err)
	}
	return err
}

// SessionExited notifies that the shell in a background tab has exited.
func SessionExited(tabTitle string, exitCode int) error {
	msg := tabTitle + " exited"
	if exitCode > 0 {
		msg = fmt.Sprintf("%s exited with status %d", tabTitle, exitCode)
	}
	return Send("tabterm", msg)
}
