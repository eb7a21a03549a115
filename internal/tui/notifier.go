// Package tui provides terminal implementations of the host's user-facing
// capabilities: notifications, quick-pick prompts, the clipboard and a
// read-only document viewer.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/neatscripts/neat/internal/app"
	"github.com/neatscripts/neat/internal/host"
)

// Notifier prints notifications as styled lines, typically to stderr.
type Notifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewNotifier returns a notifier writing to w.
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{out: w}
}

// Notify writes one line. Write errors are logged and dropped.
func (n *Notifier) Notify(level host.Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := fmt.Fprintln(n.out, formatNotice(level, message)); err != nil {
		slog.Debug("notification dropped", "level", level, "error", err)
	}
}

func formatNotice(level host.Level, message string) string {
	return levelStyle(level).Render(string(level)+":") + " " + message
}

func levelStyle(level host.Level) lipgloss.Style {
	switch level {
	case host.LevelError:
		return app.Styles.Error
	case host.LevelWarning:
		return app.Styles.Warning
	default:
		return app.Styles.Info
	}
}
