package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neatscripts/neat/internal/app"
	"github.com/neatscripts/neat/internal/editor"
	"github.com/neatscripts/neat/internal/host"
	"github.com/neatscripts/neat/internal/tui"
)

// getOutputFlags returns the global --format and -o/--output (path) from the root command.
// -o/--output = output path (file to write). --format/-F = output format (json|yaml|text|quiet).
func getOutputFlags(c *cobra.Command) (format string, outputPath string) {
	format, _ = c.Root().PersistentFlags().GetString("format")
	outputPath, _ = c.Root().PersistentFlags().GetString("output")
	return format, outputPath
}

// sessionPath resolves the session file from --session, $NEAT_SESSION or the
// working directory.
func sessionPath(c *cobra.Command) (string, error) {
	flag, _ := c.Root().PersistentFlags().GetString("session")
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	path, err := app.FindSessionPath(flag, cwd)
	if err != nil {
		return "", app.Failure(err.Error())
	}
	return path, nil
}

// loadSession reads the session the command operates on.
func loadSession(c *cobra.Command) (*editor.Session, error) {
	path, err := sessionPath(c)
	if err != nil {
		return nil, err
	}
	s, err := editor.LoadSession(path)
	if err != nil {
		return nil, app.Failure(err.Error())
	}
	slog.Debug("session loaded", "path", path, "documents", len(s.Documents))
	return s, nil
}

// newHost wires a session to the terminal notifier, picker and clipboard.
func newHost(s *editor.Session) *host.Host {
	return host.New(s, tui.NewNotifier(os.Stderr), tui.Picker{}, tui.SystemClipboard{})
}

// withHost loads the session, runs fn and persists the session afterwards,
// even when fn fails: edits made before a failure stay in effect.
func withHost(c *cobra.Command, fn func(h *host.Host) error) error {
	s, err := loadSession(c)
	if err != nil {
		return err
	}
	h := newHost(s)
	runErr := fn(h)
	if err := s.Persist(); err != nil {
		return errors.Join(runErr, app.Failure(fmt.Sprintf("saving session: %v", err)))
	}
	return runErr
}

// reported converts an error the user has already seen as a notification
// into a quiet non-zero exit.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return app.Silent(1)
}

// asExit passes ExitResults through and turns other errors into failures.
func asExit(err error) error {
	var er app.ExitResult
	if err == nil || errors.As(err, &er) {
		return err
	}
	return app.Failure(err.Error())
}

// parsePoint parses a 1-based "LINE:COL" into a 0-based point.
func parsePoint(s string) (editor.Point, error) {
	lineStr, colStr, ok := strings.Cut(s, ":")
	if !ok {
		colStr = "1"
	}
	line, err := strconv.Atoi(strings.TrimSpace(lineStr))
	if err != nil || line < 1 {
		return editor.Point{}, fmt.Errorf("invalid line in %q", s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colStr))
	if err != nil || col < 1 {
		return editor.Point{}, fmt.Errorf("invalid column in %q", s)
	}
	return editor.Point{Line: line - 1, Character: col - 1}, nil
}

// parseSelection parses "L:C" (a cursor) or "L:C-L:C" (a range), 1-based.
func parseSelection(s string) (editor.Range, error) {
	startStr, endStr, isRange := strings.Cut(s, "-")
	start, err := parsePoint(startStr)
	if err != nil {
		return editor.Range{}, err
	}
	if !isRange {
		return editor.Cursor(start), nil
	}
	end, err := parsePoint(endStr)
	if err != nil {
		return editor.Range{}, err
	}
	return editor.Range{Start: start, End: end}, nil
}
