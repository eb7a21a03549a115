// Package host wires the editor session to the command registry scripts
// dispatch into, and implements the built-in host commands.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/neatscripts/neat/internal/editor"
)

// Level is a notification severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier shows a message to the user. It cannot fail.
type Notifier interface {
	Notify(level Level, message string)
}

// PickItem is one entry of a quick-pick list. In JSON it is either a plain
// string (the label) or {"label": ..., "description": ...}.
type PickItem struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts a bare string as a label.
func (p *PickItem) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err == nil {
		*p = PickItem{Label: label}
		return nil
	}
	type plain PickItem
	var item plain
	if err := json.Unmarshal(b, &item); err != nil {
		return fmt.Errorf("suggestion must be a string or {label, description}: %w", err)
	}
	if item.Label == "" {
		return errors.New("suggestion label is required")
	}
	*p = PickItem(item)
	return nil
}

// PickRequest describes a quick-pick prompt.
type PickRequest struct {
	Title    string
	Multiple bool
	Items    []PickItem
}

// Picker prompts the user to choose from a list. It blocks until the user
// confirms or cancels; a cancelled prompt returns no items and no error.
type Picker interface {
	Pick(ctx context.Context, req PickRequest) ([]PickItem, error)
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// Host is the command-execution facility scripts talk to.
type Host struct {
	Session   *editor.Session
	Notifier  Notifier
	Picker    Picker
	Clipboard Clipboard

	// ScriptStderr receives the standard error of scripts. Nil discards it.
	ScriptStderr io.Writer

	registry *Registry
}

// New returns a host with the built-in commands registered.
func New(session *editor.Session, notifier Notifier, picker Picker, clipboard Clipboard) *Host {
	h := &Host{
		Session:   session,
		Notifier:  notifier,
		Picker:    picker,
		Clipboard: clipboard,
		registry:  NewRegistry(),
	}
	h.registerBuiltins()
	return h
}

// Registry exposes the command registry so callers can add commands.
func (h *Host) Registry() *Registry { return h.registry }

// Execute dispatches a command by id.
func (h *Host) Execute(ctx context.Context, command string, args json.RawMessage) (any, error) {
	return h.registry.Execute(ctx, command, args)
}

// ErrReported marks a failure the user has already seen as a notification.
// Commands that report their own failures return it only when called
// directly; dispatched from a script they succeed so the script's runner
// does not report the failure again.
var ErrReported = errors.New("failure already reported")

type scriptKey struct{}

// withinScript marks ctx as belonging to a script's dispatch loop.
func withinScript(ctx context.Context) context.Context {
	return context.WithValue(ctx, scriptKey{}, true)
}

func fromScript(ctx context.Context) bool {
	v, _ := ctx.Value(scriptKey{}).(bool)
	return v
}

// reported maps an error already notified to the result a self-reporting
// command hands its caller.
func reported(ctx context.Context, err error) error {
	switch {
	case err == nil, fromScript(ctx):
		return nil
	case errors.Is(err, context.Canceled):
		return err
	}
	return ErrReported
}

// Notify shows a message, tolerating a host without a notifier.
func (h *Host) Notify(level Level, message string) {
	if h.Notifier != nil {
		h.Notifier.Notify(level, message)
	}
}

// decodeArgs unmarshals command args into v. Missing args decode as {}.
func decodeArgs(args json.RawMessage, v any) error {
	trimmed := strings.TrimSpace(string(args))
	if trimmed == "" || trimmed == "null" {
		trimmed = "{}"
	}
	if err := json.Unmarshal([]byte(trimmed), v); err != nil {
		return fmt.Errorf("invalid args: %w", err)
	}
	return nil
}
