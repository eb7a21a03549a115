package host

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
)

type completionsArgs struct {
	Title       string     `json:"title"`
	Multiple    bool       `json:"multiple"`
	Suggestions []PickItem `json:"suggestions"`
}

// ErrNoPicker is returned when the host cannot prompt the user.
var ErrNoPicker = errors.New("quick-pick is not available")

// ShowCompletions prompts the user to pick from suggestions and replaces the
// active editor's primary selection with the chosen label(s), joined by
// ", ". Cancelling, choosing nothing, or having no active editor leaves the
// document untouched.
func (h *Host) ShowCompletions(ctx context.Context, title string, multiple bool, suggestions []PickItem) error {
	if h.Picker == nil {
		return ErrNoPicker
	}
	chosen, err := h.Picker.Pick(ctx, PickRequest{Title: title, Multiple: multiple, Items: suggestions})
	if err != nil {
		return err
	}
	if len(chosen) == 0 {
		slog.Debug("quick-pick cancelled")
		return nil
	}
	if !multiple {
		chosen = chosen[:1]
	}
	labels := make([]string, len(chosen))
	for i, item := range chosen {
		labels[i] = item.Label
	}
	edited, err := h.Session.ReplaceSelection(strings.Join(labels, ", "))
	if err != nil {
		return err
	}
	if !edited {
		slog.Debug("quick-pick result dropped: no active editor")
	}
	return nil
}

func (h *Host) completionsCommand(ctx context.Context, args json.RawMessage) (any, error) {
	var a completionsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return nil, h.ShowCompletions(ctx, a.Title, a.Multiple, a.Suggestions)
}
