package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Command ids handled by the host itself.
const (
	CommandRun                 = "run"
	CommandFilesOpen           = "files.open"
	CommandFilesSave           = "files.save"
	CommandNotificationInfo    = "notifications.info"
	CommandNotificationWarning = "notifications.warning"
	CommandNotificationError   = "notifications.error"
	CommandCompletionsShow     = "completions.show"
	CommandClipboardCopy       = "clipboard.copy"
	CommandInsertText          = "editor.insertText"
)

// CommandPrefix namespaces the built-in ids when they are registered in a
// shared editor command palette. Scripts may use either form.
const CommandPrefix = "neat-scripts."

func (h *Host) registerBuiltins() {
	r := h.registry
	r.Register(CommandRun, h.runCommand)
	r.Register(CommandFilesOpen, h.openCommand)
	r.Register(CommandFilesSave, h.saveCommand)
	r.Register(CommandNotificationInfo, h.notifyCommand(LevelInfo))
	r.Register(CommandNotificationWarning, h.notifyCommand(LevelWarning))
	r.Register(CommandNotificationError, h.notifyCommand(LevelError))
	r.Register(CommandCompletionsShow, h.completionsCommand)
	r.Register(CommandClipboardCopy, h.clipboardCommand)
	r.Register(CommandInsertText, h.insertTextCommand)

	for _, id := range r.IDs() {
		r.Alias(CommandPrefix+id, id)
	}
}

type messageArgs struct {
	Message string `json:"message"`
}

func (h *Host) notifyCommand(level Level) Handler {
	return func(_ context.Context, args json.RawMessage) (any, error) {
		var a messageArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		h.Notify(level, a.Message)
		return nil, nil
	}
}

type textArgs struct {
	Text *string `json:"text"`
}

func (a textArgs) value() (string, error) {
	if a.Text == nil {
		return "", errors.New("text is required")
	}
	return *a.Text, nil
}

func (h *Host) clipboardCommand(_ context.Context, args json.RawMessage) (any, error) {
	var a textArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	text, err := a.value()
	if err != nil {
		return nil, err
	}
	if h.Clipboard == nil {
		return nil, errors.New("no clipboard available")
	}
	if err := h.Clipboard.WriteText(text); err != nil {
		return nil, fmt.Errorf("writing clipboard: %w", err)
	}
	return nil, nil
}

func (h *Host) insertTextCommand(_ context.Context, args json.RawMessage) (any, error) {
	var a textArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	text, err := a.value()
	if err != nil {
		return nil, err
	}
	edited, err := h.Session.ReplaceSelection(text)
	if err != nil {
		return nil, err
	}
	if !edited {
		slog.Debug("insertText ignored: no active editor")
	}
	return nil, nil
}
