package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/neatscripts/neat/internal/editor"
)

type openArgs struct {
	Path string `json:"path"`
}

// OpenFile opens path and makes it the active editor. On failure the user
// gets one error notification naming the path and the error is returned.
func (h *Host) OpenFile(path string) (*editor.Document, error) {
	var (
		doc *editor.Document
		err error
	)
	if path == "" {
		err = errors.New("path is required")
	} else {
		doc, err = h.Session.Open(path)
	}
	if err != nil {
		var oe *editor.OpenError
		if errors.As(err, &oe) {
			err = oe.Err
		}
		h.Notify(LevelError, fmt.Sprintf("Could not open file at '%s': %v", path, err))
		return nil, err
	}
	return doc, nil
}

// openCommand reports failures itself and never fails a script's dispatch.
// Called directly it returns ErrReported.
func (h *Host) openCommand(ctx context.Context, args json.RawMessage) (any, error) {
	var a openArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	_, err := h.OpenFile(a.Path)
	return nil, reported(ctx, err)
}

func (h *Host) saveCommand(_ context.Context, _ json.RawMessage) (any, error) {
	_, err := h.Session.SaveActive()
	return nil, err
}
