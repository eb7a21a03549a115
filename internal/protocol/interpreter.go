package protocol

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Executor runs a command by id. It is the host's command registry.
type Executor interface {
	Execute(ctx context.Context, command string, args json.RawMessage) (any, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, command string, args json.RawMessage) (any, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, command string, args json.RawMessage) (any, error) {
	return f(ctx, command, args)
}

// DispatchError reports a command the host failed to execute.
type DispatchError struct {
	Command string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Dispatch executes one descriptor and waits for it to finish.
func Dispatch(ctx context.Context, ex Executor, d Descriptor) error {
	slog.Debug("dispatching command", "command", d.Command, "args", string(d.Args))
	if _, err := ex.Execute(ctx, d.Command, d.Args); err != nil {
		var de *DispatchError
		if errors.As(err, &de) {
			return err
		}
		return &DispatchError{Command: d.Command, Err: err}
	}
	return nil
}

// Interpret reads descriptors from r one line at a time and dispatches each
// before reading the next. A final line without a trailing newline still
// counts. It stops at the first malformed line or failed dispatch; commands
// already dispatched stay in effect. It returns the number of commands
// dispatched successfully.
func Interpret(ctx context.Context, r io.Reader, ex Executor) (int, error) {
	br := bufio.NewReader(r)
	n := 0
	for {
		line, readErr := br.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return n, fmt.Errorf("reading script output: %w", readErr)
		}
		if len(line) > 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
			d, err := ParseDescriptor(trimEOL(line))
			if err != nil {
				return n, err
			}
			if err := Dispatch(ctx, ex, d); err != nil {
				return n, err
			}
			n++
		}
		if readErr == io.EOF {
			return n, nil
		}
	}
}

// RunBatch validates a whole-output batch, then dispatches it in order.
func RunBatch(ctx context.Context, data []byte, ex Executor) (int, error) {
	ds, err := ParseBatch(data)
	if err != nil {
		return 0, err
	}
	for i, d := range ds {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := Dispatch(ctx, ex, d); err != nil {
			return i, err
		}
	}
	return len(ds), nil
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}
