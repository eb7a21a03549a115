package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neatscripts/neat/internal/app"
	"github.com/neatscripts/neat/internal/execctx"
	"github.com/neatscripts/neat/internal/execref"
	"github.com/neatscripts/neat/internal/protocol"
	"github.com/neatscripts/neat/internal/runner"
)

// ScriptRequest is one script invocation.
type ScriptRequest struct {
	// Script is a command line: the executable path, optionally followed by
	// arguments. Relative paths resolve against the workspace root.
	Script string `json:"script"`
	// Args are appended after any arguments inside Script.
	Args []string `json:"args,omitempty"`
	// Env entries (KEY=VALUE) are added to the script's environment.
	Env []string `json:"-"`
	// Protocol is app.ProtocolLines (default) or app.ProtocolBatch.
	Protocol string `json:"-"`
}

// RunScript saves the active document, snapshots the execution context,
// starts the script and dispatches the commands it prints. It returns when
// the script's output is exhausted or at the first error.
func (h *Host) RunScript(ctx context.Context, req ScriptRequest) error {
	name, args, err := execref.Command(req.Script, req.Args...)
	if err != nil {
		return err
	}

	if _, err := h.Session.SaveActive(); err != nil {
		return fmt.Errorf("saving active document: %w", err)
	}
	payload, err := execctx.Build(h.Session).Marshal()
	if err != nil {
		return fmt.Errorf("encoding context: %w", err)
	}

	spec := runner.Spec{
		Path:   name,
		Args:   args,
		Stdin:  payload,
		Env:    req.Env,
		Dir:    h.Session.WorkspaceRoot(),
		Stderr: h.ScriptStderr,
	}
	log := slog.With("script", req.Script)
	ctx = withinScript(ctx)

	switch req.Protocol {
	case "", app.ProtocolLines:
	case app.ProtocolBatch:
		out, err := runner.Run(ctx, spec)
		if err != nil {
			return err
		}
		n, err := protocol.RunBatch(ctx, out, h)
		log.Debug("batch finished", "dispatched", n, "error", err)
		return err
	default:
		return fmt.Errorf("unknown protocol %q", req.Protocol)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	proc, err := runner.Spawn(ctx, spec)
	if err != nil {
		return err
	}
	n, err := protocol.Interpret(ctx, proc.Stdout, h)
	if err != nil {
		// Stop a script we are no longer listening to.
		cancel()
	}
	werr := proc.Wait()
	log.Debug("script finished", "dispatched", n, "error", err, "exit", werr)
	return err
}

// Run is RunScript with the error reported to the user as a single
// notification. The error is still returned for exit codes.
func (h *Host) Run(ctx context.Context, req ScriptRequest) error {
	err := h.RunScript(ctx, req)
	if err != nil && !errors.Is(err, context.Canceled) {
		h.Notify(LevelError, fmt.Sprintf("Could not run script %s: %v", req.Script, err))
	}
	return err
}

// runCommand reports failures itself so an outer script does not report
// them a second time. Called directly it returns ErrReported.
func (h *Host) runCommand(ctx context.Context, args json.RawMessage) (any, error) {
	var req ScriptRequest
	if err := decodeArgs(args, &req); err != nil {
		return nil, err
	}
	if req.Script == "" {
		return nil, errors.New("script is required")
	}
	return nil, reported(ctx, h.Run(ctx, req))
}
