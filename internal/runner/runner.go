// Package runner spawns script processes and wires their standard streams.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// LaunchError reports a script that could not be started: not found, not
// executable, or rejected by the OS.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Spec describes one script invocation.
type Spec struct {
	Path  string
	Args  []string
	Stdin []byte

	// Env is appended to the current environment.
	Env []string
	// Dir is the working directory; empty inherits ours.
	Dir string
	// Stderr receives the script's standard error. Nil discards it.
	Stderr io.Writer
}

func (s Spec) command(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, s.Path, s.Args...)
	cmd.Dir = s.Dir
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}
	cmd.Stderr = s.Stderr
	return cmd
}

// Process is a running script.
type Process struct {
	// Stdout is the script's standard output. Read it to EOF, then Wait.
	Stdout io.ReadCloser

	cmd   *exec.Cmd
	stdin chan error
}

// Spawn starts the script, writes Stdin to it and closes its input. The
// write happens in the background so a script that never reads stdin cannot
// block the caller.
func Spawn(ctx context.Context, spec Spec) (*Process, error) {
	cmd := spec.command(ctx)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &LaunchError{Path: spec.Path, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &LaunchError{Path: spec.Path, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Path: spec.Path, Err: err}
	}
	slog.Debug("script started", "path", spec.Path, "args", spec.Args, "pid", cmd.Process.Pid)

	p := &Process{Stdout: stdout, cmd: cmd, stdin: make(chan error, 1)}
	go func() {
		_, werr := stdin.Write(spec.Stdin)
		cerr := stdin.Close()
		p.stdin <- errors.Join(werr, cerr)
	}()
	return p, nil
}

// Wait waits for the script to exit. The exit status is returned as an
// *exec.ExitError for callers that care; the line protocol does not.
func (p *Process) Wait() error {
	err := p.cmd.Wait()
	if werr := <-p.stdin; werr != nil {
		slog.Debug("script stdin write", "path", p.cmd.Path, "error", werr)
	}
	slog.Debug("script exited", "path", p.cmd.Path, "state", p.cmd.ProcessState.String())
	return err
}

// Run is the whole-output variant: it waits for the script to exit and
// returns everything it wrote to stdout. A non-zero exit or any output on
// stderr fails the run.
func Run(ctx context.Context, spec Spec) ([]byte, error) {
	var stderr bytes.Buffer
	if spec.Stderr != nil {
		spec.Stderr = io.MultiWriter(&stderr, spec.Stderr)
	} else {
		spec.Stderr = &stderr
	}
	cmd := spec.command(ctx)
	cmd.Stdin = bytes.NewReader(spec.Stdin)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Path: spec.Path, Err: err}
	}
	err := cmd.Wait()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return nil, fmt.Errorf("script wrote to stderr: %s", msg)
	}
	return stdout.Bytes(), nil
}
