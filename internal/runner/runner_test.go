package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("process tests use /bin/sh")
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSpawnPipesStdinAndClosesIt(t *testing.T) {
	skipOnWindows(t)
	// cat only terminates once stdin is closed.
	script := writeScript(t, `cat; echo; echo done`)

	p, err := Spawn(context.Background(), Spec{Path: script, Stdin: []byte(`{"file":""}`)})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	out, err := io.ReadAll(p.Stdout)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if string(out) != "{\"file\":\"\"}\ndone\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestSpawnPassesArgsEnvAndDir(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	script := writeScript(t, `echo "$1 $2 $NEAT_TEST_VAR $(pwd)"`)

	p, err := Spawn(context.Background(), Spec{
		Path: script,
		Args: []string{"a", "b"},
		Env:  []string{"NEAT_TEST_VAR=x"},
		Dir:  dir,
	})
	if err != nil {
		t.Fatal(err)
	}
	out, _ := io.ReadAll(p.Stdout)
	_ = p.Wait()

	want, _ := filepath.EvalSymlinks(dir)
	got := strings.TrimSpace(string(out))
	if !strings.HasPrefix(got, "a b x ") || !strings.HasSuffix(got, filepath.Base(want)) {
		t.Errorf("stdout = %q", got)
	}
}

func TestSpawnLaunchError(t *testing.T) {
	_, err := Spawn(context.Background(), Spec{Path: filepath.Join(t.TempDir(), "nope")})
	var le *LaunchError
	if !errors.As(err, &le) {
		t.Fatalf("expected LaunchError, got %v", err)
	}
	if !strings.Contains(le.Error(), "nope") {
		t.Errorf("error should name the script: %v", le)
	}
}

func TestSpawnNotExecutable(t *testing.T) {
	skipOnWindows(t)
	path := filepath.Join(t.TempDir(), "plain.sh")
	if err := os.WriteFile(path, []byte("echo hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Spawn(context.Background(), Spec{Path: path})
	var le *LaunchError
	if !errors.As(err, &le) {
		t.Fatalf("expected LaunchError, got %v", err)
	}
}

func TestSpawnIgnoresUnreadStdin(t *testing.T) {
	skipOnWindows(t)
	script := writeScript(t, `echo ok`)
	big := []byte(strings.Repeat("x", 1<<20))

	p, err := Spawn(context.Background(), Spec{Path: script, Stdin: big})
	if err != nil {
		t.Fatal(err)
	}
	out, _ := io.ReadAll(p.Stdout)
	_ = p.Wait()
	if string(out) != "ok\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRun(t *testing.T) {
	skipOnWindows(t)

	out, err := Run(context.Background(), Spec{Path: writeScript(t, `cat`), Stdin: []byte("[]")})
	if err != nil || string(out) != "[]" {
		t.Fatalf("Run = %q, %v", out, err)
	}

	_, err = Run(context.Background(), Spec{Path: writeScript(t, `echo oops >&2`)})
	if err == nil || !strings.Contains(err.Error(), "oops") {
		t.Errorf("expected stderr failure, got %v", err)
	}

	_, err = Run(context.Background(), Spec{Path: writeScript(t, `exit 3`)})
	if err == nil {
		t.Error("expected failure for non-zero exit")
	}

	_, err = Run(context.Background(), Spec{Path: "/definitely/not/here"})
	var le *LaunchError
	if !errors.As(err, &le) {
		t.Errorf("expected LaunchError, got %v", err)
	}
}
