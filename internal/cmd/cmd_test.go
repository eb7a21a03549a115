package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/neatscripts/neat/internal/app"
	"github.com/neatscripts/neat/internal/editor"
	"github.com/neatscripts/neat/internal/execctx"
)

// execute runs the command tree and returns the resulting ExitResult. A nil
// error is reported as a zero ExitResult.
func execute(t *testing.T, args ...string) app.ExitResult {
	t.Helper()
	var out bytes.Buffer
	root := NewRoot()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return app.ExitResult{Message: out.String()}
	}
	var er app.ExitResult
	if !errors.As(err, &er) {
		t.Fatalf("neat %s: unexpected error type %T: %v", strings.Join(args, " "), err, err)
	}
	return er
}

// workspace creates an initialized workspace and returns its root and session path.
func workspace(t *testing.T) (string, string) {
	t.Helper()
	t.Setenv(app.EnvSession, "")
	dir := t.TempDir()
	if er := execute(t, "init", dir, "-F", "quiet"); er.Code != 0 {
		t.Fatalf("init: %+v", er)
	}
	return dir, app.DefaultSessionPath(dir)
}

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
}

func TestRootHelp(t *testing.T) {
	er := execute(t, "--help")
	for _, want := range []string{"neat", "run scripts", "editor state", "Usage:"} {
		if !strings.Contains(er.Message, want) {
			t.Errorf("help missing %q\n%s", want, er.Message)
		}
	}
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	if er := execute(t, "info", "--bogus"); er.Code != 2 {
		t.Errorf("got %+v", er)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if er := execute(t, "info", "--log-level", "loud"); er.Code != 2 {
		t.Errorf("got %+v", er)
	}
}

func TestInfo(t *testing.T) {
	er := execute(t, "info", "-F", "json")
	var info app.SoftwareInfo
	if err := json.Unmarshal([]byte(er.Message), &info); err != nil {
		t.Fatalf("info output %q: %v", er.Message, err)
	}
	if info.Name != "neat" || info.Version != app.Version {
		t.Errorf("info = %+v", info)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	er := execute(t, "init", dir, "-F", "json")
	var res app.InitResult
	if err := json.Unmarshal([]byte(er.Message), &res); err != nil {
		t.Fatalf("init output %q: %v", er.Message, err)
	}
	s, err := editor.LoadSession(res.SessionPath)
	if err != nil {
		t.Fatal(err)
	}
	if s.WorkspaceRoot() != dir {
		t.Errorf("workspace = %q", s.WorkspaceRoot())
	}
	if er := execute(t, "init", dir); er.Code != 1 {
		t.Errorf("second init = %+v", er)
	}
}

func TestNoSession(t *testing.T) {
	t.Setenv(app.EnvSession, "")
	er := execute(t, "context", "--session", filepath.Join(t.TempDir(), "missing.json"))
	if er.Code != 1 || !strings.Contains(er.Message, "reading session") {
		t.Errorf("got %+v", er)
	}
}

func TestFocusShowAndContext(t *testing.T) {
	dir, session := workspace(t)
	file := filepath.Join(dir, "main.go")
	writeFile(t, file, "package main\n\nfunc main() {}\n", 0o644)

	if er := execute(t, "--session", session, "editor", "focus", file, "--select", "3:6-3:10", "--select", "1:1"); er.Code != 0 {
		t.Fatalf("focus: %+v", er)
	}

	er := execute(t, "--session", session, "editor", "show", "-F", "json")
	var state editorState
	if err := json.Unmarshal([]byte(er.Message), &state); err != nil {
		t.Fatalf("show output %q: %v", er.Message, err)
	}
	if state.Active != file || len(state.Selections) != 2 || state.Selections[0] != "3:6-3:10" || state.Selections[1] != "1:1" {
		t.Errorf("state = %+v", state)
	}

	er = execute(t, "--session", session, "context")
	var ctx execctx.ExecutionContext
	if err := json.Unmarshal([]byte(er.Message), &ctx); err != nil {
		t.Fatalf("context output %q: %v", er.Message, err)
	}
	want := execctx.Selection{Start: execctx.Position{Line: 3, Column: 6}, End: execctx.Position{Line: 3, Column: 10}}
	if ctx.WorkspacePath != dir || ctx.File != file || ctx.Selections[0] != want {
		t.Errorf("context = %+v", ctx)
	}

	if er := execute(t, "--session", session, "editor", "close"); er.Code != 0 {
		t.Fatalf("close: %+v", er)
	}
	er = execute(t, "--session", session, "context")
	if !strings.Contains(er.Message, `"selections": []`) || !strings.Contains(er.Message, `"file": ""`) {
		t.Errorf("context after close = %s", er.Message)
	}
}

func TestFocusRejectsBadSelection(t *testing.T) {
	_, session := workspace(t)
	if er := execute(t, "--session", session, "editor", "focus", "x", "--select", "0:1"); er.Code != 2 {
		t.Errorf("got %+v", er)
	}
}

func TestFilesOpenMissing(t *testing.T) {
	_, session := workspace(t)
	if er := execute(t, "--session", session, "files", "open", "/does/not/exist"); er.Code != 1 || er.Message != "" {
		t.Errorf("got %+v", er)
	}
	s, err := editor.LoadSession(session)
	if err != nil {
		t.Fatal(err)
	}
	if s.Active != nil || len(s.Documents) != 0 {
		t.Errorf("session changed: %+v", s)
	}
}

func TestExecInsertTextAndSave(t *testing.T) {
	dir, session := workspace(t)
	file := filepath.Join(dir, "a.txt")
	writeFile(t, file, "world", 0o644)

	if er := execute(t, "--session", session, "files", "open", file); er.Code != 0 {
		t.Fatalf("open: %+v", er)
	}
	if er := execute(t, "--session", session, "exec", "editor.insertText", `{"text":"hello "}`); er.Code != 0 {
		t.Fatalf("insert: %+v", er)
	}
	if got, _ := os.ReadFile(file); string(got) != "world" {
		t.Errorf("file written before save: %q", got)
	}
	if er := execute(t, "--session", session, "files", "save"); er.Code != 0 {
		t.Fatalf("save: %+v", er)
	}
	if got, _ := os.ReadFile(file); string(got) != "hello world" {
		t.Errorf("file = %q", got)
	}
}

func TestExecErrors(t *testing.T) {
	_, session := workspace(t)
	if er := execute(t, "--session", session, "exec", "files.save", "{nope"); er.Code != 2 {
		t.Errorf("invalid json: %+v", er)
	}
	er := execute(t, "--session", session, "exec", "notifications.inf")
	if er.Code != 1 || !strings.Contains(er.Message, "did you mean") {
		t.Errorf("unknown command: %+v", er)
	}
	if er := execute(t, "--session", session, "exec", "run", `{"script":"./missing"}`); er.Code != 1 || er.Message != "" {
		t.Errorf("run of a missing script: %+v", er)
	}
	if er := execute(t, "--session", session, "exec", "files.open", `{"path":"/does/not/exist"}`); er.Code != 1 || er.Message != "" {
		t.Errorf("open of a missing file: %+v", er)
	}
}

func TestExecList(t *testing.T) {
	er := execute(t, "exec", "--list", "-F", "json")
	var ids []string
	if err := json.Unmarshal([]byte(er.Message), &ids); err != nil {
		t.Fatalf("list output %q: %v", er.Message, err)
	}
	if len(ids) < 9 || ids[0] != "clipboard.copy" {
		t.Errorf("ids = %v", ids)
	}
}

func TestRunScriptEditsAreKept(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("script tests use /bin/sh")
	}
	dir, session := workspace(t)
	file := filepath.Join(dir, "a.txt")
	writeFile(t, file, "x", 0o644)
	writeFile(t, filepath.Join(dir, "edit.sh"), "#!/bin/sh\n"+
		`echo '{"command":"editor.insertText","args":{"text":"y"}}'`+"\n"+
		`echo 'oops'`+"\n", 0o755)

	if er := execute(t, "--session", session, "files", "open", file); er.Code != 0 {
		t.Fatalf("open: %+v", er)
	}
	if er := execute(t, "--session", session, "run", "./edit.sh", "--not-a-neat-flag"); er.Code != 1 {
		t.Fatalf("run should fail on the malformed line: %+v", er)
	}
	s, err := editor.LoadSession(session)
	if err != nil {
		t.Fatal(err)
	}
	_, doc, err := s.ActiveDocument()
	if err != nil || doc == nil {
		t.Fatalf("active document: %v", err)
	}
	if doc.Text != "yx" || !doc.Dirty {
		t.Errorf("document = %+v", doc)
	}
}

func TestScriptRewriteIsNotOverwritten(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("script tests use /bin/sh")
	}
	dir, session := workspace(t)
	file := filepath.Join(dir, "a.txt")
	writeFile(t, file, "x", 0o644)
	writeFile(t, filepath.Join(dir, "fmt.sh"), "#!/bin/sh\nprintf formatted > a.txt\n", 0o755)

	if er := execute(t, "--session", session, "files", "open", file); er.Code != 0 {
		t.Fatalf("open: %+v", er)
	}
	if er := execute(t, "--session", session, "run", "./fmt.sh"); er.Code != 0 {
		t.Fatalf("run: %+v", er)
	}
	if er := execute(t, "--session", session, "exec", "editor.insertText", `{"text":"Z"}`); er.Code != 0 {
		t.Fatalf("insert: %+v", er)
	}
	if er := execute(t, "--session", session, "files", "save"); er.Code != 0 {
		t.Fatalf("save: %+v", er)
	}
	if got, _ := os.ReadFile(file); string(got) != "Zformatted" {
		t.Errorf("file = %q", got)
	}

	// Unsaved edits over a file rewritten since must not be saved.
	if er := execute(t, "--session", session, "exec", "editor.insertText", `{"text":"Y"}`); er.Code != 0 {
		t.Fatalf("insert: %+v", er)
	}
	writeFile(t, file, "external", 0o644)
	er := execute(t, "--session", session, "files", "save")
	if er.Code != 1 || !strings.Contains(er.Message, "changed on disk") {
		t.Errorf("save over a changed file: %+v", er)
	}
	if got, _ := os.ReadFile(file); string(got) != "external" {
		t.Errorf("file = %q", got)
	}
}

func TestBindings(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("script tests use /bin/sh")
	}
	dir, session := workspace(t)
	writeFile(t, filepath.Join(dir, "touch.sh"), "#!/bin/sh\necho \"$MARK\" > marker\n", 0o755)
	writeFile(t, app.BindingsPathForSession(session), `version: 1.0.0
bindings:
  - name: mark
    script: ./touch.sh
    env: {MARK: hit}
  - name: mark-file
    script: ./touch.sh
    when: 'file != ""'
`, 0o644)

	er := execute(t, "--session", session, "bindings", "list", "-F", "json")
	if !strings.Contains(er.Message, `"name": "mark-file"`) {
		t.Errorf("list = %s", er.Message)
	}

	er = execute(t, "--session", session, "bindings", "run", "mark-file")
	if er.Code != 1 || !strings.Contains(er.Message, "does not apply") {
		t.Errorf("mark-file = %+v", er)
	}
	if er := execute(t, "--session", session, "bindings", "run", "nope"); er.Code != 1 {
		t.Errorf("unknown binding = %+v", er)
	}

	if er := execute(t, "--session", session, "bindings", "run", "mark"); er.Code != 0 {
		t.Fatalf("mark = %+v", er)
	}
	got, err := os.ReadFile(filepath.Join(dir, "marker"))
	if err != nil || strings.TrimSpace(string(got)) != "hit" {
		t.Errorf("marker = %q, %v", got, err)
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in   string
		want editor.Range
		ok   bool
	}{
		{"1:1", editor.Range{}, true},
		{"3", editor.Cursor(editor.Point{Line: 2}), true},
		{"2:5-4:1", editor.Range{Start: editor.Point{Line: 1, Character: 4}, End: editor.Point{Line: 3}}, true},
		{"0:1", editor.Range{}, false},
		{"a:b", editor.Range{}, false},
		{"1:1-", editor.Range{}, false},
	}
	for _, tt := range tests {
		got, err := parseSelection(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("parseSelection(%q) err = %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("parseSelection(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestSuggestionsFromArgs(t *testing.T) {
	items, err := suggestionsFromArgs([]string{"a", "b"}, false)
	if err != nil || len(items) != 2 || items[1].Label != "b" {
		t.Errorf("plain = %+v, %v", items, err)
	}
	items, err = suggestionsFromArgs([]string{`["a",{"label":"b","description":"B"}]`}, true)
	if err != nil || len(items) != 2 || items[1].Description != "B" {
		t.Errorf("json = %+v, %v", items, err)
	}
	if _, err := suggestionsFromArgs([]string{"a", "b"}, true); err == nil {
		t.Error("expected error for two json args")
	}
}
