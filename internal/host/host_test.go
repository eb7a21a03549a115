package host

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neatscripts/neat/internal/editor"
)

type notice struct {
	level   Level
	message string
}

type fakeNotifier struct {
	notices []notice
}

func (n *fakeNotifier) Notify(level Level, message string) {
	n.notices = append(n.notices, notice{level, message})
}

type fakePicker struct {
	requests []PickRequest
	choose   func(PickRequest) []PickItem
}

func (p *fakePicker) Pick(_ context.Context, req PickRequest) ([]PickItem, error) {
	p.requests = append(p.requests, req)
	if p.choose == nil {
		return nil, nil
	}
	return p.choose(req), nil
}

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) WriteText(text string) error {
	c.text = text
	return nil
}

type testHost struct {
	*Host
	dir       string
	notifier  *fakeNotifier
	picker    *fakePicker
	clipboard *fakeClipboard
}

func newTestHost(t *testing.T) *testHost {
	t.Helper()
	dir := t.TempDir()
	n, p, c := &fakeNotifier{}, &fakePicker{}, &fakeClipboard{}
	session := editor.NewSession(filepath.Join(dir, ".neat", "session.json"), dir)
	return &testHost{Host: New(session, n, p, c), dir: dir, notifier: n, picker: p, clipboard: c}
}

func (th *testHost) file(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(th.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func (th *testHost) exec(t *testing.T, id string, args string) error {
	t.Helper()
	var raw json.RawMessage
	if args != "" {
		raw = json.RawMessage(args)
	}
	_, err := th.Execute(context.Background(), id, raw)
	return err
}

func (th *testHost) activeText(t *testing.T) string {
	t.Helper()
	_, doc, err := th.Session.ActiveDocument()
	if err != nil || doc == nil {
		t.Fatalf("no active document: %v", err)
	}
	return doc.Text
}

func pickLabels(labels ...string) func(PickRequest) []PickItem {
	return func(req PickRequest) []PickItem {
		var out []PickItem
		for _, it := range req.Items {
			for _, l := range labels {
				if it.Label == l {
					out = append(out, it)
				}
			}
		}
		return out
	}
}

func TestCompletionsSingleInsertsAtCursor(t *testing.T) {
	th := newTestHost(t)
	file := th.file(t, "a.txt", "let x = ;")
	if _, err := th.Session.Focus(file, editor.Cursor(editor.Point{Line: 0, Character: 8})); err != nil {
		t.Fatal(err)
	}
	th.picker.choose = pickLabels("b")

	if err := th.exec(t, CommandCompletionsShow, `{"suggestions":["a","b"],"multiple":false}`); err != nil {
		t.Fatal(err)
	}
	if got := th.activeText(t); got != "let x = b;" {
		t.Errorf("text = %q", got)
	}
	req := th.picker.requests[0]
	if req.Multiple || len(req.Items) != 2 || req.Items[1].Label != "b" {
		t.Errorf("unexpected pick request %+v", req)
	}
}

func TestCompletionsMultipleJoinsLabels(t *testing.T) {
	th := newTestHost(t)
	file := th.file(t, "a.txt", "[XX]")
	if _, err := th.Session.Focus(file, editor.Range{Start: editor.Point{Character: 1}, End: editor.Point{Character: 3}}); err != nil {
		t.Fatal(err)
	}
	th.picker.choose = pickLabels("a", "b")

	args := `{"title":"Pick","multiple":true,"suggestions":[{"label":"a","description":"first"},{"label":"b"}]}`
	if err := th.exec(t, CommandCompletionsShow, args); err != nil {
		t.Fatal(err)
	}
	if got := th.activeText(t); got != "[a, b]" {
		t.Errorf("text = %q", got)
	}
	req := th.picker.requests[0]
	if req.Title != "Pick" || !req.Multiple || req.Items[0].Description != "first" {
		t.Errorf("unexpected pick request %+v", req)
	}
}

func TestCompletionsCancelledMakesNoEdit(t *testing.T) {
	th := newTestHost(t)
	file := th.file(t, "a.txt", "abc")
	if _, err := th.Session.Focus(file); err != nil {
		t.Fatal(err)
	}

	if err := th.exec(t, CommandCompletionsShow, `{"suggestions":["a"]}`); err != nil {
		t.Fatal(err)
	}
	_, doc, _ := th.Session.ActiveDocument()
	if doc.Text != "abc" || doc.Dirty {
		t.Errorf("document changed: %+v", doc)
	}
}

func TestCompletionsWithoutEditor(t *testing.T) {
	th := newTestHost(t)
	th.picker.choose = pickLabels("a")
	if err := th.exec(t, CommandCompletionsShow, `{"suggestions":["a"]}`); err != nil {
		t.Fatal(err)
	}
	if len(th.Session.Documents) != 0 {
		t.Errorf("no document should be touched")
	}
}

func TestCompletionsRejectsBadSuggestions(t *testing.T) {
	th := newTestHost(t)
	if err := th.exec(t, CommandCompletionsShow, `{"suggestions":[1]}`); err == nil {
		t.Error("expected error for numeric suggestion")
	}
	if err := th.exec(t, CommandCompletionsShow, `{"suggestions":[{"description":"x"}]}`); err == nil {
		t.Error("expected error for missing label")
	}
}

func TestFilesOpenMissingNotifiesOnce(t *testing.T) {
	th := newTestHost(t)
	if err := th.exec(t, CommandFilesOpen, `{"path":"/does/not/exist"}`); !errors.Is(err, ErrReported) {
		t.Fatalf("err = %v, want ErrReported", err)
	}
	if len(th.notifier.notices) != 1 {
		t.Fatalf("notices = %+v", th.notifier.notices)
	}
	n := th.notifier.notices[0]
	if n.level != LevelError || !strings.Contains(n.message, "/does/not/exist") {
		t.Errorf("notice = %+v", n)
	}
	if th.Session.Active != nil || len(th.Session.Documents) != 0 {
		t.Error("no document should be opened")
	}
}

func TestFilesOpenFocusesDocument(t *testing.T) {
	th := newTestHost(t)
	file := th.file(t, "b.txt", "hello")
	if err := th.exec(t, CommandFilesOpen, `{"path":"`+file+`"}`); err != nil {
		t.Fatal(err)
	}
	if th.Session.Active == nil || th.Session.Active.Path != file {
		t.Fatalf("active = %+v", th.Session.Active)
	}
	if len(th.notifier.notices) != 0 {
		t.Errorf("unexpected notices %+v", th.notifier.notices)
	}
}

func TestFilesSave(t *testing.T) {
	th := newTestHost(t)
	file := th.file(t, "c.txt", "x")
	if _, err := th.Session.Focus(file); err != nil {
		t.Fatal(err)
	}
	if err := th.exec(t, CommandInsertText, `{"text":"y"}`); err != nil {
		t.Fatal(err)
	}
	if err := th.exec(t, CommandFilesSave, ""); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(file)
	if string(got) != "yx" {
		t.Errorf("file = %q", got)
	}
}

func TestNotifications(t *testing.T) {
	th := newTestHost(t)
	for id, level := range map[string]Level{
		CommandNotificationInfo:    LevelInfo,
		CommandNotificationWarning: LevelWarning,
		CommandNotificationError:   LevelError,
	} {
		th.notifier.notices = nil
		if err := th.exec(t, id, `{"message":"hi"}`); err != nil {
			t.Fatal(err)
		}
		if len(th.notifier.notices) != 1 || th.notifier.notices[0] != (notice{level, "hi"}) {
			t.Errorf("%s: notices = %+v", id, th.notifier.notices)
		}
	}
}

func TestClipboardCopy(t *testing.T) {
	th := newTestHost(t)
	if err := th.exec(t, CommandClipboardCopy, `{"text":"copied"}`); err != nil {
		t.Fatal(err)
	}
	if th.clipboard.text != "copied" {
		t.Errorf("clipboard = %q", th.clipboard.text)
	}
	if err := th.exec(t, CommandClipboardCopy, `{}`); err == nil {
		t.Error("expected error without text")
	}
}

func TestUnknownCommandSuggests(t *testing.T) {
	th := newTestHost(t)
	err := th.exec(t, "files.opn", "")
	var uc *UnknownCommandError
	if !errors.As(err, &uc) {
		t.Fatalf("expected UnknownCommandError, got %v", err)
	}
	if len(uc.Suggestions) == 0 || uc.Suggestions[0] != CommandFilesOpen {
		t.Errorf("suggestions = %v", uc.Suggestions)
	}
	if !strings.Contains(err.Error(), `did you mean "files.open"`) {
		t.Errorf("error = %v", err)
	}
}

func TestRegistryIDs(t *testing.T) {
	th := newTestHost(t)
	th.Registry().Register("custom.thing", func(context.Context, json.RawMessage) (any, error) { return "ok", nil })
	ids := th.Registry().IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Fatalf("ids not sorted: %v", ids)
		}
	}
	got, err := th.Execute(context.Background(), "custom.thing", nil)
	if err != nil || got != "ok" {
		t.Errorf("custom command = %v, %v", got, err)
	}
}

func TestPrefixedAliases(t *testing.T) {
	th := newTestHost(t)
	if err := th.exec(t, CommandPrefix+CommandNotificationWarning, `{"message":"m"}`); err != nil {
		t.Fatal(err)
	}
	if len(th.notifier.notices) != 1 || th.notifier.notices[0] != (notice{LevelWarning, "m"}) {
		t.Errorf("notices = %+v", th.notifier.notices)
	}
	for _, id := range th.Registry().IDs() {
		if strings.HasPrefix(id, CommandPrefix) {
			t.Errorf("alias %q listed as an id", id)
		}
	}
}
