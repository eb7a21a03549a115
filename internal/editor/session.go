package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/neatscripts/neat/internal/app"
)

// ActiveEditor is the focused document and its selections, in editor order.
// The first selection is the primary one.
type ActiveEditor struct {
	Path       string  `json:"path"`
	Selections []Range `json:"selections"`
}

// Primary returns the primary selection, or a cursor at the document start.
func (e *ActiveEditor) Primary() Range {
	if len(e.Selections) == 0 {
		return Range{}
	}
	return e.Selections[0]
}

// Session is the persisted editor state.
type Session struct {
	WorkspaceFolders []string             `json:"workspaceFolders"`
	Documents        map[string]*Document `json:"documents,omitempty"`
	Active           *ActiveEditor        `json:"activeEditor,omitempty"`

	path string
}

// NewSession returns an empty session rooted at the given workspace folders.
func NewSession(path string, folders ...string) *Session {
	return &Session{
		WorkspaceFolders: folders,
		Documents:        make(map[string]*Document),
		path:             path,
	}
}

// LoadSession reads a session file.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", path, err)
	}
	if s.Documents == nil {
		s.Documents = make(map[string]*Document)
	}
	s.path = path
	return &s, nil
}

// Path returns the file the session was loaded from.
func (s *Session) Path() string { return s.path }

// Persist writes the session back to its file.
func (s *Session) Persist() error {
	if s.path == "" {
		return errors.New("session has no backing file")
	}
	if err := app.EnsureEnvDir(s.path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	return app.AtomicWriteFile(s.path, data, app.FilePerm)
}

// WorkspaceRoot returns the first workspace folder, or "".
func (s *Session) WorkspaceRoot() string {
	if len(s.WorkspaceFolders) == 0 {
		return ""
	}
	return s.WorkspaceFolders[0]
}

// ActiveDocument returns the focused editor and its document. It returns
// nils when no editor is focused.
func (s *Session) ActiveDocument() (*ActiveEditor, *Document, error) {
	if s.Active == nil {
		return nil, nil, nil
	}
	doc, err := s.document(s.Active.Path)
	if err != nil {
		return nil, nil, err
	}
	return s.Active, doc, nil
}

// document returns the buffer for path, reading the file when it is not
// open. A clean buffer whose file changed on disk is reloaded; a dirty one
// is an error, so unsaved edits never overwrite someone else's write.
func (s *Session) document(path string) (*Document, error) {
	cached, ok := s.Documents[path]
	if ok && !cached.ChangedOnDisk() {
		return cached, nil
	}
	if ok && cached.Dirty {
		return nil, &OpenError{Path: path, Err: ErrChangedOnDisk}
	}
	doc, err := OpenDocument(path)
	if err != nil {
		if ok {
			delete(s.Documents, path)
		}
		return nil, err
	}
	s.Documents[doc.Path] = doc
	if ok {
		slog.Debug("reloaded document changed on disk", "path", doc.Path)
		if s.Active != nil && s.Active.Path == doc.Path {
			for i, sel := range s.Active.Selections {
				s.Active.Selections[i] = clampRange(doc, sel)
			}
		}
	}
	return doc, nil
}

// Open loads path (reusing an open buffer) and focuses it.
func (s *Session) Open(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	doc, err := s.document(abs)
	if err != nil {
		return nil, err
	}
	if s.Active == nil || s.Active.Path != doc.Path {
		s.Active = &ActiveEditor{Path: doc.Path, Selections: []Range{{}}}
	}
	slog.Debug("document opened", "path", doc.Path, "dirty", doc.Dirty)
	return doc, nil
}

// Focus opens path and sets its selections. With no selections the cursor
// goes to the start of the document.
func (s *Session) Focus(path string, selections ...Range) (*Document, error) {
	doc, err := s.Open(path)
	if err != nil {
		return nil, err
	}
	if len(selections) == 0 {
		selections = []Range{{}}
	}
	for i, sel := range selections {
		selections[i] = clampRange(doc, sel)
	}
	s.Active.Selections = selections
	return doc, nil
}

func clampRange(doc *Document, r Range) Range {
	return Range{
		Start: doc.PointAt(doc.OffsetAt(r.Start)),
		End:   doc.PointAt(doc.OffsetAt(r.End)),
	}
}

// CloseEditor unfocuses the active editor. Its buffer stays open.
func (s *Session) CloseEditor() {
	s.Active = nil
}

// SaveActive writes the active document to disk if it has unsaved edits.
// It reports whether a save happened.
func (s *Session) SaveActive() (bool, error) {
	_, doc, err := s.ActiveDocument()
	if err != nil || doc == nil || !doc.Dirty {
		return false, err
	}
	if err := doc.Save(); err != nil {
		return false, err
	}
	slog.Debug("saved active document", "path", doc.Path)
	return true, nil
}

// ReplaceSelection replaces the primary selection of the active editor with
// text. The primary selection becomes a cursor after the inserted text and
// the other selections are shifted to stay on the same content. It reports
// false when no editor is active.
func (s *Session) ReplaceSelection(text string) (bool, error) {
	ed, doc, err := s.ActiveDocument()
	if err != nil || ed == nil {
		return false, err
	}
	if len(ed.Selections) == 0 {
		ed.Selections = []Range{{}}
	}

	offsets := make([][2]int, len(ed.Selections))
	for i, sel := range ed.Selections {
		offsets[i] = [2]int{doc.OffsetAt(sel.Start), doc.OffsetAt(sel.End)}
	}

	start, end, delta := doc.Replace(ed.Primary(), text)
	shift := func(o int) int {
		switch {
		case o <= start:
			return o
		case o >= end:
			return o + delta
		default:
			return start + len(text)
		}
	}

	for i := range ed.Selections {
		if i == 0 {
			ed.Selections[0] = Cursor(doc.PointAt(start + len(text)))
			continue
		}
		ed.Selections[i] = Range{
			Start: doc.PointAt(shift(offsets[i][0])),
			End:   doc.PointAt(shift(offsets[i][1])),
		}
	}
	return true, nil
}
