package editor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/neatscripts/neat/internal/app"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUndecodable is returned for files whose content is not valid text.
var ErrUndecodable = errors.New("file is not valid UTF-8 or UTF-16 text")

// ErrChangedOnDisk is returned for a buffer with unsaved edits whose file was
// modified by someone else.
var ErrChangedOnDisk = errors.New("file changed on disk and the buffer has unsaved edits")

// OpenError reports a document that could not be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Document is an open file and its in-memory buffer. ModTime and Size
// describe the file as it was last read or written.
type Document struct {
	Path    string    `json:"path"`
	Text    string    `json:"text"`
	Dirty   bool      `json:"dirty,omitempty"`
	ModTime time.Time `json:"modTime"`
	Size    int64     `json:"size"`
}

// OpenDocument reads and decodes the file at path. UTF-8 is assumed unless a
// byte order mark says otherwise.
func OpenDocument(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &OpenError{Path: path, Err: fmt.Errorf("is a directory")}
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	text, err := decodeText(raw)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &Document{Path: abs, Text: text, ModTime: info.ModTime(), Size: info.Size()}, nil
}

// ChangedOnDisk reports whether the file differs from what the buffer last
// read or wrote. A file that can no longer be stat'ed counts as changed.
func (d *Document) ChangedOnDisk() bool {
	info, err := os.Stat(d.Path)
	if err != nil {
		return true
	}
	return info.Size() != d.Size || !info.ModTime().Equal(d.ModTime)
}

func decodeText(raw []byte) (string, error) {
	if !hasUTF16BOM(raw) && !utf8.Valid(raw) {
		return "", ErrUndecodable
	}
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if bytes.IndexByte(out, 0) >= 0 {
		return "", ErrUndecodable
	}
	return string(out), nil
}

func hasUTF16BOM(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) || bytes.HasPrefix(raw, []byte{0xFE, 0xFF})
}

// Save writes the buffer to disk and clears the dirty flag.
func (d *Document) Save() error {
	if err := app.AtomicWriteFile(d.Path, []byte(d.Text), app.FilePerm); err != nil {
		return fmt.Errorf("save %s: %w", d.Path, err)
	}
	d.Dirty = false
	if info, err := os.Stat(d.Path); err == nil {
		d.ModTime, d.Size = info.ModTime(), info.Size()
	}
	return nil
}

// LineCount returns the number of lines; an empty document has one.
func (d *Document) LineCount() int {
	return strings.Count(d.Text, "\n") + 1
}

// OffsetAt converts p to a byte offset, clamping it to the document.
func (d *Document) OffsetAt(p Point) int {
	if p.Line < 0 {
		return 0
	}
	if p.Character < 0 {
		p.Character = 0
	}
	off := 0
	for line := 0; line < p.Line; line++ {
		i := strings.IndexByte(d.Text[off:], '\n')
		if i < 0 {
			return len(d.Text)
		}
		off += i + 1
	}
	end := strings.IndexByte(d.Text[off:], '\n')
	if end < 0 {
		end = len(d.Text) - off
	}
	lineText := d.Text[off : off+end]
	chars := 0
	for i := range lineText {
		if chars == p.Character {
			return off + i
		}
		chars++
	}
	return off + end
}

// PointAt converts a byte offset back to a Point.
func (d *Document) PointAt(offset int) Point {
	if offset > len(d.Text) {
		offset = len(d.Text)
	}
	if offset < 0 {
		offset = 0
	}
	before := d.Text[:offset]
	line := strings.Count(before, "\n")
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return Point{Line: line, Character: utf8.RuneCountInString(before[lineStart:])}
}

// TextIn returns the text covered by r.
func (d *Document) TextIn(r Range) string {
	r = r.Normalized()
	return d.Text[d.OffsetAt(r.Start):d.OffsetAt(r.End)]
}

// Replace swaps the text in r for text as one edit and returns the byte
// offsets of the replaced span plus the length delta.
func (d *Document) Replace(r Range, text string) (start, end, delta int) {
	r = r.Normalized()
	start, end = d.OffsetAt(r.Start), d.OffsetAt(r.End)
	d.Text = d.Text[:start] + text + d.Text[end:]
	d.Dirty = true
	return start, end, len(text) - (end - start)
}
