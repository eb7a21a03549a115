// Package execctx builds the context record piped to a script on stdin.
package execctx

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/neatscripts/neat/internal/editor"
)

// Position is a 1-based line/column, as editors display them.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Selection is one cursor or selected region.
type Selection struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (s Selection) String() string {
	if s.Start == s.End {
		return s.Start.String()
	}
	return s.Start.String() + "-" + s.End.String()
}

// ExecutionContext is what a script receives on stdin.
type ExecutionContext struct {
	WorkspacePath string      `json:"workspacePath"`
	File          string      `json:"file"`
	Selections    []Selection `json:"selections"`
}

// FromPoint converts a 0-based editor point.
func FromPoint(p editor.Point) Position {
	return Position{Line: p.Line + 1, Column: p.Character + 1}
}

// FromRange converts a 0-based editor range, keeping its direction.
func FromRange(r editor.Range) Selection {
	return Selection{Start: FromPoint(r.Start), End: FromPoint(r.End)}
}

// Build snapshots the session. It never fails: with no workspace or no
// focused editor the corresponding fields are empty.
func Build(s *editor.Session) ExecutionContext {
	ctx := ExecutionContext{Selections: []Selection{}}
	if s == nil {
		return ctx
	}
	ctx.WorkspacePath = s.WorkspaceRoot()
	if s.Active == nil {
		return ctx
	}
	ctx.File = s.Active.Path
	for _, sel := range s.Active.Selections {
		ctx.Selections = append(ctx.Selections, FromRange(sel))
	}
	return ctx
}

// Marshal serializes the context for the script's stdin.
func (c ExecutionContext) Marshal() ([]byte, error) {
	if c.Selections == nil {
		c.Selections = []Selection{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	slog.Debug("execution context", "file", c.File, "selections", len(c.Selections))
	return b, nil
}
