package editor

import "fmt"

// Point is a 0-based line/character coordinate.
type Point struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Before reports whether p sorts strictly before q.
func (p Point) Before(q Point) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Character < q.Character
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Character+1)
}

// Range spans from Start to End. End may precede Start when a selection was
// made backwards; Normalized orders them.
type Range struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Cursor returns an empty range at p.
func Cursor(p Point) Range {
	return Range{Start: p, End: p}
}

// IsEmpty reports whether the range selects no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Normalized returns r with Start <= End.
func (r Range) Normalized() Range {
	if r.End.Before(r.Start) {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

func (r Range) String() string {
	if r.IsEmpty() {
		return r.Start.String()
	}
	return r.Start.String() + "-" + r.End.String()
}
