package dump

import "fmt"

// Line is one annotation row: a byte span (nil for purely structural
// labels), one or more label strings, and an indentation depth. Lines
// are created by the decoder that discovers the field and never mutated
// afterward.
type Line struct {
	Span   *Span
	Labels []string
	Depth  int
	IsRule bool
}

// Sink accumulates annotation lines in emission order. It holds no
// validation logic; it is a pure formatting accumulator.
type Sink struct {
	lines []Line
}

// Emit appends one line pairing a span with a formatted label.
func (s *Sink) Emit(span Span, depth int, format string, args ...any) {
	sp := span
	s.lines = append(s.lines, Line{
		Span:   &sp,
		Labels: []string{fmt.Sprintf(format, args...)},
		Depth:  depth,
	})
}

// EmitLabel appends a structural label with no byte span.
func (s *Sink) EmitLabel(depth int, format string, args ...any) {
	s.lines = append(s.lines, Line{
		Labels: []string{fmt.Sprintf(format, args...)},
		Depth:  depth,
	})
}

// EmitLines appends one span with several label rows. The renderer zips
// the span's hex rows against the labels, so a wide span can carry a
// per-row annotation (used for ASCII dumps of opaque payloads).
func (s *Sink) EmitLines(span Span, depth int, labels []string) {
	sp := span
	s.lines = append(s.lines, Line{Span: &sp, Labels: labels, Depth: depth})
}

// Rule appends a horizontal rule marker.
func (s *Sink) Rule() {
	s.lines = append(s.lines, Line{IsRule: true})
}

// Lines returns the accumulated lines.
func (s *Sink) Lines() []Line {
	return s.lines
}
