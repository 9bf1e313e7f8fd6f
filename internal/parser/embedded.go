package parser

import (
	"strings"

	"bennypowers.dev/padls/layout"
)

// Host identifies where in a document a layout was found
type Host int

const (
	// Document means the whole document is the layout
	Document Host = iota
	// Template is a tagged template literal in JS/TS
	Template
	// Script is a typed <script> element in HTML
	Script
	// GridAreas is a CSS grid-template-areas declaration
	GridAreas
)

func (h Host) String() string {
	switch h {
	case Document:
		return "document"
	case Template:
		return "template"
	case Script:
		return "script"
	case GridAreas:
		return "grid-template-areas"
	}
	return "unknown"
}

// Embedded is a layout found in a document. All spans, those of its tokens
// and errors included, are in document coordinates: zero-based line and byte
// column within that line.
type Embedded struct {
	Host Host
	// Tag is the template tag, script type or CSS property
	Tag string
	// Source is the layout text as tokenized. Empty for GridAreas.
	Source string
	// Start and End delimit the layout in the document. End.Start is the
	// byte column just past the last character.
	Start layout.Span
	End   layout.Span
	// Layout is nil when Errors is non-empty
	Layout *layout.Layout
	Errors []*layout.LayoutError
}

// FromSource tokenizes and merges a layout whose text begins at (line, col)
// in the document
func FromSource(host Host, tag, src string, line, col int) *Embedded {
	e := &Embedded{
		Host:   host,
		Tag:    tag,
		Source: src,
		Start:  layout.Span{Line: line, Start: col, End: col},
	}

	lines := strings.Count(src, layout.RowSeparator)
	last := src[strings.LastIndex(src, layout.RowSeparator)+1:]
	endCol := len(last)
	if lines == 0 {
		endCol += col
	}
	e.End = layout.Span{Line: line + lines, Start: endCol, End: endCol}

	if errs := layout.Validate(src); len(errs) > 0 {
		for _, err := range errs {
			e.Errors = append(e.Errors, err.Offset(line, col))
		}
		return e
	}

	g, err := layout.Tokenize(src)
	if err != nil {
		// unreachable: Validate found nothing
		return e
	}
	e.Layout = layout.Merge(g.Offset(line, col))
	return e
}

// Grid returns the tokenized grid, or nil when the layout has errors
func (e *Embedded) Grid() *layout.Grid {
	if e.Layout == nil {
		return nil
	}
	return e.Layout.Grid()
}

// Editable reports whether the layout is written in the layout grammar, so
// that edits like toggling the no-merge marker apply to it
func (e *Embedded) Editable() bool {
	return e.Host != GridAreas
}

// Contains reports whether a document position falls inside the layout
func (e *Embedded) Contains(line, col int) bool {
	if line < e.Start.Line || line > e.End.Line {
		return false
	}
	if line == e.Start.Line && col < e.Start.Start {
		return false
	}
	if line == e.End.Line && col > e.End.Start {
		return false
	}
	return true
}

// TokenAt returns the cell at a document position
func (e *Embedded) TokenAt(line, col int) (layout.Token, bool) {
	g := e.Grid()
	if g == nil || !e.Contains(line, col) {
		return layout.Token{}, false
	}
	return g.TokenAtOffset(line, col)
}

// RegionAt returns the index of the region covering the cell at a document position
func (e *Embedded) RegionAt(line, col int) (layout.Token, int, bool) {
	tok, ok := e.TokenAt(line, col)
	if !ok {
		return layout.Token{}, -1, false
	}
	return tok, e.Layout.IndexAt(tok.Col, tok.Row), true
}
