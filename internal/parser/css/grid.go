package css

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"bennypowers.dev/padls/layout"
)

// Grid builds a layout grid from the area names. Each name is a cell whose
// span points into the CSS source. A run of dots is a null cell: it is
// marked no-merge so it always forms its own region.
func (a Areas) Grid() (*layout.Grid, *layout.LayoutError) {
	rows := make([][]layout.Token, 0, len(a.Rows))
	for _, row := range a.Rows {
		rows = append(rows, row.cells())
	}

	g, err := layout.NewGrid(rows)
	if err != nil {
		var layoutErr *layout.LayoutError
		if !errors.As(err, &layoutErr) {
			layoutErr = &layout.LayoutError{Kind: layout.EmptyGrid, Row: -1, Col: -1}
		}
		if layoutErr.Kind == layout.EmptyGrid || layoutErr.Span == (layout.Span{}) {
			layoutErr.Span = a.span()
		}
		return nil, layoutErr
	}
	return g, nil
}

// span covers the first row's string, used when an error has no cell to point at
func (a Areas) span() layout.Span {
	if len(a.Rows) == 0 {
		return layout.Span{Line: int(a.Line), Start: int(a.Col), End: int(a.Col)}
	}
	r := a.Rows[0]
	return layout.Span{Line: int(r.Line), Start: int(r.Col) - 1, End: int(r.Col) + len(r.Content) + 1}
}

func (r Row) cells() []layout.Token {
	var cells []layout.Token
	s := r.Content
	for i := 0; i < len(s); {
		if r, size := utf8.DecodeRuneInString(s[i:]); unicode.IsSpace(r) {
			i += size
			continue
		}
		j := i
		for j < len(s) {
			r, size := utf8.DecodeRuneInString(s[j:])
			if unicode.IsSpace(r) {
				break
			}
			j += size
		}

		name := s[i:j]
		tok := layout.Token{
			Text:   name,
			Kind:   layout.Button,
			Source: name,
			Span:   layout.Span{Line: int(r.Line), Start: int(r.Col) + i, End: int(r.Col) + j},
		}
		if IsNullCell(name) {
			tok.Text = "."
			tok.NoMerge = true
		}
		cells = append(cells, tok)
		i = j
	}
	return cells
}

// IsNullCell reports whether an area name is a run of dots
func IsNullCell(name string) bool {
	return name != "" && strings.Trim(name, ".") == ""
}

// NonRectangular returns the names that the merge engine had to split into
// more than one region, with those regions. Such names do not form a
// rectangle and are invalid grid areas.
func NonRectangular(l *layout.Layout) map[string][]layout.Region {
	byName := make(map[string][]layout.Region)
	for _, r := range l.Regions() {
		if r.NoMerge {
			continue
		}
		byName[r.Text] = append(byName[r.Text], r)
	}

	for name, regions := range byName {
		if len(regions) < 2 {
			delete(byName, name)
		}
	}
	return byName
}
