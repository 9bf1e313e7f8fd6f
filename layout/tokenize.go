package layout

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize parses a layout string into a grid of typed tokens.
// It returns the first *LayoutError in source order and never a partial grid.
func Tokenize(src string) (*Grid, error) {
	g, errs := tokenize(src)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return g, nil
}

// Validate tokenizes the layout and returns every error found, in source order.
// A nil result means Tokenize would succeed.
func Validate(src string) []*LayoutError {
	_, errs := tokenize(src)
	return errs
}

func tokenize(src string) (*Grid, []*LayoutError) {
	lines := strings.Split(src, RowSeparator)

	// Blank lines around the grid are not rows
	first, last := -1, -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return nil, []*LayoutError{{Kind: EmptyGrid, Row: -1, Col: -1}}
	}

	var errs []*LayoutError
	rows := make([][]Token, 0, last-first+1)
	for i := first; i <= last; i++ {
		row, rowErrs := tokenizeLine(lines[i], i, len(rows))
		errs = append(errs, rowErrs...)
		rows = append(rows, row)
	}

	width := len(rows[0])
	for y, row := range rows {
		if len(row) != width {
			errs = append(errs, raggedError(row, y, width))
		}
	}

	if len(errs) > 0 {
		slices.SortStableFunc(errs, func(a, b *LayoutError) int {
			if c := cmp.Compare(a.Span.Line, b.Span.Line); c != 0 {
				return c
			}
			return cmp.Compare(a.Span.Start, b.Span.Start)
		})
		return nil, errs
	}

	g := &Grid{
		cols:  width,
		rows:  len(rows),
		cells: make([]Token, 0, width*len(rows)),
	}
	for _, row := range rows {
		g.cells = append(g.cells, row...)
	}
	return g, nil
}

// tokenizeLine splits one source line into cells
func tokenizeLine(line string, lineNum, row int) ([]Token, []*LayoutError) {
	var tokens []Token
	var errs []*LayoutError

	start := 0
	for col := 0; ; col++ {
		end := strings.Index(line[start:], ColumnSeparator)
		final := end < 0
		if final {
			end = len(line)
		} else {
			end += start
		}

		tok, err := classify(line, start, end)
		tok.Col, tok.Row = col, row
		tok.Span.Line = lineNum
		tokens = append(tokens, tok)

		if err != nil {
			err.Row, err.Col = row, col
			err.Span.Line = lineNum
			errs = append(errs, err)
		}

		if final {
			break
		}
		start = end + len(ColumnSeparator)
	}

	return tokens, errs
}

// classify types the cell occupying line[start:end]
func classify(line string, start, end int) (Token, *LayoutError) {
	s, e := trimBounds(line, start, end)
	tok := Token{
		Source: line[s:e],
		Span:   Span{Start: s, End: e},
	}

	body := tok.Source
	if strings.HasPrefix(body, NoMergeMarker) {
		tok.NoMerge = true
		body = strings.TrimLeftFunc(body[len(NoMergeMarker):], unicode.IsSpace)
	}

	switch {
	case body == "":
		tok.Kind = Button

	case body[0] == '\'' || body[0] == '"':
		if len(body) < 2 || body[len(body)-1] != body[0] {
			return tok, &LayoutError{Kind: UnterminatedToken, Span: tok.Span, Delim: body[0]}
		}
		tok.Kind, tok.Text = Label, body[1:len(body)-1]

	case body[0] == '[':
		if len(body) < 2 || body[len(body)-1] != ']' {
			return tok, &LayoutError{Kind: UnterminatedToken, Span: tok.Span, Delim: '['}
		}
		tok.Kind, tok.Text = TextBox, body[1:len(body)-1]

	case strings.HasPrefix(body, ImagePrefix):
		tok.Kind, tok.Text = Image, body[len(ImagePrefix):]

	default:
		tok.Kind, tok.Text = Button, body
	}

	return tok, nil
}

// trimBounds narrows s[start:end] to exclude surrounding whitespace, returning byte offsets
func trimBounds(s string, start, end int) (int, int) {
	for start < end {
		r, size := utf8.DecodeRuneInString(s[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(s[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	return start, end
}
