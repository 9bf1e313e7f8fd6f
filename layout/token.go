package layout

// Span locates a cell in the source text.
// Line is the zero-based source line; Start and End are byte offsets within
// that line delimiting the trimmed cell, marker and delimiters included.
type Span struct {
	Line  int `json:"line"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the byte offset on the given line falls inside the
// span. The end offset is inclusive so a cursor just after a cell still hits it.
func (s Span) Contains(line, offset int) bool {
	return line == s.Line && offset >= s.Start && offset <= s.End
}

// Offset relocates the span into an enclosing text in which the layout
// source begins at byte column col of the given line
func (s Span) Offset(line, col int) Span {
	if s.Line == 0 {
		s.Start += col
		s.End += col
	}
	s.Line += line
	return s
}

// Token is the parsed content of one grid cell
type Token struct {
	// Text is the cell content with quotes, brackets, prefix and marker removed
	Text string `json:"text"`
	// Kind is fixed by the cell's own syntax
	Kind Kind `json:"kind"`
	// NoMerge is set when the cell started with NoMergeMarker
	NoMerge bool `json:"noMerge,omitempty"`
	// Col and Row are zero-based grid coordinates
	Col int `json:"col"`
	Row int `json:"row"`
	// Source is the trimmed cell exactly as written
	Source string `json:"-"`
	Span   Span   `json:"span"`
}

// Same reports whether two tokens are merge-compatible by content.
// It ignores NoMerge; the merge engine checks that separately.
func (t Token) Same(other Token) bool {
	return t.Kind == other.Kind && t.Text == other.Text
}

// Grid is a rectangular, immutable matrix of tokens
type Grid struct {
	cols  int
	rows  int
	cells []Token
}

// NewGrid builds a grid from rows of tokens, assigning each token its
// coordinates. Rows must all have the same, non-zero length.
func NewGrid(rows [][]Token) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, &LayoutError{Kind: EmptyGrid, Row: -1, Col: -1}
	}

	width := len(rows[0])
	g := &Grid{
		cols:  width,
		rows:  len(rows),
		cells: make([]Token, 0, width*len(rows)),
	}

	for y, row := range rows {
		if len(row) != width {
			return nil, raggedError(row, y, width)
		}
		for x, tok := range row {
			tok.Col, tok.Row = x, y
			g.cells = append(g.cells, tok)
		}
	}

	return g, nil
}

// Cols returns the number of columns
func (g *Grid) Cols() int {
	return g.cols
}

// Rows returns the number of rows
func (g *Grid) Rows() int {
	return g.rows
}

// At returns the token at column x, row y
func (g *Grid) At(x, y int) (Token, bool) {
	if !g.inBounds(x, y) {
		return Token{}, false
	}
	return g.cells[y*g.cols+x], true
}

// Row returns a copy of row y
func (g *Grid) Row(y int) []Token {
	if y < 0 || y >= g.rows {
		return nil
	}
	row := make([]Token, g.cols)
	copy(row, g.cells[y*g.cols:(y+1)*g.cols])
	return row
}

// Tokens returns every token in row-major order
func (g *Grid) Tokens() []Token {
	out := make([]Token, len(g.cells))
	copy(out, g.cells)
	return out
}

// TokenAtOffset finds the cell whose span contains the byte offset on a source line
func (g *Grid) TokenAtOffset(line, offset int) (Token, bool) {
	for _, tok := range g.cells {
		if tok.Span.Contains(line, offset) {
			return tok, true
		}
	}
	return Token{}, false
}

// Offset returns a copy of the grid with every span relocated, see Span.Offset
func (g *Grid) Offset(line, col int) *Grid {
	out := &Grid{cols: g.cols, rows: g.rows, cells: g.Tokens()}
	for i := range out.cells {
		out.cells[i].Span = out.cells[i].Span.Offset(line, col)
	}
	return out
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.cols && y < g.rows
}
