package layout

import (
	"strings"

	"golang.org/x/text/width"
)

// Format re-emits a layout with its columns aligned.
// Cells keep their source text; only the whitespace between them changes.
func Format(src string) (string, error) {
	g, err := Tokenize(src)
	if err != nil {
		return "", err
	}
	return FormatGrid(g), nil
}

// FormatGrid renders a grid as aligned layout source, one row per line
func FormatGrid(g *Grid) string {
	widths := make([]int, g.cols)
	for _, tok := range g.cells {
		widths[tok.Col] = max(widths[tok.Col], DisplayWidth(tok.Source))
	}

	var b strings.Builder
	for y := 0; y < g.rows; y++ {
		var line strings.Builder
		for x := 0; x < g.cols; x++ {
			tok := g.cells[y*g.cols+x]
			line.WriteString(tok.Source)
			if x == g.cols-1 {
				break
			}
			line.WriteString(ColumnSeparator)
			line.WriteString(strings.Repeat(" ", widths[x]-DisplayWidth(tok.Source)+1))
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteString(RowSeparator)
	}
	return b.String()
}

// DisplayWidth returns the number of terminal columns s occupies.
// Wide and fullwidth East Asian runes, most emoji among them, count as two.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
