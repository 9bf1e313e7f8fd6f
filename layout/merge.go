package layout

// Region is a rectangle of cells sharing the same kind and text.
// Bounds are inclusive grid coordinates.
type Region struct {
	X0      int    `json:"x0"`
	Y0      int    `json:"y0"`
	X1      int    `json:"x1"`
	Y1      int    `json:"y1"`
	Kind    Kind   `json:"kind"`
	Text    string `json:"text"`
	NoMerge bool   `json:"noMerge,omitempty"`
}

// Width returns the number of columns the region spans
func (r Region) Width() int {
	return r.X1 - r.X0 + 1
}

// Height returns the number of rows the region spans
func (r Region) Height() int {
	return r.Y1 - r.Y0 + 1
}

// Contains reports whether the cell at (x, y) belongs to the region
func (r Region) Contains(x, y int) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Layout is a grid together with the regions that partition it
type Layout struct {
	grid    *Grid
	regions []Region
	owner   []int // cell index (row-major) -> region index
}

// Parse tokenizes src and merges the result.
// Every call builds a fresh Layout; nothing is shared with earlier results.
func Parse(src string) (*Layout, error) {
	g, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Merge(g), nil
}

// Merge partitions the grid into regions.
//
// Cells are visited in row-major order. An unclaimed cell grows right while
// the next cell is unclaimed and identical, then grows down while the whole
// span of the next row is. No-merge cells are claimed before the scan starts,
// so they are never absorbed, and each becomes a 1x1 region at its own
// position in the scan.
func Merge(g *Grid) *Layout {
	l := &Layout{
		grid:  g,
		owner: make([]int, len(g.cells)),
	}

	claimed := make([]bool, len(g.cells))
	for i, tok := range g.cells {
		claimed[i] = tok.NoMerge
	}

	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			seed := g.cells[y*g.cols+x]

			if seed.NoMerge {
				l.add(Region{X0: x, Y0: y, X1: x, Y1: y, Kind: seed.Kind, Text: seed.Text, NoMerge: true})
				continue
			}
			if claimed[y*g.cols+x] {
				continue
			}

			joins := func(cx, cy int) bool {
				i := cy*g.cols + cx
				return !claimed[i] && g.cells[i].Same(seed)
			}

			w := 1
			for x+w < g.cols && joins(x+w, y) {
				w++
			}

			h := 1
		grow:
			for y+h < g.rows {
				for cx := x; cx < x+w; cx++ {
					if !joins(cx, y+h) {
						break grow
					}
				}
				h++
			}

			r := Region{X0: x, Y0: y, X1: x + w - 1, Y1: y + h - 1, Kind: seed.Kind, Text: seed.Text}
			for cy := r.Y0; cy <= r.Y1; cy++ {
				for cx := r.X0; cx <= r.X1; cx++ {
					claimed[cy*g.cols+cx] = true
				}
			}
			l.add(r)
		}
	}

	return l
}

func (l *Layout) add(r Region) {
	idx := len(l.regions)
	l.regions = append(l.regions, r)
	for y := r.Y0; y <= r.Y1; y++ {
		for x := r.X0; x <= r.X1; x++ {
			l.owner[y*l.grid.cols+x] = idx
		}
	}
}

// Grid returns the tokenized grid
func (l *Layout) Grid() *Grid {
	return l.grid
}

// Regions returns the regions in row-major order of their top-left cell
func (l *Layout) Regions() []Region {
	out := make([]Region, len(l.regions))
	copy(out, l.regions)
	return out
}

// Len returns the number of regions
func (l *Layout) Len() int {
	return len(l.regions)
}

// Region returns the region at index i
func (l *Layout) Region(i int) Region {
	return l.regions[i]
}

// IndexAt returns the index of the region covering (x, y), or -1 outside the grid
func (l *Layout) IndexAt(x, y int) int {
	if !l.grid.inBounds(x, y) {
		return -1
	}
	return l.owner[y*l.grid.cols+x]
}

// RegionAt returns the region covering the cell at (x, y)
func (l *Layout) RegionAt(x, y int) (Region, bool) {
	i := l.IndexAt(x, y)
	if i < 0 {
		return Region{}, false
	}
	return l.regions[i], true
}

// Cells returns the tokens covered by region i in row-major order
func (l *Layout) Cells(i int) []Token {
	r := l.regions[i]
	cells := make([]Token, 0, r.Width()*r.Height())
	for y := r.Y0; y <= r.Y1; y++ {
		for x := r.X0; x <= r.X1; x++ {
			cells = append(cells, l.grid.cells[y*l.grid.cols+x])
		}
	}
	return cells
}

// Seed returns the top-left token of region i
func (l *Layout) Seed(i int) Token {
	r := l.regions[i]
	return l.grid.cells[r.Y0*l.grid.cols+r.X0]
}
