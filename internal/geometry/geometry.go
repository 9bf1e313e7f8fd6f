// Package geometry turns merged layout regions into pixel frames.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"bennypowers.dev/padls/layout"
)

// Default cell size in pixels
const DefaultCellSize = 60

var (
	// ErrSizeType indicates a size setting that is neither an integer nor a list of integers
	ErrSizeType = errors.New("size must be an integer or a list of integers")

	// ErrSizeCount indicates a size list whose length does not match the grid
	ErrSizeCount = errors.New("size list length does not match grid")
)

// Resolve expands a size setting to one size per column or row.
// An integer applies to all n entries; a list must have exactly n integers.
// Numbers decoded from JSON arrive as float64 and are accepted when integral.
func Resolve(value any, n int, what string) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}
	if value == nil {
		return uniform(DefaultCellSize, n), nil
	}

	if size, ok := asInt(value); ok {
		return uniform(size, n), nil
	}

	var list []any
	switch v := value.(type) {
	case []int:
		list = make([]any, len(v))
		for i, s := range v {
			list[i] = s
		}
	case []any:
		list = v
	default:
		return nil, fmt.Errorf("%s: %w, got %T", what, ErrSizeType, value)
	}

	if len(list) != n {
		return nil, fmt.Errorf("%s: %w: want %d, got %d", what, ErrSizeCount, n, len(list))
	}

	sizes := make([]int, n)
	for i, item := range list {
		size, ok := asInt(item)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: %w, got %T", what, i, ErrSizeType, item)
		}
		sizes[i] = size
	}
	return sizes, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func uniform(size, n int) []int {
	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = size
	}
	return sizes
}

// Rect is a pixel rectangle
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Table holds resolved column widths and row heights plus spacing
type Table struct {
	Cols   []int
	Rows   []int
	HGap   int
	VGap   int
	Border int
}

// Frame returns the pixel frame of a region. A region spanning several
// cells also covers the gaps between them.
func (t Table) Frame(r layout.Region) Rect {
	x, w := span(t.Cols, r.X0, r.X1, t.HGap)
	y, h := span(t.Rows, r.Y0, r.Y1, t.VGap)
	return Rect{X: t.Border + x, Y: t.Border + y, Width: w, Height: h}
}

// Size returns the window size the table needs, borders included
func (t Table) Size() (width, height int) {
	_, w := span(t.Cols, 0, len(t.Cols)-1, t.HGap)
	_, h := span(t.Rows, 0, len(t.Rows)-1, t.VGap)
	return w + 2*t.Border, h + 2*t.Border
}

// span returns the offset of cell i0 and the extent of cells i0..i1
func span(sizes []int, i0, i1, gap int) (offset, extent int) {
	for i := 0; i < i0 && i < len(sizes); i++ {
		offset += sizes[i] + gap
	}
	for i := i0; i <= i1 && i < len(sizes); i++ {
		extent += sizes[i]
		if i > i0 {
			extent += gap
		}
	}
	return offset, extent
}
