// Package layout parses pad layout strings and merges their cells into regions.
//
// A layout string is a CSV-like grid: rows are separated by newlines and
// cells by commas. Each cell is typed by its own syntax:
//
//	'Status'      label (single or double quotes)
//	[Name]        text box (square brackets)
//	IMG_cat.png   image (case-sensitive IMG_ prefix)
//	Play          button (anything else, including an empty cell)
//
// A leading backtick marks a cell as no-merge.
//
// # Merging
//
// [Merge] coalesces adjacent cells with the same kind and text into
// rectangular [Region] values. The scan is row-major; each unclaimed cell
// grows right first, then down, so the result is deterministic. Shapes that
// are not rectangles (an L of identical cells, say) become several regions.
// A no-merge cell is always a region of its own and is never absorbed by a
// neighbour's growth.
//
//	l, err := layout.Parse("7,8,9\n0,0,=")
//	if err != nil {
//		return err
//	}
//	r, _ := l.RegionAt(1, 1) // the 2x1 "0" button
//
// Regions carry no identity across parses. [Diff] reports which regions
// survived a rebuild unchanged so callers can keep state keyed by them.
package layout
