package layout

// Changes classifies regions across a rebuild
type Changes struct {
	// Kept regions have identical bounds, kind, text and no-merge flag in both layouts
	Kept []Region
	// Removed regions exist only in the previous layout
	Removed []Region
	// Added regions exist only in the next layout
	Added []Region
}

// Unchanged reports whether the rebuild produced exactly the same regions
func (c Changes) Unchanged() bool {
	return len(c.Removed) == 0 && len(c.Added) == 0
}

// Diff compares the regions of two layouts. State a caller keyed by the
// coordinates of a Kept region stays valid; anything keyed by a Removed
// region must be dropped or re-bound. A nil prev reports every region as Added.
func Diff(prev, next *Layout) Changes {
	var c Changes

	before := make(map[Region]bool)
	if prev != nil {
		for _, r := range prev.regions {
			before[r] = true
		}
	}

	after := make(map[Region]bool)
	if next != nil {
		for _, r := range next.regions {
			after[r] = true
			if before[r] {
				c.Kept = append(c.Kept, r)
			} else {
				c.Added = append(c.Added, r)
			}
		}
	}

	if prev != nil {
		for _, r := range prev.regions {
			if !after[r] {
				c.Removed = append(c.Removed, r)
			}
		}
	}

	return c
}
