package dotter

// Selection holds the currently selected (q,s) coordinate, the visible
// ranges, the zoom, and the crosshair/grid toggles for one window context.
// Changing the selected coordinate is the sole trigger for crosshair and
// alignment-tool refresh; it never touches pixmap contents.
type Selection struct {
	Q, S int

	RefRange, MatchRange Range
	Zoom                 float64

	CrosshairOn       bool
	CrosshairCoordsOn bool
	CrosshairFullOn   bool
	GridOn            bool

	// BreakLines marks reference-coordinate discontinuities when several
	// exons are stitched into one ungapped horizontal axis. They are
	// annotations for the display layer; nothing here draws them.
	BreakLines []int

	observers []func(q, s int)
}

// NewSelection creates a Selection starting at the low corner of the given
// ranges.
func NewSelection(refRange, matchRange Range, zoom float64) *Selection {
	return &Selection{
		Q:          refRange.Min,
		S:          matchRange.Min,
		RefRange:   refRange,
		MatchRange: matchRange,
		Zoom:       zoom,
	}
}

// Subscribe registers an observer. Observers are notified after the
// selection has been updated, in registration order; each must treat the
// call as idempotent.
func (sel *Selection) Subscribe(fn func(q, s int)) {
	sel.observers = append(sel.observers, fn)
}

// SetSelection clamps (q,s) into the visible ranges, updates the selection,
// and notifies observers.
func (sel *Selection) SetSelection(q, s int) {
	sel.Q = clamp(q, sel.RefRange.Min, sel.RefRange.Max)
	sel.S = clamp(s, sel.MatchRange.Min, sel.MatchRange.Max)
	for _, fn := range sel.observers {
		fn(sel.Q, sel.S)
	}
}

// SetVisibleRange updates the visible ranges and reports whether they
// actually changed, in which case the caller must re-run the engine or open
// a new window context.
func (sel *Selection) SetVisibleRange(refRange, matchRange Range) (changed bool) {
	changed = refRange != sel.RefRange || matchRange != sel.MatchRange
	sel.RefRange = refRange
	sel.MatchRange = matchRange
	sel.Q = clamp(sel.Q, refRange.Min, refRange.Max)
	sel.S = clamp(sel.S, matchRange.Min, matchRange.Max)
	return changed
}
