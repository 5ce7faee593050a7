package grid

// Mark and Unmark keep no per-cell reference count: callers must never mark
// two total rectangles that overlap on the same grid. Unmarking one of two
// overlapping rectangles frees the shared cells of the other. The placer
// only marks totals whose cells were all placeable, which keeps them
// disjoint.

// Mark reserves total for a placed item: its cells stop being placeable and
// become occupied. Cells of body are additionally flagged as item body.
// Cells outside the grid are ignored.
func Mark(g *RoomGrid, total, body Rect) {
	g.each(total, func(i int) {
		g.Placement[i] = false
		g.Occupied[i] = true
	})
	g.each(body, func(i int) {
		g.Body[i] = true
	})
}

// Unmark is the inverse of Mark with the same arguments. Placeability is
// restored from the built state so door zones and off-floor cells never
// become placeable. total must not overlap any other marked total.
func Unmark(g *RoomGrid, total, body Rect) {
	g.each(total, func(i int) {
		g.Placement[i] = g.base[i]
		g.Occupied[i] = false
	})
	g.each(body, func(i int) {
		g.Body[i] = false
	})
}

// each calls fn with the index of every cell of r inside the grid.
func (g *RoomGrid) each(r Rect, fn func(i int)) {
	x0, z0 := max(r.X, 0), max(r.Z, 0)
	x1, z1 := min(r.X+r.W, g.Cols), min(r.Z+r.D, g.Rows)
	for z := z0; z < z1; z++ {
		for x := x0; x < x1; x++ {
			fn(g.index(x, z))
		}
	}
}
