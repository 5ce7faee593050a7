package engine

import (
	"github.com/zyedidia/generic/queue"

	"github.com/piwi3910/RoomFit/internal/grid"
	"github.com/piwi3910/RoomFit/internal/model"
)

// DefaultConnectivityTolerance is the number of reachable cells a placement
// may cost beyond its own area.
const DefaultConnectivityTolerance = 5

// WalkableCount returns the number of walkable cells in the grid.
func WalkableCount(g *grid.RoomGrid) int {
	n := 0
	for z := 0; z < g.Rows; z++ {
		for x := 0; x < g.Cols; x++ {
			if g.IsWalkable(x, z) {
				n++
			}
		}
	}
	return n
}

// ReachableCount runs a breadth-first search from every door cell and counts
// the walkable cells it reaches without entering exclude. A zero-area
// exclude excludes nothing.
func ReachableCount(g *grid.RoomGrid, exclude grid.Rect) int {
	visited := make([]bool, g.Cols*g.Rows)
	q := queue.New[model.Cell]()
	for z := 0; z < g.Rows; z++ {
		for x := 0; x < g.Cols; x++ {
			if g.IsDoor(x, z) && !exclude.Contains(x, z) {
				visited[z*g.Cols+x] = true
				q.Enqueue(model.Cell{X: x, Z: z})
			}
		}
	}

	count := 0
	dirs := [4]model.GridDir{model.DirBottom, model.DirTop, model.DirLeft, model.DirRight}
	for !q.Empty() {
		c := q.Dequeue()
		count++
		for _, d := range dirs {
			dx, dz := d.Delta()
			nx, nz := c.X+dx, c.Z+dz
			if !g.InBounds(nx, nz) || visited[nz*g.Cols+nx] {
				continue
			}
			if exclude.Contains(nx, nz) || !g.IsWalkable(nx, nz) {
				continue
			}
			visited[nz*g.Cols+nx] = true
			q.Enqueue(model.Cell{X: nx, Z: nz})
		}
	}
	return count
}

// PassagePreserved reports whether placing a body on hypothetical keeps the
// floor reachable from the doors: the reachable count may drop below
// baseline by at most the body's area plus tolerance. Rooms without doors
// always pass.
func PassagePreserved(g *grid.RoomGrid, hypothetical grid.Rect, baseline, tolerance int) bool {
	if !g.HasDoors() {
		return true
	}
	reachable := ReachableCount(g, hypothetical)
	return reachable >= baseline-hypothetical.Area()-tolerance
}
