// Package grid holds the per-room occupancy grids and the code that builds
// and mutates them.
package grid

import (
	"math"

	"github.com/piwi3910/RoomFit/internal/model"
)

// RoomGrid is a room's floor rasterized into square cells. All masks are
// stored row-major (index = z*Cols + x) and share the grid dimensions.
type RoomGrid struct {
	RoomID   int
	Origin   model.Point2D // world position of the lower corner of cell (0,0)
	CellSize float64
	Cols     int
	Rows     int

	Floor     []bool // cell center inside the room polygon
	Placement []bool // a footprint may start here
	Occupied  []bool // reserved by a placed item's body or clearance
	WallZone  []bool // floor cell touching the room boundary
	Door      []bool // door swing or approach zone
	Body      []bool // under a placed item's body

	base []bool // Placement as built, before any item was marked
}

// NewRoomGrid allocates a grid with every mask cleared.
func NewRoomGrid(roomID int, origin model.Point2D, cellSize float64, cols, rows int) *RoomGrid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	n := cols * rows
	return &RoomGrid{
		RoomID:    roomID,
		Origin:    origin,
		CellSize:  cellSize,
		Cols:      cols,
		Rows:      rows,
		Floor:     make([]bool, n),
		Placement: make([]bool, n),
		Occupied:  make([]bool, n),
		WallZone:  make([]bool, n),
		Door:      make([]bool, n),
		Body:      make([]bool, n),
		base:      make([]bool, n),
	}
}

// Empty reports whether the grid has no cells.
func (g *RoomGrid) Empty() bool {
	return g.Cols == 0 || g.Rows == 0
}

// InBounds reports whether (x, z) is inside [0,Cols)x[0,Rows).
func (g *RoomGrid) InBounds(x, z int) bool {
	return x >= 0 && z >= 0 && x < g.Cols && z < g.Rows
}

func (g *RoomGrid) index(x, z int) int {
	return z*g.Cols + x
}

func (g *RoomGrid) at(mask []bool, x, z int) bool {
	if !g.InBounds(x, z) {
		return false
	}
	return mask[g.index(x, z)]
}

// IsFloor reports whether the cell lies inside the room polygon.
func (g *RoomGrid) IsFloor(x, z int) bool { return g.at(g.Floor, x, z) }

// IsPlaceable reports whether a footprint may cover the cell.
func (g *RoomGrid) IsPlaceable(x, z int) bool { return g.at(g.Placement, x, z) }

// IsOccupied reports whether a placed item reserves the cell.
func (g *RoomGrid) IsOccupied(x, z int) bool { return g.at(g.Occupied, x, z) }

// IsWallZone reports whether the cell touches the room boundary.
func (g *RoomGrid) IsWallZone(x, z int) bool { return g.at(g.WallZone, x, z) }

// IsDoor reports whether the cell is part of a door zone.
func (g *RoomGrid) IsDoor(x, z int) bool { return g.at(g.Door, x, z) }

// IsBody reports whether a placed item's body covers the cell.
func (g *RoomGrid) IsBody(x, z int) bool { return g.at(g.Body, x, z) }

// IsWalkable reports whether a person can stand on the cell. Door zones are
// walkable, item bodies are not, free floor and clearance zones are.
func (g *RoomGrid) IsWalkable(x, z int) bool {
	if !g.InBounds(x, z) {
		return false
	}
	i := g.index(x, z)
	if g.Door[i] {
		return true
	}
	if g.Body[i] {
		return false
	}
	return g.Placement[i] || g.Occupied[i]
}

// HasDoors reports whether any cell is a door cell.
func (g *RoomGrid) HasDoors() bool {
	for _, d := range g.Door {
		if d {
			return true
		}
	}
	return false
}

// WorldToGrid returns the cell containing the world position. The result may
// be out of bounds.
func (g *RoomGrid) WorldToGrid(p model.Point2D) model.Cell {
	return model.Cell{
		X: int(math.Floor((p.X - g.Origin.X) / g.CellSize)),
		Z: int(math.Floor((p.Z - g.Origin.Z) / g.CellSize)),
	}
}

// CellCenter returns the world position of the cell's center.
func (g *RoomGrid) CellCenter(c model.Cell) model.Point2D {
	return model.Point2D{
		X: g.Origin.X + (float64(c.X)+0.5)*g.CellSize,
		Z: g.Origin.Z + (float64(c.Z)+0.5)*g.CellSize,
	}
}

// RectCenter returns the world position of the center of r.
func (g *RoomGrid) RectCenter(r Rect) model.Point2D {
	return model.Point2D{
		X: g.Origin.X + (float64(r.X)+float64(r.W)/2)*g.CellSize,
		Z: g.Origin.Z + (float64(r.Z)+float64(r.D)/2)*g.CellSize,
	}
}

// Reset restores the grid to its built state, dropping every mark.
func (g *RoomGrid) Reset() {
	copy(g.Placement, g.base)
	for i := range g.Occupied {
		g.Occupied[i] = false
		g.Body[i] = false
	}
}

// Stats summarizes the grid's masks.
type Stats struct {
	Cells     int
	Floor     int
	Free      int
	Occupied  int
	Body      int
	Door      int
	WallZone  int
	Walkable  int
	FloorArea float64 // square meters
}

// Stats counts the cells in each mask.
func (g *RoomGrid) Stats() Stats {
	s := Stats{Cells: g.Cols * g.Rows}
	for z := 0; z < g.Rows; z++ {
		for x := 0; x < g.Cols; x++ {
			i := g.index(x, z)
			if g.Floor[i] {
				s.Floor++
			}
			if g.Placement[i] {
				s.Free++
			}
			if g.Occupied[i] {
				s.Occupied++
			}
			if g.Body[i] {
				s.Body++
			}
			if g.Door[i] {
				s.Door++
			}
			if g.WallZone[i] {
				s.WallZone++
			}
			if g.IsWalkable(x, z) {
				s.Walkable++
			}
		}
	}
	s.FloorArea = float64(s.Floor) * g.CellSize * g.CellSize
	return s
}

// Clone returns a deep copy of the grid.
func (g *RoomGrid) Clone() *RoomGrid {
	c := *g
	c.Floor = append([]bool(nil), g.Floor...)
	c.Placement = append([]bool(nil), g.Placement...)
	c.Occupied = append([]bool(nil), g.Occupied...)
	c.WallZone = append([]bool(nil), g.WallZone...)
	c.Door = append([]bool(nil), g.Door...)
	c.Body = append([]bool(nil), g.Body...)
	c.base = append([]bool(nil), g.base...)
	return &c
}

// Rect is an axis-aligned block of cells with its lower-left corner at (X, Z).
type Rect struct {
	X, Z int
	W, D int
}

// RectAt builds a Rect from an origin cell and a size in cells.
func RectAt(origin model.Cell, w, d int) Rect {
	return Rect{X: origin.X, Z: origin.Z, W: w, D: d}
}

// Origin returns the lower-left cell.
func (r Rect) Origin() model.Cell { return model.Cell{X: r.X, Z: r.Z} }

// Area returns the number of cells in r.
func (r Rect) Area() int {
	if r.W <= 0 || r.D <= 0 {
		return 0
	}
	return r.W * r.D
}

// Contains reports whether (x, z) lies inside r.
func (r Rect) Contains(x, z int) bool {
	return x >= r.X && z >= r.Z && x < r.X+r.W && z < r.Z+r.D
}

// Cells lists every cell of r in row-major order.
func (r Rect) Cells() []model.Cell {
	cells := make([]model.Cell, 0, r.Area())
	for z := r.Z; z < r.Z+r.D; z++ {
		for x := r.X; x < r.X+r.W; x++ {
			cells = append(cells, model.Cell{X: x, Z: z})
		}
	}
	return cells
}
