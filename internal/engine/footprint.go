package engine

import (
	"math"

	"github.com/piwi3910/RoomFit/internal/grid"
	"github.com/piwi3910/RoomFit/internal/model"
)

// cellEpsilon keeps exact multiples of the cell size from rounding up an
// extra cell because of floating point noise.
const cellEpsilon = 1e-9

// MaxFootprintCells bounds a footprint axis. It is larger than any grid the
// builder can allocate, so a clamped item can never fit.
const MaxFootprintCells = math.MaxInt32

// cmToCells converts a length in centimeters into whole cells, rounding up.
// Lengths beyond MaxFootprintCells cells (or NaN) clamp to it.
func cmToCells(cm, cellSize float64) int {
	if cm <= 0 {
		return 0
	}
	n := math.Ceil(cm*0.01/cellSize - cellEpsilon)
	if !(n < MaxFootprintCells) {
		return MaxFootprintCells
	}
	return int(n)
}

func usableCellSize(cellSize float64) float64 {
	if cellSize <= 0 || math.IsNaN(cellSize) {
		return model.DefaultCellSize
	}
	return cellSize
}

// FootprintCells returns the body size in cells of an item at rotation.
// Width and depth swap at 90 and 270 degrees; partial cells round up and
// each axis is at least one cell.
func FootprintCells(size model.SizeCM, cellSize float64, rotation int) (w, d int) {
	cellSize = usableCellSize(cellSize)
	width, depth := size.Width, size.Depth
	if r := model.NormalizeRotation(rotation); r == 90 || r == 270 {
		width, depth = depth, width
	}
	w = cmToCells(width, cellSize)
	d = cmToCells(depth, cellSize)
	if w < 1 {
		w = 1
	}
	if d < 1 {
		d = 1
	}
	return w, d
}

// PivotFromOrigin returns the logical center cell of a w x d footprint whose
// lower-left cell is origin. Even sizes round toward the origin.
func PivotFromOrigin(origin model.Cell, w, d int) model.Cell {
	return model.Cell{X: origin.X + (w-1)/2, Z: origin.Z + (d-1)/2}
}

// OriginFromPivot is the inverse of PivotFromOrigin for the same size.
func OriginFromPivot(pivot model.Cell, w, d int) model.Cell {
	return model.Cell{X: pivot.X - (w-1)/2, Z: pivot.Z - (d-1)/2}
}

// ClearanceCells is clearance in cells on each grid side of a footprint.
type ClearanceCells struct {
	Bottom, Top, Left, Right int
}

// RotatedClearanceCells maps an item's clearance onto grid sides for the
// given rotation and converts it to cells.
func RotatedClearanceCells(c model.Clearance, cellSize float64, rotation int) ClearanceCells {
	cellSize = usableCellSize(cellSize)
	var out ClearanceCells
	for _, side := range model.Sides {
		n := cmToCells(float64(c.Get(side)), cellSize)
		switch model.SideToGrid(side, rotation) {
		case model.DirBottom:
			out.Bottom = n
		case model.DirTop:
			out.Top = n
		case model.DirLeft:
			out.Left = n
		case model.DirRight:
			out.Right = n
		}
	}
	return out
}

// Footprint is an item's body and total (body plus clearance) rectangles at
// one rotation.
type Footprint struct {
	Rotation  int
	Body      grid.Rect
	Total     grid.Rect
	Clearance ClearanceCells
}

// Pivot returns the body's pivot cell.
func (f Footprint) Pivot() model.Cell {
	return PivotFromOrigin(f.Body.Origin(), f.Body.W, f.Body.D)
}

// shape computes the footprint of item at rotation with its body origin at
// (0,0).
func shape(item *model.FurnitureItem, cellSize float64, rotation int) Footprint {
	w, d := FootprintCells(item.Size, cellSize, rotation)
	cl := RotatedClearanceCells(item.Clearance, cellSize, rotation)
	return Footprint{
		Rotation:  model.NormalizeRotation(rotation),
		Body:      grid.Rect{W: w, D: d},
		Total:     grid.Rect{X: -cl.Left, Z: -cl.Bottom, W: cl.Left + w + cl.Right, D: cl.Bottom + d + cl.Top},
		Clearance: cl,
	}
}

// at moves the footprint so its body origin is origin.
func (f Footprint) at(origin model.Cell) Footprint {
	f.Total.X += origin.X - f.Body.X
	f.Total.Z += origin.Z - f.Body.Z
	f.Body.X, f.Body.Z = origin.X, origin.Z
	return f
}

// FootprintAtOrigin returns the footprint of item with its body's lower-left
// cell at origin.
func FootprintAtOrigin(item *model.FurnitureItem, cellSize float64, origin model.Cell, rotation int) Footprint {
	return shape(item, cellSize, rotation).at(origin)
}

// FootprintAtPivot returns the footprint of item centered on pivot.
func FootprintAtPivot(item *model.FurnitureItem, cellSize float64, pivot model.Cell, rotation int) Footprint {
	s := shape(item, cellSize, rotation)
	return s.at(OriginFromPivot(pivot, s.Body.W, s.Body.D))
}
