package engine

import (
	"math"

	"github.com/piwi3910/RoomFit/internal/grid"
	"github.com/piwi3910/RoomFit/internal/model"
)

// validSize reports whether the item has a usable physical footprint.
func validSize(size model.SizeCM) bool {
	return size.Width > 0 && size.Depth > 0 &&
		!math.IsNaN(size.Width) && !math.IsNaN(size.Depth) &&
		!math.IsInf(size.Width, 0) && !math.IsInf(size.Depth, 0)
}

// CanPlace checks whether item fits with its body's lower-left cell at
// origin: the rotation must be a quarter turn, every body cell must be in
// bounds and placeable, and every side the item requires against a wall
// must touch the room boundary. It has no side effects and returns the
// footprint on success.
func CanPlace(g *grid.RoomGrid, item *model.FurnitureItem, origin model.Cell, rotation int) (Footprint, error) {
	if !model.IsRightAngle(rotation) {
		return Footprint{}, model.RejectInvalidRotation
	}
	if !validSize(item.Size) {
		return Footprint{}, model.RejectDegenerateFootprint
	}
	fp := FootprintAtOrigin(item, g.CellSize, origin, rotation)
	if fp.Body.W <= 0 || fp.Body.D <= 0 {
		return fp, model.RejectDegenerateFootprint
	}
	if err := CheckArea(g, fp.Body); err != nil {
		return fp, err
	}
	if err := checkWalls(g, item, fp); err != nil {
		return fp, err
	}
	return fp, nil
}

// CanPlaceWithClearance is CanPlace with the clearance area also required to
// be in bounds and placeable.
func CanPlaceWithClearance(g *grid.RoomGrid, item *model.FurnitureItem, origin model.Cell, rotation int) (Footprint, error) {
	fp, err := CanPlace(g, item, origin, rotation)
	if err != nil {
		return fp, err
	}
	if err := CheckArea(g, fp.Total); err != nil {
		return fp, err
	}
	return fp, nil
}

// CheckArea reports model.RejectOutOfBounds when r leaves the grid and
// model.RejectCellOccupied when any cell of r is not placeable.
func CheckArea(g *grid.RoomGrid, r grid.Rect) error {
	if r.W <= 0 || r.D <= 0 || r.W > g.Cols || r.D > g.Rows ||
		!g.InBounds(r.X, r.Z) || !g.InBounds(r.X+r.W-1, r.Z+r.D-1) {
		return model.RejectOutOfBounds
	}
	for z := r.Z; z < r.Z+r.D; z++ {
		for x := r.X; x < r.X+r.W; x++ {
			if !g.IsPlaceable(x, z) {
				return model.RejectCellOccupied
			}
		}
	}
	return nil
}

func checkWalls(g *grid.RoomGrid, item *model.FurnitureItem, fp Footprint) error {
	if !item.Wall.Any() {
		return nil
	}
	for _, side := range model.Sides {
		if !item.Wall.Requires(side) {
			continue
		}
		if !SideTouchesWall(g, fp.Body, model.SideToGrid(side, fp.Rotation)) {
			return model.RejectWallAdjacencyUnmet
		}
	}
	return nil
}

// SideTouchesWall reports whether every cell along the body edge facing dir
// is a wall-zone cell whose neighbor in that direction is outside the grid
// or off the room floor.
func SideTouchesWall(g *grid.RoomGrid, body grid.Rect, dir model.GridDir) bool {
	var edge []model.Cell
	switch dir {
	case model.DirBottom:
		edge = grid.Rect{X: body.X, Z: body.Z, W: body.W, D: 1}.Cells()
	case model.DirTop:
		edge = grid.Rect{X: body.X, Z: body.Z + body.D - 1, W: body.W, D: 1}.Cells()
	case model.DirLeft:
		edge = grid.Rect{X: body.X, Z: body.Z, W: 1, D: body.D}.Cells()
	case model.DirRight:
		edge = grid.Rect{X: body.X + body.W - 1, Z: body.Z, W: 1, D: body.D}.Cells()
	}
	if len(edge) == 0 {
		return false
	}
	dx, dz := dir.Delta()
	for _, c := range edge {
		if !g.IsWallZone(c.X, c.Z) {
			return false
		}
		nx, nz := c.X+dx, c.Z+dz
		if g.InBounds(nx, nz) && g.IsFloor(nx, nz) {
			return false
		}
	}
	return true
}

// areaIndex answers "is every cell of this rectangle placeable" in constant
// time using a summed-area table of blocked cells.
type areaIndex struct {
	cols, rows int
	sum        []int // (cols+1) x (rows+1)
}

func newAreaIndex(g *grid.RoomGrid) *areaIndex {
	ai := &areaIndex{cols: g.Cols, rows: g.Rows, sum: make([]int, (g.Cols+1)*(g.Rows+1))}
	stride := g.Cols + 1
	for z := 0; z < g.Rows; z++ {
		for x := 0; x < g.Cols; x++ {
			blocked := 0
			if !g.IsPlaceable(x, z) {
				blocked = 1
			}
			ai.sum[(z+1)*stride+x+1] = blocked +
				ai.sum[z*stride+x+1] +
				ai.sum[(z+1)*stride+x] -
				ai.sum[z*stride+x]
		}
	}
	return ai
}

func (ai *areaIndex) free(r grid.Rect) bool {
	if r.W <= 0 || r.D <= 0 || r.X < 0 || r.Z < 0 || r.X+r.W > ai.cols || r.Z+r.D > ai.rows {
		return false
	}
	stride := ai.cols + 1
	x0, z0, x1, z1 := r.X, r.Z, r.X+r.W, r.Z+r.D
	blocked := ai.sum[z1*stride+x1] - ai.sum[z0*stride+x1] - ai.sum[z1*stride+x0] + ai.sum[z0*stride+x0]
	return blocked == 0
}
