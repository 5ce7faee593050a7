package grid

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/piwi3910/RoomFit/internal/model"
	"github.com/piwi3910/RoomFit/internal/monitoring"
)

// sizeEpsilon absorbs floating point noise so a 10 m room at 0.1 m cells
// yields exactly 100 columns.
const sizeEpsilon = 1e-9

// Builder rasterizes rooms of a layout into RoomGrids.
type Builder struct {
	Settings model.Settings
}

// NewBuilder returns a Builder using validated settings.
func NewBuilder(settings model.Settings) *Builder {
	return &Builder{Settings: settings.Validate()}
}

// Build rasterizes one room of the layout and carves its door zones. A room
// with a degenerate outline produces an empty grid together with an error
// wrapping model.RejectInvalidRoomGeometry; the grid is still usable and
// simply rejects every placement.
func (b *Builder) Build(room model.Room, layout *model.Layout) (*RoomGrid, error) {
	cell := b.Settings.CellSize
	min, max := room.Outline.BoundingBox()

	if len(room.Outline) < 3 {
		return NewRoomGrid(room.ID, min, cell, 0, 0),
			fmt.Errorf("room %d has %d outline points: %w", room.ID, len(room.Outline), model.RejectInvalidRoomGeometry)
	}

	cols := int(math.Ceil((max.X-min.X)/cell - sizeEpsilon))
	rows := int(math.Ceil((max.Z-min.Z)/cell - sizeEpsilon))
	if cols <= 0 || rows <= 0 {
		return NewRoomGrid(room.ID, min, cell, 0, 0),
			fmt.Errorf("room %d has a zero-size outline: %w", room.ID, model.RejectInvalidRoomGeometry)
	}

	g := NewRoomGrid(room.ID, min, cell, cols, rows)
	ring := room.Outline.Ring()
	rasterize(g, ring)
	deriveWallZones(g)

	if layout != nil {
		c := &carver{grid: g, ring: ring, settings: b.Settings}
		for _, door := range layout.DoorsForRoom(room.ID) {
			wall := layout.FindWall(door.WallID)
			if wall == nil {
				continue
			}
			if n := c.carve(door, *wall); n == 0 {
				monitoring.Warnf("door %s carved no cells in room %d", door.ID, room.ID)
			}
		}
	}

	copy(g.base, g.Placement)
	return g, nil
}

// BuildAll builds a grid for every room of the layout. Rooms that fail are
// logged and registered with an empty grid so the rest of the layout still
// builds.
func (b *Builder) BuildAll(layout *model.Layout) *Registry {
	reg := NewRegistry()
	for _, room := range layout.Rooms {
		g, err := b.Build(room, layout)
		if err != nil {
			monitoring.Warnf("building grid: %v", err)
		}
		reg.Put(g)
	}
	return reg
}

// rasterize marks every cell whose center lies inside or on the ring as
// floor and placeable.
func rasterize(g *RoomGrid, ring orb.Ring) {
	for z := 0; z < g.Rows; z++ {
		for x := 0; x < g.Cols; x++ {
			c := g.CellCenter(model.Cell{X: x, Z: z})
			if planar.RingContains(ring, c.Orb()) {
				i := g.index(x, z)
				g.Floor[i] = true
				g.Placement[i] = true
			}
		}
	}
}

// deriveWallZones flags floor cells with a 4-neighbor that is off the floor
// or outside the grid.
func deriveWallZones(g *RoomGrid) {
	for z := 0; z < g.Rows; z++ {
		for x := 0; x < g.Cols; x++ {
			if !g.Floor[g.index(x, z)] {
				continue
			}
			for _, d := range [4]model.GridDir{model.DirBottom, model.DirTop, model.DirLeft, model.DirRight} {
				dx, dz := d.Delta()
				if !g.IsFloor(x+dx, z+dz) {
					g.WallZone[g.index(x, z)] = true
					break
				}
			}
		}
	}
}
