package grid

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RoomFit/internal/model"
	"github.com/piwi3910/RoomFit/internal/monitoring"
)

func init() {
	monitoring.SetLogger(nil)
}

func squareRoom(id int, size float64) model.Room {
	return model.Room{
		ID:      id,
		Name:    "Square",
		Outline: model.Outline{{X: 0, Z: 0}, {X: size, Z: 0}, {X: size, Z: size}, {X: 0, Z: size}},
	}
}

func buildSquare(t *testing.T, layout *model.Layout) *RoomGrid {
	t.Helper()
	g, err := NewBuilder(model.DefaultSettings()).Build(layout.Rooms[0], layout)
	require.NoError(t, err)
	return g
}

func TestBuild_SquareRoomDimensions(t *testing.T) {
	layout := model.NewLayout()
	layout.Rooms = append(layout.Rooms, squareRoom(1, 10))

	g := buildSquare(t, &layout)

	assert.Equal(t, 100, g.Cols)
	assert.Equal(t, 100, g.Rows)
	s := g.Stats()
	assert.Equal(t, 10000, s.Floor)
	assert.Equal(t, 10000, s.Free)
	assert.Equal(t, 396, s.WallZone)
	assert.Equal(t, 0, s.Door)
	assert.InDelta(t, 100.0, s.FloorArea, 1e-6)
	assert.True(t, g.IsWallZone(0, 50))
	assert.True(t, g.IsWallZone(99, 99))
	assert.False(t, g.IsWallZone(1, 1))
}

func TestBuild_LShapedRoom(t *testing.T) {
	layout := model.NewLayout()
	layout.Rooms = append(layout.Rooms, model.Room{
		ID: 1,
		Outline: model.Outline{
			{X: 0, Z: 0}, {X: 4, Z: 0}, {X: 4, Z: 2}, {X: 2, Z: 2}, {X: 2, Z: 4}, {X: 0, Z: 4},
		},
	})

	g := buildSquare(t, &layout)

	assert.Equal(t, 40, g.Cols)
	assert.Equal(t, 40, g.Rows)
	assert.True(t, g.IsFloor(5, 5))
	assert.True(t, g.IsFloor(35, 5))
	assert.False(t, g.IsFloor(35, 35), "notch must not be floor")
	assert.False(t, g.IsPlaceable(35, 35))
	// Cells along the inner corner touch the notch.
	assert.True(t, g.IsWallZone(25, 19))
	assert.True(t, g.IsWallZone(19, 25))
	assert.False(t, g.IsWallZone(18, 18))
}

func TestBuild_DegenerateOutline(t *testing.T) {
	layout := model.NewLayout()
	layout.Rooms = append(layout.Rooms,
		model.Room{ID: 1, Outline: model.Outline{{X: 0, Z: 0}, {X: 1, Z: 1}}},
		model.Room{ID: 2, Outline: model.Outline{{X: 0, Z: 0}, {X: 3, Z: 0}, {X: 3, Z: 0}}},
		squareRoom(3, 2),
	)

	b := NewBuilder(model.DefaultSettings())
	g, err := b.Build(layout.Rooms[0], &layout)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.RejectInvalidRoomGeometry))
	assert.True(t, g.Empty())

	_, err = b.Build(layout.Rooms[1], &layout)
	assert.True(t, errors.Is(err, model.RejectInvalidRoomGeometry))

	reg := b.BuildAll(&layout)
	assert.Equal(t, 3, reg.Len())
	good, err := reg.Get(3)
	require.NoError(t, err)
	assert.Equal(t, 20, good.Cols)
	bad, err := reg.Get(1)
	require.NoError(t, err)
	assert.True(t, bad.Empty())
	assert.False(t, bad.IsPlaceable(0, 0))
}

func northDoorLayout(kind model.DoorKind) model.Layout {
	layout := model.NewLayout()
	layout.Rooms = append(layout.Rooms, squareRoom(1, 10))
	layout.Walls = append(layout.Walls, model.Wall{
		ID: "north", Start: model.Point2D{X: 0, Z: 10}, End: model.Point2D{X: 10, Z: 10}, RoomIDs: []int{1},
	})
	layout.Doors = append(layout.Doors, model.Door{
		ID:     "d1",
		WallID: "north",
		Kind:   kind,
		Center: model.Vec3{X: 5, Z: 10},
		Hinge:  model.Vec3{X: 4.5, Z: 10},
		Width:  1,
	})
	return layout
}

func TestBuild_HingedDoorCarvesSwingQuadrant(t *testing.T) {
	layout := northDoorLayout(model.DoorHinged)
	g := buildSquare(t, &layout)

	assert.Equal(t, 100, g.Stats().Door)
	for z := 90; z < 100; z++ {
		for x := 45; x < 55; x++ {
			assert.True(t, g.IsDoor(x, z), "cell (%d,%d) should be a door cell", x, z)
			assert.False(t, g.IsPlaceable(x, z))
		}
	}
	assert.False(t, g.IsDoor(44, 95))
	assert.False(t, g.IsDoor(55, 95))
	assert.False(t, g.IsDoor(50, 89))
	assert.True(t, g.IsPlaceable(50, 89))
	// Wall zones are derived from the floor, not from carving.
	assert.True(t, g.IsWallZone(50, 99))
	assert.True(t, g.IsWalkable(50, 95))
}

func TestBuild_SlidingDoorCarvesStrip(t *testing.T) {
	layout := northDoorLayout(model.DoorSliding)
	g := buildSquare(t, &layout)

	assert.Equal(t, 50, g.Stats().Door)
	assert.True(t, g.IsDoor(45, 95))
	assert.True(t, g.IsDoor(54, 99))
	assert.False(t, g.IsDoor(50, 94))
}

func TestBuild_WindowIsIgnored(t *testing.T) {
	layout := northDoorLayout(model.DoorWindow)
	g := buildSquare(t, &layout)
	assert.Equal(t, 0, g.Stats().Door)
}

func TestBuild_ExplicitSwingSide(t *testing.T) {
	layout := model.NewLayout()
	layout.Rooms = append(layout.Rooms,
		model.Room{ID: 1, Outline: model.Outline{{X: 0, Z: 0}, {X: 5, Z: 0}, {X: 5, Z: 5}, {X: 0, Z: 5}}},
		model.Room{ID: 2, Outline: model.Outline{{X: 5, Z: 0}, {X: 10, Z: 0}, {X: 10, Z: 5}, {X: 5, Z: 5}}},
	)
	layout.Walls = append(layout.Walls, model.Wall{
		ID: "shared", Start: model.Point2D{X: 5, Z: 0}, End: model.Point2D{X: 5, Z: 5}, RoomIDs: []int{1, 2},
	})
	layout.Doors = append(layout.Doors, model.Door{
		ID: "d1", WallID: "shared", Kind: model.DoorHinged,
		Center: model.Vec3{X: 5, Z: 2.5}, Hinge: model.Vec3{X: 5, Z: 2}, Width: 1,
		Swing: model.SwingLeft,
	})

	reg := NewBuilder(model.DefaultSettings()).BuildAll(&layout)
	left, err := reg.Get(1)
	require.NoError(t, err)
	right, err := reg.Get(2)
	require.NoError(t, err)

	// The leaf sweeps the room on the left of the wall direction.
	assert.Equal(t, 100, left.Stats().Door)
	assert.True(t, left.IsDoor(40, 20))
	assert.True(t, left.IsDoor(49, 29))
	assert.False(t, left.IsDoor(39, 25))

	// The other room keeps an approach strip.
	assert.Equal(t, 50, right.Stats().Door)
	assert.True(t, right.IsDoor(0, 20))
	assert.True(t, right.IsDoor(4, 29))
	assert.False(t, right.IsDoor(5, 25))
}

func TestWorldToGridAndCellCenter(t *testing.T) {
	g := NewRoomGrid(1, model.Point2D{X: 2, Z: 3}, 0.5, 4, 4)

	assert.Equal(t, model.Cell{X: 1, Z: 0}, g.WorldToGrid(model.Point2D{X: 2.74, Z: 3.1}))
	assert.Equal(t, model.Cell{X: -1, Z: 0}, g.WorldToGrid(model.Point2D{X: 1.9, Z: 3}))
	c := g.CellCenter(model.Cell{X: 1, Z: 0})
	assert.InDelta(t, 2.75, c.X, 1e-9)
	assert.InDelta(t, 3.25, c.Z, 1e-9)
	r := g.RectCenter(Rect{X: 0, Z: 0, W: 2, D: 1})
	assert.InDelta(t, 2.5, r.X, 1e-9)
	assert.InDelta(t, 3.25, r.Z, 1e-9)
}

func TestOutOfBoundsQueries(t *testing.T) {
	layout := model.NewLayout()
	layout.Rooms = append(layout.Rooms, squareRoom(1, 1))
	g := buildSquare(t, &layout)

	for _, c := range []model.Cell{{X: -1, Z: 0}, {X: 0, Z: -1}, {X: 10, Z: 0}, {X: 0, Z: 10}} {
		assert.False(t, g.InBounds(c.X, c.Z))
		assert.False(t, g.IsPlaceable(c.X, c.Z))
		assert.False(t, g.IsWalkable(c.X, c.Z))
	}
}

func TestMarkUnmarkRoundTrip(t *testing.T) {
	layout := northDoorLayout(model.DoorHinged)
	g := buildSquare(t, &layout)
	before := g.Clone()

	total := Rect{X: 10, Z: 10, W: 24, D: 16}
	body := Rect{X: 12, Z: 10, W: 20, D: 10}
	Mark(g, total, body)

	assert.False(t, g.IsPlaceable(10, 10))
	assert.True(t, g.IsOccupied(33, 25))
	assert.True(t, g.IsBody(12, 10))
	assert.False(t, g.IsBody(10, 10))
	assert.True(t, g.IsWalkable(10, 10), "clearance stays walkable")
	assert.False(t, g.IsWalkable(12, 10), "body is not walkable")

	Unmark(g, total, body)

	if diff := cmp.Diff(before, g, cmp.AllowUnexported(RoomGrid{})); diff != "" {
		t.Errorf("masks differ after mark/unmark (-want +got):\n%s", diff)
	}
}

func TestMarkClipsToBounds(t *testing.T) {
	layout := model.NewLayout()
	layout.Rooms = append(layout.Rooms, squareRoom(1, 1))
	g := buildSquare(t, &layout)
	before := g.Clone()

	r := Rect{X: -5, Z: 8, W: 8, D: 8}
	Mark(g, r, r)
	assert.True(t, g.IsBody(0, 9))
	assert.True(t, g.IsBody(2, 8))
	Unmark(g, r, r)

	assert.True(t, cmp.Equal(before, g, cmp.AllowUnexported(RoomGrid{})))
}

func TestUnmarkFreesWholeTotal(t *testing.T) {
	layout := northDoorLayout(model.DoorHinged)
	g := buildSquare(t, &layout)

	a := Rect{X: 10, Z: 10, W: 10, D: 10}
	b := Rect{X: 20, Z: 10, W: 10, D: 10}
	Mark(g, a, a)
	Mark(g, b, b)
	Unmark(g, a, a)

	assert.True(t, g.IsPlaceable(19, 19))
	assert.False(t, g.IsOccupied(10, 10))
	assert.True(t, g.IsOccupied(20, 10), "adjacent total stays marked")
	assert.True(t, g.IsBody(29, 19))
	assert.False(t, g.IsPlaceable(20, 19))
}

func TestMarkHugeRectStaysInsideGrid(t *testing.T) {
	layout := model.NewLayout()
	layout.Rooms = append(layout.Rooms, squareRoom(1, 1))
	g := buildSquare(t, &layout)
	before := g.Clone()

	r := Rect{X: -1 << 30, Z: -1 << 30, W: 1 << 31, D: 1 << 31}
	Mark(g, r, r)
	assert.True(t, g.IsBody(0, 0))
	assert.True(t, g.IsBody(g.Cols-1, g.Rows-1))
	Unmark(g, r, r)

	assert.True(t, cmp.Equal(before, g, cmp.AllowUnexported(RoomGrid{})))
}

func TestUnmarkNeverFreesDoorCells(t *testing.T) {
	layout := northDoorLayout(model.DoorHinged)
	g := buildSquare(t, &layout)

	r := Rect{X: 40, Z: 85, W: 20, D: 15}
	Mark(g, r, r)
	Unmark(g, r, r)

	assert.False(t, g.IsPlaceable(50, 95))
	assert.True(t, g.IsDoor(50, 95))
	assert.True(t, g.IsPlaceable(50, 85))
}

func TestReset(t *testing.T) {
	layout := northDoorLayout(model.DoorHinged)
	g := buildSquare(t, &layout)
	before := g.Clone()

	Mark(g, Rect{X: 0, Z: 0, W: 30, D: 30}, Rect{X: 5, Z: 5, W: 20, D: 20})
	Mark(g, Rect{X: 60, Z: 60, W: 10, D: 10}, Rect{X: 60, Z: 60, W: 10, D: 10})
	g.Reset()

	assert.True(t, cmp.Equal(before, g, cmp.AllowUnexported(RoomGrid{})))
}

func TestRegistry(t *testing.T) {
	layout := model.NewLayout()
	layout.Rooms = append(layout.Rooms, squareRoom(4, 2), squareRoom(2, 3))
	b := NewBuilder(model.DefaultSettings())
	reg := b.BuildAll(&layout)

	assert.Equal(t, []int{2, 4}, reg.RoomIDs())

	_, err := reg.Get(99)
	assert.True(t, errors.Is(err, model.RejectGridNotFound))

	g, err := reg.Get(2)
	require.NoError(t, err)
	Mark(g, Rect{X: 0, Z: 0, W: 5, D: 5}, Rect{X: 0, Z: 0, W: 5, D: 5})

	fresh, err := reg.Rebuild(b, &layout, 2)
	require.NoError(t, err)
	assert.True(t, fresh.IsPlaceable(0, 0))
	got, _ := reg.Get(2)
	assert.Same(t, fresh, got)

	_, err = reg.Rebuild(b, &layout, 77)
	assert.True(t, errors.Is(err, ErrGridNotFound))
}

func TestRectCells(t *testing.T) {
	r := RectAt(model.Cell{X: 1, Z: 2}, 2, 2)
	assert.Equal(t, 4, r.Area())
	assert.Equal(t, []model.Cell{{X: 1, Z: 2}, {X: 2, Z: 2}, {X: 1, Z: 3}, {X: 2, Z: 3}}, r.Cells())
	assert.True(t, r.Contains(2, 3))
	assert.False(t, r.Contains(3, 3))
	assert.Equal(t, 0, Rect{W: -1, D: 4}.Area())
}
