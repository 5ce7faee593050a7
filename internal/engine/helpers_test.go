package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RoomFit/internal/grid"
	"github.com/piwi3910/RoomFit/internal/model"
	"github.com/piwi3910/RoomFit/internal/monitoring"
)

func init() {
	monitoring.SetLogger(nil)
}

func defaultTestSettings() model.Settings {
	return model.DefaultSettings()
}

func squareLayout(size float64) model.Layout {
	layout := model.NewLayout()
	layout.Rooms = append(layout.Rooms, model.Room{
		ID:      1,
		Name:    "Room",
		Outline: model.Outline{{X: 0, Z: 0}, {X: size, Z: 0}, {X: size, Z: size}, {X: 0, Z: size}},
	})
	return layout
}

// northDoorLayout is a 10 x 10 m room with a 1 m door in the middle of the
// north wall.
func northDoorLayout() model.Layout {
	layout := squareLayout(10)
	layout.Walls = append(layout.Walls, model.Wall{
		ID: "north", Start: model.Point2D{X: 0, Z: 10}, End: model.Point2D{X: 10, Z: 10}, RoomIDs: []int{1},
	})
	layout.Doors = append(layout.Doors, model.Door{
		ID: "d1", WallID: "north", Kind: model.DoorHinged,
		Center: model.Vec3{X: 5, Z: 10}, Hinge: model.Vec3{X: 4.5, Z: 10}, Width: 1,
	})
	return layout
}

// corridorLayout is a 4 x 1 m corridor entered through a door on its west
// end, opening onto a 10 x 10 m hall.
func corridorLayout() model.Layout {
	layout := model.NewLayout()
	layout.Rooms = append(layout.Rooms, model.Room{
		ID:   1,
		Name: "Hall",
		Outline: model.Outline{
			{X: 0, Z: 0}, {X: 14, Z: 0}, {X: 14, Z: 10}, {X: 4, Z: 10}, {X: 4, Z: 1}, {X: 0, Z: 1},
		},
	})
	layout.Walls = append(layout.Walls, model.Wall{
		ID: "west", Start: model.Point2D{X: 0, Z: 0}, End: model.Point2D{X: 0, Z: 1}, RoomIDs: []int{1},
	})
	layout.Doors = append(layout.Doors, model.Door{
		ID: "entry", WallID: "west", Kind: model.DoorHinged,
		Center: model.Vec3{X: 0, Z: 0.5}, Hinge: model.Vec3{X: 0, Z: 0}, Width: 1,
	})
	return layout
}

// sofa is 200 x 100 cm and must stand with its back against a wall.
func sofa() model.FurnitureItem {
	item := model.NewFurnitureItem("Sofa", 200, 100, 1)
	item.Wall.Back = true
	return item
}

func buildRoom(t *testing.T, layout model.Layout) *grid.RoomGrid {
	t.Helper()
	g, err := grid.NewBuilder(defaultTestSettings()).Build(layout.Rooms[0], &layout)
	require.NoError(t, err)
	return g
}

func newTestPlacer(t *testing.T, layout model.Layout, items ...model.FurnitureItem) (*Placer, *model.Inventory) {
	t.Helper()
	inv := model.NewInventory()
	for _, item := range items {
		inv.Add(item)
	}
	reg := grid.NewBuilder(defaultTestSettings()).BuildAll(&layout)
	return NewPlacer(defaultTestSettings(), reg, &inv), &inv
}

func roomGrid(t *testing.T, p *Placer, roomID int) *grid.RoomGrid {
	t.Helper()
	g, err := p.Grids().Get(roomID)
	require.NoError(t, err)
	return g
}

type memoryJournal struct {
	events []model.PlacementEvent
}

func (j *memoryJournal) Record(ev model.PlacementEvent) error {
	j.events = append(j.events, ev)
	return nil
}
