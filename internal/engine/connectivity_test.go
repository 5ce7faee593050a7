package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RoomFit/internal/grid"
	"github.com/piwi3910/RoomFit/internal/model"
)

func TestReachableCount_ConnectedRoom(t *testing.T) {
	g := buildRoom(t, northDoorLayout())

	assert.Equal(t, 10000, WalkableCount(g))
	assert.Equal(t, 10000, ReachableCount(g, grid.Rect{}))
	assert.Equal(t, 9800, ReachableCount(g, grid.Rect{X: 10, Z: 0, W: 20, D: 10}))
}

func TestPassagePreserved_NoDoorsAlwaysPasses(t *testing.T) {
	g := buildRoom(t, squareLayout(2))
	assert.True(t, PassagePreserved(g, grid.Rect{X: 0, Z: 0, W: 20, D: 20}, 400, 0))
}

func TestPassagePreserved_BlockedCorridor(t *testing.T) {
	g := buildRoom(t, corridorLayout())
	item := sofa()
	baseline := ReachableCount(g, grid.Rect{})
	require.Equal(t, 10400, baseline)

	// The validator alone accepts a sofa across the corridor...
	fp, err := CanPlace(g, &item, model.Cell{X: 15, Z: 0}, 0)
	require.NoError(t, err)

	// ...but it cuts the hall off from the only door.
	assert.False(t, PassagePreserved(g, fp.Body, baseline, DefaultConnectivityTolerance))
	assert.Equal(t, 150, ReachableCount(g, fp.Body))

	fp, err = CanPlace(g, &item, model.Cell{X: 41, Z: 0}, 0)
	require.NoError(t, err)
	assert.True(t, PassagePreserved(g, fp.Body, baseline, DefaultConnectivityTolerance))
}

func TestPassagePreserved_Tolerance(t *testing.T) {
	g := buildRoom(t, corridorLayout())
	baseline := ReachableCount(g, grid.Rect{})

	// Pretend the baseline was a few cells larger than reality.
	body := grid.Rect{X: 41, Z: 0, W: 20, D: 10}
	assert.True(t, PassagePreserved(g, body, baseline+5, 5))
	assert.False(t, PassagePreserved(g, body, baseline+6, 5))
}

func TestWalkable_ClearanceYesBodyNo(t *testing.T) {
	g := buildRoom(t, northDoorLayout())
	grid.Mark(g, grid.Rect{X: 10, Z: 0, W: 20, D: 15}, grid.Rect{X: 10, Z: 0, W: 20, D: 10})

	assert.Equal(t, 9800, WalkableCount(g))
	assert.Equal(t, 9800, ReachableCount(g, grid.Rect{}))
}
