package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RoomFit/internal/grid"
	"github.com/piwi3910/RoomFit/internal/model"
)

func TestPreview_HoverMarksAndUnmarks(t *testing.T) {
	item := sofa()
	p, _ := newTestPlacer(t, northDoorLayout(), item)
	g := roomGrid(t, p, 1)
	before := g.Clone()

	s, err := p.BeginPreview(item.InstanceID, 1)
	require.NoError(t, err)

	res := s.Hover(model.Cell{X: 19, Z: 4})
	require.True(t, res.Valid)
	assert.Equal(t, grid.Rect{X: 10, Z: 0, W: 20, D: 10}, res.Body)
	assert.Len(t, res.Cells, 200)
	assert.True(t, g.IsBody(10, 0))

	res = s.Hover(model.Cell{X: 19, Z: 5})
	assert.False(t, res.Valid)
	assert.ErrorIs(t, res.Reason, model.RejectWallAdjacencyUnmet)
	assert.False(t, g.IsBody(10, 0), "previous preview must be unmarked")
	assert.False(t, g.IsBody(10, 1), "invalid candidates are not marked")

	s.Hover(model.Cell{X: 19, Z: 4})
	s.Cancel()
	assert.Equal(t, before, g)
	assert.Equal(t, StateIdle, p.State())
}

func TestPreview_CommitKeepsMark(t *testing.T) {
	item := sofa()
	other := model.NewFurnitureItem("Lamp", 30, 30, 1)
	p, inv := newTestPlacer(t, northDoorLayout(), item, other)
	g := roomGrid(t, p, 1)

	s, err := p.BeginPreview(item.InstanceID, 1)
	require.NoError(t, err)
	s.Hover(model.Cell{X: 19, Z: 4})

	placement, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, model.Cell{X: 19, Z: 4}, placement.PivotCell)
	assert.True(t, inv.Get(item.InstanceID).IsPlaced)
	assert.True(t, g.IsBody(10, 0))
	assert.Equal(t, StateCommitted, p.State())

	_, err = s.Commit()
	assert.ErrorIs(t, err, ErrPreviewClosed)

	_, err = p.BeginPreview(item.InstanceID, 1)
	assert.ErrorIs(t, err, model.RejectAlreadyPlaced)
	next, err := p.BeginPreview(other.InstanceID, 1)
	require.NoError(t, err)
	next.Cancel()

	// The committed item unplaces like any other.
	require.NoError(t, p.Unplace(item.InstanceID))
	assert.False(t, g.IsBody(10, 0))
}

func TestPreview_OneSessionPerRoom(t *testing.T) {
	a := sofa()
	b := sofa()
	p, _ := newTestPlacer(t, northDoorLayout(), a, b)

	s, err := p.BeginPreview(a.InstanceID, 1)
	require.NoError(t, err)
	_, err = p.BeginPreview(b.InstanceID, 1)
	assert.ErrorIs(t, err, ErrPreviewActive)
	_, err = p.Resync(1)
	assert.ErrorIs(t, err, ErrPreviewActive)

	s.Cancel()
	_, err = p.BeginPreview(b.InstanceID, 1)
	assert.NoError(t, err)
}

func TestPreview_RotateReevaluates(t *testing.T) {
	item := sofa()
	p, _ := newTestPlacer(t, northDoorLayout(), item)
	g := roomGrid(t, p, 1)

	s, err := p.BeginPreview(item.InstanceID, 1)
	require.NoError(t, err)

	res := s.Rotate(90)
	assert.False(t, res.Valid)
	assert.Equal(t, 90, s.Rotation())
	s.Rotate(-90)

	require.True(t, s.Hover(model.Cell{X: 19, Z: 4}).Valid)

	res = s.Rotate(90)
	assert.False(t, res.Valid)
	assert.ErrorIs(t, res.Reason, model.RejectOutOfBounds)
	assert.Equal(t, 90, res.Rotation)
	assert.False(t, g.IsBody(10, 0))

	res = s.Rotate(-90)
	assert.True(t, res.Valid)
	assert.Equal(t, 0, res.Rotation)
	s.Cancel()
}

func TestPreview_HoverWorldAndInvalidCommit(t *testing.T) {
	item := sofa()
	p, inv := newTestPlacer(t, northDoorLayout(), item)

	s, err := p.BeginPreview(item.InstanceID, 1)
	require.NoError(t, err)

	res := s.HoverWorld(model.Point2D{X: 1.95, Z: 0.45})
	assert.True(t, res.Valid)
	assert.Equal(t, model.Cell{X: 19, Z: 4}, res.Pivot)

	res = s.HoverWorld(model.Point2D{X: -3, Z: -3})
	assert.False(t, res.Valid)
	assert.ErrorIs(t, res.Reason, model.RejectOutOfBounds)

	_, err = s.Commit()
	assert.ErrorIs(t, err, model.RejectOutOfBounds)
	assert.False(t, inv.Get(item.InstanceID).IsPlaced)
	s.Cancel()
}

func TestPreview_HugeItemIsInvalid(t *testing.T) {
	item := model.NewFurnitureItem("Warehouse", 1e20, 1e20, 1)
	p, _ := newTestPlacer(t, northDoorLayout(), item)
	g := roomGrid(t, p, 1)
	before := g.Clone()

	s, err := p.BeginPreview(item.InstanceID, 1)
	require.NoError(t, err)

	res := s.Hover(model.Cell{X: 50, Z: 50})
	assert.False(t, res.Valid)
	assert.ErrorIs(t, res.Reason, model.RejectOutOfBounds)
	assert.Empty(t, res.Cells)
	assert.Equal(t, before, g)
	s.Cancel()
}

func TestPreview_RejectsOffGridRotation(t *testing.T) {
	item := sofa()
	item.Rotation = 45
	p, _ := newTestPlacer(t, northDoorLayout(), item)

	_, err := p.BeginPreview(item.InstanceID, 1)
	assert.ErrorIs(t, err, model.RejectInvalidRotation)

	p.Inventory().Get(item.InstanceID).Rotation = 0
	s, err := p.BeginPreview(item.InstanceID, 1)
	require.NoError(t, err)
	g := roomGrid(t, p, 1)
	require.True(t, s.Hover(model.Cell{X: 19, Z: 4}).Valid)

	res := s.Rotate(45)
	assert.False(t, res.Valid)
	assert.ErrorIs(t, res.Reason, model.RejectInvalidRotation)
	assert.Equal(t, 0, s.Rotation())
	assert.True(t, s.Last().Valid)
	assert.True(t, g.IsBody(10, 0), "the hovered candidate stays marked")

	_, err = s.Commit()
	require.NoError(t, err)
	assert.True(t, p.Inventory().Get(item.InstanceID).IsPlaced)
}
