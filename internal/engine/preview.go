package engine

import (
	"errors"

	"github.com/piwi3910/RoomFit/internal/grid"
	"github.com/piwi3910/RoomFit/internal/model"
)

// ErrPreviewActive is returned when a room already has an open preview.
var ErrPreviewActive = errors.New("a placement preview is already active in this room")

// ErrPreviewClosed is returned by operations on a finished session.
var ErrPreviewClosed = errors.New("placement preview is closed")

// PreviewResult describes the candidate under the cursor.
type PreviewResult struct {
	Valid    bool
	Reason   error
	Pivot    model.Cell
	Rotation int
	Body     grid.Rect
	Total    grid.Rect
	Cells    []model.Cell // body cells, for highlighting
}

// PreviewSession moves a ghost of one item over a room. A valid candidate is
// marked on the grid while hovered; the mark is removed before the next
// hover and on Cancel, or kept by Commit.
type PreviewSession struct {
	placer   *Placer
	grid     *grid.RoomGrid
	item     *model.FurnitureItem
	rotation int
	pivot    model.Cell
	hovered  bool
	marked   bool
	current  Footprint
	last     PreviewResult
	closed   bool
}

// BeginPreview opens an interactive placement session for an unplaced item.
func (p *Placer) BeginPreview(instanceID string, roomID int) (*PreviewSession, error) {
	if _, busy := p.previews[roomID]; busy {
		return nil, ErrPreviewActive
	}
	item, g, err := p.unplacedItem(instanceID, roomID)
	if err != nil {
		return nil, err
	}
	if !model.IsRightAngle(item.Rotation) {
		return nil, model.RejectInvalidRotation
	}
	s := &PreviewSession{placer: p, grid: g, item: item, rotation: model.NormalizeRotation(item.Rotation)}
	p.previews[roomID] = s
	return s, nil
}

// Rotation returns the current preview rotation.
func (s *PreviewSession) Rotation() int {
	return s.rotation
}

// Last returns the most recent hover result.
func (s *PreviewSession) Last() PreviewResult {
	return s.last
}

// Hover evaluates the item centered on pivot.
func (s *PreviewSession) Hover(pivot model.Cell) PreviewResult {
	if s.closed {
		return PreviewResult{Reason: ErrPreviewClosed}
	}
	s.unmark()
	s.pivot = pivot
	s.hovered = true

	fp, err := s.placer.validateAt(s.grid, s.item, pivot, s.rotation)
	if fp.Body.Area() == 0 {
		w, d := FootprintCells(s.item.Size, s.grid.CellSize, s.rotation)
		fp = FootprintAtOrigin(s.item, s.grid.CellSize, OriginFromPivot(pivot, w, d), s.rotation)
	}
	s.last = PreviewResult{
		Valid:    err == nil,
		Reason:   err,
		Pivot:    pivot,
		Rotation: s.rotation,
		Body:     fp.Body,
		Total:    fp.Total,
	}
	if fp.Body.W <= s.grid.Cols && fp.Body.D <= s.grid.Rows {
		s.last.Cells = fp.Body.Cells()
	}
	if err == nil {
		grid.Mark(s.grid, fp.Total, fp.Body)
		s.current = fp
		s.marked = true
	}
	return s.last
}

// HoverWorld evaluates the item centered on the cell under a world position.
func (s *PreviewSession) HoverWorld(p model.Point2D) PreviewResult {
	return s.Hover(s.grid.WorldToGrid(p))
}

// Rotate turns the item by delta degrees and re-evaluates the last hovered
// cell. A delta that is not a quarter turn leaves the session unchanged.
func (s *PreviewSession) Rotate(delta int) PreviewResult {
	if !model.IsRightAngle(delta) {
		res := s.last
		res.Valid = false
		res.Reason = model.RejectInvalidRotation
		return res
	}
	s.rotation = model.NormalizeRotation(s.rotation + delta)
	if !s.hovered {
		return PreviewResult{Rotation: s.rotation}
	}
	return s.Hover(s.pivot)
}

// Commit keeps the current valid candidate as the item's placement and
// closes the session.
func (s *PreviewSession) Commit() (model.Placement, error) {
	if s.closed {
		return model.Placement{}, ErrPreviewClosed
	}
	if !s.marked {
		if s.last.Reason != nil {
			return model.Placement{}, s.last.Reason
		}
		return model.Placement{}, model.RejectNoPlacementFound
	}
	s.marked = false
	s.close()
	s.placer.invalidate(s.grid.RoomID)
	return s.placer.record(s.grid, s.item, s.current), nil
}

// Cancel removes any preview mark and closes the session.
func (s *PreviewSession) Cancel() {
	if s.closed {
		return
	}
	s.unmark()
	s.close()
	s.placer.state = StateIdle
}

func (s *PreviewSession) unmark() {
	if !s.marked {
		return
	}
	grid.Unmark(s.grid, s.current.Total, s.current.Body)
	s.marked = false
}

func (s *PreviewSession) close() {
	s.closed = true
	delete(s.placer.previews, s.grid.RoomID)
}
