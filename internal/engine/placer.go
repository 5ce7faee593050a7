package engine

import (
	"errors"
	"time"

	"github.com/piwi3910/RoomFit/internal/grid"
	"github.com/piwi3910/RoomFit/internal/model"
	"github.com/piwi3910/RoomFit/internal/monitoring"
)

// State is the search state of a Placer.
type State int

const (
	StateIdle State = iota
	StateSearching
	StateCommitted
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateCommitted:
		return "committed"
	case StateRejected:
		return "rejected"
	}
	return "unknown"
}

// Journal receives every committed placement change.
type Journal interface {
	Record(ev model.PlacementEvent) error
}

// Placer finds, commits and removes item placements on the grids of a
// registry, keeping the inventory in step. It is not safe for concurrent
// use.
type Placer struct {
	Settings model.Settings

	grids     *grid.Registry
	inventory *model.Inventory
	journal   Journal
	state     State
	baselines map[int]int
	previews  map[int]*PreviewSession
	now       func() time.Time
}

// NewPlacer returns a Placer over grids and inventory.
func NewPlacer(settings model.Settings, grids *grid.Registry, inventory *model.Inventory) *Placer {
	return &Placer{
		Settings:  settings.Validate(),
		grids:     grids,
		inventory: inventory,
		baselines: make(map[int]int),
		previews:  make(map[int]*PreviewSession),
		now:       time.Now,
	}
}

// SetJournal installs a journal; nil disables journaling.
func (p *Placer) SetJournal(j Journal) {
	p.journal = j
}

// State returns the outcome of the most recent operation.
func (p *Placer) State() State {
	return p.state
}

// Grids returns the registry the placer works on.
func (p *Placer) Grids() *grid.Registry {
	return p.grids
}

// Inventory returns the inventory the placer updates.
func (p *Placer) Inventory() *model.Inventory {
	return p.inventory
}

// BatchResult summarizes an auto placement run.
type BatchResult struct {
	RoomID    int
	Placed    []model.Placement
	Failed    map[string]error
	FailedIDs []string
	Successes int
	Failures  int
	Duration  time.Duration
}

// Baseline returns the number of walkable cells of the room before any new
// placement. The value is cached until the room's grid changes.
func (p *Placer) Baseline(roomID int) (int, error) {
	g, err := p.grids.Get(roomID)
	if err != nil {
		return 0, err
	}
	return p.baseline(g), nil
}

func (p *Placer) baseline(g *grid.RoomGrid) int {
	if n, ok := p.baselines[g.RoomID]; ok {
		return n
	}
	n := WalkableCount(g)
	p.baselines[g.RoomID] = n
	return n
}

func (p *Placer) invalidate(roomID int) {
	delete(p.baselines, roomID)
}

// FindPlacement searches the room for the first valid footprint of item
// without changing any state. Rotations are tried in the configured order;
// for each rotation the total area's lower-left cell scans rows (z) outer and
// columns (x) inner from (0,0).
func (p *Placer) FindPlacement(roomID int, item *model.FurnitureItem, checkConnectivity bool) (Footprint, error) {
	g, err := p.grids.Get(roomID)
	if err != nil {
		return Footprint{}, err
	}
	return p.search(g, item, checkConnectivity)
}

func (p *Placer) search(g *grid.RoomGrid, item *model.FurnitureItem, checkConnectivity bool) (Footprint, error) {
	if !validSize(item.Size) {
		return Footprint{}, model.RejectDegenerateFootprint
	}
	if g.Empty() {
		return Footprint{}, model.RejectNoPlacementFound
	}

	index := newAreaIndex(g)
	baseline := 0
	if checkConnectivity {
		baseline = p.baseline(g)
	}

	for _, rotation := range p.Settings.Rotations {
		if !model.IsRightAngle(rotation) {
			continue
		}
		s := shape(item, g.CellSize, rotation)
		offX, offZ := s.Body.X-s.Total.X, s.Body.Z-s.Total.Z
		for tz := 0; tz+s.Total.D <= g.Rows; tz++ {
			for tx := 0; tx+s.Total.W <= g.Cols; tx++ {
				fp := s.at(model.Cell{X: tx + offX, Z: tz + offZ})
				if !index.free(fp.Total) {
					continue
				}
				if checkWalls(g, item, fp) != nil {
					continue
				}
				if checkConnectivity && !PassagePreserved(g, fp.Body, baseline, p.Settings.ConnectivityTolerance) {
					continue
				}
				return fp, nil
			}
		}
	}
	return Footprint{}, model.RejectNoPlacementFound
}

// TryPlace finds the first valid placement for an unplaced item in roomID and
// commits it. Connectivity is checked when the settings enforce it.
func (p *Placer) TryPlace(instanceID string, roomID int) (model.Placement, error) {
	return p.tryPlace(instanceID, roomID, p.Settings.EnforceConnectivity)
}

func (p *Placer) tryPlace(instanceID string, roomID int, checkConnectivity bool) (model.Placement, error) {
	p.state = StateSearching
	item, g, err := p.unplacedItem(instanceID, roomID)
	if err != nil {
		p.state = StateRejected
		return model.Placement{}, err
	}
	fp, err := p.search(g, item, checkConnectivity)
	if err != nil {
		p.state = StateRejected
		return model.Placement{}, err
	}
	return p.commit(g, item, fp), nil
}

// PlaceAt places an item with its pivot on the given cell. The body and
// clearance must fit and wall requirements hold; connectivity is checked
// when the settings enforce it.
func (p *Placer) PlaceAt(instanceID string, roomID int, pivot model.Cell, rotation int) (model.Placement, error) {
	p.state = StateSearching
	item, g, err := p.unplacedItem(instanceID, roomID)
	if err != nil {
		p.state = StateRejected
		return model.Placement{}, err
	}
	fp, err := p.validateAt(g, item, pivot, rotation)
	if err != nil {
		p.state = StateRejected
		return model.Placement{}, err
	}
	return p.commit(g, item, fp), nil
}

func (p *Placer) validateAt(g *grid.RoomGrid, item *model.FurnitureItem, pivot model.Cell, rotation int) (Footprint, error) {
	if !validSize(item.Size) {
		return Footprint{}, model.RejectDegenerateFootprint
	}
	w, d := FootprintCells(item.Size, g.CellSize, rotation)
	fp, err := CanPlaceWithClearance(g, item, OriginFromPivot(pivot, w, d), rotation)
	if err != nil {
		return fp, err
	}
	if p.Settings.EnforceConnectivity && !PassagePreserved(g, fp.Body, p.baseline(g), p.Settings.ConnectivityTolerance) {
		return fp, model.RejectConnectivityViolated
	}
	return fp, nil
}

func (p *Placer) unplacedItem(instanceID string, roomID int) (*model.FurnitureItem, *grid.RoomGrid, error) {
	item := p.inventory.Get(instanceID)
	if item == nil {
		return nil, nil, model.RejectItemNotFound
	}
	if item.IsPlaced {
		return nil, nil, model.RejectAlreadyPlaced
	}
	g, err := p.grids.Get(roomID)
	if err != nil {
		return nil, nil, err
	}
	return item, g, nil
}

// commit marks the grid, records the placement on the item and journals it.
func (p *Placer) commit(g *grid.RoomGrid, item *model.FurnitureItem, fp Footprint) model.Placement {
	grid.Mark(g, fp.Total, fp.Body)
	p.invalidate(g.RoomID)
	return p.record(g, item, fp)
}

func (p *Placer) record(g *grid.RoomGrid, item *model.FurnitureItem, fp Footprint) model.Placement {
	placement := model.Placement{
		InstanceID:  item.InstanceID,
		RoomID:      g.RoomID,
		PivotCell:   fp.Pivot(),
		Rotation:    fp.Rotation,
		WorldAnchor: g.RectCenter(fp.Body),
		BodyOrigin:  fp.Body.Origin(),
		BodySize:    model.Cell{X: fp.Body.W, Z: fp.Body.D},
		TotalOrigin: fp.Total.Origin(),
		TotalSize:   model.Cell{X: fp.Total.W, Z: fp.Total.D},
	}
	item.IsPlaced = true
	item.RoomID = placement.RoomID
	item.GridCell = placement.PivotCell
	item.Rotation = placement.Rotation
	p.journalEvent(model.ActionPlace, item)
	p.state = StateCommitted
	return placement
}

// Unplace removes a placed item from its room's grid.
func (p *Placer) Unplace(instanceID string) error {
	item := p.inventory.Get(instanceID)
	if item == nil {
		return model.RejectItemNotFound
	}
	if !item.IsPlaced {
		return model.RejectNotPlaced
	}
	g, err := p.grids.Get(item.RoomID)
	if err != nil {
		return err
	}
	fp := FootprintAtPivot(item, g.CellSize, item.GridCell, item.Rotation)
	grid.Unmark(g, fp.Total, fp.Body)
	p.invalidate(g.RoomID)
	p.journalEvent(model.ActionUnplace, item)
	item.IsPlaced = false
	item.GridCell = model.Cell{}
	p.state = StateIdle
	return nil
}

// Placement reconstructs the placement record of a placed item.
func (p *Placer) Placement(instanceID string) (model.Placement, error) {
	item := p.inventory.Get(instanceID)
	if item == nil {
		return model.Placement{}, model.RejectItemNotFound
	}
	if !item.IsPlaced {
		return model.Placement{}, model.RejectNotPlaced
	}
	g, err := p.grids.Get(item.RoomID)
	if err != nil {
		return model.Placement{}, err
	}
	fp := FootprintAtPivot(item, g.CellSize, item.GridCell, item.Rotation)
	return model.Placement{
		InstanceID:  item.InstanceID,
		RoomID:      item.RoomID,
		PivotCell:   item.GridCell,
		Rotation:    fp.Rotation,
		WorldAnchor: g.RectCenter(fp.Body),
		BodyOrigin:  fp.Body.Origin(),
		BodySize:    model.Cell{X: fp.Body.W, Z: fp.Body.D},
		TotalOrigin: fp.Total.Origin(),
		TotalSize:   model.Cell{X: fp.Total.W, Z: fp.Total.D},
	}, nil
}

// AutoPlaceAll tries to place every unplaced item of the room in inventory
// order, always enforcing connectivity. A failing item is recorded and the
// run continues with the next one.
func (p *Placer) AutoPlaceAll(roomID int) (BatchResult, error) {
	start := p.now()
	if _, err := p.grids.Get(roomID); err != nil {
		return BatchResult{RoomID: roomID}, err
	}
	result := BatchResult{RoomID: roomID, Failed: make(map[string]error)}
	for _, id := range p.inventory.UnplacedInRoom(roomID) {
		placement, err := p.tryPlace(id, roomID, true)
		if err != nil {
			result.Failures++
			result.Failed[id] = err
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		result.Successes++
		result.Placed = append(result.Placed, placement)
	}
	result.Duration = p.now().Sub(start)
	monitoring.Logf("room %d: auto placed %d, failed %d in %v", roomID, result.Successes, result.Failures, result.Duration)
	return result, nil
}

// AutoPlaceAllRooms runs AutoPlaceAll over every room with a grid.
func (p *Placer) AutoPlaceAllRooms() []BatchResult {
	var results []BatchResult
	for _, id := range p.grids.RoomIDs() {
		r, err := p.AutoPlaceAll(id)
		if err != nil {
			monitoring.Warnf("auto placing room %d: %v", id, err)
			continue
		}
		results = append(results, r)
	}
	return results
}

// Resync resets the room grid to its built state and marks every placed item
// of the room again. Items that no longer fit (after a layout or settings
// change) are unplaced and their ids returned.
func (p *Placer) Resync(roomID int) ([]string, error) {
	g, err := p.grids.Get(roomID)
	if err != nil {
		return nil, err
	}
	if _, busy := p.previews[roomID]; busy {
		return nil, ErrPreviewActive
	}
	g.Reset()
	p.invalidate(roomID)

	var dropped []string
	for _, id := range p.inventory.PlacedInRoom(roomID) {
		item := p.inventory.Get(id)
		fp := FootprintAtPivot(item, g.CellSize, item.GridCell, item.Rotation)
		if !validSize(item.Size) || !model.IsRightAngle(item.Rotation) || CheckArea(g, fp.Total) != nil {
			item.IsPlaced = false
			item.GridCell = model.Cell{}
			dropped = append(dropped, id)
			monitoring.Warnf("item %s (%s) no longer fits in room %d, unplaced", id, item.Name, roomID)
			continue
		}
		grid.Mark(g, fp.Total, fp.Body)
	}
	return dropped, nil
}

// ResyncAll resyncs every room. Placed items whose room has no grid are
// unplaced.
func (p *Placer) ResyncAll() []string {
	var dropped []string
	for _, id := range p.grids.RoomIDs() {
		d, err := p.Resync(id)
		if err != nil {
			monitoring.Warnf("resync room %d: %v", id, err)
			continue
		}
		dropped = append(dropped, d...)
	}
	for i := range p.inventory.Items {
		item := &p.inventory.Items[i]
		if !item.IsPlaced {
			continue
		}
		if _, err := p.grids.Get(item.RoomID); errors.Is(err, grid.ErrGridNotFound) {
			item.IsPlaced = false
			item.GridCell = model.Cell{}
			dropped = append(dropped, item.InstanceID)
		}
	}
	return dropped
}

func (p *Placer) journalEvent(action model.PlacementAction, item *model.FurnitureItem) {
	if p.journal == nil {
		return
	}
	ev := model.PlacementEvent{
		InstanceID: item.InstanceID,
		RoomID:     item.RoomID,
		Action:     action,
		PivotCell:  item.GridCell,
		Rotation:   item.Rotation,
		At:         p.now(),
	}
	if err := p.journal.Record(ev); err != nil {
		monitoring.Warnf("failed to journal %s of %s: %v", action, item.InstanceID, err)
	}
}
