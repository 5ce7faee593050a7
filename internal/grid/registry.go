package grid

import (
	"sort"

	"github.com/piwi3910/RoomFit/internal/model"
)

// ErrGridNotFound is returned for room ids without a grid.
var ErrGridNotFound = model.RejectGridNotFound

// Registry owns the grids of a layout, keyed by room id.
type Registry struct {
	grids map[int]*RoomGrid
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{grids: make(map[int]*RoomGrid)}
}

// Put stores g, replacing any previous grid of the same room.
func (r *Registry) Put(g *RoomGrid) {
	r.grids[g.RoomID] = g
}

// Get returns the grid of roomID.
func (r *Registry) Get(roomID int) (*RoomGrid, error) {
	g, ok := r.grids[roomID]
	if !ok {
		return nil, ErrGridNotFound
	}
	return g, nil
}

// Remove drops the grid of roomID.
func (r *Registry) Remove(roomID int) {
	delete(r.grids, roomID)
}

// RoomIDs returns the registered room ids in ascending order.
func (r *Registry) RoomIDs() []int {
	ids := make([]int, 0, len(r.grids))
	for id := range r.grids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Len returns the number of grids.
func (r *Registry) Len() int {
	return len(r.grids)
}

// Rebuild replaces the grid of one room with a freshly built one. Marks on
// the old grid are dropped; callers re-apply placements afterwards.
func (r *Registry) Rebuild(b *Builder, layout *model.Layout, roomID int) (*RoomGrid, error) {
	room := layout.FindRoom(roomID)
	if room == nil {
		r.Remove(roomID)
		return nil, ErrGridNotFound
	}
	g, err := b.Build(*room, layout)
	r.Put(g)
	return g, err
}
