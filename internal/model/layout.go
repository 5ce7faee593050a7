package model

import "fmt"

// Wall is a straight wall segment on the floor plane. RoomIDs lists the rooms
// the wall bounds; a wall bounding a single room is a perimeter wall.
type Wall struct {
	ID      string  `json:"id"`
	Start   Point2D `json:"start"`
	End     Point2D `json:"end"`
	RoomIDs []int   `json:"room_ids"`
}

// IsPerimeter reports whether the wall separates a room from the outside.
func (w Wall) IsPerimeter() bool {
	return len(w.RoomIDs) <= 1
}

// Bounds reports whether the wall bounds the given room.
func (w Wall) Bounds(roomID int) bool {
	for _, id := range w.RoomIDs {
		if id == roomID {
			return true
		}
	}
	return false
}

// DoorKind distinguishes how an opening uses floor space.
type DoorKind string

const (
	DoorHinged  DoorKind = "door"
	DoorSliding DoorKind = "slidedoor"
	DoorWindow  DoorKind = "window"
)

// DoorSwing selects which side of its wall a hinged door leaf sweeps.
// Left and right are relative to the wall direction Start->End.
type DoorSwing string

const (
	SwingIn    DoorSwing = ""
	SwingLeft  DoorSwing = "left"
	SwingRight DoorSwing = "right"
)

// Door is an opening in a wall.
type Door struct {
	ID     string    `json:"id"`
	WallID string    `json:"wall_id"`
	Kind   DoorKind  `json:"kind"`
	Center Vec3      `json:"center"`
	Hinge  Vec3      `json:"hinge"`
	Width  float64   `json:"width"`
	Swing  DoorSwing `json:"swing,omitempty"`
}

// Walkable reports whether the opening lets people through.
func (d Door) Walkable() bool {
	return d.Kind == DoorHinged || d.Kind == DoorSliding
}

// Room is a named floor area bounded by an ordered polygon.
type Room struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Outline Outline  `json:"outline"`
	WallIDs []string `json:"wall_ids"`
}

// Layout is the geometry of a floor: rooms, walls and openings.
type Layout struct {
	Rooms []Room `json:"rooms"`
	Walls []Wall `json:"walls"`
	Doors []Door `json:"doors"`
}

// NewLayout returns an empty layout with non-nil slices.
func NewLayout() Layout {
	return Layout{
		Rooms: []Room{},
		Walls: []Wall{},
		Doors: []Door{},
	}
}

// FindRoom returns the room with the given id.
func (l *Layout) FindRoom(id int) *Room {
	for i := range l.Rooms {
		if l.Rooms[i].ID == id {
			return &l.Rooms[i]
		}
	}
	return nil
}

// FindWall returns the wall with the given id.
func (l *Layout) FindWall(id string) *Wall {
	for i := range l.Walls {
		if l.Walls[i].ID == id {
			return &l.Walls[i]
		}
	}
	return nil
}

// DoorsForRoom returns the walkable openings on walls bounding the room,
// either through the wall's RoomIDs or the room's WallIDs.
func (l *Layout) DoorsForRoom(roomID int) []Door {
	room := l.FindRoom(roomID)
	var doors []Door
	for _, d := range l.Doors {
		if !d.Walkable() {
			continue
		}
		wall := l.FindWall(d.WallID)
		if wall == nil {
			continue
		}
		if wall.Bounds(roomID) || (room != nil && containsString(room.WallIDs, wall.ID)) {
			doors = append(doors, d)
		}
	}
	return doors
}

// NextRoomID returns an id one larger than any existing room id.
func (l *Layout) NextRoomID() int {
	next := 1
	for _, r := range l.Rooms {
		if r.ID >= next {
			next = r.ID + 1
		}
	}
	return next
}

// Validate checks referential integrity between doors, walls and rooms.
func (l *Layout) Validate() []error {
	var errs []error
	seen := make(map[int]bool)
	for _, r := range l.Rooms {
		if seen[r.ID] {
			errs = append(errs, fmt.Errorf("duplicate room id %d", r.ID))
		}
		seen[r.ID] = true
		if len(r.Outline) < 3 {
			errs = append(errs, fmt.Errorf("room %d (%s) has %d outline points", r.ID, r.Name, len(r.Outline)))
		}
	}
	for _, d := range l.Doors {
		if l.FindWall(d.WallID) == nil {
			errs = append(errs, fmt.Errorf("door %s references unknown wall %s", d.ID, d.WallID))
		}
		if d.Width <= 0 {
			errs = append(errs, fmt.Errorf("door %s has non-positive width", d.ID))
		}
	}
	return errs
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (l Layout) Clone() Layout {
	out := NewLayout()
	for _, r := range l.Rooms {
		r.Outline = append(Outline(nil), r.Outline...)
		r.WallIDs = append([]string(nil), r.WallIDs...)
		out.Rooms = append(out.Rooms, r)
	}
	for _, w := range l.Walls {
		w.RoomIDs = append([]int(nil), w.RoomIDs...)
		out.Walls = append(out.Walls, w)
	}
	out.Doors = append(out.Doors, l.Doors...)
	return out
}
