package model

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point2D is a floor-plane coordinate in meters. X runs along the world X
// axis and Z along the world Z axis.
type Point2D struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Outline represents a closed room polygon as an ordered sequence of points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// Orb returns the point as an orb.Point (X, Z).
func (p Point2D) Orb() orb.Point {
	return orb.Point{p.X, p.Z}
}

// Ring returns the outline as a closed orb.Ring.
func (o Outline) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(o)+1)
	for _, p := range o {
		ring = append(ring, p.Orb())
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	b := o.Ring().Bound()
	return Point2D{X: b.Min[0], Z: b.Min[1]}, Point2D{X: b.Max[0], Z: b.Max[1]}
}

// Area returns the absolute enclosed area in square meters.
func (o Outline) Area() float64 {
	if len(o) < 3 {
		return 0
	}
	return math.Abs(planar.Area(o.Ring()))
}

// Vec3 is a world-space position in meters. Y is up and ignored by the
// placement engine.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Flat drops the vertical component.
func (v Vec3) Flat() Point2D {
	return Point2D{X: v.X, Z: v.Z}
}

// Cell addresses a grid cell by column (X) and row (Z).
type Cell struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Add returns the cell offset by dx, dz.
func (c Cell) Add(dx, dz int) Cell {
	return Cell{X: c.X + dx, Z: c.Z + dz}
}

// Settings holds the placement engine parameters for a project.
type Settings struct {
	CellSize              float64 `json:"cell_size"`              // meters per cell edge
	DoorInset             float64 `json:"door_inset"`             // meters between wall line and carved swing zone
	SlidingDoorDepth      float64 `json:"sliding_door_depth"`     // meters kept clear in front of a sliding door
	DoorApproachDepth     float64 `json:"door_approach_depth"`    // meters kept clear on the non-swing side of a door
	ConnectivityTolerance int     `json:"connectivity_tolerance"` // cells of reachable floor a placement may lose beyond its own area
	EnforceConnectivity   bool    `json:"enforce_connectivity"`   // apply the door reachability check to single placements
	Rotations             []int   `json:"rotations"`              // search order in degrees
}

// DefaultCellSize is used when a project carries a non-positive cell size.
const DefaultCellSize = 0.1

// DefaultRotations is the fixed search order.
var DefaultRotations = []int{0, 90, 180, 270}

// DefaultSettings returns the default engine parameters.
func DefaultSettings() Settings {
	return Settings{
		CellSize:              DefaultCellSize,
		DoorInset:             0.02,
		SlidingDoorDepth:      0.5,
		DoorApproachDepth:     0.5,
		ConnectivityTolerance: 5,
		EnforceConnectivity:   true,
		Rotations:             append([]int(nil), DefaultRotations...),
	}
}

// Validate returns a copy of the settings with out-of-range values replaced
// by usable ones.
func (s Settings) Validate() Settings {
	if s.CellSize <= 0 {
		s.CellSize = DefaultCellSize
	}
	if s.DoorInset < 0 {
		s.DoorInset = 0
	}
	if s.SlidingDoorDepth <= 0 {
		s.SlidingDoorDepth = 0.5
	}
	if s.DoorApproachDepth <= 0 {
		s.DoorApproachDepth = 0.5
	}
	if s.ConnectivityTolerance < 0 {
		s.ConnectivityTolerance = 0
	}
	var rotations []int
	for _, r := range s.Rotations {
		if IsRightAngle(r) {
			rotations = append(rotations, NormalizeRotation(r))
		}
	}
	if len(rotations) == 0 {
		rotations = append([]int(nil), DefaultRotations...)
	}
	s.Rotations = rotations
	return s
}

// Project ties everything together for save/load.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Layout    Layout    `json:"layout"`
	Inventory Inventory `json:"inventory"`
	Settings  Settings  `json:"settings"`
}

// NewProject returns an empty project with default settings.
func NewProject() Project {
	return Project{
		ID:        newID(),
		Name:      "Untitled",
		Layout:    NewLayout(),
		Inventory: NewInventory(),
		Settings:  DefaultSettings(),
	}
}
