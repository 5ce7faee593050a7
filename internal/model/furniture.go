package model

import (
	"time"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.New().String()[:8]
}

// SizeCM is an item's physical size in centimeters. Width and Depth span the
// floor footprint; Height does not affect placement.
type SizeCM struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// WallRequirement marks the item sides that must rest against a wall.
type WallRequirement struct {
	Front bool `json:"front"`
	Back  bool `json:"back"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// Requires reports whether the given side must touch a wall.
func (w WallRequirement) Requires(side Side) bool {
	switch side {
	case SideFront:
		return w.Front
	case SideBack:
		return w.Back
	case SideLeft:
		return w.Left
	case SideRight:
		return w.Right
	}
	return false
}

// Any reports whether at least one side must touch a wall.
func (w WallRequirement) Any() bool {
	return w.Front || w.Back || w.Left || w.Right
}

// Set marks side as required.
func (w *WallRequirement) Set(side Side) {
	switch side {
	case SideFront:
		w.Front = true
	case SideBack:
		w.Back = true
	case SideLeft:
		w.Left = true
	case SideRight:
		w.Right = true
	}
}

// Clearance is the free space in centimeters an item needs on each side.
type Clearance struct {
	Front int `json:"front"`
	Back  int `json:"back"`
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Get returns the clearance on side, clamped at zero.
func (c Clearance) Get(side Side) int {
	var v int
	switch side {
	case SideFront:
		v = c.Front
	case SideBack:
		v = c.Back
	case SideLeft:
		v = c.Left
	case SideRight:
		v = c.Right
	}
	if v < 0 {
		return 0
	}
	return v
}

// CatalogEntry is a reusable furniture definition.
type CatalogEntry struct {
	FurnitureID string          `json:"furniture_id"`
	Name        string          `json:"name"`
	Size        SizeCM          `json:"size_cm"`
	Wall        WallRequirement `json:"wall_requirement"`
	Clearance   Clearance       `json:"clearance_cm"`
}

// FurnitureItem is one instance of a catalog entry assigned to a room.
type FurnitureItem struct {
	InstanceID  string          `json:"instance_id"`
	FurnitureID string          `json:"furniture_id"`
	Name        string          `json:"name"`
	Size        SizeCM          `json:"size_cm"`
	Wall        WallRequirement `json:"wall_requirement"`
	Clearance   Clearance       `json:"clearance_cm"`
	RoomID      int             `json:"room_id"`
	IsPlaced    bool            `json:"is_placed"`
	GridCell    Cell            `json:"grid_cell"`
	Rotation    int             `json:"rotation_deg"`
}

// NewFurnitureItem creates an unplaced item with a generated instance id.
func NewFurnitureItem(name string, widthCM, depthCM float64, roomID int) FurnitureItem {
	return FurnitureItem{
		InstanceID:  newID(),
		FurnitureID: name,
		Name:        name,
		Size:        SizeCM{Width: widthCM, Depth: depthCM},
		RoomID:      roomID,
	}
}

// Instantiate creates an unplaced item of this catalog entry in roomID.
func (c CatalogEntry) Instantiate(roomID int) FurnitureItem {
	return FurnitureItem{
		InstanceID:  newID(),
		FurnitureID: c.FurnitureID,
		Name:        c.Name,
		Size:        c.Size,
		Wall:        c.Wall,
		Clearance:   c.Clearance,
		RoomID:      roomID,
	}
}

// Placement is the result of a successful placement.
type Placement struct {
	InstanceID  string  `json:"instance_id"`
	RoomID      int     `json:"room_id"`
	PivotCell   Cell    `json:"pivot_cell"`
	Rotation    int     `json:"rotation_deg"`
	WorldAnchor Point2D `json:"world_anchor"`
	BodyOrigin  Cell    `json:"body_origin"`
	BodySize    Cell    `json:"body_size"`
	TotalOrigin Cell    `json:"total_origin"`
	TotalSize   Cell    `json:"total_size"`
}

// PlacementAction is the kind of a journaled placement change.
type PlacementAction string

const (
	ActionPlace   PlacementAction = "place"
	ActionUnplace PlacementAction = "unplace"
)

// PlacementEvent records a committed placement change.
type PlacementEvent struct {
	InstanceID string          `json:"instance_id"`
	RoomID     int             `json:"room_id"`
	Action     PlacementAction `json:"action"`
	PivotCell  Cell            `json:"pivot_cell"`
	Rotation   int             `json:"rotation_deg"`
	At         time.Time       `json:"at"`
}
