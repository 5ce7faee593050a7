package model

import "fmt"

// Side names a face of an item in its own frame.
type Side int

const (
	SideFront Side = iota
	SideBack
	SideLeft
	SideRight
)

// Sides lists every item side in declaration order.
var Sides = [4]Side{SideFront, SideBack, SideLeft, SideRight}

func (s Side) String() string {
	switch s {
	case SideFront:
		return "front"
	case SideBack:
		return "back"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParseSide converts a side name into a Side.
func ParseSide(name string) (Side, error) {
	switch name {
	case "front":
		return SideFront, nil
	case "back":
		return SideBack, nil
	case "left":
		return SideLeft, nil
	case "right":
		return SideRight, nil
	}
	return 0, fmt.Errorf("unknown side %q", name)
}

// GridDir names a grid-relative direction.
type GridDir int

const (
	DirBottom GridDir = iota // -Z
	DirTop                   // +Z
	DirLeft                  // -X
	DirRight                 // +X
)

func (d GridDir) String() string {
	switch d {
	case DirBottom:
		return "bottom"
	case DirTop:
		return "top"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("GridDir(%d)", int(d))
	}
}

// Delta returns the unit cell step in this direction.
func (d GridDir) Delta() (dx, dz int) {
	switch d {
	case DirBottom:
		return 0, -1
	case DirTop:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// sideToGrid is indexed by rotation step (deg/90) and Side.
var sideToGrid = [4][4]GridDir{
	// front, back, left, right
	{DirTop, DirBottom, DirLeft, DirRight}, // 0
	{DirRight, DirLeft, DirTop, DirBottom}, // 90
	{DirBottom, DirTop, DirRight, DirLeft}, // 180
	{DirLeft, DirRight, DirBottom, DirTop}, // 270
}

// NormalizeRotation maps any angle in degrees into [0, 360).
func NormalizeRotation(deg int) int {
	return ((deg % 360) + 360) % 360
}

// IsRightAngle reports whether deg is a multiple of 90.
func IsRightAngle(deg int) bool {
	return NormalizeRotation(deg)%90 == 0
}

// RotationStep returns the number of quarter turns for deg. Angles that are
// not multiples of 90 are truncated to the previous quarter turn.
func RotationStep(deg int) int {
	return NormalizeRotation(deg) / 90
}

// SideToGrid returns the grid direction an item side faces at the given
// rotation.
func SideToGrid(side Side, rotationDeg int) GridDir {
	return sideToGrid[RotationStep(rotationDeg)][side]
}
