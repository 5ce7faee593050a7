package grid

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/piwi3910/RoomFit/internal/model"
)

// carver clears door zones out of a grid's placement mask.
type carver struct {
	grid     *RoomGrid
	ring     orb.Ring
	settings model.Settings
}

// zone is a rectangle in wall coordinates: u along the wall tangent from the
// anchor point, t along the wall normal scaled by the side sign.
type zone struct {
	anchor     orb.Point
	u, t       orb.Point
	uMin, uMax float64
	tMin, tMax float64
}

func (z zone) contains(p orb.Point) bool {
	d := sub(p, z.anchor)
	pu := dot(d, z.u)
	pt := dot(d, z.t)
	return pu >= z.uMin && pu <= z.uMax && pt >= z.tMin && pt <= z.tMax
}

// carve clears the zones a door needs in this room and returns the number of
// cells it converted.
func (c *carver) carve(door model.Door, wall model.Wall) int {
	u := normalize(sub(wall.End.Orb(), wall.Start.Orb()))
	if u == (orb.Point{}) {
		return 0
	}
	left := orb.Point{-u[1], u[0]}
	center := door.Center.Flat().Orb()
	roomSide := c.roomSide(center, left)

	var zones []zone
	switch door.Swing {
	case model.SwingLeft, model.SwingRight:
		swingSide := 1.0
		if door.Swing == model.SwingRight {
			swingSide = -1
		}
		if swingSide == roomSide {
			zones = append(zones, c.leafZone(door, u, scale(left, roomSide)))
		} else {
			zones = append(zones, c.approachZone(door, u, scale(left, roomSide)))
		}
	default:
		zones = append(zones, c.leafZone(door, u, scale(left, roomSide)))
		if wall.IsPerimeter() {
			zones = append(zones, c.leafZone(door, u, scale(left, -roomSide)))
		}
	}

	n := 0
	g := c.grid
	for z := 0; z < g.Rows; z++ {
		for x := 0; x < g.Cols; x++ {
			i := g.index(x, z)
			if !g.Placement[i] {
				continue
			}
			pt := g.CellCenter(model.Cell{X: x, Z: z}).Orb()
			for _, zn := range zones {
				if zn.contains(pt) {
					g.Placement[i] = false
					g.Door[i] = true
					n++
					break
				}
			}
		}
	}
	return n
}

// leafZone is the area a door needs on the side given by normal t: the
// swept quadrant for a hinged leaf, a shallow strip for a sliding panel.
func (c *carver) leafZone(door model.Door, u, t orb.Point) zone {
	inset := c.settings.DoorInset
	center := door.Center.Flat().Orb()

	if door.Kind == model.DoorSliding {
		return zone{
			anchor: center, u: u, t: t,
			uMin: -door.Width / 2, uMax: door.Width / 2,
			tMin: inset, tMax: inset + c.settings.SlidingDoorDepth,
		}
	}

	hinge := door.Hinge.Flat().Orb()
	along := dot(sub(center, hinge), u)
	if math.Abs(along) < 1e-9 {
		// No usable hinge: assume it sits at the start-side edge.
		hinge = sub(center, scale(u, door.Width/2))
		along = door.Width / 2
	}
	z := zone{anchor: hinge, u: u, t: t, tMin: inset, tMax: inset + door.Width}
	if along > 0 {
		z.uMin, z.uMax = 0, door.Width
	} else {
		z.uMin, z.uMax = -door.Width, 0
	}
	return z
}

// approachZone keeps the floor in front of the opening clear on the side the
// leaf does not sweep.
func (c *carver) approachZone(door model.Door, u, t orb.Point) zone {
	inset := c.settings.DoorInset
	return zone{
		anchor: door.Center.Flat().Orb(), u: u, t: t,
		uMin: -door.Width / 2, uMax: door.Width / 2,
		tMin: inset, tMax: inset + c.settings.DoorApproachDepth,
	}
}

// roomSide returns +1 when the room lies on the left of the wall direction
// and -1 otherwise. A test point just off the wall decides; the room centroid
// breaks ties for doors that do not sit on the outline.
func (c *carver) roomSide(center, left orb.Point) float64 {
	step := c.settings.DoorInset + c.grid.CellSize
	inLeft := planar.RingContains(c.ring, add(center, scale(left, step)))
	inRight := planar.RingContains(c.ring, add(center, scale(left, -step)))
	if inLeft && !inRight {
		return 1
	}
	if inRight && !inLeft {
		return -1
	}
	centroid, _ := planar.CentroidArea(orb.Polygon{c.ring})
	if dot(sub(centroid, center), left) < 0 {
		return -1
	}
	return 1
}

func add(a, b orb.Point) orb.Point           { return orb.Point{a[0] + b[0], a[1] + b[1]} }
func sub(a, b orb.Point) orb.Point           { return orb.Point{a[0] - b[0], a[1] - b[1]} }
func dot(a, b orb.Point) float64             { return a[0]*b[0] + a[1]*b[1] }
func scale(a orb.Point, s float64) orb.Point { return orb.Point{a[0] * s, a[1] * s} }

func normalize(a orb.Point) orb.Point {
	l := math.Hypot(a[0], a[1])
	if l == 0 {
		return orb.Point{}
	}
	return orb.Point{a[0] / l, a[1] / l}
}
