package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/RoomFit/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// DXFOptions controls how drawing units map onto the floor plane.
type DXFOptions struct {
	// Scale converts drawing units to meters (0.001 for millimeter drawings).
	Scale float64
	// Tolerance is the endpoint distance, in meters, under which two points
	// are treated as the same.
	Tolerance float64
}

// DefaultDXFOptions assumes a millimeter drawing.
func DefaultDXFOptions() DXFOptions {
	return DXFOptions{Scale: 0.001, Tolerance: 0.005}
}

// LayoutResult holds the rooms and walls recovered from a floor plan.
type LayoutResult struct {
	Layout   model.Layout
	Errors   []string
	Warnings []string
}

// segment represents a line segment between two floor points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

// ImportDXF reads a floor plan. Each closed shape (LWPOLYLINE, CIRCLE, or
// chain of connected LINEs/ARCs) becomes a room; edges shared by two rooms
// become a single interior wall. Drawing Y maps onto world Z.
func ImportDXF(path string, opts DXFOptions) LayoutResult {
	result := LayoutResult{Layout: model.NewLayout()}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultDXFOptions().Tolerance
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	pt := func(x, y float64) model.Point2D {
		return model.Point2D{X: x * opts.Scale, Z: y * opts.Scale}
	}

	var outlines []model.Outline
	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline := lwPolylineToOutline(e, pt)
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			outlines = append(outlines, circleToOutline(e, 64, pt))

		case *entity.Arc:
			pts := arcToPoints(e, 32, pt)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: pt(e.Start[0], e.Start[1]),
				end:   pt(e.End[0], e.End[1]),
			})
		}
	}

	outlines = append(outlines, chainSegments(segments, opts.Tolerance)...)
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	layout, warnings := LayoutFromOutlines(outlines, opts.Tolerance)
	result.Layout = layout
	result.Warnings = append(result.Warnings, warnings...)
	return result
}

// LayoutFromOutlines turns room polygons into a layout. Rooms are numbered
// from 1 in the given order; every polygon edge becomes a wall, and an edge
// matching another room's edge within tol is shared by both rooms.
func LayoutFromOutlines(outlines []model.Outline, tol float64) (model.Layout, []string) {
	layout := model.NewLayout()
	var warnings []string

	for _, outline := range outlines {
		outline = dedupeOutline(outline, tol)
		if outline.Area() < tol*tol {
			min, max := outline.BoundingBox()
			warnings = append(warnings, fmt.Sprintf("Skipped degenerate shape (%.3f x %.3f m)", max.X-min.X, max.Z-min.Z))
			continue
		}

		room := model.Room{
			ID:      layout.NextRoomID(),
			Outline: outline,
		}
		room.Name = fmt.Sprintf("Room %d", room.ID)

		for i := range outline {
			a, b := outline[i], outline[(i+1)%len(outline)]
			wall := findEdgeWall(layout.Walls, a, b, tol)
			if wall == nil {
				layout.Walls = append(layout.Walls, model.Wall{
					ID:    fmt.Sprintf("w%d", len(layout.Walls)+1),
					Start: a,
					End:   b,
				})
				wall = &layout.Walls[len(layout.Walls)-1]
			}
			if !wall.Bounds(room.ID) {
				wall.RoomIDs = append(wall.RoomIDs, room.ID)
			}
			room.WallIDs = append(room.WallIDs, wall.ID)
		}
		layout.Rooms = append(layout.Rooms, room)
	}

	return layout, warnings
}

func findEdgeWall(walls []model.Wall, a, b model.Point2D, tol float64) *model.Wall {
	for i := range walls {
		w := &walls[i]
		if (pointsClose(w.Start, a, tol) && pointsClose(w.End, b, tol)) ||
			(pointsClose(w.Start, b, tol) && pointsClose(w.End, a, tol)) {
			return w
		}
	}
	return nil
}

// dedupeOutline drops consecutive duplicate vertices, including a repeated
// closing vertex.
func dedupeOutline(o model.Outline, tol float64) model.Outline {
	out := make(model.Outline, 0, len(o))
	for _, p := range o {
		if len(out) > 0 && pointsClose(out[len(out)-1], p, tol) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && pointsClose(out[0], out[len(out)-1], tol) {
		out = out[:len(out)-1]
	}
	return out
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an Outline.
// Bulge values on vertices produce interpolated arc segments.
func lwPolylineToOutline(lw *entity.LwPolyline, pt func(x, y float64) model.Point2D) model.Outline {
	var outline model.Outline

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := pt(v[0], v[1])

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := pt(lw.Vertices[nextIdx][0], lw.Vertices[nextIdx][1])
			arcPts := bulgeArcPoints(current, next, bulge, 16)
			outline = append(outline, arcPts[:len(arcPts)-1]...)
		} else {
			outline = append(outline, current)
		}
	}

	return outline
}

// bulgeArcPoints samples the arc between two vertices described by a DXF
// bulge factor, the tangent of a quarter of the included angle.
func bulgeArcPoints(p1, p2 model.Point2D, bulge float64, numSegments int) model.Outline {
	mx := (p1.X + p2.X) / 2
	mz := (p1.Z + p2.Z) / 2
	dx := p2.X - p1.X
	dz := p2.Z - p1.Z
	chordLen := math.Hypot(dx, dz)
	if chordLen < 1e-9 {
		return model.Outline{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	perpX := -dz / chordLen
	perpZ := dx / chordLen
	dist := radius - sagitta
	if bulge < 0 {
		perpX, perpZ = -perpX, -perpZ
	}
	cx := mx + perpX*dist
	cz := mz + perpZ*dist

	startAngle := math.Atan2(p1.Z-cz, p1.X-cx)
	endAngle := math.Atan2(p2.Z-cz, p2.X-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else if endAngle < startAngle {
		endAngle += 2 * math.Pi
	}

	pts := make(model.Outline, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, model.Point2D{
			X: cx + radius*math.Cos(angle),
			Z: cz + radius*math.Sin(angle),
		})
	}
	return pts
}

// circleToOutline approximates a circle as a regular polygon.
func circleToOutline(c *entity.Circle, numSegments int, pt func(x, y float64) model.Point2D) model.Outline {
	outline := make(model.Outline, numSegments)
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		outline[i] = pt(c.Center[0]+c.Radius*math.Cos(angle), c.Center[1]+c.Radius*math.Sin(angle))
	}
	return outline
}

// arcToPoints converts a DXF ARC entity to a series of line points.
func arcToPoints(a *entity.Arc, numSegments int, pt func(x, y float64) model.Point2D) []model.Point2D {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]model.Point2D, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}
	return pts
}

// pointsToSegments converts a point sequence to a slice of connected segments.
func pointsToSegments(pts []model.Point2D) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual segments into closed outlines, largest
// first. Open chains are dropped.
func chainSegments(segs []segment, tolerance float64) []model.Outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []model.Outline

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []model.Point2D{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, model.Outline(chain[:len(chain)-1]))
		}
	}

	sort.SliceStable(outlines, func(i, j int) bool {
		return outlines[i].Area() > outlines[j].Area()
	})

	return outlines
}

func pointsClose(a, b model.Point2D, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Z-b.Z) <= tolerance
}
