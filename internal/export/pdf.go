// Package export writes placement results to PDF: a per-room occupancy plan
// and QR-coded item labels.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/RoomFit/internal/engine"
	"github.com/piwi3910/RoomFit/internal/grid"
	"github.com/piwi3910/RoomFit/internal/model"
)

// rgb is a fill color.
type rgb struct {
	R, G, B int
}

// itemColors mirrors the color scheme used in the UI grid canvas widget.
var itemColors = []rgb{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

var (
	colorFloor    = rgb{R: 236, G: 236, B: 236}
	colorWallZone = rgb{R: 200, G: 200, B: 214}
	colorDoor     = rgb{R: 255, G: 214, B: 153}
)

// lighten mixes c with white; f=0 keeps c, f=1 yields white.
func lighten(c rgb, f float64) rgb {
	mix := func(v int) int { return v + int(math.Round(float64(255-v)*f)) }
	return rgb{R: mix(c.R), G: mix(c.G), B: mix(c.B)}
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// cellKind classifies a grid cell for the background layer.
type cellKind int

const (
	cellOff cellKind = iota
	cellFloor
	cellWallZone
	cellDoor
)

func classify(g *grid.RoomGrid, x, z int) cellKind {
	switch {
	case g.IsDoor(x, z):
		return cellDoor
	case g.IsWallZone(x, z):
		return cellWallZone
	case g.IsFloor(x, z):
		return cellFloor
	default:
		return cellOff
	}
}

// planItem is one placed item drawn on a room page.
type planItem struct {
	item      *model.FurnitureItem
	placement model.Placement
	color     rgb
}

// ExportPDF writes an occupancy plan with one page per room grid, followed by
// a summary page listing placements, unplaced items and settings.
func ExportPDF(path string, proj *model.Project, placer *engine.Placer) error {
	roomIDs := placer.Grids().RoomIDs()
	if len(roomIDs) == 0 {
		return fmt.Errorf("no rooms to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	colorIdx := 0
	var all []planItem
	for _, roomID := range roomIDs {
		g, err := placer.Grids().Get(roomID)
		if err != nil {
			return err
		}
		var items []planItem
		for _, id := range placer.Inventory().PlacedInRoom(roomID) {
			pl, err := placer.Placement(id)
			if err != nil {
				return fmt.Errorf("placement of %s: %w", id, err)
			}
			items = append(items, planItem{
				item:      placer.Inventory().Get(id),
				placement: pl,
				color:     itemColors[colorIdx%len(itemColors)],
			})
			colorIdx++
		}
		all = append(all, items...)

		pdf.AddPage()
		renderRoomPage(pdf, roomName(proj, roomID), g, items)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, proj, placer, all)

	return pdf.OutputFileAndClose(path)
}

func roomName(proj *model.Project, roomID int) string {
	if proj != nil {
		if r := proj.Layout.FindRoom(roomID); r != nil && r.Name != "" {
			return r.Name
		}
	}
	return fmt.Sprintf("Room %d", roomID)
}

// renderRoomPage draws one room grid on the current PDF page. Grid row 0 is
// at the bottom of the drawing.
func renderRoomPage(pdf *fpdf.Fpdf, name string, g *grid.RoomGrid, items []planItem) {
	stats := g.Stats()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	width := float64(g.Cols) * g.CellSize
	depth := float64(g.Rows) * g.CellSize
	title := fmt.Sprintf("%s (%.2f x %.2f m, %d x %d cells)", name, width, depth, g.Cols, g.Rows)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	line := fmt.Sprintf("Items: %d | Floor: %.2f m² | Occupied: %.1f%% | Walkable cells: %d | Door cells: %d",
		len(items), stats.FloorArea, percent(stats.Occupied, stats.Floor), stats.Walkable, stats.Door)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, line, "", 0, "L", false, 0, "")

	if g.Empty() {
		return
	}

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	cell := math.Min(drawWidth/float64(g.Cols), drawHeight/float64(g.Rows))
	canvasW := float64(g.Cols) * cell
	canvasH := float64(g.Rows) * cell
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// rect converts a grid rectangle to page coordinates.
	rect := func(x, z, w, d int) (px, py, pw, ph float64) {
		return offsetX + float64(x)*cell, offsetY + float64(g.Rows-z-d)*cell, float64(w) * cell, float64(d) * cell
	}

	// Background: run-length encode each row so large rooms stay small.
	pdf.SetLineWidth(0)
	for z := 0; z < g.Rows; z++ {
		x := 0
		for x < g.Cols {
			kind := classify(g, x, z)
			run := 1
			for x+run < g.Cols && classify(g, x+run, z) == kind {
				run++
			}
			if kind != cellOff {
				c := map[cellKind]rgb{cellFloor: colorFloor, cellWallZone: colorWallZone, cellDoor: colorDoor}[kind]
				pdf.SetFillColor(c.R, c.G, c.B)
				px, py, pw, ph := rect(x, z, run, 1)
				pdf.Rect(px, py, pw, ph, "F")
			}
			x += run
		}
	}

	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "D")

	for _, it := range items {
		pl := it.placement
		halo := lighten(it.color, 0.6)
		pdf.SetFillColor(halo.R, halo.G, halo.B)
		pdf.SetDrawColor(it.color.R, it.color.G, it.color.B)
		pdf.SetLineWidth(0.15)
		px, py, pw, ph := rect(pl.TotalOrigin.X, pl.TotalOrigin.Z, pl.TotalSize.X, pl.TotalSize.Z)
		pdf.Rect(px, py, pw, ph, "FD")

		pdf.SetFillColor(it.color.R, it.color.G, it.color.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		px, py, pw, ph = rect(pl.BodyOrigin.X, pl.BodyOrigin.Z, pl.BodySize.X, pl.BodySize.Z)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 12 && ph > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			if labelW := pdf.GetStringWidth(it.item.Name); labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-2)
				pdf.CellFormat(labelW, 4, it.item.Name, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, width, depth, offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, items, offsetY+canvasH+5)
}

// drawDimensionAnnotations adds width and depth labels outside the grid.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, width, depth, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.2f m", width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	depthLabel := fmt.Sprintf("%.2f m", depth)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	dLabelW := pdf.GetStringWidth(depthLabel)
	pdf.SetXY(offsetX-3-dLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(dLabelW, 4, depthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend renders the cell key and the placed items below the grid.
func drawLegend(pdf *fpdf.Fpdf, items []planItem, startY float64) {
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(0, 0, 0)
	xPos := marginLeft
	maxX := pageWidth - marginRight

	swatch := func(c rgb, label string) {
		labelW := pdf.GetStringWidth(label) + 6
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		pdf.SetFillColor(c.R, c.G, c.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 2
	}

	swatch(colorFloor, "Floor")
	swatch(colorWallZone, "Wall zone")
	swatch(colorDoor, "Door zone")
	for _, it := range items {
		label := fmt.Sprintf("%s (%.0fx%.0f cm, %d°)", it.item.Name, it.item.Size.Width, it.item.Size.Depth, it.placement.Rotation)
		swatch(it.color, label)
	}
}

// renderSummaryPage draws the placement table, unplaced items and settings.
func renderSummaryPage(pdf *fpdf.Fpdf, proj *model.Project, placer *engine.Placer, items []planItem) {
	title := "Placement Summary"
	if proj != nil && proj.Name != "" {
		title += ": " + proj.Name
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, title, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	colWidths := []float64{12, 55, 40, 35, 30, 20, 40, 35}
	headers := []string{"#", "Item", "Room", "Size (cm)", "Pivot", "Rot", "World (m)", "Walls"}

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, h := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += 6
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	for i, it := range items {
		if y > pageHeight-marginBottom-12 {
			pdf.AddPage()
			y = marginTop
			header()
		}
		pl := it.placement
		row := []string{
			fmt.Sprintf("%d", i+1),
			it.item.Name,
			roomName(proj, pl.RoomID),
			fmt.Sprintf("%.0f x %.0f", it.item.Size.Width, it.item.Size.Depth),
			fmt.Sprintf("(%d, %d)", pl.PivotCell.X, pl.PivotCell.Z),
			fmt.Sprintf("%d°", pl.Rotation),
			fmt.Sprintf("%.2f, %.2f", pl.WorldAnchor.X, pl.WorldAnchor.Z),
			wallSides(it.item.Wall),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos := marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	var unplaced []*model.FurnitureItem
	for i := range placer.Inventory().Items {
		if it := &placer.Inventory().Items[i]; !it.IsPlaced {
			unplaced = append(unplaced, it)
		}
	}
	if len(unplaced) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Items", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, it := range unplaced {
			if y > pageHeight-marginBottom-8 {
				pdf.AddPage()
				y = marginTop
			}
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %.0f x %.0f cm in %s", it.Name, it.Size.Width, it.Size.Depth, roomName(proj, it.RoomID))
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	if y > pageHeight-marginBottom-45 {
		pdf.AddPage()
		y = marginTop
	} else {
		y += 8
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Placement Settings", "", 0, "L", false, 0, "")
	y += 9

	s := placer.Settings
	settingsItems := []struct {
		label string
		value string
	}{
		{"Cell Size", fmt.Sprintf("%.3f m", s.CellSize)},
		{"Door Inset", fmt.Sprintf("%.3f m", s.DoorInset)},
		{"Sliding Door Depth", fmt.Sprintf("%.2f m", s.SlidingDoorDepth)},
		{"Connectivity Tolerance", fmt.Sprintf("%d cells", s.ConnectivityTolerance)},
		{"Enforce Connectivity", fmt.Sprintf("%v", s.EnforceConnectivity)},
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by RoomFit - Furniture Placement Planner", "", 0, "C", false, 0, "")
}

func wallSides(w model.WallRequirement) string {
	var sides []string
	for _, s := range model.Sides {
		if w.Requires(s) {
			sides = append(sides, s.String())
		}
	}
	if len(sides) == 0 {
		return "-"
	}
	return strings.Join(sides, ", ")
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
