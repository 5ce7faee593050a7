package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/RoomFit/internal/engine"
	"github.com/piwi3910/RoomFit/internal/grid"
	"github.com/piwi3910/RoomFit/internal/model"
)

// Item colors, cycled for visual distinction.
var itemColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

var (
	colorOff       = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
	colorFloor     = color.NRGBA{R: 235, G: 228, B: 215, A: 255}
	colorWallZone  = color.NRGBA{R: 205, G: 195, B: 175, A: 255}
	colorDoor      = color.NRGBA{R: 120, G: 190, B: 240, A: 255}
	colorGhostOK   = color.NRGBA{R: 60, G: 200, B: 90, A: 170}
	colorGhostBad  = color.NRGBA{R: 230, G: 60, B: 60, A: 170}
	colorGhostHalo = color.NRGBA{R: 255, G: 255, B: 255, A: 90}
)

// PlacedBox is a placed item as drawn on the plan.
type PlacedBox struct {
	Name  string
	Body  grid.Rect
	Total grid.Rect
}

// GridCanvas renders a room grid with its placed items. While a preview
// session is attached, the item follows the pointer: Q and E rotate it,
// a click commits and Escape cancels.
type GridCanvas struct {
	widget.BaseWidget
	grid      *grid.RoomGrid
	items     []PlacedBox
	maxWidth  float32
	maxHeight float32

	preview  *engine.PreviewSession
	ghost    engine.PreviewResult
	hovering bool

	// OnCommit is called after a preview was committed.
	OnCommit func(model.Placement)
	// OnCancel is called after a preview was cancelled.
	OnCancel func()
	// OnStatus receives a short description of the hovered candidate.
	OnStatus func(string)
}

// NewGridCanvas creates a canvas for g scaled to fit maxW x maxH.
func NewGridCanvas(g *grid.RoomGrid, items []PlacedBox, maxW, maxH float32) *GridCanvas {
	gc := &GridCanvas{
		grid:      g,
		items:     items,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	gc.ExtendBaseWidget(gc)
	return gc
}

// SetPreview attaches an interactive placement session. A nil session
// detaches the current one without cancelling it.
func (gc *GridCanvas) SetPreview(s *engine.PreviewSession) {
	gc.preview = s
	gc.ghost = engine.PreviewResult{}
	gc.hovering = false
	gc.Refresh()
}

// Previewing reports whether a preview session is attached.
func (gc *GridCanvas) Previewing() bool {
	return gc.preview != nil
}

func (gc *GridCanvas) scale() float32 {
	if gc.grid == nil || gc.grid.Empty() {
		return 1
	}
	sx := gc.maxWidth / float32(gc.grid.Cols)
	sz := gc.maxHeight / float32(gc.grid.Rows)
	if sz < sx {
		return sz
	}
	return sx
}

// cellAt maps a widget position to a grid cell. Row 0 is drawn at the bottom.
func (gc *GridCanvas) cellAt(pos fyne.Position) model.Cell {
	s := gc.scale()
	x := int(pos.X / s)
	z := gc.grid.Rows - 1 - int(pos.Y/s)
	return model.Cell{X: x, Z: z}
}

// MouseIn implements desktop.Hoverable.
func (gc *GridCanvas) MouseIn(ev *desktop.MouseEvent) {
	gc.MouseMoved(ev)
}

// MouseMoved implements desktop.Hoverable.
func (gc *GridCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if gc.preview == nil || gc.grid == nil || gc.grid.Empty() {
		return
	}
	c := gc.cellAt(ev.Position)
	if gc.hovering && c == gc.ghost.Pivot {
		return
	}
	gc.show(gc.preview.Hover(c))
}

// MouseOut implements desktop.Hoverable.
func (gc *GridCanvas) MouseOut() {}

// Tapped commits the hovered candidate.
func (gc *GridCanvas) Tapped(ev *fyne.PointEvent) {
	if c := fyne.CurrentApp().Driver().CanvasForObject(gc); c != nil {
		c.Focus(gc)
	}
	if gc.preview == nil {
		return
	}
	gc.show(gc.preview.Hover(gc.cellAt(ev.Position)))
	placement, err := gc.preview.Commit()
	if err != nil {
		gc.status(fmt.Sprintf("Cannot place here: %v", err))
		return
	}
	gc.preview = nil
	gc.hovering = false
	if gc.OnCommit != nil {
		gc.OnCommit(placement)
	}
}

// FocusGained implements fyne.Focusable.
func (gc *GridCanvas) FocusGained() {}

// FocusLost implements fyne.Focusable.
func (gc *GridCanvas) FocusLost() {}

// TypedRune rotates the preview: Q counter-clockwise, E clockwise.
func (gc *GridCanvas) TypedRune(r rune) {
	if gc.preview == nil {
		return
	}
	switch r {
	case 'q', 'Q':
		gc.show(gc.preview.Rotate(-90))
	case 'e', 'E':
		gc.show(gc.preview.Rotate(90))
	}
}

// TypedKey cancels the preview on Escape.
func (gc *GridCanvas) TypedKey(ev *fyne.KeyEvent) {
	if gc.preview == nil || ev.Name != fyne.KeyEscape {
		return
	}
	gc.preview.Cancel()
	gc.preview = nil
	gc.hovering = false
	gc.Refresh()
	if gc.OnCancel != nil {
		gc.OnCancel()
	}
}

func (gc *GridCanvas) show(res engine.PreviewResult) {
	gc.ghost = res
	gc.hovering = res.Body.Area() > 0
	if res.Valid {
		gc.status(fmt.Sprintf("(%d, %d) rotated %d°: OK", res.Pivot.X, res.Pivot.Z, res.Rotation))
	} else if res.Reason != nil {
		gc.status(fmt.Sprintf("(%d, %d) rotated %d°: %v", res.Pivot.X, res.Pivot.Z, res.Rotation, res.Reason))
	}
	gc.Refresh()
}

func (gc *GridCanvas) status(msg string) {
	if gc.OnStatus != nil {
		gc.OnStatus(msg)
	}
}

// CreateRenderer implements fyne.Widget.
func (gc *GridCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newGridCanvasRenderer(gc)
}

type gridCanvasRenderer struct {
	gc      *GridCanvas
	objects []fyne.CanvasObject
}

func newGridCanvasRenderer(gc *GridCanvas) *gridCanvasRenderer {
	r := &gridCanvasRenderer{gc: gc}
	r.rebuild()
	return r
}

func cellColor(g *grid.RoomGrid, x, z int) color.NRGBA {
	switch {
	case g.IsDoor(x, z):
		return colorDoor
	case g.IsWallZone(x, z):
		return colorWallZone
	case g.IsFloor(x, z):
		return colorFloor
	default:
		return colorOff
	}
}

func (r *gridCanvasRenderer) rect(c color.Color, x, y, w, h float32) *canvas.Rectangle {
	rc := canvas.NewRectangle(c)
	rc.Resize(fyne.NewSize(w, h))
	rc.Move(fyne.NewPos(x, y))
	r.objects = append(r.objects, rc)
	return rc
}

// screenRect converts a grid rect to widget coordinates.
func (r *gridCanvasRenderer) screenRect(gr grid.Rect, s float32) (x, y, w, h float32) {
	x = float32(gr.X) * s
	y = float32(r.gc.grid.Rows-gr.Z-gr.D) * s
	return x, y, float32(gr.W) * s, float32(gr.D) * s
}

func (r *gridCanvasRenderer) rebuild() {
	r.objects = nil
	g := r.gc.grid
	if g == nil || g.Empty() {
		return
	}
	s := r.gc.scale()

	// Background, run-length encoded per row
	for z := 0; z < g.Rows; z++ {
		y := float32(g.Rows-1-z) * s
		start := 0
		for x := 1; x <= g.Cols; x++ {
			if x < g.Cols && cellColor(g, x, z) == cellColor(g, start, z) {
				continue
			}
			r.rect(cellColor(g, start, z), float32(start)*s, y, float32(x-start)*s, s)
			start = x
		}
	}

	border := r.rect(color.Transparent, 0, 0, float32(g.Cols)*s, float32(g.Rows)*s)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 2

	for i, it := range r.gc.items {
		col := itemColors[i%len(itemColors)]
		halo := col
		halo.A = 70
		tx, ty, tw, th := r.screenRect(it.Total, s)
		r.rect(halo, tx, ty, tw, th)

		bx, by, bw, bh := r.screenRect(it.Body, s)
		r.rect(col, bx, by, bw, bh)
		edge := r.rect(color.Transparent, bx, by, bw, bh)
		edge.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		edge.StrokeWidth = 1

		if bw > 30 && bh > 14 {
			label := canvas.NewText(it.Name, color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(bx+3, by+2))
			r.objects = append(r.objects, label)
		}
	}

	if r.gc.preview != nil && r.gc.hovering {
		ghost := r.gc.ghost
		tx, ty, tw, th := r.screenRect(ghost.Total, s)
		r.rect(colorGhostHalo, tx, ty, tw, th)
		col := colorGhostBad
		if ghost.Valid {
			col = colorGhostOK
		}
		bx, by, bw, bh := r.screenRect(ghost.Body, s)
		r.rect(col, bx, by, bw, bh)
	}
}

func (r *gridCanvasRenderer) Layout(size fyne.Size)        {}
func (r *gridCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *gridCanvasRenderer) Destroy()                     {}
func (r *gridCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *gridCanvasRenderer) MinSize() fyne.Size {
	g := r.gc.grid
	if g == nil || g.Empty() {
		return fyne.NewSize(0, 0)
	}
	s := r.gc.scale()
	return fyne.NewSize(float32(g.Cols)*s, float32(g.Rows)*s)
}
