package ui

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/RoomFit/internal/engine"
	"github.com/piwi3910/RoomFit/internal/grid"
	"github.com/piwi3910/RoomFit/internal/importer"
	"github.com/piwi3910/RoomFit/internal/model"
	"github.com/piwi3910/RoomFit/internal/monitoring"
	"github.com/piwi3910/RoomFit/internal/ui/widgets"
)

func boldLabel(text string) *widget.Label {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

func wallText(w model.WallRequirement) string {
	var sides []string
	for _, s := range []model.Side{model.SideFront, model.SideBack, model.SideLeft, model.SideRight} {
		if w.Requires(s) {
			sides = append(sides, s.String())
		}
	}
	if len(sides) == 0 {
		return "-"
	}
	return strings.Join(sides, ",")
}

func clearanceText(c model.Clearance) string {
	if c == (model.Clearance{}) {
		return "-"
	}
	return fmt.Sprintf("F%d B%d L%d R%d", c.Front, c.Back, c.Left, c.Right)
}

// ─── Room selection ────────────────────────────────────────

func (a *App) roomOptions() []string {
	opts := make([]string, 0, len(a.project.Layout.Rooms))
	for _, r := range a.project.Layout.Rooms {
		opts = append(opts, a.roomOption(r.ID))
	}
	return opts
}

func (a *App) roomOption(id int) string {
	return fmt.Sprintf("%d: %s", id, a.roomName(id))
}

func (a *App) roomFromOption(opt string) int {
	idx := strings.Index(opt, ":")
	if idx < 0 {
		return 0
	}
	id, _ := strconv.Atoi(opt[:idx])
	return id
}

func (a *App) newRoomSelect() *widget.Select {
	sel := widget.NewSelect(a.roomOptions(), nil)
	sel.PlaceHolder = "Select a room..."
	return sel
}

// selectRoom makes id the current room for the furniture list and the plan.
func (a *App) selectRoom(id int) {
	if id == a.currentRoom {
		return
	}
	a.cancelPreview()
	a.currentRoom = id
	a.refreshRoomSelects()
	a.refreshFurnitureList()
	a.refreshPlan()
}

func (a *App) refreshRoomSelects() {
	opts := a.roomOptions()
	current := ""
	if a.project.Layout.FindRoom(a.currentRoom) != nil {
		current = a.roomOption(a.currentRoom)
	}
	for _, sel := range []*widget.Select{a.furnitureRoom, a.planRoom} {
		if sel == nil {
			continue
		}
		onChanged := sel.OnChanged
		sel.OnChanged = nil
		sel.Options = opts
		if current == "" {
			sel.ClearSelected()
		} else {
			sel.SetSelected(current)
		}
		sel.OnChanged = onChanged
		sel.Refresh()
	}
}

// ─── Rooms Panel ───────────────────────────────────────────

func (a *App) buildRoomsPanel() fyne.CanvasObject {
	a.roomsContainer = container.NewVBox()
	a.refreshRoomsList()

	addRoomBtn := widget.NewButtonWithIcon("Add Room", theme.ContentAddIcon(), func() {
		a.showAddRoomDialog()
	})
	addDoorBtn := widget.NewButtonWithIcon("Add Door", theme.ContentAddIcon(), func() {
		a.showAddDoorDialog()
	})
	importBtn := widget.NewButtonWithIcon("Import DXF", theme.FolderOpenIcon(), func() {
		a.importDXF()
	})

	return container.NewBorder(
		container.NewHBox(
			boldLabel("Rooms"),
			layout.NewSpacer(),
			importBtn,
			addRoomBtn,
			addDoorBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.roomsContainer),
	)
}

func (a *App) refreshRoomsList() {
	if a.roomsContainer == nil {
		return
	}
	a.roomsContainer.RemoveAll()

	if len(a.project.Layout.Rooms) == 0 {
		a.roomsContainer.Add(widget.NewLabel("No rooms yet. Import a DXF floor plan or click 'Add Room'."))
		return
	}

	a.roomsContainer.Add(container.NewGridWithColumns(8,
		boldLabel("ID"),
		boldLabel("Name"),
		boldLabel("Area (m²)"),
		boldLabel("Grid"),
		boldLabel("Doors"),
		boldLabel("Items"),
		boldLabel("Walkable"),
		widget.NewLabel(""),
	))
	a.roomsContainer.Add(widget.NewSeparator())

	for _, r := range a.project.Layout.Rooms {
		room := r
		gridText, walkText := "-", "-"
		if g, err := a.grids.Get(room.ID); err == nil {
			st := g.Stats()
			gridText = fmt.Sprintf("%d x %d", g.Cols, g.Rows)
			walkText = fmt.Sprintf("%d / %d", st.Walkable, st.Floor)
		}
		placed := len(a.project.Inventory.PlacedInRoom(room.ID))
		total := len(a.project.Inventory.ItemsInRoom(room.ID))

		a.roomsContainer.Add(container.NewGridWithColumns(8,
			widget.NewLabel(strconv.Itoa(room.ID)),
			widget.NewLabel(room.Name),
			widget.NewLabel(fmt.Sprintf("%.2f", room.Outline.Area())),
			widget.NewLabel(gridText),
			widget.NewLabel(strconv.Itoa(len(a.project.Layout.DoorsForRoom(room.ID)))),
			widget.NewLabel(fmt.Sprintf("%d / %d placed", placed, total)),
			widget.NewLabel(walkText),
			container.NewHBox(
				newIconButtonWithTooltip(theme.DocumentCreateIcon(), "Rename room", func() {
					a.showRenameRoomDialog(room.ID)
				}),
				newIconButtonWithTooltip(theme.MediaPlayIcon(), "Auto place room", func() {
					a.selectRoom(room.ID)
					a.autoPlaceRoom(room.ID)
				}),
				newIconButtonWithTooltip(theme.VisibilityIcon(), "Show plan", func() {
					a.selectRoom(room.ID)
					a.tabs.SelectIndex(3)
				}),
			),
		))
	}
}

func (a *App) showRenameRoomDialog(id int) {
	room := a.project.Layout.FindRoom(id)
	if room == nil {
		return
	}
	nameEntry := widget.NewEntry()
	nameEntry.SetText(room.Name)

	dialog.ShowForm("Rename Room", "Save", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", nameEntry)},
		func(ok bool) {
			if !ok || strings.TrimSpace(nameEntry.Text) == "" {
				return
			}
			a.checkpoint("Rename Room")
			if r := a.project.Layout.FindRoom(id); r != nil {
				r.Name = strings.TrimSpace(nameEntry.Text)
			}
			a.refreshAll()
		},
		a.window,
	)
}

// showAddRoomDialog adds a rectangular room. Edges that coincide with
// existing walls become shared walls.
func (a *App) showAddRoomDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(fmt.Sprintf("Room %d", a.project.Layout.NextRoomID()))
	xEntry := widget.NewEntry()
	xEntry.SetText("0")
	zEntry := widget.NewEntry()
	zEntry.SetText("0")
	widthEntry := widget.NewEntry()
	widthEntry.SetPlaceHolder("Width in m")
	depthEntry := widget.NewEntry()
	depthEntry.SetPlaceHolder("Depth in m")

	form := dialog.NewForm("Add Room", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Corner X (m)", xEntry),
			widget.NewFormItem("Corner Z (m)", zEntry),
			widget.NewFormItem("Width (m)", widthEntry),
			widget.NewFormItem("Depth (m)", depthEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			x, _ := strconv.ParseFloat(xEntry.Text, 64)
			z, _ := strconv.ParseFloat(zEntry.Text, 64)
			w, _ := strconv.ParseFloat(widthEntry.Text, 64)
			d, _ := strconv.ParseFloat(depthEntry.Text, 64)
			if w <= 0 || d <= 0 {
				dialog.ShowError(fmt.Errorf("width and depth must be > 0"), a.window)
				return
			}
			a.checkpoint("Add Room")
			id := a.addRoom(strings.TrimSpace(nameEntry.Text), model.Outline{
				{X: x, Z: z}, {X: x + w, Z: z}, {X: x + w, Z: z + d}, {X: x, Z: z + d},
			})
			a.rebuildEngine()
			a.currentRoom = id
			a.refreshAll()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 350))
	form.Show()
}

// addRoom appends a room to the layout, sharing walls that coincide with
// existing ones.
func (a *App) addRoom(name string, outline model.Outline) int {
	l := &a.project.Layout
	id := l.NextRoomID()
	if name == "" {
		name = fmt.Sprintf("Room %d", id)
	}

	room := model.Room{ID: id, Name: name, Outline: outline}
	for i := range outline {
		edge := model.Wall{Start: outline[i], End: outline[(i+1)%len(outline)]}
		if existing := a.matchWall(edge); existing != nil {
			if !existing.Bounds(id) {
				existing.RoomIDs = append(existing.RoomIDs, id)
			}
			room.WallIDs = append(room.WallIDs, existing.ID)
			continue
		}
		edge.ID = a.nextWallID()
		edge.RoomIDs = []int{id}
		l.Walls = append(l.Walls, edge)
		room.WallIDs = append(room.WallIDs, edge.ID)
	}
	l.Rooms = append(l.Rooms, room)
	return id
}

func (a *App) matchWall(w model.Wall) *model.Wall {
	tol := importer.DefaultDXFOptions().Tolerance
	near := func(p, q model.Point2D) bool {
		return math.Hypot(p.X-q.X, p.Z-q.Z) <= tol
	}
	for i := range a.project.Layout.Walls {
		e := &a.project.Layout.Walls[i]
		if (near(e.Start, w.Start) && near(e.End, w.End)) || (near(e.Start, w.End) && near(e.End, w.Start)) {
			return e
		}
	}
	return nil
}

func (a *App) nextWallID() string {
	for n := len(a.project.Layout.Walls) + 1; ; n++ {
		id := fmt.Sprintf("w%d", n)
		if a.project.Layout.FindWall(id) == nil {
			return id
		}
	}
}

// showAddDoorDialog adds an opening on one of the current room's walls.
func (a *App) showAddDoorDialog() {
	room := a.project.Layout.FindRoom(a.currentRoom)
	if room == nil {
		dialog.ShowInformation("No room", "Select a room first.", a.window)
		return
	}

	wallSelect := widget.NewSelect(room.WallIDs, nil)
	if len(room.WallIDs) > 0 {
		wallSelect.SetSelected(room.WallIDs[0])
	}
	kindSelect := widget.NewSelect([]string{"Hinged door", "Sliding door", "Window"}, nil)
	kindSelect.SetSelected("Hinged door")
	swingSelect := widget.NewSelect([]string{"Into room", "Left of wall", "Right of wall"}, nil)
	swingSelect.SetSelected("Into room")
	hingeSelect := widget.NewSelect([]string{"Start side", "End side"}, nil)
	hingeSelect.SetSelected("Start side")
	widthEntry := widget.NewEntry()
	widthEntry.SetText("0.9")
	posEntry := widget.NewEntry()
	posEntry.SetText("0.5")

	form := dialog.NewForm(fmt.Sprintf("Add Door to %s", room.Name), "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Wall", wallSelect),
			widget.NewFormItem("Kind", kindSelect),
			widget.NewFormItem("Width (m)", widthEntry),
			widget.NewFormItem("Position along wall (0-1)", posEntry),
			widget.NewFormItem("Hinge", hingeSelect),
			widget.NewFormItem("Swing", swingSelect),
		},
		func(ok bool) {
			if !ok {
				return
			}
			wall := a.project.Layout.FindWall(wallSelect.Selected)
			width, _ := strconv.ParseFloat(widthEntry.Text, 64)
			pos, err := strconv.ParseFloat(posEntry.Text, 64)
			if wall == nil || width <= 0 || err != nil || pos < 0 || pos > 1 {
				dialog.ShowError(fmt.Errorf("select a wall, a width > 0 and a position between 0 and 1"), a.window)
				return
			}

			door := doorOnWall(*wall, pos, width, hingeSelect.Selected == "End side")
			door.ID = fmt.Sprintf("d%d", len(a.project.Layout.Doors)+1)
			switch kindSelect.Selected {
			case "Sliding door":
				door.Kind = model.DoorSliding
			case "Window":
				door.Kind = model.DoorWindow
			default:
				door.Kind = model.DoorHinged
			}
			switch swingSelect.Selected {
			case "Left of wall":
				door.Swing = model.SwingLeft
			case "Right of wall":
				door.Swing = model.SwingRight
			}

			a.checkpoint("Add Door")
			a.project.Layout.Doors = append(a.project.Layout.Doors, door)
			a.rebuildEngine()
			a.refreshAll()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(450, 400))
	form.Show()
}

// doorOnWall centers a door at fraction pos along the wall with its hinge on
// the start or end side.
func doorOnWall(w model.Wall, pos, width float64, hingeAtEnd bool) model.Door {
	dx, dz := w.End.X-w.Start.X, w.End.Z-w.Start.Z
	length := math.Hypot(dx, dz)
	ux, uz := 0.0, 0.0
	if length > 0 {
		ux, uz = dx/length, dz/length
	}
	cx, cz := w.Start.X+dx*pos, w.Start.Z+dz*pos
	half := width / 2
	if hingeAtEnd {
		half = -half
	}
	return model.Door{
		WallID: w.ID,
		Center: model.Vec3{X: cx, Z: cz},
		Hinge:  model.Vec3{X: cx - ux*half, Z: cz - uz*half},
		Width:  width,
	}
}

// ─── Furniture Panel ───────────────────────────────────────

func (a *App) buildFurniturePanel() fyne.CanvasObject {
	a.furnitureContainer = container.NewVBox()
	a.furnitureRoom = a.newRoomSelect()
	a.furnitureRoom.OnChanged = func(opt string) {
		a.selectRoom(a.roomFromOption(opt))
	}
	a.refreshRoomSelects()
	a.refreshFurnitureList()

	addBtn := widget.NewButtonWithIcon("Add Item", theme.ContentAddIcon(), func() {
		a.showItemDialog("")
	})
	catalogBtn := widget.NewButtonWithIcon("Add From Catalog", theme.ListIcon(), func() {
		a.showAddFromCatalogDialog()
	})
	autoBtn := widget.NewButtonWithIcon("Auto Place Room", theme.MediaPlayIcon(), func() {
		a.autoPlaceRoom(a.currentRoom)
	})

	return container.NewBorder(
		container.NewHBox(
			boldLabel("Furniture in"),
			a.furnitureRoom,
			layout.NewSpacer(),
			catalogBtn,
			addBtn,
			autoBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.furnitureContainer),
	)
}

func (a *App) refreshFurnitureList() {
	if a.furnitureContainer == nil {
		return
	}
	a.furnitureContainer.RemoveAll()

	ids := a.project.Inventory.ItemsInRoom(a.currentRoom)
	if len(ids) == 0 {
		a.furnitureContainer.Add(widget.NewLabel("No furniture in this room. Click 'Add Item' or import a CSV file."))
		return
	}

	a.furnitureContainer.Add(container.NewGridWithColumns(7,
		boldLabel("Name"),
		boldLabel("Size W x D (cm)"),
		boldLabel("Against Wall"),
		boldLabel("Clearance (cm)"),
		boldLabel("Status"),
		boldLabel("Rotation"),
		widget.NewLabel(""),
	))
	a.furnitureContainer.Add(widget.NewSeparator())

	for _, id := range ids {
		instanceID := id
		item := a.project.Inventory.Get(instanceID)
		status := "Not placed"
		rotation := "-"
		if item.IsPlaced {
			status = fmt.Sprintf("Placed at (%d, %d)", item.GridCell.X, item.GridCell.Z)
			rotation = fmt.Sprintf("%d°", item.Rotation)
		}

		var actions *fyne.Container
		if item.IsPlaced {
			actions = container.NewHBox(
				newIconButtonWithTooltip(theme.ContentUndoIcon(), "Remove from plan", func() {
					a.unplaceItem(instanceID)
				}),
				newIconButtonWithTooltip(theme.DeleteIcon(), "Delete item", func() {
					a.deleteItem(instanceID)
				}),
			)
		} else {
			actions = container.NewHBox(
				newIconButtonWithTooltip(theme.MediaPlayIcon(), "Auto place", func() {
					a.placeItem(instanceID)
				}),
				newIconButtonWithTooltip(theme.NavigateNextIcon(), "Place on plan", func() {
					a.beginPreview(instanceID)
				}),
				newIconButtonWithTooltip(theme.DocumentCreateIcon(), "Edit item", func() {
					a.showItemDialog(instanceID)
				}),
				newIconButtonWithTooltip(theme.DeleteIcon(), "Delete item", func() {
					a.deleteItem(instanceID)
				}),
			)
		}

		a.furnitureContainer.Add(container.NewGridWithColumns(7,
			widget.NewLabel(item.Name),
			widget.NewLabel(fmt.Sprintf("%.0f x %.0f", item.Size.Width, item.Size.Depth)),
			widget.NewLabel(wallText(item.Wall)),
			widget.NewLabel(clearanceText(item.Clearance)),
			widget.NewLabel(status),
			widget.NewLabel(rotation),
			actions,
		))
	}
}

func (a *App) deleteItem(instanceID string) {
	item := a.project.Inventory.Get(instanceID)
	if item == nil {
		return
	}
	a.checkpoint("Delete " + item.Name)
	if item.IsPlaced {
		if err := a.placer.Unplace(instanceID); err != nil {
			monitoring.Warnf("unplacing %s: %v", instanceID, err)
		}
	}
	a.project.Inventory.Remove(instanceID)
	a.refreshAll()
}

// showItemDialog edits an unplaced item, or adds a new one when instanceID
// is empty.
func (a *App) showItemDialog(instanceID string) {
	if a.project.Layout.FindRoom(a.currentRoom) == nil {
		dialog.ShowInformation("No room", "Select a room first.", a.window)
		return
	}
	item := model.NewFurnitureItem(fmt.Sprintf("Item %d", len(a.project.Inventory.Items)+1), 0, 0, a.currentRoom)
	title, confirm := "Add Item", "Add"
	if instanceID != "" {
		existing := a.project.Inventory.Get(instanceID)
		if existing == nil {
			return
		}
		item = *existing
		title, confirm = "Edit Item", "Save"
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetText(item.Name)
	widthEntry := widget.NewEntry()
	widthEntry.SetPlaceHolder("Width in cm")
	depthEntry := widget.NewEntry()
	depthEntry.SetPlaceHolder("Depth in cm")
	heightEntry := widget.NewEntry()
	heightEntry.SetPlaceHolder("Height in cm (optional)")
	if instanceID != "" {
		widthEntry.SetText(fmt.Sprintf("%.1f", item.Size.Width))
		depthEntry.SetText(fmt.Sprintf("%.1f", item.Size.Depth))
		heightEntry.SetText(fmt.Sprintf("%.1f", item.Size.Height))
	}
	wallEntry := widget.NewEntry()
	wallEntry.SetPlaceHolder("e.g. back or back,left")
	if item.Wall.Any() {
		wallEntry.SetText(wallText(item.Wall))
	}
	clearance := []*widget.Entry{widget.NewEntry(), widget.NewEntry(), widget.NewEntry(), widget.NewEntry()}
	for i, v := range []int{item.Clearance.Front, item.Clearance.Back, item.Clearance.Left, item.Clearance.Right} {
		clearance[i].SetText(strconv.Itoa(v))
	}

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Width (cm)", widthEntry),
			widget.NewFormItem("Depth (cm)", depthEntry),
			widget.NewFormItem("Height (cm)", heightEntry),
			widget.NewFormItem("Against wall", wallEntry),
			widget.NewFormItem("Clearance front (cm)", clearance[0]),
			widget.NewFormItem("Clearance back (cm)", clearance[1]),
			widget.NewFormItem("Clearance left (cm)", clearance[2]),
			widget.NewFormItem("Clearance right (cm)", clearance[3]),
		},
		func(ok bool) {
			if !ok {
				return
			}
			w, _ := strconv.ParseFloat(widthEntry.Text, 64)
			d, _ := strconv.ParseFloat(depthEntry.Text, 64)
			h, _ := strconv.ParseFloat(heightEntry.Text, 64)
			if w <= 0 || d <= 0 {
				dialog.ShowError(fmt.Errorf("width and depth must be > 0"), a.window)
				return
			}
			wall, err := importer.ParseWallSides(wallEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			var c [4]int
			for i, e := range clearance {
				v, err := strconv.Atoi(strings.TrimSpace(e.Text))
				if err != nil || v < 0 {
					dialog.ShowError(fmt.Errorf("clearance must be a whole number of centimeters >= 0"), a.window)
					return
				}
				c[i] = v
			}

			item.Name = strings.TrimSpace(nameEntry.Text)
			if instanceID == "" {
				item.FurnitureID = item.Name
			}
			item.Size = model.SizeCM{Width: w, Depth: d, Height: h}
			item.Wall = wall
			item.Clearance = model.Clearance{Front: c[0], Back: c[1], Left: c[2], Right: c[3]}

			a.checkpoint(title)
			if instanceID == "" {
				a.project.Inventory.Add(item)
			} else if existing := a.project.Inventory.Get(instanceID); existing != nil {
				*existing = item
			}
			a.refreshAll()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 520))
	form.Show()
}

func (a *App) showAddFromCatalogDialog() {
	if a.project.Layout.FindRoom(a.currentRoom) == nil {
		dialog.ShowInformation("No room", "Select a room first.", a.window)
		return
	}
	catalog := a.project.Inventory.Catalog
	if len(catalog) == 0 {
		dialog.ShowInformation("Empty catalog", "Import a catalog first.", a.window)
		return
	}

	names := make([]string, len(catalog))
	for i, c := range catalog {
		names[i] = fmt.Sprintf("%s (%.0f x %.0f cm)", c.Name, c.Size.Width, c.Size.Depth)
	}
	entrySelect := widget.NewSelect(names, nil)
	entrySelect.SetSelected(names[0])
	qtyEntry := widget.NewEntry()
	qtyEntry.SetText("1")

	dialog.ShowForm("Add From Catalog", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Furniture", entrySelect),
			widget.NewFormItem("Quantity", qtyEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			idx := entrySelect.SelectedIndex()
			qty, _ := strconv.Atoi(qtyEntry.Text)
			if idx < 0 || qty <= 0 {
				dialog.ShowError(fmt.Errorf("select an entry and a quantity > 0"), a.window)
				return
			}
			a.checkpoint("Add From Catalog")
			if _, err := a.project.Inventory.AddFromCatalog(catalog[idx].FurnitureID, a.currentRoom, qty); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.refreshAll()
		},
		a.window,
	)
}

// ─── Settings Panel ────────────────────────────────────────

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	a.settingsContainer = container.NewVBox()
	a.refreshSettings()
	return container.NewVScroll(a.settingsContainer)
}

func (a *App) refreshSettings() {
	if a.settingsContainer == nil {
		return
	}
	a.settingsContainer.RemoveAll()

	s := a.project.Settings
	s.Rotations = append([]int(nil), s.Rotations...)

	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%d", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	connectivity := widget.NewCheck("", func(b bool) { s.EnforceConnectivity = b })
	connectivity.Checked = s.EnforceConnectivity

	gridSection := widget.NewCard("Grid", "", container.NewGridWithColumns(2,
		widget.NewLabel("Cell Size (m)"), floatEntry(&s.CellSize),
		widget.NewLabel("Door Inset (m)"), floatEntry(&s.DoorInset),
		widget.NewLabel("Sliding Door Depth (m)"), floatEntry(&s.SlidingDoorDepth),
		widget.NewLabel("Door Approach Depth (m)"), floatEntry(&s.DoorApproachDepth),
	))

	placementSection := widget.NewCard("Placement", "", container.NewGridWithColumns(2,
		widget.NewLabel("Connectivity Tolerance (cells)"), intEntry(&s.ConnectivityTolerance),
		widget.NewLabel("Keep Doors Reachable on Single Placement"), connectivity,
	))

	applyBtn := widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), func() {
		a.checkpoint("Change Settings")
		a.project.Settings = s.Validate()
		a.rebuildEngine()
		a.refreshAll()
	})

	a.settingsContainer.Add(gridSection)
	a.settingsContainer.Add(placementSection)
	a.settingsContainer.Add(container.NewHBox(layout.NewSpacer(), applyBtn))
}

// ─── Plan Panel ────────────────────────────────────────────

func (a *App) buildPlanPanel() fyne.CanvasObject {
	a.planContainer = container.NewStack()
	a.planRoom = a.newRoomSelect()
	a.planRoom.OnChanged = func(opt string) {
		a.selectRoom(a.roomFromOption(opt))
	}
	a.refreshRoomSelects()
	a.refreshPlan()

	autoBtn := widget.NewButtonWithIcon("Auto Place", theme.MediaPlayIcon(), func() {
		a.autoPlaceRoom(a.currentRoom)
	})
	clearBtn := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() {
		a.clearRoom(a.currentRoom)
	})

	return container.NewBorder(
		container.NewHBox(boldLabel("Plan of"), a.planRoom, layout.NewSpacer(), autoBtn, clearBtn),
		nil, nil, nil,
		container.NewScroll(a.planContainer),
	)
}

func (a *App) placedBoxes(roomID int) []widgets.PlacedBox {
	var boxes []widgets.PlacedBox
	for _, id := range a.project.Inventory.PlacedInRoom(roomID) {
		pl, err := a.placer.Placement(id)
		if err != nil {
			continue
		}
		boxes = append(boxes, widgets.PlacedBox{
			Name:  a.project.Inventory.Get(id).Name,
			Body:  grid.RectAt(pl.BodyOrigin, pl.BodySize.X, pl.BodySize.Z),
			Total: grid.RectAt(pl.TotalOrigin, pl.TotalSize.X, pl.TotalSize.Z),
		})
	}
	return boxes
}

func (a *App) refreshPlan() {
	if a.planContainer == nil {
		return
	}
	a.planContainer.RemoveAll()

	g, err := a.grids.Get(a.currentRoom)
	if err != nil {
		a.planCanvas = nil
		a.planContainer.Add(widget.NewLabel("No room selected. Import a floor plan or add a room."))
		a.planContainer.Refresh()
		return
	}
	if g.Empty() {
		a.planCanvas = nil
		a.planContainer.Add(widget.NewLabel("This room's outline is degenerate and has no floor cells."))
		a.planContainer.Refresh()
		return
	}

	a.planCanvas = widgets.NewGridCanvas(g, a.placedBoxes(a.currentRoom), 800, 550)
	a.planCanvas.OnStatus = a.setStatus

	st := g.Stats()
	summary := widget.NewLabel(fmt.Sprintf(
		"%s: %d x %d cells of %.0f cm, %.2f m² floor, %d of %d floor cells walkable, %d cells under furniture",
		a.roomName(a.currentRoom), g.Cols, g.Rows, g.CellSize*100, st.FloorArea, st.Walkable, st.Floor, st.Body,
	))
	summary.TextStyle = fyne.TextStyle{Bold: true}

	a.planContainer.Add(container.NewVBox(summary, a.planCanvas))
	a.planContainer.Refresh()
}

// ─── Tools ─────────────────────────────────────────────────

func (a *App) showCompareDialog() {
	if len(a.project.Layout.Rooms) == 0 {
		dialog.ShowInformation("No rooms", "Import a floor plan or add a room first.", a.window)
		return
	}
	results := engine.CompareScenarios(engine.BuildDefaultScenarios(a.project.Settings), a.project)

	rows := []fyne.CanvasObject{
		boldLabel("Scenario"), boldLabel("Placed"), boldLabel("Unplaced"), boldLabel("Floor Used"),
	}
	for _, r := range results {
		rows = append(rows,
			widget.NewLabel(r.Scenario.Name),
			widget.NewLabel(strconv.Itoa(r.PlacedCount)),
			widget.NewLabel(strconv.Itoa(r.UnplacedCount)),
			widget.NewLabel(fmt.Sprintf("%.1f%%", r.FloorUsed)),
		)
	}

	content := container.NewVBox(
		widget.NewLabel("Every item auto placed from scratch under each scenario. Your plan is not changed."),
		widget.NewSeparator(),
		container.NewGridWithColumns(4, rows...),
	)
	d := dialog.NewCustom("Compare Scenarios", "Close", container.NewVScroll(content), a.window)
	d.Resize(fyne.NewSize(620, 380))
	d.Show()
}

func (a *App) showJournalDialog() {
	if a.journal == nil {
		dialog.ShowInformation("Placement History", "The placement journal is not available.", a.window)
		return
	}
	events, err := a.journal.RoomHistory(a.currentRoom)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].At.After(events[j].At) })

	rows := []fyne.CanvasObject{boldLabel("Time"), boldLabel("Item"), boldLabel("Action"), boldLabel("Pivot")}
	for _, ev := range events {
		name := ev.InstanceID
		if item := a.project.Inventory.Get(ev.InstanceID); item != nil {
			name = item.Name
		}
		rows = append(rows,
			widget.NewLabel(ev.At.Format("2006-01-02 15:04:05")),
			widget.NewLabel(name),
			widget.NewLabel(string(ev.Action)),
			widget.NewLabel(fmt.Sprintf("(%d, %d) %d°", ev.PivotCell.X, ev.PivotCell.Z, ev.Rotation)),
		)
	}

	var body fyne.CanvasObject = container.NewGridWithColumns(4, rows...)
	if len(events) == 0 {
		body = widget.NewLabel("No placements recorded for this room yet.")
	}
	d := dialog.NewCustom(fmt.Sprintf("Placement History: %s", a.roomName(a.currentRoom)), "Close",
		container.NewVScroll(body), a.window)
	d.Resize(fyne.NewSize(620, 420))
	d.Show()
}
