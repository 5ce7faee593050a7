package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/RoomFit/internal/engine"
	"github.com/piwi3910/RoomFit/internal/export"
	"github.com/piwi3910/RoomFit/internal/grid"
	"github.com/piwi3910/RoomFit/internal/importer"
	"github.com/piwi3910/RoomFit/internal/model"
	"github.com/piwi3910/RoomFit/internal/monitoring"
	"github.com/piwi3910/RoomFit/internal/project"
	"github.com/piwi3910/RoomFit/internal/store"
	"github.com/piwi3910/RoomFit/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	app     fyne.App
	window  fyne.Window
	project model.Project
	path    string // file the project was last saved to or loaded from
	config  model.AppConfig
	history *History
	journal *store.DB

	grids  *grid.Registry
	placer *engine.Placer

	currentRoom int
	preview     *engine.PreviewSession

	tabs *container.AppTabs

	// UI references for dynamic updates
	roomsContainer     *fyne.Container
	furnitureContainer *fyne.Container
	settingsContainer  *fyne.Container
	planContainer      *fyne.Container
	furnitureRoom      *widget.Select
	planRoom           *widget.Select
	planCanvas         *widgets.GridCanvas
	statusLabel        *widget.Label
}

// NewApp loads the user configuration and the placement journal and starts
// with an empty project.
func NewApp(application fyne.App, window fyne.Window) *App {
	a := &App{
		app:     application,
		window:  window,
		history: NewHistory(),
	}

	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		monitoring.Warnf("loading config: %v", err)
		cfg = model.DefaultAppConfig()
	}
	a.config = cfg

	if err := os.MkdirAll(project.DefaultConfigDir(), 0755); err == nil {
		db, err := store.NewDB(project.DefaultJournalPath())
		if err != nil {
			monitoring.Warnf("opening placement journal: %v", err)
		} else {
			a.journal = db
		}
	}

	a.project = a.newProject()
	a.rebuildEngine()
	return a
}

// Theme returns the theme selected in the user configuration.
func (a *App) Theme() fyne.Theme {
	return ThemeForName(a.config.Theme)
}

// Close releases the journal.
func (a *App) Close() {
	a.cancelPreview()
	if a.journal != nil {
		a.journal.Close()
	}
}

func (a *App) newProject() model.Project {
	proj := model.NewProject()
	a.config.ApplyToSettings(&proj.Settings)
	proj.Settings = proj.Settings.Validate()

	catalog, _, err := project.LoadOrCreateCatalog()
	if err != nil {
		monitoring.Warnf("loading catalog: %v", err)
		catalog = model.DefaultCatalog()
	}
	proj.Inventory.Catalog = catalog
	return proj
}

// rebuildEngine rasterizes every room with the project settings and marks
// the placed items again. Items that no longer fit are unplaced.
func (a *App) rebuildEngine() {
	a.cancelPreview()
	a.project.Settings = a.project.Settings.Validate()
	a.grids = grid.NewBuilder(a.project.Settings).BuildAll(&a.project.Layout)
	a.placer = engine.NewPlacer(a.project.Settings, a.grids, &a.project.Inventory)
	if a.journal != nil {
		a.placer.SetJournal(a.journal)
	}
	if dropped := a.placer.ResyncAll(); len(dropped) > 0 {
		a.setStatus(fmt.Sprintf("%d item(s) no longer fit and were removed from the plan", len(dropped)))
	}
	if a.project.Layout.FindRoom(a.currentRoom) == nil {
		a.currentRoom = 0
		if len(a.project.Layout.Rooms) > 0 {
			a.currentRoom = a.project.Layout.Rooms[0].ID
		}
	}
}

func (a *App) cancelPreview() {
	if a.preview != nil {
		a.preview.Cancel()
		a.preview = nil
	}
	if a.planCanvas != nil {
		a.planCanvas.SetPreview(nil)
	}
}

// ─── Undo / Redo ───────────────────────────────────────────

func (a *App) snapshot(label string) Snapshot {
	return MakeSnapshot(a.project.Layout, a.project.Inventory.Items, label)
}

// checkpoint records the current state before a modification.
func (a *App) checkpoint(label string) {
	a.cancelPreview()
	a.history.Push(a.snapshot(label))
}

func (a *App) restore(s Snapshot) {
	a.project.Layout = s.Layout
	a.project.Inventory.Items = s.Items
	if a.project.Inventory.Items == nil {
		a.project.Inventory.Items = []model.FurnitureItem{}
	}
	a.rebuildEngine()
	a.refreshAll()
}

func (a *App) undo() {
	a.cancelPreview()
	label := a.history.UndoLabel()
	s, ok := a.history.Undo(a.snapshot("redo"))
	if !ok {
		return
	}
	a.restore(s)
	a.setStatus("Undid " + label)
}

func (a *App) redo() {
	a.cancelPreview()
	s, ok := a.history.Redo(a.snapshot("undo"))
	if !ok {
		return
	}
	a.restore(s)
	a.setStatus("Redid change")
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	recent := fyne.NewMenuItem("Open Recent", nil)
	var recentItems []*fyne.MenuItem
	for _, path := range a.config.RecentProjects {
		p := path
		recentItems = append(recentItems, fyne.NewMenuItem(filepath.Base(p), func() {
			a.openProjectFile(p)
		}))
	}
	if len(recentItems) == 0 {
		none := fyne.NewMenuItem("(none)", nil)
		none.Disabled = true
		recentItems = append(recentItems, none)
	}
	recent.ChildMenu = fyne.NewMenu("", recentItems...)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", func() {
			a.cancelPreview()
			a.project = a.newProject()
			a.path = ""
			a.history.Clear()
			a.rebuildEngine()
			a.refreshAll()
		}),
		fyne.NewMenuItem("New From Template...", func() {
			a.showNewFromTemplateDialog()
		}),
		fyne.NewMenuItem("Open Project...", func() {
			a.loadProject()
		}),
		recent,
		fyne.NewMenuItem("Save Project...", func() {
			a.saveProject()
		}),
		fyne.NewMenuItem("Save as Template...", func() {
			a.showSaveTemplateDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Floor Plan (DXF)...", func() {
			a.importDXF()
		}),
		fyne.NewMenuItem("Import Furniture from CSV...", func() {
			a.importCSV()
		}),
		fyne.NewMenuItem("Import Furniture from Excel...", func() {
			a.importExcel()
		}),
		fyne.NewMenuItem("Import Catalog...", func() {
			a.importCatalog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Plan PDF...", func() {
			a.exportPDF()
		}),
		fyne.NewMenuItem("Export Item Labels...", func() {
			a.exportLabels()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() { a.undo() }),
		fyne.NewMenuItem("Redo", func() { a.redo() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Room Plan", func() {
			a.clearRoom(a.currentRoom)
		}),
		fyne.NewMenuItem("Remove All Furniture", func() {
			a.checkpoint("Remove All Furniture")
			a.project.Inventory.Items = []model.FurnitureItem{}
			a.rebuildEngine()
			a.refreshAll()
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Auto Place Room", func() {
			a.autoPlaceRoom(a.currentRoom)
			a.tabs.SelectIndex(3)
		}),
		fyne.NewMenuItem("Auto Place All Rooms", func() {
			a.autoPlaceAllRooms()
			a.tabs.SelectIndex(3)
		}),
		fyne.NewMenuItem("Compare Scenarios...", func() {
			a.showCompareDialog()
		}),
		fyne.NewMenuItem("Placement History...", func() {
			a.showJournalDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences...", func() {
			a.showSettingsDialog()
		}),
		fyne.NewMenuItem("Import / Export Data...", func() {
			a.showImportExportDialog()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(
		fileMenu,
		editMenu,
		toolsMenu,
		helpMenu,
	))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About RoomFit",
		"RoomFit - Furniture Placement Planner\n\n"+
			"Rasterizes floor plans into occupancy grids and finds\n"+
			"furniture positions that keep every room reachable\n"+
			"from its doors.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.statusLabel = widget.NewLabel("")

	roomsTab := container.NewTabItem("Rooms", a.buildRoomsPanel())
	furnitureTab := container.NewTabItem("Furniture", a.buildFurniturePanel())
	settingsTab := container.NewTabItem("Settings", a.buildSettingsPanel())
	planTab := container.NewTabItem("Plan", a.buildPlanPanel())

	a.tabs = container.NewAppTabs(roomsTab, furnitureTab, settingsTab, planTab)
	a.tabs.SetTabLocation(container.TabLocationTop)
	a.tabs.OnSelected = func(*container.TabItem) {
		a.cancelPreview()
		a.refreshPlan()
	}

	content := container.NewBorder(nil, a.statusLabel, nil, nil, a.tabs)
	return withToolTipLayer(content, a.window.Canvas())
}

func (a *App) setStatus(msg string) {
	if a.statusLabel != nil {
		a.statusLabel.SetText(msg)
	}
}

func (a *App) refreshAll() {
	a.refreshRoomSelects()
	a.refreshRoomsList()
	a.refreshFurnitureList()
	a.refreshSettings()
	a.refreshPlan()
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) autoPlaceRoom(roomID int) {
	if a.project.Layout.FindRoom(roomID) == nil {
		dialog.ShowInformation("No room", "Import a floor plan or add a room first.", a.window)
		return
	}
	a.checkpoint("Auto Place Room")
	res, err := a.placer.AutoPlaceAll(roomID)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.reportBatch([]engine.BatchResult{res})
	a.refreshAll()
}

func (a *App) autoPlaceAllRooms() {
	if len(a.project.Layout.Rooms) == 0 {
		dialog.ShowInformation("No rooms", "Import a floor plan or add a room first.", a.window)
		return
	}
	a.checkpoint("Auto Place All Rooms")
	a.reportBatch(a.placer.AutoPlaceAllRooms())
	a.refreshAll()
}

func (a *App) reportBatch(results []engine.BatchResult) {
	placed, failed := 0, 0
	var lines []string
	for _, r := range results {
		placed += r.Successes
		failed += r.Failures
		for _, id := range r.FailedIDs {
			name := id
			if item := a.project.Inventory.Get(id); item != nil {
				name = item.Name
			}
			lines = append(lines, fmt.Sprintf("%s (%s): %v", name, a.roomName(r.RoomID), r.Failed[id]))
		}
	}
	a.setStatus(fmt.Sprintf("Placed %d item(s), %d could not be placed", placed, failed))
	if failed > 0 {
		dialog.ShowInformation("Some items could not be placed",
			strings.Join(lines, "\n"), a.window)
	}
}

func (a *App) clearRoom(roomID int) {
	ids := a.project.Inventory.PlacedInRoom(roomID)
	if len(ids) == 0 {
		return
	}
	a.checkpoint("Clear Room Plan")
	for _, id := range ids {
		if err := a.placer.Unplace(id); err != nil {
			monitoring.Warnf("unplacing %s: %v", id, err)
		}
	}
	a.refreshAll()
}

func (a *App) placeItem(instanceID string) {
	item := a.project.Inventory.Get(instanceID)
	if item == nil {
		return
	}
	a.checkpoint("Place " + item.Name)
	if _, err := a.placer.TryPlace(instanceID, item.RoomID); err != nil {
		a.setStatus(fmt.Sprintf("%s: %v", item.Name, err))
		dialog.ShowError(fmt.Errorf("cannot place %s: %w", item.Name, err), a.window)
		return
	}
	a.setStatus(item.Name + " placed")
	a.refreshAll()
}

func (a *App) unplaceItem(instanceID string) {
	a.checkpoint("Remove from plan")
	if err := a.placer.Unplace(instanceID); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.refreshAll()
}

// beginPreview switches to the plan and lets the user drop the item by hand.
func (a *App) beginPreview(instanceID string) {
	item := a.project.Inventory.Get(instanceID)
	if item == nil {
		return
	}
	a.cancelPreview()
	a.currentRoom = item.RoomID
	a.tabs.SelectIndex(3)
	a.refreshRoomSelects()
	a.refreshPlan()

	before := a.snapshot("Place " + item.Name)
	s, err := a.placer.BeginPreview(instanceID, item.RoomID)
	if err != nil {
		dialog.ShowError(fmt.Errorf("cannot place %s: %w", item.Name, err), a.window)
		return
	}
	a.preview = s
	a.planCanvas.OnCommit = func(model.Placement) {
		a.preview = nil
		a.history.Push(before)
		a.setStatus(item.Name + " placed")
		a.refreshAll()
	}
	a.planCanvas.OnCancel = func() {
		a.preview = nil
		a.setStatus("Placement cancelled")
	}
	a.planCanvas.SetPreview(s)
	a.window.Canvas().Focus(a.planCanvas)
	a.setStatus(fmt.Sprintf("Placing %s: move over the plan, Q/E rotate, click to place, Esc to cancel", item.Name))
}

func (a *App) roomName(id int) string {
	if r := a.project.Layout.FindRoom(id); r != nil && r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("Room %d", id)
}

func (a *App) saveProject() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := project.Save(path, a.project); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.path = path
		a.rememberProject(path)
		a.setStatus("Saved " + path)
	}, a.window)
	d.SetFileName(a.project.Name + project.FileExtension)
	d.Show()
}

func (a *App) loadProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.openProjectFile(reader.URI().Path())
	}, a.window)
	d.Show()
}

func (a *App) openProjectFile(path string) {
	proj, err := project.Load(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.cancelPreview()
	a.project = proj
	a.path = path
	a.history.Clear()
	a.rebuildEngine()
	a.rememberProject(path)
	a.refreshAll()
}

func (a *App) rememberProject(path string) {
	a.config.AddRecentProject(path)
	if err := a.saveConfig(); err != nil {
		monitoring.Warnf("saving config: %v", err)
	}
	a.SetupMenus()
}

func (a *App) exportPDF() {
	if a.grids.Len() == 0 {
		dialog.ShowInformation("No rooms", "Import a floor plan before exporting.", a.window)
		return
	}
	a.cancelPreview()
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := export.ExportPDF(path, &a.project, a.placer); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.rememberExportDir(path)
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Plan saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(a.project.Name + "-plan.pdf")
	a.startInExportDir(d)
	d.Show()
}

func (a *App) exportLabels() {
	a.cancelPreview()
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := export.ExportLabels(path, &a.project, a.placer); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.rememberExportDir(path)
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Labels saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(a.project.Name + "-labels.pdf")
	a.startInExportDir(d)
	d.Show()
}

// startInExportDir opens d in the directory of the last export.
func (a *App) startInExportDir(d *dialog.FileDialog) {
	if a.config.LastExportDir == "" {
		return
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(a.config.LastExportDir))
	if err != nil {
		return
	}
	d.SetLocation(lister)
}

func (a *App) rememberExportDir(path string) {
	a.config.LastExportDir = filepath.Dir(path)
	if err := a.saveConfig(); err != nil {
		monitoring.Warnf("saving config: %v", err)
	}
}

// ─── Import Functions ───────────────────────────────────────

func (a *App) importDXF() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := importer.ImportDXF(reader.URI().Path(), importer.DefaultDXFOptions())
		if len(result.Errors) > 0 {
			dialog.ShowError(fmt.Errorf("%s", strings.Join(result.Errors, "\n")), a.window)
			return
		}
		if len(result.Warnings) > 0 {
			monitoring.Warnf("floor plan import: %s", strings.Join(result.Warnings, "; "))
		}

		a.checkpoint("Import Floor Plan")
		a.project.Layout = result.Layout
		a.currentRoom = 0
		a.rebuildEngine()
		a.refreshAll()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Imported %d room(s) and %d wall(s).", len(result.Layout.Rooms), len(result.Layout.Walls)),
			a.window)
	}, a.window)
}

func (a *App) importCSV() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := importer.ImportCSV(reader.URI().Path(), a.currentRoom)
		a.handleImportResult(result)
	}, a.window)
}

func (a *App) importExcel() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := importer.ImportExcel(reader.URI().Path(), a.currentRoom)
		a.handleImportResult(result)
	}, a.window)
}

func (a *App) handleImportResult(result importer.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}

	if len(result.Warnings) > 0 {
		monitoring.Warnf("furniture import: %s", strings.Join(result.Warnings, "; "))
	}

	if len(result.Items) > 0 {
		a.checkpoint("Import Furniture")
		unassigned := 0
		for _, item := range result.Items {
			if a.project.Layout.FindRoom(item.RoomID) == nil {
				unassigned++
			}
			a.project.Inventory.Add(item)
		}
		a.refreshAll()

		msg := fmt.Sprintf("Successfully imported %d items.", len(result.Items))
		if unassigned > 0 {
			msg += fmt.Sprintf("\n\n%d items reference a room that does not exist and cannot be placed.", unassigned)
		}
		if len(result.Errors) > 0 {
			msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
		}
		dialog.ShowInformation("Import Complete", msg, a.window)
	}
}
