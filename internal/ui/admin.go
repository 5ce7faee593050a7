package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/RoomFit/internal/model"
	"github.com/piwi3910/RoomFit/internal/monitoring"
	"github.com/piwi3910/RoomFit/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	// Helper to create a float entry bound to a pointer
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

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	connectivity := widget.NewCheck("", func(b bool) { cfg.DefaultEnforceConnectivity = b })
	connectivity.Checked = cfg.DefaultEnforceConnectivity

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Cell Size (m)", floatEntry(&cfg.DefaultCellSize)),
		widget.NewFormItem("Default Door Inset (m)", floatEntry(&cfg.DefaultDoorInset)),
		widget.NewFormItem("Default Connectivity Tolerance (cells)", intEntry(&cfg.DefaultConnectivityTolerance)),
		widget.NewFormItem("Keep Doors Reachable by Default", connectivity),
	}

	d := dialog.NewForm("Preferences", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			if cfg.DefaultCellSize <= 0 {
				dialog.ShowError(fmt.Errorf("default cell size must be > 0"), a.window)
				return
			}
			a.config = cfg
			a.app.Settings().SetTheme(a.Theme())
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Settings Saved", "Preferences have been saved. New projects use the new defaults.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(520, 420))
	d.Show()
}

// showImportExportDialog displays the import/export data dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()

			templates, err := project.LoadDefaultTemplates()
			if err != nil {
				monitoring.Warnf("loading templates: %v", err)
			}
			if err := project.ExportAllData(path, a.config, a.project.Inventory.Catalog, templates); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("roomfit-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your preferences and layout templates\nand merge the furniture catalog.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					path := reader.URI().Path()
					backup, err := project.ImportAllData(path)
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.config = backup.Config
					if err := a.saveConfig(); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
						return
					}
					if err := project.SaveDefaultTemplates(backup.Templates); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported templates: %w", err), a.window)
						return
					}
					a.setCatalog(project.MergeCatalog(a.project.Inventory.Catalog, backup.Catalog))
					a.app.Settings().SetTheme(a.Theme())
					a.SetupMenus()
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export preferences, the furniture catalog and layout templates to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}

// setCatalog replaces the project catalog and persists it as the user catalog.
func (a *App) setCatalog(catalog []model.CatalogEntry) {
	a.project.Inventory.Catalog = catalog
	path, err := project.DefaultCatalogPath()
	if err == nil {
		err = project.SaveCatalog(path, catalog)
	}
	if err != nil {
		monitoring.Warnf("saving catalog: %v", err)
	}
}

func (a *App) importCatalog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		before := len(a.project.Inventory.Catalog)
		catalog, err := project.ImportCatalog(reader.URI().Path(), a.project.Inventory.Catalog)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to import catalog: %w", err), a.window)
			return
		}
		a.setCatalog(catalog)
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Added %d catalog entries.", len(catalog)-before), a.window)
	}, a.window)
}

// ─── Templates ─────────────────────────────────────────────

func (a *App) showSaveTemplateDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(a.project.Name)
	descEntry := widget.NewMultiLineEntry()
	descEntry.SetPlaceHolder("Optional description")

	dialog.ShowForm("Save as Template", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
		},
		func(ok bool) {
			name := strings.TrimSpace(nameEntry.Text)
			if !ok || name == "" {
				return
			}
			templates, err := project.LoadDefaultTemplates()
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if existing := templates.FindByName(name); existing != nil {
				templates.Remove(existing.ID)
			}
			templates.Add(model.NewLayoutTemplate(name, descEntry.Text, a.project))
			if err := project.SaveDefaultTemplates(templates); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.setStatus(fmt.Sprintf("Template %q saved", name))
		},
		a.window,
	)
}

func (a *App) showNewFromTemplateDialog() {
	templates, err := project.LoadDefaultTemplates()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	names := templates.Names()
	if len(names) == 0 {
		dialog.ShowInformation("No templates", "Save a project as a template first.", a.window)
		return
	}

	templateSelect := widget.NewSelect(names, nil)
	templateSelect.SetSelected(names[0])
	nameEntry := widget.NewEntry()
	nameEntry.SetText("Untitled")

	dialog.ShowForm("New From Template", "Create", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Template", templateSelect),
			widget.NewFormItem("Project Name", nameEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			t := templates.FindByName(templateSelect.Selected)
			if t == nil {
				return
			}
			a.cancelPreview()
			a.project = t.ToProject(strings.TrimSpace(nameEntry.Text))
			a.path = ""
			a.history.Clear()
			a.rebuildEngine()
			a.refreshAll()
		},
		a.window,
	)
}
