// RoomFit, a grid-based furniture placement planner.
//
// A cross-platform desktop application that rasterizes room outlines into
// placement grids and places furniture along walls while keeping every
// door reachable.
//
// Build:
//   go build -o roomfit ./cmd/roomfit
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o roomfit.exe ./cmd/roomfit
//   GOOS=darwin  GOARCH=amd64 go build -o roomfit-darwin ./cmd/roomfit

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/RoomFit/internal/ui"
)

func main() {
	application := app.NewWithID("com.piwi3910.roomfit")
	window := application.NewWindow("RoomFit - Furniture Placement Planner")

	appUI := ui.NewApp(application, window)
	application.Settings().SetTheme(appUI.Theme())
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.SetOnClosed(appUI.Close)
	window.Resize(fyne.NewSize(1400, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
