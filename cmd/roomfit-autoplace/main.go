// roomfit-autoplace places every unplaced furniture item of a saved project
// without opening the GUI.
//
// Usage:
//
//	roomfit-autoplace -project flat.roomfit [-room 2] [-out placed.roomfit]
//	                  [-pdf plan.pdf] [-labels labels.pdf] [-journal j.db]
//	                  [-compare] [-quiet]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/piwi3910/RoomFit/internal/engine"
	"github.com/piwi3910/RoomFit/internal/export"
	"github.com/piwi3910/RoomFit/internal/grid"
	"github.com/piwi3910/RoomFit/internal/model"
	"github.com/piwi3910/RoomFit/internal/monitoring"
	"github.com/piwi3910/RoomFit/internal/project"
	"github.com/piwi3910/RoomFit/internal/store"
)

var (
	styleOK     = color.Style{color.FgGreen, color.OpBold}
	styleFailed = color.Style{color.FgRed, color.OpBold}
	styleRoom   = color.Style{color.FgCyan}
	styleSubtle = color.Style{color.FgGray}
)

type options struct {
	projectPath string
	roomID      int
	outPath     string
	pdfPath     string
	labelsPath  string
	journalPath string
	compare     bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("roomfit: ")

	var opts options
	flag.StringVar(&opts.projectPath, "project", "", "project file to place (required)")
	flag.IntVar(&opts.roomID, "room", 0, "only place items of this room id (default: all rooms)")
	flag.StringVar(&opts.outPath, "out", "", "write the placed project here (default: overwrite -project)")
	flag.StringVar(&opts.pdfPath, "pdf", "", "export an occupancy plan PDF")
	flag.StringVar(&opts.labelsPath, "labels", "", "export QR item labels PDF")
	flag.StringVar(&opts.journalPath, "journal", "", "record placement events in this SQLite journal")
	flag.BoolVar(&opts.compare, "compare", false, "compare alternative settings instead of placing")
	quiet := flag.Bool("quiet", false, "suppress warnings")
	flag.Parse()

	if opts.projectPath == "" {
		fmt.Fprintln(os.Stderr, "Error: project file required (-project)")
		flag.Usage()
		os.Exit(2)
	}
	if *quiet {
		monitoring.SetLogger(nil)
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.Disable()
	}

	failed, err := run(opts, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// run executes one batch and reports to w. It returns the number of items
// that could not be placed.
func run(opts options, w io.Writer) (int, error) {
	proj, err := project.Load(opts.projectPath)
	if err != nil {
		return 0, err
	}

	if opts.compare {
		printComparison(w, engine.CompareScenarios(engine.BuildDefaultScenarios(proj.Settings), proj))
		return 0, nil
	}

	reg := grid.NewBuilder(proj.Settings).BuildAll(&proj.Layout)
	placer := engine.NewPlacer(proj.Settings, reg, &proj.Inventory)
	if opts.journalPath != "" {
		db, err := store.NewDB(opts.journalPath)
		if err != nil {
			return 0, fmt.Errorf("failed to open journal: %w", err)
		}
		defer db.Close()
		placer.SetJournal(db)
	}
	if dropped := placer.ResyncAll(); len(dropped) > 0 {
		monitoring.Warnf("%d saved placement(s) no longer fit and were dropped", len(dropped))
	}

	var results []engine.BatchResult
	if opts.roomID != 0 {
		res, err := placer.AutoPlaceAll(opts.roomID)
		if err != nil {
			return 0, err
		}
		results = append(results, res)
	} else {
		results = placer.AutoPlaceAllRooms()
	}
	failed := printBatches(w, &proj, results)

	out := opts.outPath
	if out == "" {
		out = opts.projectPath
	}
	if err := project.Save(out, proj); err != nil {
		return failed, err
	}
	fmt.Fprintln(w, styleSubtle.Sprintf("saved %s", out))

	if opts.pdfPath != "" {
		if err := export.ExportPDF(opts.pdfPath, &proj, placer); err != nil {
			return failed, fmt.Errorf("failed to export plan: %w", err)
		}
		fmt.Fprintln(w, styleSubtle.Sprintf("plan written to %s", opts.pdfPath))
	}
	if opts.labelsPath != "" {
		if err := export.ExportLabels(opts.labelsPath, &proj, placer); err != nil {
			return failed, fmt.Errorf("failed to export labels: %w", err)
		}
		fmt.Fprintln(w, styleSubtle.Sprintf("labels written to %s", opts.labelsPath))
	}
	return failed, nil
}

func roomName(proj *model.Project, id int) string {
	if r := proj.Layout.FindRoom(id); r != nil && r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("Room %d", id)
}

func printBatches(w io.Writer, proj *model.Project, results []engine.BatchResult) int {
	failed := 0
	for _, r := range results {
		fmt.Fprintf(w, "%s  %s placed, %s failed (%s)\n",
			styleRoom.Sprint(roomName(proj, r.RoomID)),
			styleOK.Sprintf("%d", r.Successes),
			styleFailed.Sprintf("%d", r.Failures),
			r.Duration.Round(time.Millisecond))
		for _, p := range r.Placed {
			item := proj.Inventory.Get(p.InstanceID)
			fmt.Fprintf(w, "  %-24s pivot (%d, %d) rot %3d  at (%.2f, %.2f) m\n",
				item.Name, p.PivotCell.X, p.PivotCell.Z, p.Rotation, p.WorldAnchor.X, p.WorldAnchor.Z)
		}
		ids := append([]string(nil), r.FailedIDs...)
		sort.Strings(ids)
		for _, id := range ids {
			name := id
			if item := proj.Inventory.Get(id); item != nil {
				name = item.Name
			}
			fmt.Fprintf(w, "  %-24s %s\n", name, styleFailed.Sprint(r.Failed[id]))
		}
		failed += r.Failures
	}
	return failed
}

func printComparison(w io.Writer, results []engine.ComparisonResult) {
	fmt.Fprintf(w, "%-28s %8s %10s %10s\n", "Scenario", "Placed", "Unplaced", "Floor %")
	for _, r := range results {
		fmt.Fprintf(w, "%-28s %8d %10d %9.1f%%\n", r.Scenario.Name, r.PlacedCount, r.UnplacedCount, r.FloorUsed)
	}
}
