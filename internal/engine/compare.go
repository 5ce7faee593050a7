package engine

import (
	"fmt"

	"github.com/piwi3910/RoomFit/internal/grid"
	"github.com/piwi3910/RoomFit/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
}

// ComparisonResult holds the auto placement outcome and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Batches       []BatchResult
	PlacedCount   int
	UnplacedCount int
	FloorUsed     float64 // percent of floor cells under item bodies
}

// CompareScenarios auto places every item of the project from scratch under
// each scenario's settings. The project itself is not modified.
func CompareScenarios(scenarios []ComparisonScenario, proj model.Project) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		inv := proj.Inventory.Clone()
		for i := range inv.Items {
			inv.Items[i].IsPlaced = false
			inv.Items[i].GridCell = model.Cell{}
		}

		reg := grid.NewBuilder(scenario.Settings).BuildAll(&proj.Layout)
		placer := NewPlacer(scenario.Settings, reg, &inv)
		batches := placer.AutoPlaceAllRooms()

		res := ComparisonResult{Scenario: scenario, Batches: batches}
		for _, b := range batches {
			res.PlacedCount += b.Successes
		}
		for _, item := range inv.Items {
			if !item.IsPlaced {
				res.UnplacedCount++
			}
		}

		floor, body := 0, 0
		for _, id := range reg.RoomIDs() {
			g, _ := reg.Get(id)
			s := g.Stats()
			floor += s.Floor
			body += s.Body
		}
		if floor > 0 {
			res.FloorUsed = float64(body) / float64(floor) * 100.0
		}

		results = append(results, res)
	}

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.Settings) []ComparisonScenario {
	base = base.Validate()
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// Scenario: coarser grid, faster but wastes partial cells
	coarse := base
	coarse.CellSize = base.CellSize * 2
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Cell %.0fcm (double)", coarse.CellSize*100),
		Settings: coarse,
	})

	// Scenario: finer grid
	if base.CellSize >= 0.05 {
		fine := base
		fine.CellSize = base.CellSize / 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Cell %.1fcm (half)", fine.CellSize*100),
			Settings: fine,
		})
	}

	// Scenario: relaxed connectivity slack
	relaxed := base
	relaxed.ConnectivityTolerance = base.ConnectivityTolerance * 4
	if relaxed.ConnectivityTolerance == 0 {
		relaxed.ConnectivityTolerance = DefaultConnectivityTolerance
	}
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Tolerance %d cells", relaxed.ConnectivityTolerance),
		Settings: relaxed,
	})

	return scenarios
}
