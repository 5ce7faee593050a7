package model

import "testing"

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.DefaultCellSize != defaults.CellSize {
		t.Errorf("CellSize mismatch: config=%f settings=%f", cfg.DefaultCellSize, defaults.CellSize)
	}
	if cfg.DefaultDoorInset != defaults.DoorInset {
		t.Errorf("DoorInset mismatch: config=%f settings=%f", cfg.DefaultDoorInset, defaults.DoorInset)
	}
	if cfg.DefaultConnectivityTolerance != defaults.ConnectivityTolerance {
		t.Errorf("ConnectivityTolerance mismatch: config=%d settings=%d", cfg.DefaultConnectivityTolerance, defaults.ConnectivityTolerance)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected default theme=system, got %s", cfg.Theme)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil")
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultCellSize = 0.05
	cfg.DefaultConnectivityTolerance = 12
	cfg.DefaultEnforceConnectivity = false

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.CellSize != 0.05 {
		t.Errorf("expected CellSize=0.05, got %f", s.CellSize)
	}
	if s.ConnectivityTolerance != 12 {
		t.Errorf("expected ConnectivityTolerance=12, got %d", s.ConnectivityTolerance)
	}
	if s.EnforceConnectivity {
		t.Error("expected EnforceConnectivity=false")
	}
	// Fields not covered by the config are left alone.
	if s.SlidingDoorDepth != 0.5 {
		t.Errorf("expected SlidingDoorDepth to remain 0.5, got %f", s.SlidingDoorDepth)
	}
}

func TestAddRecentProject(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentProject("a.roomfit")
	cfg.AddRecentProject("b.roomfit")
	cfg.AddRecentProject("a.roomfit")

	if len(cfg.RecentProjects) != 2 {
		t.Fatalf("expected 2 recent projects, got %d", len(cfg.RecentProjects))
	}
	if cfg.RecentProjects[0] != "a.roomfit" {
		t.Errorf("expected most recent first, got %v", cfg.RecentProjects)
	}

	for i := 0; i < 20; i++ {
		cfg.AddRecentProject(string(rune('c'+i)) + ".roomfit")
	}
	if len(cfg.RecentProjects) != maxRecentProjects {
		t.Errorf("expected list capped at %d, got %d", maxRecentProjects, len(cfg.RecentProjects))
	}
}
