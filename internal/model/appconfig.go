package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default engine settings applied to new projects
	DefaultCellSize              float64 `json:"default_cell_size"`
	DefaultDoorInset             float64 `json:"default_door_inset"`
	DefaultConnectivityTolerance int     `json:"default_connectivity_tolerance"`
	DefaultEnforceConnectivity   bool    `json:"default_enforce_connectivity"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	LastExportDir  string   `json:"last_export_dir"`
	Theme          string   `json:"theme"` // "light", "dark", "system"
}

// maxRecentProjects bounds the RecentProjects list.
const maxRecentProjects = 10

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultCellSize:              defaults.CellSize,
		DefaultDoorInset:             defaults.DoorInset,
		DefaultConnectivityTolerance: defaults.ConnectivityTolerance,
		DefaultEnforceConnectivity:   defaults.EnforceConnectivity,
		RecentProjects:               []string{},
		Theme:                        "system",
	}
}

// ApplyToSettings copies the default values from AppConfig into Settings.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *Settings) {
	s.CellSize = c.DefaultCellSize
	s.DoorInset = c.DefaultDoorInset
	s.ConnectivityTolerance = c.DefaultConnectivityTolerance
	s.EnforceConnectivity = c.DefaultEnforceConnectivity
}

// AddRecentProject moves path to the front of the recent list.
func (c *AppConfig) AddRecentProject(path string) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path && len(recent) < maxRecentProjects {
			recent = append(recent, p)
		}
	}
	c.RecentProjects = recent
}
