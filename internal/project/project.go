// Package project persists projects and application data as JSON files.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/RoomFit/internal/model"
	"github.com/piwi3910/RoomFit/internal/monitoring"
)

// FileExtension is appended to saved project files.
const FileExtension = ".roomfit"

const projectFileVersion = "1"

// projectFile is the on-disk envelope of a project.
type projectFile struct {
	Version string        `json:"version"`
	SavedAt string        `json:"saved_at"`
	Project model.Project `json:"project"`
}

// Save writes the project to path, replacing any existing file atomically.
func Save(path string, proj model.Project) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(projectFile{
		Version: projectFileVersion,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
		Project: proj,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// Load reads a project saved by Save. Out-of-range settings are replaced by
// defaults and layout inconsistencies are logged, not rejected.
func Load(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	var file projectFile
	if err := json.Unmarshal(data, &file); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}
	if file.Version == "" {
		return model.Project{}, fmt.Errorf("invalid project file: missing version field")
	}
	if file.Version != projectFileVersion {
		return model.Project{}, fmt.Errorf("unsupported project file version %q", file.Version)
	}

	proj := file.Project
	if proj.ID == "" {
		proj.ID = model.NewProject().ID
	}
	if proj.Layout.Rooms == nil {
		proj.Layout.Rooms = []model.Room{}
	}
	if proj.Layout.Walls == nil {
		proj.Layout.Walls = []model.Wall{}
	}
	if proj.Layout.Doors == nil {
		proj.Layout.Doors = []model.Door{}
	}
	if proj.Inventory.Catalog == nil {
		proj.Inventory.Catalog = []model.CatalogEntry{}
	}
	if proj.Inventory.Items == nil {
		proj.Inventory.Items = []model.FurnitureItem{}
	}
	proj.Settings = proj.Settings.Validate()

	for _, err := range proj.Layout.Validate() {
		monitoring.Warnf("project %s: %v", filepath.Base(path), err)
	}
	return proj, nil
}
