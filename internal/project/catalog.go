package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/RoomFit/internal/model"
)

// DefaultCatalogPath returns the default file path for the furniture
// catalog, ~/.roomfit/catalog.json.
func DefaultCatalogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".roomfit", "catalog.json"), nil
}

// SaveCatalog writes the catalog to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveCatalog(path string, catalog []model.CatalogEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCatalog reads the catalog from the specified JSON file.
// If the file does not exist, it returns the default catalog and saves it.
func LoadCatalog(path string) ([]model.CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			catalog := model.DefaultCatalog()
			if saveErr := SaveCatalog(path, catalog); saveErr != nil {
				return catalog, saveErr
			}
			return catalog, nil
		}
		return nil, err
	}
	var catalog []model.CatalogEntry
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, err
	}
	if catalog == nil {
		catalog = []model.CatalogEntry{}
	}
	return catalog, nil
}

// LoadOrCreateCatalog loads the catalog from the default path.
// If the file does not exist, it creates one with default entries.
func LoadOrCreateCatalog() ([]model.CatalogEntry, string, error) {
	path, err := DefaultCatalogPath()
	if err != nil {
		return model.DefaultCatalog(), "", err
	}
	catalog, err := LoadCatalog(path)
	return catalog, path, err
}

// ImportCatalog reads catalog entries from a JSON file and appends the ones
// whose furniture id is not already present.
func ImportCatalog(path string, existing []model.CatalogEntry) ([]model.CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported []model.CatalogEntry
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}
	return MergeCatalog(existing, imported), nil
}

// MergeCatalog appends entries of imported whose furniture id is not in
// existing. Duplicate ids within imported keep the first entry.
func MergeCatalog(existing, imported []model.CatalogEntry) []model.CatalogEntry {
	ids := make(map[string]bool, len(existing))
	for _, e := range existing {
		ids[e.FurnitureID] = true
	}
	for _, e := range imported {
		if !ids[e.FurnitureID] {
			existing = append(existing, e)
			ids[e.FurnitureID] = true
		}
	}
	return existing
}
