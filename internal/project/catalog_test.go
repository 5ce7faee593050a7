package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RoomFit/internal/model"
)

func TestDefaultCatalogPath(t *testing.T) {
	path, err := DefaultCatalogPath()
	require.NoError(t, err)
	assert.Equal(t, "catalog.json", filepath.Base(path))
	assert.Equal(t, ".roomfit", filepath.Base(filepath.Dir(path)))
}

func TestSaveAndLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	catalog := []model.CatalogEntry{
		{FurnitureID: "armchair", Name: "Armchair", Size: model.SizeCM{Width: 80, Depth: 85},
			Clearance: model.Clearance{Front: 40}},
	}

	require.NoError(t, SaveCatalog(path, catalog))
	loaded, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, catalog, loaded)
}

func TestLoadCatalog_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "catalog.json")

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCatalog(), catalog)

	_, err = os.Stat(path)
	assert.NoError(t, err, "default catalog should be written to disk")
}

func TestLoadCatalog_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte("[{"), 0644))

	_, err := LoadCatalog(path)
	assert.Error(t, err)
}

func TestImportCatalog_SkipsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.json")
	imported := []model.CatalogEntry{
		{FurnitureID: "sofa", Name: "Other Sofa"},
		{FurnitureID: "lamp", Name: "Floor Lamp", Size: model.SizeCM{Width: 30, Depth: 30}},
		{FurnitureID: "lamp", Name: "Second Lamp"},
	}
	data, err := json.Marshal(imported)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	existing := model.DefaultCatalog()
	merged, err := ImportCatalog(path, existing)
	require.NoError(t, err)

	require.Len(t, merged, len(model.DefaultCatalog())+1)
	last := merged[len(merged)-1]
	assert.Equal(t, "lamp", last.FurnitureID)
	assert.Equal(t, "Floor Lamp", last.Name)

	for _, e := range merged {
		if e.FurnitureID == "sofa" {
			assert.Equal(t, "Sofa", e.Name, "existing entry must win")
		}
	}
}

func TestImportCatalog_MissingFile(t *testing.T) {
	existing := model.DefaultCatalog()
	merged, err := ImportCatalog(filepath.Join(t.TempDir(), "none.json"), existing)
	assert.Error(t, err)
	assert.Equal(t, existing, merged)
}
