package model

import (
	"time"
)

// LayoutTemplate represents a reusable floor plan with its furniture list.
// Placements are not captured: instantiated items start unplaced.
type LayoutTemplate struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
	Layout      Layout          `json:"layout"`
	Catalog     []CatalogEntry  `json:"catalog"`
	Items       []FurnitureItem `json:"items"`
	Settings    Settings        `json:"settings"`
}

// NewLayoutTemplate creates a new template from the given project.
func NewLayoutTemplate(name, description string, proj Project) LayoutTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	inv := proj.Inventory.Clone()
	for i := range inv.Items {
		inv.Items[i].IsPlaced = false
		inv.Items[i].GridCell = Cell{}
		inv.Items[i].Rotation = 0
	}
	return LayoutTemplate{
		ID:          newID(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Layout:      proj.Layout.Clone(),
		Catalog:     inv.Catalog,
		Items:       inv.Items,
		Settings:    proj.Settings,
	}
}

// ToProject creates a new Project from this template.
// Items get fresh instance ids so they are independent of the template.
func (t LayoutTemplate) ToProject(projectName string) Project {
	proj := NewProject()
	proj.Name = projectName
	proj.Layout = t.Layout.Clone()
	proj.Settings = t.Settings
	proj.Inventory.Catalog = append(proj.Inventory.Catalog, t.Catalog...)
	for _, item := range t.Items {
		item.InstanceID = newID()
		item.IsPlaced = false
		proj.Inventory.Add(item)
	}
	return proj
}

// TemplateStore holds a collection of layout templates.
type TemplateStore struct {
	Templates []LayoutTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []LayoutTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t LayoutTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *LayoutTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names for UI dropdowns.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *LayoutTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}
