package model

// Inventory holds the furniture catalog and every item instance of a project.
// Items keep insertion order, which is the order batch placement visits them.
type Inventory struct {
	Catalog []CatalogEntry  `json:"catalog"`
	Items   []FurnitureItem `json:"items"`
}

// NewInventory returns an empty inventory with non-nil slices.
func NewInventory() Inventory {
	return Inventory{
		Catalog: []CatalogEntry{},
		Items:   []FurnitureItem{},
	}
}

// DefaultCatalog returns a small set of common furniture presets.
func DefaultCatalog() []CatalogEntry {
	return []CatalogEntry{
		{FurnitureID: "bed_double", Name: "Double Bed", Size: SizeCM{Width: 160, Height: 50, Depth: 200},
			Wall: WallRequirement{Back: true}, Clearance: Clearance{Front: 60, Left: 50, Right: 50}},
		{FurnitureID: "wardrobe", Name: "Wardrobe", Size: SizeCM{Width: 100, Height: 200, Depth: 60},
			Wall: WallRequirement{Back: true}, Clearance: Clearance{Front: 70}},
		{FurnitureID: "desk", Name: "Desk", Size: SizeCM{Width: 120, Height: 75, Depth: 60},
			Wall: WallRequirement{Back: true}, Clearance: Clearance{Front: 80}},
		{FurnitureID: "sofa", Name: "Sofa", Size: SizeCM{Width: 200, Height: 85, Depth: 90},
			Wall: WallRequirement{Back: true}, Clearance: Clearance{Front: 50}},
		{FurnitureID: "table", Name: "Dining Table", Size: SizeCM{Width: 140, Height: 75, Depth: 80},
			Clearance: Clearance{Front: 60, Back: 60, Left: 30, Right: 30}},
	}
}

// FindCatalogEntry returns the catalog entry with the given furniture id.
func (inv *Inventory) FindCatalogEntry(furnitureID string) *CatalogEntry {
	for i := range inv.Catalog {
		if inv.Catalog[i].FurnitureID == furnitureID {
			return &inv.Catalog[i]
		}
	}
	return nil
}

// Add appends an item and returns its instance id.
func (inv *Inventory) Add(item FurnitureItem) string {
	if item.InstanceID == "" {
		item.InstanceID = newID()
	}
	inv.Items = append(inv.Items, item)
	return item.InstanceID
}

// AddFromCatalog instantiates qty items of a catalog entry in roomID.
func (inv *Inventory) AddFromCatalog(furnitureID string, roomID, qty int) ([]string, error) {
	entry := inv.FindCatalogEntry(furnitureID)
	if entry == nil {
		return nil, RejectItemNotFound
	}
	ids := make([]string, 0, qty)
	for i := 0; i < qty; i++ {
		ids = append(ids, inv.Add(entry.Instantiate(roomID)))
	}
	return ids, nil
}

// Get returns the item with the given instance id. The pointer is valid until
// the next Add or Remove.
func (inv *Inventory) Get(instanceID string) *FurnitureItem {
	for i := range inv.Items {
		if inv.Items[i].InstanceID == instanceID {
			return &inv.Items[i]
		}
	}
	return nil
}

// Remove deletes an item and reports whether it existed.
func (inv *Inventory) Remove(instanceID string) bool {
	for i := range inv.Items {
		if inv.Items[i].InstanceID == instanceID {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			return true
		}
	}
	return false
}

// ItemsInRoom returns the instance ids assigned to roomID.
func (inv *Inventory) ItemsInRoom(roomID int) []string {
	var ids []string
	for _, item := range inv.Items {
		if item.RoomID == roomID {
			ids = append(ids, item.InstanceID)
		}
	}
	return ids
}

// UnplacedInRoom returns the instance ids in roomID that are not placed.
func (inv *Inventory) UnplacedInRoom(roomID int) []string {
	var ids []string
	for _, item := range inv.Items {
		if item.RoomID == roomID && !item.IsPlaced {
			ids = append(ids, item.InstanceID)
		}
	}
	return ids
}

// PlacedInRoom returns the instance ids in roomID that are placed.
func (inv *Inventory) PlacedInRoom(roomID int) []string {
	var ids []string
	for _, item := range inv.Items {
		if item.RoomID == roomID && item.IsPlaced {
			ids = append(ids, item.InstanceID)
		}
	}
	return ids
}

// MarkPlaced stores a placement on its item.
func (inv *Inventory) MarkPlaced(p Placement) error {
	item := inv.Get(p.InstanceID)
	if item == nil {
		return RejectItemNotFound
	}
	item.IsPlaced = true
	item.RoomID = p.RoomID
	item.GridCell = p.PivotCell
	item.Rotation = p.Rotation
	return nil
}

// MarkUnplaced clears the placed state of an item.
func (inv *Inventory) MarkUnplaced(instanceID string) error {
	item := inv.Get(instanceID)
	if item == nil {
		return RejectItemNotFound
	}
	item.IsPlaced = false
	item.GridCell = Cell{}
	return nil
}

// Clone returns a deep copy.
func (inv Inventory) Clone() Inventory {
	out := Inventory{
		Catalog: make([]CatalogEntry, len(inv.Catalog)),
		Items:   make([]FurnitureItem, len(inv.Items)),
	}
	copy(out.Catalog, inv.Catalog)
	copy(out.Items, inv.Items)
	return out
}
