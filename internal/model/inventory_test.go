package model

import (
	"errors"
	"testing"
)

func TestAddFromCatalog(t *testing.T) {
	inv := NewInventory()
	inv.Catalog = DefaultCatalog()

	ids, err := inv.AddFromCatalog("wardrobe", 2, 3)
	if err != nil {
		t.Fatalf("AddFromCatalog failed: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(ids))
	}
	item := inv.Get(ids[1])
	if item == nil {
		t.Fatal("Get returned nil for added item")
	}
	if item.Size.Width != 100 || item.Size.Depth != 60 {
		t.Errorf("expected catalog size 100x60, got %.0fx%.0f", item.Size.Width, item.Size.Depth)
	}
	if !item.Wall.Back {
		t.Error("expected catalog wall requirement to be copied")
	}

	if _, err := inv.AddFromCatalog("missing", 1, 1); !errors.Is(err, RejectItemNotFound) {
		t.Errorf("expected RejectItemNotFound, got %v", err)
	}
}

func TestUnplacedInRoomKeepsInsertionOrder(t *testing.T) {
	inv := NewInventory()
	a := inv.Add(NewFurnitureItem("A", 50, 50, 1))
	b := inv.Add(NewFurnitureItem("B", 50, 50, 2))
	c := inv.Add(NewFurnitureItem("C", 50, 50, 1))
	d := inv.Add(NewFurnitureItem("D", 50, 50, 1))

	if err := inv.MarkPlaced(Placement{InstanceID: c, RoomID: 1, PivotCell: Cell{X: 3, Z: 4}, Rotation: 90}); err != nil {
		t.Fatalf("MarkPlaced failed: %v", err)
	}

	got := inv.UnplacedInRoom(1)
	if len(got) != 2 || got[0] != a || got[1] != d {
		t.Errorf("expected [%s %s], got %v", a, d, got)
	}
	if placed := inv.PlacedInRoom(1); len(placed) != 1 || placed[0] != c {
		t.Errorf("expected [%s] placed, got %v", c, placed)
	}
	if all := inv.ItemsInRoom(2); len(all) != 1 || all[0] != b {
		t.Errorf("expected [%s] in room 2, got %v", b, all)
	}

	item := inv.Get(c)
	if item.GridCell != (Cell{X: 3, Z: 4}) || item.Rotation != 90 {
		t.Errorf("placement not stored: %+v", item)
	}

	if err := inv.MarkUnplaced(c); err != nil {
		t.Fatalf("MarkUnplaced failed: %v", err)
	}
	if inv.Get(c).IsPlaced {
		t.Error("item should be unplaced")
	}
}

func TestInventoryRemoveAndClone(t *testing.T) {
	inv := NewInventory()
	id := inv.Add(NewFurnitureItem("Chair", 45, 45, 1))

	clone := inv.Clone()
	clone.Items[0].Name = "Stool"
	if inv.Items[0].Name != "Chair" {
		t.Error("Clone should not share item storage")
	}

	if !inv.Remove(id) {
		t.Error("Remove should return true for existing item")
	}
	if inv.Remove(id) {
		t.Error("Remove should return false for missing item")
	}
	if err := inv.MarkUnplaced(id); !errors.Is(err, RejectItemNotFound) {
		t.Errorf("expected RejectItemNotFound, got %v", err)
	}
}
