package ui

import (
	"testing"

	"github.com/piwi3910/RoomFit/internal/model"
)

func items(names ...string) []model.FurnitureItem {
	var out []model.FurnitureItem
	for _, n := range names {
		out = append(out, model.NewFurnitureItem(n, 100, 50, 1))
	}
	return out
}

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.maxDepth != defaultMaxDepth {
		t.Errorf("expected maxDepth %d, got %d", defaultMaxDepth, h.maxDepth)
	}
	if h.CanUndo() {
		t.Error("new history should not be undoable")
	}
	if h.CanRedo() {
		t.Error("new history should not be redoable")
	}
}

func TestPushAndUndo(t *testing.T) {
	h := NewHistory()

	h.Push(MakeSnapshot(model.NewLayout(), nil, "initial"))
	if !h.CanUndo() {
		t.Fatal("should be able to undo after push")
	}
	if h.UndoLabel() != "initial" {
		t.Errorf("expected undo label 'initial', got %q", h.UndoLabel())
	}

	current := MakeSnapshot(model.NewLayout(), items("Sofa"), "current")
	restored, ok := h.Undo(current)
	if !ok {
		t.Fatal("undo should succeed")
	}
	if len(restored.Items) != 0 {
		t.Errorf("expected 0 items after undo, got %d", len(restored.Items))
	}
	if restored.Label != "initial" {
		t.Errorf("expected label 'initial', got %q", restored.Label)
	}
}

func TestUndoRedo(t *testing.T) {
	h := NewHistory()

	h.Push(MakeSnapshot(model.NewLayout(), nil, "empty"))
	h.Push(MakeSnapshot(model.NewLayout(), items("Sofa"), "one item"))
	current := MakeSnapshot(model.NewLayout(), items("Sofa", "Bed"), "two items")

	restored, ok := h.Undo(current)
	if !ok {
		t.Fatal("first undo should succeed")
	}
	if len(restored.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(restored.Items))
	}

	if !h.CanRedo() {
		t.Fatal("should be able to redo")
	}
	redone, ok := h.Redo(restored)
	if !ok {
		t.Fatal("redo should succeed")
	}
	if len(redone.Items) != 2 {
		t.Errorf("expected 2 items after redo, got %d", len(redone.Items))
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(model.NewLayout(), nil, "empty"))

	if _, ok := h.Undo(MakeSnapshot(model.NewLayout(), items("Sofa"), "one item")); !ok {
		t.Fatal("undo should succeed")
	}
	if !h.CanRedo() {
		t.Fatal("should be able to redo after undo")
	}

	h.Push(MakeSnapshot(model.NewLayout(), nil, "new action"))
	if h.CanRedo() {
		t.Error("redo stack should be cleared after push")
	}
}

func TestMaxDepth(t *testing.T) {
	h := &History{maxDepth: 3}
	for i := 0; i < 5; i++ {
		h.Push(MakeSnapshot(model.NewLayout(), nil, ""))
	}
	if len(h.undoStack) != 3 {
		t.Errorf("expected undo stack length 3, got %d", len(h.undoStack))
	}
}

func TestUndoRedoEmpty(t *testing.T) {
	h := NewHistory()
	current := MakeSnapshot(model.NewLayout(), nil, "current")
	if _, ok := h.Undo(current); ok {
		t.Error("undo on empty history should return false")
	}
	if _, ok := h.Redo(current); ok {
		t.Error("redo on empty history should return false")
	}
	if h.UndoLabel() != "" {
		t.Errorf("expected empty undo label, got %q", h.UndoLabel())
	}
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(model.NewLayout(), nil, "a"))
	h.Push(MakeSnapshot(model.NewLayout(), nil, "b"))
	h.Undo(MakeSnapshot(model.NewLayout(), nil, "current"))

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("after clear, should not be able to undo or redo")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	original := items("Sofa")
	layout := model.NewLayout()
	layout.Rooms = append(layout.Rooms, model.Room{
		ID:      1,
		Name:    "Living",
		Outline: model.Outline{{X: 0, Z: 0}, {X: 4, Z: 0}, {X: 4, Z: 4}},
	})
	snap := MakeSnapshot(layout, original, "test")

	original[0].Name = "Modified"
	original[0].IsPlaced = true
	layout.Rooms[0].Outline[0].X = 99

	if snap.Items[0].Name != "Sofa" || snap.Items[0].IsPlaced {
		t.Error("snapshot items should be independent of the original slice")
	}
	if snap.Layout.Rooms[0].Outline[0].X != 0 {
		t.Error("snapshot layout should be independent of the original layout")
	}
}

func TestCopyNilItems(t *testing.T) {
	snap := MakeSnapshot(model.NewLayout(), nil, "nil test")
	if snap.Items != nil {
		t.Error("nil items should stay nil")
	}
}

func TestMultipleUndoRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(model.NewLayout(), nil, "empty"))
	h.Push(MakeSnapshot(model.NewLayout(), items("A"), "1 item"))
	h.Push(MakeSnapshot(model.NewLayout(), items("A", "B"), "2 items"))
	current := MakeSnapshot(model.NewLayout(), items("A", "B", "C"), "3 items")

	s, ok := h.Undo(current)
	if !ok || len(s.Items) != 2 {
		t.Fatalf("first undo: expected 2 items, got %d", len(s.Items))
	}
	s, ok = h.Undo(s)
	if !ok || len(s.Items) != 1 {
		t.Fatalf("second undo: expected 1 item, got %d", len(s.Items))
	}
	s, ok = h.Undo(s)
	if !ok || len(s.Items) != 0 {
		t.Fatalf("third undo: expected 0 items, got %d", len(s.Items))
	}
	if h.CanUndo() {
		t.Error("should not be able to undo further")
	}

	for want := 1; want <= 3; want++ {
		s, ok = h.Redo(s)
		if !ok || len(s.Items) != want {
			t.Fatalf("redo: expected %d items, got %d", want, len(s.Items))
		}
	}
	if h.CanRedo() {
		t.Error("should not be able to redo further")
	}
}
