package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/RoomFit/internal/model"
	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Name,Width,Depth,Qty\nSofa,200,90,1\nBed,160,200,1\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Name;Width;Depth;Qty\nSofa;200;90;1\nBed;160;200;1\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Name\tWidth\tDepth\tQty\nSofa\t200\t90\t1\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("Name|Width|Depth|Qty\nSofa|200|90|1\n")
	if got := DetectCSVDelimiter(data); got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Name", "Width", "Depth", "Height", "Quantity", "Room", "Wall",
		"Clearance_Front", "Clearance_Back", "Clearance_Left", "Clearance_Right"}
	mapping, ok := DetectColumns(row)
	if !ok {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{
		Name: 0, FurnitureID: -1, Width: 1, Depth: 2, Height: 3, Quantity: 4, Room: 5, Wall: 6,
		ClearanceFront: 7, ClearanceBack: 8, ClearanceLeft: 9, ClearanceRight: 10,
	}
	if mapping != want {
		t.Errorf("mapping = %+v, want %+v", mapping, want)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	mapping, ok := DetectColumns([]string{"SKU", "Label", "W", "D", "Qty", "Against Wall", "Front Clearance"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	if mapping.FurnitureID != 0 || mapping.Name != 1 || mapping.Width != 2 || mapping.Depth != 3 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
	if mapping.Quantity != 4 || mapping.Wall != 5 || mapping.ClearanceFront != 6 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Sofa", "200", "90", "1", "back"})
	if ok {
		t.Fatal("expected no header")
	}
	if mapping != positionalMapping() {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── ParseWallSides Tests ──────────────────────────────────

func TestParseWallSides(t *testing.T) {
	tests := []struct {
		input   string
		want    model.WallRequirement
		wantErr bool
	}{
		{"", model.WallRequirement{}, false},
		{"none", model.WallRequirement{}, false},
		{"back", model.WallRequirement{Back: true}, false},
		{"Back;Left", model.WallRequirement{Back: true, Left: true}, false},
		{"front right", model.WallRequirement{Front: true, Right: true}, false},
		{"b+l", model.WallRequirement{Back: true, Left: true}, false},
		{"ceiling", model.WallRequirement{}, true},
	}
	for _, tt := range tests {
		got, err := ParseWallSides(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWallSides(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseWallSides(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Name,Width,Depth,Height,Quantity,Wall,Clearance_Front\nSofa,200,90,80,1,back,60\nChair,50,50,,2,,\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', 3)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result.Items))
	}

	sofa := result.Items[0]
	if sofa.Name != "Sofa" || sofa.FurnitureID != "Sofa" {
		t.Errorf("unexpected sofa identity: %+v", sofa)
	}
	if sofa.Size != (model.SizeCM{Width: 200, Height: 80, Depth: 90}) {
		t.Errorf("unexpected sofa size: %+v", sofa.Size)
	}
	if !sofa.Wall.Back || sofa.Wall.Front {
		t.Errorf("expected back wall requirement, got %+v", sofa.Wall)
	}
	if sofa.Clearance.Front != 60 {
		t.Errorf("expected front clearance 60, got %d", sofa.Clearance.Front)
	}
	if sofa.RoomID != 3 || sofa.IsPlaced {
		t.Errorf("expected unplaced item in room 3, got room %d placed=%v", sofa.RoomID, sofa.IsPlaced)
	}

	if result.Items[1].Name != "Chair" || result.Items[2].Name != "Chair" {
		t.Errorf("expected quantity 2 to expand into two chairs")
	}
	if result.Items[1].InstanceID == result.Items[2].InstanceID {
		t.Error("expanded items must have distinct instance ids")
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Sofa,200,90,1,back\nBed,160,200\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', 1)

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[0].Size.Width != 200 || result.Items[0].Size.Depth != 90 {
		t.Errorf("unexpected size: %+v", result.Items[0].Size)
	}
	if !result.Items[0].Wall.Back {
		t.Error("expected back wall requirement from positional column")
	}
	if result.Items[1].Name != "Bed" {
		t.Errorf("expected Bed, got %q", result.Items[1].Name)
	}
}

func TestImportCSVFromReader_RoomColumnOverridesDefault(t *testing.T) {
	data := "Name,Width,Depth,Room\nDesk,120,60,2\nLamp,30,30,\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', 7)

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[0].RoomID != 2 {
		t.Errorf("expected room 2, got %d", result.Items[0].RoomID)
	}
	if result.Items[1].RoomID != 7 {
		t.Errorf("expected default room 7, got %d", result.Items[1].RoomID)
	}
}

func TestImportCSVFromReader_FurnitureID(t *testing.T) {
	data := "ID,Name,Width,Depth\nsofa-3,Grey sofa,210,95\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', 1)

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[0].FurnitureID != "sofa-3" || result.Items[0].Name != "Grey sofa" {
		t.Errorf("unexpected identity: %+v", result.Items[0])
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "Name,Width,Quantity\nSofa,200,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', 1)

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Depth") {
		t.Errorf("expected missing Depth error, got %v", result.Errors)
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no items, got %d", len(result.Items))
	}
}

func TestImportCSVFromReader_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"width", "Sofa,abc,90,1,", "Invalid width"},
		{"zero depth", "Sofa,200,0,1,", "depth must be positive"},
		{"negative width", "Sofa,-5,90,1,", "width must be positive"},
		{"quantity", "Sofa,200,90,x,", "Invalid quantity"},
		{"zero quantity", "Sofa,200,90,0,", "Quantity must be positive"},
		{"wall", "Sofa,200,90,1,roof", "Invalid wall requirement"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := "Name,Width,Depth,Qty,Wall\n" + tt.row + "\n"
			result := ImportCSVFromReader(strings.NewReader(data), ',', 1)
			if len(result.Items) != 0 {
				t.Fatalf("expected no items, got %d", len(result.Items))
			}
			if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, result.Errors)
			}
			if !strings.HasPrefix(result.Errors[0], "Line 2") {
				t.Errorf("expected error to name Line 2, got %q", result.Errors[0])
			}
		})
	}
}

func TestImportCSVFromReader_NegativeClearance(t *testing.T) {
	data := "Name,Width,Depth,Clearance Left\nSofa,200,90,-10\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', 1)
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "cannot be negative") {
		t.Errorf("expected negative clearance error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_QuantityCapped(t *testing.T) {
	data := "Name,Width,Depth,Qty\nStool,30,30,100000\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', 1)

	if len(result.Items) != maxQuantity {
		t.Fatalf("expected %d items, got %d", maxQuantity, len(result.Items))
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "capped") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected cap warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "Name,Width,Depth\nSofa,200,90\nBroken,x,90\n,100,50\n\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', 1)

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", result.Errors)
	}
	if result.Items[1].Name != "Item 2" {
		t.Errorf("expected generated name 'Item 2', got %q", result.Items[1].Name)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',', 1)
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSVFromReader_DecimalValues(t *testing.T) {
	data := "Name,Width,Depth\nShelf, 80.5 , 35.2 \n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', 1)

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[0].Size.Width != 80.5 || result.Items[0].Size.Depth != 35.2 {
		t.Errorf("unexpected size: %+v", result.Items[0].Size)
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "furniture.csv")
	content := "Name;Width;Depth;Qty\nSofa;200;90;1\nBed;160;200;1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path, 1)
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	foundDelimWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "delimiter") {
			foundDelimWarning = true
		}
	}
	if !foundDelimWarning {
		t.Errorf("expected delimiter warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/furniture.csv", 1)
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	result := ImportCSV(path, 1)
	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "furniture.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Width", "Depth", "Qty", "Wall", "Room"},
		{"Wardrobe", 120, 60, 2, "back", 2},
		{"Desk", 140, 70, 1, "", ""},
	})

	result := ImportExcel(path, 1)
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result.Items))
	}
	if result.Items[0].Name != "Wardrobe" || !result.Items[0].Wall.Back || result.Items[0].RoomID != 2 {
		t.Errorf("unexpected wardrobe: %+v", result.Items[0])
	}
	if result.Items[2].Name != "Desk" || result.Items[2].RoomID != 1 {
		t.Errorf("unexpected desk: %+v", result.Items[2])
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Width", "Depth"},
		{"Bad", "wide", 60},
		{"Good", 100, 60},
	})

	result := ImportExcel(path, 1)
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Row 2") {
		t.Errorf("expected Row 2 error, got %v", result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/furniture.xlsx", 1)
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}
