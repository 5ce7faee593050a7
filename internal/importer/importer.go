// Package importer reads furniture lists from CSV and Excel files and room
// outlines from DXF drawings. Tabular imports support automatic delimiter
// detection, flexible column mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/RoomFit/internal/model"
	"github.com/xuri/excelize/v2"
)

// maxQuantity caps how many instances a single row may expand into.
const maxQuantity = 500

// ImportResult holds the results of a furniture import.
type ImportResult struct {
	Items    []model.FurnitureItem
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name           int
	FurnitureID    int
	Width          int
	Depth          int
	Height         int
	Quantity       int
	Room           int
	Wall           int
	ClearanceFront int
	ClearanceBack  int
	ClearanceLeft  int
	ClearanceRight int
}

func emptyMapping() ColumnMapping {
	return ColumnMapping{
		Name: -1, FurnitureID: -1, Width: -1, Depth: -1, Height: -1,
		Quantity: -1, Room: -1, Wall: -1,
		ClearanceFront: -1, ClearanceBack: -1, ClearanceLeft: -1, ClearanceRight: -1,
	}
}

// positionalMapping is used when the first row is not a header:
// Name, Width, Depth, Quantity, Wall.
func positionalMapping() ColumnMapping {
	m := emptyMapping()
	m.Name, m.Width, m.Depth, m.Quantity, m.Wall = 0, 1, 2, 3, 4
	return m
}

// headerAliases maps canonical column names to their accepted aliases
// (lowercase, underscores replaced by spaces).
var headerAliases = map[string][]string{
	"name":            {"name", "label", "item", "furniture", "description", "desc", "piece"},
	"furniture_id":    {"furniture id", "id", "catalog id", "sku", "type"},
	"width":           {"width", "w", "width cm", "length", "len"},
	"depth":           {"depth", "d", "depth cm"},
	"height":          {"height", "h", "height cm"},
	"quantity":        {"quantity", "qty", "count", "num", "amount", "pcs"},
	"room":            {"room", "room id", "roomid"},
	"wall":            {"wall", "walls", "wall sides", "against wall", "wall requirement"},
	"clearance_front": {"clearance front", "front clearance", "cf"},
	"clearance_back":  {"clearance back", "back clearance", "cb"},
	"clearance_left":  {"clearance left", "left clearance", "cl"},
	"clearance_right": {"clearance right", "right clearance", "cr"},
}

func normalizeHeader(cell string) string {
	s := strings.ToLower(strings.TrimSpace(cell))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.TrimSuffix(s, " (cm)")
	return s
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := emptyMapping()
	slots := map[string]*int{
		"name":            &mapping.Name,
		"furniture_id":    &mapping.FurnitureID,
		"width":           &mapping.Width,
		"depth":           &mapping.Depth,
		"height":          &mapping.Height,
		"quantity":        &mapping.Quantity,
		"room":            &mapping.Room,
		"wall":            &mapping.Wall,
		"clearance_front": &mapping.ClearanceFront,
		"clearance_back":  &mapping.ClearanceBack,
		"clearance_left":  &mapping.ClearanceLeft,
		"clearance_right": &mapping.ClearanceRight,
	}

	isHeader := false
	for i, cell := range row {
		normalized := normalizeHeader(cell)
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping(), false
	}
	return mapping, true
}

// ParseWallSides parses a list of item sides such as "back;left" or
// "back left". Empty, "none" and "-" yield no requirement.
func ParseWallSides(s string) (model.WallRequirement, error) {
	var req model.WallRequirement
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ';' || r == ',' || r == '|' || r == '+' || r == '/' || r == ' '
	})
	for _, f := range fields {
		switch f {
		case "none", "-", "no":
			continue
		case "f":
			f = "front"
		case "b":
			f = "back"
		case "l":
			f = "left"
		case "r":
			f = "right"
		}
		side, err := model.ParseSide(f)
		if err != nil {
			return model.WallRequirement{}, err
		}
		req.Set(side)
	}
	return req, nil
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseSize(row []string, idx int, rowLabel, column string, required bool) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		if required {
			return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, column)
		}
		return 0, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, column, s)
	}
	if v < 0 || (required && v == 0) {
		return 0, fmt.Sprintf("%s: %s must be positive (got %s)", rowLabel, column, s)
	}
	return v, ""
}

func parseClearance(row []string, idx int, rowLabel, column string) (int, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, column, s)
	}
	if v < 0 {
		return 0, fmt.Sprintf("%s: %s cannot be negative (got %s)", rowLabel, column, s)
	}
	return int(v + 0.5), ""
}

// parseRow extracts a furniture template and its quantity from a row.
// Returns the template, the quantity, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, itemCount, defaultRoom int) (model.FurnitureItem, int, string, string) {
	var warning string

	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Item %d", itemCount+1)
	}

	width, errMsg := parseSize(row, mapping.Width, rowLabel, "width", true)
	if errMsg != "" {
		return model.FurnitureItem{}, 0, errMsg, ""
	}
	depth, errMsg := parseSize(row, mapping.Depth, rowLabel, "depth", true)
	if errMsg != "" {
		return model.FurnitureItem{}, 0, errMsg, ""
	}
	height, errMsg := parseSize(row, mapping.Height, rowLabel, "height", false)
	if errMsg != "" {
		return model.FurnitureItem{}, 0, errMsg, ""
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		q, err := strconv.Atoi(qtyStr)
		if err != nil {
			return model.FurnitureItem{}, 0, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
		}
		if q <= 0 {
			return model.FurnitureItem{}, 0, fmt.Sprintf("%s: Quantity must be positive (got %d)", rowLabel, q), ""
		}
		if q > maxQuantity {
			warning = fmt.Sprintf("%s: Quantity %d capped at %d", rowLabel, q, maxQuantity)
			q = maxQuantity
		}
		qty = q
	}

	roomID := defaultRoom
	if roomStr := getCell(row, mapping.Room); roomStr != "" {
		r, err := strconv.Atoi(roomStr)
		if err != nil || r < 0 {
			return model.FurnitureItem{}, 0, fmt.Sprintf("%s: Invalid room '%s'", rowLabel, roomStr), ""
		}
		roomID = r
	}

	wall, err := ParseWallSides(getCell(row, mapping.Wall))
	if err != nil {
		return model.FurnitureItem{}, 0, fmt.Sprintf("%s: Invalid wall requirement: %v", rowLabel, err), ""
	}

	var clearance model.Clearance
	for _, c := range []struct {
		idx    int
		column string
		dst    *int
	}{
		{mapping.ClearanceFront, "front clearance", &clearance.Front},
		{mapping.ClearanceBack, "back clearance", &clearance.Back},
		{mapping.ClearanceLeft, "left clearance", &clearance.Left},
		{mapping.ClearanceRight, "right clearance", &clearance.Right},
	} {
		v, errMsg := parseClearance(row, c.idx, rowLabel, c.column)
		if errMsg != "" {
			return model.FurnitureItem{}, 0, errMsg, ""
		}
		*c.dst = v
	}

	item := model.NewFurnitureItem(name, width, depth, roomID)
	item.Size.Height = height
	item.Wall = wall
	item.Clearance = clearance
	if id := getCell(row, mapping.FurnitureID); id != "" {
		item.FurnitureID = id
	}
	return item, qty, "", warning
}

// isEmptyRow returns true if all cells in the row are empty or whitespace.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports furniture from a CSV file with automatic delimiter detection.
// Items without a room column are assigned to defaultRoom.
func ImportCSV(path string, defaultRoom int) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var initialWarnings []string
	if delimiter != ',' {
		initialWarnings = append(initialWarnings, fmt.Sprintf("Detected delimiter: %q", delimiter))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", initialWarnings, defaultRoom)
}

// ImportCSVFromReader imports furniture from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, defaultRoom int) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil, defaultRoom)
}

// ImportExcel imports furniture from the first sheet of an Excel workbook.
func ImportExcel(path string, defaultRoom int) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil, defaultRoom)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string, defaultRoom int) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Depth == -1 {
			missing = append(missing, "Depth")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	rowCount := 0
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		tmpl, qty, errMsg, warning := parseRow(row, mapping, rowLabel, rowCount, defaultRoom)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		rowCount++

		for n := 0; n < qty; n++ {
			item := tmpl
			if n > 0 {
				item = model.NewFurnitureItem(tmpl.Name, tmpl.Size.Width, tmpl.Size.Depth, tmpl.RoomID)
				item.FurnitureID = tmpl.FurnitureID
				item.Size = tmpl.Size
				item.Wall = tmpl.Wall
				item.Clearance = tmpl.Clearance
			}
			result.Items = append(result.Items, item)
		}
	}

	return result
}
