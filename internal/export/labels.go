package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/RoomFit/internal/engine"
	"github.com/piwi3910/RoomFit/internal/model"
)

// LabelInfo holds the data encoded into each item label's QR code.
type LabelInfo struct {
	InstanceID  string  `json:"instance_id"`
	FurnitureID string  `json:"furniture_id"`
	Name        string  `json:"name"`
	WidthCM     float64 `json:"width_cm"`
	DepthCM     float64 `json:"depth_cm"`
	RoomID      int     `json:"room_id"`
	RoomName    string  `json:"room"`
	PivotX      int     `json:"pivot_x"`
	PivotZ      int     `json:"pivot_z"`
	Rotation    int     `json:"rotation_deg"`
	WorldX      float64 `json:"world_x"`
	WorldZ      float64 `json:"world_z"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// CollectLabelInfos lists every placed item, rooms in ascending id order and
// items in inventory order within a room.
func CollectLabelInfos(proj *model.Project, placer *engine.Placer) ([]LabelInfo, error) {
	var labels []LabelInfo
	for _, roomID := range placer.Grids().RoomIDs() {
		for _, id := range placer.Inventory().PlacedInRoom(roomID) {
			pl, err := placer.Placement(id)
			if err != nil {
				return nil, fmt.Errorf("placement of %s: %w", id, err)
			}
			item := placer.Inventory().Get(id)
			labels = append(labels, LabelInfo{
				InstanceID:  item.InstanceID,
				FurnitureID: item.FurnitureID,
				Name:        item.Name,
				WidthCM:     item.Size.Width,
				DepthCM:     item.Size.Depth,
				RoomID:      roomID,
				RoomName:    roomName(proj, roomID),
				PivotX:      pl.PivotCell.X,
				PivotZ:      pl.PivotCell.Z,
				Rotation:    pl.Rotation,
				WorldX:      pl.WorldAnchor.X,
				WorldZ:      pl.WorldAnchor.Z,
			})
		}
	}
	return labels, nil
}

// ExportLabels generates a PDF of QR-coded labels for all placed items.
// Each label shows the item name, size and room, plus a QR code encoding the
// label metadata as JSON, laid out on Avery 5160 sheets (3 x 10 on US Letter).
func ExportLabels(path string, proj *model.Project, placer *engine.Placer) error {
	labels, err := CollectLabelInfos(proj, placer)
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		return fmt.Errorf("no items placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Name, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "qr_" + info.InstanceID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	name := info.Name
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%.0f x %.0f cm", info.WidthCM, info.DepthCM), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("%s @ (%.2f, %.2f) m", info.RoomName, info.WorldX, info.WorldZ), "", 1, "L", false, 0, "")

	if info.Rotation != 0 {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, fmt.Sprintf("Rotated %d\xb0", info.Rotation), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}
