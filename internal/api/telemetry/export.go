package telemetry

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"lorawan-data-server/internal/models"
)

const (
	exportSheet    = "Data"
	maxColumnWidth = 50
	// MimeXLSX is the content type of the export attachment.
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHeader lists every stored column in table order.
var ExportHeader = []string{
	"id",
	"timestamp",
	"device_name",
	"dev_eui",
	"temperature",
	"rssi",
	"snr",
	"f_port",
	"f_cnt",
	"created_at",
}

func exportRow(r models.TelemetryRecord) []interface{} {
	return []interface{}{
		r.ID,
		r.Timestamp,
		r.DeviceName,
		r.DevEUI,
		r.Temperature,
		r.RSSI,
		r.SNR,
		r.FPort,
		r.FCnt,
		r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
	}
}

// GenerateExport writes every record into a single sheet workbook, header
// row first, records in the order given.
func GenerateExport(records []models.TelemetryRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	rows := make([][]interface{}, len(records))
	widths := make([]int, len(ExportHeader))
	for i, header := range ExportHeader {
		widths[i] = utf8.RuneCountInString(header)
	}
	for i, record := range records {
		rows[i] = exportRow(record)
		for col, value := range rows[i] {
			if n := utf8.RuneCountInString(fmt.Sprint(value)); n > widths[col] {
				widths[col] = n
			}
		}
	}

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}
	// widths must be set before the first row is streamed
	for i, width := range widths {
		w := width + 2
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		if err := sw.SetColWidth(i+1, i+1, float64(w)); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"4472C4"},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(ExportHeader))
	for i, name := range ExportHeader {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush sheet: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
