package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
	"github.com/yanqian/crop-advisor/internal/domain/report"
)

const (
	sheetName       = "History"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// XLSXWriter renders prediction history as a spreadsheet.
type XLSXWriter struct{}

// NewXLSXWriter constructs the writer.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

func (XLSXWriter) ContentType() string { return xlsxContentType }

func (XLSXWriter) Extension() string { return ".xlsx" }

// Write emits one header row followed by one row per record.
func (XLSXWriter) Write(w io.Writer, records []crop.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", headerRow()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, recordRow(rec)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	return f.Write(w)
}

func headerRow() *[]any {
	row := []any{"ID", "Created At"}
	for _, spec := range crop.Fields() {
		row = append(row, string(spec.Key))
	}
	row = append(row, "Crop", "Error Code", "Latency (ms)")
	return &row
}

func recordRow(rec crop.Record) *[]any {
	row := []any{rec.ID, rec.CreatedAt.UTC().Format(time.RFC3339)}
	for _, v := range rec.Features {
		row = append(row, v)
	}
	row = append(row, rec.Crop, rec.ErrorCode, rec.LatencyMs)
	return &row
}

var _ report.HistoryWriter = (*XLSXWriter)(nil)
