package xlbook

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

const metadataSheetName = "Report Info"

// Writer serializes sheets into one in-memory workbook. It holds only
// immutable options and is safe to share across requests.
type Writer struct {
	opts Options
}

func NewWriter(opts Options) *Writer {
	return &Writer{opts: opts.withDefaults()}
}

// Write builds the workbook and returns the serialized document. When
// metadata is non-nil a "Report Info" sheet is emitted first, with
// Generated and Report defaults injected if the caller did not supply
// them. Any sheet failure aborts the whole build; a partial or
// truncated document is never returned.
func (w *Writer) Write(sheets []Sheet, metadata map[string]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: w.opts.HeaderFontColor},
		Fill: excelize.Fill{Type: "pattern", Color: []string{w.opts.HeaderFillColor}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	all := sheets
	if metadata != nil {
		all = append([]Sheet{w.metadataSheet(metadata)}, sheets...)
	}

	for i, sheet := range all {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
			}
		}
		if err := w.writeSheet(f, sheet, headerStyle); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// metadataSheet builds the Report Info grid with Generated and Report
// defaults. Rows come out in sorted key order so output is stable.
func (w *Writer) metadataSheet(metadata map[string]interface{}) Sheet {
	merged := make(map[string]interface{}, len(metadata)+2)
	for k, v := range metadata {
		merged[k] = v
	}
	if _, ok := merged["Generated"]; !ok {
		merged["Generated"] = time.Now().Format("2006-01-02 15:04:05")
	}
	if _, ok := merged["Report"]; !ok {
		merged["Report"] = w.opts.ReportTitle
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	grid := &Grid{Headers: []string{"Field", "Value"}}
	for _, k := range keys {
		grid.Rows = append(grid.Rows, []interface{}{k, merged[k]})
	}
	return PlainSheet(metadataSheetName, grid)
}

func (w *Writer) writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	if sheet.Audit != nil {
		return w.writeAudit(f, sheet, headerStyle)
	}
	return w.writePlain(f, sheet, headerStyle)
}

// writeAudit writes an audit-format sheet. Headers are written by
// position, exactly as the registry orders them: the two "Accrued
// Interest" columns appear identically labeled at their own positions,
// never renamed or merged.
func (w *Writer) writeAudit(f *excelize.File, sheet Sheet, headerStyle int) error {
	table := sheet.Audit
	widths := make([]int, len(table.Columns))

	for i, spec := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet.Name, cell, spec.Label); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, cell, cell, headerStyle); err != nil {
			return err
		}
		widths[i] = len(spec.Label)
	}

	for rowIdx, row := range table.Rows {
		for colIdx, v := range row {
			if v.IsAbsent() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, cell, v.Interface()); err != nil {
				return err
			}
			if rowIdx < w.opts.WidthSampleRows {
				if n := len(v.DisplayString()); n > widths[colIdx] {
					widths[colIdx] = n
				}
			}
		}
	}

	return w.applyWidths(f, sheet.Name, widths)
}

func (w *Writer) writePlain(f *excelize.File, sheet Sheet, headerStyle int) error {
	grid := sheet.Grid
	if grid == nil {
		grid = &Grid{}
	}
	widths := make([]int, len(grid.Headers))

	for i, header := range grid.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, cell, cell, headerStyle); err != nil {
			return err
		}
		widths[i] = len(header)
	}

	for rowIdx, row := range grid.Rows {
		for colIdx, v := range row {
			if v == nil || colIdx >= len(grid.Headers) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, cell, v); err != nil {
				return err
			}
			if rowIdx < w.opts.WidthSampleRows {
				if n := len(fmt.Sprintf("%v", v)); n > widths[colIdx] {
					widths[colIdx] = n
				}
			}
		}
	}

	return w.applyWidths(f, sheet.Name, widths)
}

// applyWidths sizes each column to its longest sampled content plus
// padding, capped at the configured maximum.
func (w *Writer) applyWidths(f *excelize.File, sheetName string, widths []int) error {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		adjusted := float64(width + 2)
		if adjusted > w.opts.MaxColumnWidth {
			adjusted = w.opts.MaxColumnWidth
		}
		if err := f.SetColWidth(sheetName, col, col, adjusted); err != nil {
			return err
		}
	}
	return nil
}
