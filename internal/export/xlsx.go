package export

import (
	"context"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"amdashboard/internal/apperr"
	"amdashboard/internal/models"
)

const (
	defaultSheet = "Sheet1"
	maxSheetName = 31
)

// sheetName drops the characters excel refuses in sheet names.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return defaultSheet
	}
	if len([]rune(name)) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	return name
}

// cellValue keeps numbers and dates typed so the spreadsheet can compute on
// them.
func cellValue(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case []string, models.StringList:
		return formatValue(t)
	case models.Number:
		return t.Float()
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t
	}
	return v
}

// XLSX serializes rows into a single sheet workbook with a bold header row.
func XLSX(rows []models.ExportRow, cols []ColumnDef, sheet string) ([]byte, error) {
	return writeXLSX(context.Background(), rows, cols, sheet)
}

func writeXLSX(ctx context.Context, rows []models.ExportRow, cols []ColumnDef, sheet string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet = sheetName(sheet)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, apperr.Export(err, "name sheet")
	}

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, apperr.Export(err, "write xlsx header")
	}
	if len(cols) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, apperr.Export(err, "create header style")
		}
		last, err := excelize.CoordinatesToCellName(len(cols), 1)
		if err != nil {
			return nil, apperr.Export(err, "header range")
		}
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return nil, apperr.Export(err, "style header")
		}
	}

	for i, row := range rows {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, apperr.Export(err, "write xlsx")
			}
		}
		values := make([]any, len(cols))
		for j, c := range cols {
			values[j] = cellValue(c.value(row))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, apperr.Export(err, "row %d", i+1)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, apperr.Export(err, "write xlsx row %d", i+1)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperr.Export(err, "encode xlsx")
	}
	return buf.Bytes(), nil
}
