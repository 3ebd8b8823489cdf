package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"amdashboard/internal/apperr"
	"amdashboard/internal/models"
)

// rows between context checks while serializing
const checkEvery = 1000

const listSeparator = "; "

// formatValue renders a cell as text. Missing values become an empty field.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, listSeparator)
	case models.StringList:
		return strings.Join(t, listSeparator)
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case models.Number:
		return strconv.FormatFloat(t.Float(), 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

func headers(cols []ColumnDef) []string {
	return lo.Map(cols, func(c ColumnDef, _ int) string { return c.Header })
}

// CSV serializes rows with one header line. Zero rows yield the header only.
func CSV(rows []models.ExportRow, cols []ColumnDef) ([]byte, error) {
	return writeCSV(context.Background(), rows, cols)
}

func writeCSV(ctx context.Context, rows []models.ExportRow, cols []ColumnDef) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers(cols)); err != nil {
		return nil, apperr.Export(err, "write csv header")
	}
	record := make([]string, len(cols))
	for i, row := range rows {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, apperr.Export(err, "write csv")
			}
		}
		for j, c := range cols {
			record[j] = formatValue(c.value(row))
		}
		if err := w.Write(record); err != nil {
			return nil, apperr.Export(err, "write csv row %d", i+1)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperr.Export(err, "flush csv")
	}
	return buf.Bytes(), nil
}
