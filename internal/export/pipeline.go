package export

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"

	"amdashboard/internal/apperr"
	"amdashboard/internal/logger"
	"amdashboard/internal/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"

	DefaultIDField = "id"
)

var ContentTypes = map[Format]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

var exports = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "amdash_exports_total",
	Help: "Export runs by format and outcome.",
}, []string{"format", "result"})

func init() {
	prometheus.MustRegister(exports)
}

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", apperr.Invalid("unsupported export format %q", s)
}

// SelectRows narrows rows to those whose idField value is in ids, keeping
// their order. No ids selects every row.
func SelectRows(rows []models.ExportRow, ids []string, idField string) []models.ExportRow {
	if len(ids) == 0 {
		return rows
	}
	if idField == "" {
		idField = DefaultIDField
	}
	wanted := lo.SliceToMap(ids, func(id string) (string, struct{}) { return id, struct{}{} })
	return lo.Filter(rows, func(row models.ExportRow, _ int) bool {
		v, ok := row[idField]
		if !ok || v == nil {
			return false
		}
		_, hit := wanted[fmt.Sprint(v)]
		return hit
	})
}

// Request is one export invocation over rows already filtered and
// normalized by the caller.
type Request struct {
	Base    string
	Format  Format
	Rows    []models.ExportRow
	Columns []ColumnDef
	IDs     []string
	IDField string
	Filters models.FilterState
	Extras  []Extra
	Sheet   string

	// Now stamps the filename; zero means the current time.
	Now time.Time
}

type Result struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

// Run serializes the request, giving up after timeout or when ctx is done.
// Zero rows produce a header-only file.
func Run(ctx context.Context, req Request, timeout time.Duration) (*Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if req.Format == "" {
		req.Format = FormatCSV
	}
	rows := SelectRows(req.Rows, req.IDs, req.IDField)
	extras := slices.Clone(req.Extras)
	if len(req.IDs) > 0 {
		extras = append(extras, Extra{Key: "selected", Value: len(rows)})
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	type outcome struct {
		body []byte
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		var o outcome
		switch req.Format {
		case FormatXLSX:
			o.body, o.err = writeXLSX(ctx, rows, req.Columns, req.Sheet)
		default:
			o.body, o.err = writeCSV(ctx, rows, req.Columns)
		}
		done <- o
	}()

	var o outcome
	select {
	case o = <-done:
	case <-ctx.Done():
		o.err = apperr.Export(ctx.Err(), "export %s", req.Base)
	}
	if o.err != nil {
		exports.WithLabelValues(string(req.Format), "failure").Inc()
		logger.Error().Err(o.err).Str("base", req.Base).Str("format", string(req.Format)).Msg("export failed")
		return nil, o.err
	}

	exports.WithLabelValues(string(req.Format), "success").Inc()
	return &Result{
		Filename:    BuildFilename(req.Base, string(req.Format), req.Filters, now, extras...),
		ContentType: ContentTypes[req.Format],
		Body:        o.body,
		Rows:        len(rows),
	}, nil
}
