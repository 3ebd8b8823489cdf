// Package rowsource provides the queryable row data behind the dashboard,
// either a relational database or the static JSON datasets.
package rowsource

import (
	"context"
	"slices"

	"github.com/samber/lo"

	"amdashboard/internal/models"
)

// Company columns that may be searched, filtered or sorted on. Nothing
// outside these lists ever reaches a query clause.
const (
	ColumnName        = "name"
	ColumnCity        = "city"
	ColumnState       = "state"
	ColumnCountry     = "country"
	ColumnCompanyType = "company_type"
	ColumnDescription = "description"
	ColumnCreatedAt   = "created_at"
)

var (
	SearchColumns = []string{ColumnName, ColumnCity, ColumnState, ColumnCountry, ColumnDescription}
	FilterColumns = []string{ColumnCompanyType, ColumnState, ColumnCountry}
	SortColumns   = []string{ColumnName, ColumnCity, ColumnState, ColumnCountry, ColumnCompanyType, ColumnCreatedAt}
)

func isFilterColumn(column string) bool {
	return slices.Contains(FilterColumns, column)
}

// sortColumn resolves column against the sort allow-list, defaulting to name.
func sortColumn(column string) string {
	if slices.Contains(SortColumns, column) {
		return column
	}
	return ColumnName
}

func sortedKeys(m map[string]string) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

type Sort struct {
	Column string
	Desc   bool
}

type Range struct {
	Offset int
	Limit  int
}

// Criteria is a validated filter/sort/range request against the companies
// table. Equals maps a column to the value it must equal, ignoring case.
type Criteria struct {
	Search string
	Equals map[string]string
	Sort   Sort
	Range  Range
}

type Source interface {
	// QueryCompanies returns one page of matching companies and the number of
	// matches before paging.
	QueryCompanies(ctx context.Context, c Criteria) ([]models.Company, int64, error)

	Companies(ctx context.Context) ([]models.Company, error)
	Equipment(ctx context.Context) ([]models.EquipmentRecord, error)
	MarketFigures(ctx context.Context) ([]models.MarketFigure, error)
	VendorRows(ctx context.Context, report string) ([]models.VendorRow, error)
	Reports(ctx context.Context) ([]string, error)
}
