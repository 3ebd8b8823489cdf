package rowsource

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"

	"amdashboard/internal/apperr"
	"amdashboard/internal/engine"
	"amdashboard/internal/models"
)

// Memory serves rows from datasets already loaded into an engine.Store.
type Memory struct {
	store *engine.Store
}

func NewMemory(store *engine.Store) *Memory {
	return &Memory{store: store}
}

func companyField(c models.Company, column string) string {
	switch column {
	case ColumnName:
		return c.Name
	case ColumnCity:
		return c.City
	case ColumnState:
		return c.State
	case ColumnCountry:
		return c.Country
	case ColumnCompanyType:
		return c.CompanyType
	case ColumnDescription:
		return c.Description
	}
	return ""
}

func (m *Memory) QueryCompanies(ctx context.Context, c Criteria) ([]models.Company, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, apperr.Upstream(err, "query companies")
	}

	term := strings.ToLower(strings.TrimSpace(c.Search))
	matches := lo.Filter(m.store.Companies, func(row models.Company, _ int) bool {
		for column, value := range c.Equals {
			if isFilterColumn(column) && !strings.EqualFold(companyField(row, column), value) {
				return false
			}
		}
		if term == "" {
			return true
		}
		return lo.SomeBy(SearchColumns, func(column string) bool {
			return strings.Contains(strings.ToLower(companyField(row, column)), term)
		})
	})

	column := sortColumn(c.Sort.Column)
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		var cmp int
		if column == ColumnCreatedAt {
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		} else {
			cmp = strings.Compare(companyField(a, column), companyField(b, column))
		}
		if cmp == 0 {
			cmp = strings.Compare(a.ID, b.ID)
		}
		if c.Sort.Desc {
			return cmp > 0
		}
		return cmp < 0
	})

	total := int64(len(matches))
	start := min(c.Range.Offset, len(matches))
	end := len(matches)
	if c.Range.Limit > 0 {
		end = min(start+c.Range.Limit, len(matches))
	}
	return matches[start:end], total, nil
}

func (m *Memory) Companies(context.Context) ([]models.Company, error) {
	return m.store.Companies, nil
}

func (m *Memory) Equipment(context.Context) ([]models.EquipmentRecord, error) {
	return m.store.Equipment, nil
}

func (m *Memory) MarketFigures(context.Context) ([]models.MarketFigure, error) {
	return m.store.Market, nil
}

func (m *Memory) VendorRows(_ context.Context, report string) ([]models.VendorRow, error) {
	rows, ok := m.store.Vendors[report]
	if !ok {
		return nil, apperr.NotFound("vendor report %q not found", report)
	}
	return rows, nil
}

func (m *Memory) Reports(context.Context) ([]string, error) {
	return m.store.Reports(), nil
}
