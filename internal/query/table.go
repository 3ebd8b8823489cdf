// Package query validates table and market requests and runs them against a
// row source.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"amdashboard/internal/rowsource"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

// TableFilters are the optional equality filters of a table query. An empty
// value means unset.
type TableFilters struct {
	Type    string `json:"type"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// TableQuery is a resolved, validated table request. Every field holds a safe
// value whatever the client sent.
type TableQuery struct {
	Page    int
	PerPage int
	SortBy  string
	SortDir string
	Q       string
	Filters TableFilters
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func filterValue(raw string) string {
	v := strings.TrimSpace(raw)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

// ParseTableQuery resolves raw parameters. Malformed or out of range input
// falls back to a default and is never reported as an error.
func ParseTableQuery(params url.Values) TableQuery {
	q := TableQuery{
		Page:    positiveInt(params.Get("page"), DefaultPage),
		SortBy:  rowsource.ColumnName,
		SortDir: SortAsc,
		Q:       strings.TrimSpace(params.Get("q")),
		Filters: TableFilters{
			Type:    filterValue(params.Get("type")),
			State:   filterValue(params.Get("state")),
			Country: filterValue(params.Get("country")),
		},
	}

	perPage, err := strconv.Atoi(strings.TrimSpace(params.Get("perPage")))
	if err != nil {
		perPage = DefaultPerPage
	}
	q.PerPage = min(max(perPage, 1), MaxPerPage)

	for _, column := range rowsource.SortColumns {
		if params.Get("sortBy") == column {
			q.SortBy = column
		}
	}
	if strings.EqualFold(strings.TrimSpace(params.Get("sortDir")), SortDesc) {
		q.SortDir = SortDesc
	}
	return q
}

// CacheKey serializes every field that affects the result in a fixed order,
// so equal queries share a key whatever the order of the raw parameters.
func (q TableQuery) CacheKey() string {
	v := url.Values{}
	v.Set("q", q.Q)
	v.Set("type", q.Filters.Type)
	v.Set("state", q.Filters.State)
	v.Set("country", q.Filters.Country)
	v.Set("sortBy", q.SortBy)
	v.Set("sortDir", q.SortDir)
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("perPage", strconv.Itoa(q.PerPage))
	// Encode sorts by key
	return v.Encode()
}

// Criteria converts the query into row source terms.
func (q TableQuery) Criteria() rowsource.Criteria {
	equals := map[string]string{}
	if q.Filters.Type != "" {
		equals[rowsource.ColumnCompanyType] = q.Filters.Type
	}
	if q.Filters.State != "" {
		equals[rowsource.ColumnState] = q.Filters.State
	}
	if q.Filters.Country != "" {
		equals[rowsource.ColumnCountry] = q.Filters.Country
	}
	return rowsource.Criteria{
		Search: q.Q,
		Equals: equals,
		Sort:   rowsource.Sort{Column: q.SortBy, Desc: q.SortDir == SortDesc},
		Range:  rowsource.Range{Offset: (q.Page - 1) * q.PerPage, Limit: q.PerPage},
	}
}
