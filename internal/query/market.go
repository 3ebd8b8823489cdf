package query

import (
	"net/url"
	"strconv"
	"strings"

	"amdashboard/internal/models"
)

const MaxLimit = 100

// ParseLimit reads a top-N limit. Anything unusable yields fallback; large
// values are capped at MaxLimit.
func ParseLimit(params url.Values, fallback int) int {
	return min(positiveInt(params.Get("limit"), fallback), MaxLimit)
}

// ParseMarketFilter resolves the market analytics parameters. A missing or
// non-numeric year and the value "all" leave a dimension unset.
func ParseMarketFilter(params url.Values) models.MarketFilter {
	f := models.MarketFilter{
		Segment: filterValue(params.Get("segment")),
		Country: filterValue(params.Get("country")),
		Limit:   ParseLimit(params, 0),
	}
	if year, err := strconv.Atoi(strings.TrimSpace(params.Get("year"))); err == nil && year > 0 {
		f.Year = year
	}
	return f
}
