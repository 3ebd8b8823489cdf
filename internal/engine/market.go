package engine

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"amdashboard/internal/models"
	"amdashboard/internal/normalize"
)

const defaultTopLimit = 10

type segmentKey struct {
	year    int
	segment string
}

// AggregateSegments sums figures per (year, segment). Rows sharing a key are
// added together, never overwritten. Year totals cover all segments of a year.
func AggregateSegments(figures []models.MarketFigure) ([]models.SegmentYear, []models.YearTotal) {
	sums := make(map[segmentKey]float64)
	totals := make(map[int]float64)
	for _, f := range figures {
		segment := strings.TrimSpace(f.Segment)
		if segment == "" || f.Year == 0 {
			continue
		}
		v := sanitize(models.ToNumber(f.Value))
		sums[segmentKey{year: f.Year, segment: segment}] += v
		totals[f.Year] += v
	}

	rows := make([]models.SegmentYear, 0, len(sums))
	for k, v := range sums {
		rows = append(rows, models.SegmentYear{Year: k.year, Segment: k.segment, Value: v})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Segment < rows[j].Segment
	})

	years := make([]models.YearTotal, 0, len(totals))
	for y, t := range totals {
		years = append(years, models.YearTotal{Year: y, Total: t})
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	return rows, years
}

// FilterMarket keeps figures matching every set field of the filter. Country
// is compared after normalization.
func FilterMarket(figures []models.MarketFigure, f models.MarketFilter) []models.MarketFigure {
	country := normalize.Country(f.Country)
	return lo.Filter(figures, func(m models.MarketFigure, _ int) bool {
		if f.Year != 0 && m.Year != f.Year {
			return false
		}
		if f.Segment != "" && !strings.EqualFold(strings.TrimSpace(m.Segment), f.Segment) {
			return false
		}
		if country != "" && normalize.Country(m.Country) != country {
			return false
		}
		return true
	})
}

// MarketReport builds the market aggregation response. Available filter
// values come from the unfiltered figures so the UI can always offer them.
func MarketReport(figures []models.MarketFigure, f models.MarketFilter) *models.MarketReport {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultTopLimit
	}

	filtered := FilterMarket(figures, f)
	data, yearTotals := AggregateSegments(filtered)

	return &models.MarketReport{
		Data:       data,
		YearTotals: yearTotals,
		Summary:    MarketSummary(filtered, limit),
		Filters:    MarketFilterValues(figures),
	}
}

func MarketSummary(figures []models.MarketFigure, limit int) models.MarketSummary {
	var total float64
	years := map[int]struct{}{}
	segments := make([]models.Share, 0, len(figures))
	countries := make([]models.Share, 0, len(figures))
	for _, m := range figures {
		v := sanitize(models.ToNumber(m.Value))
		total += v
		if m.Year != 0 {
			years[m.Year] = struct{}{}
		}
		segments = append(segments, models.Share{Category: strings.TrimSpace(m.Segment), Value: v})
		if c := normalize.Country(m.Country); c != "" {
			countries = append(countries, models.Share{Category: c, Value: v})
		}
	}

	topSegments := TopN(segments, limit)
	topCountries := TopN(countries, limit)
	return models.MarketSummary{
		TotalValue:   total,
		Years:        len(years),
		Segments:     len(lo.Uniq(lo.FilterMap(segments, nonEmptyCategory))),
		Countries:    len(lo.Uniq(lo.FilterMap(countries, nonEmptyCategory))),
		TopSegments:  topSegments,
		TopCountries: topCountries,
	}
}

func nonEmptyCategory(s models.Share, _ int) (string, bool) {
	return s.Category, s.Category != ""
}

func MarketFilterValues(figures []models.MarketFigure) models.MarketFilterValues {
	years := lo.Uniq(lo.FilterMap(figures, func(m models.MarketFigure, _ int) (int, bool) {
		return m.Year, m.Year != 0
	}))
	segments := lo.Uniq(lo.FilterMap(figures, func(m models.MarketFigure, _ int) (string, bool) {
		s := strings.TrimSpace(m.Segment)
		return s, s != ""
	}))
	countries := lo.Uniq(lo.FilterMap(figures, func(m models.MarketFigure, _ int) (string, bool) {
		c := normalize.Country(m.Country)
		return c, c != ""
	}))
	sort.Ints(years)
	sort.Strings(segments)
	sort.Strings(countries)
	return models.MarketFilterValues{Years: years, Segments: segments, Countries: countries}
}
