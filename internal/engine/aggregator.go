package engine

import (
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"

	"amdashboard/internal/models"
	"amdashboard/internal/normalize"
)

// parallelThreshold is the row count above which country aggregation fans
// out over worker chunks.
const parallelThreshold = 4096

type countryTally struct {
	count   int
	measure float64
}

// AggregateByCountry groups rows by normalized country. Each row adds one to
// the group count and its measure to the group sum. Rows without a
// resolvable country are skipped. Output is sorted by count, descending.
func AggregateByCountry[R any](rows []R, country func(R) string, measure func(R) float64) []models.CountryStat {
	numWorkers := runtime.NumCPU()
	if len(rows) < parallelThreshold || numWorkers < 2 {
		numWorkers = 1
	}
	chunkSize := (len(rows) + numWorkers - 1) / numWorkers

	results := make(chan map[string]*countryTally, numWorkers)
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := min(start+chunkSize, len(rows))
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(chunk []R) {
			defer wg.Done()
			// Normalized names repeat a lot, memoize per worker.
			seen := make(map[string]string)
			partial := make(map[string]*countryTally)
			for _, r := range chunk {
				raw := country(r)
				name, ok := seen[raw]
				if !ok {
					name = normalize.Country(raw)
					seen[raw] = name
				}
				if name == "" {
					continue
				}
				t := partial[name]
				if t == nil {
					t = &countryTally{}
					partial[name] = t
				}
				t.count++
				if measure != nil {
					t.measure += sanitize(measure(r))
				}
			}
			results <- partial
		}(rows[start:end])
	}

	go func() { wg.Wait(); close(results) }()

	// Merge phase
	final := make(map[string]*countryTally)
	for partial := range results {
		for name, t := range partial {
			f := final[name]
			if f == nil {
				f = &countryTally{}
				final[name] = f
			}
			f.count += t.count
			f.measure += t.measure
		}
	}

	var total int
	for _, t := range final {
		total += t.count
	}
	stats := make([]models.CountryStat, 0, len(final))
	for name, t := range final {
		stats = append(stats, models.CountryStat{
			Country:    name,
			Companies:  t.count,
			Equipment:  t.measure,
			Percentage: Percentage(float64(t.count), float64(total)),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Companies != stats[j].Companies {
			return stats[i].Companies > stats[j].Companies
		}
		if stats[i].Equipment != stats[j].Equipment {
			return stats[i].Equipment > stats[j].Equipment
		}
		return stats[i].Country < stats[j].Country
	})
	return stats
}

// TopN merges duplicate categories, sorts by value descending and keeps the
// first n (all when n <= 0). Percentages are taken against the total of all
// categories, not only the ones kept.
func TopN(shares []models.Share, n int) []models.TopItem {
	merged := make(map[string]float64)
	order := make([]string, 0)
	var total float64
	for _, s := range shares {
		name := strings.TrimSpace(s.Category)
		if name == "" {
			continue
		}
		if _, ok := merged[name]; !ok {
			order = append(order, name)
		}
		v := sanitize(s.Value)
		merged[name] += v
		total += v
	}

	items := make([]models.TopItem, 0, len(order))
	for _, name := range order {
		items = append(items, models.TopItem{Name: name, Value: merged[name]})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Value != items[j].Value {
			return items[i].Value > items[j].Value
		}
		return items[i].Name < items[j].Name
	})
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	for i := range items {
		items[i].Percentage = Percentage(items[i].Value, total)
	}
	return items
}

// Percentage returns value/total*100 rounded to two decimals, or 0 when
// total is zero.
func Percentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(value/total*100*100) / 100
}

// sanitize drops NaN and infinities so one bad row cannot poison a sum.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
