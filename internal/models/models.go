package models

type CountryStat struct {
	Country    string  `json:"country"`
	Companies  int     `json:"companies"`
	Equipment  float64 `json:"equipment"`
	Percentage float64 `json:"percentage"`
}

// Share is one (category, value) pair before merging.
type Share struct {
	Category string
	Value    float64
}

type TopItem struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

type SegmentYear struct {
	Year    int     `json:"year"`
	Segment string  `json:"segment"`
	Value   float64 `json:"value"`
}

type YearTotal struct {
	Year  int     `json:"year"`
	Total float64 `json:"total"`
}

// MarketFilter restricts market figures. Zero values mean unrestricted.
type MarketFilter struct {
	Year    int
	Segment string
	Country string
	Limit   int
}

type MarketSummary struct {
	TotalValue   float64   `json:"totalValue"`
	Years        int       `json:"years"`
	Segments     int       `json:"segments"`
	Countries    int       `json:"countries"`
	TopSegments  []TopItem `json:"topSegments"`
	TopCountries []TopItem `json:"topCountries"`
}

type MarketFilterValues struct {
	Years     []int    `json:"years"`
	Segments  []string `json:"segments"`
	Countries []string `json:"countries"`
}

type MarketReport struct {
	Data       []SegmentYear      `json:"data"`
	YearTotals []YearTotal        `json:"yearTotals"`
	Summary    MarketSummary      `json:"summary"`
	Filters    MarketFilterValues `json:"filters"`
}

type Overview struct {
	Countries []CountryStat `json:"countries"`
	Processes []TopItem     `json:"processes"`
	Materials []TopItem     `json:"materials"`
	Market    MarketSummary `json:"market"`
}
