package query

import (
	"context"
	"errors"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amdashboard/internal/apperr"
	"amdashboard/internal/cache"
	"amdashboard/internal/engine"
	"amdashboard/internal/models"
	"amdashboard/internal/rowsource"
)

func TestParseTableQueryDefaults(t *testing.T) {
	q := ParseTableQuery(url.Values{})

	assert.Equal(t, TableQuery{
		Page:    1,
		PerPage: 20,
		SortBy:  "name",
		SortDir: "asc",
	}, q)
}

func TestParseTableQueryClamps(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
		want   func(t *testing.T, q TableQuery)
	}{
		{
			name:   "huge perPage",
			params: url.Values{"perPage": {"9999"}},
			want:   func(t *testing.T, q TableQuery) { assert.Equal(t, 100, q.PerPage) },
		},
		{
			name:   "zero perPage",
			params: url.Values{"perPage": {"0"}},
			want:   func(t *testing.T, q TableQuery) { assert.Equal(t, 1, q.PerPage) },
		},
		{
			name:   "non numeric perPage",
			params: url.Values{"perPage": {"lots"}},
			want:   func(t *testing.T, q TableQuery) { assert.Equal(t, 20, q.PerPage) },
		},
		{
			name:   "negative page",
			params: url.Values{"page": {"-5"}},
			want:   func(t *testing.T, q TableQuery) { assert.Equal(t, 1, q.Page) },
		},
		{
			name:   "non numeric page",
			params: url.Values{"page": {"two"}},
			want:   func(t *testing.T, q TableQuery) { assert.Equal(t, 1, q.Page) },
		},
		{
			name:   "sort field outside allow-list",
			params: url.Values{"sortBy": {"malicious_field"}},
			want:   func(t *testing.T, q TableQuery) { assert.Equal(t, "name", q.SortBy) },
		},
		{
			name:   "allowed sort field",
			params: url.Values{"sortBy": {"created_at"}, "sortDir": {"DESC"}},
			want: func(t *testing.T, q TableQuery) {
				assert.Equal(t, "created_at", q.SortBy)
				assert.Equal(t, "desc", q.SortDir)
			},
		},
		{
			name:   "unknown sort direction",
			params: url.Values{"sortDir": {"sideways"}},
			want:   func(t *testing.T, q TableQuery) { assert.Equal(t, "asc", q.SortDir) },
		},
		{
			name:   "all means unset",
			params: url.Values{"type": {"all"}, "state": {"ALL"}, "country": {" Germany "}, "q": {"  laser "}},
			want: func(t *testing.T, q TableQuery) {
				assert.Equal(t, TableFilters{Country: "Germany"}, q.Filters)
				assert.Equal(t, "laser", q.Q)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want(t, ParseTableQuery(tt.params))
		})
	}
}

func TestCacheKeyIgnoresParameterOrder(t *testing.T) {
	a, err := url.ParseQuery("q=laser&country=Germany&page=2&perPage=10&sortBy=city")
	require.NoError(t, err)
	b, err := url.ParseQuery("sortBy=city&perPage=10&page=2&country=Germany&q=laser")
	require.NoError(t, err)

	assert.Equal(t, ParseTableQuery(a).CacheKey(), ParseTableQuery(b).CacheKey())
	assert.NotEqual(t, ParseTableQuery(a).CacheKey(), ParseTableQuery(url.Values{}).CacheKey())
}

func TestCacheKeyUsesResolvedValues(t *testing.T) {
	a := ParseTableQuery(url.Values{"perPage": {"9999"}, "sortBy": {"bogus"}})
	b := ParseTableQuery(url.Values{"perPage": {"100"}})

	assert.Equal(t, a.CacheKey(), b.CacheKey())
}

func TestCriteria(t *testing.T) {
	q := ParseTableQuery(url.Values{"page": {"3"}, "perPage": {"10"}, "type": {"oem"}, "sortDir": {"desc"}})
	c := q.Criteria()

	assert.Equal(t, rowsource.Range{Offset: 20, Limit: 10}, c.Range)
	assert.Equal(t, map[string]string{"company_type": "oem"}, c.Equals)
	assert.True(t, c.Sort.Desc)
}

func companies() *engine.Store {
	return &engine.Store{Companies: []models.Company{
		{ID: "1", Name: "Apex", City: "Berlin", Country: "Germany"},
		{ID: "2", Name: "Berlin Parts", City: "Munich", Country: "Germany"},
		{ID: "3", Name: "Orbit", City: "Austin", Country: "United States"},
	}}
}

func TestServiceRun(t *testing.T) {
	svc := NewService(rowsource.NewMemory(companies()))

	env, err := svc.Run(context.Background(), ParseTableQuery(url.Values{"q": {"berlin"}, "perPage": {"1"}}))
	require.NoError(t, err)

	assert.Equal(t, int64(2), env.Total)
	assert.Len(t, env.Items, 1)
	assert.Equal(t, "Apex", env.Items[0].Name)
	assert.Equal(t, 1, env.PerPage)
	assert.Equal(t, "berlin", env.Q)
}

func TestServiceRunEmptyResult(t *testing.T) {
	svc := NewService(rowsource.NewMemory(companies()))

	env, err := svc.Run(context.Background(), ParseTableQuery(url.Values{"q": {"nothing matches"}}))
	require.NoError(t, err)
	assert.Equal(t, int64(0), env.Total)
	assert.NotNil(t, env.Items)
	assert.Empty(t, env.Items)
}

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) Run(_ context.Context, q TableQuery) (*Envelope, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &Envelope{Page: q.Page, PerPage: q.PerPage}, nil
}

func TestCachedServiceMemoizes(t *testing.T) {
	next := &countingRunner{}
	svc := NewCachedService(next, cache.NewLRU[*Envelope]("test-query", 8, time.Minute))
	ctx := context.Background()

	a, _ := url.ParseQuery("country=Germany&q=laser")
	b, _ := url.ParseQuery("q=laser&country=Germany")

	first, err := svc.Run(ctx, ParseTableQuery(a))
	require.NoError(t, err)
	second, err := svc.Run(ctx, ParseTableQuery(b))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), next.calls.Load())

	_, err = svc.Run(ctx, ParseTableQuery(url.Values{"page": {"2"}}))
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCachedServiceRecomputesAfterTTL(t *testing.T) {
	next := &countingRunner{}
	svc := NewCachedService(next, cache.NewLRU[*Envelope]("test-query-ttl", 8, 50*time.Millisecond))
	q := ParseTableQuery(url.Values{})

	_, _ = svc.Run(context.Background(), q)
	time.Sleep(120 * time.Millisecond)
	_, _ = svc.Run(context.Background(), q)

	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCachedServiceDoesNotCacheErrors(t *testing.T) {
	next := &countingRunner{err: apperr.Upstream(errors.New("db down"), "query companies")}
	svc := NewCachedService(next, cache.NewLRU[*Envelope]("test-query-err", 8, time.Minute))
	q := ParseTableQuery(url.Values{})

	_, err := svc.Run(context.Background(), q)
	assert.True(t, apperr.Is(err, apperr.EUPSTREAM))
	_, err = svc.Run(context.Background(), q)
	assert.Error(t, err)

	assert.Equal(t, int32(2), next.calls.Load())
}

func TestParseMarketFilter(t *testing.T) {
	f := ParseMarketFilter(url.Values{"year": {"2023"}, "segment": {"all"}, "country": {"USA"}, "limit": {"500"}})
	assert.Equal(t, models.MarketFilter{Year: 2023, Country: "USA", Limit: 100}, f)

	f = ParseMarketFilter(url.Values{"year": {"recent"}, "limit": {"-1"}})
	assert.Equal(t, models.MarketFilter{}, f)
}
