package query

import (
	"context"

	"amdashboard/internal/cache"
	"amdashboard/internal/models"
	"amdashboard/internal/rowsource"
)

// Envelope is one page of a table query. Total counts the matches before
// paging.
type Envelope struct {
	Items   []models.Company `json:"items"`
	Page    int              `json:"page"`
	PerPage int              `json:"perPage"`
	Total   int64            `json:"total"`
	SortBy  string           `json:"sortBy"`
	SortDir string           `json:"sortDir"`
	Q       string           `json:"q"`
	Filters TableFilters     `json:"filters"`
}

type Runner interface {
	Run(ctx context.Context, q TableQuery) (*Envelope, error)
}

// Service runs table queries directly against a row source.
type Service struct {
	source rowsource.Source
}

func NewService(source rowsource.Source) *Service {
	return &Service{source: source}
}

func (s *Service) Run(ctx context.Context, q TableQuery) (*Envelope, error) {
	rows, total, err := s.source.QueryCompanies(ctx, q.Criteria())
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Company{}
	}
	return &Envelope{
		Items:   rows,
		Page:    q.Page,
		PerPage: q.PerPage,
		Total:   total,
		SortBy:  q.SortBy,
		SortDir: q.SortDir,
		Q:       q.Q,
		Filters: q.Filters,
	}, nil
}

// CachedService memoizes envelopes by query shape. Failures are returned
// without being stored.
type CachedService struct {
	next  Runner
	cache cache.Cache[*Envelope]
}

func NewCachedService(next Runner, c cache.Cache[*Envelope]) *CachedService {
	return &CachedService{next: next, cache: c}
}

func (s *CachedService) Run(ctx context.Context, q TableQuery) (*Envelope, error) {
	key := q.CacheKey()
	if env, ok := s.cache.Get(key); ok {
		return env, nil
	}
	env, err := s.next.Run(ctx, q)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, env)
	return env, nil
}
