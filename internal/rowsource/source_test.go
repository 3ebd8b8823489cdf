package rowsource

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amdashboard/internal/apperr"
	"amdashboard/internal/engine"
	"amdashboard/internal/models"
)

func fixtureStore() *engine.Store {
	day := func(d int) time.Time { return time.Date(2024, time.January, d, 12, 0, 0, 0, time.UTC) }
	return &engine.Store{
		Companies: []models.Company{
			{ID: "c1", Name: "Alpha Additive", City: "Berlin", Country: "Germany", CompanyType: "service_bureau", Description: "metal printing", CreatedAt: day(3)},
			{ID: "c2", Name: "beta labs", City: "Austin", State: "TX", Country: "United States", CompanyType: "manufacturer", Description: "polymer parts", CreatedAt: day(1)},
			{ID: "c3", Name: "Gamma_Works", City: "Detroit", State: "MI", Country: "UNITED STATES", CompanyType: "service_bureau", Description: "cheap 100% parts", CreatedAt: day(2)},
		},
		Equipment: []models.EquipmentRecord{
			{ID: "e1", CompanyID: "c1", Country: "Germany", Technology: "SLM", Material: "Titanium", Count: 3},
		},
		Market: []models.MarketFigure{
			{ID: "m1", Year: 2023, Segment: "Printers", Country: "Germany", Value: 10},
		},
		Vendors: map[string][]models.VendorRow{
			"machines": {{Vendor: "EOS", Process: "SLM", Material: "titanium", Value: 4}},
			"alloys":   {{Vendor: "Carpenter", Material: "Inconel", Value: 2}},
		},
	}
}

func sources(t *testing.T) map[string]Source {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, Options{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Import(ctx, fixtureStore()))

	return map[string]Source{
		"memory": NewMemory(fixtureStore()),
		"sqlite": db,
	}
}

func ids(rows []models.Company) []string {
	return lo.Map(rows, func(c models.Company, _ int) string { return c.ID })
}

func TestQueryCompanies(t *testing.T) {
	ctx := context.Background()

	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("search matches any searchable column", func(t *testing.T) {
				rows, total, err := src.QueryCompanies(ctx, Criteria{Search: "BERLIN"})
				require.NoError(t, err)
				assert.Equal(t, int64(1), total)
				assert.Equal(t, []string{"c1"}, ids(rows))
			})

			t.Run("search escapes wildcards", func(t *testing.T) {
				rows, _, err := src.QueryCompanies(ctx, Criteria{Search: "_"})
				require.NoError(t, err)
				assert.Equal(t, []string{"c3"}, ids(rows))
			})

			t.Run("equality ignores case", func(t *testing.T) {
				rows, total, err := src.QueryCompanies(ctx, Criteria{
					Equals: map[string]string{ColumnCountry: "united states"},
				})
				require.NoError(t, err)
				assert.Equal(t, int64(2), total)
				assert.ElementsMatch(t, []string{"c2", "c3"}, ids(rows))
			})

			t.Run("unknown columns are ignored", func(t *testing.T) {
				_, total, err := src.QueryCompanies(ctx, Criteria{
					Equals: map[string]string{"1=1; drop table companies": "x"},
					Sort:   Sort{Column: "malicious_field"},
				})
				require.NoError(t, err)
				assert.Equal(t, int64(3), total)
			})

			t.Run("sort and range", func(t *testing.T) {
				rows, total, err := src.QueryCompanies(ctx, Criteria{
					Sort:  Sort{Column: ColumnName},
					Range: Range{Offset: 1, Limit: 1},
				})
				require.NoError(t, err)
				assert.Equal(t, int64(3), total)
				assert.Equal(t, []string{"c3"}, ids(rows))
			})

			t.Run("sort by created_at descending", func(t *testing.T) {
				rows, _, err := src.QueryCompanies(ctx, Criteria{Sort: Sort{Column: ColumnCreatedAt, Desc: true}})
				require.NoError(t, err)
				assert.Equal(t, []string{"c1", "c3", "c2"}, ids(rows))
			})

			t.Run("range past the end", func(t *testing.T) {
				rows, total, err := src.QueryCompanies(ctx, Criteria{Range: Range{Offset: 50, Limit: 10}})
				require.NoError(t, err)
				assert.Equal(t, int64(3), total)
				assert.Empty(t, rows)
			})
		})
	}
}

func TestQueryAll(t *testing.T) {
	ctx := context.Background()

	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			companies, err := src.Companies(ctx)
			require.NoError(t, err)
			assert.Len(t, companies, 3)

			equipment, err := src.Equipment(ctx)
			require.NoError(t, err)
			require.Len(t, equipment, 1)
			assert.Equal(t, 3.0, equipment[0].Count.Float())

			market, err := src.MarketFigures(ctx)
			require.NoError(t, err)
			assert.Len(t, market, 1)

			reports, err := src.Reports(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"alloys", "machines"}, reports)

			rows, err := src.VendorRows(ctx, "machines")
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "EOS", rows[0].Vendor)

			_, err = src.VendorRows(ctx, "missing")
			assert.True(t, apperr.Is(err, apperr.ENOTFOUND))
		})
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "oracle"})
	assert.True(t, apperr.Is(err, apperr.EINVALID))
}

func TestQueryCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewMemory(fixtureStore()).QueryCompanies(ctx, Criteria{})
	assert.True(t, apperr.Is(err, apperr.EUPSTREAM))
}
