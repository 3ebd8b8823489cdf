package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"amdashboard/internal/apperr"
	"amdashboard/internal/cache"
	"amdashboard/internal/engine"
	"amdashboard/internal/export"
	"amdashboard/internal/models"
	"amdashboard/internal/query"
	"amdashboard/internal/rowsource"
)

const defaultShareLimit = 10

type Options struct {
	CacheTTL      time.Duration
	CacheCapacity int
	ExportTimeout time.Duration
	SheetName     string
}

// Handler serves the dashboard API. Until a row source is set every data
// endpoint answers 503.
type Handler struct {
	opts  Options
	cache *cache.LRU[*query.Envelope]

	mu     sync.RWMutex
	source rowsource.Source
	tables query.Runner
}

func NewHandler(source rowsource.Source, opts Options) *Handler {
	h := &Handler{
		opts:  opts,
		cache: cache.NewLRU[*query.Envelope]("companies", opts.CacheCapacity, opts.CacheTTL),
	}
	if source != nil {
		h.SetSource(source)
	}
	return h
}

// SetSource swaps in a row source. The table cache is shared across sources
// and emptied on every swap.
func (h *Handler) SetSource(source rowsource.Source) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache.Purge()
	h.source = source
	h.tables = query.NewCachedService(query.NewService(source), h.cache)
}

func (h *Handler) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.source != nil
}

func (h *Handler) backend() (rowsource.Source, query.Runner, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.source == nil {
		return nil, nil, apperr.Unavailable("datasets are still loading")
	}
	return h.source, h.tables, nil
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api")
	api.GET("/companies", h.GetCompanies)
	api.GET("/map", h.GetMap)
	api.GET("/market", h.GetMarket)
	api.GET("/equipment/processes", h.GetProcesses)
	api.GET("/equipment/materials", h.GetMaterials)
	api.GET("/reports", h.GetReports)
	api.GET("/reports/:report", h.GetReport)
	api.GET("/overview", h.GetOverview)
	api.GET("/export/:dataset", h.Export)
}

func (h *Handler) Health(c echo.Context) error {
	if !h.Ready() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetCompanies returns one page of the company directory.
func (h *Handler) GetCompanies(c echo.Context) error {
	_, tables, err := h.backend()
	if err != nil {
		return WriteError(c, err)
	}
	env, err := tables.Run(c.Request().Context(), query.ParseTableQuery(c.QueryParams()))
	if err != nil {
		return WriteError(c, err)
	}
	return c.JSON(http.StatusOK, env)
}

// GetMap returns companies and installed equipment per country.
func (h *Handler) GetMap(c echo.Context) error {
	src, _, err := h.backend()
	if err != nil {
		return WriteError(c, err)
	}
	rows, err := src.Companies(c.Request().Context())
	if err != nil {
		return WriteError(c, err)
	}
	f := models.ParseFilterState(c.QueryParams())
	return c.JSON(http.StatusOK, engine.CompanyMap(engine.FilterCompanies(rows, f)))
}

func (h *Handler) GetMarket(c echo.Context) error {
	src, _, err := h.backend()
	if err != nil {
		return WriteError(c, err)
	}
	figures, err := src.MarketFigures(c.Request().Context())
	if err != nil {
		return WriteError(c, err)
	}
	return c.JSON(http.StatusOK, engine.MarketReport(figures, query.ParseMarketFilter(c.QueryParams())))
}

func (h *Handler) equipmentShares(c echo.Context, shares func([]models.EquipmentRecord, int) []models.TopItem) error {
	src, _, err := h.backend()
	if err != nil {
		return WriteError(c, err)
	}
	rows, err := src.Equipment(c.Request().Context())
	if err != nil {
		return WriteError(c, err)
	}
	f := models.ParseFilterState(c.QueryParams())
	limit := query.ParseLimit(c.QueryParams(), defaultShareLimit)
	return c.JSON(http.StatusOK, shares(engine.FilterEquipment(rows, f), limit))
}

func (h *Handler) GetProcesses(c echo.Context) error {
	return h.equipmentShares(c, engine.ProcessShares)
}

func (h *Handler) GetMaterials(c echo.Context) error {
	return h.equipmentShares(c, engine.MaterialShares)
}

func (h *Handler) GetReports(c echo.Context) error {
	src, _, err := h.backend()
	if err != nil {
		return WriteError(c, err)
	}
	names, err := src.Reports(c.Request().Context())
	if err != nil {
		return WriteError(c, err)
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(http.StatusOK, map[string][]string{"reports": names})
}

// GetReport returns a legacy vendor dataset with canonical labels.
func (h *Handler) GetReport(c echo.Context) error {
	src, _, err := h.backend()
	if err != nil {
		return WriteError(c, err)
	}
	name := c.Param("report")
	rows, err := src.VendorRows(c.Request().Context(), name)
	if err != nil {
		return WriteError(c, err)
	}
	return c.JSON(http.StatusOK, engine.BuildVendorReport(name, rows, models.ParseFilterState(c.QueryParams())))
}

// GetOverview fetches every dataset the landing page needs concurrently.
func (h *Handler) GetOverview(c echo.Context) error {
	src, _, err := h.backend()
	if err != nil {
		return WriteError(c, err)
	}

	var (
		companies []models.Company
		equipment []models.EquipmentRecord
		figures   []models.MarketFigure
	)
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() (err error) {
		companies, err = src.Companies(ctx)
		return err
	})
	g.Go(func() (err error) {
		equipment, err = src.Equipment(ctx)
		return err
	})
	g.Go(func() (err error) {
		figures, err = src.MarketFigures(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return WriteError(c, err)
	}

	f := models.ParseFilterState(c.QueryParams())
	equipment = engine.FilterEquipment(equipment, f)
	limit := query.ParseLimit(c.QueryParams(), defaultShareLimit)

	return c.JSON(http.StatusOK, models.Overview{
		Countries: engine.CompanyMap(engine.FilterCompanies(companies, f)),
		Processes: engine.ProcessShares(equipment, limit),
		Materials: engine.MaterialShares(equipment, limit),
		Market:    engine.MarketSummary(engine.FilterMarketFigures(figures, f), limit),
	})
}

// DatasetRows loads and filters the rows of one dataset in export shape.
func DatasetRows(ctx context.Context, src rowsource.Source, dataset, report string, f models.FilterState) ([]models.ExportRow, models.Kind, string, error) {
	switch dataset {
	case "companies":
		rows, err := src.Companies(ctx)
		return models.ExportRows(engine.FilterCompanies(rows, f)), models.KindCompany, "companies", err
	case "equipment":
		rows, err := src.Equipment(ctx)
		return models.ExportRows(engine.FilterEquipment(rows, f)), models.KindEquipment, "equipment", err
	case "market":
		rows, err := src.MarketFigures(ctx)
		return models.ExportRows(engine.FilterMarketFigures(rows, f)), models.KindMarket, "market", err
	case "reports":
		if report == "" {
			return nil, "", "", apperr.Invalid("report is required for vendor report exports")
		}
		rows, err := src.VendorRows(ctx, report)
		if err != nil {
			return nil, "", "", err
		}
		return models.ExportRows(engine.BuildVendorReport(report, rows, f).Rows), models.KindVendor, report, nil
	}
	return nil, "", "", apperr.NotFound("unknown dataset %q", dataset)
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Export serves a dataset as a CSV or XLSX attachment.
func (h *Handler) Export(c echo.Context) error {
	src, _, err := h.backend()
	if err != nil {
		return WriteError(c, err)
	}
	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return WriteError(c, err)
	}

	params := c.QueryParams()
	f := models.ParseFilterState(params)
	rows, kind, base, err := DatasetRows(c.Request().Context(), src, c.Param("dataset"), c.QueryParam("report"), f)
	if err != nil {
		return WriteError(c, err)
	}

	res, err := export.Run(c.Request().Context(), export.Request{
		Base:    base,
		Format:  format,
		Rows:    rows,
		Columns: export.Columns(kind),
		IDs:     splitList(c.QueryParam("ids")),
		IDField: c.QueryParam("idField"),
		Filters: f,
		Sheet:   h.opts.SheetName,
	}, h.opts.ExportTimeout)
	if err != nil {
		return WriteError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Response().Header().Set("X-Export-Rows", strconv.Itoa(res.Rows))
	return c.Blob(http.StatusOK, res.ContentType, res.Body)
}
