package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"amdashboard/internal/api"
	"amdashboard/internal/config"
	"amdashboard/internal/engine"
	"amdashboard/internal/export"
	"amdashboard/internal/logger"
	"amdashboard/internal/models"
	"amdashboard/internal/rowsource"
)

var configFile string

var root = &cobra.Command{
	Use:           "amdash",
	Short:         "AM market dashboard backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log)
	return cfg, nil
}

// openSource connects the configured row source. The returned close func is
// never nil.
func openSource(ctx context.Context, cfg *config.Config) (rowsource.Source, func(), error) {
	if cfg.Data.Mode == config.ModeJSON {
		store, err := engine.LoadDatasets(cfg.Data.Dir)
		if err != nil {
			return nil, func() {}, err
		}
		return rowsource.NewMemory(store), func() {}, nil
	}
	db, err := rowsource.Open(ctx, cfg.Data.Options)
	if err != nil {
		return nil, func() {}, err
	}
	return db, func() { _ = db.Close() }, nil
}

var serve = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// The API is live at once and answers 503 until the source is ready
		h := api.NewHandler(nil, api.Options{
			CacheTTL:      cfg.Cache.TTL,
			CacheCapacity: cfg.Cache.Capacity,
			ExportTimeout: cfg.Export.Timeout,
			SheetName:     cfg.Export.SheetName,
		})
		e := api.NewServer(h)

		closeSource := make(chan func(), 1)
		go func() {
			logger.Info().Str("mode", cfg.Data.Mode).Msg("loading row source in background")
			t0 := time.Now()

			src, closeFn, err := openSource(ctx, cfg)
			closeSource <- closeFn
			if err != nil {
				logger.Error().Err(err).Msg("row source failed to load, API stays unavailable")
				return
			}
			h.SetSource(src)
			logger.Info().Dur("took", time.Since(t0)).Msg("row source ready")
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("shutdown")
			}
		}()

		logger.Info().Str("address", cfg.Server.Address).Msg("server listening")
		if err := e.Start(cfg.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		closeLoadedSource(closeSource, cfg.Server.ShutdownTimeout)
		return nil
	},
}

// closeLoadedSource waits up to wait for the background load to hand over its
// close func and runs it. A load still running after that is abandoned.
func closeLoadedSource(closeSource <-chan func(), wait time.Duration) bool {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case closeFn := <-closeSource:
		closeFn()
		return true
	case <-timer.C:
		logger.Warn().Dur("waited", wait).Msg("row source still loading at shutdown, not closed")
		return false
	}
}

var exportFlags struct {
	dataset string
	report  string
	format  string
	ids     []string
	idField string
	out     string
	filters map[string]*[]string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a dataset to a CSV or XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		format, err := export.ParseFormat(exportFlags.format)
		if err != nil {
			return err
		}

		src, closeSource, err := openSource(cmd.Context(), cfg)
		defer closeSource()
		if err != nil {
			return err
		}

		params := url.Values{}
		for _, d := range models.FilterDimensions {
			params[d.Param] = *exportFlags.filters[d.Param]
		}
		f := models.ParseFilterState(params)

		rows, kind, base, err := api.DatasetRows(cmd.Context(), src, exportFlags.dataset, exportFlags.report, f)
		if err != nil {
			return err
		}
		res, err := export.Run(cmd.Context(), export.Request{
			Base:    base,
			Format:  format,
			Rows:    rows,
			Columns: export.Columns(kind),
			IDs:     exportFlags.ids,
			IDField: exportFlags.idField,
			Filters: f,
			Sheet:   cfg.Export.SheetName,
		}, cfg.Export.Timeout)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(exportFlags.out, 0o755); err != nil {
			return err
		}
		path := filepath.Join(exportFlags.out, res.Filename)
		if err := os.WriteFile(path, res.Body, 0o644); err != nil {
			return err
		}
		logger.Info().Str("file", path).Int("rows", res.Rows).Msg("export written")
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the JSON datasets into the configured database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := engine.LoadDatasets(cfg.Data.Dir)
		if err != nil {
			return err
		}
		db, err := rowsource.Open(cmd.Context(), cfg.Data.Options)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(cmd.Context()); err != nil {
			return err
		}
		if err := db.Import(cmd.Context(), store); err != nil {
			return err
		}
		logger.Info().
			Int("companies", len(store.Companies)).
			Int("equipment", len(store.Equipment)).
			Int("market", len(store.Market)).
			Int("reports", len(store.Vendors)).
			Msg("import complete")
		return nil
	},
}

func init() {
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a TOML config file")

	exportCmd.Flags().StringVar(&exportFlags.dataset, "dataset", "companies", "companies, equipment, market or reports")
	exportCmd.Flags().StringVar(&exportFlags.report, "report", "", "vendor report name, required for --dataset=reports")
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "csv", "csv or xlsx")
	exportCmd.Flags().StringSliceVar(&exportFlags.ids, "ids", nil, "only export rows with these identifiers")
	exportCmd.Flags().StringVar(&exportFlags.idField, "id-field", export.DefaultIDField, "field matched against --ids")
	exportCmd.Flags().StringVarP(&exportFlags.out, "out", "o", ".", "output directory")
	exportFlags.filters = map[string]*[]string{}
	for _, d := range models.FilterDimensions {
		values := new([]string)
		exportFlags.filters[d.Param] = values
		exportCmd.Flags().StringSliceVar(values, d.Param, nil, fmt.Sprintf("filter by %s", d.Param))
	}

	root.AddCommand(serve, exportCmd, importCmd)
}

func main() {
	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("amdash failed")
		os.Exit(1)
	}
}
