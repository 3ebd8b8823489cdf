package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"amdashboard/internal/logger"
	"amdashboard/internal/models"
)

const (
	companiesFile = "companies.json"
	equipmentFile = "equipment.json"
	marketFile    = "market.json"
	vendorsDir    = "vendors"
)

// readJSON decodes a JSON array file. A missing file is an empty dataset.
func readJSON[T any](path string) ([]T, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Str("file", path).Msg("dataset file missing, treating as empty")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rows []T
	if err := json.Unmarshal(content, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return rows, nil
}

// LoadDatasets reads every dataset below dir in parallel.
func LoadDatasets(dir string) (*Store, error) {
	start := time.Now()
	logger.Info().Str("dir", dir).Msg("loading datasets")

	store := &Store{Vendors: map[string][]models.VendorRow{}}
	var mu sync.Mutex
	var g errgroup.Group

	g.Go(func() (err error) {
		store.Companies, err = readJSON[models.Company](filepath.Join(dir, companiesFile))
		return err
	})
	g.Go(func() (err error) {
		store.Equipment, err = readJSON[models.EquipmentRecord](filepath.Join(dir, equipmentFile))
		return err
	})
	g.Go(func() (err error) {
		store.Market, err = readJSON[models.MarketFigure](filepath.Join(dir, marketFile))
		return err
	})

	reports, err := filepath.Glob(filepath.Join(dir, vendorsDir, "*.json"))
	if err != nil {
		return nil, err
	}
	for _, path := range reports {
		path := path
		g.Go(func() error {
			rows, err := readJSON[models.VendorRow](path)
			if err != nil {
				return err
			}
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			for i := range rows {
				if rows[i].Report == "" {
					rows[i].Report = name
				}
			}
			mu.Lock()
			store.Vendors[name] = rows
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info().
		Int("companies", len(store.Companies)).
		Int("equipment", len(store.Equipment)).
		Int("market", len(store.Market)).
		Int("reports", len(store.Vendors)).
		Dur("took", time.Since(start)).
		Msg("datasets loaded")
	return store, nil
}
