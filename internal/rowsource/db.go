package rowsource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sethvargo/go-retry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"amdashboard/internal/apperr"
	"amdashboard/internal/engine"
	"amdashboard/internal/logger"
	"amdashboard/internal/models"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	importBatchSize = 500
)

// Options configures the relational row source.
type Options struct {
	// Driver is "sqlite" or "postgres".
	Driver string `koanf:"driver"`

	// DSN is a file path (or ":memory:") for sqlite, a connection URL for postgres.
	DSN string `koanf:"dsn"`

	// ConnectRetries bounds the reconnect attempts while the database is not
	// yet reachable.
	ConnectRetries uint64 `koanf:"connect_retries"`
}

// DB serves rows from a relational store through gorm.
type DB struct {
	db *gorm.DB
}

func NewDB(db *gorm.DB) *DB {
	return &DB{db: db}
}

func dialector(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		return sqlite.Open(opts.DSN), nil
	case DriverPostgres:
		return postgres.Open(opts.DSN), nil
	}
	return nil, apperr.Invalid("unsupported database driver %q", opts.Driver)
}

// Open connects to the configured database, retrying the initial ping with an
// exponential backoff.
func Open(ctx context.Context, opts Options) (*DB, error) {
	d, err := dialector(opts)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(d, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, apperr.Upstream(err, "open %s database", opts.Driver)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, apperr.Upstream(err, "get underlying sql.DB")
	}
	if opts.Driver != DriverPostgres && strings.Contains(opts.DSN, ":memory:") {
		// every pooled connection would get its own empty in-memory database
		sqlDB.SetMaxOpenConns(1)
	}

	backoff := retry.WithMaxRetries(opts.ConnectRetries, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := sqlDB.PingContext(ctx); err != nil {
			logger.Warn().Err(err).Str("driver", opts.Driver).Msg("database not reachable, retrying")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Upstream(err, "connect to %s database", opts.Driver)
	}

	logger.Info().Str("driver", opts.Driver).Msg("connected to database")
	return NewDB(gdb), nil
}

func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the tables of every row kind.
func (d *DB) Migrate(ctx context.Context) error {
	err := d.db.WithContext(ctx).AutoMigrate(
		&models.Company{},
		&models.EquipmentRecord{},
		&models.MarketFigure{},
		&models.VendorRow{},
	)
	return apperr.Upstream(err, "migrate tables")
}

// Import copies the JSON datasets of store into the database. Vendor rows take
// their report name from the file they were loaded from.
func (d *DB) Import(ctx context.Context, store *engine.Store) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(store.Companies) > 0 {
			if err := tx.CreateInBatches(store.Companies, importBatchSize).Error; err != nil {
				return apperr.Upstream(err, "import companies")
			}
		}
		if len(store.Equipment) > 0 {
			if err := tx.CreateInBatches(store.Equipment, importBatchSize).Error; err != nil {
				return apperr.Upstream(err, "import equipment")
			}
		}
		if len(store.Market) > 0 {
			if err := tx.CreateInBatches(store.Market, importBatchSize).Error; err != nil {
				return apperr.Upstream(err, "import market figures")
			}
		}
		for _, report := range store.Reports() {
			rows := make([]models.VendorRow, len(store.Vendors[report]))
			for i, row := range store.Vendors[report] {
				row.Report = report
				if row.ID == "" {
					row.ID = fmt.Sprintf("%s-%d", report, i+1)
				}
				rows[i] = row
			}
			if len(rows) == 0 {
				continue
			}
			if err := tx.CreateInBatches(rows, importBatchSize).Error; err != nil {
				return apperr.Upstream(err, "import vendor report %s", report)
			}
		}
		return nil
	})
}

// escapeLike escapes the LIKE wildcards of a user supplied term.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (d *DB) QueryCompanies(ctx context.Context, c Criteria) ([]models.Company, int64, error) {
	tx := d.db.WithContext(ctx).Model(&models.Company{})

	for _, column := range sortedKeys(c.Equals) {
		if !isFilterColumn(column) {
			continue
		}
		tx = tx.Where(fmt.Sprintf("LOWER(%s) = LOWER(?)", column), c.Equals[column])
	}

	if term := strings.TrimSpace(c.Search); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		conds := make([]string, len(SearchColumns))
		args := make([]any, len(SearchColumns))
		for i, column := range SearchColumns {
			conds[i] = fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, column)
			args[i] = pattern
		}
		tx = tx.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Upstream(err, "count companies")
	}

	tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: sortColumn(c.Sort.Column)}, Desc: c.Sort.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: c.Sort.Desc})
	if c.Range.Offset > 0 {
		tx = tx.Offset(c.Range.Offset)
	}
	if c.Range.Limit > 0 {
		tx = tx.Limit(c.Range.Limit)
	}

	var rows []models.Company
	if err := tx.Session(&gorm.Session{}).Find(&rows).Error; err != nil {
		return nil, 0, apperr.Upstream(err, "query companies")
	}
	return rows, total, nil
}

func (d *DB) Companies(ctx context.Context) ([]models.Company, error) {
	var rows []models.Company
	err := d.db.WithContext(ctx).Order("id").Find(&rows).Error
	return rows, apperr.Upstream(err, "query all companies")
}

func (d *DB) Equipment(ctx context.Context) ([]models.EquipmentRecord, error) {
	var rows []models.EquipmentRecord
	err := d.db.WithContext(ctx).Order("id").Find(&rows).Error
	return rows, apperr.Upstream(err, "query all equipment")
}

func (d *DB) MarketFigures(ctx context.Context) ([]models.MarketFigure, error) {
	var rows []models.MarketFigure
	err := d.db.WithContext(ctx).Order("year").Order("id").Find(&rows).Error
	return rows, apperr.Upstream(err, "query all market figures")
}

func (d *DB) VendorRows(ctx context.Context, report string) ([]models.VendorRow, error) {
	var rows []models.VendorRow
	if err := d.db.WithContext(ctx).Where("report = ?", report).Order("id").Find(&rows).Error; err != nil {
		return nil, apperr.Upstream(err, "query vendor report %s", report)
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("vendor report %q not found", report)
	}
	return rows, nil
}

func (d *DB) Reports(ctx context.Context) ([]string, error) {
	var names []string
	err := d.db.WithContext(ctx).Model(&models.VendorRow{}).Distinct("report").Order("report").Pluck("report", &names).Error
	return names, apperr.Upstream(err, "list vendor reports")
}
