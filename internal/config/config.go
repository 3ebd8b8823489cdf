// Package config loads the server configuration from built-in defaults, an
// optional TOML file and AMDASH_ environment variables, in that order.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"

	"amdashboard/internal/apperr"
	"amdashboard/internal/logger"
	"amdashboard/internal/rowsource"
)

// EnvPrefix marks environment overrides. A double underscore separates
// sections, so AMDASH_CACHE__TTL sets cache.ttl.
const EnvPrefix = "AMDASH_"

const (
	ModeDB   = "db"
	ModeJSON = "json"
)

type Config struct {
	Server ServerConfig  `koanf:"server"`
	Data   DataConfig    `koanf:"data"`
	Cache  CacheConfig   `koanf:"cache"`
	Export ExportConfig  `koanf:"export"`
	Log    logger.Config `koanf:"log"`
}

type ServerConfig struct {
	Address         string        `koanf:"address"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DataConfig struct {
	// Mode selects the row source: "db" or "json".
	Mode string `koanf:"mode"`

	// Dir holds companies.json, equipment.json, market.json and vendors/.
	Dir string `koanf:"dir"`

	rowsource.Options `koanf:",squash"`
}

type CacheConfig struct {
	TTL      time.Duration `koanf:"ttl"`
	Capacity int           `koanf:"capacity"`
}

type ExportConfig struct {
	Timeout   time.Duration `koanf:"timeout"`
	SheetName string        `koanf:"sheet_name"`
}

var defaults = map[string]any{
	"server.address":          ":8080",
	"server.shutdown_timeout": "10s",
	"data.mode":               ModeJSON,
	"data.dir":                "data",
	"data.driver":             rowsource.DriverSQLite,
	"data.dsn":                "amdash.db",
	"data.connect_retries":    5,
	"cache.ttl":               "60s",
	"cache.capacity":          512,
	"export.timeout":          "30s",
	"export.sheet_name":       "Data",
	"log.level":               "info",
	"log.file_size":           10,
	"log.file_count":          5,
	"log.time_format":         "rfc3339",
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Load reads the configuration. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, apperr.Invalid("load defaults: %v", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, apperr.Invalid("load config file %s: %v", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, apperr.Invalid("load environment: %v", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, apperr.Invalid("decode config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Data.Mode {
	case ModeDB:
		if c.Data.Driver != rowsource.DriverSQLite && c.Data.Driver != rowsource.DriverPostgres {
			return apperr.Invalid("data.driver must be %q or %q, got %q", rowsource.DriverSQLite, rowsource.DriverPostgres, c.Data.Driver)
		}
		if c.Data.DSN == "" {
			return apperr.Invalid("data.dsn is required in db mode")
		}
	case ModeJSON:
		if c.Data.Dir == "" {
			return apperr.Invalid("data.dir is required in json mode")
		}
	default:
		return apperr.Invalid("data.mode must be %q or %q, got %q", ModeDB, ModeJSON, c.Data.Mode)
	}
	if c.Cache.Capacity < 1 {
		return apperr.Invalid("cache.capacity must be positive")
	}
	if c.Cache.TTL <= 0 {
		return apperr.Invalid("cache.ttl must be positive")
	}
	return nil
}
