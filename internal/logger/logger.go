package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config defines the configuration options for the logger
type Config struct {
	// Level sets the minimum enabled logging level. Valid levels are
	// "debug", "info", "warn" and "error". Defaults to info.
	Level string `koanf:"level"`

	// File is the path of the rotated log file. Empty disables file output.
	File string `koanf:"file"`

	// FileSize is the maximum size in megabytes of the log file before it gets
	// rotated. It defaults to 10 megabytes.
	FileSize int `koanf:"file_size"`

	// FileCount is the maximum number of old log files to retain.
	// The default is 5.
	FileCount int `koanf:"file_count"`

	// Compress gzips rotated files.
	Compress bool `koanf:"compress"`

	// Colorize enables human readable console output with colors
	Colorize bool `koanf:"colorize"`

	// TimeFormat is "rfc3339", "iso8601" or a Go layout. Defaults to RFC3339.
	TimeFormat string `koanf:"time_format"`
}

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init replaces the global logger based on the provided Config.
func Init(config Config) {
	if config.FileSize == 0 {
		config.FileSize = 10
	}
	if config.FileCount == 0 {
		config.FileCount = 5
	}
	switch strings.ToLower(config.TimeFormat) {
	case "", "rfc3339":
		zerolog.TimeFieldFormat = time.RFC3339Nano
	case "iso8601":
		zerolog.TimeFieldFormat = "2006-01-02T15:04:05.000Z0700"
	default:
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	if strings.EqualFold(config.Level, "warning") {
		level = zerolog.WarnLevel
	}

	var writers []io.Writer
	if config.Colorize {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		writers = append(writers, os.Stdout)
	}
	if config.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    config.FileSize, // megabytes
			MaxBackups: config.FileCount,
			MaxAge:     28, //days
			Compress:   config.Compress,
		})
	}

	logctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp()
	if level == zerolog.DebugLevel {
		log = logctx.Caller().Logger()
	} else {
		log = logctx.Logger()
	}
}

// SetOutput redirects the global logger, used by tests.
func SetOutput(w io.Writer) {
	log = zerolog.New(w).With().Timestamp().Logger()
}

func Get() *zerolog.Logger {
	return &log
}

func Debug() *zerolog.Event { return log.Debug() }

func Info() *zerolog.Event { return log.Info() }

func Warn() *zerolog.Event { return log.Warn() }

func Error() *zerolog.Event { return log.Error() }
