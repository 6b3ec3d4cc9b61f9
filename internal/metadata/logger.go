package metadata

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig controls the zerolog backend behind a Recorder.
type LogConfig struct {
	// Level is one of: trace, debug, info, warn, error, fatal, panic
	Level string
	// LogDir enables rotating file output when non-empty
	LogDir string
	// MaxSizeMB is the maximum size of a single log file before rotation
	MaxSizeMB int
	// MaxBackups is the number of rotated files to retain
	MaxBackups int
	// MaxAgeDays is the retention period for rotated files
	MaxAgeDays int
}

// DefaultLogConfig returns the logging defaults used when no overrides
// are supplied: info level, console output only.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:      "info",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

// NewLogger builds the zerolog.Logger that backs a Recorder.
// Output always goes to a console writer on stderr; when LogDir is set,
// a rotating file sink is added alongside it.
func NewLogger(config LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	var sink io.Writer = consoleWriter

	if config.LogDir != "" {
		if err := os.MkdirAll(config.LogDir, 0o755); err != nil {
			return zerolog.Logger{}, err
		}
		fileSink := &lumberjack.Logger{
			Filename:   filepath.Join(config.LogDir, "crawl-gate.log"),
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAgeDays,
			Compress:   true,
		}
		sink = io.MultiWriter(consoleWriter, fileSink)
	}

	logger := zerolog.New(sink).
		Level(level).
		With().
		Timestamp().
		Logger()

	return logger, nil
}
