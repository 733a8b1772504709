package cliconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger returns a console logger on stderr at the given level
// ("debug", "info", "warn", "error"). An empty level means info.
func Logger(level string) (zerolog.Logger, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if level == "" {
		return logger.Level(zerolog.InfoLevel), nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return logger, fmt.Errorf("parse log level: %w", err)
	}
	return logger.Level(lvl), nil
}
