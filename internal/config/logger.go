package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const logFilePermission = 0664

// LogConfig selects the log level, console formatting and an optional log
// file.
type LogConfig struct {
	Level  string
	Pretty bool
	File   string
}

// LoadLogConfig reads LOG_LEVEL, LOG_PRETTY and LOG_FILE.  Pretty output
// defaults to on outside production.
func LoadLogConfig(env string) LogConfig {
	return LogConfig{
		Level:  envStr("LOG_LEVEL", "info"),
		Pretty: envBool("LOG_PRETTY", !strings.EqualFold(env, "prod")),
		File:   os.Getenv("LOG_FILE"),
	}
}

// NewLogger builds the root logger.  When File is set, logs go to the file
// in JSON regardless of Pretty.
func NewLogger(c LogConfig) (zerolog.Logger, error) {
	var w io.Writer = os.Stdout
	switch {
	case c.File != "":
		f, err := os.OpenFile(c.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePermission)
		if err != nil {
			return zerolog.Nop(), err
		}
		w = zerolog.SyncWriter(f)
	case c.Pretty:
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
