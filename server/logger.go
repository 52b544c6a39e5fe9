package server

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ZaguanLabs/anglify/config"
)

// SetupLogger configures the global zerolog logger from cfg and returns it.
// Output goes to w, or stderr when w is nil. The console format is meant for
// terminals; json is for log shippers.
func SetupLogger(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w), TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(w).With().Timestamp().Str("service", "anglify").Logger()
	log.Logger = logger

	return logger
}

// isTerminal reports whether w is a terminal; colour codes are only written
// to terminals.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
