package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/alex-user-go/hotelview/internal/config"
	"github.com/alex-user-go/hotelview/internal/errs"
)

// setupLogging builds the text logger. It writes to HOTELVIEW_LOG_FILE when
// set and to stderr otherwise; --debug lowers the level to debug.
func (e *env) setupLogging(stderr io.Writer, debug bool) error {
	e.level = new(slog.LevelVar)
	e.level.Set(config.ParseLevel(e.cfg.Log.Level))
	if debug {
		e.level.Set(slog.LevelDebug)
	}

	out := stderr
	if e.cfg.Log.File != "" {
		f, err := os.OpenFile(e.cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return errs.Wrapf(err, "open log file %s", e.cfg.Log.File)
		}
		e.logFile = f
		out = f
	}

	e.logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: e.level}))
	slog.SetDefault(e.logger)
	return nil
}

// quiet silences logging while the hotel page owns the terminal. A
// configured log file keeps receiving records.
func (e *env) quiet() {
	if e.logFile != nil {
		return
	}
	e.logger = slog.New(slog.DiscardHandler)
	slog.SetDefault(e.logger)
}
