// Package app wires the hotelview command line: configuration, logging and
// the search, hotel and destinations commands.
package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alex-user-go/hotelview/internal/booking"
	"github.com/alex-user-go/hotelview/internal/config"
	"github.com/alex-user-go/hotelview/internal/errs"
	"github.com/alex-user-go/hotelview/internal/fetch"
	"github.com/alex-user-go/hotelview/internal/obs"
	"github.com/alex-user-go/hotelview/internal/searchctx"
)

// Run executes the hotelview command line with os.Args.
func Run(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// env holds what every command shares. It is filled in by the root command's
// PersistentPreRunE, after flags are parsed.
type env struct {
	cfg     config.Client
	logger  *slog.Logger
	level   *slog.LevelVar
	metrics *obs.Metrics
	shared  *searchctx.Context
	logFile io.Closer
}

func (e *env) setup(cmd *cobra.Command, apiURL string, debug bool) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return errs.Wrap(err, "load configuration")
	}
	if apiURL != "" {
		cfg.API.URL = apiURL
	}
	e.cfg = cfg

	if err := e.setupLogging(cmd.ErrOrStderr(), debug); err != nil {
		return err
	}

	e.metrics = obs.NewMetrics(e.logger)
	e.shared = searchctx.New(cfg.Search.CacheTTL)

	e.logger.Debug("command started", "command", cmd.Name(), "api_url", cfg.API.URL)
	return nil
}

// close releases what setup acquired and logs the session counters.
func (e *env) close() {
	if e.shared == nil {
		return
	}
	e.shared.Close()
	e.logger.Debug("command finished", "metrics", e.metrics.Snapshot())
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

// wrap runs fn and then releases the shared resources, whatever fn returns.
func (e *env) wrap(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer e.close()
		err := fn(cmd, args)
		if err != nil {
			e.logger.Debug("command failed", "command", cmd.Name(), "error", err,
				"stack", errs.ExtractStackLines(err, 8))
		}
		return err
	}
}

func (e *env) client() *booking.Client {
	return booking.NewClient(e.cfg.API.URL, e.cfg.API.Timeout, e.metrics, e.logger)
}

func (e *env) pollConfig() fetch.PollConfig {
	return fetch.PollConfig{
		Delay:          e.cfg.Poll.Delay,
		MaxAttempts:    e.cfg.Poll.MaxAttempts,
		MaxFailures:    e.cfg.Poll.MaxFailures,
		RequestTimeout: e.cfg.API.Timeout,
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
