package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/runnerr0/iotracker/internal/config"
	"github.com/runnerr0/iotracker/internal/day"
	"github.com/runnerr0/iotracker/internal/storage"
	"github.com/runnerr0/iotracker/internal/tracker"
)

// env is everything a command needs: the process config, the opened
// store and the tracker loaded from it.
type env struct {
	cfg     *config.Config
	store   storage.Store
	tracker *tracker.Tracker
	path    string // storage file, empty for in-memory stores

	closers []io.Closer
}

// Close releases the store and anything opened alongside it.
func (e *env) Close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// today returns the current day by the tracker's clock.
func (e *env) today() day.Date { return day.Of(e.tracker.Now()) }

// year returns the configured target year.
func (e *env) year() int { return e.cfg.Tracker.TargetYear }

// openEnv loads the config named by the global flags, sets up logging and
// opens the configured store.
func openEnv(ctx context.Context, g *GlobalFlags) (*env, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}

	logger, logFile, err := newLogger(cfg.Logging, g != nil && g.Verbose)
	if err != nil {
		return nil, err
	}
	if logFile != nil {
		e.closers = append(e.closers, logFile)
	}

	if err := e.openStore(); err != nil {
		e.Close()
		return nil, err
	}
	logger.Debug("store opened", "backend", cfg.Storage.Backend, "path", e.path)

	e.tracker = tracker.Load(ctx, e.store, tracker.WithLogger(logger))
	return e, nil
}

// loadConfig reads --config, or the default path creating it when missing.
func loadConfig(g *GlobalFlags) (*config.Config, error) {
	if g != nil && g.Config != "" {
		path, err := config.ExpandPath(g.Config)
		if err != nil {
			return nil, err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the configured backend. SQLite databases are migrated
// before use.
func (e *env) openStore() error {
	path, err := e.cfg.StoragePath()
	if err != nil {
		return fmt.Errorf("resolve storage path: %w", err)
	}
	e.path = path

	if e.cfg.Storage.Backend == "file" {
		s := storage.NewFileStore(path)
		e.store = s
		e.closers = append(e.closers, s)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	e.closers = append(e.closers, db)

	runner := storage.NewMigrationRunner(db).WithJournalMode(e.cfg.Storage.SQLiteJournalMode)
	if err := runner.Run(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	s, err := storage.NewSQLiteStore(db)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	e.store = s
	e.closers = append(e.closers, s)
	return nil
}

// newLogger builds the process logger. Records go to the configured file
// when set, else stderr. The returned file, if any, must be closed.
func newLogger(lc config.LoggingConfig, verbose bool) (*slog.Logger, *os.File, error) {
	level := parseLevel(lc.Level)
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	var f *os.File
	if lc.File != "" {
		path, err := config.ExpandPath(lc.File)
		if err != nil {
			return nil, nil, err
		}
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, f, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// parseDay resolves a DAY argument: "today" or a YYYY-MM-DD key.
func parseDay(s string, today day.Date) (day.Date, error) {
	if strings.EqualFold(s, "today") {
		return today, nil
	}
	d, err := day.Parse(s)
	if err != nil {
		return day.Date{}, fmt.Errorf("invalid day %q: want YYYY-MM-DD or today", s)
	}
	return d, nil
}

// formatHours renders hours with at most two decimals, e.g. "1.5h".
func formatHours(h float64) string {
	return decimal.NewFromFloat(h).Round(2).String() + "h"
}

// formatEntry renders one day for human output.
func formatEntry(d day.Date, e tracker.Entry, cfg tracker.Config) string {
	line := fmt.Sprintf("%s  %-7s %s: %s", d, d.Label(), cfg.InputLabel, formatHours(e.Hours))
	if e.Output {
		line += fmt.Sprintf("  [%s shipped]", cfg.OutputLabel)
	}
	return line
}
