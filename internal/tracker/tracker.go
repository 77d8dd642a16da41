package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/runnerr0/iotracker/internal/day"
)

// ErrInvalidDayKey is returned when a mutation names a malformed day.
var ErrInvalidDayKey = errors.New("invalid day key")

// KV is the persistence the tracker needs: opaque string blobs by key.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Auditor is implemented by stores that keep an action log. The tracker
// records imports and migrations through it when available.
type Auditor interface {
	LogAction(ctx context.Context, action, detail string) error
}

// Deleter is implemented by stores that can remove a key. It is used to
// undo a failed write that created a key which did not exist before.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// Tracker owns the ledger and preferences of one session. Every mutation
// is persisted before it returns; a failed write leaves memory untouched.
type Tracker struct {
	mu     sync.RWMutex
	kv     KV
	logger *slog.Logger
	now    func() time.Time

	ledger    Ledger
	config    Config
	migration MigrationReport
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for recovered read errors.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithClock overrides the time source used for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// Load reads the tracker state from kv. Config is loaded first so legacy
// entries migrate with the stored daily goal. Read failures are logged and
// recovered to defaults; Load itself never fails.
func Load(ctx context.Context, kv KV, opts ...Option) *Tracker {
	t := &Tracker{
		kv:     kv,
		logger: slog.Default(),
		now:    time.Now,
		ledger: Ledger{},
	}
	for _, opt := range opts {
		opt(t)
	}

	configBlob, hasConfig := t.read(ctx, KeyConfig)
	themeBlob, hasTheme := t.read(ctx, KeyTheme)
	t.config = loadConfig(configBlob, hasConfig, themeBlob, hasTheme, t.logger)

	if dataBlob, ok := t.read(ctx, KeyData); ok {
		t.ledger, t.migration = migrateLedger(dataBlob, t.config.DailyGoal, t.logger)
	}

	if t.migration.Changed() {
		if err := t.writeLedger(ctx, t.ledger); err != nil {
			t.logger.Warn("failed to persist migrated ledger", "error", err)
		} else {
			t.audit(ctx, "migrate", fmt.Sprintf("migrated=%d dropped=%d emptied=%d",
				t.migration.Migrated, t.migration.Dropped, t.migration.Emptied))
		}
	}

	return t
}

func (t *Tracker) read(ctx context.Context, key string) (string, bool) {
	v, ok, err := t.kv.Get(ctx, key)
	if err != nil {
		t.logger.Error("failed to read stored value, using default", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

// Migration reports what Load did with the stored ledger.
func (t *Tracker) Migration() MigrationReport {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.migration
}

// Entry returns the entry for dayKey, or the zero entry when absent.
func (t *Tracker) Entry(dayKey string) Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ledger[dayKey]
}

// Ledger returns a copy of the whole ledger.
func (t *Tracker) Ledger() Ledger {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ledger.Clone()
}

// Config returns the current preferences.
func (t *Tracker) Config() Config {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.config
}

// SetHours records hours for dayKey, clamped to [0, 24]. The entry is
// created with output unset when absent.
func (t *Tracker) SetHours(ctx context.Context, dayKey string, hours float64) error {
	return t.updateEntry(ctx, dayKey, func(e Entry) Entry {
		e.Hours = ClampHours(hours)
		return e
	})
}

// AdjustHours adds delta to the hours of dayKey, clamping the result.
func (t *Tracker) AdjustHours(ctx context.Context, dayKey string, delta float64) error {
	return t.updateEntry(ctx, dayKey, func(e Entry) Entry {
		e.Hours = ClampHours(e.Hours + delta)
		return e
	})
}

// ToggleOutput flips the shipped flag of dayKey, creating the entry with
// zero hours when absent.
func (t *Tracker) ToggleOutput(ctx context.Context, dayKey string) error {
	return t.updateEntry(ctx, dayKey, func(e Entry) Entry {
		e.Output = !e.Output
		return e
	})
}

func (t *Tracker) updateEntry(ctx context.Context, dayKey string, fn func(Entry) Entry) error {
	if !day.ValidKey(dayKey) {
		return fmt.Errorf("%w: %q", ErrInvalidDayKey, dayKey)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.ledger.Clone()
	next[dayKey] = fn(t.ledger[dayKey])
	if err := t.writeLedger(ctx, next); err != nil {
		return err
	}
	t.ledger = next
	return nil
}

// UpdateConfig merges the set fields of p into the preferences.
func (t *Tracker) UpdateConfig(ctx context.Context, p ConfigPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := p.Apply(t.config)
	if err := t.atomically(ctx, func() error { return t.writeConfig(ctx, next) }, KeyConfig, KeyTheme); err != nil {
		return err
	}
	t.config = next
	return nil
}

// CycleTheme switches to the next theme and returns it.
func (t *Tracker) CycleTheme(ctx context.Context) (Theme, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.config
	next.Theme = next.Theme.Next()
	if err := t.atomically(ctx, func() error { return t.writeConfig(ctx, next) }, KeyConfig, KeyTheme); err != nil {
		return t.config.Theme, err
	}
	t.config = next
	return next.Theme, nil
}

func (t *Tracker) writeLedger(ctx context.Context, l Ledger) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	if err := t.kv.Set(ctx, KeyData, string(data)); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// writeConfig persists the config blob and mirrors its theme into the
// standalone theme key.
func (t *Tracker) writeConfig(ctx context.Context, c Config) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := t.kv.Set(ctx, KeyConfig, string(data)); err != nil {
		return fmt.Errorf("persist config: %w", err)
	}
	if err := t.kv.Set(ctx, KeyTheme, string(c.Theme)); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	return nil
}

// priorBlob is a stored value captured before a multi-key write.
type priorBlob struct {
	value string
	ok    bool
}

// atomically runs write, which may touch several keys, and puts every key
// back to its previous blob when write fails part way. Callers hold t.mu.
func (t *Tracker) atomically(ctx context.Context, write func() error, keys ...string) error {
	prior := make(map[string]priorBlob, len(keys))
	for _, key := range keys {
		v, ok, err := t.kv.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("read %s before write: %w", key, err)
		}
		prior[key] = priorBlob{value: v, ok: ok}
	}

	err := write()
	if err == nil {
		return nil
	}
	for _, key := range keys {
		if rerr := t.restore(ctx, key, prior[key]); rerr != nil {
			t.logger.Error("failed to restore stored value after failed write", "key", key, "error", rerr)
		}
	}
	return err
}

func (t *Tracker) restore(ctx context.Context, key string, p priorBlob) error {
	if p.ok {
		return t.kv.Set(ctx, key, p.value)
	}
	d, ok := t.kv.(Deleter)
	if !ok {
		return fmt.Errorf("store cannot delete %s", key)
	}
	return d.Delete(ctx, key)
}

func (t *Tracker) audit(ctx context.Context, action, detail string) {
	a, ok := t.kv.(Auditor)
	if !ok {
		return
	}
	if err := a.LogAction(ctx, action, detail); err != nil {
		t.logger.Warn("failed to record audit entry", "action", action, "error", err)
	}
}
