package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/runnerr0/iotracker/internal/day"
)

// ErrUnknownEntry is returned for a stored value that matches neither the
// current nor the legacy entry schema.
var ErrUnknownEntry = errors.New("unrecognized entry shape")

// entryKind tags which schema a stored entry was decoded as.
type entryKind int

const (
	kindCurrent entryKind = iota
	kindLegacy
)

// wireEntry is the union of every field an entry has ever been stored with.
type wireEntry struct {
	Hours  *float64 `json:"hours"`
	Output *bool    `json:"output"`
	Input  *bool    `json:"input"`
}

// decodeEntry decodes one stored entry. Any object carrying a boolean input
// is the legacy schema and is converted using dailyGoal, whatever else it
// holds; otherwise an object carrying hours, or output alone, is current.
func decodeEntry(raw json.RawMessage, dailyGoal float64) (Entry, entryKind, error) {
	var w wireEntry
	if err := json.Unmarshal(raw, &w); err != nil {
		return Entry{}, kindCurrent, fmt.Errorf("%w: %v", ErrUnknownEntry, err)
	}

	switch {
	case w.Input != nil:
		return migrateLegacy(*w.Input, w.Output, dailyGoal), kindLegacy, nil
	case w.Hours != nil:
		return Entry{Hours: *w.Hours, Output: w.Output != nil && *w.Output}, kindCurrent, nil
	case w.Output != nil:
		return Entry{Output: *w.Output}, kindCurrent, nil
	default:
		return Entry{}, kindCurrent, fmt.Errorf("%w: %s", ErrUnknownEntry, raw)
	}
}

// migrateLegacy converts a {input, output} entry to the hours schema.
func migrateLegacy(input bool, output *bool, dailyGoal float64) Entry {
	e := Entry{Output: output != nil && *output}
	if input {
		e.Hours = ClampHours(dailyGoal)
	}
	return e
}

// MigrationReport summarizes one load of the ledger blob.
type MigrationReport struct {
	Current  int // entries already in the hours schema
	Migrated int // legacy entries converted
	Dropped  int // entries discarded: invalid day key
	Emptied  int // entries replaced by an empty entry: unrecognized shape
	Failed   bool
}

// Changed reports whether the loaded ledger differs from the stored blob.
func (r MigrationReport) Changed() bool { return r.Migrated > 0 || r.Dropped > 0 || r.Emptied > 0 }

// migrateLedger decodes a persisted ledger blob, converting legacy entries
// per key. It never fails: an unparsable blob yields an empty ledger.
func migrateLedger(blob string, dailyGoal float64, logger *slog.Logger) (Ledger, MigrationReport) {
	var report MigrationReport
	ledger := Ledger{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		logger.Error("failed to parse stored ledger, starting empty", "key", KeyData, "error", err)
		report.Failed = true
		return ledger, report
	}

	for key, value := range raw {
		if !day.ValidKey(key) {
			logger.Warn("dropping ledger entry with invalid day key", "day", key)
			report.Dropped++
			continue
		}
		entry, kind, err := decodeEntry(value, dailyGoal)
		if err != nil {
			logger.Warn("unrecognized ledger entry, resetting day", "day", key, "error", err)
			report.Emptied++
			ledger[key] = Entry{}
			continue
		}
		if kind == kindLegacy {
			report.Migrated++
		} else {
			report.Current++
		}
		ledger[key] = entry
	}

	return ledger, report
}
