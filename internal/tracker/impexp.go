package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/runnerr0/iotracker/internal/day"
)

// ExportVersion is the document version written by Export.
const ExportVersion = 1

// timestampFormat matches JavaScript's Date.prototype.toISOString.
const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// ErrInvalidImport is returned for a document that fails structural
// validation. Nothing is written when it is returned.
var ErrInvalidImport = errors.New("invalid import document")

// ExportDocument is the portable snapshot of a tracker.
type ExportDocument struct {
	Version   int    `json:"version"`
	Timestamp string `json:"timestamp"`
	Config    Config `json:"config"`
	Data      Ledger `json:"data"`
}

// Export serializes the current state as an indented ExportDocument.
func (t *Tracker) Export() (string, error) {
	t.mu.RLock()
	doc := ExportDocument{
		Version:   ExportVersion,
		Timestamp: t.now().UTC().Format(timestampFormat),
		Config:    t.config,
		Data:      t.ledger.Clone(),
	}
	t.mu.RUnlock()

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}
	return string(out), nil
}

// Import replaces the tracker state with the document in text and reports
// whether it was accepted. See ImportDocument.
func (t *Tracker) Import(ctx context.Context, text string) bool {
	if err := t.ImportDocument(ctx, text); err != nil {
		t.logger.Error("import failed", "error", err)
		return false
	}
	return true
}

// ImportDocument validates text as an export document and, when valid,
// merges its config over the current preferences and replaces the ledger
// wholesale. It is all or nothing: on error no state changes in memory,
// and blobs already written are restored to their previous values.
func (t *Tracker) ImportDocument(ctx context.Context, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cfg, ledger, err := t.prepareImport(text)
	if err != nil {
		return err
	}

	err = t.atomically(ctx, func() error {
		if err := t.writeLedger(ctx, ledger); err != nil {
			return err
		}
		return t.writeConfig(ctx, cfg)
	}, KeyData, KeyConfig, KeyTheme)
	if err != nil {
		return err
	}
	t.ledger = ledger
	t.config = cfg
	t.audit(ctx, "import", fmt.Sprintf("entries=%d", len(ledger)))
	return nil
}

// Diff returns a unified diff between the current state and the state an
// import of text would produce. Timestamps are left out of both sides.
func (t *Tracker) Diff(text string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cfg, ledger, err := t.prepareImport(text)
	if err != nil {
		return "", err
	}

	before, err := snapshot(t.config, t.ledger)
	if err != nil {
		return "", err
	}
	after, err := snapshot(cfg, ledger)
	if err != nil {
		return "", err
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "current",
		ToFile:   "import",
		Context:  3,
	})
}

func snapshot(c Config, l Ledger) (string, error) {
	out, err := json.MarshalIndent(struct {
		Config Config `json:"config"`
		Data   Ledger `json:"data"`
	}{c, l}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(out) + "\n", nil
}

// prepareImport validates text and computes the resulting config and
// ledger without touching the tracker. Callers hold t.mu.
func (t *Tracker) prepareImport(text string) (Config, Ledger, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return Config{}, nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	if raw, ok := doc["version"]; ok && !isNull(raw) {
		var version float64
		if err := json.Unmarshal(raw, &version); err == nil && version > ExportVersion {
			return Config{}, nil, fmt.Errorf("%w: unsupported version %v", ErrInvalidImport, version)
		}
	}

	configFields, err := object(doc, "config")
	if err != nil {
		return Config{}, nil, err
	}
	dataFields, err := object(doc, "data")
	if err != nil {
		return Config{}, nil, err
	}

	var missing []string
	for _, k := range requiredConfigKeys {
		if raw, ok := configFields[k]; !ok || isNull(raw) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return Config{}, nil, fmt.Errorf("%w: config missing %s", ErrInvalidImport, strings.Join(missing, ", "))
	}

	patch, err := decodeConfigFields(configFields)
	if err != nil {
		return Config{}, nil, fmt.Errorf("%w: config: %v", ErrInvalidImport, err)
	}
	cfg := patch.Apply(t.config)

	ledger := make(Ledger, len(dataFields))
	for key, raw := range dataFields {
		if !day.ValidKey(key) {
			return Config{}, nil, fmt.Errorf("%w: data key %q is not a YYYY-MM-DD day", ErrInvalidImport, key)
		}
		entry, _, err := decodeEntry(raw, cfg.DailyGoal)
		if err != nil {
			return Config{}, nil, fmt.Errorf("%w: data %s: %v", ErrInvalidImport, key, err)
		}
		entry.Hours = ClampHours(entry.Hours)
		ledger[key] = entry
	}

	return cfg, ledger, nil
}

// object returns the named member of doc as a JSON object.
func object(doc map[string]json.RawMessage, name string) (map[string]json.RawMessage, error) {
	raw, ok := doc[name]
	if !ok || isNull(raw) {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidImport, name)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %s is not an object", ErrInvalidImport, name)
	}
	return fields, nil
}

// Now returns the tracker's notion of the current time.
func (t *Tracker) Now() time.Time { return t.now() }
