package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Required keys of an imported config object.
var requiredConfigKeys = []string{"inputLabel", "outputLabel", "dailyGoal"}

// decodeConfigFields decodes each known field of a JSON object on its own,
// so one malformed field does not discard the others. Null fields count as
// absent. Fields that fail to decode or validate are left out of the patch
// and reported in the joined error.
func decodeConfigFields(fields map[string]json.RawMessage) (ConfigPatch, error) {
	var errs []error
	p := ConfigPatch{
		InputLabel:  decodeField[string](fields, "inputLabel", &errs),
		OutputLabel: decodeField[string](fields, "outputLabel", &errs),
		DailyGoal:   decodeField[float64](fields, "dailyGoal", &errs),
		ViewMode:    decodeField[ViewMode](fields, "viewMode", &errs),
		Theme:       decodeField[Theme](fields, "theme", &errs),
	}

	if err := (ConfigPatch{DailyGoal: p.DailyGoal}).Validate(); err != nil {
		errs = append(errs, err)
		p.DailyGoal = nil
	}
	if err := (ConfigPatch{ViewMode: p.ViewMode}).Validate(); err != nil {
		errs = append(errs, err)
		p.ViewMode = nil
	}
	if err := (ConfigPatch{Theme: p.Theme}).Validate(); err != nil {
		errs = append(errs, err)
		p.Theme = nil
	}

	return p, errors.Join(errs...)
}

func decodeField[T any](fields map[string]json.RawMessage, name string, errs *[]error) *T {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", name, err))
		return nil
	}
	return &v
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// loadConfig builds a fully populated Config from the persisted config and
// theme blobs. Anything missing or unreadable falls back to its default.
// The standalone theme blob wins over the theme inside the config blob.
func loadConfig(configBlob string, hasConfig bool, themeBlob string, hasTheme bool, logger *slog.Logger) Config {
	cfg := DefaultConfig()

	if hasConfig {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(configBlob), &fields); err != nil {
			logger.Warn("stored config unreadable, using defaults", "key", KeyConfig, "error", err)
		} else {
			patch, err := decodeConfigFields(fields)
			if err != nil {
				logger.Warn("stored config has invalid fields, using defaults for them", "key", KeyConfig, "error", err)
			}
			cfg = patch.Apply(cfg)
		}
	}

	if hasTheme {
		if theme := Theme(themeBlob); theme.Valid() {
			cfg.Theme = theme
		} else {
			logger.Warn("stored theme unknown, ignoring", "key", KeyTheme, "theme", themeBlob)
		}
	}

	return cfg
}
