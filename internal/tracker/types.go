// Package tracker holds the daily-activity ledger: the entry store, the
// tracker preferences, the legacy-format migration and the export/import
// document.
package tracker

import (
	"fmt"
	"math"
)

// Keys under which the tracker persists its state. Every key shares KeyPrefix.
const (
	KeyPrefix = "io-tracker-"
	KeyData   = "io-tracker-data"
	KeyConfig = "io-tracker-config"
	KeyTheme  = "io-tracker-theme"
)

// MaxHours is the upper bound of hours recorded for a single day.
const MaxHours = 24

// Entry is the record for one calendar day.
type Entry struct {
	Hours  float64 `json:"hours"`
	Output bool    `json:"output"`
}

// IsZero reports whether e is indistinguishable from an absent entry.
func (e Entry) IsZero() bool { return e.Hours == 0 && !e.Output }

// Ledger maps day keys (YYYY-MM-DD) to entries.
type Ledger map[string]Entry

// Clone returns a copy of l that shares no state with it.
func (l Ledger) Clone() Ledger {
	c := make(Ledger, len(l))
	for k, v := range l {
		c[k] = v
	}
	return c
}

// ClampHours bounds h to [0, MaxHours].
func ClampHours(h float64) float64 {
	if math.IsNaN(h) {
		return 0
	}
	return math.Max(0, math.Min(MaxHours, h))
}

// ViewMode selects how the heatmap colors a day.
type ViewMode string

const (
	ViewGoal      ViewMode = "goal"
	ViewIntensity ViewMode = "intensity"
)

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool { return m == ViewGoal || m == ViewIntensity }

// Theme is an accent color identifier.
type Theme string

const (
	ThemeRed    Theme = "red"
	ThemeOrange Theme = "orange"
	ThemeAmber  Theme = "amber"
	ThemeGreen  Theme = "green"
	ThemeBlue   Theme = "blue"
	ThemeViolet Theme = "violet"
	ThemePink   Theme = "pink"
)

// ThemeInfo describes how a theme is presented.
type ThemeInfo struct {
	Label string
	Hex   string
}

// Themes lists every theme in cycling order.
var Themes = []Theme{ThemeRed, ThemeOrange, ThemeAmber, ThemeGreen, ThemeBlue, ThemeViolet, ThemePink}

var themeInfo = map[Theme]ThemeInfo{
	ThemeRed:    {Label: "Red", Hex: "#dc2626"},
	ThemeOrange: {Label: "Orange", Hex: "#ea580c"},
	ThemeAmber:  {Label: "Amber", Hex: "#d97706"},
	ThemeGreen:  {Label: "Green", Hex: "#059669"},
	ThemeBlue:   {Label: "Blue", Hex: "#2563eb"},
	ThemeViolet: {Label: "Violet", Hex: "#7c3aed"},
	ThemePink:   {Label: "Pink", Hex: "#db2777"},
}

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	_, ok := themeInfo[t]
	return ok
}

// Info returns the presentation of t, falling back to red for unknown themes.
func (t Theme) Info() ThemeInfo {
	if info, ok := themeInfo[t]; ok {
		return info
	}
	return themeInfo[ThemeRed]
}

// Next returns the theme after t in cycling order.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th == t {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// Default tracker preferences.
const (
	DefaultInputLabel  = "Deep Work"
	DefaultOutputLabel = "Publish Project"
	DefaultDailyGoal   = 2
	DefaultViewMode    = ViewGoal
	DefaultTheme       = ThemeRed
)

// Config is the set of user-tunable tracker preferences.
type Config struct {
	InputLabel  string   `json:"inputLabel"`
	OutputLabel string   `json:"outputLabel"`
	DailyGoal   float64  `json:"dailyGoal"`
	ViewMode    ViewMode `json:"viewMode"`
	Theme       Theme    `json:"theme"`
}

// DefaultConfig returns the preferences of a fresh tracker.
func DefaultConfig() Config {
	return Config{
		InputLabel:  DefaultInputLabel,
		OutputLabel: DefaultOutputLabel,
		DailyGoal:   DefaultDailyGoal,
		ViewMode:    DefaultViewMode,
		Theme:       DefaultTheme,
	}
}

// ConfigPatch is a partial Config; nil fields are left untouched.
type ConfigPatch struct {
	InputLabel  *string
	OutputLabel *string
	DailyGoal   *float64
	ViewMode    *ViewMode
	Theme       *Theme
}

// Validate checks every set field.
func (p ConfigPatch) Validate() error {
	if p.DailyGoal != nil && (!(*p.DailyGoal > 0) || math.IsInf(*p.DailyGoal, 0)) {
		return fmt.Errorf("dailyGoal %v: must be a positive number", *p.DailyGoal)
	}
	if p.ViewMode != nil && !p.ViewMode.Valid() {
		return fmt.Errorf("viewMode %q: want goal or intensity", *p.ViewMode)
	}
	if p.Theme != nil && !p.Theme.Valid() {
		return fmt.Errorf("theme %q: unknown theme", *p.Theme)
	}
	return nil
}

// Apply returns c with every set field of p copied over it.
func (p ConfigPatch) Apply(c Config) Config {
	if p.InputLabel != nil {
		c.InputLabel = *p.InputLabel
	}
	if p.OutputLabel != nil {
		c.OutputLabel = *p.OutputLabel
	}
	if p.DailyGoal != nil {
		c.DailyGoal = *p.DailyGoal
	}
	if p.ViewMode != nil {
		c.ViewMode = *p.ViewMode
	}
	if p.Theme != nil {
		c.Theme = *p.Theme
	}
	return c
}
