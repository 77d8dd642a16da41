package config

// DefaultTargetYear is the calendar year tracked when none is configured.
const DefaultTargetYear = 2026

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Tracker: TrackerConfig{
			TargetYear: DefaultTargetYear,
		},
		Storage: StorageConfig{
			Backend:           "sqlite",
			Path:              "~/.config/iotracker",
			SQLiteFile:        "iotracker.db",
			JSONFile:          "iotracker.json",
			SQLiteJournalMode: "wal",
		},
		Logging: LoggingConfig{
			Level: "warn",
			File:  "",
		},
	}
}
