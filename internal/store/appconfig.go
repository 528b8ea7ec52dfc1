package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// ConfigFile is the user settings file name inside the data directory.
const ConfigFile = "config.json"

// Hotkeys holds the global hotkey bindings the UI layer registers.
type Hotkeys struct {
	ToggleOverlay string `json:"toggleOverlay"`
	NewNote       string `json:"newNote"`
	Search        string `json:"search"`
	Archive       string `json:"archive"`
}

// AppConfig is the process-wide user settings document: loaded once at
// startup, merged with any on-disk override, written back whenever changed.
type AppConfig struct {
	DataPath        string  `json:"dataPath"`
	Hotkeys         Hotkeys `json:"hotkeys"`
	ConfirmDelete   bool    `json:"confirmDelete"`
	CheckForUpdates bool    `json:"checkForUpdates"`
}

// DefaultAppConfig returns the built-in settings.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Hotkeys: Hotkeys{
			ToggleOverlay: "Alt+Q",
			NewNote:       "Ctrl+Shift+N",
			Search:        "Ctrl+F",
			Archive:       "Ctrl+Shift+A",
		},
		ConfirmDelete:   true,
		CheckForUpdates: true,
	}
}

// LoadAppConfig reads config.json over the defaults. A missing file yields
// the defaults; an unparseable file yields the defaults with a logged
// warning, never an error.
func (s *Store) LoadAppConfig(logger *slog.Logger) AppConfig {
	cfg := DefaultAppConfig()
	if !s.fs.Exists(ConfigFile) {
		return cfg
	}
	raw, err := s.fs.Read(ConfigFile)
	if err != nil {
		logger.Warn("store: read config failed", slog.String("error", err.Error()))
		return cfg
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		logger.Warn("store: parse config failed, using defaults", slog.String("error", err.Error()))
		return DefaultAppConfig()
	}
	return cfg
}

// SaveAppConfig writes the settings back as pretty JSON.
func (s *Store) SaveAppConfig(cfg AppConfig) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal config: %w", err)
	}
	return s.fs.Write(ConfigFile, raw)
}
