package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// ── App settings ─────────────────────────────────────────────

// AppSettings holds persistent user preferences. The roms root saved here is
// loaded at startup, replaced when the user picks a new folder, and written
// back immediately on change.
type AppSettings struct {
	// RootDir is the last-used ROM root directory.
	RootDir string `json:"root_dir"`
	// ArtworkFormat is the encoding used for pasted artwork: "png" or "jpg".
	ArtworkFormat string `json:"artwork_format"`
}

func defaultSettings() AppSettings {
	return AppSettings{ArtworkFormat: "png"}
}

// getSettingsPath returns the path to the settings JSON file.
func getSettingsPath() string {
	return filepath.Join(getUserdataDir(), "boxart_settings.json")
}

// getUserdataDir returns the per-platform .userdata directory.
func getUserdataDir() string {
	sdcard := os.Getenv("SDCARD_PATH")
	if sdcard == "" {
		if platform == PlatformMac {
			cwd, _ := os.Getwd()
			sdcard = filepath.Join(cwd, "mock_sdcard")
		} else {
			sdcard = sdcardPath
		}
	}
	return filepath.Join(sdcard, ".userdata", string(platform))
}

// loadSettings reads settings from disk. Returns defaults on any error (missing file, parse error).
func loadSettings() AppSettings {
	defaults := defaultSettings()
	data, err := os.ReadFile(getSettingsPath())
	if err != nil {
		return defaults
	}
	var s AppSettings
	if err := json.Unmarshal(data, &s); err != nil {
		log.Printf("loadSettings: parse error: %v", err)
		return defaults
	}
	if s.ArtworkFormat != "png" && s.ArtworkFormat != "jpg" {
		s.ArtworkFormat = defaults.ArtworkFormat
	}
	return s
}

// saveSettings persists settings to disk.
func saveSettings(s AppSettings) error {
	path := getSettingsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
