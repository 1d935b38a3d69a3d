// Package config persists user preferences as JSON under
// ~/.config/go-cycles.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the main configuration structure.
type Config struct {
	BPM           float64 `json:"bpm,omitempty"`
	BeatsPerCycle float64 `json:"beatsPerCycle,omitempty"`
	TickMs        int     `json:"tickMs,omitempty"`
	HighlightMs   int     `json:"highlightMs,omitempty"`
	MidiPort      string  `json:"midiPort,omitempty"`
	MidiChannel   uint8   `json:"midiChannel,omitempty"`
	GateNotes     []uint8 `json:"gateNotes,omitempty"` // MIDI note per gate voice
	Debug         bool    `json:"debug,omitempty"`
}

// Default returns a config with sensible defaults: 120bpm, 4 beats per
// cycle, 16ms control rate, GM percussion notes for the 12 gate voices.
func Default() *Config {
	return &Config{
		BPM:           120,
		BeatsPerCycle: 4,
		TickMs:        16,
		HighlightMs:   150,
		MidiChannel:   1,
		GateNotes: []uint8{
			36, 38, 42, 46, 41, 43, 45, 49, 51, 39, 56, 37,
		},
	}
}

// Dir returns the config directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-cycles"), nil
}

// Path returns the full path to config.json.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path, or returns defaults if
// the file doesn't exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file, filling unset fields with defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := Path()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
