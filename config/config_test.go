package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFrom_PartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bpm": 150, "midiPort": "Synth"}`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 150.0, cfg.BPM)
	assert.Equal(t, "Synth", cfg.MidiPort)
	// Unset fields keep their defaults.
	assert.Equal(t, 16, cfg.TickMs)
	assert.Equal(t, uint8(1), cfg.MidiChannel)
	assert.Len(t, cfg.GateNotes, 12)
}

func TestLoadFrom_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 120.0, cfg.BPM)
	assert.Equal(t, 4.0, cfg.BeatsPerCycle)
	assert.Equal(t, 150, cfg.HighlightMs)
	assert.Empty(t, cfg.MidiPort)
	assert.False(t, cfg.Debug)
}
