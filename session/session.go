// Package session loads and saves YAML session files: a tempo plus a
// set of slot assignments that can be applied to a scheduler in one
// step.
package session

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"go-cycles/notation"
	"go-cycles/repl"
	"go-cycles/scheduler"
)

// Session is the on-disk shape:
//
//	bpm: 140
//	slots:
//	  d1: "1 2 3 4"
//	  d2: sound "bd hh sn hh"
type Session struct {
	BPM   float64           `yaml:"bpm,omitempty"`
	Slots map[string]string `yaml:"slots"`
}

// Load reads a session file.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session %s: %w", path, err)
	}
	return &s, nil
}

// Save writes the session to disk.
func (s *Session) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Apply parses every slot first and only then binds them, so a bad
// pattern anywhere leaves the scheduler completely untouched.
func (s *Session) Apply(sched *scheduler.Scheduler) error {
	names := make([]string, 0, len(s.Slots))
	for name := range s.Slots {
		names = append(names, name)
	}
	sort.Strings(names)

	parsed := make(map[string]notation.Pat, len(names))
	for _, name := range names {
		pat, err := repl.ParsePattern(s.Slots[name])
		if err != nil {
			return fmt.Errorf("slot %s: %w", name, err)
		}
		parsed[name] = pat
	}

	if s.BPM > 0 {
		sched.SetBPM(s.BPM)
	}
	for _, name := range names {
		sched.SetSlot(name, parsed[name])
	}
	return nil
}
