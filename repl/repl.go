// Package repl interprets the line-oriented command surface: slot
// assignments (`d1 $ 1 2 3 4`), one-shots (`once $ tune1 "..."`
// style commands without the quotes), `hush` and transport lines.
package repl

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go-cycles/control"
	"go-cycles/debug"
	"go-cycles/notation"
	"go-cycles/scheduler"
)

// slotNames are the pattern lanes the interpreter accepts.
var slotNames = map[string]bool{
	"d1": true, "d2": true, "d3": true, "d4": true,
	"d5": true, "d6": true, "d7": true, "d8": true,
}

// Interp evaluates REPL lines against a scheduler. A failed parse
// leaves the slot's previous pattern playing.
type Interp struct {
	sched *scheduler.Scheduler

	mu    sync.Mutex
	texts map[string]string // last successfully bound source per slot
}

// New creates an interpreter driving sched.
func New(sched *scheduler.Scheduler) *Interp {
	return &Interp{
		sched: sched,
		texts: make(map[string]string),
	}
}

// Eval interprets one line and returns a human-readable result. The
// error carries the parse failure message verbatim; on error nothing
// has changed.
//
// Only lines without a "$" fall back to the whole-line gate parse on
// d1. A "$" assignment to an unknown name is an error, so a slot typo
// (`d9 $ ...`) cannot silently rebind d1.
func (in *Interp) Eval(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}

	switch line {
	case "hush":
		in.sched.Hush()
		in.mu.Lock()
		in.texts = make(map[string]string)
		in.mu.Unlock()
		return "hushed", nil
	case "play":
		in.sched.Play()
		return "playing", nil
	case "stop":
		in.sched.Stop()
		return "stopped", nil
	}

	if rest, ok := strings.CutPrefix(line, "bpm "); ok {
		bpm, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
		if err != nil || bpm <= 0 {
			return "", fmt.Errorf("bpm wants a positive number, got %q", rest)
		}
		in.sched.SetBPM(bpm)
		return fmt.Sprintf("bpm %g", bpm), nil
	}

	if name, text, ok := splitAssignment(line); ok {
		if name == "once" {
			pat, err := ParsePattern(text)
			if err != nil {
				return "", err
			}
			in.sched.Once(pat)
			return "once: " + text, nil
		}
		if slotNames[name] {
			pat, err := ParsePattern(text)
			if err != nil {
				return "", err
			}
			in.sched.SetSlot(name, pat)
			in.mu.Lock()
			in.texts[name] = text
			in.mu.Unlock()
			debug.Log("repl", "%s <- %q", name, text)
			return name + " <- " + text, nil
		}
		return "", fmt.Errorf("unknown slot %q (want d1..d8 or once)", name)
	}

	// No recognized prefix: treat the whole line as a gate pattern
	// bound to d1.
	pat, err := notation.ParseGates(line)
	if err != nil {
		return "", err
	}
	in.sched.SetSlot("d1", pat)
	in.mu.Lock()
	in.texts["d1"] = line
	in.mu.Unlock()
	return "d1 <- " + line, nil
}

// Texts returns the last successfully bound source text per slot, for
// display.
func (in *Interp) Texts() map[string]string {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make(map[string]string, len(in.texts))
	for k, v := range in.texts {
		out[k] = v
	}
	return out
}

// splitAssignment splits "d1 $ 1 2 3" into ("d1", "1 2 3").
func splitAssignment(line string) (name, text string, ok bool) {
	left, right, found := strings.Cut(line, "$")
	if !found {
		return "", "", false
	}
	name = strings.TrimSpace(left)
	text = strings.TrimSpace(right)
	if name == "" || strings.ContainsAny(name, " \t") {
		return "", "", false
	}
	return name, text, true
}

// ParsePattern parses pattern text with an optional leading context
// keyword: `sound`/`s` for samples, `note`/`n` for note names,
// `tune<i>`, `delay<i>`, `lfo<i>` for the float-valued controls. Bare
// text parses as gates.
func ParsePattern(text string) (notation.Pat, error) {
	head, rest, _ := strings.Cut(text, " ")
	rest = strings.TrimSpace(rest)

	switch head {
	case "s", "sound":
		if rest == "" {
			return notation.Pat{}, fmt.Errorf("%s needs a pattern", head)
		}
		return notation.ParseSounds(rest)
	case "n", "note":
		if rest == "" {
			return notation.Pat{}, fmt.Errorf("%s needs a pattern", head)
		}
		return notation.ParseNotes(rest)
	}

	if ctor, ok := floatCtor(head); ok {
		if rest == "" {
			return notation.Pat{}, fmt.Errorf("%s needs a pattern", head)
		}
		return notation.ParseFloats(rest, ctor)
	}

	return notation.ParseGates(text)
}

// floatCtor resolves `tune<i>`, `delay<i>` and `lfo<i>` keywords to
// the matching event constructor. Indices are 1-based in the notation.
func floatCtor(head string) (func(float64) (control.Event, error), bool) {
	for prefix, build := range map[string]func(int) func(float64) (control.Event, error){
		"tune": func(i int) func(float64) (control.Event, error) {
			return func(v float64) (control.Event, error) { return control.VoiceTune(i, v) }
		},
		"delay": func(i int) func(float64) (control.Event, error) {
			return func(v float64) (control.Event, error) { return control.DelayTime(i, v) }
		},
		"lfo": func(i int) func(float64) (control.Event, error) {
			return func(v float64) (control.Event, error) { return control.LfoFreq(i, v) }
		},
	} {
		if digits, ok := strings.CutPrefix(head, prefix); ok && digits != "" {
			n, err := strconv.Atoi(digits)
			if err != nil || n < 1 {
				return nil, false
			}
			return build(n - 1), true
		}
	}
	return nil, false
}
