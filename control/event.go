// Package control defines the closed set of control events the pattern
// engine emits. Consumers switch on Kind exhaustively; growing the set
// means adding a Kind plus a notation rule, never reshaping existing
// variants.
package control

import "fmt"

// NumVoices is the number of addressable synth voices.
const NumVoices = 12

// NumDelays and NumLfos bound the delay-line and LFO indices the
// notation can address.
const (
	NumDelays = 8
	NumLfos   = 8
)

// Kind identifies the event variant.
type Kind uint8

const (
	KindGate Kind = iota
	KindSample
	KindNote
	KindVoiceTune
	KindDelayTime
	KindLfoFreq
)

// Event is a control payload. Which fields are meaningful depends on
// Kind (a flat struct standing in for a tagged union):
//
//	KindGate      Voice
//	KindSample    Name
//	KindNote      Note
//	KindVoiceTune Voice, Value (0..1)
//	KindDelayTime Index, Value (0..1)
//	KindLfoFreq   Index, Value (Hz)
type Event struct {
	Kind  Kind
	Voice int
	Name  string
	Note  int
	Index int
	Value float64
}

// Gate triggers voice (0-based, 0..NumVoices-1).
func Gate(voice int) Event {
	return Event{Kind: KindGate, Voice: voice}
}

// Sample triggers the named sample.
func Sample(name string) Event {
	return Event{Kind: KindSample, Name: name}
}

// Note plays a MIDI note number.
func Note(midi int) Event {
	return Event{Kind: KindNote, Note: midi}
}

// VoiceTune sets a voice's tuning, value in 0..1. voice is 0-based;
// errors report the 1-based range users write.
func VoiceTune(voice int, value float64) (Event, error) {
	if voice < 0 || voice >= NumVoices {
		return Event{}, fmt.Errorf("tune voice %d out of range 1..%d", voice+1, NumVoices)
	}
	if value < 0 || value > 1 {
		return Event{}, fmt.Errorf("tune value %g out of range 0..1", value)
	}
	return Event{Kind: KindVoiceTune, Voice: voice, Value: value}, nil
}

// DelayTime sets a delay line's time, value in 0..1.
func DelayTime(index int, value float64) (Event, error) {
	if index < 0 || index >= NumDelays {
		return Event{}, fmt.Errorf("delay %d out of range 1..%d", index+1, NumDelays)
	}
	if value < 0 || value > 1 {
		return Event{}, fmt.Errorf("delay value %g out of range 0..1", value)
	}
	return Event{Kind: KindDelayTime, Index: index, Value: value}, nil
}

// LfoFreq sets an LFO's frequency in Hz.
func LfoFreq(index int, hz float64) (Event, error) {
	if index < 0 || index >= NumLfos {
		return Event{}, fmt.Errorf("lfo %d out of range 1..%d", index+1, NumLfos)
	}
	if hz < 0 {
		return Event{}, fmt.Errorf("lfo frequency %g must be >= 0", hz)
	}
	return Event{Kind: KindLfoFreq, Index: index, Value: hz}, nil
}

func (e Event) String() string {
	switch e.Kind {
	case KindGate:
		return fmt.Sprintf("gate(%d)", e.Voice+1)
	case KindSample:
		return fmt.Sprintf("sample(%s)", e.Name)
	case KindNote:
		return fmt.Sprintf("note(%d)", e.Note)
	case KindVoiceTune:
		return fmt.Sprintf("tune(%d,%.3f)", e.Voice+1, e.Value)
	case KindDelayTime:
		return fmt.Sprintf("delay(%d,%.3f)", e.Index+1, e.Value)
	case KindLfoFreq:
		return fmt.Sprintf("lfo(%d,%.3f)", e.Index+1, e.Value)
	}
	return fmt.Sprintf("event(kind=%d)", e.Kind)
}
