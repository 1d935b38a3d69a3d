// Package midiout is a reference consumer for the scheduler's event
// stream: it waits for each dispatch deadline and translates control
// events into MIDI messages. Anything that understands the control
// event union can replace it; the engine itself never waits on it.
package midiout

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-cycles/control"
	"go-cycles/debug"
	"go-cycles/scheduler"
)

// gateLen is how long triggered notes are held before note-off.
const gateLen = 80 * time.Millisecond

// CC numbers for the continuous controls. Voice/delay/LFO indices are
// added to the base.
const (
	ccTuneBase  = 20
	ccDelayBase = 40
	ccLfoBase   = 60
)

// lfoMaxHz is the frequency mapped to CC value 127.
const lfoMaxHz = 20.0

// wellKnown maps common sample names straight to GM percussion notes;
// anything else hashes to a stable note.
var wellKnown = map[string]uint8{
	"bd": 36, "sn": 38, "sd": 38, "hh": 42, "oh": 46,
	"lt": 41, "mt": 43, "ht": 45, "cr": 49, "rd": 51,
	"cp": 39, "cb": 56, "rs": 37,
}

// Output sends scheduler dispatches to a MIDI port.
type Output struct {
	portName  string
	channel   uint8 // 0-based wire channel
	gateNotes []uint8
	send      func(gomidi.Message) error
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// New creates an output for the named port. channel is 1-based as
// users write it. The port is opened lazily on first send.
func New(portName string, channel uint8, gateNotes []uint8) *Output {
	if channel < 1 {
		channel = 1
	}
	return &Output{
		portName:  portName,
		channel:   channel - 1,
		gateNotes: gateNotes,
		stopChan:  make(chan struct{}),
	}
}

// Run consumes dispatches until the channel closes or Stop is called.
// Each event waits out its deadline on a timer, then goes to the wire.
func (o *Output) Run(events <-chan scheduler.Dispatch) {
	for {
		select {
		case <-o.stopChan:
			return
		case d, ok := <-events:
			if !ok {
				return
			}
			if wait := time.Until(d.At); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-o.stopChan:
					timer.Stop()
					return
				case <-timer.C:
				}
			}
			if err := o.apply(d.Event); err != nil {
				debug.Log("midi", "send failed: %v", err)
			}
		}
	}
}

// Stop ends Run and releases MIDI resources. Safe to call more than
// once.
func (o *Output) Stop() {
	o.stopOnce.Do(func() {
		close(o.stopChan)
		gomidi.CloseDriver()
	})
}

// sender finds and opens the configured port on first use.
func (o *Output) sender() (func(gomidi.Message) error, error) {
	if o.send != nil {
		return o.send, nil
	}
	for _, port := range gomidi.GetOutPorts() {
		if port.String() == o.portName {
			send, err := gomidi.SendTo(port)
			if err != nil {
				return nil, err
			}
			o.send = send
			return send, nil
		}
	}
	return nil, fmt.Errorf("midi port %q not found", o.portName)
}

// apply translates one control event into MIDI messages and sends
// them. The switch is exhaustive over the event union.
func (o *Output) apply(e control.Event) error {
	send, err := o.sender()
	if err != nil {
		return err
	}
	for _, msg := range o.translate(e) {
		if err := send(msg); err != nil {
			return err
		}
	}
	switch e.Kind {
	case control.KindGate, control.KindSample, control.KindNote:
		note := o.noteFor(e)
		go func() {
			time.Sleep(gateLen)
			send(gomidi.NoteOff(o.channel, note))
		}()
	}
	return nil
}

// translate maps an event to its on-wire messages. Pure, so it is
// testable without a port.
func (o *Output) translate(e control.Event) []gomidi.Message {
	switch e.Kind {
	case control.KindGate, control.KindSample, control.KindNote:
		return []gomidi.Message{gomidi.NoteOn(o.channel, o.noteFor(e), 100)}
	case control.KindVoiceTune:
		return []gomidi.Message{gomidi.ControlChange(o.channel, uint8(ccTuneBase+e.Voice), ccValue(e.Value))}
	case control.KindDelayTime:
		return []gomidi.Message{gomidi.ControlChange(o.channel, uint8(ccDelayBase+e.Index), ccValue(e.Value))}
	case control.KindLfoFreq:
		return []gomidi.Message{gomidi.ControlChange(o.channel, uint8(ccLfoBase+e.Index), ccValue(e.Value/lfoMaxHz))}
	}
	return nil
}

// noteFor picks the MIDI note an event triggers.
func (o *Output) noteFor(e control.Event) uint8 {
	switch e.Kind {
	case control.KindGate:
		if e.Voice >= 0 && e.Voice < len(o.gateNotes) {
			return o.gateNotes[e.Voice]
		}
		return 36
	case control.KindNote:
		return uint8(clampInt(e.Note, 0, 127))
	case control.KindSample:
		if n, ok := wellKnown[e.Name]; ok {
			return n
		}
		h := fnv.New32a()
		h.Write([]byte(e.Name))
		return uint8(h.Sum32() % 128)
	}
	return 0
}

// ccValue scales 0..1 to 0..127, clamping out-of-range input.
func ccValue(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v*127 + 0.5)
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
