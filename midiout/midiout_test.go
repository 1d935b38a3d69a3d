package midiout

import (
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cycles/control"
)

func testOutput() *Output {
	return New("test", 1, []uint8{36, 38, 42, 46, 41, 43, 45, 49, 51, 39, 56, 37})
}

func TestTranslate_Gate(t *testing.T) {
	o := testOutput()

	msgs := o.translate(control.Gate(0))
	require.Len(t, msgs, 1)
	assert.Equal(t, gomidi.NoteOn(0, 36, 100), msgs[0])

	msgs = o.translate(control.Gate(2))
	require.Len(t, msgs, 1)
	assert.Equal(t, gomidi.NoteOn(0, 42, 100), msgs[0])
}

func TestTranslate_Note(t *testing.T) {
	o := testOutput()

	msgs := o.translate(control.Note(64))
	require.Len(t, msgs, 1)
	assert.Equal(t, gomidi.NoteOn(0, 64, 100), msgs[0])
}

func TestTranslate_Controls(t *testing.T) {
	o := testOutput()

	tune, err := control.VoiceTune(2, 0.5)
	require.NoError(t, err)
	msgs := o.translate(tune)
	require.Len(t, msgs, 1)
	assert.Equal(t, gomidi.ControlChange(0, ccTuneBase+2, 64), msgs[0])

	delay, err := control.DelayTime(1, 1)
	require.NoError(t, err)
	msgs = o.translate(delay)
	require.Len(t, msgs, 1)
	assert.Equal(t, gomidi.ControlChange(0, ccDelayBase+1, 127), msgs[0])

	lfo, err := control.LfoFreq(0, 10)
	require.NoError(t, err)
	msgs = o.translate(lfo)
	require.Len(t, msgs, 1)
	// 10Hz is half of the 20Hz CC range.
	assert.Equal(t, gomidi.ControlChange(0, ccLfoBase, 64), msgs[0])
}

func TestChannelMapping(t *testing.T) {
	o := New("test", 10, nil)
	msgs := o.translate(control.Note(60))
	require.Len(t, msgs, 1)
	// 1-based user channel 10 is wire channel 9.
	assert.Equal(t, gomidi.NoteOn(9, 60, 100), msgs[0])
}

func TestNoteFor(t *testing.T) {
	o := testOutput()

	assert.Equal(t, uint8(36), o.noteFor(control.Gate(0)))
	assert.Equal(t, uint8(37), o.noteFor(control.Gate(11)))
	// Out-of-table voices fall back to the bass drum.
	assert.Equal(t, uint8(36), o.noteFor(control.Gate(99)))

	// Note numbers clamp into MIDI range.
	assert.Equal(t, uint8(127), o.noteFor(control.Note(300)))
	assert.Equal(t, uint8(0), o.noteFor(control.Note(-5)))

	// Known sample names map to GM percussion.
	assert.Equal(t, uint8(36), o.noteFor(control.Sample("bd")))
	assert.Equal(t, uint8(38), o.noteFor(control.Sample("sn")))

	// Unknown names hash to a stable note.
	first := o.noteFor(control.Sample("weird"))
	assert.Equal(t, first, o.noteFor(control.Sample("weird")))
	assert.Less(t, first, uint8(128))
}

func TestStop_Idempotent(t *testing.T) {
	o := testOutput()
	assert.NotPanics(t, func() {
		o.Stop()
		o.Stop()
	})
}

func TestCcValue(t *testing.T) {
	assert.Equal(t, uint8(0), ccValue(0))
	assert.Equal(t, uint8(64), ccValue(0.5))
	assert.Equal(t, uint8(127), ccValue(1))
	assert.Equal(t, uint8(0), ccValue(-1))
	assert.Equal(t, uint8(127), ccValue(2))
}
