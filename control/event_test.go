package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStrings(t *testing.T) {
	assert.Equal(t, "gate(1)", Gate(0).String())
	assert.Equal(t, "gate(12)", Gate(11).String())
	assert.Equal(t, "sample(bd)", Sample("bd").String())
	assert.Equal(t, "note(60)", Note(60).String())

	tune, err := VoiceTune(0, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "tune(1,0.500)", tune.String())

	delay, err := DelayTime(1, 0.25)
	require.NoError(t, err)
	assert.Equal(t, "delay(2,0.250)", delay.String())

	lfo, err := LfoFreq(2, 3.5)
	require.NoError(t, err)
	assert.Equal(t, "lfo(3,3.500)", lfo.String())
}

func TestConstructorRanges(t *testing.T) {
	_, err := VoiceTune(0, -0.1)
	assert.Error(t, err)
	_, err = VoiceTune(0, 1.1)
	assert.Error(t, err)
	_, err = VoiceTune(0, 1)
	assert.NoError(t, err)

	_, err = DelayTime(0, 2)
	assert.Error(t, err)
	_, err = DelayTime(0, 0)
	assert.NoError(t, err)

	_, err = LfoFreq(0, -1)
	assert.Error(t, err)
	_, err = LfoFreq(0, 0)
	assert.NoError(t, err)
}

func TestConstructorIndexBounds(t *testing.T) {
	_, err := VoiceTune(NumVoices, 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range 1..12")
	_, err = VoiceTune(-1, 0.5)
	assert.Error(t, err)
	_, err = VoiceTune(NumVoices-1, 0.5)
	assert.NoError(t, err)

	_, err = DelayTime(NumDelays, 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range 1..8")
	_, err = DelayTime(NumDelays-1, 0.5)
	assert.NoError(t, err)

	_, err = LfoFreq(NumLfos, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range 1..8")
	_, err = LfoFreq(NumLfos-1, 1)
	assert.NoError(t, err)
}
