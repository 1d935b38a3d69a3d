package notation

import (
	"fmt"
	"strconv"
)

// semitone offsets of the natural notes within an octave.
var naturals = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

// defaultOctave applies when a note name carries no octave digit.
const defaultOctave = 4

// parseNoteName converts a note token to a MIDI note number.
// Form: letter, accidentals, optional octave digit. Sharps are '#' or
// 's'; flats are a trailing 'b' or '-'. Both flat spellings land on
// the same MIDI value: eb3 == e-3 == 51. midi = semitone + 12*(oct+1).
func parseNoteName(word string) (int, error) {
	if word == "" {
		return 0, fmt.Errorf("empty note name")
	}
	c := lower(word[0])
	semi, ok := naturals[c]
	if !ok {
		// Bare integers are accepted as raw MIDI note numbers.
		if n, err := strconv.Atoi(word); err == nil {
			if n < 0 || n > 127 {
				return 0, fmt.Errorf("midi note %d out of range 0..127", n)
			}
			return n, nil
		}
		return 0, fmt.Errorf("unknown note name %q", word)
	}
	oct := defaultOctave
	i := 1
	for i < len(word) {
		switch lower(word[i]) {
		case '#', 's':
			semi++
			i++
			continue
		case 'b', '-':
			semi--
			i++
			continue
		}
		break
	}
	if i < len(word) {
		n, err := strconv.Atoi(word[i:])
		if err != nil {
			return 0, fmt.Errorf("unknown note name %q", word)
		}
		oct = n
	}
	midi := semi + 12*(oct+1)
	if midi < 0 || midi > 127 {
		return 0, fmt.Errorf("note %q is outside the MIDI range", word)
	}
	return midi, nil
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
