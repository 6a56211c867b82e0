package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTripNoteFrequency(t *testing.T) {
	for n := 0; n <= 127; n++ {
		got := NoteFromFreq(FreqFromNote(float64(n)))
		assert.Equal(t, n, got, "note %d did not round-trip", n)
	}
}

func TestPitchBend14(t *testing.T) {
	e := Event{Message: PitchBend, Data1: 0x7F, Data2: 0x3F}
	assert.Equal(t, uint16(0x1FFF), e.PitchBend14())
}
