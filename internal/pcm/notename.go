package pcm

import (
	"regexp"
	"strconv"
	"strings"
)

var noteNameRe = regexp.MustCompile(`(?i)([A-G])(#|b)?(-?\d)`)

var noteOffsets = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

// UnityNoteFromFilename parses a case-insensitive note name (C, C#/Db,
// ..., B) followed by an octave number out of a filename, applying the
// nominal +12 octave shift so "A4" resolves to MIDI 69. Returns
// (note, true) on success.
func UnityNoteFromFilename(name string) (int, bool) {
	m := noteNameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	letter := strings.ToUpper(m[1])
	base, ok := noteOffsets[letter]
	if !ok {
		return 0, false
	}
	switch m[2] {
	case "#":
		base++
	case "b", "B":
		base--
	}
	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, false
	}
	note := base + (octave+1)*12
	if note < 0 || note > 127 {
		return 0, false
	}
	return note, true
}

// majorScaleSteps is the C-major scale step pattern used by the
// Aubio-sliced filename convention.
var majorScaleSteps = []int{2, 2, 1, 2, 2, 2, 1}

// AubioSliceNote maps a slice index (parsed from a "_<N>.wav" filename
// suffix) to a MIDI note starting at 60 (C4) and advancing through the
// C-major scale.
func AubioSliceNote(sliceIndex int) int {
	note := 60
	if sliceIndex <= 0 {
		return note
	}
	for i := 0; i < sliceIndex; i++ {
		note += majorScaleSteps[i%len(majorScaleSteps)]
	}
	return note
}

var aubioSuffixRe = regexp.MustCompile(`_(\d+)\.wav$`)

// ParseAubioSliceIndex extracts N from a "..._<N>.wav" filename.
func ParseAubioSliceIndex(filename string) (int, bool) {
	m := aubioSuffixRe.FindStringSubmatch(strings.ToLower(filename))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
