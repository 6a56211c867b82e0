package voice

// SharedState is the single mutable MIDI record the engine owns and
// writes at the top of every block, read (never written) by every
// voice during render. No process-wide singleton: the voice manager
// constructs exactly one and hands every voice a pointer to it.
type SharedState struct {
	PitchBend14  uint16 // 14-bit unsigned, 8192 == center
	SustainPedal bool
	BPM          float64
}

// NewSharedState returns a record with pitch bend centered and no
// pedal held.
func NewSharedState() *SharedState {
	return &SharedState{PitchBend14: 8192, BPM: 120}
}

// PitchBendSemitones converts the 14-bit wheel position to a bipolar
// semitone offset given a wheel range.
func (s *SharedState) PitchBendSemitones(rangeSemitones float64) float64 {
	if s == nil {
		return 0
	}
	bend := float64(s.PitchBend14) - 8192
	return (bend / 8192.0) * rangeSemitones
}
