// Package oscillator implements the five OscillatorCore variants: classic
// wavetable, morphing wavetable, Fourier wavetable, FM operator, and the
// Karplus-Strong plucked-string core, plus PCM sample playback. Each
// implements the common Core contract so a voice can hold a core behind
// an interface without deep inheritance.
package oscillator

import "math"

// Core is the common contract every oscillator variant implements,
// mirroring the Module trait described for the engine generally.
type Core interface {
	Reset(sampleRate float64)
	NoteOn(noteNumber, velocity uint8)
	NoteOff()
	// Render writes `frames` stereo samples into outL/outR starting at
	// index 0, given the voice's current pitch in Hz.
	Render(outL, outR []float64, frames int, freqHz float64)
}

// PanStereo applies equal-power panning to a mono signal.
func PanStereo(mono, pan float64) (float64, float64) {
	angle := (pan + 1) * 0.25 * math.Pi
	return mono * math.Cos(angle), mono * math.Sin(angle)
}
