// Package dca implements the velocity + modulator-gated stereo VCA that
// every voice routes its filtered mix through before writing to its
// output buffer.
package dca

import "math"

// DCA applies velocity scaling, an envelope/modulator gate, and
// equal-power panning to a mono-summed or stereo input.
type DCA struct {
	VelocityAmp float64 // how strongly velocity scales gain, 0..1
	BaseGain    float64 // floor gain applied regardless of velocity

	velocity01 float64
}

// NoteOn latches the velocity scalar used for the life of the note.
func (d *DCA) NoteOn(velocity uint8) {
	d.velocity01 = float64(velocity) / 127.0
}

// Process returns the (left, right) output for one sample given a mono
// input, an envelope/modulator gate in [0,1], and a bipolar pan in
// [-1,+1].
func (d *DCA) Process(in, egGate, pan float64) (float64, float64) {
	gain := d.BaseGain + d.velocity01*d.VelocityAmp
	out := in * gain * egGate

	angle := (pan + 1) * math.Pi / 4 // maps [-1,1] -> [0, pi/2]
	l := out * math.Cos(angle)
	r := out * math.Sin(angle)
	return l, r
}

// ProcessStereo is the stereo-input variant (used when an oscillator
// core already produces a stereo pair, e.g. a pre-panned wave
// sequencer crossfade).
func (d *DCA) ProcessStereo(inL, inR, egGate, pan float64) (float64, float64) {
	gain := d.BaseGain + d.velocity01*d.VelocityAmp
	angle := (pan + 1) * math.Pi / 4
	l := inL * gain * egGate * math.Cos(angle)
	r := inR * gain * egGate * math.Sin(angle)
	return l, r
}
