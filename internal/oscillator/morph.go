package oscillator

import (
	"github.com/cbegin/polyvoice-go/internal/clock"
	"github.com/cbegin/polyvoice-go/internal/wavetable"
)

// Morph is the morphing wavetable core: crossfades across up to 16
// source tables in a bank, driven by a morph position derived from a
// start offset and a routed morph-mod value.
type Morph struct {
	Bank *wavetable.Bank

	MorphStart float64
	MorphMod   float64 // routed WaveMorphMod slot value, mixed with unique-mod
	UniqueMod  float64
	UniqueModDepth float64
	Pan        float64

	clk        clock.SynthClock
	sampleRate float64
}

func (m *Morph) Reset(sampleRate float64) {
	m.sampleRate = sampleRate
	m.clk = *clock.NewSynthClock(sampleRate)
}

func (m *Morph) NoteOn(noteNumber, velocity uint8) { m.clk.Reset() }
func (m *Morph) NoteOff()                          {}

func (m *Morph) Render(outL, outR []float64, frames int, freqHz float64) {
	if m.Bank == nil {
		return
	}
	freqHz = clampFreq(freqHz)
	m.clk.SetFrequency(freqHz, m.sampleRate)

	mix := m.MorphMod + m.UniqueMod*m.UniqueModDepth
	if mix < 0 {
		mix = 0
	}
	if mix > 1 {
		mix = 1
	}
	position := m.Bank.MorphPosition(m.MorphStart, mix)

	for i := 0; i < frames; i++ {
		sample := m.Bank.ReadMorphed(position, m.clk.Phase)
		m.clk.AdvanceWrapClock()
		l, r := PanStereo(sample, m.Pan)
		outL[i] = l
		outR[i] = r
	}
}
