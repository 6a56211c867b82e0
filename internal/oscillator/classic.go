package oscillator

import (
	"github.com/cbegin/polyvoice-go/internal/clock"
	"github.com/cbegin/polyvoice-go/internal/midi"
	"github.com/cbegin/polyvoice-go/internal/wavetable"
)

// Classic is the classic wavetable core: a 128-note band-limited table
// set, optional phase-distortion shaping, and an optional hard-sync
// slave clock.
type Classic struct {
	Set *wavetable.Set

	Shape       float64 // [-1,1] phase-distortion pivot
	HardSyncRatio float64 // 1.0 = off, up to 4.0
	Pan         float64

	clk     clock.SynthClock
	syncClk clock.SynthClock
	sampleRate float64
}

func (c *Classic) Reset(sampleRate float64) {
	c.sampleRate = sampleRate
	c.clk = *clock.NewSynthClock(sampleRate)
	c.syncClk = *clock.NewSynthClock(sampleRate)
}

func (c *Classic) NoteOn(noteNumber, velocity uint8) {
	c.clk.Reset()
	c.syncClk.Reset()
}

func (c *Classic) NoteOff() {}

func (c *Classic) Render(outL, outR []float64, frames int, freqHz float64) {
	if c.Set == nil {
		return
	}
	freqHz = clampFreq(freqHz)
	c.clk.SetFrequency(freqHz, c.sampleRate)

	ratio := c.HardSyncRatio
	if ratio < 1.0 {
		ratio = 1.0
	}
	syncing := ratio > 1.0
	if syncing {
		c.syncClk.SetFrequency(freqHz*ratio, c.sampleRate)
	}

	note := midi.NoteFromFreq(freqHz)
	tbl := c.Set.Selected(note)

	for i := 0; i < frames; i++ {
		phase := c.clk.Phase
		if c.Shape != 0 {
			phase = distortPhase(phase, c.Shape)
		}

		var sample float64
		if tbl != nil {
			sample = tbl.Read(phase)
		}

		if syncing {
			if c.syncClk.AdvanceWrapClock() {
				c.clk.SetPhase(0)
			}
		}

		c.clk.AdvanceWrapClock()

		l, r := PanStereo(sample, c.Pan)
		outL[i] = l
		outR[i] = r
	}
}

func clampFreq(f float64) float64 {
	if f < 8.176 {
		return 8.176
	}
	if f > 20000 {
		return 20000
	}
	return f
}

// distortPhase remaps phase around a pivot controlled by shape in
// [-1,1], a piecewise-linear phase-distortion technique.
func distortPhase(phase, shape float64) float64 {
	pivot := 0.5 + shape*0.49
	if pivot <= 0 || pivot >= 1 {
		return phase
	}
	if phase < pivot {
		return phase / pivot * 0.5
	}
	return 0.5 + (phase-pivot)/(1-pivot)*0.5
}
