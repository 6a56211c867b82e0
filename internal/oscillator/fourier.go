package oscillator

import (
	"github.com/cbegin/polyvoice-go/internal/clock"
	"github.com/cbegin/polyvoice-go/internal/midi"
	"github.com/cbegin/polyvoice-go/internal/wavetable"
)

// Fourier is the additive/Fourier wavetable core: its table set is
// synthesized once at reset from a harmonic amplitude series, reusing
// Classic's pitch/table-selection logic.
type Fourier struct {
	Harmonics []float64
	TableLen  int
	Pan       float64

	set        *wavetable.Set
	builtAtSR  float64
	clk        clock.SynthClock
	sampleRate float64
}

func (f *Fourier) Reset(sampleRate float64) {
	f.sampleRate = sampleRate
	f.clk = *clock.NewSynthClock(sampleRate)
	f.rebuildIfNeeded()
}

func (f *Fourier) rebuildIfNeeded() {
	if f.set != nil && f.builtAtSR == f.sampleRate {
		return
	}
	length := f.TableLen
	if length == 0 {
		length = 2048
	}
	f.set = wavetable.FourierSet("fourier", f.sampleRate, length, f.Harmonics)
	f.builtAtSR = f.sampleRate
}

func (f *Fourier) NoteOn(noteNumber, velocity uint8) {
	f.clk.Reset()
	f.rebuildIfNeeded()
}

func (f *Fourier) NoteOff() {}

func (f *Fourier) Render(outL, outR []float64, frames int, freqHz float64) {
	if f.set == nil {
		return
	}
	freqHz = clampFreq(freqHz)
	f.clk.SetFrequency(freqHz, f.sampleRate)
	note := midi.NoteFromFreq(freqHz)
	tbl := f.set.Selected(note)

	for i := 0; i < frames; i++ {
		var sample float64
		if tbl != nil {
			sample = tbl.Read(f.clk.Phase)
		}
		f.clk.AdvanceWrapClock()
		l, r := PanStereo(sample, f.Pan)
		outL[i] = l
		outR[i] = r
	}
}
