package oscillator

import (
	"math"

	"github.com/cbegin/polyvoice-go/internal/clock"
	"github.com/cbegin/polyvoice-go/internal/envelope"
)

// FMOperator is one operator in an FM voice: a sine source, a pitch
// ratio relative to the carrier note, and an embedded DX-style
// envelope.
type FMOperator struct {
	Ratio    float64
	OutputLevel float64
	EG       envelope.ADSlSR

	clk clock.SynthClock
}

// FM is the FM operator core: up to four operators wired through one
// of eight DX-style algorithms, with self-feedback and inter-operator
// phase modulation. Render does not read PMIn_L/PMIn_R, so external
// phase-modulation buffers have no effect on the output.
type FM struct {
	Algorithm   int // 0..7
	Feedback    float64 // [0, 0.20]
	Operators   [4]FMOperator
	OperatorCount int
	Pan         float64

	PMIn_L, PMIn_R float64 // external phase-modulation inputs; not read by Render
	PMIndex        float64

	prevOut    float64
	sampleRate float64
}

func (f *FM) Reset(sampleRate float64) {
	f.sampleRate = sampleRate
	for i := range f.Operators {
		f.Operators[i].clk = *clock.NewSynthClock(sampleRate)
		f.Operators[i].EG.Reset(sampleRate)
	}
	if f.OperatorCount == 0 {
		f.OperatorCount = 4
	}
}

func (f *FM) NoteOn(noteNumber, velocity uint8) {
	for i := 0; i < f.OperatorCount; i++ {
		f.Operators[i].clk.Reset()
		f.Operators[i].EG.NoteOn()
	}
	f.prevOut = 0
}

func (f *FM) NoteOff() {
	for i := 0; i < f.OperatorCount; i++ {
		f.Operators[i].EG.NoteOff()
	}
}

func (f *FM) Render(outL, outR []float64, frames int, freqHz float64) {
	n := f.OperatorCount
	if n < 1 {
		n = 1
	}
	if n > 4 {
		n = 4
	}

	for i := 0; i < n; i++ {
		op := &f.Operators[i]
		op.clk.SetFrequency(freqHz*op.Ratio, f.sampleRate)
	}

	for i := 0; i < frames; i++ {
		var egOut [4]float64
		for k := 0; k < n; k++ {
			normal, _ := f.Operators[k].EG.Step()
			egOut[k] = normal
		}

		mono := f.renderAlgorithm(n, egOut)
		l, r := PanStereo(mono, f.Pan)
		outL[i] = l
		outR[i] = r

		for k := 0; k < n; k++ {
			f.Operators[k].clk.AdvanceWrapClock()
		}
	}
}

// renderAlgorithm computes one sample given the pre-stepped per-operator
// envelope values, switching over operator count and the eight
// DX-style algorithm graphs.
func (f *FM) renderAlgorithm(n int, eg [4]float64) float64 {
	sine := func(idx int, modPhase float64) float64 {
		return math.Sin(2*math.Pi*(f.Operators[idx].clk.Phase+modPhase)) * eg[idx] * f.Operators[idx].OutputLevel
	}

	switch n {
	case 1:
		pm := f.Feedback * f.prevOut
		out := sine(0, pm)
		f.prevOut = out
		return out
	case 2:
		switch f.Algorithm % 2 {
		case 0: // op1 -> op0 (serial FM)
			mod := sine(1, 0)
			out := sine(0, mod*f.PMIndex)
			f.prevOut = out
			return out
		default: // parallel
			out := (sine(0, 0) + sine(1, 0)) * 0.5
			f.prevOut = out
			return out
		}
	case 3:
		switch f.Algorithm % 3 {
		case 0: // op2 -> op1 -> op0
			m2 := sine(2, 0)
			m1 := sine(1, m2*f.PMIndex)
			out := sine(0, m1*f.PMIndex)
			f.prevOut = out
			return out
		case 1: // (op2, op1) -> op0
			m := sine(2, 0) + sine(1, 0)
			out := sine(0, m*f.PMIndex*0.5)
			f.prevOut = out
			return out
		default: // op0 + (op2->op1)
			m2 := sine(2, 0)
			m1 := sine(1, m2*f.PMIndex)
			out := (sine(0, 0) + m1) * 0.5
			f.prevOut = out
			return out
		}
	default: // 4 operators, 8 algorithms selected by f.Algorithm % 8
		return f.render4Op(eg)
	}
}

func (f *FM) render4Op(eg [4]float64) float64 {
	sine := func(idx int, modPhase float64) float64 {
		return math.Sin(2*math.Pi*(f.Operators[idx].clk.Phase+modPhase)) * eg[idx] * f.Operators[idx].OutputLevel
	}
	pmIdx := f.PMIndex

	switch f.Algorithm % 8 {
	case 0: // 3->2->1->0 stack
		m3 := sine(3, f.Feedback*f.prevOut)
		m2 := sine(2, m3*pmIdx)
		m1 := sine(1, m2*pmIdx)
		out := sine(0, m1*pmIdx)
		f.prevOut = out
		return out
	case 1: // (3->2) and (1) -> 0
		m3 := sine(3, 0)
		m2 := sine(2, m3*pmIdx)
		m1 := sine(1, 0)
		out := sine(0, (m2+m1)*pmIdx*0.5)
		f.prevOut = out
		return out
	case 2: // 3->1, 2->0, summed carriers
		m3 := sine(3, 0)
		c1 := sine(1, m3*pmIdx)
		m2 := sine(2, 0)
		c0 := sine(0, m2*pmIdx)
		out := (c0 + c1) * 0.5
		f.prevOut = out
		return out
	case 3: // 3->2->1, 0 parallel carrier
		m3 := sine(3, 0)
		m2 := sine(2, m3*pmIdx)
		c1 := sine(1, m2*pmIdx)
		c0 := sine(0, f.Feedback*f.prevOut)
		out := (c0 + c1) * 0.5
		f.prevOut = out
		return out
	case 4: // 1->0, 3->2, summed
		m1 := sine(1, 0)
		c0 := sine(0, m1*pmIdx)
		m3 := sine(3, 0)
		c2 := sine(2, m3*pmIdx)
		out := (c0 + c2) * 0.5
		f.prevOut = out
		return out
	case 5: // 1->0, 2, 3 parallel carriers
		m1 := sine(1, 0)
		c0 := sine(0, m1*pmIdx)
		c2 := sine(2, 0)
		c3 := sine(3, 0)
		out := (c0 + c2 + c3) / 3
		f.prevOut = out
		return out
	case 6: // feedback stack of all four
		m3 := sine(3, f.Feedback*f.prevOut)
		m2 := sine(2, m3*pmIdx)
		m1 := sine(1, m2*pmIdx)
		m0 := sine(0, m1*pmIdx)
		out := m0
		f.prevOut = out
		return out
	default: // 7: all four carriers in parallel
		out := (sine(0, 0) + sine(1, 0) + sine(2, 0) + sine(3, 0)) / 4
		f.prevOut = out
		return out
	}
}
