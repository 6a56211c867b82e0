package ks

import "math"

// BodyModel selects the resonant body characteristics for a plucked
// string timbre.
type BodyModel int

const (
	Nylon BodyModel = iota
	DistortedGuitar
	Bass
)

func (m BodyModel) bodyParams() (cutoffHz, q float64) {
	switch m {
	case DistortedGuitar:
		return 300, 2
	case Bass:
		return 250, 1
	default: // Nylon
		return 400, 1
	}
}

// Resonator is the complete single-delay-line KS voice: exciter ->
// bite shelf -> pluck-position comb -> delay/loop-filter/APF feedback
// loop -> optional soft clip -> body resonant filter.
type Resonator struct {
	Model        BodyModel
	Decay        float64 // (0,1), controls T60
	PluckPos     float64 // [2,10]
	SoftClip     bool

	delay    DelayLine
	loop     LoopFilter
	apf      FracDelayAPF
	bite     BiteShelf
	exciter  Exciter
	combBuf  DelayLine

	bodyLP1, bodyLP2 float64
	bodyCutoff, bodyQ float64
	sampleRate       float64
}

// SetFundamental configures the delay length and fractional-delay
// all-pass for a target frequency f at the given sample rate.
func (r *Resonator) SetFundamental(f, sampleRate float64) {
	r.sampleRate = sampleRate
	totalDelay := sampleRate/f - 0.5
	intDelay := int(math.Floor(totalDelay))
	if intDelay < 2 {
		intDelay = 2
	}
	frac := totalDelay - float64(intDelay)
	r.delay.SetLength(intDelay)

	omega0 := 2 * math.Pi * f / sampleRate
	r.apf.SetFractionalDelay(frac, omega0)

	combLen := int(float64(intDelay) / clampPluck(r.PluckPos))
	if combLen < 1 {
		combLen = 1
	}
	r.combBuf.SetLength(combLen)

	r.bodyCutoff, r.bodyQ = r.Model.bodyParams()

	r.exciter.AttackSamples = int(0.0005 * sampleRate)
	r.exciter.HoldSamples = int(0.0005 * sampleRate)
	r.exciter.ReleaseSamples = intDelay * 2
}

func clampPluck(p float64) float64 {
	if p < 2 {
		return 2
	}
	if p > 10 {
		return 10
	}
	return p
}

// Pluck triggers the exciter for a new note.
func (r *Resonator) Pluck() {
	r.exciter.Trigger()
}

// Next renders one sample of the plucked-string voice.
func (r *Resonator) Next() float64 {
	exc := r.exciter.Next()
	shaped := r.bite.Process(exc, r.sampleRate)

	comb := r.combBuf.Read()
	r.combBuf.Write(shaped)
	x := shaped - comb*0.5

	d := r.delay.Read()
	f := r.loop.Process(x + d)
	y := r.apf.Process(f)
	r.delay.Write(y * r.Decay)

	out := y
	if r.SoftClip {
		out = math.Tanh(10*out) / math.Tanh(10)
	}
	out = r.bodyFilter(out)
	return out
}

// bodyFilter is a two-pole resonant peak approximated with cascaded
// one-pole stages tuned by Q, in the same coefficient-derivation idiom
// the rest of the codebase uses for its one-pole filters.
func (r *Resonator) bodyFilter(x float64) float64 {
	if r.sampleRate <= 0 {
		return x
	}
	rc := 1.0 / (2 * math.Pi * r.bodyCutoff)
	dt := 1.0 / r.sampleRate
	alpha := dt / (rc + dt)
	r.bodyLP1 += alpha * (x - r.bodyLP1)
	r.bodyLP2 += alpha * (r.bodyLP1 - r.bodyLP2)
	peak := r.bodyLP1 - r.bodyLP2
	return r.bodyLP2 + peak*r.bodyQ
}

// Reset clears all internal filter/delay state.
func (r *Resonator) Reset() {
	r.loop.Reset()
	r.apf.Reset()
	r.bodyLP1, r.bodyLP2 = 0, 0
}
