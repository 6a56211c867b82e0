package wavetable

import "math"

// Bank holds up to 16 single-cycle source tables used by the morphing
// wavetable core. The Fourier core's table set is built by FourierSet
// and is not stored in a Bank.
type Bank struct {
	Name   string
	Tables []*StaticWavetable // up to 16
}

// MorphPosition computes the crossfade position across the bank given a
// start offset and a mix value in [0,1].
func (b *Bank) MorphPosition(morphStart, morphMix float64) float64 {
	n := len(b.Tables)
	if n == 0 {
		return 0
	}
	return morphStart + morphMix*(float64(n-1)-morphStart)
}

// ReadMorphed performs the constant-power crossfade readback between
// the two tables bracketing position, at phase in [0,1).
func (b *Bank) ReadMorphed(position, phase float64) float64 {
	n := len(b.Tables)
	if n == 0 {
		return 0
	}
	t0 := int(math.Floor(position))
	if t0 < 0 {
		t0 = 0
	}
	if t0 > n-1 {
		t0 = n - 1
	}
	t1 := t0 + 1
	if t1 > n-1 {
		t1 = n - 1
	}
	frac := position - float64(t0)
	a := b.Tables[t0]
	c := b.Tables[t1]
	if a == nil || c == nil {
		return 0
	}
	gA := math.Cos(math.Pi / 2 * (1 - frac))
	gB := math.Cos(math.Pi / 2 * frac)
	return gA*a.Read(phase) + gB*c.Read(phase)
}

// FourierSet synthesizes the 128-note additive table set for the
// Fourier wavetable core from an explicit harmonic amplitude table,
// truncated per-note to stay alias-free.
func FourierSet(name string, sampleRate float64, length int, harmonics []float64) *Set {
	return BuildBandLimited(name, sampleRate, length, func(h int) (float64, float64) {
		if h-1 < 0 || h-1 >= len(harmonics) {
			return 0, 0
		}
		return harmonics[h-1], 0
	})
}
