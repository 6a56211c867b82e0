// Package wavetable implements the static, band-limited 128-entry
// wavetable set and the morphing/Fourier table banks built on top of
// it.
package wavetable

import "math"

// StaticWavetable is one band-limited table entry: a power-of-two
// length sample array, an output compensation gain, and the sample
// rate it was generated for (tables are rebuilt if that changes).
type StaticWavetable struct {
	Samples           []float64
	OutputComp        float64
	SampleRateWhenMade float64
}

// Read performs linear-interpolated readback at phase in [0,1).
func (t *StaticWavetable) Read(phase float64) float64 {
	n := len(t.Samples)
	if n == 0 {
		return 0
	}
	mask := n - 1
	pos := phase * float64(n)
	idx := int(pos) & mask
	frac := pos - math.Floor(pos)
	a := t.Samples[idx]
	b := t.Samples[(idx+1)&mask]
	return (a + (b-a)*frac) * t.OutputComp
}

// FromBits converts a bit-identical u64 array into an f64 table,
// replacing the source's union-typed storage with an explicit,
// documented conversion performed once at load time.
func FromBits(bits []uint64) []float64 {
	out := make([]float64, len(bits))
	for i, b := range bits {
		out[i] = math.Float64frombits(b)
	}
	return out
}

// Set is the 128-entry, MIDI-note-indexed table-per-note database
// underlying the classic wavetable core.
type Set struct {
	Name    string
	Entries [128]*StaticWavetable
}

// Selected returns the table entry for the given MIDI note, or nil if
// unpopulated.
func (s *Set) Selected(note int) *StaticWavetable {
	if note < 0 {
		note = 0
	}
	if note > 127 {
		note = 127
	}
	return s.Entries[note]
}

// BuildBandLimited synthesizes a naive-to-band-limited sine-based table
// set by additive synthesis: for each MIDI note, only harmonics whose
// frequency stays below Nyquist are summed, truncating aliasing
// harmonics per the note's fundamental.
func BuildBandLimited(name string, sampleRate float64, length int, partials func(harmonic int) (amp, phase float64)) *Set {
	set := &Set{Name: name}
	for note := 0; note < 128; note++ {
		freq := 440.0 * math.Pow(2, (float64(note)-69)/12)
		maxHarmonic := int(sampleRate/(2*freq)) - 1
		if maxHarmonic < 1 {
			maxHarmonic = 1
		}
		samples := make([]float64, length)
		peak := 0.0
		for h := 1; h <= maxHarmonic; h++ {
			amp, phase := partials(h)
			if amp == 0 {
				continue
			}
			for i := range samples {
				theta := 2*math.Pi*float64(h)*float64(i)/float64(length) + phase
				samples[i] += amp * math.Sin(theta)
			}
		}
		for _, v := range samples {
			if math.Abs(v) > peak {
				peak = math.Abs(v)
			}
		}
		comp := 1.0
		if peak > 0 {
			comp = 1.0 / peak
		}
		set.Entries[note] = &StaticWavetable{
			Samples:            samples,
			OutputComp:         comp,
			SampleRateWhenMade: sampleRate,
		}
	}
	return set
}

// SawPartials is a classic-wavetable-core partial generator for a
// band-limited sawtooth.
func SawPartials(h int) (amp, phase float64) {
	return 1.0 / float64(h), 0
}

// SquarePartials is a band-limited square wave (odd harmonics only).
func SquarePartials(h int) (amp, phase float64) {
	if h%2 == 0 {
		return 0, 0
	}
	return 1.0 / float64(h), 0
}
