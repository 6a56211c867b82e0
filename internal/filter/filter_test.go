package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateVariableLowPassAttenuatesHighFrequency(t *testing.T) {
	var s StateVariable
	s.Mode = LowPass
	s.CutoffHz = 200
	s.Resonance = 0.1

	sampleRate := 48000.0
	energy := 0.0
	for i := 0; i < 4096; i++ {
		x := math.Sin(2 * math.Pi * 8000 * float64(i) / sampleRate)
		y := s.Process(x, sampleRate)
		energy += y * y
	}
	assert.Less(t, energy, 50.0, "8kHz energy should be heavily attenuated by a 200Hz lowpass")
}

func TestBiquadLowPassStable(t *testing.T) {
	var b Biquad
	b.Mode = LowPass
	b.CutoffHz = 1000
	b.Q = 0.707
	b.UpdateCoefficients(48000)

	for i := 0; i < 10000; i++ {
		y := b.Process(1.0)
		assert.False(t, math.IsNaN(y))
		assert.Less(t, math.Abs(y), 10.0)
	}
}
