package lfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardLFOInvertedIsNegationOfNormal(t *testing.T) {
	var l StandardLFO
	l.Reset()
	l.Waveform = WaveTriangle
	l.RateHz = 2
	for i := 0; i < 1000; i++ {
		l.Step(48000)
		assert.InDelta(t, -l.Normal, l.Inverted, 1e-9)
		assert.GreaterOrEqual(t, l.UnipolarFromMax, 0.0)
		assert.LessOrEqual(t, l.UnipolarFromMax, 1.0)
	}
}

func TestStandardLFOInactiveAtZeroRate(t *testing.T) {
	var l StandardLFO
	l.Reset()
	l.Step(48000)
	assert.False(t, l.Active())
	assert.Equal(t, 0.0, l.Normal)
}

func TestSyncToBPMProducesPositiveRate(t *testing.T) {
	var l StandardLFO
	l.SyncToBPM(120, 0.5)
	assert.Greater(t, l.RateHz, 0.0)
}

func TestFMLFOBounded(t *testing.T) {
	var f FMLFO
	f.Reset()
	f.RateHz = 3
	f.ModStrength = 2
	f.RatioKnob = 0.5
	for i := 0; i < 2000; i++ {
		f.Step(48000)
		assert.GreaterOrEqual(t, f.Normal, -1.5)
		assert.LessOrEqual(t, f.Normal, 1.5)
	}
}
