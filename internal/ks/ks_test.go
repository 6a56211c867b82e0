package ks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResonatorDecaysMonotonicallyAfterPluck(t *testing.T) {
	var r Resonator
	r.Model = Nylon
	r.Decay = 0.99
	r.PluckPos = 3
	r.SetFundamental(110, 48000)
	r.Pluck()

	const window = 2400 // 50ms at 48kHz
	var prevRMS = math.Inf(1)
	decreasing := 0
	total := 0
	for w := 0; w < 15; w++ {
		var sumSq float64
		for i := 0; i < window; i++ {
			y := r.Next()
			sumSq += y * y
		}
		rms := math.Sqrt(sumSq / float64(window))
		if w > 2 { // skip the exciter's own attack/hold window
			total++
			if rms <= prevRMS+1e-6 {
				decreasing++
			}
		}
		prevRMS = rms
	}
	assert.Greater(t, decreasing, total/2)
}

func TestResonatorStableWithDecayBelowOne(t *testing.T) {
	var r Resonator
	r.Decay = 0.995
	r.SetFundamental(220, 48000)
	r.Pluck()
	for i := 0; i < 48000; i++ {
		y := r.Next()
		assert.False(t, math.IsNaN(y))
		assert.Less(t, math.Abs(y), 100.0)
	}
}

func TestDelayLineReadWrite(t *testing.T) {
	var d DelayLine
	d.SetLength(4)
	d.Write(1)
	d.Write(2)
	d.Write(3)
	d.Write(4)
	assert.InDelta(t, 1.0, d.Read(), 1e-9)
}
