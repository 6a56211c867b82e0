// Package clock implements the per-voice phase accumulator shared by
// every oscillator core.
package clock

// SynthClock is a phase accumulator in [0,1) driven by frequency/sample
// rate, with support for transient phase-offset modulation (used by FM
// phase modulation and hard sync).
type SynthClock struct {
	Phase        float64
	PhaseInc     float64
	FrequencyHz  float64
	SampleRateHz float64
	phaseOffset  float64
}

// NewSynthClock returns a clock configured for the given sample rate.
func NewSynthClock(sampleRateHz float64) *SynthClock {
	return &SynthClock{SampleRateHz: sampleRateHz}
}

// Reset zeroes phase and offset state but keeps the configured frequency.
func (c *SynthClock) Reset() {
	c.Phase = 0
	c.phaseOffset = 0
}

// SetFrequency recomputes the per-sample phase increment.
func (c *SynthClock) SetFrequency(freqHz, sampleRateHz float64) {
	c.FrequencyHz = freqHz
	c.SampleRateHz = sampleRateHz
	if sampleRateHz <= 0 {
		c.PhaseInc = 0
		return
	}
	c.PhaseInc = freqHz / sampleRateHz
}

// AdvanceWrapClock advances phase by PhaseInc, wrapping modulo 1, and
// reports whether a wrap occurred on this call.
func (c *SynthClock) AdvanceWrapClock() bool {
	c.Phase += c.PhaseInc
	if c.Phase >= 1.0 {
		c.Phase -= 1.0
		if c.Phase < 0 {
			c.Phase = 0
		}
		return true
	}
	if c.Phase < 0 {
		c.Phase += 1.0
	}
	return false
}

// AddPhaseOffset perturbs the nominal phase for one read (phase
// modulation / hard sync). RemovePhaseOffset must be called before the
// next AdvanceWrapClock so the nominal phase trajectory is unaffected.
func (c *SynthClock) AddPhaseOffset(delta float64) float64 {
	c.phaseOffset = delta
	p := c.Phase + delta
	p -= float64(int64(p))
	if p < 0 {
		p += 1.0
	}
	return p
}

// RemovePhaseOffset clears the transient offset applied by AddPhaseOffset.
func (c *SynthClock) RemovePhaseOffset() {
	c.phaseOffset = 0
}

// SetPhase forces the accumulator to an explicit phase, used by hard
// sync to restart a slave oscillator at zero phase.
func (c *SynthClock) SetPhase(phase float64) {
	c.Phase = phase
}
