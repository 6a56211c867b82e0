package wavesequencer

import "math"

// XHoldFader counts through a hold phase then a constant-power
// crossfade phase, asserting CrossfadeFinished on the xfade's last
// sample.
type XHoldFader struct {
	HoldSamples  int
	XfadeSamples int

	pos int
}

// Reset restarts the hold/fade counters for a new step pair.
func (x *XHoldFader) Reset(holdSamples, xfadeSamples int) {
	x.HoldSamples = holdSamples
	x.XfadeSamples = xfadeSamples
	x.pos = 0
}

// Step advances by one sample and returns the constant-power gain pair
// and whether the crossfade completed on this sample.
func (x *XHoldFader) Step() (gA, gB float64, crossfadeFinished bool) {
	if x.pos < x.HoldSamples {
		x.pos++
		return 1, 0, false
	}
	xfadePos := x.pos - x.HoldSamples
	if x.XfadeSamples <= 0 {
		x.pos++
		return 0, 1, true
	}
	t := float64(xfadePos+1) / float64(x.XfadeSamples)
	if t > 1 {
		t = 1
	}
	gA = math.Cos(t * math.Pi / 2)
	gB = math.Sin(t * math.Pi / 2)
	x.pos++
	finished := xfadePos+1 >= x.XfadeSamples
	return gA, gB, finished
}

// Outputs is the per-block modulation output of the wave sequencer,
// written once at the last sample of each block per spec §4.7 step 4.
type Outputs struct {
	XFadeDone float64

	WaveMixA, WaveMixB float64
	WaveStepNumberA    int
	WaveStepNumberB    int
	WaveIndexA         float64
	WaveIndexB         float64
	WaveAmpModA        float64
	WaveAmpModB        float64

	PitchModA, PitchModB float64

	StepSeqMod float64
}

// WaveSequencer drives a pair of oscillators through a sequence of
// wave/pitch/amplitude steps. The timing lane's step durations clock a
// single shared XHoldFader; the wave, pitch, and step-sequencer lanes
// advance in lockstep with it but keep their own jump tables, start and
// end points, and loop direction.
type WaveSequencer struct {
	Timing  Lane
	Wave    Lane
	Pitch   Lane
	StepSeq Lane

	InterpolateStepSeqMod bool
	TimeStretch           float64 // [-5, +5]

	fader XHoldFader
	rng   uint32

	ledCounter int
}

// timeStretchMultiplier maps TimeStretch in [-5,5] to a duration
// multiplier in [0.5, 2.0], an exponential mapping chosen so 0 is
// identity and the endpoints are a halving/doubling of every step.
func (s *WaveSequencer) timeStretchMultiplier() float64 {
	st := s.TimeStretch
	if st < -5 {
		st = -5
	}
	if st > 5 {
		st = 5
	}
	return math.Pow(2, st/5)
}

func (s *WaveSequencer) stretched(samples int) int {
	v := int(float64(samples) * s.timeStretchMultiplier())
	if v < 1 {
		v = 1
	}
	return v
}

// NoteOn resets all four lanes' jump tables, re-rolls step probability
// gates, initializes every lane's cursor to its start point, and primes
// the shared XHoldFader from the timing lane's first step.
func (s *WaveSequencer) NoteOn(rngSeed uint32) {
	s.rng = rngSeed
	if s.rng == 0 {
		s.rng = 0x1234567
	}

	for _, lane := range s.lanes() {
		lane.RollProbabilities(&s.rng)
		lane.InitForNoteOn()
	}

	cur := s.Timing.CurrentStep()
	xfade := s.stretched(cur.XfadeSamples)
	hold := s.stretched(cur.DurationSamples) - xfade/2
	if hold < 0 {
		hold = 0
	}
	s.fader.Reset(hold, xfade)

	s.ledCounter = cur.DurationSamples
	s.Timing.CurrentLEDStep = s.Timing.Current
	s.Timing.CurrentLEDStepDuration = cur.DurationSamples
}

func (s *WaveSequencer) lanes() [4]*Lane {
	return [4]*Lane{&s.Timing, &s.Wave, &s.Pitch, &s.StepSeq}
}

// Render advances the sequencer by frames samples, returning the
// modulation output snapshot taken at the block's last sample.
func (s *WaveSequencer) Render(frames int) Outputs {
	var out Outputs
	for i := 0; i < frames; i++ {
		gA, gB, finished := s.fader.Step()

		if finished {
			s.advanceAllLanes()
		}

		s.ledCounter--
		if s.ledCounter <= 0 {
			s.Timing.CurrentLEDStep = s.Timing.Next
			cur := s.Timing.CurrentStep()
			s.ledCounter = cur.DurationSamples
			s.Timing.CurrentLEDStepDuration = cur.DurationSamples
		}

		if i == frames-1 {
			out = s.snapshot(gA, gB, finished)
		}
	}
	return out
}

func (s *WaveSequencer) advanceAllLanes() {
	for _, lane := range s.lanes() {
		lane.Advance(&s.rng)
	}

	cur := s.Timing.CurrentStep()
	next := s.Timing.NextStep()
	xfade := s.stretched(cur.XfadeSamples)
	if next.XfadeSamples < cur.XfadeSamples {
		xfade = s.stretched(next.XfadeSamples)
	}
	curDur := s.stretched(cur.DurationSamples)
	nextDur := s.stretched(next.DurationSamples)
	if xfade > curDur {
		xfade = curDur
	}
	if xfade > nextDur {
		xfade = nextDur
	}
	hold := curDur - xfade - xfade/2
	if hold < 0 {
		hold = 0
	}
	s.fader.Reset(hold, xfade)
}

func (s *WaveSequencer) snapshot(gA, gB float64, xfadeDone bool) Outputs {
	wCur, wNext := s.Wave.CurrentStep(), s.Wave.NextStep()
	pCur, pNext := s.Pitch.CurrentStep(), s.Pitch.NextStep()
	tCur := s.Timing.CurrentStep()

	out := Outputs{
		WaveStepNumberA: s.Wave.Current,
		WaveStepNumberB: s.Wave.Next,
		WaveIndexA:      wCur.Value,
		WaveIndexB:      wNext.Value,
		PitchModA:       pCur.Value,
		PitchModB:       pNext.Value,
	}
	if xfadeDone {
		out.XFadeDone = 1.0
	}
	if !tCur.IsNull {
		out.WaveMixA = gA
	}
	if !s.Timing.NextStep().IsNull {
		out.WaveMixB = gB
	}
	out.WaveAmpModA = wCur.Value
	out.WaveAmpModB = wNext.Value

	ssCur := s.StepSeq.CurrentStep()
	if s.InterpolateStepSeqMod {
		ssNext := s.StepSeq.NextStep()
		out.StepSeqMod = gA*ssCur.Value + gB*ssNext.Value
	} else {
		out.StepSeqMod = ssCur.Value
	}

	return out
}
