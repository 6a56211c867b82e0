package wavesequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourStepLane(values [4]float64, durationSamples int) Lane {
	l := Lane{EndPoint: 3, LoopMode: Forward}
	for i := 0; i < 4; i++ {
		l.Steps[i] = LaneStep{
			Value:           values[i],
			DurationSamples: durationSamples,
			XfadeSamples:    durationSamples / 4,
			ProbabilityPct:  100,
			NextOverride:    -1,
			PrevOverride:    -1,
		}
	}
	return l
}

func newTestSequencer() *WaveSequencer {
	return &WaveSequencer{
		Timing:  fourStepLane([4]float64{0, 0, 0, 0}, 400),
		Wave:    fourStepLane([4]float64{0, 1, 2, 3}, 400),
		Pitch:   fourStepLane([4]float64{0, 2, 4, 7}, 400),
		StepSeq: fourStepLane([4]float64{0.1, 0.2, 0.3, 0.4}, 400),
	}
}

func TestResetJumpTableIsIdentity(t *testing.T) {
	l := fourStepLane([4]float64{0, 1, 2, 3}, 100)
	l.JumpTable = [8]int{7, 6, 5, 4, 3, 2, 1, 0}
	l.ResetJumpTable()
	for i, v := range l.JumpTable {
		assert.Equal(t, i, v)
	}
}

func TestLaneAdvanceForwardWrapsAtEndpoint(t *testing.T) {
	l := fourStepLane([4]float64{0, 1, 2, 3}, 100)
	l.InitForNoteOn()
	require.Equal(t, 0, l.Current)

	var rng uint32 = 42
	l.Advance(&rng) // -> 1
	l.Advance(&rng) // -> 2
	l.Advance(&rng) // -> 3 (endpoint)
	assert.Equal(t, 3, l.Current)
	l.Advance(&rng) // wraps to start
	assert.Equal(t, l.StartPoint, l.Current)
}

func TestLaneAdvanceForwardBackwardBounces(t *testing.T) {
	l := fourStepLane([4]float64{0, 1, 2, 3}, 100)
	l.LoopMode = ForwardBackward
	l.InitForNoteOn()

	var rng uint32 = 7
	seen := []int{l.Current}
	for i := 0; i < 10; i++ {
		l.Advance(&rng)
		seen = append(seen, l.Current)
	}
	assert.Contains(t, seen, 3)
	assert.Contains(t, seen, 0)
}

func TestXHoldFaderAssertsCrossfadeFinishedAtXfadeEnd(t *testing.T) {
	f := XHoldFader{}
	f.Reset(3, 4)

	var finished bool
	var gA, gB float64
	for i := 0; i < 7; i++ {
		gA, gB, finished = f.Step()
	}
	assert.True(t, finished)
	assert.InDelta(t, 0.0, gA, 1e-9)
	assert.InDelta(t, 1.0, gB, 1e-9)
}

func TestXHoldFaderHoldsAtUnityGainABeforeFade(t *testing.T) {
	f := XHoldFader{}
	f.Reset(5, 4)
	gA, gB, finished := f.Step()
	assert.Equal(t, 1.0, gA)
	assert.Equal(t, 0.0, gB)
	assert.False(t, finished)
}

func TestWaveSequencerNoteOnPrimesAllLanesAtStartPoint(t *testing.T) {
	s := newTestSequencer()
	s.NoteOn(123)
	assert.Equal(t, 0, s.Wave.Current)
	assert.Equal(t, 0, s.Pitch.Current)
	assert.Equal(t, 0, s.StepSeq.Current)
}

func TestWaveSequencerRenderAdvancesStepsOverTime(t *testing.T) {
	s := newTestSequencer()
	s.NoteOn(99)

	var lastOut Outputs
	for block := 0; block < 20; block++ {
		lastOut = s.Render(64)
	}
	assert.NotEqual(t, 0, s.Wave.Current, "wave lane should have advanced past its initial cursor by now")
	_ = lastOut
}

func TestWaveSequencerStepSeqModInterpolation(t *testing.T) {
	s := newTestSequencer()
	s.InterpolateStepSeqMod = true
	s.NoteOn(1)

	out := s.Render(1)
	assert.GreaterOrEqual(t, out.StepSeqMod, 0.0)
}

func TestTimeStretchMultiplierIsIdentityAtZero(t *testing.T) {
	s := &WaveSequencer{}
	assert.InDelta(t, 1.0, s.timeStretchMultiplier(), 1e-9)
	s.TimeStretch = 5
	assert.InDelta(t, 2.0, s.timeStretchMultiplier(), 1e-9)
	s.TimeStretch = -5
	assert.InDelta(t, 0.5, s.timeStretchMultiplier(), 1e-9)
}
