package oscillator

import (
	"math"
	"testing"

	"github.com/cbegin/polyvoice-go/internal/ks"
	"github.com/cbegin/polyvoice-go/internal/pcm"
	"github.com/cbegin/polyvoice-go/internal/wavetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSR = 48000.0

func TestClassicRenderProducesBoundedNonSilentOutput(t *testing.T) {
	set := wavetable.BuildBandLimited("saw", testSR, 512, wavetable.SawPartials)
	c := &Classic{Set: set}
	c.Reset(testSR)
	c.NoteOn(69, 100)

	outL := make([]float64, 512)
	outR := make([]float64, 512)
	c.Render(outL, outR, 512, 440)

	var peak, sum float64
	for i := range outL {
		v := math.Abs(outL[i])
		sum += v
		if v > peak {
			peak = v
		}
	}
	assert.Greater(t, sum, 0.0)
	assert.Less(t, peak, 2.0)
}

func TestClassicHardSyncResetsPhaseEarly(t *testing.T) {
	set := wavetable.BuildBandLimited("saw", testSR, 512, wavetable.SawPartials)
	c := &Classic{Set: set, HardSyncRatio: 3.0}
	c.Reset(testSR)
	c.NoteOn(69, 100)

	outL := make([]float64, 256)
	outR := make([]float64, 256)
	c.Render(outL, outR, 256, 440)
	assert.True(t, c.syncClk.PhaseInc > c.clk.PhaseInc)
}

func TestMorphCrossfadesAcrossBank(t *testing.T) {
	bank := &wavetable.Bank{
		Tables: []*wavetable.StaticWavetable{
			{Samples: []float64{1, 1, 1, 1}, OutputComp: 1, SampleRateWhenMade: testSR},
			{Samples: []float64{-1, -1, -1, -1}, OutputComp: 1, SampleRateWhenMade: testSR},
		},
	}
	m := &Morph{Bank: bank, MorphMod: 0}
	m.Reset(testSR)
	m.NoteOn(69, 100)

	outL := make([]float64, 4)
	outR := make([]float64, 4)
	m.Render(outL, outR, 4, 440)
	assert.InDelta(t, 1.0, outL[0]+outR[0], 0.5)

	m.MorphMod = 1
	m.Render(outL, outR, 4, 440)
	assert.Less(t, outL[0]+outR[0], 0.0)
}

func TestFourierRebuildsOnSampleRateChange(t *testing.T) {
	f := &Fourier{Harmonics: []float64{1, 0.5, 0.25}}
	f.Reset(testSR)
	require.NotNil(t, f.set)
	firstSet := f.set

	f.Reset(testSR * 2)
	assert.NotSame(t, firstSet, f.set)
}

func TestFMSingleOperatorStaysBounded(t *testing.T) {
	fm := &FM{OperatorCount: 1, Feedback: 0.1}
	fm.Operators[0].Ratio = 1
	fm.Operators[0].OutputLevel = 1
	fm.Operators[0].EG.AttackMs = 1
	fm.Operators[0].EG.DecayMs = 10
	fm.Operators[0].EG.DecayLevel = 0.7
	fm.Operators[0].EG.SlopeMs = 10
	fm.Operators[0].EG.SustainLevel = 0.7
	fm.Operators[0].EG.SustainHold = true
	fm.Operators[0].EG.ReleaseMs = 50

	fm.Reset(testSR)
	fm.NoteOn(69, 100)

	outL := make([]float64, 1024)
	outR := make([]float64, 1024)
	fm.Render(outL, outR, 1024, 440)

	for i := range outL {
		assert.False(t, math.IsNaN(outL[i]))
		assert.Less(t, math.Abs(outL[i])+math.Abs(outR[i]), 4.0)
	}
}

func TestFMFourOperatorAlgorithmsAllProduceFiniteOutput(t *testing.T) {
	for algo := 0; algo < 8; algo++ {
		fm := &FM{OperatorCount: 4, Algorithm: algo, Feedback: 0.15, PMIndex: 2}
		for i := range fm.Operators {
			fm.Operators[i].Ratio = float64(i + 1)
			fm.Operators[i].OutputLevel = 1
			fm.Operators[i].EG.AttackMs = 1
			fm.Operators[i].EG.DecayMs = 5
			fm.Operators[i].EG.DecayLevel = 0.8
			fm.Operators[i].EG.SlopeMs = 5
			fm.Operators[i].EG.SustainLevel = 0.8
			fm.Operators[i].EG.SustainHold = true
			fm.Operators[i].EG.ReleaseMs = 30
		}
		fm.Reset(testSR)
		fm.NoteOn(69, 100)

		outL := make([]float64, 256)
		outR := make([]float64, 256)
		fm.Render(outL, outR, 256, 220)

		for i := range outL {
			require.False(t, math.IsNaN(outL[i]), "algorithm %d produced NaN", algo)
		}
	}
}

func TestKarplusStrongDecaysAfterPluck(t *testing.T) {
	k := &KarplusStrong{Model: ks.Nylon, Decay: 0.99, PluckPos: 4}
	k.Reset(testSR)
	k.NoteOn(69, 100)

	outL := make([]float64, 8192)
	outR := make([]float64, 8192)
	k.Render(outL, outR, 8192, 220)

	early := rms(outL[100:1100])
	late := rms(outL[7000:8000])
	assert.Greater(t, early, late)
}

func rms(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x * x
	}
	return math.Sqrt(sum / float64(len(xs)))
}

func TestPCMPlayerTransposedPlaybackEndsTwiceAsFast(t *testing.T) {
	patch := &pcm.Patch{}
	sample := &pcm.Sample{
		NumChannels:   1,
		SampleRate:    testSR,
		SampleCount:   4,
		Samples:       []float64{0, 1, 0, -1},
		UnityMIDINote: 69,
		LoopModeHint:  pcm.OneShot,
	}
	patch.AddSample(sample)
	patch.FillGaps()

	unity := &PCMPlayer{Patch: patch}
	unity.Reset(testSR)
	unity.NoteOn(69, 100)

	outL := make([]float64, 3)
	outR := make([]float64, 3)
	unity.Render(outL, outR, 3, 440)
	assert.True(t, unity.head.Active(), "unity-pitch playback should still have samples left after 3 frames")

	octaveUp := &PCMPlayer{Patch: patch}
	octaveUp.Reset(testSR)
	octaveUp.NoteOn(81, 100) // one octave up -> increment 2.0

	octOutL := make([]float64, 3)
	octOutR := make([]float64, 3)
	octaveUp.Render(octOutL, octOutR, 3, 880)
	assert.False(t, octaveUp.head.Active(), "transposed-up playback should finish before the unity-pitch one")
}
