package voice

import (
	"math"
	"testing"

	"github.com/cbegin/polyvoice-go/internal/audiobuf"
	"github.com/cbegin/polyvoice-go/internal/midi"
	"github.com/cbegin/polyvoice-go/internal/modulation"
	"github.com/cbegin/polyvoice-go/internal/oscillator"
	"github.com/cbegin/polyvoice-go/internal/wavetable"
	"github.com/stretchr/testify/assert"
)

func newTestClassicSet() *wavetable.Set {
	set := &wavetable.Set{Name: "test-sine"}
	samples := make([]float64, 256)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * float64(i) / float64(len(samples)))
	}
	tbl := &wavetable.StaticWavetable{Samples: samples, OutputComp: 1, SampleRateWhenMade: 48000}
	for i := range set.Entries {
		set.Entries[i] = tbl
	}
	return set
}

func newTestVoice(t *testing.T) *Voice {
	t.Helper()
	v := &Voice{
		Family:   FamilyMultiOsc,
		BaseGain: 1.0,
	}
	v.Oscillators[0] = &oscillator.Classic{Set: newTestClassicSet()}
	v.AmpEG.AttackMs = 1
	v.AmpEG.DecayMs = 1
	v.AmpEG.SustainLevel = 0.8
	v.AmpEG.ReleaseMs = 5
	v.DCA.VelocityAmp = 0.5
	v.Reset(48000)
	return v
}

func TestVoiceNoteOnMakesVoiceActive(t *testing.T) {
	v := newTestVoice(t)
	assert.False(t, v.Active)

	v.DoNoteOn(midi.Event{Message: midi.NoteOn, Data1: 60, Data2: 100})
	assert.True(t, v.Active)
	assert.Equal(t, uint8(60), v.NoteNumber)
	assert.Equal(t, midi.NoteOn, v.NoteState)
}

func TestVoiceRenderBlockProducesNonZeroOutput(t *testing.T) {
	v := newTestVoice(t)
	v.DoNoteOn(midi.Event{Message: midi.NoteOn, Data1: 69, Data2: 100})

	for i := 0; i < 50; i++ {
		v.RenderBlock(audiobuf.BlockSize)
	}

	var sum float64
	for i := 0; i < audiobuf.BlockSize; i++ {
		sum += v.Output.L[i]*v.Output.L[i] + v.Output.R[i]*v.Output.R[i]
	}
	assert.Greater(t, sum, 0.0)
}

func TestVoiceNoteOffReleasesAndRetiresVoice(t *testing.T) {
	v := newTestVoice(t)
	v.DoNoteOn(midi.Event{Message: midi.NoteOn, Data1: 69, Data2: 100})

	for i := 0; i < 50; i++ {
		v.RenderBlock(audiobuf.BlockSize)
	}
	v.DoNoteOff(midi.Event{Message: midi.NoteOff, Data1: 69})
	assert.Equal(t, midi.NoteOff, v.NoteState)

	for i := 0; i < 2000 && v.Active; i++ {
		v.RenderBlock(audiobuf.BlockSize)
	}
	assert.False(t, v.Active)
}

func TestVoiceShutdownConsumesPendingStealOnceOff(t *testing.T) {
	v := newTestVoice(t)
	v.DoNoteOn(midi.Event{Message: midi.NoteOn, Data1: 60, Data2: 90})

	pending := midi.Event{Message: midi.NoteOn, Data1: 67, Data2: 110}
	v.Shutdown(pending)
	assert.NotNil(t, v.PendingSteal)

	for i := 0; i < 2000 && v.PendingSteal != nil; i++ {
		v.RenderBlock(audiobuf.BlockSize)
	}

	assert.Nil(t, v.PendingSteal)
	assert.True(t, v.Active)
	assert.Equal(t, uint8(67), v.NoteNumber)
}

func TestHardwiredAmpEGToDCAEGModIgnoresRoutedIntensity(t *testing.T) {
	v := newTestVoice(t)
	// Intensity is irrelevant on a hardwired cell; only hardwireIntensity
	// (set to 1.0 by wireDefaultRouting) should reach the destination.
	v.Matrix.SetRouting(srcAmpEG, dstDCAEGMod, true, 0, true, 1.0)
	v.DoNoteOn(midi.Event{Message: midi.NoteOn, Data1: 69, Data2: 100})
	v.RenderBlock(audiobuf.BlockSize)
	assert.Greater(t, v.Mods.Inputs[modulation.InDCAEGMod], 0.0)
}

func TestGlideRampsBetweenNotes(t *testing.T) {
	g := glideState{}
	g.start(60, 72, 10, 48000)
	first := g.tick()
	assert.InDelta(t, 60.0, first, 1.0)

	var last float64
	for i := 0; i < 10000 && g.active; i++ {
		last = g.tick()
	}
	assert.Equal(t, 72.0, last)
}

func TestSharedStatePitchBendCentered(t *testing.T) {
	s := NewSharedState()
	assert.Equal(t, 0.0, s.PitchBendSemitones(2.0))

	s.PitchBend14 = 16383
	assert.InDelta(t, 2.0, s.PitchBendSemitones(2.0), 0.01)
}
