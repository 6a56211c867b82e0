package engine

import (
	"math"
	"testing"

	"github.com/cbegin/polyvoice-go/internal/audiobuf"
	"github.com/cbegin/polyvoice-go/internal/effects"
	"github.com/cbegin/polyvoice-go/internal/midi"
	"github.com/cbegin/polyvoice-go/internal/oscillator"
	"github.com/cbegin/polyvoice-go/internal/voice"
	"github.com/cbegin/polyvoice-go/internal/voicemanager"
	"github.com/cbegin/polyvoice-go/internal/wavetable"
	"github.com/stretchr/testify/assert"
)

func testSet() *wavetable.Set {
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

func newTestEngine(t *testing.T, n int) *Engine {
	t.Helper()
	set := testSet()
	pool := make([]*voice.Voice, n)
	for i := range pool {
		v := &voice.Voice{Family: voice.FamilyMultiOsc, BaseGain: 1.0}
		v.Oscillators[0] = &oscillator.Classic{Set: set}
		v.AmpEG.AttackMs = 1
		v.AmpEG.DecayMs = 1
		v.AmpEG.SustainLevel = 0.8
		v.AmpEG.ReleaseMs = 50
		v.Reset(48000)
		pool[i] = v
	}
	mgr := voicemanager.New(pool, voicemanager.ModePoly)
	return New(mgr)
}

func TestEngineSumsActiveVoices(t *testing.T) {
	e := newTestEngine(t, 4)
	e.HandleEvent(midi.Event{Message: midi.NoteOn, Data1: 60, Data2: 100})
	e.HandleEvent(midi.Event{Message: midi.NoteOn, Data1: 64, Data2: 100})

	for i := 0; i < 20; i++ {
		e.RenderBlock(audiobuf.BlockSize)
	}

	var sum float64
	for i := 0; i < audiobuf.BlockSize; i++ {
		sum += e.Output.L[i]*e.Output.L[i] + e.Output.R[i]*e.Output.R[i]
	}
	assert.Greater(t, sum, 0.0)
}

func TestEngineDelaySendAddsTailAfterNoteOff(t *testing.T) {
	e := newTestEngine(t, 2)
	e.DelaySend = effects.NewChain(effects.NewDelay(48000, 5, 0.5, 0.6))

	e.HandleEvent(midi.Event{Message: midi.NoteOn, Data1: 60, Data2: 100})
	for i := 0; i < 5; i++ {
		e.RenderBlock(audiobuf.BlockSize)
	}
	e.HandleEvent(midi.Event{Message: midi.NoteOff, Data1: 60})
	for i := 0; i < 400; i++ {
		e.RenderBlock(audiobuf.BlockSize)
	}

	var sum float64
	for i := 0; i < e.Output.Frames; i++ {
		sum += e.Output.L[i]*e.Output.L[i] + e.Output.R[i]*e.Output.R[i]
	}
	assert.Greater(t, sum, 0.0, "the delay send should still be audibly ringing after the voice itself has gone silent")
}

func TestEngineSilentWithNoNotes(t *testing.T) {
	e := newTestEngine(t, 2)
	e.RenderBlock(audiobuf.BlockSize)
	for i := 0; i < e.Output.Frames; i++ {
		assert.Equal(t, 0.0, e.Output.L[i])
		assert.Equal(t, 0.0, e.Output.R[i])
	}
}
