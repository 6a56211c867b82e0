// Package engine provides the trivial top-level render loop: it owns
// a voice manager, sums every voice's output block into a single
// stereo mix, applies master gain, and optionally sends the mix
// through a ping-pong delay before handing the block to the audio
// backend.
package engine

import (
	"github.com/cbegin/polyvoice-go/internal/audiobuf"
	"github.com/cbegin/polyvoice-go/internal/effects"
	"github.com/cbegin/polyvoice-go/internal/midi"
	"github.com/cbegin/polyvoice-go/internal/voicemanager"
)

// Engine renders a polyphonic voice pool to a single stereo block per
// call, the same shape as the teacher's RenderFrame summation loop,
// generalized from a fixed MML channel count to an arbitrary voice
// pool.
type Engine struct {
	Manager    *voicemanager.Manager
	MasterGain float64

	// DelaySend is an *effects.Chain (typically holding one
	// *effects.Delay) run over the master mix sample by sample. nil
	// disables the send entirely.
	DelaySend *effects.Chain

	Output audiobuf.Block
}

// New wraps a voice manager with unity master gain and no delay send.
func New(mgr *voicemanager.Manager) *Engine {
	return &Engine{Manager: mgr, MasterGain: 1.0}
}

// HandleEvent forwards one MIDI-style event to the voice manager.
func (e *Engine) HandleEvent(ev midi.Event) {
	e.Manager.HandleEvent(ev)
}

// RenderBlock advances the shared MIDI record, renders every voice,
// sums into Output, applies master gain, and runs the optional delay
// send sample by sample.
func (e *Engine) RenderBlock(frames int) {
	e.Manager.Update()
	e.Manager.RenderBlock(frames)

	e.Output.Clear(frames)
	for _, v := range e.Manager.Voices() {
		e.Output.AccumulateFrom(&v.Output)
	}
	e.Output.ScaleInPlace(e.MasterGain)

	if e.DelaySend != nil {
		for i := 0; i < frames; i++ {
			l, r := e.DelaySend.Process(float32(e.Output.L[i]), float32(e.Output.R[i]))
			e.Output.L[i] = float64(l)
			e.Output.R[i] = float64(r)
		}
	}
}
