// Package voice implements the per-voice module graph: the composed
// set of oscillator core(s), envelope generators, LFOs, filters, DCA,
// and modulation matrix that together render one note's worth of
// audio per block, plus the attack/sustain/release/shutdown lifecycle
// that the voice manager drives.
package voice

import (
	"math"

	"github.com/cbegin/polyvoice-go/internal/audiobuf"
	"github.com/cbegin/polyvoice-go/internal/dca"
	"github.com/cbegin/polyvoice-go/internal/envelope"
	"github.com/cbegin/polyvoice-go/internal/filter"
	"github.com/cbegin/polyvoice-go/internal/lfo"
	"github.com/cbegin/polyvoice-go/internal/midi"
	"github.com/cbegin/polyvoice-go/internal/modulation"
	"github.com/cbegin/polyvoice-go/internal/oscillator"
	"github.com/cbegin/polyvoice-go/internal/wavesequencer"
)

// Family selects how a voice routes its oscillator slots, per spec
// §4.1's three engine flavors.
type Family int

const (
	// FamilyMultiOsc sums up to four parallel cores (classic/morph/
	// Fourier wavetable, PCM, Karplus-Strong) at 1/4 gain through a
	// DC blocker.
	FamilyMultiOsc Family = iota
	// FamilyFM renders a single FM operator core (which internally
	// owns up to four DX-style operators and an algorithm graph).
	FamilyFM
	// FamilyWaveSequencer renders two oscillators mixed at 1/2 each,
	// driven by the wave sequencer's per-block crossfade gains.
	FamilyWaveSequencer
)

// FilterRoute selects series or parallel routing of the two filter
// cores ahead of the DCA.
type FilterRoute int

const (
	FilterSeries FilterRoute = iota
	FilterParallel
)

// Voice-local modulation matrix row/column ids. These are private to
// a voice's own ModMatrix instance; they never cross voice boundaries.
const (
	srcAmpEG = iota
	srcAuxEGNormal
	srcAuxEGBiased
	srcLFO1Normal
	srcLFO1Inverted
	srcLFO1UnipolarMax
	srcLFO1UnipolarMin
	srcLFO2Normal
	srcWSStepSeq
)

const (
	dstFilterCutoff = iota
	dstFilterResonance
	dstDCAAmp
	dstDCAEGMod
	dstDCAPan
	dstOscMix
	dstWaveMorphMod
	dstShape
)

// stereoFilter pairs two independent filter.StateVariable instances so
// a voice's mono filter core can process a stereo buffer: the mix
// buffer is already a panned stereo pair by the time it reaches the
// filter stage (each oscillator cores pans itself), so each channel
// needs its own coefficient state.
type stereoFilter struct {
	L, R filter.StateVariable
}

func (f *stereoFilter) reset() {
	f.L.Reset()
	f.R.Reset()
}

func (f *stereoFilter) configure(mode filter.Mode, cutoffHz, resonance float64) {
	f.L.Mode, f.R.Mode = mode, mode
	f.L.CutoffHz, f.R.CutoffHz = cutoffHz, cutoffHz
	f.L.Resonance, f.R.Resonance = resonance, resonance
}

func (f *stereoFilter) process(l, r, sampleRate float64) (float64, float64) {
	return f.L.Process(l, sampleRate), f.R.Process(r, sampleRate)
}

// Voice composes one polyphonic voice's module graph and owns its
// attack/sustain/release/shutdown lifecycle. The zero value is not
// ready to use; call Reset before rendering.
type Voice struct {
	SampleRate float64
	Family     Family

	// Oscillators holds up to four cores. FamilyMultiOsc uses all
	// populated slots; FamilyFM uses Oscillators[0] only; Family
	// WaveSequencer uses Oscillators[0] (A) and Oscillators[1] (B).
	Oscillators [4]oscillator.Core
	OscMixGain  [4]float64 // per-slot mix scaling, FamilyMultiOsc only (0 == default 0.25)

	AmpEG envelope.LinearADSR

	UseAuxEG bool
	AuxEG    envelope.ADSlSR

	LFO1 lfo.StandardLFO

	UseLFO2 bool
	LFO2    lfo.FMLFO

	UseWaveSeq bool
	WaveSeq    wavesequencer.WaveSequencer

	FilterRoute          FilterRoute
	Filter1Mode          filter.Mode
	Filter2Mode          filter.Mode
	Filter1BaseCutoffHz  float64
	Filter2BaseCutoffHz  float64
	Filter1BaseResonance float64
	Filter2BaseResonance float64
	FilterModOctaves     float64 // full-scale [-1,1] cutoff mod sweep range, in octaves

	DCA             dca.DCA
	BaseGain        float64
	DCAAmpModDepth  float64
	Pan             float64
	Mods            modulation.Modulators
	Matrix          modulation.ModMatrix

	// Per-oscillator tuning offsets, indexed the same as Oscillators.
	CoarseSemitones [4]float64
	FineSemitones   [4]float64

	MasterTuneSemitones float64
	PitchBendRangeSemi  float64
	UnisonCents         float64 // per-voice detune offset for unison spread

	GlideTimeMs float64
	LegatoMode  bool

	// Shared is the engine-owned MIDI record; nil is safe (no bend,
	// no pedal, no BPM sync).
	Shared *SharedState

	Output audiobuf.Block

	Active       bool
	NoteState    midi.Message
	AgeTimestamp uint64
	NoteNumber   uint8
	Velocity     uint8
	SavedEvent   midi.Event
	PendingSteal *midi.Event

	sustainPedalHeld bool
	havePrevNote     bool
	currentNoteFloat float64
	glide            glideState

	filt1, filt2 stereoFilter

	dcPrevInL, dcPrevOutL float64
	dcPrevInR, dcPrevOutR float64

	mixBuf audiobuf.Block
	ampEnv [audiobuf.BlockSize]float64

	lastWSOut  wavesequencer.Outputs
	rngCounter uint32
}

// Reset propagates sample rate to every owned module, clears all
// running state, and re-registers the voice's modulation routing.
func (v *Voice) Reset(sampleRate float64) {
	v.SampleRate = sampleRate
	v.AmpEG.Reset(sampleRate)
	if v.UseAuxEG {
		v.AuxEG.Reset(sampleRate)
	}
	v.LFO1.Reset()
	if v.UseLFO2 {
		v.LFO2.Reset()
	}
	for _, osc := range v.Oscillators {
		if osc != nil {
			osc.Reset(sampleRate)
		}
	}
	v.filt1.reset()
	v.filt2.reset()
	v.dcPrevInL, v.dcPrevOutL, v.dcPrevInR, v.dcPrevOutR = 0, 0, 0, 0

	v.Active = false
	v.NoteState = midi.NoteOff
	v.AgeTimestamp = 0
	v.PendingSteal = nil
	v.NoteNumber = 0
	v.currentNoteFloat = 0
	v.havePrevNote = false
	v.glide = glideState{}
	v.Mods.Reset()

	if v.PitchBendRangeSemi == 0 {
		v.PitchBendRangeSemi = 2.0
	}
	if v.BaseGain == 0 {
		v.BaseGain = 0.2
	}

	v.wireDefaultRouting()
}

func (v *Voice) wireDefaultRouting() {
	m := &v.Matrix
	mods := &v.Mods

	m.AddModSource(srcAmpEG, modulation.SlotRef{Mods: mods, Index: modulation.OutEGNormal, IsOut: true})
	m.AddModSource(srcAuxEGNormal, modulation.SlotRef{Mods: mods, Index: modulation.OutAuxEGNormal, IsOut: true})
	m.AddModSource(srcAuxEGBiased, modulation.SlotRef{Mods: mods, Index: modulation.OutAuxEGBiased, IsOut: true})
	m.AddModSource(srcLFO1Normal, modulation.SlotRef{Mods: mods, Index: modulation.OutLFONormal, IsOut: true})
	m.AddModSource(srcLFO1Inverted, modulation.SlotRef{Mods: mods, Index: modulation.OutLFOInverted, IsOut: true})
	m.AddModSource(srcLFO1UnipolarMax, modulation.SlotRef{Mods: mods, Index: modulation.OutLFOUnipolarFromMax, IsOut: true})
	m.AddModSource(srcLFO1UnipolarMin, modulation.SlotRef{Mods: mods, Index: modulation.OutLFOUnipolarFromMin, IsOut: true})
	m.AddModSource(srcLFO2Normal, modulation.SlotRef{Mods: mods, Index: modulation.OutUniqueMod, IsOut: true})
	m.AddModSource(srcWSStepSeq, modulation.SlotRef{Mods: mods, Index: modulation.OutWSStep, IsOut: true})

	m.AddModDestination(dstFilterCutoff, modulation.SlotRef{Mods: mods, Index: modulation.InFilterCutoff}, modulation.TransformNone)
	m.AddModDestination(dstFilterResonance, modulation.SlotRef{Mods: mods, Index: modulation.InFilterResonance}, modulation.TransformNone)
	m.AddModDestination(dstDCAAmp, modulation.SlotRef{Mods: mods, Index: modulation.InDCAAmp}, modulation.TransformNone)
	m.AddModDestination(dstDCAEGMod, modulation.SlotRef{Mods: mods, Index: modulation.InDCAEGMod}, modulation.TransformNone)
	m.AddModDestination(dstDCAPan, modulation.SlotRef{Mods: mods, Index: modulation.InDCAPan}, modulation.TransformNone)
	m.AddModDestination(dstOscMix, modulation.SlotRef{Mods: mods, Index: modulation.InOscMixLevel}, modulation.TransformNone)
	m.AddModDestination(dstWaveMorphMod, modulation.SlotRef{Mods: mods, Index: modulation.InWaveMorphMod}, modulation.TransformNone)
	m.AddModDestination(dstShape, modulation.SlotRef{Mods: mods, Index: modulation.InShape}, modulation.TransformNone)

	// A gentle default: LFO1 sways the filter cutoff.
	m.SetRouting(srcLFO1Normal, dstFilterCutoff, true, 0.15, false, 0)

	// Hardwired per spec §4.3: amp-EG always drives the DCA's EG-mod
	// input regardless of any routed intensity, and the aux EG always
	// drives every morph destination.
	m.SetRouting(srcAmpEG, dstDCAEGMod, true, 0, true, 1.0)
	if v.UseAuxEG {
		m.SetRouting(srcAuxEGNormal, dstWaveMorphMod, true, 0, true, 1.0)
	}
}

// ProcessMIDIEvent dispatches NoteOn/NoteOff to the lifecycle methods;
// every other message is handled above the voice (pitch bend and CCs
// land in the voice manager's SharedState instead).
func (v *Voice) ProcessMIDIEvent(ev midi.Event) {
	switch ev.Message {
	case midi.NoteOn:
		v.DoNoteOn(ev)
	case midi.NoteOff:
		v.DoNoteOff(ev)
	}
}

// DoNoteOn computes the oscillator pitch, starts a glide if a previous
// note is still active and GlideTimeMs > 0, issues note-on to every
// module, and marks the voice active.
func (v *Voice) DoNoteOn(ev midi.Event) {
	note := ev.Note()
	vel := ev.Velocity()

	if v.Active && v.GlideTimeMs > 0 {
		v.glide.start(v.NoteNumber, note, v.GlideTimeMs, v.SampleRate)
	} else {
		v.glide = glideState{}
		v.currentNoteFloat = float64(note)
	}

	v.NoteNumber = note
	v.Velocity = vel
	v.SavedEvent = ev
	v.havePrevNote = true

	v.AmpEG.NoteOn(vel, note)
	if v.UseAuxEG {
		v.AuxEG.NoteOn()
	}
	if v.UseWaveSeq {
		v.rngCounter++
		v.WaveSeq.NoteOn(v.rngCounter)
	}
	for _, osc := range v.Oscillators {
		if osc != nil {
			osc.NoteOn(note, vel)
		}
	}
	v.DCA.NoteOn(vel)

	v.Active = true
	v.NoteState = midi.NoteOn
}

// LegatoNoteOn retunes a mono/legato voice to a new pitch (with glide
// if configured) without restarting the amplitude envelope or any
// oscillator's phase, per the mono/legato polyphony mode.
func (v *Voice) LegatoNoteOn(ev midi.Event) {
	note := ev.Note()
	vel := ev.Velocity()

	if v.Active && v.GlideTimeMs > 0 {
		v.glide.start(v.NoteNumber, note, v.GlideTimeMs, v.SampleRate)
	} else {
		v.glide = glideState{}
		v.currentNoteFloat = float64(note)
	}

	v.NoteNumber = note
	v.Velocity = vel
	v.SavedEvent = ev
	v.havePrevNote = true

	if !v.Active {
		v.AmpEG.NoteOn(vel, note)
		if v.UseAuxEG {
			v.AuxEG.NoteOn()
		}
		for _, osc := range v.Oscillators {
			if osc != nil {
				osc.NoteOn(note, vel)
			}
		}
	}
	v.DCA.NoteOn(vel)
	v.Active = true
	v.NoteState = midi.NoteOn
}

// DoNoteOff forwards note-off to every module and sets NoteState; the
// amplitude envelope's Release stage drives the actual retirement.
func (v *Voice) DoNoteOff(ev midi.Event) {
	held := v.sustainPedalHeld
	if v.Shared != nil {
		held = v.Shared.SustainPedal
	}
	v.AmpEG.NoteOff(held)
	if v.UseAuxEG {
		v.AuxEG.NoteOff()
	}
	for _, osc := range v.Oscillators {
		if osc != nil {
			osc.NoteOff()
		}
	}
	v.NoteState = midi.NoteOff
}

// Shutdown forces the amplitude envelope's fast ramp-to-zero used to
// retire a voice being stolen, latching the incoming note-on so it is
// consumed atomically once the ramp reaches Off.
func (v *Voice) Shutdown(pending midi.Event) {
	v.AmpEG.Shutdown()
	ev := pending
	v.PendingSteal = &ev
}

// Update recomputes per-block derived settings sourced from the
// shared MIDI record: pitch bend, sustain pedal, and LFO BPM sync.
func (v *Voice) Update() {
	if v.Shared == nil {
		return
	}
	wasHeld := v.sustainPedalHeld
	v.sustainPedalHeld = v.Shared.SustainPedal
	if wasHeld && !v.sustainPedalHeld {
		v.AmpEG.SustainPedalReleased()
	}
	if v.LFO1.Mode == lfo.ModeSync {
		v.LFO1.SyncToBPM(v.Shared.BPM, 0.5)
	}
}

func (v *Voice) pitchBendSemitones() float64 {
	if v.Shared == nil {
		return 0
	}
	return v.Shared.PitchBendSemitones(v.PitchBendRangeSemi)
}

// RenderBlock runs the full per-block pipeline described in spec
// §4.1: clear the mix buffer, step every modulator, run the mod
// matrix, render the oscillator(s), route through the filters and
// DCA, and finally check the amplitude envelope for retirement or a
// deferred steal.
func (v *Voice) RenderBlock(frames int) {
	if frames > audiobuf.BlockSize {
		frames = audiobuf.BlockSize
	}
	v.Output.Clear(frames)
	if !v.Active || frames == 0 {
		return
	}

	var auxNormal, auxBiased float64
	for i := 0; i < frames; i++ {
		v.ampEnv[i] = v.AmpEG.Step()
		if v.UseAuxEG {
			auxNormal, auxBiased = v.AuxEG.Step()
		}
		v.LFO1.Step(v.SampleRate)
		if v.UseLFO2 {
			v.LFO2.Step(v.SampleRate)
		}
	}

	if v.UseWaveSeq {
		v.lastWSOut = v.WaveSeq.Render(frames)
	}

	v.depositModOutputs(frames, auxNormal, auxBiased)
	v.Matrix.Run()
	v.applyModDestinations()

	note := v.currentNote(frames)
	v.renderOscillators(frames, note)

	for i := 0; i < frames; i++ {
		l, r := v.mixBuf.L[i], v.mixBuf.R[i]
		switch v.FilterRoute {
		case FilterParallel:
			l1, r1 := v.filt1.process(l, r, v.SampleRate)
			l2, r2 := v.filt2.process(l, r, v.SampleRate)
			l, r = (l1+l2)*0.5, (r1+r2)*0.5
		default: // FilterSeries
			l, r = v.filt1.process(l, r, v.SampleRate)
			l, r = v.filt2.process(l, r, v.SampleRate)
		}
		ol, or := v.DCA.ProcessStereo(l, r, v.ampEnv[i], v.Pan+v.Mods.Inputs[modulation.InDCAPan])
		v.Output.L[i] = ol
		v.Output.R[i] = or
	}

	if v.AmpEG.State == envelope.Off {
		if v.PendingSteal != nil {
			pending := *v.PendingSteal
			v.PendingSteal = nil
			v.DoNoteOn(pending)
		} else {
			v.Active = false
			v.AgeTimestamp = 0
		}
	}
}

func (v *Voice) depositModOutputs(frames int, auxNormal, auxBiased float64) {
	mods := &v.Mods
	mods.Outputs[modulation.OutEGNormal] = v.ampEnv[frames-1]
	mods.Outputs[modulation.OutEGBiased] = v.ampEnv[frames-1] - v.AmpEG.SustainLevel
	if v.UseAuxEG {
		mods.Outputs[modulation.OutAuxEGNormal] = auxNormal
		mods.Outputs[modulation.OutAuxEGBiased] = auxBiased
	}
	mods.Outputs[modulation.OutLFONormal] = v.LFO1.Normal
	mods.Outputs[modulation.OutLFOInverted] = v.LFO1.Inverted
	mods.Outputs[modulation.OutLFOUnipolarFromMax] = v.LFO1.UnipolarFromMax
	mods.Outputs[modulation.OutLFOUnipolarFromMin] = v.LFO1.UnipolarFromMin
	if v.UseLFO2 {
		mods.Outputs[modulation.OutUniqueMod] = v.LFO2.Normal
	}
	if v.UseWaveSeq {
		ws := v.lastWSOut
		mods.Outputs[modulation.OutWSMixA] = ws.WaveMixA
		mods.Outputs[modulation.OutWSMixB] = ws.WaveMixB
		mods.Outputs[modulation.OutWSIndexA] = ws.WaveIndexA
		mods.Outputs[modulation.OutWSIndexB] = ws.WaveIndexB
		mods.Outputs[modulation.OutWSAmpA] = ws.WaveAmpModA
		mods.Outputs[modulation.OutWSAmpB] = ws.WaveAmpModB
		mods.Outputs[modulation.OutWSPitchA] = ws.PitchModA
		mods.Outputs[modulation.OutWSPitchB] = ws.PitchModB
		mods.Outputs[modulation.OutWSStep] = ws.StepSeqMod
		mods.Outputs[modulation.OutWSXFadeDone] = ws.XFadeDone
		mods.Outputs[modulation.OutWSStepNumberA] = float64(ws.WaveStepNumberA)
		mods.Outputs[modulation.OutWSStepNumberB] = float64(ws.WaveStepNumberB)
	}
}

func (v *Voice) applyModDestinations() {
	cutoffMod := v.Mods.Inputs[modulation.InFilterCutoff]
	resMod := v.Mods.Inputs[modulation.InFilterResonance]
	octaves := v.FilterModOctaves
	if octaves == 0 {
		octaves = 2
	}
	cutoff1 := clampCutoff(v.Filter1BaseCutoffHz*math.Pow(2, cutoffMod*octaves), v.SampleRate)
	cutoff2 := clampCutoff(v.Filter2BaseCutoffHz*math.Pow(2, cutoffMod*octaves), v.SampleRate)
	v.filt1.configure(v.Filter1Mode, cutoff1, clamp01(v.Filter1BaseResonance+resMod))
	v.filt2.configure(v.Filter2Mode, cutoff2, clamp01(v.Filter2BaseResonance+resMod))

	v.DCA.BaseGain = v.BaseGain + v.Mods.Inputs[modulation.InDCAAmp]*v.DCAAmpModDepth

	morphMod := v.Mods.Inputs[modulation.InWaveMorphMod]
	shapeMod := v.Mods.Inputs[modulation.InShape]
	for _, osc := range v.Oscillators {
		switch c := osc.(type) {
		case *oscillator.Morph:
			c.MorphMod = morphMod
		case *oscillator.Classic:
			c.Shape = clampBipolar(shapeMod)
		}
	}
}

func (v *Voice) currentNote(frames int) float64 {
	for i := 0; i < frames && v.glide.active; i++ {
		v.currentNoteFloat = v.glide.tick()
	}
	return v.currentNoteFloat
}

func (v *Voice) renderOscillators(frames int, note float64) {
	v.mixBuf.Clear(frames)

	switch v.Family {
	case FamilyFM:
		if v.Oscillators[0] == nil {
			return
		}
		var tmpL, tmpR [audiobuf.BlockSize]float64
		freq := v.oscFrequency(note, 0)
		v.Oscillators[0].Render(tmpL[:frames], tmpR[:frames], frames, freq)
		for i := 0; i < frames; i++ {
			v.mixBuf.L[i] += tmpL[i]
			v.mixBuf.R[i] += tmpR[i]
		}

	case FamilyWaveSequencer:
		v.renderWaveSequencerOscillators(frames, note)

	default: // FamilyMultiOsc
		var tmpL, tmpR [audiobuf.BlockSize]float64
		for k := 0; k < 4; k++ {
			osc := v.Oscillators[k]
			if osc == nil {
				continue
			}
			gain := v.OscMixGain[k]
			if gain == 0 {
				gain = 0.25
			}
			freq := v.oscFrequency(note, k)
			osc.Render(tmpL[:frames], tmpR[:frames], frames, freq)
			for i := 0; i < frames; i++ {
				v.mixBuf.L[i] += tmpL[i] * gain
				v.mixBuf.R[i] += tmpR[i] * gain
			}
		}
		v.applyDCBlocker(frames)
	}
}

func (v *Voice) renderWaveSequencerOscillators(frames int, note float64) {
	oscA, oscB := v.Oscillators[0], v.Oscillators[1]
	if oscA == nil || oscB == nil {
		return
	}
	ws := v.lastWSOut
	setWaveIndex(oscA, ws.WaveIndexA)
	setWaveIndex(oscB, ws.WaveIndexB)

	freqA := v.oscFrequency(note+ws.PitchModA, 0)
	freqB := v.oscFrequency(note+ws.PitchModB, 1)

	var aL, aR, bL, bR [audiobuf.BlockSize]float64
	oscA.Render(aL[:frames], aR[:frames], frames, freqA)
	oscB.Render(bL[:frames], bR[:frames], frames, freqB)

	gA := 0.5 * ws.WaveMixA
	gB := 0.5 * ws.WaveMixB
	for i := 0; i < frames; i++ {
		v.mixBuf.L[i] += aL[i]*gA + bL[i]*gB
		v.mixBuf.R[i] += aR[i]*gA + bR[i]*gB
	}
}

// setWaveIndex selects a precise table position for the morphing
// wavetable core; other core types ignore the wave-sequencer's index
// lane, since their pitch already determines table selection.
func setWaveIndex(osc oscillator.Core, index float64) {
	if m, ok := osc.(*oscillator.Morph); ok {
		m.MorphStart = index
		m.MorphMod = 0
	}
}

// applyDCBlocker runs a one-pole DC blocker over the multi-osc mix
// buffer, matching the four-oscillator family's "summed at 1/4 gain
// with a DC blocker" routing.
func (v *Voice) applyDCBlocker(frames int) {
	const r = 0.995
	for i := 0; i < frames; i++ {
		xl := v.mixBuf.L[i]
		yl := xl - v.dcPrevInL + r*v.dcPrevOutL
		v.dcPrevInL, v.dcPrevOutL = xl, yl
		v.mixBuf.L[i] = yl

		xr := v.mixBuf.R[i]
		yr := xr - v.dcPrevInR + r*v.dcPrevOutR
		v.dcPrevInR, v.dcPrevOutR = xr, yr
		v.mixBuf.R[i] = yr
	}
}

// oscFrequency computes an oscillator slot's pitch from the voice's
// current note, pitch bend, master/coarse/fine tuning, and unison
// detune, per spec §4.4's classic-core pitch formula.
func (v *Voice) oscFrequency(noteNumber float64, oscIndex int) float64 {
	semis := v.pitchBendSemitones() + v.MasterTuneSemitones + v.UnisonCents/100.0 +
		v.CoarseSemitones[oscIndex] + v.FineSemitones[oscIndex]/100.0
	freq := midi.FreqFromNote(noteNumber) * math.Pow(2, semis/12.0)
	return clampOscFreq(freq)
}

func clampOscFreq(f float64) float64 {
	if f < 8.176 {
		return 8.176
	}
	if f > 20000 {
		return 20000
	}
	return f
}

func clampCutoff(f, sampleRate float64) float64 {
	if f < 20 {
		return 20
	}
	max := sampleRate * 0.45
	if max <= 0 {
		max = 20000
	}
	if f > max {
		return max
	}
	return f
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampBipolar(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
