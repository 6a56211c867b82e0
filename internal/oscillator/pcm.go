package oscillator

import (
	"math"

	"github.com/cbegin/polyvoice-go/internal/pcm"
)

// PCMPlayer is the PCM sample-playback core, wrapping a pcm.Playhead
// behind the Core contract. Patch supplies the 128-slot keymap (after
// FillGaps, each note holds the nearest sample at or above it, or the
// highest sample for notes above every sample); that sample plays back
// pitch-shifted relative to its unity MIDI note (set Pitchless to play
// every slot's sample at its own native rate, for drum/waveslice
// patches).
type PCMPlayer struct {
	Patch      *pcm.Patch
	Pitchless  bool
	Pan        float64

	head       pcm.Playhead
	sampleRate float64
}

func (p *PCMPlayer) Reset(sampleRate float64) {
	p.sampleRate = sampleRate
}

func (p *PCMPlayer) NoteOn(noteNumber, velocity uint8) {
	if p.Patch == nil {
		return
	}
	s, err := p.Patch.Selected(int(noteNumber))
	if err != nil {
		return
	}
	nativeRatio := float64(s.SampleRate) / p.sampleRate
	increment := nativeRatio
	if !p.Pitchless {
		semitones := float64(int(noteNumber) - s.UnityMIDINote)
		increment = semitoneRatio(semitones) * nativeRatio
	}
	p.head.Start(s, increment)
}

func (p *PCMPlayer) NoteOff() {
	p.head.Release()
}

func (p *PCMPlayer) Render(outL, outR []float64, frames int, freqHz float64) {
	for i := 0; i < frames; i++ {
		if !p.head.Active() {
			outL[i], outR[i] = 0, 0
			continue
		}
		l, r := p.head.NextStereo()
		outL[i], outR[i] = PanStereo((l+r)*0.5, p.Pan)
	}
}

func semitoneRatio(semitones float64) float64 {
	return math.Pow(2, semitones/12)
}
