package oscillator

import "github.com/cbegin/polyvoice-go/internal/ks"

// KarplusStrong is the plucked-string core, wrapping a ks.Resonator
// behind the Core contract.
type KarplusStrong struct {
	Model    ks.BodyModel
	Decay    float64
	PluckPos float64
	SoftClip bool
	Pan      float64

	res        ks.Resonator
	sampleRate float64
}

func (k *KarplusStrong) Reset(sampleRate float64) {
	k.sampleRate = sampleRate
	k.res.Reset()
}

func (k *KarplusStrong) NoteOn(noteNumber, velocity uint8) {
	k.res.Model = k.Model
	k.res.Decay = k.Decay
	k.res.PluckPos = k.PluckPos
	k.res.SoftClip = k.SoftClip
	k.res.Reset()
	k.res.Pluck()
}

func (k *KarplusStrong) NoteOff() {}

func (k *KarplusStrong) Render(outL, outR []float64, frames int, freqHz float64) {
	freqHz = clampFreq(freqHz)
	k.res.SetFundamental(freqHz, k.sampleRate)

	for i := 0; i < frames; i++ {
		sample := k.res.Next()
		l, r := PanStereo(sample, k.Pan)
		outL[i] = l
		outR[i] = r
	}
}
