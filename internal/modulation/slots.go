// Package modulation implements the per-voice modulator slot arena and
// the ModMatrix that routes scalar values between producer and consumer
// slots each block. Modules never hold pointers into each other; they
// hold stable indices into a Modulators value owned by the voice.
package modulation

// NumModInputs / NumModOutputs size the fixed slot arrays. Both
// producers and consumers of modulation share the same index space per
// direction; a module exposes the inputs it consumes and the outputs it
// produces as views over the same underlying arrays.
const (
	NumModInputs  = 32
	NumModOutputs = 32
)

// Well-known output slot indices. Not every voice configuration uses
// every slot; unused slots simply stay at zero.
const (
	OutPitchBipolar = iota
	OutUniqueMod
	OutEGNormal
	OutEGBiased
	OutLFONormal
	OutLFOInverted
	OutLFOUnipolarFromMax
	OutLFOUnipolarFromMin
	OutWSMixA
	OutWSMixB
	OutWSIndexA
	OutWSIndexB
	OutWSAmpA
	OutWSAmpB
	OutWSPitchA
	OutWSPitchB
	OutWSStep
	OutWSXFadeDone
	OutWSStepNumberA
	OutWSStepNumberB
	OutEGTrigger
	OutShape
	OutMorph
	OutWaveMorphMod
	OutAuxEGNormal
	OutAuxEGBiased
)

// Well-known input slot indices (destinations the matrix can deposit
// into).
const (
	InPitch = iota
	InShape
	InMorph
	InWaveMorphMod
	InFilterCutoff
	InFilterResonance
	InDCAAmp
	InDCAEGMod
	InDCAPan
	InOscMixLevel
)

// Modulators is the fixed-size slot arena owned by a single voice.
// Inputs holds values a module reads each block; Outputs holds values a
// module produces each block. The ModMatrix reads Outputs and writes
// Inputs.
type Modulators struct {
	Inputs  [NumModInputs]float64
	Outputs [NumModOutputs]float64
}

// Reset zeroes every slot.
func (m *Modulators) Reset() {
	for i := range m.Inputs {
		m.Inputs[i] = 0
	}
	for i := range m.Outputs {
		m.Outputs[i] = 0
	}
}
