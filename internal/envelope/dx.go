package envelope

import "math"

// dxStage mirrors LinearADSR's states but adds the DX-style Slope
// segment between Decay and Sustain.
type dxStage int

const (
	DXOff dxStage = iota
	DXAttack
	DXDecay
	DXSlope
	DXSustain
	DXRelease
)

// sustainClampGuardrail is preserved for bit-compatibility: when the
// slope segment is effectively instantaneous the envelope value (and so
// both the linear and curved blend paths) is clamped to this level for
// the rest of the sustain segment, avoiding a discontinuity spike.
const sustainClampGuardrail = 0.9

// ADSlSR is the DX-style curved envelope: Attack, Decay, Slope,
// Sustain, Release, with a linear/curved blend controlled by
// Curvature. SustainHold=false selects the ADSlR contour (decay
// straight through release, no sustain hold).
type ADSlSR struct {
	AttackMs    float64
	DecayMs     float64
	DecayLevel  float64
	SlopeMs     float64
	SustainLevel float64
	ReleaseMs   float64
	Curvature   float64 // 0 = linear, 1 = fully curved
	SustainHold bool

	Stage  dxStage
	linear float64

	sampleRate float64
	startLevel float64
}

func (e *ADSlSR) Reset(sampleRate float64) {
	e.sampleRate = sampleRate
	e.Stage = DXOff
	e.linear = 0
}

func (e *ADSlSR) NoteOn() {
	e.startLevel = e.linear
	e.Stage = DXAttack
}

func (e *ADSlSR) NoteOff() {
	if e.Stage != DXOff {
		e.Stage = DXRelease
	}
}

func (e *ADSlSR) Active() bool { return e.Stage != DXOff }

func samplesFor(ms, sampleRate float64) float64 {
	s := ms * sampleRate / 1000.0
	if s < 1 {
		return 1
	}
	return s
}

// Step advances by one sample and returns (EGNormal, EGBiased).
func (e *ADSlSR) Step() (float64, float64) {
	switch e.Stage {
	case DXAttack:
		e.linear += (1 - e.startLevel) / samplesFor(e.AttackMs, e.sampleRate)
		if e.linear >= 1.0 {
			e.linear = 1.0
			e.Stage = DXDecay
		}
	case DXDecay:
		e.linear -= (1 - e.DecayLevel) / samplesFor(e.DecayMs, e.sampleRate)
		if e.linear <= e.DecayLevel {
			e.linear = e.DecayLevel
			if e.SlopeMs <= 0.1 {
				// guardrail: treat a near-instant slope as already
				// having reached its target this sample.
				e.linear = math.Min(e.SustainLevel, sustainClampGuardrail)
				if e.SustainHold {
					e.Stage = DXSustain
				} else {
					e.Stage = DXRelease
				}
			} else {
				e.Stage = DXSlope
			}
		}
	case DXSlope:
		step := (e.SustainLevel - e.DecayLevel) / samplesFor(e.SlopeMs, e.sampleRate)
		e.linear += step
		reached := (step >= 0 && e.linear >= e.SustainLevel) || (step < 0 && e.linear <= e.SustainLevel)
		if reached {
			e.linear = e.SustainLevel
			if e.SustainHold {
				e.Stage = DXSustain
			} else {
				e.Stage = DXRelease
			}
		}
	case DXSustain:
		e.linear = e.SustainLevel
		if e.SlopeMs <= 0.1 {
			e.linear = math.Min(e.SustainLevel, sustainClampGuardrail)
		}
	case DXRelease:
		e.linear -= e.linear / samplesFor(e.ReleaseMs, e.sampleRate)
		if e.linear <= 0.0005 {
			e.linear = 0
			e.Stage = DXOff
		}
	case DXOff:
		e.linear = 0
	}

	curved := dxCurve(e.linear, e.Stage)
	normal := e.Curvature*curved + (1-e.Curvature)*e.linear
	biased := normal - e.SustainLevel
	return normal, biased
}

// dxCurve applies a convex shape on attack and a concave shape on
// decay/release, the DX-style envelope segment shaping.
func dxCurve(linear float64, stage dxStage) float64 {
	switch stage {
	case DXAttack:
		return linear * linear
	case DXDecay, DXSlope, DXRelease:
		return math.Sqrt(math.Max(0, linear))
	default:
		return linear
	}
}
