package effects

// Delay implements a ping-pong delay: the left delay line is fed by
// the right channel's input and the right line by the left channel's
// input, each feeding back into itself. A signal entering on one side
// first surfaces from the opposite side, then keeps bouncing back and
// forth as the feedback decays, instead of echoing on the channel it
// entered on.
type Delay struct {
	bufL, bufR []float32
	pos        int
	feedback   float32
	wet        float32
}

// NewDelay creates a ping-pong delay effect.
// delayMs: delay time in milliseconds
// feedback: feedback amount 0..1
// wet: wet/dry mix 0..1
func NewDelay(sampleRate int, delayMs float64, feedback, wet float32) *Delay {
	samples := int(delayMs * float64(sampleRate) / 1000.0)
	if samples < 1 {
		samples = 1
	}
	return &Delay{
		bufL:     make([]float32, samples),
		bufR:     make([]float32, samples),
		feedback: clamp(feedback, 0, 0.95),
		wet:      clamp(wet, 0, 1),
	}
}

func (d *Delay) Process(l, r float32) (float32, float32) {
	delL := d.bufL[d.pos]
	delR := d.bufR[d.pos]
	d.bufL[d.pos] = r + delL*d.feedback
	d.bufR[d.pos] = l + delR*d.feedback
	d.pos++
	if d.pos >= len(d.bufL) {
		d.pos = 0
	}
	return l*(1-d.wet) + delL*d.wet, r*(1-d.wet) + delR*d.wet
}

func (d *Delay) Reset() {
	for i := range d.bufL {
		d.bufL[i] = 0
		d.bufR[i] = 0
	}
	d.pos = 0
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
