package ks

import "math"

// Exciter produces the pluck's initial noise burst, shaped by a short
// attack-hold-release envelope started at note-on.
type Exciter struct {
	AttackSamples  int
	HoldSamples    int
	ReleaseSamples int

	pos    int
	rng    uint32
	active bool
}

func (e *Exciter) Trigger() {
	e.pos = 0
	e.active = true
	if e.rng == 0 {
		e.rng = 0x1234abcd
	}
}

func (e *Exciter) noise() float64 {
	x := e.rng
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	e.rng = x
	return float64(x)/float64(1<<32)*2 - 1
}

// Next returns the next exciter sample and advances its envelope.
func (e *Exciter) Next() float64 {
	if !e.active {
		return 0
	}
	var env float64
	switch {
	case e.pos < e.AttackSamples:
		if e.AttackSamples > 0 {
			env = float64(e.pos) / float64(e.AttackSamples)
		} else {
			env = 1
		}
	case e.pos < e.AttackSamples+e.HoldSamples:
		env = 1
	case e.pos < e.AttackSamples+e.HoldSamples+e.ReleaseSamples:
		rel := e.pos - e.AttackSamples - e.HoldSamples
		env = 1 - float64(rel)/float64(maxInt(1, e.ReleaseSamples))
	default:
		e.active = false
		return 0
	}
	e.pos++
	return e.noise() * env
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// BiteShelf applies a 0-20dB high-shelf boost/cut at ~2kHz,
// approximated with a simple one-pole high-shelf.
type BiteShelf struct {
	GainDB   float64
	prevLP   float64
}

func (b *BiteShelf) Process(x, sampleRate float64) float64 {
	cutoff := 2000.0
	rc := 1.0 / (2 * math.Pi * cutoff)
	dt := 1.0 / sampleRate
	alpha := dt / (rc + dt)
	b.prevLP += alpha * (x - b.prevLP)
	high := x - b.prevLP
	gain := math.Pow(10, b.GainDB/20)
	return b.prevLP + high*gain
}
