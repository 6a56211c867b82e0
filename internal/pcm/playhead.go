package pcm

// Playhead is the per-voice read cursor over a Sample, applying the
// sample's loop policy as it advances.
type Playhead struct {
	sample    *Sample
	readIndex float64 // in frames; -1 == inactive (OneShot end)
	increment float64
}

// Start begins playback of sample at the given phase increment
// (frames per sample; 1.0 == unity pitch).
func (p *Playhead) Start(sample *Sample, increment float64) {
	p.sample = sample
	p.readIndex = 0
	p.increment = increment
}

// Active reports whether the playhead still has audio to produce.
func (p *Playhead) Active() bool {
	return p.sample != nil && p.readIndex >= 0
}

// NextMono advances the playhead and returns one linearly-interpolated
// mono sample (stereo sources are downmixed by averaging channels).
func (p *Playhead) NextMono() float64 {
	if !p.Active() {
		return 0
	}
	out := p.readAt(p.readIndex)
	p.advance()
	return out
}

// NextStereo advances the playhead and returns (left, right); mono
// sources duplicate to both channels.
func (p *Playhead) NextStereo() (float64, float64) {
	if !p.Active() {
		return 0, 0
	}
	s := p.sample
	if s.NumChannels == 1 {
		v := p.readAt(p.readIndex)
		p.advance()
		return v, v
	}
	l := p.readChannel(p.readIndex, 0)
	r := p.readChannel(p.readIndex, 1)
	p.advance()
	return l, r
}

func (p *Playhead) readAt(index float64) float64 {
	return p.readChannel(index, 0)
}

func (p *Playhead) readChannel(index float64, ch int) float64 {
	ch0, ch1 := p.frame(int(index), ch)
	frac := index - float64(int(index))
	return ch0 + (ch1-ch0)*frac
}

func (p *Playhead) frame(frameIdx, ch int) (float64, float64) {
	s := p.sample
	n := s.SampleCount
	get := func(i int) float64 {
		if i < 0 || i >= n {
			return 0
		}
		if s.NumChannels == 1 {
			return s.Samples[i]
		}
		return s.Samples[i*2+ch]
	}
	return get(frameIdx), get(frameIdx + 1)
}

func (p *Playhead) advance() {
	s := p.sample
	p.readIndex += p.increment

	switch s.LoopModeHint {
	case Loop:
		end := s.LoopEnd
		if end <= s.LoopStart {
			end = s.SampleCount
		}
		span := float64(end - s.LoopStart)
		if span <= 0 {
			span = 1
		}
		if p.readIndex >= float64(end) {
			over := p.readIndex - float64(end)
			p.readIndex = float64(s.LoopStart) + mod(over, span)
		}
	case Sustain:
		end := s.LoopEnd
		if end <= s.LoopStart {
			end = s.SampleCount
		}
		span := float64(end - s.LoopStart)
		if span <= 0 {
			span = 1
		}
		if p.readIndex >= float64(end) {
			over := p.readIndex - float64(end)
			p.readIndex = float64(s.LoopStart) + mod(over, span)
		}
	case OneShot:
		if p.readIndex >= float64(s.SampleCount) {
			p.readIndex = -1
		}
	}
}

func mod(a, m float64) float64 {
	r := a
	for r >= m {
		r -= m
	}
	for r < 0 {
		r += m
	}
	return r
}

// Release signals that the note has gone off; Sustain-mode playheads
// continue from their current position without retriggering.
func (p *Playhead) Release() {
	// Sustain mode needs no state change: it simply keeps advancing
	// from wherever it already is. Loop/OneShot are unaffected by
	// note-off too; the envelope (not the playhead) drives silence.
}
