// Package audiosink adapts the engine's block-based renderer to
// ebiten's realtime float32 PCM audio backend: a SampleSource fills a
// flat interleaved buffer on demand, StreamReader turns that into the
// io.Reader ebiten's player wants, and Player is a thin Play/Stop
// wrapper over it.
package audiosink

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// SampleSource fills dst with interleaved stereo float32 samples,
// rendering as many engine blocks as needed to cover it.
type SampleSource interface {
	Process(dst []float32)
}

// StreamReader turns a SampleSource into the little-endian interleaved
// float32 byte stream ebiten's NewPlayerF32 reads from.
type StreamReader struct {
	mu     sync.Mutex
	source SampleSource
	buf    []float32
}

func NewStreamReader(source SampleSource) *StreamReader {
	return &StreamReader{source: source}
}

// Read fills p with as many whole stereo frames (8 bytes: L+R float32)
// as fit, pulling fresh samples from the source every call — the
// engine has no natural end of stream, so Read never returns io.EOF.
func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i := 0; i < need; i++ {
		u := math.Float32bits(r.buf[i])
		binary.LittleEndian.PutUint32(p[i*4:], u)
	}
	return frames * 8, nil
}

func (r *StreamReader) Close() error { return nil }

// Player drives an ebiten audio player over a StreamReader.
type Player struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

// sharedAudioContext lazily creates the one ebiten audio context a
// process may own; ebiten panics if NewContext is called twice, so
// every NewPlayer call after the first reuses it and rejects a
// mismatched sample rate rather than silently resampling.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// NewPlayer wraps source in a StreamReader and opens an ebiten player
// against the shared audio context.
func NewPlayer(sampleRate int, source SampleSource) (*Player, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	return &Player{
		player: pl,
		reader: reader,
	}, nil
}

func (p *Player) Play() { p.player.Play() }

func (p *Player) Stop() error {
	p.player.Pause()
	p.player.Close()
	return p.reader.Close()
}
