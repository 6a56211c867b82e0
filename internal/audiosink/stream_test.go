package audiosink

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	next float32
}

func (s *fakeSource) Process(dst []float32) {
	for i := range dst {
		dst[i] = s.next
		s.next++
	}
}

func TestStreamReaderEncodesLittleEndianFloat32Frames(t *testing.T) {
	src := &fakeSource{}
	r := NewStreamReader(src)

	p := make([]byte, 16) // two stereo frames
	n, err := r.Read(p)
	assert.NoError(t, err)
	assert.Equal(t, 16, n)

	for i, want := range []float32{0, 1, 2, 3} {
		bits := binary.LittleEndian.Uint32(p[i*4:])
		got := math.Float32frombits(bits)
		assert.Equal(t, want, got)
	}
}

func TestStreamReaderZeroFramesReturnsNoBytes(t *testing.T) {
	r := NewStreamReader(&fakeSource{})
	n, err := r.Read(make([]byte, 4)) // less than one 8-byte stereo frame
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStreamReaderNeverSignalsEOF(t *testing.T) {
	src := &fakeSource{}
	r := NewStreamReader(src)
	for i := 0; i < 100; i++ {
		_, err := r.Read(make([]byte, 64))
		assert.NoError(t, err)
	}
}
