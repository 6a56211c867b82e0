// Package pcm implements PCM sample playback: WAV decoding (16/24/32-bit
// int, 32/64-bit float), smpl-chunk loop-point extraction, and the
// 128-note sample-slot database with pointer-sharing across unfilled
// notes.
package pcm

import (
	"encoding/binary"

	"github.com/cbegin/polyvoice-go/internal/syntherr"
)

// LoopMode selects how a PCM core behaves at the end of its buffer.
type LoopMode int

const (
	Sustain LoopMode = iota
	Loop
	OneShot
)

// Sample is one decoded PCM sample: interleaved or mono f64 data plus
// loop metadata extracted from the smpl chunk. Without a smpl chunk the
// unity note is 69 and the loop spans the whole sample; the filename is
// not consulted.
type Sample struct {
	NumChannels   int
	SampleRate    int
	SampleCount   int
	Samples       []float64 // interleaved if NumChannels==2
	LoopStart     int
	LoopEnd       int
	LoopCount     int
	UnityMIDINote int
	LoopModeHint  LoopMode
}

// ParseWAV decodes a RIFF/WAVE byte buffer into a Sample. Malformed
// input (missing RIFF/WAVE markers, unsupported fmt sub-format) returns
// ErrMalformedWav; the caller is expected to log and skip, never panic.
func ParseWAV(data []byte) (*Sample, error) {
	if len(data) < 44 {
		return nil, syntherr.ErrMalformedWav
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, syntherr.ErrMalformedWav
	}

	var (
		numChannels   int
		sampleRate    int
		bitsPerSample int
		audioFormat   uint16
		pcmData       []byte
		smplFound     bool
		loopStart, loopEnd, loopCount, unityNote int
	)

	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		chunkStart := pos + 8
		if chunkStart+chunkSize > len(data) {
			break
		}
		body := data[chunkStart : chunkStart+chunkSize]

		switch chunkID {
		case "fmt ":
			if len(body) < 16 {
				return nil, syntherr.ErrMalformedWav
			}
			audioFormat = binary.LittleEndian.Uint16(body[0:2])
			numChannels = int(binary.LittleEndian.Uint16(body[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
		case "data":
			pcmData = body
		case "smpl":
			if len(body) >= 60 {
				smplFound = true
				unityNote = int(binary.LittleEndian.Uint32(body[12:16]))
				numLoops := int(binary.LittleEndian.Uint32(body[28:32]))
				if numLoops > 0 && len(body) >= 36+24 {
					loopStart = int(binary.LittleEndian.Uint32(body[44:48]))
					loopEnd = int(binary.LittleEndian.Uint32(body[48:52]))
					loopCount = int(binary.LittleEndian.Uint32(body[56:60]))
				}
			}
		}

		pos = chunkStart + chunkSize
		if chunkSize%2 == 1 {
			pos++
		}
	}

	if numChannels == 0 || sampleRate == 0 || pcmData == nil {
		return nil, syntherr.ErrMalformedWav
	}

	samples, err := decodeSamples(pcmData, audioFormat, bitsPerSample)
	if err != nil {
		return nil, err
	}

	frameCount := len(samples) / numChannels

	s := &Sample{
		NumChannels:   numChannels,
		SampleRate:    sampleRate,
		SampleCount:   frameCount,
		Samples:       samples,
		UnityMIDINote: 69,
		LoopModeHint:  Sustain,
	}
	if smplFound {
		s.LoopStart = loopStart
		s.LoopEnd = loopEnd
		s.LoopCount = loopCount
		s.UnityMIDINote = unityNote
		if loopEnd > loopStart {
			s.LoopModeHint = Loop
		}
	} else {
		s.LoopStart = 0
		s.LoopEnd = frameCount
	}
	return s, nil
}

// decodeSamples converts the raw data chunk into normalized float64
// samples for the five supported sub-formats.
func decodeSamples(data []byte, audioFormat uint16, bitsPerSample int) ([]float64, error) {
	const wavFormatPCM = 1
	const wavFormatIEEEFloat = 3

	switch {
	case audioFormat == wavFormatPCM && bitsPerSample == 16:
		n := len(data) / 2
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
			out[i] = float64(v) / 32768.0
		}
		return out, nil
	case audioFormat == wavFormatPCM && bitsPerSample == 24:
		n := len(data) / 3
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			b0, b1, b2 := data[i*3], data[i*3+1], data[i*3+2]
			v := int32(b0) | int32(b1)<<8 | int32(b2)<<16
			if v&0x800000 != 0 {
				v |= ^int32(0xFFFFFF)
			}
			out[i] = float64(v) / 8388608.0
		}
		return out, nil
	case audioFormat == wavFormatPCM && bitsPerSample == 32:
		n := len(data) / 4
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			v := int32(binary.LittleEndian.Uint32(data[i*4 : i*4+4]))
			out[i] = float64(v) / 2147483648.0
		}
		return out, nil
	case audioFormat == wavFormatIEEEFloat && bitsPerSample == 32:
		n := len(data) / 4
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint32(data[i*4 : i*4+4])
			out[i] = float64(float32FromBits(bits))
		}
		return out, nil
	case audioFormat == wavFormatIEEEFloat && bitsPerSample == 64:
		n := len(data) / 8
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
			out[i] = float64FromBits(bits)
		}
		return out, nil
	default:
		return nil, syntherr.ErrMalformedWav
	}
}
