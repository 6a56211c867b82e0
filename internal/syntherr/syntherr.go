// Package syntherr defines the recoverable error kinds the core can
// surface from load-time and registration paths. None of these ever
// escape render or ProcessEvent; they are always handled locally.
package syntherr

import "errors"

var (
	// ErrTableNotFound means a requested waveform name is absent from
	// the wavetable database. The oscillator falls back to silence.
	ErrTableNotFound = errors.New("syntherr: wavetable not found")

	// ErrSampleNotFound means no PCM sample covers the requested note.
	ErrSampleNotFound = errors.New("syntherr: pcm sample not found")

	// ErrVoiceUnavailable means poly allocation failed to find or
	// steal a voice (an empty voice pool).
	ErrVoiceUnavailable = errors.New("syntherr: no voice available")

	// ErrNoteOffOrphan means a note-off arrived for a pitch no voice
	// is currently playing.
	ErrNoteOffOrphan = errors.New("syntherr: note-off has no matching voice")

	// ErrMalformedWav means a RIFF parse failed or an unsupported
	// sub-format was encountered.
	ErrMalformedWav = errors.New("syntherr: malformed wav data")

	// ErrDuplicateRegistration means a wavetable or sample name
	// collided with an existing registry entry; the existing entry
	// wins and the new one is rejected.
	ErrDuplicateRegistration = errors.New("syntherr: duplicate registration")
)
