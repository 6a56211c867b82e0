// Package voicemanager implements polyphonic voice allocation: the
// note-on/note-off routing across a fixed voice pool, oldest-timestamp
// stealing when the pool is exhausted, and the mono/legato/unison
// polyphony modes layered on top of the plain-poly allocator.
package voicemanager

import (
	"github.com/cbegin/polyvoice-go/internal/midi"
	"github.com/cbegin/polyvoice-go/internal/voice"
)

// Mode selects how incoming note-on events are assigned to voices.
type Mode int

const (
	ModePoly Mode = iota
	ModeMono
	ModeLegato
	ModeUnison
	ModeUnisonLegato
)

// noteSlot tracks which voice (or voices, in unison) currently own a
// sounding or stealing-pending note number, so note-off can find its
// match without scanning every voice's internal state.
type noteSlot struct {
	noteNumber uint8
	voiceIdx   int
	stealing   bool
}

// Manager owns a fixed pool of voices, a shared MIDI record every
// voice reads once per block, and the bookkeeping needed to resolve
// note-off events and steal decisions.
type Manager struct {
	Mode       Mode
	UnisonSize int // number of voices assigned per note-on in unison modes

	voices []*voice.Voice
	shared *voice.SharedState

	age   uint64
	slots []noteSlot

	monoVoice int // index of the single voice used by mono/legato modes
}

// New constructs a Manager over a pre-built, pre-Reset voice pool. The
// caller owns Voice construction (oscillator family, patch parameters)
// since those vary per patch; the manager only handles allocation.
func New(voices []*voice.Voice, mode Mode) *Manager {
	shared := voice.NewSharedState()
	for _, v := range voices {
		v.Shared = shared
	}
	unison := 1
	if mode == ModeUnison || mode == ModeUnisonLegato {
		unison = len(voices)
	}
	return &Manager{
		Mode:       mode,
		UnisonSize: unison,
		voices:     voices,
		shared:     shared,
	}
}

// Shared returns the MIDI record the engine should write pitch-bend,
// sustain-pedal, and tempo updates into once per block, before calling
// Update/Render.
func (m *Manager) Shared() *voice.SharedState { return m.shared }

// Voices exposes the underlying pool for rendering and summing.
func (m *Manager) Voices() []*voice.Voice { return m.voices }

// HandleEvent dispatches one incoming MIDI event to the allocator.
func (m *Manager) HandleEvent(ev midi.Event) {
	switch ev.Message {
	case midi.NoteOn:
		m.noteOn(ev)
	case midi.NoteOff:
		m.noteOff(ev)
	case midi.ControlChange:
		m.controlChange(ev)
	case midi.PitchBend:
		m.shared.PitchBend14 = ev.PitchBend14()
	}
}

func (m *Manager) controlChange(ev midi.Event) {
	switch ev.Data1 {
	case midi.CCSustainPedal:
		m.shared.SustainPedal = ev.Data2 >= 64
	case midi.CCAllNotesOff:
		m.allNotesOff()
	}
}

// allNotesOff synthesizes a velocity-0 note-off for every currently
// sounding or pending-steal pitch on every voice, per spec §8's
// all-notes-off handling.
func (m *Manager) allNotesOff() {
	for _, v := range m.voices {
		if v.Active {
			v.DoNoteOff(midi.Event{Message: midi.NoteOff, Data1: v.NoteNumber, Data2: 0})
		}
		v.PendingSteal = nil
	}
	m.slots = m.slots[:0]
}

func (m *Manager) noteOn(ev midi.Event) {
	switch m.Mode {
	case ModeMono:
		m.monoNoteOn(ev, false)
	case ModeLegato:
		m.monoNoteOn(ev, true)
	case ModeUnison, ModeUnisonLegato:
		m.unisonNoteOn(ev)
	default:
		m.polyNoteOn(ev)
	}
}

func (m *Manager) monoNoteOn(ev midi.Event, legato bool) {
	if m.monoVoice >= len(m.voices) {
		if len(m.voices) == 0 {
			return
		}
		m.monoVoice = 0
	}
	v := m.voices[m.monoVoice]
	if legato && v.Active {
		v.LegatoNoteOn(ev)
	} else {
		v.AgeTimestamp = m.nextAge()
		v.DoNoteOn(ev)
	}
}

func (m *Manager) unisonNoteOn(ev midi.Event) {
	legato := m.Mode == ModeUnisonLegato
	n := m.UnisonSize
	if n <= 0 || n > len(m.voices) {
		n = len(m.voices)
	}
	spread := 0.0
	if n > 1 {
		spread = 50.0 / float64(n-1) // +/-25 cents total spread across the stack
	}
	for i := 0; i < n; i++ {
		v := m.voices[i]
		v.UnisonCents = -25.0 + spread*float64(i)
		if legato && v.Active {
			v.LegatoNoteOn(ev)
		} else {
			v.AgeTimestamp = m.nextAge()
			v.DoNoteOn(ev)
		}
	}
}

// polyNoteOn allocates a free voice, or steals the best candidate
// according to stealCandidate, per spec §8 scenario 2.
func (m *Manager) polyNoteOn(ev midi.Event) {
	if idx := m.findFreeVoice(); idx >= 0 {
		v := m.voices[idx]
		v.AgeTimestamp = m.nextAge()
		v.DoNoteOn(ev)
		m.slots = append(m.slots, noteSlot{noteNumber: ev.Note(), voiceIdx: idx})
		return
	}

	idx := m.stealCandidate()
	if idx < 0 {
		return
	}
	m.voices[idx].Shutdown(ev)
	m.slots = append(m.slots, noteSlot{noteNumber: ev.Note(), voiceIdx: idx, stealing: true})
}

func (m *Manager) findFreeVoice() int {
	for i, v := range m.voices {
		if !v.Active && v.PendingSteal == nil {
			return i
		}
	}
	return -1
}

// stealCandidate picks the already-releasing voice with the oldest
// age timestamp, falling back to the oldest voice overall when none
// are releasing, matching the teacher's "prefer a free slot; else the
// oldest voice already releasing; else the oldest voice overall" order.
func (m *Manager) stealCandidate() int {
	best := -1
	bestReleasing := -1
	for i, v := range m.voices {
		if v.PendingSteal != nil {
			continue
		}
		if best < 0 || v.AgeTimestamp < m.voices[best].AgeTimestamp {
			best = i
		}
		if v.NoteState == midi.NoteOff {
			if bestReleasing < 0 || v.AgeTimestamp < m.voices[bestReleasing].AgeTimestamp {
				bestReleasing = i
			}
		}
	}
	if bestReleasing >= 0 {
		return bestReleasing
	}
	return best
}

func (m *Manager) nextAge() uint64 {
	m.age++
	return m.age
}

// noteOff resolves a note-off against the slot table: an exact,
// non-stealing match wins; otherwise a pending-steal match on the same
// note number is cleared without affecting the voice stealing in; an
// event matching nothing is dropped, per spec §8's note-off resolution
// rule.
func (m *Manager) noteOff(ev midi.Event) {
	if m.Mode == ModeMono || m.Mode == ModeLegato {
		if m.monoVoice < len(m.voices) {
			v := m.voices[m.monoVoice]
			if v.NoteNumber == ev.Note() {
				v.DoNoteOff(ev)
			}
		}
		return
	}
	if m.Mode == ModeUnison || m.Mode == ModeUnisonLegato {
		for _, v := range m.voices {
			if v.NoteNumber == ev.Note() {
				v.DoNoteOff(ev)
			}
		}
		return
	}

	for i := len(m.slots) - 1; i >= 0; i-- {
		s := m.slots[i]
		if s.noteNumber != ev.Note() {
			continue
		}
		if !s.stealing {
			m.voices[s.voiceIdx].DoNoteOff(ev)
			m.slots = append(m.slots[:i], m.slots[i+1:]...)
			return
		}
	}
	// No live match; a pending-steal note-off just removes the bookkeeping
	// entry so it doesn't linger, but leaves the steal itself alone since
	// the incoming note-on already owns that voice's next lifecycle.
	for i := len(m.slots) - 1; i >= 0; i-- {
		if m.slots[i].noteNumber == ev.Note() && m.slots[i].stealing {
			m.slots = append(m.slots[:i], m.slots[i+1:]...)
			return
		}
	}
}

// Update propagates the shared MIDI record to every voice and should
// be called once per block before RenderBlock.
func (m *Manager) Update() {
	for _, v := range m.voices {
		v.Update()
	}
}

// RenderBlock renders every active voice for frames samples. Idle
// voices still clear their output buffer so a naive caller summing
// every voice's Output unconditionally gets silence from them.
func (m *Manager) RenderBlock(frames int) {
	for _, v := range m.voices {
		v.RenderBlock(frames)
	}
	m.resolveCompletedSteals()
}

// resolveCompletedSteals clears the stealing flag on any slot whose
// voice has finished its shutdown ramp and already consumed the
// deferred note-on (PendingSteal went nil from inside Voice.RenderBlock).
// Without this, a steal that completes mid-render would leave its slot
// permanently marked stealing, so a later note-off for that same,
// now-playing note would hit the pending-steal cleanup branch instead
// of actually releasing the voice.
func (m *Manager) resolveCompletedSteals() {
	for i := range m.slots {
		s := &m.slots[i]
		if s.stealing && m.voices[s.voiceIdx].PendingSteal == nil {
			s.stealing = false
		}
	}
}
