package pcm

import (
	"sort"

	"github.com/google/uuid"

	"github.com/cbegin/polyvoice-go/internal/syntherr"
	"github.com/cbegin/polyvoice-go/internal/synthlog"
)

// Patch is a 128-MIDI-note-slot PCM database. After parsing a folder of
// samples, the highest-indexed existing sample "extends" upward, and
// unfilled lower slots inherit the nearest higher sample — a
// pointer-sharing policy, not a copy.
type Patch struct {
	Name string
	Slots [128]*Sample
}

// AddSample registers a decoded sample at its unity MIDI note.
func (p *Patch) AddSample(s *Sample) {
	note := s.UnityMIDINote
	if note < 0 {
		note = 0
	}
	if note > 127 {
		note = 127
	}
	p.Slots[note] = s
}

// FillGaps propagates each populated slot downward to every unfilled
// lower slot, stopping at the next populated slot, so every note has a
// nearest-higher-sample fallback; slots above the highest populated slot
// take that highest sample.
func (p *Patch) FillGaps() {
	var populated []int
	for i, s := range p.Slots {
		if s != nil {
			populated = append(populated, i)
		}
	}
	if len(populated) == 0 {
		return
	}
	sort.Ints(populated)

	for i := 0; i < populated[0]; i++ {
		p.Slots[i] = p.Slots[populated[0]]
	}
	for k := 0; k < len(populated)-1; k++ {
		lo, hi := populated[k], populated[k+1]
		for n := lo + 1; n < hi; n++ {
			p.Slots[n] = p.Slots[hi]
		}
	}
	top := populated[len(populated)-1]
	for n := top + 1; n < len(p.Slots); n++ {
		p.Slots[n] = p.Slots[top]
	}
}

// Selected returns the sample for the given MIDI note, or
// (nil, ErrSampleNotFound) if no slot (even via fallback) is populated.
func (p *Patch) Selected(note int) (*Sample, error) {
	if note < 0 || note > 127 {
		return nil, syntherr.ErrSampleNotFound
	}
	s := p.Slots[note]
	if s == nil {
		return nil, syntherr.ErrSampleNotFound
	}
	return s, nil
}

// Database is the shared, read-only-after-construction registry of
// named PCM patches.
type Database struct {
	byName   map[string]*Patch
	byHandle map[uuid.UUID]*Patch
	handles  map[string]uuid.UUID
}

func NewDatabase() *Database {
	return &Database{
		byName:   make(map[string]*Patch),
		byHandle: make(map[uuid.UUID]*Patch),
		handles:  make(map[string]uuid.UUID),
	}
}

// Register adds patch under its Name; a colliding name is rejected and
// the existing entry's handle is returned.
func (d *Database) Register(patch *Patch) (uuid.UUID, error) {
	if existing, ok := d.handles[patch.Name]; ok {
		synthlog.WarnLoad("pcm patch name already registered, keeping existing", "name", patch.Name)
		return existing, syntherr.ErrDuplicateRegistration
	}
	h := uuid.New()
	d.byName[patch.Name] = patch
	d.byHandle[h] = patch
	d.handles[patch.Name] = h
	return h, nil
}

func (d *Database) Lookup(name string) (*Patch, error) {
	p, ok := d.byName[name]
	if !ok {
		return nil, syntherr.ErrSampleNotFound
	}
	return p, nil
}
