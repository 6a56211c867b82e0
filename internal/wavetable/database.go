package wavetable

import (
	"github.com/google/uuid"

	"github.com/cbegin/polyvoice-go/internal/syntherr"
	"github.com/cbegin/polyvoice-go/internal/synthlog"
)

// Database is the shared, read-only-after-construction registry of
// wavetable sets, looked up by name (GUI-facing) or by a stable uuid
// handle (configuration-facing). Registration is one-shot at startup;
// duplicate names are rejected silently, the existing entry wins.
type Database struct {
	byName   map[string]*Set
	byHandle map[uuid.UUID]*Set
	handles  map[string]uuid.UUID
}

// NewDatabase returns an empty, ready-to-populate database.
func NewDatabase() *Database {
	return &Database{
		byName:   make(map[string]*Set),
		byHandle: make(map[uuid.UUID]*Set),
		handles:  make(map[string]uuid.UUID),
	}
}

// Register adds a table set under its Name. If the name is already
// registered, the new set is rejected and the existing handle is
// returned unchanged.
func (d *Database) Register(set *Set) (uuid.UUID, error) {
	if existing, ok := d.handles[set.Name]; ok {
		synthlog.WarnLoad("wavetable set name already registered, keeping existing", "name", set.Name)
		return existing, syntherr.ErrDuplicateRegistration
	}
	h := uuid.New()
	d.byName[set.Name] = set
	d.byHandle[h] = set
	d.handles[set.Name] = h
	return h, nil
}

// Lookup returns the set for name, or (nil, ErrTableNotFound).
func (d *Database) Lookup(name string) (*Set, error) {
	s, ok := d.byName[name]
	if !ok {
		return nil, syntherr.ErrTableNotFound
	}
	return s, nil
}

// LookupHandle returns the set for a stable handle.
func (d *Database) LookupHandle(h uuid.UUID) (*Set, error) {
	s, ok := d.byHandle[h]
	if !ok {
		return nil, syntherr.ErrTableNotFound
	}
	return s, nil
}
