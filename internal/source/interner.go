package source

import (
	"slices"
	"sync"

	"fortio.org/safecast"
)

type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates identifier text. Every caller interning the same text
// gets back the same Go string, so tree nodes share one read-only copy.
// It is safe for concurrent use.
type Interner struct {
	mu    sync.RWMutex
	byID  []string // byID[0] is "" for NoStringID
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern stores s (if new) and returns its ID.
func (i *Interner) Intern(s string) StringID {
	i.mu.RLock()
	id, ok := i.index[s]
	i.mu.RUnlock()
	if ok {
		return id
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if id, ok := i.index[s]; ok {
		return id
	}
	// own copy, so the source buffer can be released
	cpy := string([]byte(s))
	n, err := safecast.Conv[uint32](len(i.byID))
	if err != nil {
		panic(err)
	}
	id = StringID(n)
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternString interns s and returns the shared copy.
func (i *Interner) InternString(s string) string {
	return i.MustLookup(i.Intern(s))
}

// Lookup returns the string stored under id.
func (i *Interner) Lookup(id StringID) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup is Lookup that panics on an unknown ID.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Len counts stored strings, NoStringID included.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

func (i *Interner) Snapshot() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byID)
}
