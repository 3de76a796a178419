// Package selection holds the working set of endpoints the user has marked
// for export. The set has map semantics keyed by a composite selection key
// and preserves insertion order, which drives summary output order.
package selection

import (
	"strings"

	"github.com/studiowebux/postdash/internal/extract"
)

// keyDelimiter separates the key segments. The unit separator cannot appear
// in collection names, paths, or methods coming off the wire.
const keyDelimiter = "\x1f"

// Entry is one selected endpoint together with its originating collection
type Entry struct {
	Endpoint   extract.Endpoint
	Collection string
}

// Key derives the selection key for an endpoint within a collection:
// collection name, normalized path, and method. When the remote item has a
// stable id it is appended as a fourth segment so two requests differing
// only by body or headers do not collapse into one entry.
func Key(collection string, e extract.Endpoint) string {
	parts := []string{collection, e.NormalizedPath, e.Method}
	if e.ID != "" {
		parts = append(parts, e.ID)
	}
	return strings.Join(parts, keyDelimiter)
}

// Set is an insertion-ordered mapping of selection keys to entries
type Set struct {
	entries map[string]Entry
	order   []string
}

// NewSet creates an empty selection set
func NewSet() *Set {
	return &Set{
		entries: make(map[string]Entry),
	}
}

// Select inserts an endpoint. Re-selecting an existing key replaces the
// stored descriptor but keeps the entry's original position.
func (s *Set) Select(e extract.Endpoint, collection string) string {
	key := Key(collection, e)
	if _, ok := s.entries[key]; !ok {
		s.order = append(s.order, key)
	}
	s.entries[key] = Entry{Endpoint: e, Collection: collection}
	return key
}

// Deselect removes an entry by key. Removing an absent key is a no-op.
func (s *Set) Deselect(key string) {
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// SelectMany applies Select or Deselect to every endpoint in the list. This
// is how a folder checkbox toggles all descendants: after the call the set
// reflects either all-in or all-out for the given endpoints.
func (s *Set) SelectMany(endpoints []extract.Endpoint, collection string, selected bool) {
	for _, e := range endpoints {
		if selected {
			s.Select(e, collection)
		} else {
			s.Deselect(Key(collection, e))
		}
	}
}

// Has reports whether a key is currently selected
func (s *Set) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Clear empties the set
func (s *Set) Clear() {
	s.entries = make(map[string]Entry)
	s.order = nil
}

// Size returns the current entry count
func (s *Set) Size() int {
	return len(s.entries)
}

// Entries returns all entries in insertion order
func (s *Set) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.entries[key])
	}
	return out
}

// Keys returns all selection keys in insertion order
func (s *Set) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
