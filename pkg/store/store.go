// Package store implements Store (spec component C5): the owner of one
// persisted unit's root-data bytes, its StringPool and ArrayPool, its
// dirty flag, and its updater count. Store never decides caching or
// locking policy — that is pkg/cache's job — it only knows how to hold,
// clear, and clone its own bytes. Persisting them (commit) is done by
// pkg/cache through a format.Format.
package store

import (
	"github.com/cuemby/configdb/pkg/pool"
	"github.com/cuemby/configdb/pkg/schema"
)

// Store owns one store's in-memory state. The zero value is not usable;
// construct with New.
type Store struct {
	Name string
	Info *schema.ObjectInfo

	buf     []byte
	strings pool.StringPool
	arrays  pool.ArrayPool

	dirty    bool
	updaters int
}

// New allocates a store initialized from its schema's default bytes.
func New(name string, info *schema.ObjectInfo) *Store {
	s := &Store{Name: name, Info: info}
	s.resetToDefaults()
	return s
}

func (s *Store) resetToDefaults() {
	s.buf = make([]byte, s.Info.StructSize)
	if s.Info.Default != nil {
		copy(s.buf, s.Info.Default)
	}
	s.strings = pool.StringPool{}
	s.arrays = pool.ArrayPool{}
}

// Bytes returns the root data buffer. Implements object.Data.
func (s *Store) Bytes() []byte { return s.buf }

// Strings returns the store's string pool. Implements object.Data.
func (s *Store) Strings() *pool.StringPool { return &s.strings }

// Arrays returns the store's array pool. Implements object.Data.
func (s *Store) Arrays() *pool.ArrayPool { return &s.arrays }

// Dirty reports whether the store has unpersisted mutations.
func (s *Store) Dirty() bool { return s.dirty }

// MarkDirty flags the store as having unpersisted mutations. Neither
// Store, pkg/object nor the cache's Updater sets this flag when a
// property is written; code that mutates a store through an Updater
// calls MarkDirty itself, and an unmarked store is not committed on
// release.
func (s *Store) MarkDirty() { s.dirty = true }

// ClearDirty resets the dirty flag, e.g. after a successful commit or a
// reload from defaults.
func (s *Store) ClearDirty() { s.dirty = false }

// Updaters returns the current updater refcount.
func (s *Store) Updaters() int { return s.updaters }

// Retain increments the updater refcount, returning the new count.
func (s *Store) Retain() int {
	s.updaters++
	return s.updaters
}

// Release decrements the updater refcount, returning the new count. It
// never goes below zero.
func (s *Store) Release() int {
	if s.updaters > 0 {
		s.updaters--
	}
	return s.updaters
}

// Clear re-initializes the store to its schema defaults, empties both
// pools, and marks the store dirty. It does not check whether the store
// is held for update, and neither does pkg/cache.
func (s *Store) Clear() {
	s.resetToDefaults()
	s.dirty = true
}

// Clone performs the deep copy the cache/lock manager uses for
// copy-on-write: a new Store with its own buffer and pool contents,
// sharing only the immutable schema pointer.
func (s *Store) Clone() *Store {
	c := &Store{Name: s.Name, Info: s.Info, dirty: s.dirty}
	c.buf = append([]byte(nil), s.buf...)
	c.strings = s.strings.Clone()
	c.arrays = s.arrays.Clone()
	return c
}
