package cache

import (
	"github.com/cuemby/configdb/pkg/object"
	"github.com/cuemby/configdb/pkg/store"
)

// StoreRef is a shared, read-only handle on a store's current snapshot,
// returned by Database.OpenStore. Release it once done; until every
// outstanding StoreRef/Updater on a store is released (and its deferred
// update queue is empty), the store is not eligible for idle eviction.
type StoreRef struct {
	db   *Database
	name string
	st   *store.Store
}

// Store returns the underlying store.Store this reference points at.
func (r StoreRef) Store() *store.Store { return r.st }

// Root returns a navigable cursor over the store's root object.
func (r StoreRef) Root() object.Cursor { return object.Root(r.st, r.st.Info) }

// Release drops this reference.
func (r StoreRef) Release() {
	if r.db == nil {
		return
	}
	r.db.post(func() { r.db.releaseRef(r.name) })
}

// Updater extends StoreRef with a held-for-update count: releasing the
// last Updater on a store commits it (if dirty) through the configured
// Format and polls the store's deferred update queue, per spec.md
// §4.3's Updater release algorithm.
type Updater struct {
	StoreRef
}

// Release decrements the updater refcount; at zero the store commits
// (if dirty) and the next queued update, if any, is granted the lock.
func (u *Updater) Release() {
	if u.db == nil {
		return
	}
	u.db.post(func() { u.db.releaseUpdater(u.name) })
}
