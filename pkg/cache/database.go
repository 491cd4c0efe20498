// Package cache implements the cache and lock manager (C6): a single
// read-cache slot and a single write-cache slot per Database, per-store
// live-updater tracking for conflict detection, a FIFO deferred-update
// queue, lazy load through a format.Format, and idle eviction.
//
// Every invariant spec.md §5 describes for a single-threaded cooperative
// event loop (no suspension mid-mutation, FIFO queued updates, exactly
// one active mutator per store) is realized here as a dedicated
// goroutine per Database draining a `chan func()` work queue, grounded
// on pkg/scheduler.Scheduler's run/select/stopCh loop shape. Callers on
// arbitrary goroutines invoke Database methods, which post a closure to
// the loop and block for its result, giving synchronous semantics atop
// that single serialized goroutine.
package cache

import (
	"fmt"
	"sync"

	"github.com/cuemby/configdb/pkg/format"
	"github.com/cuemby/configdb/pkg/log"
	"github.com/cuemby/configdb/pkg/metrics"
	"github.com/cuemby/configdb/pkg/schema"
	"github.com/cuemby/configdb/pkg/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// rootStoreName is the well-known sentinel naming the schema's root
// store, per spec.md §6 ("the root store's name is a well-known
// sentinel, e.g. _root").
const rootStoreName = "_root"

// queuedUpdate is one deferred callback waiting for a store to become
// free, tagged with a correlation id for log lines that tie a queued
// request to its eventual resolution.
type queuedUpdate struct {
	id string
	fn func(*Updater)
}

// entry is the cache/lock manager's per-store bookkeeping: the live
// writer instance (if any), the count of open plain references, and
// the FIFO queue of deferred update callbacks.
type entry struct {
	info   *schema.ObjectInfo
	refs   int
	writer *store.Store
	queue  []queuedUpdate
}

// Database is the cache and lock manager for one schema.Database,
// persisting through a configured format.Format. Construct with Open;
// call Close when done so its loop goroutine exits.
type Database struct {
	schema *schema.Database
	fmt    format.Format
	logger zerolog.Logger

	work    chan func()
	stopCh  chan struct{}
	stopped sync.WaitGroup

	entries map[string]*entry

	readSlotName  string
	readSlot      *store.Store
	writeSlotName string
	writeSlot     *store.Store
}

// Open starts a Database's loop goroutine bound to sch and persisted
// through f. Every store named in sch is registered but not loaded;
// loading is lazy, on first OpenStore/OpenStoreForUpdate.
func Open(sch *schema.Database, f format.Format) *Database {
	d := &Database{
		schema:  sch,
		fmt:     f,
		logger:  log.WithDatabase(sch.Name),
		work:    make(chan func()),
		stopCh:  make(chan struct{}),
		entries: make(map[string]*entry, len(sch.Stores)),
	}
	for _, st := range sch.Stores {
		d.entries[st.Name] = &entry{info: st.Root}
	}
	d.stopped.Add(1)
	go d.loop()
	metrics.StoresOpen.Inc()
	return d
}

func (d *Database) loop() {
	defer d.stopped.Done()
	for {
		select {
		case fn := <-d.work:
			fn()
		case <-d.stopCh:
			return
		}
	}
}

// Close stops the loop goroutine. Any callbacks still in a store's
// deferred-update queue are dropped, never invoked, per spec.md §5's
// "if the database is destroyed, all queued callbacks... are pruned".
// Close is single-use: a second call panics on the already-closed
// stop channel.
func (d *Database) Close() {
	close(d.stopCh)
	d.stopped.Wait()
	metrics.StoresOpen.Dec()
}

// post runs fn on the loop goroutine and blocks until it completes.
func (d *Database) post(fn func()) {
	done := make(chan struct{})
	d.work <- func() { fn(); close(done) }
	<-done
}

// call runs fn on the loop goroutine and returns its result.
func call[T any](d *Database, fn func() T) T {
	reply := make(chan T, 1)
	d.work <- func() { reply <- fn() }
	return <-reply
}

func (d *Database) entryFor(name string) (*entry, error) {
	e, ok := d.entries[name]
	if !ok {
		return nil, fmt.Errorf("configdb: unknown store %q", name)
	}
	return e, nil
}

// OpenStore returns a read-only StoreRef for name, lazily loading it
// from the configured Format (or resetting to schema defaults) on a
// cache miss, per spec.md §4.3's openStore priority order.
func (d *Database) OpenStore(name string) (StoreRef, error) {
	type result struct {
		ref StoreRef
		err error
	}
	res := call(d, func() result {
		ref, err := d.openStoreLocked(name)
		return result{ref, err}
	})
	return res.ref, res.err
}

func (d *Database) openStoreLocked(name string) (StoreRef, error) {
	e, err := d.entryFor(name)
	if err != nil {
		return StoreRef{}, err
	}

	// 1. Write cache hit and clean.
	if d.writeSlotName == name && d.writeSlot != nil && !d.writeSlot.Dirty() {
		var st *store.Store
		if d.writeSlot.Updaters() == 0 {
			st = d.writeSlot
			d.writeSlotName, d.writeSlot = "", nil
		} else {
			st = d.writeSlot.Clone()
		}
		d.readSlotName, d.readSlot = name, st
		e.refs++
		metrics.StoreCacheHitsTotal.WithLabelValues(name).Inc()
		return StoreRef{db: d, name: name, st: st}, nil
	}

	// 2. Read cache hit.
	if d.readSlotName == name && d.readSlot != nil {
		e.refs++
		metrics.StoreCacheHitsTotal.WithLabelValues(name).Inc()
		return StoreRef{db: d, name: name, st: d.readSlot}, nil
	}

	// 3. Miss: evict read cache, load.
	metrics.StoreCacheMissesTotal.WithLabelValues(name).Inc()
	st := d.loadStore(name, e.info)
	d.readSlotName, d.readSlot = name, st
	e.refs++
	metrics.StoreLoadsTotal.WithLabelValues(name).Inc()
	return StoreRef{db: d, name: name, st: st}, nil
}

// OpenStoreForUpdate obtains an Updater for name: a StoreRef with a
// held-for-update refcount. Returns format.ErrUpdateConflict if a
// different writer already holds the store, per spec.md §4.3's
// lockStore algorithm.
func (d *Database) OpenStoreForUpdate(name string) (*Updater, error) {
	type result struct {
		u   *Updater
		err error
	}
	res := call(d, func() result {
		u, err := d.lockStoreLocked(name)
		return result{u, err}
	})
	return res.u, res.err
}

func (d *Database) lockStoreLocked(name string) (*Updater, error) {
	ref, err := d.openStoreLocked(name)
	if err != nil {
		return nil, err
	}
	e, _ := d.entryFor(name)

	if e.writer != nil {
		if e.writer == ref.st {
			// Reentrant: this caller's read already landed on the live
			// writer instance (e.g. nested update within the same call
			// chain). Allow it and drop the redundant plain reference.
			e.refs--
			e.writer.Retain()
			return &Updater{StoreRef: StoreRef{db: d, name: name, st: e.writer}}, nil
		}
		e.refs--
		metrics.UpdateConflictsTotal.WithLabelValues(name).Inc()
		return nil, format.ErrUpdateConflict
	}

	var target *store.Store
	switch {
	case d.writeSlotName == name && d.writeSlot == ref.st:
		target = ref.st
	case e.refs == 1 && d.readSlotName == name && d.readSlot == ref.st:
		// Sole outstanding reference and still the cached snapshot:
		// safe to promote in place without copying. The plain reference
		// openStoreLocked just counted is being consumed into the
		// writer's own hold, so it is released here rather than left
		// outstanding forever.
		target = ref.st
		d.readSlotName, d.readSlot = "", nil
		e.refs--
	default:
		// Copy-on-write: other readers (or a stale cache slot) may still
		// be looking at ref.st, so mutate an independent copy instead.
		target = ref.st.Clone()
		e.refs--
	}

	d.writeSlotName, d.writeSlot = name, target
	e.writer = target
	target.Retain()
	return &Updater{StoreRef: StoreRef{db: d, name: name, st: target}}, nil
}

func (d *Database) releaseRef(name string) {
	e, err := d.entryFor(name)
	if err != nil || e.refs == 0 {
		return
	}
	e.refs--
	d.evictIfIdle(name)
}

func (d *Database) releaseUpdater(name string) {
	e, err := d.entryFor(name)
	if err != nil || e.writer == nil {
		return
	}
	left := e.writer.Release()
	if left > 0 {
		return
	}
	st := e.writer
	if st.Dirty() {
		d.commit(name, st)
	}
	e.writer = nil
	d.pollQueueLocked(name)
	d.evictIfIdle(name)
}

func (d *Database) evictIfIdle(name string) {
	e, err := d.entryFor(name)
	if err != nil || e.refs > 0 || e.writer != nil || len(e.queue) > 0 {
		return
	}
	if d.readSlotName == name {
		d.readSlotName, d.readSlot = "", nil
	}
	if d.writeSlotName == name {
		d.writeSlotName, d.writeSlot = "", nil
	}
}

// QueueUpdate registers fn to run, with its own Updater, as soon as
// name becomes free. If no writer currently holds name, it runs
// immediately rather than waiting for an unrelated release.
func (d *Database) QueueUpdate(name string, fn func(*Updater)) {
	d.post(func() {
		e, err := d.entryFor(name)
		if err != nil {
			return
		}
		id := uuid.NewString()
		e.queue = append(e.queue, queuedUpdate{id: id, fn: fn})
		metrics.UpdateQueueDepth.WithLabelValues(name).Set(float64(len(e.queue)))
		d.logger.Debug().Str("store", name).Str("update_id", id).Msg("update queued")
		if e.writer == nil {
			d.pollQueueLocked(name)
		}
	})
}

func (d *Database) pollQueueLocked(name string) {
	e, err := d.entryFor(name)
	if err != nil || len(e.queue) == 0 {
		return
	}
	next := e.queue[0]
	e.queue = e.queue[1:]
	metrics.UpdateQueueDepth.WithLabelValues(name).Set(float64(len(e.queue)))

	u, err := d.lockStoreLocked(name)
	if err != nil {
		d.logger.Error().Str("store", name).Str("update_id", next.id).Msg("queued update could not acquire store")
		return
	}
	// Run off the loop goroutine: fn is expected to call Updater.Release,
	// which posts back onto this same loop, and the loop goroutine is
	// still inside this very call (not back at its select) until
	// pollQueueLocked returns. Running fn inline here would deadlock.
	go next.fn(u)
}
