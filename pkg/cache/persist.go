package cache

import (
	"errors"
	"os"

	"github.com/cuemby/configdb/pkg/format"
	"github.com/cuemby/configdb/pkg/metrics"
	"github.com/cuemby/configdb/pkg/object"
	"github.com/cuemby/configdb/pkg/schema"
	"github.com/cuemby/configdb/pkg/store"
)

// commit persists st's current bytes through the configured Format.
// Called only from the loop goroutine, with st already known Dirty.
func (d *Database) commit(name string, st *store.Store) {
	root := object.Root(st, st.Info)
	_, err := d.fmt.ExportStore(name, root, format.Options{RootStyle: format.RootHidden})
	if err != nil {
		d.logger.Error().Str("store", name).Err(err).Msg("store commit failed")
		return
	}
	st.ClearDirty()
	metrics.StoreCommitsTotal.WithLabelValues(name).Inc()
	d.logger.Debug().Str("store", name).Msg("store committed")
}

// loadStore returns a fresh store.Store for name, populated by importing
// its persisted form through the configured Format. A missing persisted
// form is not an error: the store simply starts at its schema defaults,
// per spec.md §4.9's "no file" row. Any other import failure is logged
// and also falls back to schema defaults, rather than surfacing a
// broken store to every caller that happens to share the cache slot.
func (d *Database) loadStore(name string, info *schema.ObjectInfo) *store.Store {
	st := store.New(name, info)
	sink := newStoreSink(object.Root(st, info))

	err := d.fmt.ImportStore(name, sink)
	switch {
	case err == nil:
		return st
	case errors.Is(err, os.ErrNotExist):
		d.logger.Debug().Str("store", name).Msg("no persisted store found, starting from schema defaults")
		return st
	default:
		d.logger.Warn().Str("store", name).Err(err).Msg("store load failed, resetting to schema defaults")
		return store.New(name, info)
	}
}
