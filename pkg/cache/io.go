package cache

import (
	"io"

	"github.com/cuemby/configdb/pkg/format"
	"github.com/cuemby/configdb/pkg/format/jsontree"
	"github.com/cuemby/configdb/pkg/metrics"
)

// ExportStoreTo streams name's current value to w using the reference
// jsontree encoding, independent of the Database's configured durable
// Format. Used by the CLI's ad hoc "export to this path/stdout" command.
func (d *Database) ExportStoreTo(name string, w io.Writer, opts format.Options) (int, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ExportDuration)

	ref, err := d.OpenStore(name)
	if err != nil {
		return 0, err
	}
	defer ref.Release()
	return jsontree.WriteCursor(w, ref.Root(), opts)
}

// ImportStoreFrom updates name by streaming a jsontree document from r
// through the normal schema-walking import path (C9), independent of the
// Database's configured durable Format. Properties named in the document
// are set and arrays named in it are replaced; properties and arrays the
// document does not mention keep their current values. Used by the
// CLI's ad hoc "import from this path/stdin" command.
func (d *Database) ImportStoreFrom(name string, r io.Reader) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ImportDuration)

	u, err := d.OpenStoreForUpdate(name)
	if err != nil {
		return err
	}
	defer u.Release()

	sink := newStoreSink(u.Root())
	if err := jsontree.ReadInto(r, sink); err != nil {
		return err
	}
	u.Store().MarkDirty()
	return nil
}
