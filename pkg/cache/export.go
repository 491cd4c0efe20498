package cache

import (
	"fmt"
	"io"

	"github.com/cuemby/configdb/pkg/format"
	"github.com/cuemby/configdb/pkg/format/jsontree"
	"github.com/cuemby/configdb/pkg/metrics"
)

// ExportAllTo streams every store in the database to w as one JSON
// document keyed by store name, in schema declaration order, per
// spec.md §4.7's "the database-level export wraps each store's tree in
// an enclosing container keyed by that store's name". This is an ad hoc
// external export independent of the Database's own configured Format:
// it always uses the reference jsontree encoding, since the point is a
// single human-readable snapshot, not the durable per-store persistence
// jsontree.Format also happens to implement.
func (d *Database) ExportAllTo(w io.Writer) (int, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ExportDuration)

	cw := &countingWriter{w: w}
	if _, err := io.WriteString(cw, "{"); err != nil {
		return cw.n, err
	}
	for i, st := range d.schema.Stores {
		if i > 0 {
			if _, err := io.WriteString(cw, ","); err != nil {
				return cw.n, err
			}
		}
		if _, err := fmt.Fprintf(cw, "%q:", st.Name); err != nil {
			return cw.n, err
		}
		ref, err := d.OpenStore(st.Name)
		if err != nil {
			return cw.n, err
		}
		_, err = jsontree.WriteCursor(cw, ref.Root(), format.Options{RootStyle: format.RootHidden})
		ref.Release()
		if err != nil {
			return cw.n, err
		}
	}
	_, err := io.WriteString(cw, "}")
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
