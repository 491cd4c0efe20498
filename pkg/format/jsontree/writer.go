package jsontree

import (
	"io"

	"github.com/cuemby/configdb/pkg/format"
	"github.com/cuemby/configdb/pkg/object"
	"github.com/cuemby/configdb/pkg/schema"
)

// countingWriter tallies bytes written so ExportStore/WriteCursor can
// report a byte count the way the original export_to does, even on a
// partial write that later errors.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) WriteString(s string) error {
	n, err := io.WriteString(c.w, s)
	c.n += n
	return err
}

// jsonWriter walks an object.Cursor tree in the order the export engine
// specifies: all object children first, then all property children,
// emitting JSON text. Go's blocking io.Writer lets this run as an
// ordinary recursive descent rather than the original's resumable
// (object_view, streamPos) frame stack; the visitation order and output
// bytes are identical either way.
type jsonWriter struct {
	cw     *countingWriter
	pretty bool
}

func (w *jsonWriter) indent(depth int) {
	if !w.pretty {
		return
	}
	w.cw.WriteString("\n")
	for i := 0; i < depth; i++ {
		w.cw.WriteString("  ")
	}
}

func (w *jsonWriter) writeKey(name string) {
	w.cw.WriteString("\"")
	w.cw.WriteString(name)
	w.cw.WriteString("\":")
	if w.pretty {
		w.cw.WriteString(" ")
	}
}

// WriteCursor serializes root as a JSON value and writes it to w,
// honoring opts.RootStyle and opts.Pretty, and returns the number of
// bytes written.
func WriteCursor(w io.Writer, root object.Cursor, opts format.Options) (int, error) {
	jw := &jsonWriter{cw: &countingWriter{w: w}, pretty: opts.Pretty}
	var err error
	switch opts.RootStyle {
	case format.RootBraces:
		jw.cw.WriteString("{")
		jw.indent(1)
		jw.writeKey(opts.RootName)
		err = jw.writeValue(root, 1)
		jw.indent(0)
		jw.cw.WriteString("}")
	default: // RootHidden, RootNormal: JSON permits any value at top level
		err = jw.writeValue(root, 0)
	}
	if jw.pretty {
		jw.cw.WriteString("\n")
	}
	return jw.cw.n, err
}

func (w *jsonWriter) writeValue(c object.Cursor, depth int) error {
	switch c.Info().Kind {
	case schema.KindArray:
		return w.writeArray(c, depth)
	case schema.KindObjectArray:
		return w.writeObjectArray(c, depth)
	default: // KindObject, KindUnion (variant resolved transparently by Cursor)
		return w.writeObject(c, depth)
	}
}

func (w *jsonWriter) writeObject(c object.Cursor, depth int) error {
	w.cw.WriteString("{")
	objNames := c.ObjectNames()
	propNames := c.PropertyNames()
	total := len(objNames) + len(propNames)
	i := 0
	for _, name := range objNames {
		child, ok := c.FindObject(name)
		if !ok {
			continue
		}
		w.indent(depth + 1)
		w.writeKey(name)
		if err := w.writeValue(child, depth+1); err != nil {
			return err
		}
		i++
		if i < total {
			w.cw.WriteString(",")
		}
	}
	for _, name := range propNames {
		prop, ok := c.Property(name)
		if !ok {
			continue
		}
		text, ok := prop.JSONValue()
		if !ok {
			continue
		}
		w.indent(depth + 1)
		w.writeKey(name)
		w.cw.WriteString(text)
		i++
		if i < total {
			w.cw.WriteString(",")
		}
	}
	w.indent(depth)
	w.cw.WriteString("}")
	return nil
}

func (w *jsonWriter) writeArray(c object.Cursor, depth int) error {
	w.cw.WriteString("[")
	n := c.ChildCount()
	for i := 0; i < n; i++ {
		item, ok := c.ItemAt(i)
		if !ok {
			continue
		}
		text, ok := item.JSONValue()
		if !ok {
			continue
		}
		w.indent(depth + 1)
		w.cw.WriteString(text)
		if i < n-1 {
			w.cw.WriteString(",")
		}
	}
	w.indent(depth)
	w.cw.WriteString("]")
	return nil
}

func (w *jsonWriter) writeObjectArray(c object.Cursor, depth int) error {
	w.cw.WriteString("[")
	n := c.ChildCount()
	for i := 0; i < n; i++ {
		item, ok := c.ObjectAt(i)
		if !ok {
			continue
		}
		w.indent(depth + 1)
		if err := w.writeObject(item, depth+1); err != nil {
			return err
		}
		if i < n-1 {
			w.cw.WriteString(",")
		}
	}
	w.indent(depth)
	w.cw.WriteString("]")
	return nil
}
