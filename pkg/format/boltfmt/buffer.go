package boltfmt

import (
	"bytes"
	"io"

	"github.com/cuemby/configdb/pkg/format"
	"github.com/cuemby/configdb/pkg/format/jsontree"
	"github.com/cuemby/configdb/pkg/object"
)

// writeToBuf renders root via jsontree's writer into an in-memory
// buffer, which ExportStore then hands to bbolt as a value.
func writeToBuf(dst *[]byte, root object.Cursor, opts format.Options) (int, error) {
	var buf bytes.Buffer
	n, err := jsontree.WriteCursor(&buf, root, opts)
	*dst = buf.Bytes()
	return n, err
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}
