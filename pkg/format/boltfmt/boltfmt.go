// Package boltfmt is the second Format instance (spec's BoltStore
// format): it persists every store's exported tree as a value inside a
// go.etcd.io/bbolt database instead of a file on disk, proving that
// pkg/store and the cache/lock manager depend only on the format.Format
// interface. It reuses pkg/format/jsontree's schema-walking writer and
// Parser-compatible reader for the wire encoding itself (grounded on
// pkg/storage.BoltStore's one-bucket-per-entity layout in the reference
// fleet manager); only the durable storage differs.
package boltfmt

import (
	"fmt"
	"os"

	"github.com/cuemby/configdb/pkg/format"
	"github.com/cuemby/configdb/pkg/format/jsontree"
	"github.com/cuemby/configdb/pkg/object"
	bolt "go.etcd.io/bbolt"
)

// treeKey is the single key holding a store's exported tree bytes within
// its bucket.
var treeKey = []byte("tree")

// Format persists every store as a bucket in one shared bbolt database
// file, keyed by store name.
type Format struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the bbolt database at path.
func Open(path string) (*Format, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, &format.FileError{Path: path, Err: err}
	}
	return &Format{db: db}, nil
}

// Close releases the underlying database file.
func (f *Format) Close() error {
	return f.db.Close()
}

// Extension reports no file-per-store suffix: boltfmt has no such
// notion, since every store shares the one database file.
func (f *Format) Extension() string { return "" }

// ExportStore renders root the same way jsontree does and writes the
// result into name's bucket within a single bbolt write transaction,
// creating the bucket on first use.
func (f *Format) ExportStore(name string, root object.Cursor, opts format.Options) (int, error) {
	var buf []byte
	n, err := writeToBuf(&buf, root, opts)
	if err != nil {
		return n, err
	}
	err = f.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		return b.Put(treeKey, buf)
	})
	if err != nil {
		return n, &format.FileError{Path: name, Err: err}
	}
	return n, nil
}

// ImportStore reads name's bucket and decodes its tree into sink. A
// store with no bucket yet reports a wrapped os.ErrNotExist, matching
// jsontree's "never exported" signal.
func (f *Format) ImportStore(name string, sink format.Sink) error {
	var tree []byte
	err := f.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(name))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get(treeKey)
		if v == nil {
			return os.ErrNotExist
		}
		tree = append(tree, v...) // copy out: bolt's bytes are only valid inside the transaction
		return nil
	})
	if err == os.ErrNotExist {
		return fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	if err != nil {
		return &format.FileError{Path: name, Err: err}
	}
	return jsontree.ReadInto(bytesReader(tree), sink)
}
