package cache

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/cuemby/configdb/pkg/format"
	"github.com/cuemby/configdb/pkg/format/jsontree"
	"github.com/cuemby/configdb/pkg/object"
)

// memFormat is an in-memory format.Format test double, standing in for
// jsontree/boltfmt so cache/lock-manager tests don't touch a filesystem
// or bbolt database. It reuses jsontree's writer/reader for its wire
// encoding, same as boltfmt does.
type memFormat struct {
	mu   sync.Mutex
	data map[string][]byte

	failExport map[string]bool
	failImport map[string]bool
}

func newMemFormat() *memFormat {
	return &memFormat{
		data:       make(map[string][]byte),
		failExport: make(map[string]bool),
		failImport: make(map[string]bool),
	}
}

func (f *memFormat) Extension() string { return ".mem" }

func (f *memFormat) ExportStore(name string, root object.Cursor, opts format.Options) (int, error) {
	f.mu.Lock()
	fail := f.failExport[name]
	f.mu.Unlock()
	if fail {
		return 0, &format.FileError{Path: name, Err: fmt.Errorf("induced export failure")}
	}

	var buf bytes.Buffer
	n, err := jsontree.WriteCursor(&buf, root, opts)
	if err != nil {
		return n, err
	}
	f.mu.Lock()
	f.data[name] = buf.Bytes()
	f.mu.Unlock()
	return n, nil
}

func (f *memFormat) ImportStore(name string, sink format.Sink) error {
	f.mu.Lock()
	b, ok := f.data[name]
	fail := f.failImport[name]
	f.mu.Unlock()
	if fail {
		return &format.FileError{Path: name, Err: fmt.Errorf("induced import failure")}
	}
	if !ok {
		return fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	return jsontree.ReadInto(bytes.NewReader(b), sink)
}

func (f *memFormat) commitCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[name]; ok {
		return 1
	}
	return 0
}
