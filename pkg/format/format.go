package format

import "github.com/cuemby/configdb/pkg/object"

// RootStyle controls how the outermost container is rendered.
type RootStyle uint8

const (
	RootHidden RootStyle = iota
	RootBraces
	RootNormal
)

// Options configures a single export.
type Options struct {
	Pretty    bool
	RootStyle RootStyle
	RootName  string
}

// ElementKind classifies a parsed token delivered to a Sink.
type ElementKind uint8

const (
	Leaf ElementKind = iota
	ObjectContainer
	ArrayContainer
)

// Sink receives the element stream a Parser produces. The import engine
// (pkg/cache) implements Sink to walk its own object stack in lock-step
// with the parser's nesting, per spec's Import engine (§4.8).
type Sink interface {
	StartElement(level int, key string, hasKey bool, value string, hasValue bool, kind ElementKind) error
	EndElement(level int) error
}

// Format is the external collaborator that durably stores and loads a
// named store, addressed by name rather than by a concrete stream: a
// file-backed Format maps name to a path under its own directory, a
// bolt-backed Format maps name to a bucket in a shared database file.
// Either way, store persistence is this interface's job alone; pkg/cache
// and pkg/store depend only on it, never on a concrete encoding.
type Format interface {
	// Extension returns the filename suffix this Format's files use,
	// e.g. ".json". Backends with no file-per-store notion (boltfmt)
	// return "" and ignore it.
	Extension() string

	// ExportStore durably writes root's current value under name,
	// replacing whatever was previously stored there atomically from
	// the caller's point of view, and returns the number of bytes
	// written to the underlying encoding.
	ExportStore(name string, root object.Cursor, opts Options) (int, error)

	// ImportStore loads the named store's previously exported value
	// and delivers it to sink as an element stream. Returns
	// os.ErrNotExist (wrapped) if name has never been exported.
	ImportStore(name string, sink Sink) error
}
