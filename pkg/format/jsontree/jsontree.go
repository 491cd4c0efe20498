// Package jsontree is the reference Format: one pretty-or-compact JSON
// file per store under a directory, written with atomic replace
// (<name>.json.new staged, previous file kept as <name>.json.old until
// the replace succeeds), matching the external-interfaces filesystem
// layout and the original ConfigDB's default on-disk format.
package jsontree

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cuemby/configdb/pkg/format"
	"github.com/cuemby/configdb/pkg/object"
)

// Extension is the filename suffix every store file carries.
const Extension = ".json"

// Format persists stores as JSON files under a single directory.
type Format struct {
	dir string
}

// New returns a Format rooted at dir. The directory is created lazily on
// the first ExportStore call, not here.
func New(dir string) *Format {
	return &Format{dir: dir}
}

func (f *Format) Extension() string { return Extension }

func (f *Format) path(name string) string {
	return filepath.Join(f.dir, name+Extension)
}

// ExportStore writes root to <name>.json, staging the new content at
// <name>.json.new and swapping it into place only once fully written, so
// a write failure leaves the previous file (if any) intact, per the
// export file write error policy.
func (f *Format) ExportStore(name string, root object.Cursor, opts format.Options) (int, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return 0, &format.FileError{Path: f.dir, Err: err}
	}
	final := f.path(name)
	tmp := final + ".new"
	old := final + ".old"

	fh, err := os.Create(tmp)
	if err != nil {
		return 0, &format.FileError{Path: tmp, Err: err}
	}
	n, werr := WriteCursor(fh, root, opts)
	if werr == nil {
		werr = fh.Sync()
	}
	if cerr := fh.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(tmp)
		return n, &format.FileError{Path: tmp, Err: werr}
	}

	if _, err := os.Stat(final); err == nil {
		if err := os.Rename(final, old); err != nil {
			os.Remove(tmp)
			return n, &format.FileError{Path: final, Err: err}
		}
	}
	if err := os.Rename(tmp, final); err != nil {
		return n, &format.FileError{Path: final, Err: err}
	}
	os.Remove(old)
	return n, nil
}

// ImportStore reads <name>.json and delivers its contents to sink. If
// <name>.json is missing, it falls back to <name>.json.old: a crash
// between the two ExportStore renames leaves the previous commit only
// under the .old name, and that is still the last good value, not an
// absent store. Only when neither file exists is the store reported as
// never exported, wrapped as os.ErrNotExist so callers can fall back to
// schema defaults, per the recovery rule.
func (f *Format) ImportStore(name string, sink format.Sink) error {
	final := f.path(name)
	fh, err := os.Open(final)
	if err != nil {
		if !os.IsNotExist(err) {
			return &format.FileError{Path: final, Err: err}
		}
		old := final + ".old"
		fh, err = os.Open(old)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%s: %w", final, os.ErrNotExist)
			}
			return &format.FileError{Path: old, Err: err}
		}
	}
	defer fh.Close()
	return ReadInto(fh, sink)
}
