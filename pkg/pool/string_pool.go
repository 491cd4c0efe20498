package pool

import "bytes"

// StringId identifies an entry in a StringPool. Zero always means absent.
type StringId uint32

// StringPool is an append-only arena of NUL-terminated byte strings, shared
// by every property in a store that needs variable-length text. Strings
// are de-duplicated on insert and never removed individually; space is
// reclaimed only by Clear.
type StringPool struct {
	data []byte
}

// Find returns the id of value if it is already present, or 0 if not. A
// match requires the value to be followed by a NUL in the arena, so a
// string can never be confused with a prefix of a longer one.
func (p *StringPool) Find(value string) StringId {
	if len(value) == 0 {
		return 0
	}
	needle := []byte(value)
	offset := 0
	for offset < len(p.data) {
		idx := bytes.Index(p.data[offset:], needle)
		if idx < 0 {
			return 0
		}
		start := offset + idx
		end := start + len(needle)
		if end < len(p.data) && p.data[end] == 0 {
			return StringId(start + 1)
		}
		offset = start + 1
	}
	return 0
}

// Add appends value plus a terminating NUL and returns its new id.
func (p *StringPool) Add(value string) StringId {
	id := StringId(len(p.data) + 1)
	p.data = append(p.data, value...)
	p.data = append(p.data, 0)
	return id
}

// FindOrAdd returns the existing id for value, interning it first if
// necessary.
func (p *StringPool) FindOrAdd(value string) StringId {
	if id := p.Find(value); id != 0 {
		return id
	}
	return p.Add(value)
}

// Get returns the string stored at id, or ok=false if id is 0 or invalid.
func (p *StringPool) Get(id StringId) (value string, ok bool) {
	if id == 0 {
		return "", false
	}
	start := int(id) - 1
	if start < 0 || start >= len(p.data) {
		return "", false
	}
	end := bytes.IndexByte(p.data[start:], 0)
	if end < 0 {
		return "", false
	}
	return string(p.data[start : start+end]), true
}

// Clear truncates the pool to empty.
func (p *StringPool) Clear() {
	p.data = p.data[:0]
}

// Clone returns an independent copy of the pool, used by copy-on-write
// store cloning.
func (p *StringPool) Clone() StringPool {
	return StringPool{data: append([]byte(nil), p.data...)}
}

// Len reports the size of the underlying arena in bytes, mainly for tests
// and diagnostics.
func (p *StringPool) Len() int {
	return len(p.data)
}
