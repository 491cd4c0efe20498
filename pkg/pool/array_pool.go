package pool

// ArrayId identifies a slot in an ArrayPool. Zero always means absent.
type ArrayId uint32

// ArrayData is a vector of fixed-size items stored as raw bytes; callers
// interpret each item's bytes according to the schema's declared element
// type. Growth reuses Go's slice append, which grows geometrically the
// same way the original arena's slack-space allocator did.
type ArrayData struct {
	itemSize int
	items    []byte
}

func newArrayData(itemSize int) *ArrayData {
	return &ArrayData{itemSize: itemSize}
}

// ItemSize returns the fixed size, in bytes, of each element.
func (a *ArrayData) ItemSize() int {
	return a.itemSize
}

// Count returns the number of live items.
func (a *ArrayData) Count() int {
	if a.itemSize == 0 {
		return 0
	}
	return len(a.items) / a.itemSize
}

// Item returns a mutable view of the item at index. The caller must not
// retain it past a subsequent Insert/Remove, which may reallocate.
func (a *ArrayData) Item(index int) []byte {
	off := index * a.itemSize
	return a.items[off : off+a.itemSize]
}

// Insert shifts the tail right and writes src (or zero bytes if src is
// nil) into the newly opened slot at index.
func (a *ArrayData) Insert(index int, src []byte) []byte {
	offset := index * a.itemSize
	a.items = append(a.items, make([]byte, a.itemSize)...)
	copy(a.items[offset+a.itemSize:], a.items[offset:len(a.items)-a.itemSize])
	item := a.items[offset : offset+a.itemSize]
	if src != nil {
		copy(item, src)
	} else {
		clear(item)
	}
	return item
}

// Add appends a new item, equivalent to Insert(Count(), src).
func (a *ArrayData) Add(src []byte) []byte {
	return a.Insert(a.Count(), src)
}

// Remove shifts the tail left over the item at index.
func (a *ArrayData) Remove(index int) {
	offset := index * a.itemSize
	copy(a.items[offset:], a.items[offset+a.itemSize:])
	a.items = a.items[:len(a.items)-a.itemSize]
}

// Clear empties the array back to zero items.
func (a *ArrayData) Clear() {
	a.items = a.items[:0]
}

// ArrayPool is a vector of ArrayData slots. Slots are never freed
// individually; Clear drops them all at once.
type ArrayPool struct {
	slots []*ArrayData
}

// Add allocates a new, empty slot for items of itemSize bytes and returns
// its id.
func (p *ArrayPool) Add(itemSize int) ArrayId {
	p.slots = append(p.slots, newArrayData(itemSize))
	return ArrayId(len(p.slots))
}

// Get returns the slot for id, or nil if id is 0 or out of range.
func (p *ArrayPool) Get(id ArrayId) *ArrayData {
	if id == 0 || int(id) > len(p.slots) {
		return nil
	}
	return p.slots[id-1]
}

// Clear drops all slots.
func (p *ArrayPool) Clear() {
	p.slots = nil
}

// Clone returns an independent copy of the pool and every slot's bytes,
// used by copy-on-write store cloning.
func (p *ArrayPool) Clone() ArrayPool {
	slots := make([]*ArrayData, len(p.slots))
	for i, s := range p.slots {
		if s == nil {
			continue
		}
		slots[i] = &ArrayData{itemSize: s.itemSize, items: append([]byte(nil), s.items...)}
	}
	return ArrayPool{slots: slots}
}

// Len reports the number of allocated slots, mainly for tests and
// diagnostics.
func (p *ArrayPool) Len() int {
	return len(p.slots)
}
