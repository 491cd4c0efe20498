// Package object implements the non-owning cursor that navigates a
// store's root data against its schema: child object/property lookup by
// name or index, alias resolution, union variant selection, and Pointer
// path resolution. A Cursor carries no ownership — it is a small,
// copyable (store, schema, offset) triple, matching the schema's
// cyclic-reference-free design (see pkg/schema).
package object

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/cuemby/configdb/pkg/pool"
	"github.com/cuemby/configdb/pkg/schema"
)

var endian = binary.LittleEndian

// Data is the minimal view a Cursor needs of its owning store: the root
// byte buffer plus the two pools. pkg/store.Store implements this.
type Data interface {
	Bytes() []byte
	Strings() *pool.StringPool
	Arrays() *pool.ArrayPool
}

// Cursor is a read/write view of one object node within a store.
type Cursor struct {
	data   Data
	info   *schema.ObjectInfo
	offset uint32
}

// Root returns a cursor at the store's root object.
func Root(data Data, info *schema.ObjectInfo) Cursor {
	return Cursor{data: data, info: info, offset: 0}
}

// Info returns the schema node this cursor points at.
func (c Cursor) Info() *schema.ObjectInfo { return c.info }

// Offset returns the cursor's byte offset into the store's root buffer.
func (c Cursor) Offset() uint32 { return c.offset }

func (c Cursor) bytes() []byte {
	size := c.info.StructSize
	if c.info.IsArrayKind() {
		// A KindArray/KindObjectArray node is never embedded inline; its
		// schema StructSize (if any) describes its *elements*, not its
		// own storage, which is always a single pool.ArrayId here.
		size = 4
	}
	return c.data.Bytes()[c.offset : c.offset+size]
}

// unionTag returns the selected variant index for a KindUnion cursor.
func (c Cursor) unionTag() int {
	return int(c.bytes()[0])
}

// tagSize is the byte width of a union's selector tag, preceding the
// selected variant's own layout.
const tagSize = 1

// Variant returns a cursor over the currently selected union variant,
// the single child a union exposes (its tag byte selects which).
func (c Cursor) Variant() (Cursor, bool) {
	if c.info.Kind != schema.KindUnion {
		return Cursor{}, false
	}
	tag := c.unionTag()
	if tag < 0 || tag >= len(c.info.Variants) {
		return Cursor{}, false
	}
	return Cursor{data: c.data, info: c.info.Variants[tag], offset: c.offset + tagSize}, true
}

// variant resolves c to the cursor whose Properties should be searched:
// itself, or its selected union variant.
func (c Cursor) variant() Cursor {
	if v, ok := c.Variant(); ok {
		return v
	}
	return c
}

// ObjectNames returns the names of nested-object children, in
// declaration order, honoring union variant selection. The export
// engine visits these before PropertyNames.
func (c Cursor) ObjectNames() []string {
	v := c.variant()
	var names []string
	for _, p := range v.info.Properties {
		if p.Type == schema.ObjectType {
			names = append(names, p.Name)
		}
	}
	return names
}

// PropertyNames returns the names of scalar-valued children (excluding
// aliases, which never own storage), in declaration order, honoring
// union variant selection.
func (c Cursor) PropertyNames() []string {
	v := c.variant()
	var names []string
	for _, p := range v.info.Properties {
		if p.Type != schema.ObjectType && p.Type != schema.AliasType {
			names = append(names, p.Name)
		}
	}
	return names
}

// ChildCount returns, for a KindObject cursor, the number of entries in
// its Properties (objects and properties together); for a KindArray or
// KindObjectArray cursor, its element count; and for a KindUnion cursor,
// 1 (the selected variant).
func (c Cursor) ChildCount() int {
	switch c.info.Kind {
	case schema.KindUnion:
		return 1
	case schema.KindObject:
		return len(c.info.Properties)
	case schema.KindArray:
		return c.arrayData().Count()
	case schema.KindObjectArray:
		return c.arrayData().Count()
	default:
		return 0
	}
}

func (c Cursor) arrayData() *pool.ArrayData {
	id := pool.ArrayId(endian.Uint32(c.bytes()))
	return c.data.Arrays().Get(id)
}

func (c Cursor) arrayID() pool.ArrayId {
	return pool.ArrayId(endian.Uint32(c.bytes()))
}

func (c Cursor) setArrayID(id pool.ArrayId) {
	endian.PutUint32(c.bytes(), uint32(id))
}

// FindObject resolves a nested-object child by name, following a single
// level of Alias indirection. ok is false if name does not name a child
// object in scope.
func (c Cursor) FindObject(name string) (Cursor, bool) {
	v := c.variant()
	p, _ := v.info.FindProperty(name)
	if p == nil || p.Type != schema.ObjectType {
		return Cursor{}, false
	}
	return Cursor{data: c.data, info: p.Object, offset: v.offset + p.Offset}, true
}

// Property resolves a scalar property by name, following alias
// indirection.
func (c Cursor) Property(name string) (Prop, bool) {
	v := c.variant()
	p, _ := v.info.FindProperty(name)
	if p == nil || p.Type == schema.ObjectType {
		return Prop{}, false
	}
	return Prop{data: c.data, info: p, offset: v.offset + p.Offset}, true
}

// ItemAt returns the i'th element of a KindArray cursor as a Prop, or
// ok=false if i is out of range or this is not a KindArray cursor.
func (c Cursor) ItemAt(i int) (Prop, bool) {
	if c.info.Kind != schema.KindArray {
		return Prop{}, false
	}
	arr := c.arrayData()
	if arr == nil || i < 0 || i >= arr.Count() {
		return Prop{}, false
	}
	return Prop{data: itemData{Data: c.data, bytes: arr.Item(i)}, info: c.info.Item, offset: 0}, true
}

// AddItem appends a new zero-valued element to a KindArray cursor and
// returns a Prop over it.
func (c Cursor) AddItem() (Prop, bool) {
	if c.info.Kind != schema.KindArray {
		return Prop{}, false
	}
	id := c.arrayID()
	if id == 0 {
		id = c.data.Arrays().Add(int(c.info.Item.Size()))
		c.setArrayID(id)
	}
	arr := c.data.Arrays().Get(id)
	item := arr.Add(nil)
	return Prop{data: itemData{Data: c.data, bytes: item}, info: c.info.Item, offset: 0}, true
}

// ObjectAt returns the i'th ObjectArray element as a Cursor, or ok=false
// if i is out of range or this is not a KindObjectArray cursor.
func (c Cursor) ObjectAt(i int) (Cursor, bool) {
	if c.info.Kind != schema.KindObjectArray {
		return Cursor{}, false
	}
	arr := c.arrayData()
	if arr == nil || i < 0 || i >= arr.Count() {
		return Cursor{}, false
	}
	return Cursor{data: itemData{Data: c.data, bytes: arr.Item(i)}, info: c.info.ItemObject, offset: 0}, true
}

// itemData adapts a single ArrayData item's raw bytes into Data, so an
// ObjectArray element can be navigated with the same Cursor type used
// for root-buffer objects, while still sharing the parent store's pools.
type itemData struct {
	Data
	bytes []byte
}

func (d itemData) Bytes() []byte { return d.bytes }

// AddObject appends a new element to a KindObjectArray cursor,
// initialized from the element schema's default bytes (zero bytes when
// it has none), and returns a Cursor over it.
func (c Cursor) AddObject() (Cursor, bool) {
	if c.info.Kind != schema.KindObjectArray {
		return Cursor{}, false
	}
	id := c.arrayID()
	if id == 0 {
		id = c.data.Arrays().Add(int(c.info.ItemObject.StructSize))
		c.setArrayID(id)
	}
	arr := c.data.Arrays().Get(id)
	item := arr.Add(c.info.ItemObject.Default)
	return Cursor{data: itemData{Data: c.data, bytes: item}, info: c.info.ItemObject, offset: 0}, true
}

// RemoveAt deletes the i'th element of a KindObjectArray or KindArray
// cursor.
func (c Cursor) RemoveAt(i int) bool {
	arr := c.arrayData()
	if arr == nil || i < 0 || i >= arr.Count() {
		return false
	}
	arr.Remove(i)
	return true
}

// ClearArray empties a KindArray/KindObjectArray cursor back to zero
// elements, matching the import engine's replace semantics for an
// object encountered a second time.
func (c Cursor) ClearArray() {
	if id := c.arrayID(); id != 0 {
		if arr := c.data.Arrays().Get(id); arr != nil {
			arr.Clear()
		}
	}
}

// FindByTag locates the element of a KindObjectArray cursor whose
// named property's text value equals selector, as used by a Pointer
// `[selector]` segment.
func (c Cursor) FindByTag(propertyName, selector string) (Cursor, bool) {
	if c.info.Kind != schema.KindObjectArray {
		return Cursor{}, false
	}
	n := c.ChildCount()
	for i := 0; i < n; i++ {
		item, ok := c.ObjectAt(i)
		if !ok {
			continue
		}
		prop, ok := item.Property(propertyName)
		if !ok {
			continue
		}
		text, ok := prop.GetString()
		if ok && text == selector {
			return item, true
		}
	}
	return Cursor{}, false
}

// Resolve walks a '/'-separated Pointer path starting at c. A path
// segment may end with `[selector]`, matched against an ObjectArray's
// elements via their first string-typed property. It returns either an
// object Cursor or a Prop, never both.
func Resolve(c Cursor, path string) (obj Cursor, prop Prop, isProp bool, err error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return c, Prop{}, false, nil
	}
	segments := strings.Split(path, "/")
	cur := c
	for i, seg := range segments {
		key, selector, hasSelector := splitSelector(seg)
		next, ok := cur.FindObject(key)
		if ok {
			if hasSelector {
				tagProp := firstStringProperty(next)
				matched, ok := next.FindByTag(tagProp, selector)
				if !ok {
					return Cursor{}, Prop{}, false, &notFoundError{path: seg}
				}
				next = matched
			}
			cur = next
			continue
		}
		if i != len(segments)-1 {
			return Cursor{}, Prop{}, false, &notFoundError{path: seg}
		}
		p, ok := cur.Property(key)
		if !ok {
			return Cursor{}, Prop{}, false, &notFoundError{path: seg}
		}
		return Cursor{}, p, true, nil
	}
	return cur, Prop{}, false, nil
}

func firstStringProperty(c Cursor) string {
	info := c.info
	if info.Kind == schema.KindObjectArray && info.ItemObject != nil {
		info = info.ItemObject
	}
	for _, p := range info.Properties {
		if p.Type == schema.StringType {
			return p.Name
		}
	}
	return ""
}

func splitSelector(seg string) (key, selector string, hasSelector bool) {
	if i := strings.IndexByte(seg, '['); i >= 0 && strings.HasSuffix(seg, "]") {
		return seg[:i], seg[i+1 : len(seg)-1], true
	}
	return seg, "", false
}

type notFoundError struct{ path string }

func (e *notFoundError) Error() string { return fmt.Sprintf("not found: %s", e.path) }

// ParseIndexSelector converts a numeric selector (used against plain
// Array cursors rather than ObjectArray tag matches) to an int.
func ParseIndexSelector(selector string) (int, error) {
	return strconv.Atoi(selector)
}
