package schema

import "github.com/cuemby/configdb/pkg/number"

// PropertyType identifies how a property's bytes are interpreted.
type PropertyType uint8

const (
	Boolean PropertyType = iota
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	NumberType
	StringType
	EnumType
	ObjectType
	AliasType
)

func (t PropertyType) String() string {
	switch t {
	case Boolean:
		return "Boolean"
	case Int8:
		return "Int8"
	case Int16:
		return "Int16"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case UInt8:
		return "UInt8"
	case UInt16:
		return "UInt16"
	case UInt32:
		return "UInt32"
	case UInt64:
		return "UInt64"
	case NumberType:
		return "Number"
	case StringType:
		return "String"
	case EnumType:
		return "Enum"
	case ObjectType:
		return "Object"
	case AliasType:
		return "Alias"
	default:
		return "Unknown"
	}
}

// IntRange clamps a signed integer property to [Min, Max].
type IntRange struct {
	Min, Max int64
}

// Clamp returns v pinned to the range.
func (r *IntRange) Clamp(v int64) int64 {
	if r == nil {
		return v
	}
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// UintRange clamps an unsigned integer property to [Min, Max].
type UintRange struct {
	Min, Max uint64
}

// Clamp returns v pinned to the range.
func (r *UintRange) Clamp(v uint64) uint64 {
	if r == nil {
		return v
	}
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// NumberRange clamps a decimal Number property to [Min, Max].
type NumberRange struct {
	Min, Max number.Number
}

// Clamp returns v pinned to the range, ordering by number.Compare.
func (r *NumberRange) Clamp(v number.Number) number.Number {
	if r == nil {
		return v
	}
	if number.Compare(v, r.Min) < 0 {
		return r.Min
	}
	if number.Compare(v, r.Max) > 0 {
		return r.Max
	}
	return v
}

// EnumInfo is the value table backing an EnumType property: the property
// stores an index into Values as a one-byte tag.
type EnumInfo struct {
	Values []string
}

// Index returns the tag for text, or ok=false if text is not a member.
func (e *EnumInfo) Index(text string) (int, bool) {
	for i, v := range e.Values {
		if v == text {
			return i, true
		}
	}
	return 0, false
}

// Text returns the member string for tag, or ok=false if tag is out of
// range.
func (e *EnumInfo) Text(tag int) (string, bool) {
	if tag < 0 || tag >= len(e.Values) {
		return "", false
	}
	return e.Values[tag], true
}

// PropertyInfo describes one named slot within a parent ObjectInfo's
// flat byte layout.
type PropertyInfo struct {
	Name string
	Type PropertyType

	// Offset is the byte offset of this property within its parent's
	// layout. For AliasType it instead holds the index of the sibling
	// property this one resolves to.
	Offset uint32

	// Default holds the packed default bytes for scalar storage; nil
	// means the zero value for Type.
	Default []byte

	IntRange    *IntRange
	UintRange   *UintRange
	NumberRange *NumberRange
	Enum        *EnumInfo

	// Object describes the nested schema when Type is ObjectType. If
	// Object.IsArrayKind() the property stores a 4-byte pool id rather
	// than an inline copy of Object's bytes.
	Object *ObjectInfo
}

// Size returns the number of bytes this property occupies in its
// parent's layout.
func (p *PropertyInfo) Size() uint32 {
	switch p.Type {
	case Boolean, Int8, UInt8, EnumType:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, NumberType, StringType:
		return 4
	case Int64, UInt64:
		return 8
	case ObjectType:
		if p.Object == nil {
			return 0
		}
		if p.Object.IsArrayKind() {
			return 4 // pool.ArrayId
		}
		return p.Object.StructSize
	case AliasType:
		return 0
	default:
		return 0
	}
}
