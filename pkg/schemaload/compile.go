package schemaload

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/cuemby/configdb/pkg/format"
	"github.com/cuemby/configdb/pkg/number"
	"github.com/cuemby/configdb/pkg/schema"
)

var endian = binary.LittleEndian

// Compile walks doc depth-first and produces the immutable schema
// tables pkg/cache and pkg/object navigate against: byte offsets,
// struct sizes, alias resolution, enum tables and packed default
// bytes are all computed here, the same work a real schema code
// generator would have done at build time.
func Compile(doc *SchemaDoc) (*schema.Database, error) {
	stores := make([]*schema.Store, 0, len(doc.Stores))
	for _, sd := range doc.Stores {
		root, err := compileObject(sd.Name, schema.KindObject, sd.Root)
		if err != nil {
			return nil, fmt.Errorf("store %q: %w", sd.Name, err)
		}
		stores = append(stores, &schema.Store{Name: sd.Name, Root: root})
	}
	return &schema.Database{Name: doc.Name, Stores: stores}, nil
}

type builtProperty struct {
	prop *schema.PropertyInfo
	doc  PropertyDoc
}

// compileObject assigns offsets to props in declaration order and
// renders the resulting struct's packed default bytes. name is used
// only for the nested schema.ObjectInfo's diagnostic Name.
func compileObject(name string, kind schema.Kind, props []PropertyDoc) (*schema.ObjectInfo, error) {
	info := &schema.ObjectInfo{Name: name, Kind: kind}
	var offset uint32
	var built []builtProperty

	for _, pd := range props {
		if pd.Type == "alias" {
			info.Properties = append(info.Properties, &schema.PropertyInfo{Name: pd.Name, Type: schema.AliasType})
			continue
		}
		p, err := compileProperty(pd)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", pd.Name, err)
		}
		p.Offset = offset
		offset += p.Size()
		info.Properties = append(info.Properties, p)
		built = append(built, builtProperty{p, pd})
	}
	info.StructSize = offset

	buf := make([]byte, offset)
	for _, b := range built {
		if err := writeDefault(buf, b.prop, b.doc); err != nil {
			return nil, fmt.Errorf("property %q default: %w", b.doc.Name, err)
		}
	}
	info.Default = buf

	for i, p := range info.Properties {
		if p.Type != schema.AliasType {
			continue
		}
		target := aliasTarget(props, p.Name)
		ti := findSibling(info.Properties, target, i)
		if ti < 0 {
			return nil, &format.FormatError{
				Kind: format.NotInSchema,
				Pos:  p.Name,
				Err:  fmt.Errorf("alias %q: unknown target %q", p.Name, target),
			}
		}
		info.Properties[i].Offset = uint32(ti)
	}
	return info, nil
}

func aliasTarget(props []PropertyDoc, name string) string {
	for _, pd := range props {
		if pd.Name == name {
			return pd.Target
		}
	}
	return ""
}

func findSibling(props []*schema.PropertyInfo, name string, exclude int) int {
	for i, p := range props {
		if i != exclude && p.Name == name {
			return i
		}
	}
	return -1
}

// compileProperty builds one non-alias PropertyInfo, recursing into
// nested object/array/objectarray/union shapes.
func compileProperty(d PropertyDoc) (*schema.PropertyInfo, error) {
	switch d.Type {
	case "bool":
		return &schema.PropertyInfo{Name: d.Name, Type: schema.Boolean}, nil
	case "int8":
		r, err := intRange(d, 8)
		return &schema.PropertyInfo{Name: d.Name, Type: schema.Int8, IntRange: r}, err
	case "int16":
		r, err := intRange(d, 16)
		return &schema.PropertyInfo{Name: d.Name, Type: schema.Int16, IntRange: r}, err
	case "int32":
		r, err := intRange(d, 32)
		return &schema.PropertyInfo{Name: d.Name, Type: schema.Int32, IntRange: r}, err
	case "int64":
		r, err := intRange(d, 64)
		return &schema.PropertyInfo{Name: d.Name, Type: schema.Int64, IntRange: r}, err
	case "uint8":
		r, err := uintRange(d, 8)
		return &schema.PropertyInfo{Name: d.Name, Type: schema.UInt8, UintRange: r}, err
	case "uint16":
		r, err := uintRange(d, 16)
		return &schema.PropertyInfo{Name: d.Name, Type: schema.UInt16, UintRange: r}, err
	case "uint32":
		r, err := uintRange(d, 32)
		return &schema.PropertyInfo{Name: d.Name, Type: schema.UInt32, UintRange: r}, err
	case "uint64":
		r, err := uintRange(d, 64)
		return &schema.PropertyInfo{Name: d.Name, Type: schema.UInt64, UintRange: r}, err
	case "number":
		r, err := numberRange(d)
		return &schema.PropertyInfo{Name: d.Name, Type: schema.NumberType, NumberRange: r}, err
	case "string":
		var def []byte
		if d.Default != "" {
			def = []byte(d.Default)
		}
		return &schema.PropertyInfo{Name: d.Name, Type: schema.StringType, Default: def}, nil
	case "enum":
		if len(d.Values) == 0 {
			return nil, fmt.Errorf("enum property has no values")
		}
		if len(d.Values) > 256 {
			return nil, fmt.Errorf("enum property has %d values, the packed tag is one byte (max 256)", len(d.Values))
		}
		return &schema.PropertyInfo{Name: d.Name, Type: schema.EnumType, Enum: &schema.EnumInfo{Values: d.Values}}, nil
	case "object":
		obj, err := compileObject(d.Name, schema.KindObject, d.Properties)
		if err != nil {
			return nil, err
		}
		return &schema.PropertyInfo{Name: d.Name, Type: schema.ObjectType, Object: obj}, nil
	case "array":
		if d.Item == nil {
			return nil, fmt.Errorf("array property has no item descriptor")
		}
		item, err := compileProperty(*d.Item)
		if err != nil {
			return nil, fmt.Errorf("item: %w", err)
		}
		arr := &schema.ObjectInfo{Name: d.Name, Kind: schema.KindArray, Item: item}
		return &schema.PropertyInfo{Name: d.Name, Type: schema.ObjectType, Object: arr}, nil
	case "objectarray":
		itemObj, err := compileObject(d.Name, schema.KindObject, d.Properties)
		if err != nil {
			return nil, err
		}
		arr := &schema.ObjectInfo{Name: d.Name, Kind: schema.KindObjectArray, ItemObject: itemObj}
		return &schema.PropertyInfo{Name: d.Name, Type: schema.ObjectType, Object: arr}, nil
	case "union":
		if len(d.Variants) == 0 {
			return nil, fmt.Errorf("union property has no variants")
		}
		variants := make([]*schema.ObjectInfo, len(d.Variants))
		var maxSize uint32
		for i, v := range d.Variants {
			vi, err := compileObject(v.Name, schema.KindObject, v.Properties)
			if err != nil {
				return nil, fmt.Errorf("variant %q: %w", v.Name, err)
			}
			variants[i] = vi
			if vi.StructSize > maxSize {
				maxSize = vi.StructSize
			}
		}
		const tagSize = 1
		u := &schema.ObjectInfo{Name: d.Name, Kind: schema.KindUnion, StructSize: tagSize + maxSize, Variants: variants}
		buf := make([]byte, u.StructSize)
		if v0 := variants[0]; v0.Default != nil {
			copy(buf[tagSize:], v0.Default)
		}
		u.Default = buf
		return &schema.PropertyInfo{Name: d.Name, Type: schema.ObjectType, Object: u}, nil
	default:
		return nil, fmt.Errorf("unknown property type %q", d.Type)
	}
}

func intRange(d PropertyDoc, bits int) (*schema.IntRange, error) {
	if d.Min == nil && d.Max == nil {
		return nil, nil
	}
	r := &schema.IntRange{Min: minInt(bits), Max: maxInt(bits)}
	if d.Min != nil {
		v, err := strconv.ParseInt(*d.Min, 10, bits)
		if err != nil {
			return nil, fmt.Errorf("min: %w", err)
		}
		r.Min = v
	}
	if d.Max != nil {
		v, err := strconv.ParseInt(*d.Max, 10, bits)
		if err != nil {
			return nil, fmt.Errorf("max: %w", err)
		}
		r.Max = v
	}
	return r, nil
}

func uintRange(d PropertyDoc, bits int) (*schema.UintRange, error) {
	if d.Min == nil && d.Max == nil {
		return nil, nil
	}
	r := &schema.UintRange{Min: 0, Max: maxUint(bits)}
	if d.Min != nil {
		v, err := strconv.ParseUint(*d.Min, 10, bits)
		if err != nil {
			return nil, fmt.Errorf("min: %w", err)
		}
		r.Min = v
	}
	if d.Max != nil {
		v, err := strconv.ParseUint(*d.Max, 10, bits)
		if err != nil {
			return nil, fmt.Errorf("max: %w", err)
		}
		r.Max = v
	}
	return r, nil
}

func numberRange(d PropertyDoc) (*schema.NumberRange, error) {
	if d.Min == nil && d.Max == nil {
		return nil, nil
	}
	r := &schema.NumberRange{}
	if d.Min != nil {
		v, ok := number.Parse(*d.Min)
		if !ok {
			return nil, fmt.Errorf("min: invalid decimal %q", *d.Min)
		}
		r.Min = v
	}
	if d.Max != nil {
		v, ok := number.Parse(*d.Max)
		if !ok {
			return nil, fmt.Errorf("max: invalid decimal %q", *d.Max)
		}
		r.Max = v
	}
	return r, nil
}

func minInt(bits int) int64 {
	if bits >= 64 {
		return -1 << 63
	}
	return -(1 << (bits - 1))
}

func maxInt(bits int) int64 {
	if bits >= 64 {
		return 1<<63 - 1
	}
	return 1<<(bits-1) - 1
}

func maxUint(bits int) uint64 {
	if bits >= 64 {
		return 1<<64 - 1
	}
	return 1<<bits - 1
}

// writeDefault packs d's declared default value into buf at prop's
// offset. String defaults are carried on PropertyInfo.Default instead
// (the struct bytes stay at pool id 0, meaning "absent"), and
// array/objectarray children likewise stay at pool id 0: neither
// consumes struct bytes here.
func writeDefault(buf []byte, prop *schema.PropertyInfo, d PropertyDoc) error {
	off := prop.Offset
	switch prop.Type {
	case schema.Boolean:
		switch d.Default {
		case "", "false":
		case "true":
			buf[off] = 1
		default:
			return fmt.Errorf("invalid bool default %q", d.Default)
		}
	case schema.Int8, schema.Int16, schema.Int32, schema.Int64:
		if d.Default == "" {
			return nil
		}
		bits := int(prop.Size()) * 8
		v, err := strconv.ParseInt(d.Default, 10, bits)
		if err != nil {
			return err
		}
		if prop.IntRange != nil {
			v = prop.IntRange.Clamp(v)
		}
		putSignedInt(buf[off:off+prop.Size()], v)
	case schema.UInt8, schema.UInt16, schema.UInt32, schema.UInt64:
		if d.Default == "" {
			return nil
		}
		bits := int(prop.Size()) * 8
		v, err := strconv.ParseUint(d.Default, 10, bits)
		if err != nil {
			return err
		}
		if prop.UintRange != nil {
			v = prop.UintRange.Clamp(v)
		}
		putUnsignedInt(buf[off:off+prop.Size()], v)
	case schema.NumberType:
		if d.Default == "" {
			return nil
		}
		n, ok := number.Parse(d.Default)
		if !ok {
			return fmt.Errorf("invalid decimal default %q", d.Default)
		}
		if prop.NumberRange != nil {
			n = prop.NumberRange.Clamp(n)
		}
		endian.PutUint32(buf[off:off+4], uint32(n))
	case schema.EnumType:
		if d.Default == "" {
			return nil
		}
		tag, ok := prop.Enum.Index(d.Default)
		if !ok {
			return fmt.Errorf("default %q is not one of %v", d.Default, prop.Enum.Values)
		}
		buf[off] = byte(tag)
	case schema.StringType:
		// Carried on prop.Default, not struct bytes.
	case schema.ObjectType:
		if prop.Object.IsArrayKind() {
			return nil // pool id 0 = absent, matching a freshly reset store
		}
		if prop.Object.Default != nil {
			copy(buf[off:off+prop.Size()], prop.Object.Default)
		}
	}
	return nil
}

func putSignedInt(b []byte, v int64) {
	switch len(b) {
	case 1:
		b[0] = byte(int8(v))
	case 2:
		endian.PutUint16(b, uint16(int16(v)))
	case 4:
		endian.PutUint32(b, uint32(int32(v)))
	case 8:
		endian.PutUint64(b, uint64(v))
	}
}

func putUnsignedInt(b []byte, v uint64) {
	switch len(b) {
	case 1:
		b[0] = byte(v)
	case 2:
		endian.PutUint16(b, uint16(v))
	case 4:
		endian.PutUint32(b, uint32(v))
	case 8:
		endian.PutUint64(b, v)
	}
}
