package object

import (
	"strconv"

	"github.com/cuemby/configdb/pkg/number"
	"github.com/cuemby/configdb/pkg/pool"
	"github.com/cuemby/configdb/pkg/schema"
)

// Prop is a non-owning view of one scalar property's storage: the
// declaring schema node plus a byte offset into its owning store (or
// ObjectArray/Array element). It mirrors spec's Property{store, propInfo,
// data_ptr, default_ptr?}.
type Prop struct {
	data   Data
	info   *schema.PropertyInfo
	offset uint32
}

// Info returns the declaring schema node.
func (p Prop) Info() *schema.PropertyInfo { return p.info }

func (p Prop) bytes() []byte {
	size := p.info.Size()
	return p.data.Bytes()[p.offset : p.offset+size]
}

// GetString renders the property's current value as text: strings read
// through the pool (falling back to the declared default), enums map
// their tag to the value table, numerics format via Number.Format or
// plain base-10, and booleans render as "true"/"false".
func (p Prop) GetString() (string, bool) {
	switch p.info.Type {
	case schema.Boolean:
		if p.bytes()[0] != 0 {
			return "true", true
		}
		return "false", true
	case schema.Int8:
		return strconv.FormatInt(int64(int8(p.bytes()[0])), 10), true
	case schema.Int16:
		return strconv.FormatInt(int64(int16(endian.Uint16(p.bytes()))), 10), true
	case schema.Int32:
		return strconv.FormatInt(int64(int32(endian.Uint32(p.bytes()))), 10), true
	case schema.Int64:
		return strconv.FormatInt(int64(endian.Uint64(pad8(p.bytes()))), 10), true
	case schema.UInt8:
		return strconv.FormatUint(uint64(p.bytes()[0]), 10), true
	case schema.UInt16:
		return strconv.FormatUint(uint64(endian.Uint16(p.bytes())), 10), true
	case schema.UInt32:
		return strconv.FormatUint(uint64(endian.Uint32(p.bytes())), 10), true
	case schema.UInt64:
		return strconv.FormatUint(endian.Uint64(pad8(p.bytes())), 10), true
	case schema.NumberType:
		n := number.Number(endian.Uint32(p.bytes()))
		return number.Format(n), true
	case schema.StringType:
		id := p.data.Strings()
		sid := decodeStringID(p.bytes())
		if sid == 0 {
			if p.info.Default != nil {
				return string(p.info.Default), true
			}
			return "", true
		}
		text, ok := id.Get(sid)
		if !ok {
			return "", false
		}
		return text, true
	case schema.EnumType:
		tag := int(p.bytes()[0])
		return p.info.Enum.Text(tag)
	default:
		return "", false
	}
}

// SetFromText parses text into the declared type, clamps to any
// declared range, and stores it. It returns false (leaving the stored
// value unchanged) when text cannot be parsed as the declared type or
// names no member of a declared enum.
func (p Prop) SetFromText(text string) bool {
	switch p.info.Type {
	case schema.Boolean:
		switch text {
		case "true":
			p.bytes()[0] = 1
		case "false":
			p.bytes()[0] = 0
		default:
			return false
		}
		return true
	case schema.Int8:
		v, err := strconv.ParseInt(text, 10, 8)
		if err != nil {
			return false
		}
		p.bytes()[0] = byte(int8(p.info.IntRange.Clamp(v)))
		return true
	case schema.Int16:
		v, err := strconv.ParseInt(text, 10, 16)
		if err != nil {
			return false
		}
		endian.PutUint16(p.bytes(), uint16(int16(p.info.IntRange.Clamp(v))))
		return true
	case schema.Int32:
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return false
		}
		endian.PutUint32(p.bytes(), uint32(int32(p.info.IntRange.Clamp(v))))
		return true
	case schema.Int64:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return false
		}
		buf := make([]byte, 8)
		endian.PutUint64(buf, uint64(p.info.IntRange.Clamp(v)))
		copy(p.bytes(), buf)
		return true
	case schema.UInt8:
		v, err := strconv.ParseUint(text, 10, 8)
		if err != nil {
			return false
		}
		p.bytes()[0] = byte(p.info.UintRange.Clamp(v))
		return true
	case schema.UInt16:
		v, err := strconv.ParseUint(text, 10, 16)
		if err != nil {
			return false
		}
		endian.PutUint16(p.bytes(), uint16(p.info.UintRange.Clamp(v)))
		return true
	case schema.UInt32:
		v, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return false
		}
		endian.PutUint32(p.bytes(), uint32(p.info.UintRange.Clamp(v)))
		return true
	case schema.UInt64:
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return false
		}
		buf := make([]byte, 8)
		endian.PutUint64(buf, p.info.UintRange.Clamp(v))
		copy(p.bytes(), buf)
		return true
	case schema.NumberType:
		n, ok := number.Parse(text)
		if !ok {
			return false
		}
		n = p.info.NumberRange.Clamp(n)
		endian.PutUint32(p.bytes(), uint32(n))
		return true
	case schema.StringType:
		if p.info.Default != nil && text == string(p.info.Default) {
			encodeStringID(p.bytes(), 0)
			return true
		}
		id := p.data.Strings().FindOrAdd(text)
		encodeStringID(p.bytes(), id)
		return true
	case schema.EnumType:
		tag, ok := p.info.Enum.Index(text)
		if !ok {
			return false
		}
		p.bytes()[0] = byte(tag)
		return true
	default:
		return false
	}
}

// JSONValue renders the property for the export format: strings and
// enums are quoted via strconv.Quote, everything else is its plain text
// form.
func (p Prop) JSONValue() (string, bool) {
	text, ok := p.GetString()
	if !ok {
		return "", false
	}
	if p.info.Type == schema.StringType || p.info.Type == schema.EnumType {
		return strconv.Quote(text), true
	}
	return text, true
}

func pad8(b []byte) []byte {
	if len(b) >= 8 {
		return b
	}
	out := make([]byte, 8)
	copy(out, b)
	return out
}

func decodeStringID(b []byte) pool.StringId { return pool.StringId(endian.Uint32(b)) }

func encodeStringID(b []byte, id pool.StringId) { endian.PutUint32(b, uint32(id)) }
