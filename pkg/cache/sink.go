package cache

import (
	"github.com/cuemby/configdb/pkg/format"
	"github.com/cuemby/configdb/pkg/object"
	"github.com/cuemby/configdb/pkg/schema"
)

// storeSink implements format.Sink, walking root's schema as a Format
// streams import events into it (C9, spec.md §4.8). A key or index that
// names nothing in the schema is tolerated by skipping its entire
// subtree rather than aborting the import, matching spec.md §4.9's
// soft-failure table for NotInSchema/BadType conditions; a leaf value
// that fails SetFromText is likewise left at its prior value.
type storeSink struct {
	stack []sinkFrame
}

type sinkFrame struct {
	cursor  object.Cursor
	isArray bool // cursor is a KindArray container: elements are unkeyed scalars
	skip    bool
}

// newStoreSink seeds the walk at root, which the import engine always
// visits first (the Parser's top-level element), per spec.md §4.8 point 1.
func newStoreSink(root object.Cursor) *storeSink {
	return &storeSink{stack: []sinkFrame{{cursor: root}}}
}

func (s *storeSink) StartElement(level int, key string, hasKey bool, value string, hasValue bool, kind format.ElementKind) error {
	if level == 0 {
		// The root container itself: the seed frame already stands for it.
		return nil
	}
	top := s.stack[len(s.stack)-1]

	if top.skip {
		s.stack = append(s.stack, sinkFrame{skip: true})
		return nil
	}

	switch kind {
	case format.Leaf:
		if top.isArray {
			p, ok := top.cursor.AddItem()
			if ok && hasValue {
				p.SetFromText(value)
			}
			return nil
		}
		if !hasKey {
			return nil
		}
		if p, ok := top.cursor.Property(key); ok && hasValue {
			p.SetFromText(value)
		}
		return nil

	case format.ObjectContainer:
		if top.isArray {
			// A scalar array encountering an object-shaped element: the
			// persisted data no longer matches this schema.
			s.stack = append(s.stack, sinkFrame{skip: true})
			return nil
		}
		if !hasKey {
			// Unkeyed object: an element of an ObjectArray container.
			child, ok := top.cursor.AddObject()
			if !ok {
				s.stack = append(s.stack, sinkFrame{skip: true})
				return nil
			}
			s.stack = append(s.stack, sinkFrame{cursor: child})
			return nil
		}
		child, ok := top.cursor.FindObject(key)
		if !ok {
			s.stack = append(s.stack, sinkFrame{skip: true})
			return nil
		}
		s.stack = append(s.stack, sinkFrame{cursor: child})
		return nil

	case format.ArrayContainer:
		if !hasKey {
			s.stack = append(s.stack, sinkFrame{skip: true})
			return nil
		}
		child, ok := top.cursor.FindObject(key)
		if !ok || !child.Info().IsArrayKind() {
			s.stack = append(s.stack, sinkFrame{skip: true})
			return nil
		}
		// A key seen a second time replaces rather than appends.
		child.ClearArray()
		s.stack = append(s.stack, sinkFrame{cursor: child, isArray: child.Info().Kind == schema.KindArray})
		return nil

	default:
		s.stack = append(s.stack, sinkFrame{skip: true})
		return nil
	}
}

func (s *storeSink) EndElement(level int) error {
	if level == 0 {
		return nil
	}
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
	return nil
}
