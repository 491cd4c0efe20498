// Package schemaload builds the immutable pkg/schema tables from a
// declarative YAML description, the ambient substitute for the
// out-of-scope schema code generator: a real code generator would emit
// these offsets/sizes/defaults at build time from a schema source file,
// so this package computes the same tables at program startup instead.
package schemaload

// SchemaDoc is the top-level YAML document: a named database and its
// ordered list of stores.
type SchemaDoc struct {
	Name   string     `yaml:"name"`
	Stores []StoreDoc `yaml:"stores"`
}

// StoreDoc describes one persisted store: its name and the properties
// of its root object, in declaration order.
type StoreDoc struct {
	Name string        `yaml:"name"`
	Root []PropertyDoc `yaml:"root"`
}

// PropertyDoc describes one named property or nested object/array/union.
// Which fields apply depends on Type:
//
//   - scalar types (bool, int8..uint64, number, string, enum): Default,
//     Min/Max (numeric types), Values (enum)
//   - object: Properties holds the nested object's own fields
//   - array: Item describes the homogeneous scalar element type
//   - objectarray: Properties describes the homogeneous element object's fields
//   - union: Variants holds the tagged alternatives
//   - alias: Target names the sibling property this one resolves to
type PropertyDoc struct {
	Name       string        `yaml:"name"`
	Type       string        `yaml:"type"`
	Default    string        `yaml:"default,omitempty"`
	Min        *string       `yaml:"min,omitempty"`
	Max        *string       `yaml:"max,omitempty"`
	Values     []string      `yaml:"values,omitempty"`
	Target     string        `yaml:"target,omitempty"`
	Properties []PropertyDoc `yaml:"properties,omitempty"`
	Item       *PropertyDoc  `yaml:"item,omitempty"`
	Variants   []VariantDoc  `yaml:"variants,omitempty"`
}

// VariantDoc is one tagged alternative of a union property; its
// position in the YAML list becomes its 1-byte selector tag.
type VariantDoc struct {
	Name       string        `yaml:"name"`
	Properties []PropertyDoc `yaml:"properties,omitempty"`
}
