// Grounded on the ObjectInfo/PropertyInfo descriptor tables of the
// original ConfigDB schema, reshaped from C's flexible-array-member
// layout into Go slices and pointers: child objects and scalar
// properties both live in ObjectInfo.Properties, distinguished by
// PropertyInfo.Type, instead of being split across two counted regions
// of one flat array.
package schema
