// Package number provides a 32-bit packed base-10 floating-point type for
// numeric configuration properties.
//
// Unlike IEEE-754 binary floats, every value parsed from decimal text
// round-trips back to the same text (up to 8 significant digits) without
// base-2 rounding artifacts. The mantissa and exponent are small enough to
// fit in a single machine word, which keeps the packed root-data layout
// described by package schema compact.
package number
