// Package pool implements the two per-store arenas backing variable-length
// data: StringPool (de-duplicated, NUL-separated byte strings) and
// ArrayPool (a vector of fixed-item-size vectors). Both hand out 1-based
// ids so that 0 can mean "absent" without a separate validity flag.
package pool
