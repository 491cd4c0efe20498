// Grounded on the original ConfigDB Store: a contiguous root-data
// buffer of exact schema-declared size, paired with its own
// StringPool/ArrayPool and a dirty flag. Clone implements the
// copy-on-write deep copy the cache/lock manager performs when a writer
// appears while a reader still holds the current snapshot.
package store
