package types

// Accessor resolves a key path against a record, returning zero or more
// string leaves. Array-valued intermediate nodes expand: each element is
// walked with the remainder of the path and every string leaf found is
// collected in document order.
//
// The engine depends only on this capability. Implementations must treat
// missing or unresolvable paths as "no values", never as an error.
type Accessor interface {
	Resolve(record any, path []string) []string
}
