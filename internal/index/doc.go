// Package index precomputes, per record and key, the extracted field
// values and their length norms. The engine consults only the index
// during a search, never the raw records, so staleness after external
// record mutation is the caller's responsibility.
//
// Lifecycle: Build -> read* -> (Add/RemoveAt ->) publish new snapshot.
// Build runs extraction concurrently and honors context cancellation;
// incremental Add/RemoveAt cost is proportional to the key count of the
// one record touched. A built index serializes to JSON and parses back,
// so large collections can ship a prebuilt index.
package index
