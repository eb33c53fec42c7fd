// Package types defines the shared domain types for fuzzdex: search
// options, key specifications, match outcomes, ranked results, the
// path-accessor capability, and the configuration error set.
//
// Types here are deliberately free of behavior beyond validation so the
// internal packages (bitap, keystore, index, engine) can share them
// without import cycles.
package types
