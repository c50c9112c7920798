// Package routes holds the per-version documentation route trees and the pure
// functions that derive navigation from them.
//
// A Registry is an immutable snapshot: one route tree per supported version,
// the first version being the default. Lookups for unknown versions fall back
// to the default tree instead of failing. Flatten projects a tree onto the
// ordered list of navigable pages (depth-first pre-order, group headers
// skipped) and FindAdjacent computes previous/next links over that list.
//
// Every exported read operation is safe for concurrent use.
package routes
