// Package view derives the visible slice of the catalog from the search,
// sort and paging parameters.
//
// # Ownership
//
// A State is owned by a single goroutine (the Bubble Tea update loop, or one
// HTTP request) and is not safe for concurrent use. Readers that need a
// stable copy take a Snapshot.
//
// # Derivation
//
// The filtered sequence is a cache that is always a pure function of the
// products, the search text and the sort parameters:
//
//  1. Filter: keep products whose title contains the search text,
//     case-insensitively
//  2. Sort: stable, text keys case-insensitive, numeric keys numeric
//  3. Clamp: the page is pulled back into [1, PageCount]
//
// SetPage rejects out-of-range pages and leaves the state unchanged.
package view
