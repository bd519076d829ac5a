// Package catalog provides an HTTP client for the product catalog REST API.
//
// # Overview
//
// The remote store is the system of record across sessions. This package
// fetches, creates and updates product records and translates every failure
// into a tagged result so callers can fall back to a local update instead of
// unwinding.
//
// # Architecture
//
//   - client.go: HTTP client, request encoding and status handling
//   - types.go: Product and the lenient field types the API is known to emit
//   - errors.go: Failure, Kind and Result
//
// # Endpoints
//
//   - GET {base}: list of products
//   - POST {base}: create, body {title, price, description, categoryId, images}
//   - PUT {base}/{id}: update, same body shape
//
// # Failure Semantics
//
// Nothing escapes this boundary as an untyped error:
//
//	products, f := client.List(ctx)   // f != nil → products is empty, not nil
//	res := client.Update(ctx, id, pl) // res.Failure.Kind tells the caller why
//
// A transport error (DNS, refused connection, timeout, cancelled context) is
// NetworkUnavailable. Any non-2xx response is ServerRejected and its body is
// never parsed as a product. A 2xx response whose body cannot be decoded is
// also ServerRejected, carrying the status and the decode error.
//
// No call is retried; retry is an explicit reload by the user.
//
// # Lenient Decoding
//
// Catalog data is messy. Product ids may be numbers or strings, prices may be
// missing or non-numeric (they coerce to zero but keep their raw text), a
// category may be an embedded {id, name} object or a bare legacy id, and
// images may arrive as a list or as a single string. Decoding never fails on
// these shapes.
package catalog
