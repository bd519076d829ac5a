// Package web serves a read-only HTML view of the catalog.
//
// Routes:
//
//	GET /             table for ?q=&sort=&dir=&page=&per_page=
//	GET /export.csv   the same page as a CSV attachment
//	GET /healthz      {"status","products","unsynced","lastError"}
//
// Each request derives its own view.State from a store snapshot, so the
// handlers never mutate shared state. Catalog text is escaped by
// render.WriteHTML before it reaches the page template.
package web
