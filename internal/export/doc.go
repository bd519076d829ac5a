// Package export serializes the visible page of the catalog as CSV.
package export
