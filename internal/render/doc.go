// Package render projects a view snapshot into a table, sort indicators and
// a pagination control. Everything here is a pure function of its input.
//
// Build produces a Page that the terminal UI draws with lipgloss and
// WriteHTML turns into an escaped HTML fragment for the web view.
package render
