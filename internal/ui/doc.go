// Package ui is the shopkeep terminal interface, built on Bubble Tea.
//
// # Layout
//
// The screen is a header (API host, load state, product and unsynced
// counts), a command bar, the main pane and a status line. The main pane is
// either the product table or the Activity view, which tails shopkeep's own
// log file through the logtail package.
//
// The table is drawn from a render.Page: one row per product on the current
// page, sort indicators in the header, a «/» pagination window and a
// summary. Products that were only changed locally carry a "*" marker.
//
// # Product modal
//
// enter/v opens a product read-only, e opens it for editing and n opens an
// empty create form. ctrl+e toggles edit mode, ctrl+s submits, esc closes.
// The modal follows workflow.Session: while a submission is pending the
// controls are disabled and a spinner runs, and a create whose title already
// exists asks whether to update the existing product instead (y/n).
//
// Network calls run as tea.Cmds. Their results always update the catalog;
// they only touch the modal when they belong to the session still open.
//
// # Key Bindings
//
//   - /: live title search (enter keeps, esc clears)
//   - 1-4 or s: sort by ID, Title, Price, Category (again to invert); 0 clears
//   - ←/→ or [/]: previous/next page; g/G: first/last page
//   - +/-: page size (5, 10, 20, 50)
//   - x: export the page to products_page.csv; y: copy it to the clipboard
//   - r: reload the catalog; a: Activity view; T: theme; ?: help
//   - q or ctrl+c: quit
package ui
