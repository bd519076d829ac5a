// Package workflow implements the view, edit and create flows of the product
// modal.
//
// A Session tracks what the modal shows and which controls are enabled. It
// never performs I/O: BeginSubmit hands out a Request stamped with the
// session generation, the UI runs it through Service.Submit off the update
// loop, and the resulting Outcome is fed back with Session.Finish. Outcomes
// whose generation no longer matches are still applied to the catalog by the
// Service but leave the modal alone.
//
// Every path reports a distinct NoticeKind so callers can tell a confirmed
// write from a degraded local update.
package workflow
