// Package app wires shopkeep together: configuration, logging, the catalog
// client, the shared store and the front ends that read it.
//
// Every command runs the same setup:
//
//  1. Load .env files, then the TOML config with environment overrides
//  2. Build the zap logger and read user preferences
//  3. Create the catalog client, the store and the workflow service
//  4. Fetch the catalog once; a failure starts the session empty
//
// Run skips step 4 and lets the TUI fetch from Init, so the user sees the
// spinner and the outcome. Serve starts the HTML view and reloads the
// catalog on SIGHUP; nothing reloads on a timer. Export writes a single page
// as CSV and fails when the catalog could not be fetched.
package app
