// Package logtail reads the tail of shopkeep's log file and turns zap JSON
// lines into rows for the Activity view.
//
// # Reading Log Files
//
// Read uses a ring buffer to extract the last maxLines from a file in one
// sequential pass with O(maxLines) memory. Lines come back in chronological
// order. A missing file is not an error; it simply has no lines yet.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// # Parsing
//
// Parse decodes one JSON line into an Entry (time, level, logger, message
// and the remaining fields). Lines that are not JSON are kept verbatim so
// nothing written to the file is hidden. Format renders an Entry as a single
// terminal row and AtLeast filters by minimum level.
package logtail
