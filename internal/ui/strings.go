package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// sanitize makes catalog text safe to print: escape sequences are stripped
// and control characters (including newlines) become spaces.
func sanitize(value string) string {
	value = ansi.Strip(value)
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return ' '
		}
		return r
	}, value)
}

// truncate shortens a string to the given display width, adding an ellipsis
// if needed.
func truncate(value string, width int) string {
	value = strings.TrimSpace(value)
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	return runewidth.Truncate(value, width, "…")
}

// truncateMiddle keeps both ends of long values such as URLs and paths.
func truncateMiddle(value string, width int) string {
	value = strings.TrimSpace(value)
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 5 {
		return runewidth.Truncate(value, width, "")
	}
	endWidth := (width - 1) * 2 / 3
	startWidth := width - 1 - endWidth

	runes := []rune(value)
	end := len(runes)
	for w := 0; end > 0; end-- {
		rw := runewidth.RuneWidth(runes[end-1])
		if w+rw > endWidth {
			break
		}
		w += rw
	}
	return runewidth.Truncate(value, startWidth, "") + "…" + string(runes[end:])
}

// fit sanitizes, truncates and pads value to exactly width cells.
func fit(value string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(truncate(sanitize(value), width), width)
}

// fitRight is fit with the value aligned to the right edge.
func fitRight(value string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillLeft(truncate(sanitize(value), width), width)
}
