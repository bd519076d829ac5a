package ui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/five82/shopkeep/internal/view"
)

// renderHeader renders the status bar with catalog information.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("shopkeep", styles.Logo)}

	if host := apiHost(m.config.APIURL); host != "" {
		parts = append(parts, bg.Render(truncateMiddle(host, 40), styles.FaintText))
	}

	switch {
	case m.loading:
		parts = append(parts, bg.Render(m.spinner.View()+" Loading...", styles.WarningText.Bold(true)))
	case m.store != nil:
		snap := m.store.Snapshot()
		switch {
		case snap.IsOffline():
			parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
		case snap.LastError != nil:
			parts = append(parts, bg.Render("● LOAD FAILED", styles.DangerText))
		case snap.Loaded:
			parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
		}
		parts = append(parts,
			bg.Render("Products:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", len(snap.Products)), styles.Text))
		if n := len(snap.Unsynced); n > 0 {
			parts = append(parts,
				bg.Render("Unsynced:", styles.MutedText)+bg.Space()+
					bg.Render(fmt.Sprintf("%d", n), styles.UnsyncedText))
		}
		if !snap.LastLoaded.IsZero() && m.width >= 100 {
			parts = append(parts,
				bg.Render("Loaded", styles.FaintText)+bg.Space()+
					bg.Render(snap.LastLoaded.Format("15:04:05"), styles.MutedText))
		}
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewActivity:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"f", "Level " + levelLabel(m.activity.minLevel)},
			{"r", "Refresh"},
			{"esc", "Catalog"},
			{"?", "More"},
		}
	default: // ViewCatalog
		commands = []cmd{
			{"/", "Search"},
			{"1-4", sortLabel(m.view.SortKey(), m.view.SortDir())},
			{"←/→", "Page"},
			{"+/-", fmt.Sprintf("%d/page", m.view.PerPage())},
			{"v", "View"},
			{"e", "Edit"},
			{"n", "New"},
			{"x", "Export"},
			{"r", "Reload"},
			{"?", "More"},
		}
		if m.width < 100 {
			commands = []cmd{commands[0], commands[1], commands[2], commands[4], commands[6], commands[9]}
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Show the active search text
	if m.currentView == ViewCatalog && m.view.Search() != "" && !m.searching {
		segments = append(segments,
			bg.Render("/"+truncate(sanitize(m.view.Search()), 18), styles.AccentText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderStatusLine shows the search box while typing, otherwise the last
// notice.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var content string
	switch {
	case m.searching:
		content = m.search.View()
	case !m.notice.IsZero():
		content = bg.Render(truncate(sanitize(m.notice.Message()), max(m.width-2, 0)), styles.NoticeStyle(m.notice.Kind.Level()))
	default:
		content = bg.Render("Ready", styles.FaintText)
	}

	return styles.Header.Width(m.width).Render(content)
}

// sortLabel describes the active sort.
func sortLabel(key view.SortKey, dir view.Direction) string {
	if key == view.SortNone {
		return "Sort"
	}
	return fmt.Sprintf("Sort %s %s", key, dir)
}

// apiHost returns host[:port] for display.
func apiHost(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}
