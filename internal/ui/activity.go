package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shopkeep/internal/logtail"
)

// activityLevels is the cycle for the minimum level filter; "" shows all.
var activityLevels = []string{"", "info", "warn", "error"}

// activityState holds the log tail shown in the Activity view.
type activityState struct {
	path     string
	viewport viewport.Model
	entries  []logtail.Entry
	minLevel string
	err      error
	loaded   bool
}

func newActivityState(path string) activityState {
	return activityState{
		path:     path,
		viewport: viewport.New(0, 0),
	}
}

func levelLabel(level string) string {
	if level == "" {
		return "all"
	}
	return level
}

func nextLevel(current string) string {
	for i, l := range activityLevels {
		if l == current {
			return activityLevels[(i+1)%len(activityLevels)]
		}
	}
	return activityLevels[0]
}

// handleActivityKey processes keyboard input for the Activity view.
func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Activity):
		m.currentView = ViewCatalog
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateActivityViewport()
		return m, nil
	case key.Matches(msg, m.keys.CycleLevels):
		m.activity.minLevel = nextLevel(m.activity.minLevel)
		m.updateActivityViewport()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, readActivityCmd(m.activity.path)
	case key.Matches(msg, m.keys.FirstPage):
		m.activity.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.LastPage):
		m.activity.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.activity.viewport, cmd = m.activity.viewport.Update(msg)
	return m, cmd
}

// handleActivity stores a fresh read of the log file.
func (m *Model) handleActivity(msg activityMsg) {
	m.activity.loaded = true
	m.activity.err = msg.err
	m.activity.entries = logtail.ParseLines(msg.lines)
	m.updateActivityViewport()
	m.activity.viewport.GotoBottom()
}

// resizeActivity fits the viewport inside the titled box.
func (m *Model) resizeActivity() {
	m.activity.viewport.Width = max(m.width-2, 0)
	m.activity.viewport.Height = max(m.contentHeight()-2, 0)
	m.updateActivityViewport()
}

func (m *Model) updateActivityViewport() {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	width := m.activity.viewport.Width

	var lines []string
	for _, e := range logtail.AtLeast(m.activity.entries, m.activity.minLevel) {
		line := truncate(sanitize(logtail.Format(e)), width)
		lines = append(lines, m.levelStyle(e.Level, styles).Render(line))
	}
	m.activity.viewport.SetContent(strings.Join(lines, "\n"))
}

func (m Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "debug":
		return styles.FaintText
	case "warn":
		return styles.WarningText
	case "error", "dpanic", "panic", "fatal":
		return styles.DangerText
	case "info":
		return styles.Text
	default:
		return styles.MutedText
	}
}

// renderActivity renders the log tail box.
func (m Model) renderActivity() string {
	height := m.contentHeight()
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	title := fmt.Sprintf("Activity (%s)", levelLabel(m.activity.minLevel))

	var content string
	switch {
	case m.activity.path == "":
		content = styles.MutedText.Render("Logging to stderr; no log file to show")
	case m.activity.err != nil:
		content = styles.DangerText.Render(truncate(sanitize(m.activity.err.Error()), max(m.width-4, 0)))
	case !m.activity.loaded:
		content = styles.MutedText.Render("Reading " + truncateMiddle(m.activity.path, max(m.width-12, 10)))
	case len(m.activity.entries) == 0:
		content = styles.MutedText.Render("No log entries yet")
	default:
		content = m.activity.viewport.View()
	}

	return m.renderTitledBox(title, content, m.width, height, true)
}
