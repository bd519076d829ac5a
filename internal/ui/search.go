package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleSearchKey feeds the search box. Filtering is live: every keystroke
// recomputes the view and returns to page 1.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		// Keep the filter, leave the box.
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applySearch()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.applySearch()
	}
	return m, cmd
}

// applySearch pushes the box contents into the view state.
func (m *Model) applySearch() {
	m.view.SetSearch(m.search.Value())
	m.selectedRow = 0
	m.rebuildPage()
}
