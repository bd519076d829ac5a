package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shopkeep/internal/config"
	"github.com/five82/shopkeep/internal/export"
	"github.com/five82/shopkeep/internal/render"
	"github.com/five82/shopkeep/internal/view"
)

// Fixed column widths; the title takes what is left.
const (
	gutterWidth   = 2
	idWidth       = 6
	priceWidth    = 10
	categoryWidth = 16
	minTitleWidth = 10
)

// handleCatalogKey processes keyboard input for the product table.
func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Activity):
		m.currentView = ViewActivity
		return m, readActivityCmd(m.activity.path)

	case key.Matches(msg, m.keys.Reload):
		if m.loading || m.service == nil {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(reloadCmd(m.ctx, m.service), m.spinner.Tick)

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Escape):
		if m.view.Search() != "" {
			m.search.SetValue("")
			m.view.SetSearch("")
			m.selectedRow = 0
			m.rebuildPage()
		}
		return m, nil

	case key.Matches(msg, m.keys.SortColumn):
		idx, _ := strconv.Atoi(msg.String())
		if idx >= 1 && idx <= len(view.SortKeys) {
			m.view.ToggleSort(view.SortKeys[idx-1])
			m.rebuildPage()
			m.savePrefs()
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.view.SetSort(nextSortKey(m.view.SortKey()), view.Ascending)
		m.rebuildPage()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ClearSort):
		m.view.SetSort(view.SortNone, view.Ascending)
		m.rebuildPage()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.gotoPage(m.view.Page() - 1)
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.gotoPage(m.view.Page() + 1)
		return m, nil

	case key.Matches(msg, m.keys.FirstPage):
		m.gotoPage(1)
		return m, nil

	case key.Matches(msg, m.keys.LastPage):
		m.gotoPage(m.view.PageCount())
		return m, nil

	case key.Matches(msg, m.keys.MorePer):
		m.stepPerPage(1)
		return m, nil

	case key.Matches(msg, m.keys.FewerPer):
		m.stepPerPage(-1)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(m.page.Rows)-1 {
			m.selectedRow++
		}
		return m, nil

	case key.Matches(msg, m.keys.ViewItem):
		if p, ok := m.selectedProduct(); ok {
			m.session.OpenView(p)
			return m, m.loadFields()
		}
		return m, nil

	case key.Matches(msg, m.keys.EditItem):
		if p, ok := m.selectedProduct(); ok {
			m.session.OpenEdit(p)
			return m, m.loadFields()
		}
		return m, nil

	case key.Matches(msg, m.keys.NewItem):
		if m.service == nil {
			return m, nil
		}
		m.session.OpenCreate()
		return m, m.loadFields()

	case key.Matches(msg, m.keys.Export):
		return m, exportCmd(m.config.ExportPath(export.FileName), m.view.PageItems())

	case key.Matches(msg, m.keys.Copy):
		return m, copyCmd(m.clipboard, m.view.PageItems())
	}

	return m, nil
}

// gotoPage moves to page n; out-of-range requests are ignored.
func (m *Model) gotoPage(n int) {
	if m.view.SetPage(n) {
		m.selectedRow = 0
		m.rebuildPage()
	}
}

// stepPerPage moves to the next or previous page size choice.
func (m *Model) stepPerPage(step int) {
	choices := config.PerPageChoices
	current := m.view.PerPage()
	idx := -1
	for i, c := range choices {
		if c == current {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && step > 0:
		// Unlisted size: jump to the first larger choice.
		idx = len(choices) - 1
		for i, c := range choices {
			if c > current {
				idx = i
				break
			}
		}
	case idx < 0:
		idx = 0
		for i, c := range choices {
			if c < current {
				idx = i
			}
		}
	default:
		idx = clampInt(idx+step, 0, len(choices)-1)
	}
	if choices[idx] == current {
		return
	}
	m.view.SetPerPage(choices[idx])
	m.selectedRow = 0
	m.rebuildPage()
	m.savePrefs()
}

// nextSortKey cycles ID, Title, Price, Category, then no sort.
func nextSortKey(current view.SortKey) view.SortKey {
	if current == view.SortNone {
		return view.SortKeys[0]
	}
	for i, k := range view.SortKeys {
		if k == current && i+1 < len(view.SortKeys) {
			return view.SortKeys[i+1]
		}
	}
	return view.SortNone
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// renderCatalog renders the table pane with pager and summary.
func (m Model) renderCatalog() string {
	height := m.contentHeight()
	title := fmt.Sprintf("Products (%d)", m.page.Total)
	if m.page.Search != "" {
		title = fmt.Sprintf("Products matching %q (%d)", m.page.Search, m.page.Total)
	}
	bgColor := m.theme.SurfaceAlt
	innerWidth := max(m.width-2, 0)

	var lines []string
	lines = append(lines, m.renderTableHeader(innerWidth, bgColor))
	if len(m.page.Rows) == 0 {
		styles := m.theme.Styles().WithBackground(bgColor)
		msg := "No products"
		if m.loading {
			msg = m.spinner.View() + " Loading products..."
		}
		lines = append(lines, "", lipgloss.PlaceHorizontal(innerWidth, lipgloss.Center, styles.MutedText.Render(msg)))
	} else {
		for i, row := range m.page.Rows {
			lines = append(lines, m.renderRow(row, innerWidth, bgColor, i == m.selectedRow))
		}
	}

	// Pager and summary sit at the bottom of the box.
	footer := []string{m.renderPager(bgColor), m.renderSummary(bgColor)}
	bodyHeight := max(height-2, 0)
	for len(lines)+len(footer) < bodyHeight {
		lines = append(lines, "")
	}
	if len(lines) > bodyHeight-len(footer) {
		lines = lines[:max(bodyHeight-len(footer), 0)]
	}
	lines = append(lines, footer...)

	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, false)
}

// columnWidths returns title and image widths for the inner width. The
// image column is dropped when space is short.
func columnWidths(width int) (titleWidth, imageWidth int) {
	fixed := gutterWidth + idWidth + priceWidth + categoryWidth + 4 // spaces between columns
	imageWidth = clampInt(width/4, 10, 40)
	titleWidth = width - fixed - imageWidth - 1
	if titleWidth < minTitleWidth {
		imageWidth = 0
		titleWidth = max(width-fixed, minTitleWidth)
	}
	return titleWidth, imageWidth
}

func (m Model) renderTableHeader(width int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	titleWidth, imageWidth := columnWidths(width)

	label := func(col render.Column) string {
		if col.Indicator != "" {
			return col.Label + " " + col.Indicator
		}
		return col.Label
	}
	cols := m.page.Columns
	cells := []string{
		bg.Spaces(gutterWidth),
		bg.Render(fit(label(cols[0]), idWidth), styles.HeaderText),
		bg.Space(),
		bg.Render(fit(label(cols[1]), titleWidth), styles.HeaderText),
		bg.Space(),
		bg.Render(fitRight(label(cols[2]), priceWidth), styles.HeaderText),
		bg.Space(),
		bg.Render(fit(label(cols[3]), categoryWidth), styles.HeaderText),
	}
	if imageWidth > 0 {
		cells = append(cells, bg.Space(), bg.Render(fit(label(cols[4]), imageWidth), styles.HeaderText))
	}
	return bg.FillLine(strings.Join(cells, ""), width)
}

// renderRow formats one product row. Unsynced rows carry a marker in the
// gutter.
func (m Model) renderRow(row render.Row, width int, bgColor string, selected bool) string {
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	titleWidth, imageWidth := columnWidths(width)

	textStyle, mutedStyle, markStyle := styles.Text, styles.MutedText, styles.UnsyncedText
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		textStyle, mutedStyle = sel, sel
		markStyle = sel.Bold(true)
	}

	gutter := bg.Spaces(gutterWidth)
	if row.Unsynced {
		gutter = bg.Render(fit("*", gutterWidth), markStyle)
	}
	cells := []string{
		gutter,
		bg.Render(fit(row.ID, idWidth), mutedStyle),
		bg.Space(),
		bg.Render(fit(row.Title, titleWidth), textStyle),
		bg.Space(),
		bg.Render(fitRight(row.Price, priceWidth), textStyle),
		bg.Space(),
		bg.Render(fit(row.Category, categoryWidth), mutedStyle),
	}
	if imageWidth > 0 {
		thumb := truncateMiddle(sanitize(row.Thumbnail), imageWidth)
		cells = append(cells, bg.Space(), bg.Render(fit(thumb, imageWidth), mutedStyle))
	}
	return bg.FillLine(strings.Join(cells, ""), width)
}

// renderPager draws « window »; disabled ends are faint and the current
// page is highlighted.
func (m Model) renderPager(bgColor string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	pager := m.page.Pager

	link := func(l render.PageLink) string {
		switch {
		case l.Disabled:
			return bg.Render(l.Label, styles.FaintText)
		case l.Active:
			return bg.Render("["+l.Label+"]", styles.AccentText.Bold(true))
		default:
			return bg.Render(l.Label, styles.Text)
		}
	}

	parts := make([]string, 0, len(pager.Window)+2)
	parts = append(parts, link(pager.First))
	for _, l := range pager.Window {
		parts = append(parts, link(l))
	}
	parts = append(parts, link(pager.Last))

	return bg.Spaces(gutterWidth) + bg.Join(parts, " ")
}

// renderSummary describes the visible range.
func (m Model) renderSummary(bgColor string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	var text string
	switch {
	case m.page.Total == 0:
		text = "Showing 0 of 0"
	default:
		text = fmt.Sprintf("Showing %d-%d of %d", m.page.From, m.page.To, m.page.Total)
	}
	if m.page.Search != "" && m.page.Total != m.page.CatalogSize {
		text += fmt.Sprintf(" (filtered from %d)", m.page.CatalogSize)
	}
	text += fmt.Sprintf(" · page %d/%d · %d per page", m.page.Pager.Page, max(m.page.Pager.PageCount, 1), m.page.PerPage)

	return bg.Spaces(gutterWidth) + bg.Render(text, styles.MutedText)
}
