package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/shopkeep/internal/workflow"
)

// Form field order.
const (
	fieldTitle = iota
	fieldPrice
	fieldDescription
	fieldCategory
	fieldImages
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldTitle:       "Title",
	fieldPrice:       "Price",
	fieldDescription: "Description",
	fieldCategory:    "Category ID",
	fieldImages:      "Images",
}

const formWidth = 64

func newFields() [fieldCount]textinput.Model {
	var fields [fieldCount]textinput.Model
	placeholders := [fieldCount]string{
		fieldTitle:       "Product title",
		fieldPrice:       "0.00",
		fieldDescription: "Short description",
		fieldCategory:    fmt.Sprint(workflow.DefaultCategoryID),
		fieldImages:      "https://... , https://...",
	}
	for i := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 2048
		ti.Width = formWidth - 20
		fields[i] = ti
	}
	return fields
}

// loadFields copies the session buffer into the inputs and focuses the first
// field when the form is editable.
func (m *Model) loadFields() tea.Cmd {
	buf := m.session.Buffer()
	values := [fieldCount]string{
		fieldTitle:       buf.Title,
		fieldPrice:       buf.Price,
		fieldDescription: buf.Description,
		fieldCategory:    buf.CategoryID,
		fieldImages:      buf.Images,
	}
	for i := range m.fields {
		m.fields[i].SetValue(values[i])
		m.fields[i].Blur()
	}
	m.focusField = fieldTitle
	if m.session.Editable() {
		return m.fields[fieldTitle].Focus()
	}
	return nil
}

// readFields returns the inputs as an edit buffer.
func (m Model) readFields() workflow.EditBuffer {
	return workflow.EditBuffer{
		ID:          m.session.Buffer().ID,
		Title:       m.fields[fieldTitle].Value(),
		Price:       m.fields[fieldPrice].Value(),
		Description: m.fields[fieldDescription].Value(),
		CategoryID:  m.fields[fieldCategory].Value(),
		Images:      m.fields[fieldImages].Value(),
	}
}

func (m *Model) focus(idx int) tea.Cmd {
	m.fields[m.focusField].Blur()
	m.focusField = (idx + fieldCount) % fieldCount
	return m.fields[m.focusField].Focus()
}

func (m *Model) blurFields() {
	for i := range m.fields {
		m.fields[i].Blur()
	}
}

// handleFormKey processes input while the product modal is open.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.session.Phase() {
	case workflow.Submitting:
		// Closing abandons the form; the catalog still receives the result.
		if key.Matches(msg, m.keys.Escape) {
			m.closeForm()
		}
		return m, nil

	case workflow.Confirming:
		switch {
		case key.Matches(msg, m.keys.ConfirmYes):
			req, ok := m.session.ConfirmDuplicate()
			if !ok {
				return m, nil
			}
			m.logger.Info("updating existing product instead of creating", zap.String("id", string(req.ID)))
			return m, tea.Batch(submitCmd(m.ctx, m.service, req), m.spinner.Tick)
		case key.Matches(msg, m.keys.ConfirmNo):
			m.session.DeclineDuplicate()
			return m, m.focus(m.focusField)
		}
		return m, nil

	case workflow.Viewing:
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
			m.closeForm()
			return m, nil
		case key.Matches(msg, m.keys.ToggleEdit), key.Matches(msg, m.keys.EditItem):
			m.session.ToggleEdit()
			return m, m.focus(fieldTitle)
		}
		return m, nil
	}

	// Editing or Creating
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeForm()
		return m, nil

	case key.Matches(msg, m.keys.ToggleEdit):
		if m.session.IsCreate() {
			m.closeForm()
			return m, nil
		}
		m.session.ToggleEdit()
		m.blurFields()
		return m, nil

	case key.Matches(msg, m.keys.Submit), msg.Type == tea.KeyEnter && m.focusField == fieldCount-1:
		return m.submitForm()

	case key.Matches(msg, m.keys.NextField), msg.Type == tea.KeyEnter:
		return m, m.focus(m.focusField + 1)

	case key.Matches(msg, m.keys.PrevField):
		return m, m.focus(m.focusField - 1)
	}

	var cmd tea.Cmd
	m.fields[m.focusField], cmd = m.fields[m.focusField].Update(msg)
	return m, cmd
}

// submitForm sends the form. A create whose title matches an existing
// product asks first.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.service == nil {
		return m, nil
	}
	m.session.SetBuffer(m.readFields())

	if m.session.IsCreate() {
		if existing, dup := m.service.CheckDuplicate(m.session.Buffer().Title); dup {
			m.session.AskDuplicate(existing)
			m.blurFields()
			return m, nil
		}
	}

	req, ok := m.session.BeginSubmit()
	if !ok {
		return m, nil
	}
	m.blurFields()
	return m, tea.Batch(submitCmd(m.ctx, m.service, req), m.spinner.Tick)
}

func (m *Model) closeForm() {
	m.session.Close()
	m.blurFields()
}

// handleSubmitDone applies a submission result. The catalog always changes;
// the form only when the result belongs to the open session.
func (m Model) handleSubmitDone(out workflow.Outcome) (tea.Model, tea.Cmd) {
	m.notice = out.Notice
	m.refresh()

	if !m.session.Finish(out) {
		return m, nil
	}
	if m.session.IsOpen() && m.session.Editable() {
		return m, m.focus(m.focusField)
	}
	m.blurFields()
	return m, nil
}

// renderForm draws the product modal over the screen.
func (m Model) renderForm() string {
	styles := m.theme.Styles()
	labels := m.session.Labels()
	buf := m.session.Buffer()

	var title string
	switch {
	case m.session.IsCreate():
		title = "New product"
	case m.session.Phase() == workflow.Viewing:
		title = "Product " + sanitize(string(buf.ID))
	default:
		title = "Edit product " + sanitize(string(buf.ID))
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", formWidth-6)))
	b.WriteString("\n\n")

	editable := m.session.Editable()
	for i := range m.fields {
		label := fieldLabels[i]
		labelStyle := styles.MutedText
		if editable && i == m.focusField {
			labelStyle = styles.AccentText.Bold(true)
		}
		b.WriteString(labelStyle.Render(fit(label, 13)))
		b.WriteString(" ")
		if editable {
			b.WriteString(m.fields[i].View())
		} else {
			b.WriteString(styles.Text.Render(fit(m.fields[i].Value(), formWidth-20)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.session.Phase() {
	case workflow.Confirming:
		dup, _ := m.session.Duplicate()
		b.WriteString(styles.WarningText.Render(fmt.Sprintf(
			"A product titled %q already exists (id %s).", truncate(sanitize(dup.Title), 30), sanitize(string(dup.ID)))))
		b.WriteString("\n")
		b.WriteString(styles.Text.Render("Update it instead?"))
		b.WriteString("\n\n")
		b.WriteString(m.renderButtons(
			formButton{"y", labels.Submit, labels.SubmitEnabled},
			formButton{"n", labels.Toggle, labels.ToggleEnabled},
		))
	case workflow.Submitting:
		b.WriteString(styles.InfoText.Render(m.spinner.View() + " " + labels.Submit))
		b.WriteString("\n\n")
		b.WriteString(m.renderButtons(
			formButton{"ctrl+e", labels.Toggle, labels.ToggleEnabled},
			formButton{"ctrl+s", labels.Submit, labels.SubmitEnabled},
			formButton{"esc", "Close", true},
		))
	default:
		b.WriteString(m.renderButtons(
			formButton{"ctrl+e", labels.Toggle, labels.ToggleEnabled},
			formButton{"ctrl+s", labels.Submit, labels.SubmitEnabled},
			formButton{"esc", "Close", true},
		))
	}

	return m.renderOverlay(b.String(), formWidth)
}

type formButton struct {
	key     string
	label   string
	enabled bool
}

// renderButtons draws key:label pairs; disabled controls are faint.
func (m Model) renderButtons(buttons ...formButton) string {
	styles := m.theme.Styles()
	parts := make([]string, 0, len(buttons))
	for _, btn := range buttons {
		if !btn.enabled {
			parts = append(parts, styles.FaintText.Render(btn.key+":"+btn.label))
			continue
		}
		parts = append(parts, styles.AccentText.Render(btn.key)+styles.MutedText.Render(":")+styles.Text.Render(btn.label))
	}
	return strings.Join(parts, "  ")
}
