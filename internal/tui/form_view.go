package tui

import (
	"strings"

	"quill-cli/internal/form"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formView is the shared single-column form widget: labeled text inputs, a
// submit control as the final focus stop, per-field error lines, and a
// form-level notice. Field/feedback state lives in form.Form; this widget owns
// only focus and rendering.
type formView struct {
	id          string
	frm         *form.Form
	fields      []formField
	focus       int // len(fields) == submit control
	submitLabel string
}

type formField struct {
	name   string
	label  string
	input  textinput.Model
	masked bool
}

func newFormField(name, label, placeholder string, masked bool) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 256
	if masked {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return formField{name: name, label: label, input: ti, masked: masked}
}

func newFormView(id, submitLabel string, frm *form.Form, fields ...formField) *formView {
	fv := &formView{id: id, frm: frm, fields: fields, submitLabel: submitLabel}
	fv.setFocus(0)
	return fv
}

func (fv *formView) setFocus(i int) {
	if i < 0 {
		i = 0
	}
	if i > len(fv.fields) {
		i = len(fv.fields)
	}
	fv.focus = i
	for j := range fv.fields {
		if j == i {
			fv.fields[j].input.Focus()
		} else {
			fv.fields[j].input.Blur()
		}
	}
}

func (fv *formView) onSubmit() bool { return fv.focus == len(fv.fields) }

// reset clears both the form state and the rendered inputs.
func (fv *formView) reset() {
	fv.frm.Reset()
	for i := range fv.fields {
		fv.fields[i].input.SetValue("")
	}
	fv.setFocus(0)
}

func (fv *formView) setValue(name, value string) {
	for i := range fv.fields {
		if fv.fields[i].name == name {
			fv.fields[i].input.SetValue(value)
		}
	}
	fv.frm.SetField(name, value)
}

// update routes one key event. submit is true when the user activated the
// submit control and the form allows it; a disabled control swallows the key.
func (fv *formView) update(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		fv.setFocus((fv.focus + 1) % (len(fv.fields) + 1))
		return nil, false
	case "shift+tab", "up":
		fv.setFocus((fv.focus + len(fv.fields)) % (len(fv.fields) + 1))
		return nil, false
	case "ctrl+t":
		// Toggle password visibility on the focused field.
		if fv.focus < len(fv.fields) && fv.fields[fv.focus].masked {
			f := &fv.fields[fv.focus]
			if f.input.EchoMode == textinput.EchoPassword {
				f.input.EchoMode = textinput.EchoNormal
			} else {
				f.input.EchoMode = textinput.EchoPassword
			}
		}
		return nil, false
	case "enter":
		if fv.onSubmit() {
			return nil, fv.frm.CanSubmit()
		}
		fv.setFocus(fv.focus + 1)
		return nil, false
	}

	if fv.focus >= len(fv.fields) {
		return nil, false
	}
	f := &fv.fields[fv.focus]
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	// Editing a field clears its error marker immediately.
	fv.frm.SetField(f.name, f.input.Value())
	return cmd, false
}

func (fv *formView) view(width int) string {
	inputW := width - 4
	if inputW > 60 {
		inputW = 60
	}
	if inputW < 20 {
		inputW = 20
	}

	var b strings.Builder
	for i := range fv.fields {
		f := &fv.fields[i]
		f.input.Width = inputW

		label := f.label
		if i == fv.focus {
			label = lipgloss.NewStyle().Bold(true).Render(label)
		} else {
			label = styleMuted().Render(label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(f.input.View())
		b.WriteString("\n")
		if fb, ok := fv.frm.FieldError(f.name); ok {
			b.WriteString(styleError().Render(fb.Text))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(fv.submitControl())
	b.WriteString("\n")

	if fb, ok := fv.frm.Notice(); ok {
		b.WriteString("\n")
		b.WriteString(renderFeedback(fb.Text, fb.Severity))
		b.WriteString("\n")
	}
	return b.String()
}

func (fv *formView) submitControl() string {
	label := fv.submitLabel
	if fv.frm.Submitting() {
		label = "Working…"
	}

	st := lipgloss.NewStyle().Padding(0, 2)
	switch {
	case !fv.frm.CanSubmit():
		st = faintIfDark(st.Foreground(colorMuted).Background(colorControlBg))
	case fv.onSubmit():
		st = st.Bold(true).Foreground(colorAccentFg).Background(colorAccent)
	default:
		st = st.Foreground(colorSurfaceFg).Background(colorControlBg)
	}
	return st.Render(label)
}

func renderFeedback(text string, sev form.Severity) string {
	switch sev {
	case form.SeverityError:
		return styleError().Render(text)
	case form.SeveritySuccess:
		return styleSuccess().Render(text)
	default:
		return text
	}
}
