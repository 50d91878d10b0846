package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/coursedeck/internal/view"
)

// field is one labelled input. Multi-line fields use a textarea.
type field struct {
	name      string
	label     string
	multiline bool
	input     textinput.Model
	area      textarea.Model
}

func textField(name, label, placeholder string, limit int) field {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	if limit > 0 {
		in.CharLimit = limit
	}
	return field{name: name, label: label, input: in}
}

func passwordField(name, label string) field {
	f := textField(name, label, "", 0)
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

func areaField(name, label, placeholder string, limit int) field {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = limit
	ta.SetHeight(textareaHeight)
	return field{name: name, label: label, multiline: true, area: ta}
}

func (f *field) value() string {
	if f.multiline {
		return f.area.Value()
	}
	return f.input.Value()
}

func (f *field) setValue(v string) {
	if f.multiline {
		f.area.SetValue(v)
		return
	}
	f.input.SetValue(v)
}

func (f *field) focus() tea.Cmd {
	if f.multiline {
		return f.area.Focus()
	}
	return f.input.Focus()
}

func (f *field) blur() {
	if f.multiline {
		f.area.Blur()
		return
	}
	f.input.Blur()
}

// form is an ordered set of fields with one focus position.
type form struct {
	fields  []field
	index   int
	focused bool
	errs    map[string]string
}

func newForm(fields ...field) *form {
	return &form{fields: fields, errs: map[string]string{}}
}

// Focused reports whether a field is taking keystrokes.
func (f *form) Focused() bool { return f.focused }

// Focus gives keystrokes to the current field.
func (f *form) Focus() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.focused = true
	return f.fields[f.index].focus()
}

// Blur releases focus so that page keys work again.
func (f *form) Blur() {
	f.focused = false
	for i := range f.fields {
		f.fields[i].blur()
	}
}

func (f *form) move(delta int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.fields[f.index].blur()
	f.index = (f.index + delta + len(f.fields)) % len(f.fields)
	return f.Focus()
}

// Last reports whether the last field has focus.
func (f *form) Last() bool { return f.index == len(f.fields)-1 }

// Update routes msg to the focused field. Tab and shift+tab move between
// fields.
func (f *form) Update(msg tea.Msg, keys keyMap) tea.Cmd {
	if !f.focused || len(f.fields) == 0 {
		return nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.NextField):
			return f.move(1)
		case key.Matches(k, keys.PrevField):
			return f.move(-1)
		}
	}
	cur := &f.fields[f.index]
	var cmd tea.Cmd
	if cur.multiline {
		cur.area, cmd = cur.area.Update(msg)
	} else {
		cur.input, cmd = cur.input.Update(msg)
	}
	delete(f.errs, cur.name)
	return cmd
}

// Value returns the raw value of the named field.
func (f *form) Value(name string) string {
	for i := range f.fields {
		if f.fields[i].name == name {
			return f.fields[i].value()
		}
	}
	return ""
}

// SetValue replaces the named field's value.
func (f *form) SetValue(name, v string) {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[i].setValue(v)
		}
	}
}

// SetErrors shows per-field validation messages. Other errors are cleared.
func (f *form) SetErrors(err error) {
	f.errs = map[string]string{}
	var verr *view.ValidationError
	if errors.As(err, &verr) {
		for _, fe := range verr.Fields {
			f.errs[fe.Field] = fe.Message
		}
	}
}

// SetWidth sizes every input.
func (f *form) SetWidth(width int) {
	if width > formWidth {
		width = formWidth
	}
	if width < 10 {
		width = 10
	}
	for i := range f.fields {
		if f.fields[i].multiline {
			f.fields[i].area.SetWidth(width)
		} else {
			f.fields[i].input.Width = width
		}
	}
}

// View renders the labelled fields.
func (f *form) View(styles Styles) string {
	var b strings.Builder
	for i := range f.fields {
		fl := &f.fields[i]
		label := styles.MutedText.Render(fl.label)
		if f.focused && i == f.index {
			label = styles.AccentText.Bold(true).Render(fl.label)
		}
		b.WriteString(label)
		b.WriteString("\n")

		box := styles.Panel
		if f.focused && i == f.index {
			box = styles.FocusPanel
		}
		if fl.multiline {
			b.WriteString(box.Render(fl.area.View()))
		} else {
			b.WriteString(box.Render(fl.input.View()))
		}
		b.WriteString("\n")
		if msg := f.errs[fl.name]; msg != "" {
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
	}
	return b.String()
}
