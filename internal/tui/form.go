package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// formField is one row of a form. Fields with options are choice fields and
// cycle with h/l or left/right instead of accepting text.
type formField struct {
	label       string
	value       string
	placeholder string
	masked      bool
	options     []string
	choice      int
}

// form is the shared multi-field editor behind the login, apply and catalogue
// screens.
type form struct {
	fields []formField
	focus  int
}

func newForm(fields ...formField) form {
	return form{fields: fields}
}

// update applies a key to the focused field. It reports true when the form is
// submitted: ctrl+s anywhere, or enter on the last field.
func (f form) update(msg tea.KeyMsg) (form, bool) {
	if len(f.fields) == 0 {
		return f, false
	}
	n := len(f.fields)
	field := &f.fields[f.focus]

	switch msg.String() {
	case "ctrl+s":
		return f, true
	case "enter":
		if f.focus == n-1 {
			return f, true
		}
		f.focus++
		return f, false
	case "tab", "down":
		f.focus = (f.focus + 1) % n
		return f, false
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + n) % n
		return f, false
	}

	if len(field.options) > 0 {
		switch msg.String() {
		case "l", "right":
			field.choice = (field.choice + 1) % len(field.options)
		case "h", "left":
			field.choice = (field.choice - 1 + len(field.options)) % len(field.options)
		}
		return f, false
	}

	field.value = editKey(field.value, msg)
	return f, false
}

// value returns the trimmed text, or the selected option, of field i.
func (f form) value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	field := f.fields[i]
	if len(field.options) > 0 {
		if field.choice < len(field.options) {
			return field.options[field.choice]
		}
		return ""
	}
	return strings.TrimSpace(field.value)
}

func (f *form) setOptions(i int, options []string) {
	if i < 0 || i >= len(f.fields) {
		return
	}
	f.fields[i].options = options
	if f.fields[i].choice >= len(options) {
		f.fields[i].choice = 0
	}
}

func (f *form) reset() {
	for i := range f.fields {
		f.fields[i].value = ""
		f.fields[i].choice = 0
	}
	f.focus = 0
}

func (f form) View(frame int) string {
	width := 0
	for _, field := range f.fields {
		if len(field.label) > width {
			width = len(field.label)
		}
	}

	var b strings.Builder
	for i, field := range f.fields {
		focused := i == f.focus
		cursor := " "
		style := metaStyle
		if focused {
			cursor = accentStyle.Render(">")
			style = selectedStyle
		}
		label := style.Render(fmt.Sprintf("%-*s", width, field.label))

		if len(field.options) > 0 {
			choice := "-"
			if field.choice < len(field.options) {
				choice = field.options[field.choice]
			}
			hint := ""
			if focused {
				hint = metaStyle.Render("  (h/l to cycle)")
			}
			fmt.Fprintf(&b, "%s %s  %s%s\n", cursor, label, normalStyle.Render(choice), hint)
			continue
		}

		value := field.value
		if field.masked {
			value = strings.Repeat("•", len([]rune(value)))
		}
		fmt.Fprintf(&b, "%s %s  %s\n", cursor, label, renderValue(value, field.placeholder, focused, frame))
	}
	return b.String()
}
