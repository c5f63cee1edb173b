package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeInto(f form, text string) form {
	for _, r := range text {
		f, _ = f.update(runes(string(r)))
	}
	return f
}

func TestFormTypingAndFocus(t *testing.T) {
	f := newForm(formField{label: "name"}, formField{label: "location"})
	f = typeInto(f, "Gym")
	f, _ = f.update(tea.KeyMsg{Type: tea.KeyTab})
	f = typeInto(f, "B 1F")

	if f.value(0) != "Gym" || f.value(1) != "B 1F" {
		t.Errorf("values = %q, %q", f.value(0), f.value(1))
	}

	f, _ = f.update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if f.focus != 0 {
		t.Errorf("shift+tab focus = %d, want 0", f.focus)
	}
	f, _ = f.update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if f.focus != 1 {
		t.Errorf("shift+tab should wrap, focus = %d", f.focus)
	}
}

func TestFormSubmit(t *testing.T) {
	f := newForm(formField{label: "a"}, formField{label: "b"})

	f, submit := f.update(tea.KeyMsg{Type: tea.KeyEnter})
	if submit || f.focus != 1 {
		t.Fatalf("enter on first field should advance, submit=%v focus=%d", submit, f.focus)
	}
	if _, submit = f.update(tea.KeyMsg{Type: tea.KeyEnter}); !submit {
		t.Error("enter on the last field should submit")
	}

	f.focus = 0
	if _, submit = f.update(tea.KeyMsg{Type: tea.KeyCtrlS}); !submit {
		t.Error("ctrl+s should submit from any field")
	}
}

func TestFormChoiceField(t *testing.T) {
	f := newForm(formField{label: "venue", options: []string{"Gym", "Plaza", "Hall"}})
	f, _ = f.update(runes("l"))
	if f.value(0) != "Plaza" {
		t.Errorf("after l = %q, want Plaza", f.value(0))
	}
	f, _ = f.update(runes("h"))
	f, _ = f.update(runes("h"))
	if f.value(0) != "Hall" {
		t.Errorf("h should wrap backwards, got %q", f.value(0))
	}
	f = typeInto(f, "xyz")
	if f.value(0) != "Hall" {
		t.Errorf("typing into a choice field changed it to %q", f.value(0))
	}

	f.setOptions(0, []string{"Only"})
	if f.value(0) != "Only" {
		t.Errorf("setOptions should reset an out-of-range choice, got %q", f.value(0))
	}
}

func TestFormMaskedView(t *testing.T) {
	f := newForm(formField{label: "username"}, formField{label: "password", masked: true})
	f = typeInto(f, "admin")
	f, _ = f.update(tea.KeyMsg{Type: tea.KeyTab})
	f = typeInto(f, "secret")

	view := f.View(0)
	if !strings.Contains(view, "admin") {
		t.Errorf("expected username in view:\n%s", view)
	}
	if strings.Contains(view, "secret") {
		t.Errorf("password leaked into view:\n%s", view)
	}
	if !strings.Contains(view, "••••••") {
		t.Errorf("expected masked password:\n%s", view)
	}
}

func TestFormReset(t *testing.T) {
	f := newForm(formField{label: "a"}, formField{label: "b", options: []string{"x", "y"}})
	f = typeInto(f, "hello")
	f.focus = 1
	f, _ = f.update(runes("l"))
	f.reset()
	if f.value(0) != "" || f.value(1) != "x" || f.focus != 0 {
		t.Errorf("reset left %q, %q, focus %d", f.value(0), f.value(1), f.focus)
	}
}
