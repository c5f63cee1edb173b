package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// pageSize is the default number of items fetched per API call.
const pageSize = 50

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 2000

// editKey applies a keystroke to inline text. Backspace drops the last rune,
// printable runes (including pasted text) are appended, and every other key
// leaves the text unchanged. Input is clamped to maxInputLen runes.
func editKey(text string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyBackspace:
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case tea.KeySpace:
		return appendClamped(text, " ")
	case tea.KeyRunes:
		s := strings.Map(func(r rune) rune {
			if r == '\n' || r == '\r' || r == '\t' {
				return ' '
			}
			return r
		}, string(msg.Runes))
		return appendClamped(text, s)
	}
	return text
}

func appendClamped(text, s string) string {
	room := maxInputLen - utf8.RuneCountInString(text)
	if room <= 0 {
		return text
	}
	if utf8.RuneCountInString(s) > room {
		s = string([]rune(s)[:room])
	}
	return text + s
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderInput renders a single-line prompt with a blinking cursor when
// focused and the placeholder when empty.
func renderInput(prompt, value, placeholder string, focused bool, frame int) string {
	return inputPromptStyle.Render(prompt+" ") + renderValue(value, placeholder, focused, frame)
}

func renderValue(value, placeholder string, focused bool, frame int) string {
	if !focused {
		if value == "" {
			return inputPlaceholderStyle.Render(placeholder)
		}
		return dimStyle.Render(value)
	}
	cursor := " "
	if (frame/4)%2 == 0 {
		cursor = accentStyle.Render("█")
	}
	if value == "" {
		return cursor + inputPlaceholderStyle.Render(placeholder)
	}
	return selectedStyle.Render(value) + cursor
}
