package main

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/lipgloss"
)

var signedOutLines = [...]string{
	"The halls are quiet. Nobody has booked them yet.",
	"Every projector in the building is waiting for an approval.",
	"Room 101 is free all week. That never lasts.",
	"The reviewers have cleared their queue. Give them something to read.",
	"Somewhere a microphone is charged and unused.",
	"Bookings go faster once you are signed in.",
}

func printSignedOut(w io.Writer) {
	msg := signedOutLines[rand.Intn(len(signedOutLines))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5eead4")).
		Bold(true).
		Render("VENUEBOOK")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To sign in: venuebook login --username <name>")

	fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}
