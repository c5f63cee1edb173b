package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/naveenspark/venuebook/internal/datetime"
	"github.com/naveenspark/venuebook/pkg/domain"
)

// formatAgo renders a server timestamp as a relative age for notification lists.
func formatAgo(raw string, now time.Time) string {
	t, ok := datetime.Parse(raw)
	if !ok {
		return raw
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatRange renders a booking window. The end drops its date when both ends
// fall on the same day.
func formatRange(start, end string) string {
	s := datetime.FormatDisplay(start)
	e := datetime.FormatDisplay(end)
	if datetime.DateKey(start) != "" && datetime.DateKey(start) == datetime.DateKey(end) {
		if i := strings.LastIndex(e, " "); i >= 0 {
			e = e[i+1:]
		}
	}
	return s + " - " + e
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// parseMaterials reads a "id:qty, id:qty" list of requested materials.
func parseMaterials(raw string) ([]domain.RequestedMaterial, error) {
	var out []domain.RequestedMaterial
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idStr, qtyStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("material %q: want id:quantity", part)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("material %q: bad id", part)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("material %q: bad quantity", part)
		}
		out = append(out, domain.RequestedMaterial{MaterialID: id, Quantity: qty})
	}
	return out, nil
}

// applicationSummary is the plain-text form copied to the clipboard.
func applicationSummary(a domain.Application) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s\n", a.ID, a.ActivityName)
	venue := a.VenueName
	if venue == "" {
		venue = fmt.Sprintf("venue %d", a.VenueID)
	}
	fmt.Fprintf(&b, "%s, %s\n", venue, formatRange(a.StartTime, a.EndTime))
	fmt.Fprintf(&b, "status: %s", a.Status)
	if a.RejectReason != "" {
		fmt.Fprintf(&b, " (%s)", a.RejectReason)
	}
	for _, m := range a.RequestedMaterials {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("material %d", m.MaterialID)
		}
		fmt.Fprintf(&b, "\n  %s x%d", name, m.Quantity)
	}
	return b.String()
}
