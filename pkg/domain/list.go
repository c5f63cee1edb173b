package domain

import (
	"bytes"
	"encoding/json"
)

// List decodes either a bare JSON array or a paginated object of the form
// {"items": [...], "total": n} (also accepting "list" for the array key).
type List[T any] struct {
	Items []T
	Total int
}

func (l *List[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		l.Items, l.Total = nil, 0
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &l.Items); err != nil {
			return err
		}
		l.Total = len(l.Items)
		return nil
	}
	var page struct {
		Items []T  `json:"items"`
		List  []T  `json:"list"`
		Total *int `json:"total"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return err
	}
	l.Items = page.Items
	if l.Items == nil {
		l.Items = page.List
	}
	l.Total = len(l.Items)
	if page.Total != nil {
		l.Total = *page.Total
	}
	return nil
}
