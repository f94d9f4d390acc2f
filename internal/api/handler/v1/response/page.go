package response

import "github.com/voyage-tours/voyage/internal/domain"

// Page is the JSON envelope of a back office list.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	NumPages int   `json:"num_pages"`
	Total    int64 `json:"total"`
	HasNext  bool  `json:"has_next"`
}

func NewPage[T any](p domain.Page[T]) Page[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}

	return Page[T]{
		Items:    items,
		Page:     p.Number,
		NumPages: p.NumPages,
		Total:    p.Total,
		HasNext:  p.HasNext(),
	}
}
