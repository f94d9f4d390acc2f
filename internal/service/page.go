package service

import (
	"strconv"

	"github.com/voyage-tours/voyage/internal/domain"
)

// listPage fetches the page named by rawPage. fetch reports the total row
// count along with the window, so a request past the last page costs a second
// query for the clamped window.
func listPage[T any](rawPage string, size int, fetch func(offset, limit int) ([]T, int64, error)) (domain.Page[T], error) {
	requested, err := strconv.Atoi(rawPage)
	if err != nil || requested < 1 {
		requested = 1
	}

	items, total, err := fetch(domain.Offset(requested, size), size)
	if err != nil {
		return domain.Page[T]{}, err
	}

	number, numPages := domain.ResolvePage(rawPage, total, size)
	if number != requested {
		if items, total, err = fetch(domain.Offset(number, size), size); err != nil {
			return domain.Page[T]{}, err
		}
	}

	return domain.Page[T]{
		Items:    items,
		Number:   number,
		NumPages: numPages,
		Total:    total,
	}, nil
}
