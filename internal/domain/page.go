package domain

import "strconv"

const (
	CatalogPageSize = 5
	AdminPageSize   = 10
)

type Page[T any] struct {
	Items    []T   `json:"items"`
	Number   int   `json:"page"`
	NumPages int   `json:"num_pages"`
	Total    int64 `json:"total"`
}

func (p Page[T]) HasPrevious() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool     { return p.Number < p.NumPages }
func (p Page[T]) PreviousNumber() int {
	return p.Number - 1
}
func (p Page[T]) NextNumber() int {
	return p.Number + 1
}

// PageNumbers lists 1..NumPages for rendering page links.
func (p Page[T]) PageNumbers() []int {
	nums := make([]int, p.NumPages)
	for i := range nums {
		nums[i] = i + 1
	}

	return nums
}

// ResolvePage turns a raw page parameter into a valid page number for total
// rows split into pages of size. Garbage yields the first page, numbers past
// either end are clamped, and an empty result still has one page.
func ResolvePage(raw string, total int64, size int) (number, numPages int) {
	numPages = 1
	if total > 0 {
		numPages = int((total + int64(size) - 1) / int64(size))
	}

	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		return 1, numPages
	}
	if number > numPages {
		return numPages, numPages
	}

	return number, numPages
}

// Offset is the number of rows preceding page number.
func Offset(number, size int) int {
	return (number - 1) * size
}

// ListQuery is the back office list request: free-text search plus a raw page
// parameter.
type ListQuery struct {
	Search string
	Page   string
}

type TourListQuery struct {
	ListQuery
	CategoryID uint
	Country    string
}
