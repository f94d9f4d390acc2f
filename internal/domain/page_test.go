package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePage(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		total        int64
		wantNumber   int
		wantNumPages int
	}{
		{name: "missing", raw: "", total: 12, wantNumber: 1, wantNumPages: 3},
		{name: "garbage", raw: "abc", total: 12, wantNumber: 1, wantNumPages: 3},
		{name: "zero", raw: "0", total: 12, wantNumber: 1, wantNumPages: 3},
		{name: "negative", raw: "-4", total: 12, wantNumber: 1, wantNumPages: 3},
		{name: "middle", raw: "2", total: 12, wantNumber: 2, wantNumPages: 3},
		{name: "last", raw: "3", total: 12, wantNumber: 3, wantNumPages: 3},
		{name: "overflow clamps to last", raw: "99", total: 12, wantNumber: 3, wantNumPages: 3},
		{name: "exact multiple", raw: "2", total: 10, wantNumber: 2, wantNumPages: 2},
		{name: "empty result has one page", raw: "5", total: 0, wantNumber: 1, wantNumPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, numPages := ResolvePage(tt.raw, tt.total, CatalogPageSize)
			assert.Equal(t, tt.wantNumber, number)
			assert.Equal(t, tt.wantNumPages, numPages)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 5))
	assert.Equal(t, 10, Offset(3, 5))
}

func TestPage_Navigation(t *testing.T) {
	p := Page[int]{Number: 2, NumPages: 3}

	assert.True(t, p.HasPrevious())
	assert.True(t, p.HasNext())
	assert.Equal(t, 1, p.PreviousNumber())
	assert.Equal(t, 3, p.NextNumber())
	assert.Equal(t, []int{1, 2, 3}, p.PageNumbers())

	first := Page[int]{Number: 1, NumPages: 1}
	assert.False(t, first.HasPrevious())
	assert.False(t, first.HasNext())
}
