package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID       uint      `json:"id"`
	UserID   uint      `json:"user_id"`
	Username string    `json:"username,omitempty"`
	TourID   uint      `json:"tour_id"`
	Tour     Tour      `json:"tour"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// Subtotal is the tour price times the quantity; Tour must be loaded.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Tour.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	Items []CartItem
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}

	return total
}

func (c Cart) TotalCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}

	return count
}
