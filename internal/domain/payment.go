package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Payment is the purchase record of one user for one tour. A user buying the
// same tour again adds to the existing record instead of creating another.
type Payment struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"user_id"`
	Username  string          `json:"username,omitempty"`
	TourID    uint            `json:"tour_id"`
	Tour      Tour            `json:"tour"`
	Amount    decimal.Decimal `json:"amount"`
	Status    PaymentStatus   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// Accumulate adds amount to the payment and marks it paid.
func (p *Payment) Accumulate(amount decimal.Decimal) {
	p.Amount = p.Amount.Add(amount)
	p.Status = PaymentPaid
}

// Ticket is kept for schema compatibility; no flow issues tickets, the
// tickets page lists paid payments.
type Ticket struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	TourID       uint      `json:"tour_id"`
	Quantity     int       `json:"quantity"`
	PurchaseDate time.Time `json:"purchase_date"`
}
