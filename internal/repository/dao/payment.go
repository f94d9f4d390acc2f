package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

type Payment struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"not null;uniqueIndex:idx_payment_user_tour"`
	User      User            `gorm:"constraint:OnDelete:CASCADE"`
	TourID    uint            `gorm:"not null;uniqueIndex:idx_payment_user_tour"`
	Tour      Tour            `gorm:"constraint:OnDelete:CASCADE"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:1"`
	Status    string          `gorm:"size:24;not null;default:'pending'"`
	CreatedAt time.Time       `gorm:"not null"`
}

// Ticket has no writer; the table exists so the schema matches the model.
type Ticket struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"index;not null"`
	User         User      `gorm:"constraint:OnDelete:CASCADE"`
	TourID       uint      `gorm:"index;not null"`
	Tour         Tour      `gorm:"constraint:OnDelete:CASCADE"`
	Quantity     int       `gorm:"not null;default:1"`
	PurchaseDate time.Time `gorm:"autoCreateTime;not null"`
}

type PaymentDAO struct {
	db *gorm.DB
}

func NewPaymentDAO(db *gorm.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

// FirstOrCreate returns the (user, tour) payment, inserting defaults when it
// does not exist yet. created reports which branch was taken.
func (d *PaymentDAO) FirstOrCreate(ctx context.Context, userID, tourID uint, defaults Payment) (payment Payment, created bool, err error) {
	db := conn(ctx, d.db)

	result := db.Where("user_id = ? AND tour_id = ?", userID, tourID).First(&payment)
	if result.Error == nil {
		return payment, false, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return Payment{}, false, result.Error
	}

	payment = defaults
	payment.UserID = userID
	payment.TourID = tourID
	if err = db.Create(&payment).Error; err != nil {
		return Payment{}, false, err
	}

	return payment, true, nil
}

func (d *PaymentDAO) Update(ctx context.Context, payment Payment) (Payment, error) {
	result := conn(ctx, d.db).Model(&Payment{ID: payment.ID}).
		Select("Amount", "Status").
		Updates(&payment)
	if result.Error != nil {
		return Payment{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Payment{}, ErrPaymentNotFound
	}

	return payment, nil
}

func (d *PaymentDAO) FindByUserAndStatus(ctx context.Context, userID uint, status string) ([]Payment, error) {
	var payments []Payment

	result := conn(ctx, d.db).
		Preload("Tour.Category").
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC").
		Find(&payments)
	if result.Error != nil {
		return nil, result.Error
	}

	return payments, nil
}

func (d *PaymentDAO) ListForAdmin(ctx context.Context, search string, offset, limit int) ([]Payment, int64, error) {
	q := conn(ctx, d.db).Model(&Payment{}).
		Joins("JOIN users ON users.id = payments.user_id").
		Joins("JOIN tours ON tours.id = payments.tour_id")
	if search != "" {
		pattern := containsPattern(search)
		q = q.Where("(users.username ILIKE ? OR tours.title ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []Payment
	err := q.Preload("User").Preload("Tour").
		Order("payments.created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}
