package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrCartItemNotFound = errors.New("cart item not found")

type CartItem struct {
	ID       uint      `gorm:"primaryKey"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_cart_user_tour"`
	User     User      `gorm:"constraint:OnDelete:CASCADE"`
	TourID   uint      `gorm:"not null;uniqueIndex:idx_cart_user_tour"`
	Tour     Tour      `gorm:"constraint:OnDelete:CASCADE"`
	Quantity int       `gorm:"not null;default:1;check:quantity >= 1"`
	AddedAt  time.Time `gorm:"autoCreateTime;not null"`
}

type CartDAO struct {
	db *gorm.DB
}

func NewCartDAO(db *gorm.DB) *CartDAO {
	return &CartDAO{
		db: db,
	}
}

// FirstOrCreate returns the user's cart row for the tour, inserting one with
// quantity 1 when there is none. created reports which branch was taken.
func (d *CartDAO) FirstOrCreate(ctx context.Context, userID, tourID uint) (item CartItem, created bool, err error) {
	db := conn(ctx, d.db)

	result := db.Where("user_id = ? AND tour_id = ?", userID, tourID).First(&item)
	if result.Error == nil {
		return item, false, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return CartItem{}, false, result.Error
	}

	item = CartItem{UserID: userID, TourID: tourID, Quantity: 1}
	if err = db.Create(&item).Error; err != nil {
		return CartItem{}, false, err
	}

	return item, true, nil
}

// IncrementQuantity adds one to the row's quantity in a single UPDATE so
// concurrent adds are not lost.
func (d *CartDAO) IncrementQuantity(ctx context.Context, id uint) error {
	result := conn(ctx, d.db).Model(&CartItem{ID: id}).Update("quantity", gorm.Expr("quantity + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// Delete removes the user's row for the tour. Deleting a missing row is not
// an error.
func (d *CartDAO) Delete(ctx context.Context, userID, tourID uint) error {
	return conn(ctx, d.db).
		Where("user_id = ? AND tour_id = ?", userID, tourID).
		Delete(&CartItem{}).Error
}

func (d *CartDAO) DeleteByUser(ctx context.Context, userID uint) error {
	return conn(ctx, d.db).Where("user_id = ?", userID).Delete(&CartItem{}).Error
}

func (d *CartDAO) FindByUser(ctx context.Context, userID uint) ([]CartItem, error) {
	var items []CartItem

	result := conn(ctx, d.db).
		Preload("Tour.Category").
		Where("user_id = ?", userID).
		Order("added_at").
		Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

func (d *CartDAO) ListForAdmin(ctx context.Context, search string, offset, limit int) ([]CartItem, int64, error) {
	q := conn(ctx, d.db).Model(&CartItem{}).
		Joins("JOIN users ON users.id = cart_items.user_id").
		Joins("JOIN tours ON tours.id = cart_items.tour_id")
	if search != "" {
		pattern := containsPattern(search)
		q = q.Where("(users.username ILIKE ? OR tours.title ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []CartItem
	err := q.Preload("User").Preload("Tour").
		Order("cart_items.added_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
