package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Favorite struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_tour"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	TourID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_tour"`
	Tour      Tour      `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"not null"`
}

type FavoriteDAO struct {
	db *gorm.DB
}

func NewFavoriteDAO(db *gorm.DB) *FavoriteDAO {
	return &FavoriteDAO{
		db: db,
	}
}

func (d *FavoriteDAO) FirstOrCreate(ctx context.Context, userID, tourID uint) (favorite Favorite, created bool, err error) {
	db := conn(ctx, d.db)

	result := db.Where("user_id = ? AND tour_id = ?", userID, tourID).First(&favorite)
	if result.Error == nil {
		return favorite, false, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return Favorite{}, false, result.Error
	}

	favorite = Favorite{UserID: userID, TourID: tourID}
	if err = db.Create(&favorite).Error; err != nil {
		return Favorite{}, false, err
	}

	return favorite, true, nil
}

// Delete removes the pair and reports whether a row existed.
func (d *FavoriteDAO) Delete(ctx context.Context, userID, tourID uint) (bool, error) {
	result := conn(ctx, d.db).
		Where("user_id = ? AND tour_id = ?", userID, tourID).
		Delete(&Favorite{})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (d *FavoriteDAO) FindByUser(ctx context.Context, userID uint) ([]Favorite, error) {
	var favorites []Favorite

	result := conn(ctx, d.db).
		Preload("Tour.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites)
	if result.Error != nil {
		return nil, result.Error
	}

	return favorites, nil
}

func (d *FavoriteDAO) FindTourIDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint

	result := conn(ctx, d.db).Model(&Favorite{}).Where("user_id = ?", userID).Pluck("tour_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

func (d *FavoriteDAO) ListForAdmin(ctx context.Context, search string, offset, limit int) ([]Favorite, int64, error) {
	q := conn(ctx, d.db).Model(&Favorite{}).
		Joins("JOIN users ON users.id = favorites.user_id").
		Joins("JOIN tours ON tours.id = favorites.tour_id")
	if search != "" {
		pattern := containsPattern(search)
		q = q.Where("(users.username ILIKE ? OR tours.title ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var favorites []Favorite
	err := q.Preload("User").Preload("Tour").
		Order("favorites.created_at DESC").Offset(offset).Limit(limit).Find(&favorites).Error
	if err != nil {
		return nil, 0, err
	}

	return favorites, total, nil
}
