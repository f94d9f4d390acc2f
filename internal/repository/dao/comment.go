package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	TourID    uint      `gorm:"index;not null"`
	Tour      Tour      `gorm:"constraint:OnDelete:CASCADE"`
	UserID    uint      `gorm:"index;not null"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Text      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type CommentDAO struct {
	db *gorm.DB
}

func NewCommentDAO(db *gorm.DB) *CommentDAO {
	return &CommentDAO{
		db: db,
	}
}

func (d *CommentDAO) Insert(ctx context.Context, comment Comment) (Comment, error) {
	db := conn(ctx, d.db)
	if err := db.Create(&comment).Error; err != nil {
		return Comment{}, err
	}
	if err := db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return Comment{}, err
	}

	return comment, nil
}

func (d *CommentDAO) FindByTour(ctx context.Context, tourID uint) ([]Comment, error) {
	var comments []Comment

	result := conn(ctx, d.db).
		Preload("User").
		Where("tour_id = ?", tourID).
		Order("created_at DESC").
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}

	return comments, nil
}
