package repository

import (
	"context"
	"fmt"

	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/repository/dao"
)

type CommentDAO interface {
	Insert(ctx context.Context, comment dao.Comment) (dao.Comment, error)
	FindByTour(ctx context.Context, tourID uint) ([]dao.Comment, error)
}

type CommentRepository struct {
	dao CommentDAO
}

func NewCommentRepository(dao CommentDAO) *CommentRepository {
	return &CommentRepository{
		dao: dao,
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	created, err := r.dao.Insert(ctx, dao.Comment{
		TourID: comment.TourID,
		UserID: comment.UserID,
		Text:   comment.Text,
	})
	if err != nil {
		return domain.Comment{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return commentDaoToDomain(created), nil
}

func (r *CommentRepository) FindByTour(ctx context.Context, tourID uint) ([]domain.Comment, error) {
	found, err := r.dao.FindByTour(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByTour -> %w", err)
	}

	comments := make([]domain.Comment, 0, len(found))
	for _, c := range found {
		comments = append(comments, commentDaoToDomain(c))
	}

	return comments, nil
}

func commentDaoToDomain(c dao.Comment) domain.Comment {
	return domain.Comment{
		ID:        c.ID,
		TourID:    c.TourID,
		UserID:    c.UserID,
		Username:  c.User.Username,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}
