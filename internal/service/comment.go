package service

import (
	"context"
	"fmt"

	"github.com/voyage-tours/voyage/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	FindByTour(ctx context.Context, tourID uint) ([]domain.Comment, error)
}

// CommentPublisher fans a stored comment out to live viewers of its tour.
type CommentPublisher interface {
	Publish(comment domain.Comment)
}

type CommentService struct {
	repo      CommentRepository
	tours     TourFinder
	publisher CommentPublisher
}

func NewCommentService(repo CommentRepository, tours TourFinder, publisher CommentPublisher) *CommentService {
	return &CommentService{
		repo:      repo,
		tours:     tours,
		publisher: publisher,
	}
}

func (s *CommentService) AddComment(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	if _, err := s.tours.FindTourByID(ctx, comment.TourID); err != nil {
		return domain.Comment{}, fmt.Errorf("s.tours.FindTourByID -> %w", err)
	}

	created, err := s.repo.Create(ctx, comment)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(created)
	}

	return created, nil
}

// ListComments returns the tour's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, tourID uint) ([]domain.Comment, error) {
	comments, err := s.repo.FindByTour(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByTour -> %w", err)
	}

	return comments, nil
}
