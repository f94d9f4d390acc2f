package service

import (
	"context"
	"fmt"

	"github.com/voyage-tours/voyage/internal/domain"
)

type FavoriteRepository interface {
	GetOrCreate(ctx context.Context, userID, tourID uint) (domain.Favorite, bool, error)
	Delete(ctx context.Context, userID, tourID uint) (bool, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.Favorite, error)
}

type FavoriteService struct {
	repo  FavoriteRepository
	tours TourFinder
}

func NewFavoriteService(repo FavoriteRepository, tours TourFinder) *FavoriteService {
	return &FavoriteService{
		repo:  repo,
		tours: tours,
	}
}

// Toggle adds the tour to the user's favorites, or removes it when it was
// already there. added reports which of the two happened.
func (s *FavoriteService) Toggle(ctx context.Context, userID, tourID uint) (tour domain.Tour, added bool, err error) {
	tour, err = s.tours.FindTourByID(ctx, tourID)
	if err != nil {
		return domain.Tour{}, false, fmt.Errorf("s.tours.FindTourByID -> %w", err)
	}

	_, created, err := s.repo.GetOrCreate(ctx, userID, tour.ID)
	if err != nil {
		return domain.Tour{}, false, fmt.Errorf("s.repo.GetOrCreate -> %w", err)
	}
	if created {
		return tour, true, nil
	}

	if _, err = s.repo.Delete(ctx, userID, tour.ID); err != nil {
		return domain.Tour{}, false, fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return tour, false, nil
}

// Remove deletes the favorite if present. removed is false when there was
// nothing to delete.
func (s *FavoriteService) Remove(ctx context.Context, userID, tourID uint) (tour domain.Tour, removed bool, err error) {
	tour, err = s.tours.FindTourByID(ctx, tourID)
	if err != nil {
		return domain.Tour{}, false, fmt.Errorf("s.tours.FindTourByID -> %w", err)
	}

	removed, err = s.repo.Delete(ctx, userID, tour.ID)
	if err != nil {
		return domain.Tour{}, false, fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return tour, removed, nil
}

func (s *FavoriteService) List(ctx context.Context, userID uint) ([]domain.Favorite, error) {
	favorites, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUser -> %w", err)
	}

	return favorites, nil
}
