package service

import (
	"context"
	"fmt"

	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/repository"
)

var (
	ErrTourNotFound     = repository.ErrTourNotFound
	ErrCategoryNotFound = repository.ErrCategoryNotFound
	ErrFAQNotFound      = repository.ErrFAQNotFound
	ErrSlugExists       = repository.ErrSlugExists
)

type CatalogRepository interface {
	CountTours(ctx context.Context, filter domain.TourFilter) (int64, error)
	FindTours(ctx context.Context, filter domain.TourFilter, offset, limit int) ([]domain.Tour, error)
	FindAllTours(ctx context.Context) ([]domain.Tour, error)
	FindTourByID(ctx context.Context, id uint) (domain.Tour, error)
	FindCategories(ctx context.Context) ([]domain.Category, error)
}

type FavoriteIDsRepository interface {
	FindTourIDs(ctx context.Context, userID uint) ([]uint, error)
}

type CatalogService struct {
	repo      CatalogRepository
	favorites FavoriteIDsRepository
}

func NewCatalogService(repo CatalogRepository, favorites FavoriteIDsRepository) *CatalogService {
	return &CatalogService{
		repo:      repo,
		favorites: favorites,
	}
}

// ListTours returns one catalog page, newest tours first. rawPage is the
// untrusted page parameter; it never causes an error.
func (s *CatalogService) ListTours(ctx context.Context, filter domain.TourFilter, rawPage string) (domain.Page[domain.Tour], error) {
	total, err := s.repo.CountTours(ctx, filter)
	if err != nil {
		return domain.Page[domain.Tour]{}, fmt.Errorf("s.repo.CountTours -> %w", err)
	}

	number, numPages := domain.ResolvePage(rawPage, total, domain.CatalogPageSize)

	tours := []domain.Tour{}
	if total > 0 {
		tours, err = s.repo.FindTours(ctx, filter, domain.Offset(number, domain.CatalogPageSize), domain.CatalogPageSize)
		if err != nil {
			return domain.Page[domain.Tour]{}, fmt.Errorf("s.repo.FindTours -> %w", err)
		}
	}

	return domain.Page[domain.Tour]{
		Items:    tours,
		Number:   number,
		NumPages: numPages,
		Total:    total,
	}, nil
}

func (s *CatalogService) AllTours(ctx context.Context) ([]domain.Tour, error) {
	tours, err := s.repo.FindAllTours(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAllTours -> %w", err)
	}

	return tours, nil
}

func (s *CatalogService) GetTour(ctx context.Context, id uint) (domain.Tour, error) {
	tour, err := s.repo.FindTourByID(ctx, id)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("s.repo.FindTourByID -> %w", err)
	}

	return tour, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.FindCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindCategories -> %w", err)
	}

	return categories, nil
}

// FavoriteSet returns the tours the user marked as favorite. Anonymous
// visitors (userID 0) get an empty set.
func (s *CatalogService) FavoriteSet(ctx context.Context, userID uint) (domain.FavoriteSet, error) {
	if userID == 0 {
		return domain.FavoriteSet{}, nil
	}

	ids, err := s.favorites.FindTourIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.favorites.FindTourIDs -> %w", err)
	}

	return domain.NewFavoriteSet(ids), nil
}
