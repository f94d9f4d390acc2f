package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/voyage-tours/voyage/internal/domain"
)

var ErrEmptySlug = errors.New("category slug is empty")

type AdminCatalogRepository interface {
	FindTourByID(ctx context.Context, id uint) (domain.Tour, error)
	ListTours(ctx context.Context, query domain.TourListQuery, offset, limit int) ([]domain.Tour, int64, error)
	CreateTour(ctx context.Context, tour domain.Tour) (domain.Tour, error)
	UpdateTour(ctx context.Context, tour domain.Tour) (domain.Tour, error)
	DeleteTour(ctx context.Context, id uint) error
	FindCategoryByID(ctx context.Context, id uint) (domain.Category, error)
	ListCategories(ctx context.Context, search string, offset, limit int) ([]domain.Category, int64, error)
	CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
	ListFAQs(ctx context.Context, search string, offset, limit int) ([]domain.FAQ, int64, error)
	CreateFAQ(ctx context.Context, faq domain.FAQ) (domain.FAQ, error)
	DeleteFAQ(ctx context.Context, id uint) error
	ListReviews(ctx context.Context, search string, offset, limit int) ([]domain.Review, int64, error)
}

type AdminCartRepository interface {
	ListItems(ctx context.Context, search string, offset, limit int) ([]domain.CartItem, int64, error)
	ListPayments(ctx context.Context, search string, offset, limit int) ([]domain.Payment, int64, error)
}

type AdminFavoriteRepository interface {
	List(ctx context.Context, search string, offset, limit int) ([]domain.Favorite, int64, error)
}

type AdminProfileRepository interface {
	ListProfiles(ctx context.Context, filter domain.ProfileFilter, offset, limit int) ([]domain.Profile, int64, error)
}

// AdminService backs the staff-only back office API.
type AdminService struct {
	catalog   AdminCatalogRepository
	carts     AdminCartRepository
	favorites AdminFavoriteRepository
	profiles  AdminProfileRepository
	files     FileRemover
}

func NewAdminService(
	catalog AdminCatalogRepository,
	carts AdminCartRepository,
	favorites AdminFavoriteRepository,
	profiles AdminProfileRepository,
	files FileRemover,
) *AdminService {
	return &AdminService{
		catalog:   catalog,
		carts:     carts,
		favorites: favorites,
		profiles:  profiles,
		files:     files,
	}
}

func (s *AdminService) ListCategories(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Category], error) {
	return listPage(q.Page, domain.AdminPageSize, func(offset, limit int) ([]domain.Category, int64, error) {
		categories, total, err := s.catalog.ListCategories(ctx, q.Search, offset, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("s.catalog.ListCategories -> %w", err)
		}

		return categories, total, nil
	})
}

// CreateCategory stores a category, deriving the slug from the name when
// none was given.
func (s *AdminService) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}
	if category.Slug == "" {
		return domain.Category{}, ErrEmptySlug
	}

	created, err := s.catalog.CreateCategory(ctx, category)
	if err != nil {
		return domain.Category{}, fmt.Errorf("s.catalog.CreateCategory -> %w", err)
	}

	return created, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.catalog.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("s.catalog.DeleteCategory -> %w", err)
	}

	return nil
}

func (s *AdminService) ListTours(ctx context.Context, q domain.TourListQuery) (domain.Page[domain.Tour], error) {
	return listPage(q.Page, domain.AdminPageSize, func(offset, limit int) ([]domain.Tour, int64, error) {
		tours, total, err := s.catalog.ListTours(ctx, q, offset, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("s.catalog.ListTours -> %w", err)
		}

		return tours, total, nil
	})
}

func (s *AdminService) CreateTour(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	if _, err := s.catalog.FindCategoryByID(ctx, tour.CategoryID); err != nil {
		return domain.Tour{}, fmt.Errorf("s.catalog.FindCategoryByID -> %w", err)
	}

	created, err := s.catalog.CreateTour(ctx, tour)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("s.catalog.CreateTour -> %w", err)
	}

	return created, nil
}

// UpdateTour replaces the tour's editable fields. The image is managed by
// SetTourImage and is carried over unchanged.
func (s *AdminService) UpdateTour(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	current, err := s.catalog.FindTourByID(ctx, tour.ID)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("s.catalog.FindTourByID -> %w", err)
	}
	if tour.CategoryID != current.CategoryID {
		if _, err = s.catalog.FindCategoryByID(ctx, tour.CategoryID); err != nil {
			return domain.Tour{}, fmt.Errorf("s.catalog.FindCategoryByID -> %w", err)
		}
	}
	tour.Image = current.Image

	updated, err := s.catalog.UpdateTour(ctx, tour)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("s.catalog.UpdateTour -> %w", err)
	}

	return updated, nil
}

func (s *AdminService) SetTourImage(ctx context.Context, id uint, image string) (domain.Tour, error) {
	tour, err := s.catalog.FindTourByID(ctx, id)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("s.catalog.FindTourByID -> %w", err)
	}

	previous := tour.Image
	tour.Image = image

	updated, err := s.catalog.UpdateTour(ctx, tour)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("s.catalog.UpdateTour -> %w", err)
	}

	if previous != "" && previous != image && s.files != nil {
		if err = s.files.Delete(previous); err != nil {
			zap.L().Warn("failed to delete replaced tour image",
				zap.Uint("tour_id", id),
				zap.String("image", previous),
				zap.Error(err))
		}
	}

	return updated, nil
}

func (s *AdminService) DeleteTour(ctx context.Context, id uint) error {
	if err := s.catalog.DeleteTour(ctx, id); err != nil {
		return fmt.Errorf("s.catalog.DeleteTour -> %w", err)
	}

	return nil
}

func (s *AdminService) ListFAQs(ctx context.Context, q domain.ListQuery) (domain.Page[domain.FAQ], error) {
	return listPage(q.Page, domain.AdminPageSize, func(offset, limit int) ([]domain.FAQ, int64, error) {
		faqs, total, err := s.catalog.ListFAQs(ctx, q.Search, offset, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("s.catalog.ListFAQs -> %w", err)
		}

		return faqs, total, nil
	})
}

func (s *AdminService) CreateFAQ(ctx context.Context, faq domain.FAQ) (domain.FAQ, error) {
	created, err := s.catalog.CreateFAQ(ctx, faq)
	if err != nil {
		return domain.FAQ{}, fmt.Errorf("s.catalog.CreateFAQ -> %w", err)
	}

	return created, nil
}

func (s *AdminService) DeleteFAQ(ctx context.Context, id uint) error {
	if err := s.catalog.DeleteFAQ(ctx, id); err != nil {
		return fmt.Errorf("s.catalog.DeleteFAQ -> %w", err)
	}

	return nil
}

func (s *AdminService) ListReviews(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Review], error) {
	return listPage(q.Page, domain.AdminPageSize, func(offset, limit int) ([]domain.Review, int64, error) {
		reviews, total, err := s.catalog.ListReviews(ctx, q.Search, offset, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("s.catalog.ListReviews -> %w", err)
		}

		return reviews, total, nil
	})
}

func (s *AdminService) ListFavorites(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Favorite], error) {
	return listPage(q.Page, domain.AdminPageSize, func(offset, limit int) ([]domain.Favorite, int64, error) {
		favorites, total, err := s.favorites.List(ctx, q.Search, offset, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("s.favorites.List -> %w", err)
		}

		return favorites, total, nil
	})
}

func (s *AdminService) ListCartItems(ctx context.Context, q domain.ListQuery) (domain.Page[domain.CartItem], error) {
	return listPage(q.Page, domain.AdminPageSize, func(offset, limit int) ([]domain.CartItem, int64, error) {
		items, total, err := s.carts.ListItems(ctx, q.Search, offset, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("s.carts.ListItems -> %w", err)
		}

		return items, total, nil
	})
}

func (s *AdminService) ListPayments(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Payment], error) {
	return listPage(q.Page, domain.AdminPageSize, func(offset, limit int) ([]domain.Payment, int64, error) {
		payments, total, err := s.carts.ListPayments(ctx, q.Search, offset, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("s.carts.ListPayments -> %w", err)
		}

		return payments, total, nil
	})
}

func (s *AdminService) ListProfiles(ctx context.Context, filter domain.ProfileFilter, rawPage string) (domain.Page[domain.Profile], error) {
	return listPage(rawPage, domain.AdminPageSize, func(offset, limit int) ([]domain.Profile, int64, error) {
		profiles, total, err := s.profiles.ListProfiles(ctx, filter, offset, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("s.profiles.ListProfiles -> %w", err)
		}

		return profiles, total, nil
	})
}

// Slugify lowercases name and joins its runs of letters and digits with
// hyphens. Non-ASCII letters are kept.
func Slugify(name string) string {
	var b strings.Builder

	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)

			continue
		}
		pendingDash = true
	}

	return b.String()
}
