package repository

import (
	"context"
	"fmt"

	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/repository/dao"
)

var (
	ErrTourNotFound     = dao.ErrTourNotFound
	ErrCategoryNotFound = dao.ErrCategoryNotFound
	ErrFAQNotFound      = dao.ErrFAQNotFound
	ErrSlugExists       = dao.ErrSlugExists
)

type CatalogDAO interface {
	CountTours(ctx context.Context, filter dao.TourFilter) (int64, error)
	FindTours(ctx context.Context, filter dao.TourFilter, offset, limit int) ([]dao.Tour, error)
	FindAllTours(ctx context.Context) ([]dao.Tour, error)
	FindTourByID(ctx context.Context, id uint) (dao.Tour, error)
	ListToursForAdmin(ctx context.Context, search string, categoryID uint, country string, offset, limit int) ([]dao.Tour, int64, error)
	InsertTour(ctx context.Context, tour dao.Tour) (dao.Tour, error)
	UpdateTour(ctx context.Context, tour dao.Tour) (dao.Tour, error)
	DeleteTour(ctx context.Context, id uint) error
	FindCategories(ctx context.Context) ([]dao.Category, error)
	FindCategoryByID(ctx context.Context, id uint) (dao.Category, error)
	ListCategoriesForAdmin(ctx context.Context, search string, offset, limit int) ([]dao.Category, int64, error)
	InsertCategory(ctx context.Context, category dao.Category) (dao.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
	ListFAQs(ctx context.Context, search string, offset, limit int) ([]dao.FAQ, int64, error)
	InsertFAQ(ctx context.Context, faq dao.FAQ) (dao.FAQ, error)
	DeleteFAQ(ctx context.Context, id uint) error
	ListReviews(ctx context.Context, search string, offset, limit int) ([]dao.Review, int64, error)
}

type CatalogRepository struct {
	dao CatalogDAO
}

func NewCatalogRepository(dao CatalogDAO) *CatalogRepository {
	return &CatalogRepository{
		dao: dao,
	}
}

func (r *CatalogRepository) CountTours(ctx context.Context, filter domain.TourFilter) (int64, error) {
	total, err := r.dao.CountTours(ctx, dao.TourFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountTours -> %w", err)
	}

	return total, nil
}

func (r *CatalogRepository) FindTours(ctx context.Context, filter domain.TourFilter, offset, limit int) ([]domain.Tour, error) {
	found, err := r.dao.FindTours(ctx, dao.TourFilter(filter), offset, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTours -> %w", err)
	}

	return toursDaoToDomain(found), nil
}

func (r *CatalogRepository) FindAllTours(ctx context.Context) ([]domain.Tour, error) {
	found, err := r.dao.FindAllTours(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllTours -> %w", err)
	}

	return toursDaoToDomain(found), nil
}

func (r *CatalogRepository) FindTourByID(ctx context.Context, id uint) (domain.Tour, error) {
	found, err := r.dao.FindTourByID(ctx, id)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("r.dao.FindTourByID -> %w", err)
	}

	return tourDaoToDomain(found), nil
}

func (r *CatalogRepository) ListTours(ctx context.Context, query domain.TourListQuery, offset, limit int) ([]domain.Tour, int64, error) {
	found, total, err := r.dao.ListToursForAdmin(ctx, query.Search, query.CategoryID, query.Country, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListToursForAdmin -> %w", err)
	}

	return toursDaoToDomain(found), total, nil
}

func (r *CatalogRepository) CreateTour(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	created, err := r.dao.InsertTour(ctx, tourDomainToDao(tour))
	if err != nil {
		return domain.Tour{}, fmt.Errorf("r.dao.InsertTour -> %w", err)
	}

	return tourDaoToDomain(created), nil
}

func (r *CatalogRepository) UpdateTour(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	updated, err := r.dao.UpdateTour(ctx, tourDomainToDao(tour))
	if err != nil {
		return domain.Tour{}, fmt.Errorf("r.dao.UpdateTour -> %w", err)
	}

	return tourDaoToDomain(updated), nil
}

func (r *CatalogRepository) DeleteTour(ctx context.Context, id uint) error {
	if err := r.dao.DeleteTour(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteTour -> %w", err)
	}

	return nil
}

func (r *CatalogRepository) FindCategories(ctx context.Context) ([]domain.Category, error) {
	found, err := r.dao.FindCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCategories -> %w", err)
	}

	return categoriesDaoToDomain(found), nil
}

func (r *CatalogRepository) FindCategoryByID(ctx context.Context, id uint) (domain.Category, error) {
	found, err := r.dao.FindCategoryByID(ctx, id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("r.dao.FindCategoryByID -> %w", err)
	}

	return domain.Category(found), nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context, search string, offset, limit int) ([]domain.Category, int64, error) {
	found, total, err := r.dao.ListCategoriesForAdmin(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListCategoriesForAdmin -> %w", err)
	}

	return categoriesDaoToDomain(found), total, nil
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	created, err := r.dao.InsertCategory(ctx, dao.Category(category))
	if err != nil {
		return domain.Category{}, fmt.Errorf("r.dao.InsertCategory -> %w", err)
	}

	return domain.Category(created), nil
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, id uint) error {
	if err := r.dao.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteCategory -> %w", err)
	}

	return nil
}

func (r *CatalogRepository) ListFAQs(ctx context.Context, search string, offset, limit int) ([]domain.FAQ, int64, error) {
	found, total, err := r.dao.ListFAQs(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListFAQs -> %w", err)
	}

	faqs := make([]domain.FAQ, 0, len(found))
	for _, f := range found {
		faqs = append(faqs, domain.FAQ(f))
	}

	return faqs, total, nil
}

func (r *CatalogRepository) CreateFAQ(ctx context.Context, faq domain.FAQ) (domain.FAQ, error) {
	created, err := r.dao.InsertFAQ(ctx, dao.FAQ(faq))
	if err != nil {
		return domain.FAQ{}, fmt.Errorf("r.dao.InsertFAQ -> %w", err)
	}

	return domain.FAQ(created), nil
}

func (r *CatalogRepository) DeleteFAQ(ctx context.Context, id uint) error {
	if err := r.dao.DeleteFAQ(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteFAQ -> %w", err)
	}

	return nil
}

func (r *CatalogRepository) ListReviews(ctx context.Context, search string, offset, limit int) ([]domain.Review, int64, error) {
	found, total, err := r.dao.ListReviews(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListReviews -> %w", err)
	}

	reviews := make([]domain.Review, 0, len(found))
	for _, rv := range found {
		reviews = append(reviews, domain.Review{
			ID:        rv.ID,
			TourID:    rv.TourID,
			TourTitle: rv.Tour.Title,
			UserID:    rv.UserID,
			Username:  rv.User.Username,
			Text:      rv.Text,
			CreatedAt: rv.CreatedAt,
		})
	}

	return reviews, total, nil
}

func tourDaoToDomain(t dao.Tour) domain.Tour {
	return domain.Tour{
		ID:         t.ID,
		CategoryID: t.CategoryID,
		Category:   domain.Category(t.Category),
		Title:      t.Title,
		Continent:  domain.Continent(t.Continent),
		Slogan:     t.Slogan,
		Country:    t.Country,
		StartDate:  t.StartDate,
		Seats:      t.Seats,
		TotalSeats: t.TotalSeats,
		Departure:  t.Departure,
		Duration:   t.Duration,
		Difficulty: t.Difficulty,
		Program:    t.Program,
		Included:   t.Included,
		Price:      t.Price,
		Image:      t.Image,
	}
}

func toursDaoToDomain(found []dao.Tour) []domain.Tour {
	tours := make([]domain.Tour, 0, len(found))
	for _, t := range found {
		tours = append(tours, tourDaoToDomain(t))
	}

	return tours
}

func tourDomainToDao(t domain.Tour) dao.Tour {
	return dao.Tour{
		ID:         t.ID,
		CategoryID: t.CategoryID,
		Title:      t.Title,
		Continent:  string(t.Continent),
		Slogan:     t.Slogan,
		Country:    t.Country,
		StartDate:  t.StartDate,
		Seats:      t.Seats,
		TotalSeats: t.TotalSeats,
		Departure:  t.Departure,
		Duration:   t.Duration,
		Difficulty: t.Difficulty,
		Program:    t.Program,
		Included:   t.Included,
		Price:      t.Price,
		Image:      t.Image,
	}
}

func categoriesDaoToDomain(found []dao.Category) []domain.Category {
	categories := make([]domain.Category, 0, len(found))
	for _, c := range found {
		categories = append(categories, domain.Category(c))
	}

	return categories
}
