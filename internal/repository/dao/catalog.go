package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTourNotFound     = errors.New("tour not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrFAQNotFound      = errors.New("faq not found")
	ErrSlugExists       = errors.New("category slug already exists")
)

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:267;not null"`
	Slug string `gorm:"size:267;unique;not null"`
}

func (Category) TableName() string {
	return "categories"
}

type Tour struct {
	ID         uint       `gorm:"primaryKey"`
	CategoryID uint       `gorm:"index;not null"`
	Category   Category   `gorm:"constraint:OnDelete:CASCADE"`
	Title      string     `gorm:"size:199;not null"`
	Continent  string     `gorm:"size:47"`
	Slogan     string     `gorm:"size:199"`
	Country    string     `gorm:"size:101"`
	StartDate  *time.Time `gorm:"type:date"`
	Seats      int        `gorm:"not null;default:0"`
	TotalSeats int        `gorm:"not null;default:0"`
	Departure  string     `gorm:"size:199"`
	Duration   int        `gorm:"not null"`
	Difficulty string     `gorm:"size:99"`
	Program    string
	Included   string
	Price      decimal.Decimal `gorm:"type:decimal(11,2);not null"`
	Image      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type FAQ struct {
	ID       uint   `gorm:"primaryKey"`
	Question string `gorm:"size:256;not null"`
	Answer   string `gorm:"not null"`
}

func (FAQ) TableName() string {
	return "faqs"
}

type Review struct {
	ID        uint      `gorm:"primaryKey"`
	TourID    uint      `gorm:"index;not null"`
	Tour      Tour      `gorm:"constraint:OnDelete:CASCADE"`
	UserID    uint      `gorm:"index;not null"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Text      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TourFilter mirrors domain.TourFilter at the storage level.
type TourFilter struct {
	CategorySlug string
	Continent    string
	Query        string
}

// FilterTours narrows a tours query to the catalog criteria. Empty criteria
// are ignored; the text query is a case-insensitive substring match on title,
// country or slogan.
func FilterTours(f TourFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.CategorySlug != "" {
			q = q.Joins("JOIN categories ON categories.id = tours.category_id").
				Where("categories.slug = ?", f.CategorySlug)
		}
		if f.Continent != "" {
			q = q.Where("tours.continent = ?", f.Continent)
		}
		if f.Query != "" {
			pattern := containsPattern(f.Query)
			q = q.Where("(tours.title ILIKE ? OR tours.country ILIKE ? OR tours.slogan ILIKE ?)",
				pattern, pattern, pattern)
		}

		return q
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

type CatalogDAO struct {
	db *gorm.DB
}

func NewCatalogDAO(db *gorm.DB) *CatalogDAO {
	return &CatalogDAO{
		db: db,
	}
}

func (d *CatalogDAO) CountTours(ctx context.Context, filter TourFilter) (int64, error) {
	var total int64

	result := conn(ctx, d.db).Model(&Tour{}).Scopes(FilterTours(filter)).Count(&total)
	if result.Error != nil {
		return 0, result.Error
	}

	return total, nil
}

// FindTours returns one window of the catalog, newest tours first.
func (d *CatalogDAO) FindTours(ctx context.Context, filter TourFilter, offset, limit int) ([]Tour, error) {
	var tours []Tour

	result := conn(ctx, d.db).
		Scopes(FilterTours(filter)).
		Preload("Category").
		Order("tours.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&tours)
	if result.Error != nil {
		return nil, result.Error
	}

	return tours, nil
}

func (d *CatalogDAO) FindAllTours(ctx context.Context) ([]Tour, error) {
	var tours []Tour

	result := conn(ctx, d.db).Preload("Category").Order("title").Find(&tours)
	if result.Error != nil {
		return nil, result.Error
	}

	return tours, nil
}

func (d *CatalogDAO) FindTourByID(ctx context.Context, id uint) (Tour, error) {
	var tour Tour

	result := conn(ctx, d.db).Preload("Category").First(&tour, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Tour{}, ErrTourNotFound
		}

		return Tour{}, result.Error
	}

	return tour, nil
}

func (d *CatalogDAO) ListToursForAdmin(ctx context.Context, search string, categoryID uint, country string, offset, limit int) ([]Tour, int64, error) {
	q := conn(ctx, d.db).Model(&Tour{})
	if search != "" {
		pattern := containsPattern(search)
		q = q.Where("(tours.title ILIKE ? OR tours.country ILIKE ?)", pattern, pattern)
	}
	if categoryID != 0 {
		q = q.Where("tours.category_id = ?", categoryID)
	}
	if country != "" {
		q = q.Where("tours.country = ?", country)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tours []Tour
	if err := q.Preload("Category").Order("tours.id").Offset(offset).Limit(limit).Find(&tours).Error; err != nil {
		return nil, 0, err
	}

	return tours, total, nil
}

func (d *CatalogDAO) InsertTour(ctx context.Context, tour Tour) (Tour, error) {
	if err := conn(ctx, d.db).Create(&tour).Error; err != nil {
		return Tour{}, err
	}

	return d.FindTourByID(ctx, tour.ID)
}

func (d *CatalogDAO) UpdateTour(ctx context.Context, tour Tour) (Tour, error) {
	result := conn(ctx, d.db).Model(&Tour{ID: tour.ID}).Select(
		"CategoryID", "Title", "Continent", "Slogan", "Country", "StartDate", "Seats", "TotalSeats",
		"Departure", "Duration", "Difficulty", "Program", "Included", "Price", "Image",
	).Updates(&tour)
	if result.Error != nil {
		return Tour{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Tour{}, ErrTourNotFound
	}

	return d.FindTourByID(ctx, tour.ID)
}

func (d *CatalogDAO) DeleteTour(ctx context.Context, id uint) error {
	result := conn(ctx, d.db).Delete(&Tour{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTourNotFound
	}

	return nil
}

func (d *CatalogDAO) FindCategories(ctx context.Context) ([]Category, error) {
	var categories []Category

	result := conn(ctx, d.db).Order("name").Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}

func (d *CatalogDAO) FindCategoryByID(ctx context.Context, id uint) (Category, error) {
	var category Category

	result := conn(ctx, d.db).First(&category, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Category{}, ErrCategoryNotFound
		}

		return Category{}, result.Error
	}

	return category, nil
}

func (d *CatalogDAO) ListCategoriesForAdmin(ctx context.Context, search string, offset, limit int) ([]Category, int64, error) {
	q := conn(ctx, d.db).Model(&Category{})
	if search != "" {
		q = q.Where("name ILIKE ?", containsPattern(search))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []Category
	if err := q.Order("id").Offset(offset).Limit(limit).Find(&categories).Error; err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}

func (d *CatalogDAO) InsertCategory(ctx context.Context, category Category) (Category, error) {
	if err := conn(ctx, d.db).Create(&category).Error; err != nil {
		if isUniqueViolation(err) {
			return Category{}, ErrSlugExists
		}

		return Category{}, err
	}

	return category, nil
}

func (d *CatalogDAO) DeleteCategory(ctx context.Context, id uint) error {
	result := conn(ctx, d.db).Delete(&Category{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

func (d *CatalogDAO) ListFAQs(ctx context.Context, search string, offset, limit int) ([]FAQ, int64, error) {
	q := conn(ctx, d.db).Model(&FAQ{})
	if search != "" {
		q = q.Where("question ILIKE ?", containsPattern(search))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var faqs []FAQ
	if err := q.Order("id").Offset(offset).Limit(limit).Find(&faqs).Error; err != nil {
		return nil, 0, err
	}

	return faqs, total, nil
}

func (d *CatalogDAO) InsertFAQ(ctx context.Context, faq FAQ) (FAQ, error) {
	if err := conn(ctx, d.db).Create(&faq).Error; err != nil {
		return FAQ{}, err
	}

	return faq, nil
}

func (d *CatalogDAO) DeleteFAQ(ctx context.Context, id uint) error {
	result := conn(ctx, d.db).Delete(&FAQ{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFAQNotFound
	}

	return nil
}

func (d *CatalogDAO) ListReviews(ctx context.Context, search string, offset, limit int) ([]Review, int64, error) {
	q := conn(ctx, d.db).Model(&Review{}).
		Joins("JOIN users ON users.id = reviews.user_id").
		Joins("JOIN tours ON tours.id = reviews.tour_id")
	if search != "" {
		pattern := containsPattern(search)
		q = q.Where("(users.username ILIKE ? OR tours.title ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []Review
	err := q.Preload("User").Preload("Tour").
		Order("reviews.created_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}
