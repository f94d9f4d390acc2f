package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/voyage-tours/voyage/internal/domain"
)

const dateLayout = "2006-01-02"

var (
	errNegativePrice   = errors.New("must not be negative")
	errUnknownContinent = errors.New("must be one of the known continents")
	errSeatsExceeded   = errors.New("must not exceed total seats")
)

type CreateCategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

func (req *CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.RuneLength(1, 267)),
		validation.Field(&req.Slug, validation.RuneLength(0, 267)),
	)
}

// TourRequest is the body of both create and update. StartDate is
// YYYY-MM-DD.
type TourRequest struct {
	CategoryID uint            `json:"category_id"`
	Title      string          `json:"title"`
	Continent  string          `json:"continent"`
	Slogan     string          `json:"slogan"`
	Country    string          `json:"country"`
	StartDate  string          `json:"start_date"`
	Seats      int             `json:"seats"`
	TotalSeats int             `json:"total_seats"`
	Departure  string          `json:"departure"`
	Duration   int             `json:"duration"`
	Difficulty string          `json:"difficulty"`
	Program    string          `json:"program"`
	Included   string          `json:"included"`
	Price      decimal.Decimal `json:"price" swaggertype:"string" example:"1499.00"`
}

func (req *TourRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.CategoryID, validation.Required),
		validation.Field(&req.Title, validation.Required, validation.RuneLength(1, 199)),
		validation.Field(&req.Continent, validation.By(func(value interface{}) error {
			if !domain.Continent(req.Continent).IsValid() {
				return errUnknownContinent
			}
			return nil
		})),
		validation.Field(&req.Slogan, validation.RuneLength(0, 199)),
		validation.Field(&req.Country, validation.RuneLength(0, 101)),
		validation.Field(&req.StartDate, validation.Date(dateLayout)),
		validation.Field(&req.Seats, validation.Min(0), validation.By(func(value interface{}) error {
			if req.TotalSeats > 0 && req.Seats > req.TotalSeats {
				return errSeatsExceeded
			}
			return nil
		})),
		validation.Field(&req.TotalSeats, validation.Min(0)),
		validation.Field(&req.Departure, validation.RuneLength(0, 199)),
		validation.Field(&req.Duration, validation.Required, validation.Min(1)),
		validation.Field(&req.Difficulty, validation.RuneLength(0, 99)),
		validation.Field(&req.Price, validation.By(func(value interface{}) error {
			if req.Price.IsNegative() {
				return errNegativePrice
			}
			return nil
		})),
	)
}

// ToDomain assumes Validate passed.
func (req *TourRequest) ToDomain() domain.Tour {
	tour := domain.Tour{
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Continent:  domain.Continent(req.Continent),
		Slogan:     req.Slogan,
		Country:    req.Country,
		Seats:      req.Seats,
		TotalSeats: req.TotalSeats,
		Departure:  req.Departure,
		Duration:   req.Duration,
		Difficulty: req.Difficulty,
		Program:    req.Program,
		Included:   req.Included,
		Price:      req.Price.Round(2),
	}
	if req.StartDate != "" {
		if d, err := time.Parse(dateLayout, req.StartDate); err == nil {
			tour.StartDate = &d
		}
	}

	return tour
}

type CreateFAQRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (req *CreateFAQRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Question, validation.Required, validation.RuneLength(1, 256)),
		validation.Field(&req.Answer, validation.Required),
	)
}
