package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Continent string

const (
	Africa       Continent = "Africa"
	Europe       Continent = "Europe"
	NorthAmerica Continent = "North America"
	SouthAmerica Continent = "South America"
	Asia         Continent = "Asia"
	Australia    Continent = "Australia"
	Antarctica   Continent = "Antarctica"
)

var Continents = []Continent{Africa, Europe, NorthAmerica, SouthAmerica, Asia, Australia, Antarctica}

// IsValid reports whether c is one of the known continents. The empty value is
// valid: a tour is not required to name one.
func (c Continent) IsValid() bool {
	if c == "" {
		return true
	}
	for _, known := range Continents {
		if c == known {
			return true
		}
	}

	return false
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Tour struct {
	ID         uint            `json:"id"`
	CategoryID uint            `json:"category_id"`
	Category   Category        `json:"category"`
	Title      string          `json:"title"`
	Continent  Continent       `json:"continent"`
	Slogan     string          `json:"slogan"`
	Country    string          `json:"country"`
	StartDate  *time.Time      `json:"start_date,omitempty"`
	Seats      int             `json:"seats"`
	TotalSeats int             `json:"total_seats"`
	Departure  string          `json:"departure"`
	Duration   int             `json:"duration"`
	Difficulty string          `json:"difficulty"`
	Program    string          `json:"program"`
	Included   string          `json:"included"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image"`
}

// TourFilter holds the optional catalog criteria. Zero fields do not filter.
type TourFilter struct {
	CategorySlug string
	Continent    string
	Query        string
}

type FAQ struct {
	ID       uint   `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
