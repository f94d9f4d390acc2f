package domain

import "time"

type Favorite struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	TourID    uint      `json:"tour_id"`
	Tour      Tour      `json:"tour"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteSet answers "is this tour a favorite" in templates.
type FavoriteSet map[uint]struct{}

func NewFavoriteSet(tourIDs []uint) FavoriteSet {
	set := make(FavoriteSet, len(tourIDs))
	for _, id := range tourIDs {
		set[id] = struct{}{}
	}

	return set
}

func (s FavoriteSet) Has(tourID uint) bool {
	_, ok := s[tourID]
	return ok
}
