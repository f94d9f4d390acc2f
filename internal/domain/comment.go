package domain

import "time"

type Comment struct {
	ID        uint      `json:"id"`
	TourID    uint      `json:"tour_id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ID        uint      `json:"id"`
	TourID    uint      `json:"tour_id"`
	TourTitle string    `json:"tour_title"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
