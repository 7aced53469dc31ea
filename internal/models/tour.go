package models

import "time"

// Tour is a guided 360° tour with per-language descriptions
type Tour struct {
	ID          string          `json:"_id"`
	Title       string          `json:"title"`
	SubTitle    string          `json:"sub-title"`
	Path        TourPath        `json:"path"`
	Description TourDescription `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type TourPath struct {
	Main  string   `json:"main"`
	Image []string `json:"image"`
	Video []string `json:"video"`
}

type TourDescription struct {
	VI  string `json:"vi"`
	EN  string `json:"en"`
	TW  string `json:"tw"`
	GER string `json:"ger"`
}

type TourRequest struct {
	Title       string          `json:"title"`
	SubTitle    string          `json:"sub-title"`
	Path        TourPath        `json:"path"`
	Description TourDescription `json:"description"`
}
