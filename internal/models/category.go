package models

import "time"

type Category struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CategoryRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}
