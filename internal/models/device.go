package models

import "time"

// Device is a head-mounted display connected to the platform
type Device struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	IsActive       bool      `json:"is_active"`
	StreamingEvent string    `json:"streaming_event"`
	Activity       string    `json:"activity"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type DeviceRequest struct {
	Name           *string `json:"name,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
	StreamingEvent *string `json:"streaming_event,omitempty"`
	Activity       *string `json:"activity,omitempty"`
}
