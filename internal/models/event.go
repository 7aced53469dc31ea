package models

import "time"

// Event is a password-gated playlist of 360° videos as stored by the backend
type Event struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Intro       string    `json:"intro,omitempty"` // video path
	Logo        string    `json:"logo,omitempty"`  // image path
	VideoList   []string  `json:"video_list"`      // ordered media ids
	Streaming   string    `json:"streaming"`       // status or currently playing media id
	Username    string    `json:"username,omitempty"`
	Password    string    `json:"password,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EventRequest is the create/edit payload; nil fields are left out of a PATCH
type EventRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Intro       *string   `json:"intro,omitempty"`
	Logo        *string   `json:"logo,omitempty"`
	VideoList   *[]string `json:"video_list,omitempty"`
	Streaming   *string   `json:"streaming,omitempty"`
	Username    *string   `json:"username,omitempty"`
	Password    *string   `json:"password,omitempty"`
}

// Streaming status values used by the backend. Any other non-empty value is a media id.
const (
	StreamingDraft     = "draft"
	StreamingScheduled = "scheduled"
	StreamingActive    = "active"
	StreamingCompleted = "completed"
)

// Redacted returns a copy of the event without its plaintext password
func (e Event) Redacted() Event {
	e.Password = ""
	if e.VideoList != nil {
		e.VideoList = append([]string(nil), e.VideoList...)
	}
	return e
}

// StringPtr is a helper for building partial requests
func StringPtr(s string) *string {
	return &s
}
