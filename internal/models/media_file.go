package models

import "time"

// MediaFile is an uploaded 360° video or image tracked by the backend
type MediaFile struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Filename     string    `json:"filename,omitempty"`
	OriginalName string    `json:"originalname,omitempty"`
	MimeType     string    `json:"mimetype,omitempty"`
	Type         string    `json:"type,omitempty"`
	Size         int64     `json:"size"`
	Folder       string    `json:"folder,omitempty"`
	Path         string    `json:"path"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DisplayName prefers the title, then the original upload name
func (m MediaFile) DisplayName() string {
	switch {
	case m.Title != "":
		return m.Title
	case m.OriginalName != "":
		return m.OriginalName
	default:
		return m.Filename
	}
}

// UploadResponse is the backend reply to a multipart upload
type UploadResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Files   []MediaFile `json:"files"`
}
