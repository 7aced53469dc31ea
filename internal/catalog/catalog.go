// Package catalog holds the pure lookups the console performs over backend listings.
package catalog

import (
	"strings"

	"Mansoor88-6/vr-event-console/internal/models"
)

// CandidateMarker selects media files that may be added to an event playlist
const CandidateMarker = "vr360"

// SearchEvents keeps events whose title or description contains query, ignoring case
func SearchEvents(events []models.Event, query string) []models.Event {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return events
	}

	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Title), query) ||
			strings.Contains(strings.ToLower(e.Description), query) {
			out = append(out, e)
		}
	}
	return out
}

// SearchMedia keeps media files whose title contains query, ignoring case
func SearchMedia(files []models.MediaFile, query string) []models.MediaFile {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return files
	}

	out := make([]models.MediaFile, 0, len(files))
	for _, f := range files {
		if strings.Contains(strings.ToLower(f.Title), query) {
			out = append(out, f)
		}
	}
	return out
}

// Candidates returns the media files eligible for a playlist
func Candidates(files []models.MediaFile) []models.MediaFile {
	out := make([]models.MediaFile, 0, len(files))
	for _, f := range files {
		if strings.Contains(f.Path, CandidateMarker) {
			out = append(out, f)
		}
	}
	return out
}

// WithPathPrefix returns the media files stored under prefix
func WithPathPrefix(files []models.MediaFile, prefix string) []models.MediaFile {
	var out []models.MediaFile
	for _, f := range files {
		if strings.HasPrefix(f.Path, prefix) {
			out = append(out, f)
		}
	}
	return out
}

// Latest returns the most recently updated file; on equal timestamps the earlier one in the listing wins
func Latest(files []models.MediaFile) (models.MediaFile, bool) {
	if len(files) == 0 {
		return models.MediaFile{}, false
	}
	latest := files[0]
	for _, f := range files[1:] {
		if f.UpdatedAt.After(latest.UpdatedAt) {
			latest = f
		}
	}
	return latest, true
}

// ResolveVideoList keeps the catalog entries whose id is in ids, in catalog order.
// Each file appears at most once; unknown ids are ignored.
func ResolveVideoList(ids []string, files []models.MediaFile) []models.MediaFile {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	videos := make([]models.MediaFile, 0, len(ids))
	for _, f := range files {
		if _, ok := wanted[f.ID]; ok {
			videos = append(videos, f)
		}
	}
	return videos
}

// AddVideo appends id to the list; duplicates are allowed
func AddVideo(list []string, id string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	return append(out, id)
}

// RemoveVideo drops every occurrence of id
func RemoveVideo(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// MediaURL joins the media base URL and a stored relative path
func MediaURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// StatusLabel is the operator-facing label of an event streaming value
func StatusLabel(streaming string) string {
	switch streaming {
	case models.StreamingDraft:
		return "Draft"
	case models.StreamingScheduled:
		return "Scheduled"
	case models.StreamingActive:
		return "Live"
	case models.StreamingCompleted:
		return "Completed"
	default:
		return streaming
	}
}
