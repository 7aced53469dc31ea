// Package playback drives an event playlist through an external media player process.
package playback

import (
	"errors"
	"fmt"

	"Mansoor88-6/vr-event-console/internal/models"
)

var (
	ErrEmptyPlaylist = errors.New("playlist is empty")
	ErrNoEvent       = errors.New("no event selected")
	ErrOutOfRange    = errors.New("playlist index out of range")
)

// Playlist is an ordered list of media items with a current position
type Playlist struct {
	EventID string
	items   []models.MediaFile
	index   int
}

func NewPlaylist(eventID string, items []models.MediaFile) *Playlist {
	return &Playlist{
		EventID: eventID,
		items:   append([]models.MediaFile(nil), items...),
	}
}

func (p *Playlist) Len() int {
	return len(p.items)
}

func (p *Playlist) Index() int {
	return p.index
}

// Items returns a copy of the playlist items
func (p *Playlist) Items() []models.MediaFile {
	return append([]models.MediaFile(nil), p.items...)
}

// Current returns the item at the current position
func (p *Playlist) Current() (models.MediaFile, error) {
	if len(p.items) == 0 {
		return models.MediaFile{}, ErrEmptyPlaylist
	}
	return p.items[p.index], nil
}

// Advance moves to the next item, wrapping to the first after the last
func (p *Playlist) Advance() (models.MediaFile, error) {
	if len(p.items) == 0 {
		return models.MediaFile{}, ErrEmptyPlaylist
	}
	p.index = (p.index + 1) % len(p.items)
	return p.items[p.index], nil
}

// Select moves to index i
func (p *Playlist) Select(i int) (models.MediaFile, error) {
	if len(p.items) == 0 {
		return models.MediaFile{}, ErrEmptyPlaylist
	}
	if i < 0 || i >= len(p.items) {
		return models.MediaFile{}, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, i, len(p.items))
	}
	p.index = i
	return p.items[i], nil
}
