package playback

import (
	"context"
	"sync"

	"Mansoor88-6/vr-event-console/internal/catalog"
	"Mansoor88-6/vr-event-console/internal/models"

	"go.uber.org/zap"
)

// Runner plays a single media URL and returns when playback ends or ctx is cancelled
type Runner interface {
	Run(ctx context.Context, url string, volume int) error
}

// NowPlaying is what observers receive; Media is nil when playback stopped
type NowPlaying struct {
	EventID string            `json:"event_id"`
	Index   int               `json:"index"`
	Media   *models.MediaFile `json:"media"`
	URL     string            `json:"url,omitempty"`
}

// State is a point-in-time view of the player
type State struct {
	EventID string             `json:"event_id"`
	Items   []models.MediaFile `json:"items"`
	Index   int                `json:"index"`
	Playing bool               `json:"playing"`
}

// Player plays a playlist item by item, advancing when an item ends
type Player struct {
	runner       Runner
	mediaBaseURL string
	volume       func() int
	logger       *zap.Logger

	mu        sync.RWMutex
	playlist  *Playlist
	playing   bool
	cancel    context.CancelFunc
	done      chan struct{}
	observers []func(NowPlaying)
}

// NewPlayer creates a player; volume is consulted before each item
func NewPlayer(runner Runner, mediaBaseURL string, volume func() int, logger *zap.Logger) *Player {
	if volume == nil {
		volume = func() int { return 100 }
	}
	return &Player{
		runner:       runner,
		mediaBaseURL: mediaBaseURL,
		volume:       volume,
		logger:       logger,
	}
}

// OnChange registers an observer of the current item
func (p *Player) OnChange(fn func(NowPlaying)) {
	p.mu.Lock()
	p.observers = append(p.observers, fn)
	p.mu.Unlock()
}

// Load stops playback and replaces the playlist
func (p *Player) Load(playlist *Playlist) {
	p.mu.Lock()
	var done chan struct{}
	eventID, index := p.position()
	if p.playing {
		done = p.stopLocked()
	}
	p.playlist = playlist
	p.mu.Unlock()

	if done != nil {
		<-done
		p.notify(NowPlaying{EventID: eventID, Index: index})
	}
}

// State returns the playlist position and whether an item is playing
func (p *Player) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.playlist == nil {
		return State{}
	}
	return State{
		EventID: p.playlist.EventID,
		Items:   p.playlist.Items(),
		Index:   p.playlist.Index(),
		Playing: p.playing,
	}
}

// Play starts playing the current item
func (p *Player) Play() error {
	return p.start(func(pl *Playlist) error {
		_, err := pl.Current()
		return err
	})
}

// PlayIndex selects item i and plays it
func (p *Player) PlayIndex(i int) error {
	return p.start(func(pl *Playlist) error {
		_, err := pl.Select(i)
		return err
	})
}

// Next advances to the following item and plays it
func (p *Player) Next() error {
	return p.start(func(pl *Playlist) error {
		_, err := pl.Advance()
		return err
	})
}

// Pause stops the running item; the position is kept
func (p *Player) Pause() {
	p.mu.Lock()
	if !p.playing {
		p.mu.Unlock()
		return
	}
	eventID, index := p.position()
	done := p.stopLocked()
	p.mu.Unlock()

	<-done
	p.notify(NowPlaying{EventID: eventID, Index: index})
}

// Stop halts playback for shutdown
func (p *Player) Stop() {
	p.Pause()
}

func (p *Player) start(move func(*Playlist) error) error {
	p.mu.Lock()
	if p.playlist == nil {
		p.mu.Unlock()
		return ErrNoEvent
	}
	// a rejected move leaves the running item alone
	if err := move(p.playlist); err != nil {
		p.mu.Unlock()
		return err
	}
	var done chan struct{}
	if p.playing {
		done = p.stopLocked()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.playing = true
	playlist, loopDone := p.playlist, p.done
	p.mu.Unlock()

	if done != nil {
		<-done
	}
	go p.loop(ctx, playlist, loopDone)
	return nil
}

// stopLocked cancels the running loop and returns its done channel; p.mu must be held
func (p *Player) stopLocked() chan struct{} {
	p.cancel()
	p.playing = false
	done := p.done
	p.cancel, p.done = nil, nil
	return done
}

func (p *Player) position() (string, int) {
	if p.playlist == nil {
		return "", 0
	}
	return p.playlist.EventID, p.playlist.Index()
}

func (p *Player) loop(ctx context.Context, playlist *Playlist, done chan struct{}) {
	defer close(done)

	for {
		p.mu.RLock()
		item, err := playlist.Current()
		index := playlist.Index()
		p.mu.RUnlock()
		if err != nil {
			return
		}

		url := catalog.MediaURL(p.mediaBaseURL, item.Path)
		p.notify(NowPlaying{EventID: playlist.EventID, Index: index, Media: &item, URL: url})

		p.logger.Info("Playing media",
			zap.String("event_id", playlist.EventID),
			zap.Int("index", index),
			zap.String("media_id", item.ID),
		)

		err = p.runner.Run(ctx, url, p.volume())
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			p.logger.Error("Player process failed",
				zap.String("media_id", item.ID),
				zap.Error(err),
			)
			p.mu.Lock()
			if p.done == done {
				p.playing = false
				p.cancel()
				p.cancel, p.done = nil, nil
			}
			p.mu.Unlock()
			p.notify(NowPlaying{EventID: playlist.EventID, Index: index})
			return
		}

		// ended: move on, wrapping after the last item
		p.mu.Lock()
		if p.done != done {
			p.mu.Unlock()
			return
		}
		_, _ = playlist.Advance()
		p.mu.Unlock()
	}
}

func (p *Player) notify(np NowPlaying) {
	p.mu.RLock()
	observers := make([]func(NowPlaying), len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, fn := range observers {
		fn(np)
	}
}
