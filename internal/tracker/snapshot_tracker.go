package tracker

import (
	"context"
	"sync"
	"time"

	"Mansoor88-6/vr-event-console/internal/catalog"
	"Mansoor88-6/vr-event-console/internal/models"

	"go.uber.org/zap"
)

// MediaSource lists and deletes backend media files
type MediaSource interface {
	ListMediaFiles(ctx context.Context) ([]models.MediaFile, error)
	DeleteMediaFile(ctx context.Context, id string) error
}

// Snapshot is the streaming image currently shown to the operator
type Snapshot struct {
	Media models.MediaFile `json:"media"`
	URL   string           `json:"url"`
}

// SnapshotTracker polls the media listing for the newest streaming snapshot
// and deletes the one it replaces
type SnapshotTracker struct {
	source       MediaSource
	pollInterval time.Duration
	prefix       string
	mediaBaseURL string
	timeout      time.Duration
	current      *Snapshot
	onChange     func(*Snapshot)
	logger       *zap.Logger
	started      bool
	stopChan     chan struct{}
	wg           sync.WaitGroup
	mu           sync.RWMutex
}

// NewSnapshotTracker creates a new snapshot tracker
func NewSnapshotTracker(source MediaSource, pollInterval time.Duration, prefix, mediaBaseURL string, logger *zap.Logger) *SnapshotTracker {
	timeout := pollInterval * 5
	if timeout < 5*time.Second {
		timeout = 5 * time.Second
	}
	return &SnapshotTracker{
		source:       source,
		pollInterval: pollInterval,
		prefix:       prefix,
		mediaBaseURL: mediaBaseURL,
		timeout:      timeout,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start begins polling; calling it again is a no-op
func (st *SnapshotTracker) Start(onChange func(*Snapshot)) error {
	st.mu.Lock()
	if st.started {
		st.mu.Unlock()
		return nil
	}
	st.started = true
	st.onChange = onChange
	st.mu.Unlock()

	st.wg.Add(1)
	go st.pollLoop()

	st.logger.Info("Snapshot tracker started",
		zap.Duration("poll_interval", st.pollInterval),
		zap.String("prefix", st.prefix),
	)
	return nil
}

// Stop stops polling
func (st *SnapshotTracker) Stop() {
	st.mu.Lock()
	select {
	case <-st.stopChan:
		// Already closed
		st.mu.Unlock()
		return
	default:
		close(st.stopChan)
	}
	st.mu.Unlock()

	st.wg.Wait()
	st.logger.Info("Snapshot tracker stopped")
}

// Current returns the displayed snapshot, nil before the first one arrives
func (st *SnapshotTracker) Current() *Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

func (st *SnapshotTracker) pollLoop() {
	defer st.wg.Done()

	ticker := time.NewTicker(st.pollInterval)
	defer ticker.Stop()

	// Initial poll
	st.checkSnapshot()

	for {
		select {
		case <-ticker.C:
			st.checkSnapshot()
		case <-st.stopChan:
			return
		}
	}
}

func (st *SnapshotTracker) checkSnapshot() {
	select {
	case <-st.stopChan:
		return
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), st.timeout)
	defer cancel()

	files, err := st.source.ListMediaFiles(ctx)
	if err != nil {
		st.logger.Error("Failed to list media files", zap.Error(err))
		return
	}

	latest, ok := catalog.Latest(catalog.WithPathPrefix(files, st.prefix))
	if !ok {
		return
	}

	st.mu.Lock()
	previous := st.current
	if previous != nil && previous.Media.ID == latest.ID {
		st.mu.Unlock()
		return
	}
	snapshot := &Snapshot{
		Media: latest,
		URL:   catalog.MediaURL(st.mediaBaseURL, latest.Path),
	}
	st.current = snapshot
	onChange := st.onChange
	st.mu.Unlock()

	st.logger.Debug("Snapshot changed",
		zap.String("media_id", latest.ID),
		zap.String("path", latest.Path),
	)

	if onChange != nil {
		onChange(snapshot)
	}

	if previous != nil {
		if err := st.source.DeleteMediaFile(ctx, previous.Media.ID); err != nil {
			st.logger.Warn("Failed to delete previous snapshot",
				zap.String("media_id", previous.Media.ID),
				zap.Error(err),
			)
		}
	}
}
