package service

import (
	"context"
	"sync"
	"time"

	"Mansoor88-6/vr-event-console/internal/catalog"
	"Mansoor88-6/vr-event-console/internal/collector"
	"Mansoor88-6/vr-event-console/internal/models"
	"Mansoor88-6/vr-event-console/internal/playback"
	"Mansoor88-6/vr-event-console/internal/queue"
	"Mansoor88-6/vr-event-console/internal/repository"
	"Mansoor88-6/vr-event-console/internal/tracker"

	"go.uber.org/zap"
)

const (
	reportTimeout    = 10 * time.Second
	reportMaxAge     = 24 * time.Hour
	reportMaxRetries = 50
)

// Broadcast message types pushed to console subscribers
const (
	MessageSnapshot   = "snapshot"
	MessageNowPlaying = "now_playing"
	MessageDevices    = "devices"
)

// StreamingBackend is the part of the API client streaming control uses
type StreamingBackend interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListMediaFiles(ctx context.Context) ([]models.MediaFile, error)
	SetEventStreaming(ctx context.Context, id, streaming string) error
}

// Broadcaster pushes state changes to live subscribers
type Broadcaster interface {
	Broadcast(messageType string, payload any)
}

// StreamingStatus is the streaming control screen
type StreamingStatus struct {
	Event          *EventView        `json:"event"`
	Playback       playback.State    `json:"playback"`
	Snapshot       *tracker.Snapshot `json:"snapshot"`
	PendingReports int               `json:"pending_reports"`
}

// StreamingService orchestrates playback, the snapshot and device pollers and status reports
type StreamingService struct {
	backend         StreamingBackend
	player          *playback.Player
	snapshotTracker *tracker.SnapshotTracker
	deviceTracker   *tracker.DeviceTracker
	reportCollector *collector.ReportCollector
	reportQueue     *queue.ReportQueue
	history         *repository.PlaybackRepository
	broadcaster     Broadcaster
	reportStatus    bool
	retryInterval   time.Duration
	logger          *zap.Logger

	event   *EventView
	stopped bool
	mu      sync.RWMutex
	sendMu  sync.Mutex

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewStreamingService creates a new streaming service
func NewStreamingService(
	backend StreamingBackend,
	player *playback.Player,
	snapshotTracker *tracker.SnapshotTracker,
	deviceTracker *tracker.DeviceTracker,
	reportCollector *collector.ReportCollector,
	reportQueue *queue.ReportQueue,
	history *repository.PlaybackRepository,
	broadcaster Broadcaster, // Optional: nil when the console API is disabled
	reportStatus bool,
	retryInterval time.Duration,
	logger *zap.Logger,
) *StreamingService {
	s := &StreamingService{
		backend:         backend,
		player:          player,
		snapshotTracker: snapshotTracker,
		deviceTracker:   deviceTracker,
		reportCollector: reportCollector,
		reportQueue:     reportQueue,
		history:         history,
		broadcaster:     broadcaster,
		reportStatus:    reportStatus,
		retryInterval:   retryInterval,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
	player.OnChange(s.onNowPlaying)
	return s
}

// Start begins polling and report delivery
func (s *StreamingService) Start() error {
	s.logger.Info("Starting streaming service",
		zap.Bool("report_status", s.reportStatus),
	)

	s.reportCollector.Start(s.onReportBatch)

	if err := s.snapshotTracker.Start(s.onSnapshot); err != nil {
		s.reportCollector.Stop()
		return err
	}

	if err := s.deviceTracker.Start(s.onDevices); err != nil {
		s.snapshotTracker.Stop()
		s.reportCollector.Stop()
		return err
	}

	s.wg.Add(1)
	go s.queueProcessor()

	s.logger.Info("Streaming service started")
	return nil
}

// Stop stops playback and every background loop
func (s *StreamingService) Stop() {
	s.logger.Info("Stopping streaming service")

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	// pausing reports "" for the playing event before the collector goes away
	s.player.Stop()
	s.snapshotTracker.Stop()
	s.deviceTracker.Stop()
	s.reportCollector.Stop()

	close(s.stopChan)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.logger.Warn("Some goroutines did not stop within timeout")
	}

	s.logger.Info("Streaming service stopped")
}

// SelectEvent loads the event playlist; playback stops until Play is called
func (s *StreamingService) SelectEvent(ctx context.Context, eventID string) (*StreamingStatus, error) {
	event, err := s.backend.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	files, err := s.backend.ListMediaFiles(ctx)
	if err != nil {
		return nil, err
	}

	videos := catalog.ResolveVideoList(event.VideoList, files)
	s.player.Load(playback.NewPlaylist(event.ID, videos))

	view := NewEventView(*event)
	s.mu.Lock()
	s.event = &view
	s.mu.Unlock()

	s.logger.Info("Event selected for streaming",
		zap.String("event_id", event.ID),
		zap.Int("videos", len(videos)),
		zap.Int("missing", len(event.VideoList)-len(videos)),
	)

	status := s.Status()
	return &status, nil
}

// Play plays the item at index, or the current item when index is nil
func (s *StreamingService) Play(index *int) (*StreamingStatus, error) {
	var err error
	if index == nil {
		err = s.player.Play()
	} else {
		err = s.player.PlayIndex(*index)
	}
	if err != nil {
		return nil, err
	}
	status := s.Status()
	return &status, nil
}

func (s *StreamingService) Pause() *StreamingStatus {
	s.player.Pause()
	status := s.Status()
	return &status
}

func (s *StreamingService) Next() (*StreamingStatus, error) {
	if err := s.player.Next(); err != nil {
		return nil, err
	}
	status := s.Status()
	return &status, nil
}

// Status returns the current streaming control state
func (s *StreamingService) Status() StreamingStatus {
	s.mu.RLock()
	event := s.event
	s.mu.RUnlock()

	pending, err := s.reportQueue.GetPendingCount()
	if err != nil {
		s.logger.Error("Failed to get pending count", zap.Error(err))
	}

	return StreamingStatus{
		Event:          event,
		Playback:       s.player.State(),
		Snapshot:       s.snapshotTracker.Current(),
		PendingReports: pending,
	}
}

// Snapshot returns the displayed streaming snapshot
func (s *StreamingService) Snapshot() *tracker.Snapshot {
	return s.snapshotTracker.Current()
}

// History lists recently played items; an empty eventID lists all events
func (s *StreamingService) History(eventID string, limit, offset int) ([]*repository.PlaybackEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.history.List(eventID, limit, offset)
}

// Devices returns the device listing, fetching it when the poller has not run yet
func (s *StreamingService) Devices(ctx context.Context) ([]models.Device, error) {
	if s.deviceTracker.LastUpdate().IsZero() {
		return s.deviceTracker.Refresh(ctx)
	}
	return s.deviceTracker.Devices(), nil
}

func (s *StreamingService) onSnapshot(snapshot *tracker.Snapshot) {
	s.broadcast(MessageSnapshot, snapshot)
}

func (s *StreamingService) onDevices(devices []models.Device) {
	s.broadcast(MessageDevices, devices)
}

// onNowPlaying records started items and reports the playing media id, or "" when stopped
func (s *StreamingService) onNowPlaying(np playback.NowPlaying) {
	s.broadcast(MessageNowPlaying, np)

	if np.Media != nil {
		if _, err := s.history.Record(repository.PlaybackEntry{
			EventID:   np.EventID,
			MediaID:   np.Media.ID,
			Title:     np.Media.DisplayName(),
			Position:  np.Index,
			StartedAt: time.Now(),
		}); err != nil {
			s.logger.Error("Failed to record playback", zap.Error(err))
		}
	}

	if !s.reportStatus || np.EventID == "" {
		return
	}

	streaming := ""
	if np.Media != nil {
		streaming = np.Media.ID
	}
	s.reportCollector.AddReport(collector.StatusReport{
		EventID:   np.EventID,
		Streaming: streaming,
	})
}

// onReportBatch sends collected reports, queuing failures locally for retry
func (s *StreamingService) onReportBatch(reports []collector.StatusReport) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	for _, r := range reports {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		err := s.backend.SetEventStreaming(ctx, r.EventID, r.Streaming)
		cancel()

		if err != nil {
			s.logger.Warn("Failed to report streaming status, queuing locally",
				zap.String("event_id", r.EventID),
				zap.String("streaming", r.Streaming),
				zap.Error(err),
			)
			if queueErr := s.reportQueue.Enqueue(r.EventID, r.Streaming); queueErr != nil {
				s.logger.Error("Failed to queue report", zap.Error(queueErr))
			}
			continue
		}

		// a delivered report supersedes anything still queued for the event
		if err := s.reportQueue.RemoveEvent(r.EventID); err != nil {
			s.logger.Error("Failed to drop superseded reports", zap.Error(err))
		}
	}
}

// queueProcessor retries queued reports in the background
func (s *StreamingService) queueProcessor() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.retryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.processQueue()
		case <-s.stopChan:
			// Process queue one more time before stopping
			s.processQueue()
			return
		}
	}
}

// processQueue sends the newest queued status of each event
func (s *StreamingService) processQueue() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	pendingCount, err := s.reportQueue.GetPendingCount()
	if err != nil {
		s.logger.Error("Failed to get pending count", zap.Error(err))
		return
	}
	if pendingCount == 0 {
		return
	}

	s.logger.Debug("Processing queued reports",
		zap.Int("pending_count", pendingCount),
	)

	reports, err := s.reportQueue.Dequeue(100)
	if err != nil {
		s.logger.Error("Failed to dequeue reports", zap.Error(err))
		return
	}

	latest, ids := queue.Latest(reports)
	for _, r := range latest {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		err := s.backend.SetEventStreaming(ctx, r.EventID, r.Streaming)
		cancel()

		if err != nil {
			s.logger.Warn("Failed to send queued report",
				zap.String("event_id", r.EventID),
				zap.Error(err),
			)
			if retryErr := s.reportQueue.IncrementRetry(ids[r.EventID]); retryErr != nil {
				s.logger.Error("Failed to increment retry count", zap.Error(retryErr))
			}
			continue
		}

		if err := s.reportQueue.Remove(ids[r.EventID]); err != nil {
			s.logger.Error("Failed to remove sent reports", zap.Error(err))
		}
	}

	if err := s.reportQueue.CleanupOldReports(reportMaxAge, reportMaxRetries); err != nil {
		s.logger.Error("Failed to cleanup old reports", zap.Error(err))
	}
}

func (s *StreamingService) broadcast(messageType string, payload any) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(messageType, payload)
	}
}
