package tracker

import (
	"context"
	"sync"
	"time"

	"Mansoor88-6/vr-event-console/internal/models"

	"go.uber.org/zap"
)

const deviceListSize = 100

// DeviceSource lists the platform's display devices
type DeviceSource interface {
	ListDevices(ctx context.Context, page, size int) (*models.ListResponse[models.Device], error)
}

// DeviceTracker keeps the latest device listing and reports when it changes
type DeviceTracker struct {
	source       DeviceSource
	pollInterval time.Duration
	devices      []models.Device
	lastUpdate   time.Time
	onChange     func([]models.Device)
	logger       *zap.Logger
	started      bool
	stopChan     chan struct{}
	wg           sync.WaitGroup
	mu           sync.RWMutex
}

// NewDeviceTracker creates a new device tracker
func NewDeviceTracker(source DeviceSource, pollInterval time.Duration, logger *zap.Logger) *DeviceTracker {
	return &DeviceTracker{
		source:       source,
		pollInterval: pollInterval,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start begins polling; calling it again is a no-op
func (dt *DeviceTracker) Start(onChange func([]models.Device)) error {
	dt.mu.Lock()
	if dt.started {
		dt.mu.Unlock()
		return nil
	}
	dt.started = true
	dt.onChange = onChange
	dt.mu.Unlock()

	dt.wg.Add(1)
	go dt.pollLoop()

	dt.logger.Info("Device tracker started",
		zap.Duration("poll_interval", dt.pollInterval),
	)
	return nil
}

// Stop stops polling
func (dt *DeviceTracker) Stop() {
	dt.mu.Lock()
	select {
	case <-dt.stopChan:
		dt.mu.Unlock()
		return
	default:
		close(dt.stopChan)
	}
	dt.mu.Unlock()

	dt.wg.Wait()
	dt.logger.Info("Device tracker stopped")
}

// Devices returns a copy of the latest listing
func (dt *DeviceTracker) Devices() []models.Device {
	dt.mu.RLock()
	defer dt.mu.RUnlock()
	return append([]models.Device(nil), dt.devices...)
}

// ActiveCount returns how many devices reported is_active
func (dt *DeviceTracker) ActiveCount() int {
	dt.mu.RLock()
	defer dt.mu.RUnlock()
	return countActive(dt.devices)
}

// LastUpdate returns when the listing was last refreshed
func (dt *DeviceTracker) LastUpdate() time.Time {
	dt.mu.RLock()
	defer dt.mu.RUnlock()
	return dt.lastUpdate
}

// Refresh fetches the listing now
func (dt *DeviceTracker) Refresh(ctx context.Context) ([]models.Device, error) {
	resp, err := dt.source.ListDevices(ctx, 1, deviceListSize)
	if err != nil {
		return nil, err
	}

	dt.mu.Lock()
	changed := devicesChanged(dt.devices, resp.Data)
	dt.devices = resp.Data
	dt.lastUpdate = time.Now()
	onChange := dt.onChange
	dt.mu.Unlock()

	if changed {
		dt.logger.Debug("Device listing changed",
			zap.Int("devices", len(resp.Data)),
			zap.Int("active", countActive(resp.Data)),
		)
		if onChange != nil {
			onChange(append([]models.Device(nil), resp.Data...))
		}
	}
	return resp.Data, nil
}

func (dt *DeviceTracker) pollLoop() {
	defer dt.wg.Done()

	ticker := time.NewTicker(dt.pollInterval)
	defer ticker.Stop()

	dt.poll()

	for {
		select {
		case <-ticker.C:
			dt.poll()
		case <-dt.stopChan:
			return
		}
	}
}

func (dt *DeviceTracker) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), dt.pollInterval)
	defer cancel()

	if _, err := dt.Refresh(ctx); err != nil {
		dt.logger.Error("Failed to list devices", zap.Error(err))
	}
}

func countActive(devices []models.Device) int {
	n := 0
	for _, d := range devices {
		if d.IsActive {
			n++
		}
	}
	return n
}

func devicesChanged(prev, next []models.Device) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		a, b := prev[i], next[i]
		if a.ID != b.ID || a.Name != b.Name || a.IsActive != b.IsActive ||
			a.StreamingEvent != b.StreamingEvent || a.Activity != b.Activity {
			return true
		}
	}
	return false
}
