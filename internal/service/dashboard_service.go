package service

import (
	"context"

	"Mansoor88-6/vr-event-console/internal/playback"
	"Mansoor88-6/vr-event-console/internal/tracker"
)

const recentEventCount = 5

// Dashboard is the landing screen summary
type Dashboard struct {
	RecentEvents  []EventView       `json:"recent_events"`
	TotalDevices  int               `json:"total_devices"`
	ActiveDevices int               `json:"active_devices"`
	Playback      playback.State    `json:"playback"`
	Snapshot      *tracker.Snapshot `json:"snapshot"`
}

type DashboardService struct {
	events    *EventService
	streaming *StreamingService
}

func NewDashboardService(events *EventService, streaming *StreamingService) *DashboardService {
	return &DashboardService{events: events, streaming: streaming}
}

func (s *DashboardService) Summary(ctx context.Context) (*Dashboard, error) {
	recent, err := s.events.RecentEvents(ctx, recentEventCount)
	if err != nil {
		return nil, err
	}

	devices, err := s.streaming.Devices(ctx)
	if err != nil {
		return nil, err
	}

	active := 0
	for _, d := range devices {
		if d.IsActive {
			active++
		}
	}

	status := s.streaming.Status()
	return &Dashboard{
		RecentEvents:  recent,
		TotalDevices:  len(devices),
		ActiveDevices: active,
		Playback:      status.Playback,
		Snapshot:      status.Snapshot,
	}, nil
}
