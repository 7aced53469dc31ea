package collector

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// StatusReport is the streaming value an event should show on the backend
type StatusReport struct {
	EventID   string
	Streaming string
	At        time.Time
}

// ReportCollector buffers status reports and hands them out in batches.
// A newer report for an event replaces the buffered one.
type ReportCollector struct {
	reports       []StatusReport
	batchSize     int
	flushInterval time.Duration
	onBatchReady  func([]StatusReport)
	logger        *zap.Logger
	mu            sync.Mutex
	flushMu       sync.Mutex
	flushTicker   *time.Ticker
	started       bool
	stopChan      chan struct{}
	wg            sync.WaitGroup
}

// NewReportCollector creates a new report collector
func NewReportCollector(batchSize int, flushInterval time.Duration, logger *zap.Logger) *ReportCollector {
	return &ReportCollector{
		batchSize:     batchSize,
		flushInterval: flushInterval,
		logger:        logger,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the collector with auto-flush
func (rc *ReportCollector) Start(onBatchReady func([]StatusReport)) {
	rc.mu.Lock()
	if rc.started {
		rc.mu.Unlock()
		return
	}
	rc.started = true
	rc.onBatchReady = onBatchReady
	rc.flushTicker = time.NewTicker(rc.flushInterval)
	rc.mu.Unlock()

	rc.wg.Add(1)
	go rc.autoFlushLoop()

	rc.logger.Info("Report collector started",
		zap.Int("batch_size", rc.batchSize),
		zap.Duration("flush_interval", rc.flushInterval),
	)
}

// Stop stops the auto-flush loop and flushes what is left
func (rc *ReportCollector) Stop() {
	rc.mu.Lock()
	select {
	case <-rc.stopChan:
		rc.mu.Unlock()
		return
	default:
		close(rc.stopChan)
	}
	rc.mu.Unlock()

	rc.wg.Wait()
	if rc.flushTicker != nil {
		rc.flushTicker.Stop()
	}

	rc.Flush()
	rc.logger.Info("Report collector stopped")
}

// AddReport buffers a report, replacing any pending one for the same event
func (rc *ReportCollector) AddReport(report StatusReport) {
	if report.At.IsZero() {
		report.At = time.Now()
	}

	rc.mu.Lock()
	replaced := false
	for i := range rc.reports {
		if rc.reports[i].EventID == report.EventID {
			rc.reports[i] = report
			replaced = true
			break
		}
	}
	if !replaced {
		rc.reports = append(rc.reports, report)
	}
	shouldFlush := len(rc.reports) >= rc.batchSize
	rc.mu.Unlock()

	if shouldFlush {
		rc.logger.Debug("Batch size reached, flushing reports")
		rc.Flush()
	}
}

// Flush hands every buffered report to the batch callback
func (rc *ReportCollector) Flush() {
	rc.flushMu.Lock()
	defer rc.flushMu.Unlock()

	rc.mu.Lock()
	if len(rc.reports) == 0 {
		rc.mu.Unlock()
		return
	}
	reports := make([]StatusReport, len(rc.reports))
	copy(reports, rc.reports)
	rc.reports = rc.reports[:0]
	onBatchReady := rc.onBatchReady
	rc.mu.Unlock()

	if onBatchReady != nil {
		onBatchReady(reports)
	}
}

// GetPendingCount returns the number of buffered reports
func (rc *ReportCollector) GetPendingCount() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.reports)
}

func (rc *ReportCollector) autoFlushLoop() {
	defer rc.wg.Done()

	for {
		select {
		case <-rc.flushTicker.C:
			rc.Flush()
		case <-rc.stopChan:
			return
		}
	}
}
