package queue

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Report is a streaming status the backend has not acknowledged yet
type Report struct {
	ID         int64
	EventID    string
	Streaming  string
	CreatedAt  time.Time
	RetryCount int
}

// ReportQueue manages a local queue of pending streaming status reports
type ReportQueue struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewReportQueue creates a new report queue
func NewReportQueue(db *sql.DB, logger *zap.Logger) *ReportQueue {
	return &ReportQueue{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Enqueue stores a status report for a later retry
func (rq *ReportQueue) Enqueue(eventID, streaming string) error {
	_, err := rq.db.Exec(`
		INSERT INTO pending_reports (event_id, streaming, created_at, retry_count)
		VALUES (?, ?, ?, 0)
	`, eventID, streaming, rq.now())
	if err != nil {
		return fmt.Errorf("failed to enqueue report: %w", err)
	}

	rq.logger.Debug("Streaming report queued",
		zap.String("event_id", eventID),
		zap.String("streaming", streaming),
	)
	return nil
}

// Dequeue returns up to limit pending reports, oldest first
func (rq *ReportQueue) Dequeue(limit int) ([]Report, error) {
	rows, err := rq.db.Query(`
		SELECT id, event_id, streaming, created_at, retry_count
		FROM pending_reports
		ORDER BY id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.EventID, &r.Streaming, &r.CreatedAt, &r.RetryCount); err != nil {
			rq.logger.Error("Failed to scan pending report", zap.Error(err))
			continue
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending reports: %w", err)
	}

	return reports, nil
}

// Latest collapses reports to the newest one per event, keeping the ids each one supersedes.
// Replaying an older status after a newer one would move the event backwards.
func Latest(reports []Report) (latest []Report, ids map[string][]int64) {
	ids = make(map[string][]int64)
	index := make(map[string]int)
	for _, r := range reports {
		ids[r.EventID] = append(ids[r.EventID], r.ID)
		if i, ok := index[r.EventID]; ok {
			if r.ID > latest[i].ID {
				latest[i] = r
			}
			continue
		}
		index[r.EventID] = len(latest)
		latest = append(latest, r)
	}
	return latest, ids
}

// Remove removes reports from the queue by their IDs
func (rq *ReportQueue) Remove(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args := inClause("DELETE FROM pending_reports WHERE id IN ", ids)
	result, err := rq.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to remove reports: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	rq.logger.Debug("Reports removed from queue",
		zap.Int64("count", rowsAffected),
	)

	return nil
}

// RemoveEvent drops every pending report of an event; a fresh report supersedes them
func (rq *ReportQueue) RemoveEvent(eventID string) error {
	if _, err := rq.db.Exec(`DELETE FROM pending_reports WHERE event_id = ?`, eventID); err != nil {
		return fmt.Errorf("failed to remove reports of event %s: %w", eventID, err)
	}
	return nil
}

// IncrementRetry increments the retry count for reports
func (rq *ReportQueue) IncrementRetry(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args := inClause("UPDATE pending_reports SET retry_count = retry_count + 1, last_attempt = ? WHERE id IN ", ids)
	args = append([]any{rq.now()}, args...)

	if _, err := rq.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to increment retry: %w", err)
	}

	return nil
}

// GetPendingCount returns the number of pending reports
func (rq *ReportQueue) GetPendingCount() (int, error) {
	var count int
	if err := rq.db.QueryRow(`SELECT COUNT(*) FROM pending_reports`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get pending count: %w", err)
	}
	return count, nil
}

// CleanupOldReports removes reports older than the specified duration that kept failing
func (rq *ReportQueue) CleanupOldReports(olderThan time.Duration, maxRetries int) error {
	cutoff := rq.now().Add(-olderThan)
	result, err := rq.db.Exec(`
		DELETE FROM pending_reports
		WHERE created_at < ? AND retry_count > ?
	`, cutoff, maxRetries)
	if err != nil {
		return fmt.Errorf("failed to cleanup old reports: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		rq.logger.Info("Cleaned up old reports",
			zap.Int64("count", rowsAffected),
		)
	}

	return nil
}

func inClause(prefix string, ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return prefix + "(" + strings.Join(placeholders, ",") + ")", args
}
