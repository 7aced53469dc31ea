package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// PlaybackEntry is one playlist item started by this console
type PlaybackEntry struct {
	ID        int64     `json:"id"`
	EventID   string    `json:"event_id"`
	MediaID   string    `json:"media_id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	StartedAt time.Time `json:"started_at"`
}

type PlaybackRepository struct {
	db *sql.DB
}

func NewPlaybackRepository(db *sql.DB) *PlaybackRepository {
	return &PlaybackRepository{db: db}
}

func (r *PlaybackRepository) Record(entry PlaybackEntry) (*PlaybackEntry, error) {
	result, err := r.db.Exec(`
		INSERT INTO playback_history (event_id, media_id, title, position, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.EventID, entry.MediaID, entry.Title, entry.Position, entry.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record playback: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read playback id: %w", err)
	}
	entry.ID = id
	return &entry, nil
}

// List returns the most recent entries first; an empty eventID lists every event
func (r *PlaybackRepository) List(eventID string, limit, offset int) ([]*PlaybackEntry, error) {
	query := `
		SELECT id, event_id, media_id, COALESCE(title, ''), position, started_at
		FROM playback_history
	`
	args := []any{}
	if eventID != "" {
		query += ` WHERE event_id = ?`
		args = append(args, eventID)
	}
	query += ` ORDER BY started_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playback history: %w", err)
	}
	defer rows.Close()

	var entries []*PlaybackEntry
	for rows.Next() {
		var entry PlaybackEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.EventID,
			&entry.MediaID,
			&entry.Title,
			&entry.Position,
			&entry.StartedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan playback entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// DeleteBefore prunes entries started before cutoff
func (r *PlaybackRepository) DeleteBefore(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM playback_history WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune playback history: %w", err)
	}
	return result.RowsAffected()
}
