package queue

import (
	"path/filepath"
	"testing"
	"time"

	"Mansoor88-6/vr-event-console/internal/database"

	"go.uber.org/zap"
)

func newTestQueue(t *testing.T) *ReportQueue {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "queue.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewReportQueue(db.DB, zap.NewNop())
}

func TestEnqueueDequeueRemove(t *testing.T) {
	q := newTestQueue(t)

	for _, s := range []string{"m1", "m2", ""} {
		if err := q.Enqueue("e1", s); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	if err := q.Enqueue("e2", "m7"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	count, err := q.GetPendingCount()
	if err != nil || count != 4 {
		t.Fatalf("expected 4 pending, got %d err=%v", count, err)
	}

	reports, err := q.Dequeue(10)
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if len(reports) != 4 || reports[0].Streaming != "m1" {
		t.Fatalf("unexpected order %+v", reports)
	}

	if err := q.Remove([]int64{reports[0].ID, reports[1].ID}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	count, _ = q.GetPendingCount()
	if count != 2 {
		t.Fatalf("expected 2 pending after remove, got %d", count)
	}
}

func TestLatestKeepsNewestReportPerEvent(t *testing.T) {
	reports := []Report{
		{ID: 1, EventID: "e1", Streaming: "m1"},
		{ID: 2, EventID: "e2", Streaming: "m5"},
		{ID: 3, EventID: "e1", Streaming: "m2"},
		{ID: 4, EventID: "e1", Streaming: ""},
	}

	latest, ids := Latest(reports)
	if len(latest) != 2 {
		t.Fatalf("expected one report per event, got %+v", latest)
	}
	if latest[0].EventID != "e1" || latest[0].Streaming != "" || latest[0].ID != 4 {
		t.Fatalf("expected newest e1 report to win, got %+v", latest[0])
	}
	if len(ids["e1"]) != 3 || len(ids["e2"]) != 1 {
		t.Fatalf("unexpected superseded ids %v", ids)
	}
}

func TestIncrementRetryAndCleanup(t *testing.T) {
	q := newTestQueue(t)
	past := time.Now().Add(-48 * time.Hour)
	q.now = func() time.Time { return past }
	if err := q.Enqueue("e1", "m1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	q.now = time.Now
	if err := q.Enqueue("e2", "m2"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	reports, _ := q.Dequeue(10)
	for i := 0; i < 3; i++ {
		if err := q.IncrementRetry([]int64{reports[0].ID, reports[1].ID}); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	if err := q.CleanupOldReports(24*time.Hour, 2); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	reports, _ = q.Dequeue(10)
	if len(reports) != 1 || reports[0].EventID != "e2" || reports[0].RetryCount != 3 {
		t.Fatalf("expected only the recent report to survive, got %+v", reports)
	}
}

func TestRemoveEvent(t *testing.T) {
	q := newTestQueue(t)
	_ = q.Enqueue("e1", "m1")
	_ = q.Enqueue("e1", "m2")
	_ = q.Enqueue("e2", "m3")

	if err := q.RemoveEvent("e1"); err != nil {
		t.Fatalf("remove event: %v", err)
	}
	reports, _ := q.Dequeue(10)
	if len(reports) != 1 || reports[0].EventID != "e2" {
		t.Fatalf("unexpected reports %+v", reports)
	}
}
