package repository

import (
	"path/filepath"
	"testing"
	"time"

	"Mansoor88-6/vr-event-console/internal/database"

	"go.uber.org/zap"
)

func openDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "repo.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPlaybackRecordAndList(t *testing.T) {
	repo := NewPlaybackRepository(openDB(t).DB)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	entries := []PlaybackEntry{
		{EventID: "e1", MediaID: "m1", Title: "Beach", Position: 0, StartedAt: base},
		{EventID: "e1", MediaID: "m2", Title: "Forest", Position: 1, StartedAt: base.Add(time.Minute)},
		{EventID: "e2", MediaID: "m9", Title: "City", Position: 0, StartedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		saved, err := repo.Record(e)
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		if saved.ID == 0 {
			t.Fatalf("expected an id")
		}
	}

	all, err := repo.List("", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].MediaID != "m9" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	e1, err := repo.List("e1", 10, 0)
	if err != nil {
		t.Fatalf("list e1: %v", err)
	}
	if len(e1) != 2 || e1[0].MediaID != "m2" || e1[1].Position != 0 {
		t.Fatalf("unexpected e1 history %+v", e1)
	}

	n, err := repo.DeleteBefore(base.Add(90 * time.Second))
	if err != nil || n != 2 {
		t.Fatalf("expected 2 pruned, got %d err=%v", n, err)
	}
}

func TestSettingsDefaultsAndSave(t *testing.T) {
	repo := NewSettingsRepository(openDB(t).DB)

	got, err := repo.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}

	got.Language = "vi"
	got.Volume = 40
	got.AutoStream = true
	if err := repo.Save(got); err != nil {
		t.Fatalf("save: %v", err)
	}
	got.Volume = 55
	if err := repo.Save(got); err != nil {
		t.Fatalf("second save: %v", err)
	}

	reloaded, err := repo.Get()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Language != "vi" || reloaded.Volume != 55 || !reloaded.AutoStream {
		t.Fatalf("unexpected settings %+v", reloaded)
	}
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	s.Volume = 101
	if err := s.Validate(); err == nil {
		t.Fatal("expected volume error")
	}
	s = DefaultSettings()
	s.FrameRate = -1
	if err := s.Validate(); err == nil {
		t.Fatal("expected frame rate error")
	}
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}
}
