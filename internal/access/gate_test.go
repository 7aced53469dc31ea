package access

import (
	"context"
	"errors"
	"testing"

	"Mansoor88-6/vr-event-console/internal/models"

	"go.uber.org/zap"
)

type fakeBackend struct {
	event      *models.Event
	files      []models.MediaFile
	eventCalls int
	filesCalls int
	eventErr   error
}

func (f *fakeBackend) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	f.eventCalls++
	if f.eventErr != nil {
		return nil, f.eventErr
	}
	e := *f.event
	return &e, nil
}

func (f *fakeBackend) ListMediaFiles(ctx context.Context) ([]models.MediaFile, error) {
	f.filesCalls++
	return f.files, nil
}

func newBackend() *fakeBackend {
	return &fakeBackend{
		event: &models.Event{
			ID:        "e1",
			Title:     "Gala",
			Username:  "guest",
			Password:  "s3cret",
			VideoList: []string{"m2", "gone", "m1"},
		},
		files: []models.MediaFile{
			{ID: "m1", Title: "One"},
			{ID: "m2", Title: "Two"},
		},
	}
}

func TestAuthenticateGrantsOnExactMatch(t *testing.T) {
	backend := newBackend()
	gate := NewGate(backend, zap.NewNop())

	session, err := gate.Authenticate(context.Background(), "e1", "guest", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(session.Videos) != 2 || session.Videos[0].ID != "m1" || session.Videos[1].ID != "m2" {
		t.Fatalf("unexpected videos %+v", session.Videos)
	}
	if session.Event.Password != "" {
		t.Fatal("session must not carry the event password")
	}
}

func TestAuthenticateRejectsMismatch(t *testing.T) {
	cases := []struct {
		name, user, pass string
	}{
		{"wrong password", "guest", "S3cret"},
		{"wrong user", "Guest", "s3cret"},
		{"trailing space", "guest ", "s3cret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := newBackend()
			gate := NewGate(backend, zap.NewNop())
			_, err := gate.Authenticate(context.Background(), "e1", tc.user, tc.pass)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
			if backend.filesCalls != 0 {
				t.Fatal("catalog must not be fetched on denial")
			}
		})
	}
}

func TestAuthenticateRejectsEmptyFieldsWithoutFetching(t *testing.T) {
	backend := newBackend()
	gate := NewGate(backend, zap.NewNop())

	if _, err := gate.Authenticate(context.Background(), "e1", "", "s3cret"); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if backend.eventCalls != 0 {
		t.Fatal("event must not be fetched for empty credentials")
	}
}

func TestAuthenticatePropagatesFetchErrors(t *testing.T) {
	backend := newBackend()
	backend.eventErr = errors.New("boom")
	gate := NewGate(backend, zap.NewNop())

	_, err := gate.Authenticate(context.Background(), "e1", "guest", "s3cret")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected a fetch error, got %v", err)
	}
}
