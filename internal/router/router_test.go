package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"Mansoor88-6/vr-event-console/internal/access"
	"Mansoor88-6/vr-event-console/internal/client"
	"Mansoor88-6/vr-event-console/internal/collector"
	"Mansoor88-6/vr-event-console/internal/database"
	"Mansoor88-6/vr-event-console/internal/handler"
	"Mansoor88-6/vr-event-console/internal/models"
	"Mansoor88-6/vr-event-console/internal/playback"
	"Mansoor88-6/vr-event-console/internal/queue"
	"Mansoor88-6/vr-event-console/internal/repository"
	"Mansoor88-6/vr-event-console/internal/service"
	"Mansoor88-6/vr-event-console/internal/storage"
	"Mansoor88-6/vr-event-console/internal/tracker"

	"go.uber.org/zap"
)

// fakeBackend serves the subset of the event backend the console API touches
type fakeBackend struct {
	mu         sync.Mutex
	event      models.Event
	files      []models.MediaFile
	uploadForm map[string]string
	tourQuery  string
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(v); err != nil {
			t.Errorf("encode: %v", err)
		}
	}

	mux.HandleFunc("GET /api/v1/event", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		write(w, 200, models.ListResponse[models.Event]{Success: true, Data: []models.Event{b.event}, Pagination: models.Pagination{Total: 1, Page: 1, Size: 1000}})
	})
	mux.HandleFunc("GET /api/v1/event/detail/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if r.PathValue("id") != b.event.ID {
			write(w, 404, models.Response[any]{Success: false, Message: "Event not found"})
			return
		}
		write(w, 200, models.Response[models.Event]{Success: true, Data: b.event})
	})
	mux.HandleFunc("PATCH /api/v1/event/edit/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		var req models.EventRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Streaming != nil {
			b.event.Streaming = *req.Streaming
		}
		if req.VideoList != nil {
			b.event.VideoList = *req.VideoList
		}
		write(w, 200, models.Response[models.Event]{Success: true, Data: b.event})
	})
	mux.HandleFunc("GET /api/v1/mediafile", func(w http.ResponseWriter, r *http.Request) {
		write(w, 200, models.ListResponse[models.MediaFile]{Success: true, Data: b.files})
	})
	mux.HandleFunc("GET /api/v1/category", func(w http.ResponseWriter, r *http.Request) {
		write(w, 200, models.ListResponse[models.Category]{
			Success:    true,
			Data:       []models.Category{{ID: "c1", Title: "Beaches"}},
			Pagination: models.Pagination{Total: 1, Page: 1, Size: 10},
		})
	})
	mux.HandleFunc("GET /api/v1/tour", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.tourQuery = r.URL.RawQuery
		b.mu.Unlock()
		write(w, 200, models.ListResponse[models.Tour]{
			Success:    true,
			Data:       []models.Tour{{ID: "t1", Title: "Ha Long Bay"}},
			Pagination: models.Pagination{Total: 9, Page: 2, Size: 4},
		})
	})
	mux.HandleFunc("POST /api/v1/mediafile/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			write(w, 400, models.Response[any]{Message: err.Error()})
			return
		}
		_, header, err := r.FormFile("files")
		if err != nil {
			write(w, 400, models.Response[any]{Message: err.Error()})
			return
		}
		b.mu.Lock()
		b.uploadForm = map[string]string{
			"filename":   header.Filename,
			"folder":     r.FormValue("folder"),
			"created_by": r.FormValue("created_by"),
		}
		b.mu.Unlock()
		write(w, 200, models.UploadResponse{Code: 200, Message: "ok", Files: []models.MediaFile{{ID: "new", Filename: header.Filename}}})
	})
	return mux
}

type idleRunner struct{}

func (idleRunner) Run(ctx context.Context, url string, volume int) error {
	<-ctx.Done()
	return ctx.Err()
}

func newTestAPI(t *testing.T) (*httptest.Server, *fakeBackend) {
	t.Helper()
	logger := zap.NewNop()

	backend := &fakeBackend{
		event: models.Event{
			ID:        "e1",
			Title:     "Summer Gala",
			Streaming: "scheduled",
			Username:  "guest",
			Password:  "s3cret",
			VideoList: []string{"m1", "m2"},
		},
		files: []models.MediaFile{
			{ID: "m1", Title: "Beach", Path: "public/vr360/beach.mp4"},
			{ID: "m2", Title: "Forest", Path: "public/vr360/forest.mp4"},
		},
	}
	backendSrv := httptest.NewServer(backend.handler(t))
	t.Cleanup(backendSrv.Close)

	apiClient := client.NewAPIClient(backendSrv.URL, "console-test", 5*time.Second, logger)
	apiClient.UseDeviceFixtures(true)

	db, err := database.New(filepath.Join(t.TempDir(), "console.db"), logger)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sessions := service.NewSessionStore(time.Minute, logger)
	t.Cleanup(sessions.Stop)

	settingsService := service.NewSettingsService(repository.NewSettingsRepository(db.DB), sessions, logger)
	eventService := service.NewEventService(apiClient, access.NewGate(apiClient, logger), sessions, logger)
	mediaService := service.NewMediaService(apiClient, storage.NewLocalSink(t.TempDir(), logger), backendSrv.URL, "admin", logger)

	player := playback.NewPlayer(idleRunner{}, backendSrv.URL, settingsService.Volume, logger)
	streamingService := service.NewStreamingService(
		apiClient,
		player,
		tracker.NewSnapshotTracker(apiClient, time.Second, "public/streaming", backendSrv.URL, logger),
		tracker.NewDeviceTracker(apiClient, time.Second, logger),
		collector.NewReportCollector(10, time.Hour, logger),
		queue.NewReportQueue(db.DB, logger),
		repository.NewPlaybackRepository(db.DB),
		nil,
		false,
		time.Hour,
		logger,
	)
	t.Cleanup(player.Stop)

	api := New(Handlers{
		Events:    handler.NewEventHandler(eventService, logger),
		Media:     handler.NewMediaHandler(mediaService, logger),
		Streaming: handler.NewStreamingHandler(streamingService, logger),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(eventService, streamingService), settingsService, logger),
		Library:   handler.NewLibraryHandler(service.NewLibraryService(apiClient), logger),
	}, logger)

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return srv, backend
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req, _ := http.NewRequest(method, srv.URL+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, env
}

func TestHealthAssignsRequestID(t *testing.T) {
	srv, _ := newTestAPI(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("unexpected health response %d %v", resp.StatusCode, resp.Header)
	}
}

func TestEventsAreListedWithoutPasswords(t *testing.T) {
	srv, _ := newTestAPI(t)

	status, env := call(t, srv, http.MethodGet, "/api/v1/events?q=gala", nil)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("unexpected status %d %+v", status, env)
	}
	if strings.Contains(string(env.Data), "s3cret") {
		t.Fatalf("password leaked: %s", env.Data)
	}
	var events []service.EventView
	json.Unmarshal(env.Data, &events)
	if len(events) != 1 || events[0].StatusLabel != "Scheduled" {
		t.Fatalf("unexpected events %+v", events)
	}

	status, _ = call(t, srv, http.MethodGet, "/api/v1/events/nope", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}

	status, _ = call(t, srv, http.MethodPost, "/api/v1/events", map[string]string{"description": "no title"})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestAccessGate(t *testing.T) {
	srv, _ := newTestAPI(t)

	status, env := call(t, srv, http.MethodPost, "/api/v1/events/e1/access", map[string]string{"username": "guest", "password": "wrong"})
	if status != http.StatusUnauthorized || env.Success || env.Message != "incorrect credentials" {
		t.Fatalf("expected 401, got %d %+v", status, env)
	}

	status, _ = call(t, srv, http.MethodPost, "/api/v1/events/e1/access", map[string]string{"username": "guest"})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", status)
	}

	status, env = call(t, srv, http.MethodPost, "/api/v1/events/e1/access", map[string]string{"username": "guest", "password": "s3cret"})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d %+v", status, env)
	}
	var grant service.AccessGrant
	json.Unmarshal(env.Data, &grant)
	if grant.Token == "" || len(grant.Session.Videos) != 2 {
		t.Fatalf("unexpected grant %s", env.Data)
	}

	status, _ = call(t, srv, http.MethodGet, "/api/v1/sessions/"+grant.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected session lookup to succeed, got %d", status)
	}
}

func TestPlaylistEditing(t *testing.T) {
	srv, backend := newTestAPI(t)

	status, _ := call(t, srv, http.MethodPost, "/api/v1/events/e1/videos", map[string]string{"media_id": "m1"})
	if status != http.StatusOK {
		t.Fatalf("add video: %d", status)
	}
	status, _ = call(t, srv, http.MethodDelete, "/api/v1/events/e1/videos/m2", nil)
	if status != http.StatusOK {
		t.Fatalf("remove video: %d", status)
	}

	backend.mu.Lock()
	list := strings.Join(backend.event.VideoList, ",")
	backend.mu.Unlock()
	if list != "m1,m1" {
		t.Fatalf("unexpected playlist %s", list)
	}

	status, env := call(t, srv, http.MethodGet, "/api/v1/events/e1/candidates", nil)
	if status != http.StatusOK || !strings.Contains(string(env.Data), "beach") {
		t.Fatalf("unexpected candidates %d %s", status, env.Data)
	}
}

func TestStreamingControl(t *testing.T) {
	srv, _ := newTestAPI(t)

	status, _ := call(t, srv, http.MethodPost, "/api/v1/streaming/play", nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 before selecting an event, got %d", status)
	}

	status, env := call(t, srv, http.MethodPost, "/api/v1/streaming/select", map[string]string{"event_id": "e1"})
	if status != http.StatusOK {
		t.Fatalf("select: %d %+v", status, env)
	}

	status, _ = call(t, srv, http.MethodPost, "/api/v1/streaming/play", map[string]int{"index": 9})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad index, got %d", status)
	}

	status, env = call(t, srv, http.MethodPost, "/api/v1/streaming/play", map[string]int{"index": 1})
	if status != http.StatusOK {
		t.Fatalf("play: %d %+v", status, env)
	}
	var st service.StreamingStatus
	json.Unmarshal(env.Data, &st)
	if !st.Playback.Playing || st.Playback.Index != 1 || st.Event == nil || st.Event.ID != "e1" {
		t.Fatalf("unexpected status %s", env.Data)
	}

	status, env = call(t, srv, http.MethodPost, "/api/v1/streaming/pause", nil)
	json.Unmarshal(env.Data, &st)
	if status != http.StatusOK || st.Playback.Playing {
		t.Fatalf("pause: %d %s", status, env.Data)
	}

	status, env = call(t, srv, http.MethodGet, "/api/v1/streaming/history?event_id=e1", nil)
	if status != http.StatusOK || !strings.Contains(string(env.Data), `"media_id":"m2"`) {
		t.Fatalf("unexpected history %d %s", status, env.Data)
	}

	status, _ = call(t, srv, http.MethodGet, "/api/v1/streaming/snapshot", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 without snapshot, got %d", status)
	}
}

func TestUploadForwardsMultipart(t *testing.T) {
	srv, backend := newTestAPI(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("files", "tour.mp4")
	part.Write([]byte("video"))
	mw.Close()

	resp, err := http.Post(srv.URL+"/api/v1/media/upload", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	backend.mu.Lock()
	form := backend.uploadForm
	backend.mu.Unlock()
	if form["filename"] != "tour.mp4" || form["folder"] != "video" || form["created_by"] != "admin" {
		t.Fatalf("unexpected forwarded form %v", form)
	}
}

func TestSettingsAndDashboard(t *testing.T) {
	srv, _ := newTestAPI(t)

	status, env := call(t, srv, http.MethodPut, "/api/v1/settings", map[string]any{"volume": 30})
	if status != http.StatusOK {
		t.Fatalf("put settings: %d %+v", status, env)
	}
	var settings repository.Settings
	json.Unmarshal(env.Data, &settings)
	if settings.Volume != 30 || settings.Language != "en" {
		t.Fatalf("unexpected settings %+v", settings)
	}

	status, _ = call(t, srv, http.MethodPut, "/api/v1/settings", map[string]any{"volume": 500})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}

	status, env = call(t, srv, http.MethodGet, "/api/v1/dashboard", nil)
	if status != http.StatusOK {
		t.Fatalf("dashboard: %d %+v", status, env)
	}
	var dash service.Dashboard
	json.Unmarshal(env.Data, &dash)
	if dash.TotalDevices != 3 || dash.ActiveDevices != 2 || len(dash.RecentEvents) != 1 {
		t.Fatalf("unexpected dashboard %s", env.Data)
	}

	status, env = call(t, srv, http.MethodGet, "/api/v1/devices", nil)
	if status != http.StatusOK || !strings.Contains(string(env.Data), "dev003") {
		t.Fatalf("unexpected devices %d %s", status, env.Data)
	}
}

func TestLibraryListsPassThroughPagination(t *testing.T) {
	srv, backend := newTestAPI(t)

	status, env := call(t, srv, http.MethodGet, "/api/v1/categories", nil)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("categories: status %d %+v", status, env)
	}
	var categories []models.Category
	if err := json.Unmarshal(env.Data, &categories); err != nil || len(categories) != 1 || categories[0].ID != "c1" {
		t.Fatalf("unexpected categories %s", env.Data)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/tours?page=2", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("tours: %v", err)
	}
	defer resp.Body.Close()

	var tours models.ListResponse[models.Tour]
	if err := json.NewDecoder(resp.Body).Decode(&tours); err != nil {
		t.Fatalf("decode tours: %v", err)
	}
	if len(tours.Data) != 1 || tours.Pagination.Total != 9 || tours.Pagination.Page != 2 {
		t.Fatalf("unexpected tours %+v", tours)
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.tourQuery != "page=2&size=4" {
		t.Fatalf("unexpected tour query %q", backend.tourQuery)
	}
}
