package router

import (
	"net/http"
	"time"

	"Mansoor88-6/vr-event-console/internal/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handlers groups the console API handlers
type Handlers struct {
	Events    *handler.EventHandler
	Media     *handler.MediaHandler
	Streaming *handler.StreamingHandler
	Dashboard *handler.DashboardHandler
	Library   *handler.LibraryHandler
	Live      http.Handler // websocket hub
}

func New(h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	if h.Live != nil {
		r.Method(http.MethodGet, "/ws", h.Live)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard", h.Dashboard.Summary)
		r.Get("/settings", h.Dashboard.GetSettings)
		r.Put("/settings", h.Dashboard.UpdateSettings)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.Events.ListEvents)
			r.Post("/", h.Events.CreateEvent)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Events.GetEvent)
				r.Patch("/", h.Events.UpdateEvent)
				r.Delete("/", h.Events.DeleteEvent)
				r.Post("/access", h.Events.Access)
				r.Get("/candidates", h.Events.Candidates)
				r.Post("/videos", h.Events.AddVideo)
				r.Delete("/videos/{mediaID}", h.Events.RemoveVideo)
			})
		})
		r.Get("/sessions/{token}", h.Events.GetSession)

		r.Route("/media", func(r chi.Router) {
			r.Get("/", h.Media.ListMedia)
			r.Post("/upload", h.Media.Upload)
			r.Delete("/{id}", h.Media.Delete)
			r.Post("/{id}/download", h.Media.Download)
		})

		r.Get("/devices", h.Streaming.Devices)
		r.Get("/categories", h.Library.ListCategories)
		r.Get("/tours", h.Library.ListTours)

		r.Route("/streaming", func(r chi.Router) {
			r.Get("/", h.Streaming.Status)
			r.Post("/select", h.Streaming.Select)
			r.Post("/play", h.Streaming.Play)
			r.Post("/pause", h.Streaming.Pause)
			r.Post("/next", h.Streaming.Next)
			r.Get("/snapshot", h.Streaming.Snapshot)
			r.Get("/history", h.Streaming.History)
		})
	})

	return r
}

// requestID propagates the caller's X-Request-ID or assigns a new one
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("request_id", r.Header.Get("X-Request-ID")),
			)
		})
	}
}
