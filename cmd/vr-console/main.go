package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Mansoor88-6/vr-event-console/internal/access"
	"Mansoor88-6/vr-event-console/internal/auth"
	"Mansoor88-6/vr-event-console/internal/client"
	"Mansoor88-6/vr-event-console/internal/collector"
	"Mansoor88-6/vr-event-console/internal/config"
	"Mansoor88-6/vr-event-console/internal/database"
	"Mansoor88-6/vr-event-console/internal/device"
	"Mansoor88-6/vr-event-console/internal/handler"
	"Mansoor88-6/vr-event-console/internal/logger"
	"Mansoor88-6/vr-event-console/internal/playback"
	"Mansoor88-6/vr-event-console/internal/queue"
	"Mansoor88-6/vr-event-console/internal/repository"
	"Mansoor88-6/vr-event-console/internal/router"
	"Mansoor88-6/vr-event-console/internal/server"
	"Mansoor88-6/vr-event-console/internal/service"
	"Mansoor88-6/vr-event-console/internal/storage"
	"Mansoor88-6/vr-event-console/internal/tracker"

	"go.uber.org/zap"
)

const (
	reportBatchSize  = 20
	historyRetention = 30 * 24 * time.Hour
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config/local.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting VR event console",
		zap.String("env", cfg.Env),
		zap.String("config_path", *configPath),
	)

	// Initialize database
	db, err := database.New(cfg.StoragePath, log.Logger)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Get or generate console ID
	consoleID, err := device.NewIdentityManager().GetOrGenerateConsoleID(cfg.Console.ID)
	if err != nil {
		log.Fatal("Failed to get console ID", zap.Error(err))
	}
	log.Info("Console identity", zap.String("console_id", consoleID))

	// Initialize API client
	apiClient := client.NewAPIClient(
		cfg.Backend.BaseURL,
		consoleID,
		cfg.Backend.Timeout,
		log.Logger,
	)
	apiClient.UseDeviceFixtures(cfg.Backend.DeviceFixtures)

	loginCtx, cancelLogin := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	if err := apiClient.HealthCheck(loginCtx); err != nil {
		log.Warn("Backend health check failed", zap.Error(err))
	}

	// Obtain a backend token, logging in when the configured one is missing or rejected
	user, err := auth.NewLoginService(apiClient, *configPath, log.Logger).EnsureToken(loginCtx, cfg)
	cancelLogin()
	if err != nil {
		log.Fatal("Backend authentication failed", zap.Error(err))
	}
	log.Info("Authenticated", zap.String("username", user.Username))

	// Local state
	reportQueue := queue.NewReportQueue(db.DB, log.Logger)
	playbackRepo := repository.NewPlaybackRepository(db.DB)
	settingsRepo := repository.NewSettingsRepository(db.DB)

	settings, err := settingsRepo.Get()
	if err != nil {
		log.Fatal("Failed to load settings", zap.Error(err))
	}
	sessions := service.NewSessionStore(service.SessionTTL(settings), log.Logger)
	settingsService := service.NewSettingsService(settingsRepo, sessions, log.Logger)

	// Download sink: S3 when a bucket is configured, local directory otherwise
	var sink storage.Sink
	if cfg.Download.S3Bucket != "" {
		s3Sink, err := storage.NewS3Sink(cfg.Download.S3Region, cfg.Download.S3Bucket, log.Logger)
		if err != nil {
			log.Fatal("Failed to initialize S3 sink", zap.Error(err))
		}
		sink = s3Sink
	} else {
		sink = storage.NewLocalSink(cfg.Download.Dir, log.Logger)
	}

	// Live updates for the console front end
	var hub *server.Hub
	var broadcaster service.Broadcaster
	if cfg.Server.Enabled {
		hub = server.NewHub(log.Logger)
		broadcaster = hub
	}

	player := playback.NewPlayer(
		playback.NewExecRunner(cfg.Player.Command, cfg.Player.Args, log.Logger),
		cfg.Backend.MediaBaseURL,
		settingsService.Volume,
		log.Logger,
	)

	snapshotTracker := tracker.NewSnapshotTracker(
		apiClient,
		cfg.Streaming.PollInterval,
		cfg.Streaming.SnapshotPrefix,
		cfg.Backend.MediaBaseURL,
		log.Logger,
	)

	deviceTracker := tracker.NewDeviceTracker(apiClient, cfg.Streaming.DevicePollInterval, log.Logger)

	reportCollector := collector.NewReportCollector(reportBatchSize, cfg.Streaming.ReportFlushInterval, log.Logger)

	streamingService := service.NewStreamingService(
		apiClient,
		player,
		snapshotTracker,
		deviceTracker,
		reportCollector,
		reportQueue,
		playbackRepo,
		broadcaster, // nil if server disabled
		cfg.Streaming.ReportStatus,
		cfg.Streaming.ReportRetryInterval,
		log.Logger,
	)

	eventService := service.NewEventService(apiClient, access.NewGate(apiClient, log.Logger), sessions, log.Logger)
	mediaService := service.NewMediaService(apiClient, sink, cfg.Backend.MediaBaseURL, cfg.Console.Operator, log.Logger)
	dashboardService := service.NewDashboardService(eventService, streamingService)

	// Console API
	var httpServer *http.Server
	if cfg.Server.Enabled {
		api := router.New(router.Handlers{
			Events:    handler.NewEventHandler(eventService, log.Logger),
			Media:     handler.NewMediaHandler(mediaService, log.Logger),
			Streaming: handler.NewStreamingHandler(streamingService, log.Logger),
			Dashboard: handler.NewDashboardHandler(dashboardService, settingsService, log.Logger),
			Library:   handler.NewLibraryHandler(service.NewLibraryService(apiClient), log.Logger),
			Live:      hub,
		}, log.Logger)

		httpServer = &http.Server{
			Addr:        cfg.Address(),
			Handler:     api,
			ReadTimeout: 15 * time.Second,
			IdleTimeout: 60 * time.Second,
		}

		go func() {
			log.Info("Starting console API", zap.String("address", cfg.Address()))
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("Console API error", zap.Error(err))
			}
		}()
	} else {
		log.Info("Console API disabled in configuration")
	}

	// Start streaming service
	if err := streamingService.Start(); err != nil {
		log.Fatal("Failed to start streaming service", zap.Error(err))
	}

	log.Info("VR event console started successfully",
		zap.String("console_id", consoleID),
		zap.String("backend_url", cfg.Backend.BaseURL),
	)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Received shutdown signal", zap.String("signal", sig.String()))

	log.Info("Shutting down VR event console...")

	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Warn("Console API shutdown error", zap.Error(err))
		} else {
			log.Info("Console API stopped")
		}
		cancel()
		hub.Close()
	}

	sessions.Stop()

	// Stop streaming service (synchronous, with timeout)
	done := make(chan struct{})
	go func() {
		streamingService.Stop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("Streaming service stopped successfully")
	case <-time.After(15 * time.Second):
		log.Warn("Shutdown timeout reached, exiting with pending work")
	}

	if n, err := playbackRepo.DeleteBefore(time.Now().Add(-historyRetention)); err != nil {
		log.Error("Failed to prune playback history", zap.Error(err))
	} else if n > 0 {
		log.Info("Pruned playback history", zap.Int64("count", n))
	}

	log.Info("VR event console stopped")
}
