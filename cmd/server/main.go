package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"letterpath/internal/config"
	"letterpath/internal/database"
	"letterpath/internal/grading"
	"letterpath/internal/handlers"
	"letterpath/internal/logger"
	"letterpath/internal/metrics"
	"letterpath/internal/models"
	"letterpath/internal/navigation"
	"letterpath/internal/repository"
	"letterpath/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", "error", err)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	levels, err := config.LoadLevels(cfg.LevelsPath)
	if err != nil {
		return fmt.Errorf("failed to load levels: %w", err)
	}
	log.Info("levels loaded", "count", len(levels))

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.MustNewMetrics(registry)

	// Progress state, loaded before anything can record activity
	persist := service.NewPersister(store, log)
	defer persist.Close()
	ledger := service.NewLedgerService(persist, log, m)
	streak := service.NewStreakService(persist, log, m)
	streak.CheckAndResetIfStale(time.Now())

	// Graders
	shapeGrader, err := grading.NewShapeGrader(cfg.ShapeGrader)
	if err != nil {
		return err
	}
	var pronunciationOpts []grading.PronunciationOption
	if cfg.DevGradingBypass {
		if grading.BypassCompiledIn {
			pronunciationOpts = append(pronunciationOpts, grading.WithDoubleSubmitBypass(grading.DefaultBypassWindow, time.Now))
			log.Warn("double-submit grading bypass enabled")
		} else {
			log.Warn("DEV_GRADING_BYPASS ignored: binary built without the devbypass tag")
		}
	}
	pronunciationGrader := grading.NewPronunciationGrader(pronunciationOpts...)

	// Navigation starts on the splash screen and moves on by itself
	nav := navigation.NewController(models.Splash{}, log)
	defer nav.Close()
	nav.Subscribe(func(s models.Screen) {
		log.Debug("screen changed", "screen", s.Kind())
	})
	nav.ScheduleAdvance(cfg.SplashDelay, models.Login{})

	activity, err := service.NewActivityService(service.ActivityDeps{
		Ledger:         ledger,
		Streak:         streak,
		Navigation:     nav,
		Pronunciation:  pronunciationGrader,
		Shape:          shapeGrader,
		Levels:         levels,
		CaptureTimeout: cfg.CaptureTimeout,
		Observer:       m,
		Logger:         log,
	})
	if err != nil {
		return err
	}
	defer activity.Close()

	// Initialize handlers
	screenHandler := handlers.NewScreenHandler(nav, log)
	progressHandler := handlers.NewProgressHandler(ledger, streak, activity, levels, log)
	activityHandler := handlers.NewActivityHandler(activity, nav, log)

	mux := http.NewServeMux()

	// Navigation routes
	mux.HandleFunc("GET /api/screen", screenHandler.GetScreen)
	mux.HandleFunc("POST /api/screen/push", screenHandler.Push)
	mux.HandleFunc("POST /api/screen/replace", screenHandler.Replace)
	mux.HandleFunc("POST /api/screen/pop", screenHandler.Pop)
	mux.HandleFunc("POST /api/screen/advance", screenHandler.Advance)
	mux.HandleFunc("POST /api/onboarding/finalize", screenHandler.FinalizeOnboarding)
	mux.HandleFunc("POST /api/onboarding/reset", screenHandler.ResetOnboarding)

	// Progress routes
	mux.HandleFunc("GET /api/progress", progressHandler.GetProgress)
	mux.HandleFunc("POST /api/progress/reset", progressHandler.ResetProgress)
	mux.HandleFunc("GET /api/levels", progressHandler.GetLevels)

	// Activity routes
	mux.HandleFunc("GET /api/activity", activityHandler.GetState)
	mux.HandleFunc("POST /api/activity/start", activityHandler.Start)
	mux.HandleFunc("POST /api/activity/spelling", activityHandler.ContinueToSpelling)
	mux.HandleFunc("POST /api/activity/capture", activityHandler.BeginCapture)
	mux.HandleFunc("POST /api/activity/grade", activityHandler.Grade)

	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handlers.Recover(log, handlers.Logging(log, mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "addr", "http://localhost"+server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	persist.Flush()
	return err
}

// openStore returns the settings store selected by DB_TYPE. "memory" keeps
// progress for the lifetime of the process only.
func openStore(cfg *config.Config, log *logger.Logger) (service.SettingsStore, func(), error) {
	if cfg.DatabaseType == "memory" {
		log.Warn("using in-memory store, progress will not survive a restart")
		return repository.NewMemoryStore(), func() {}, nil
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Info("database connection established", "type", cfg.DatabaseType)

	applied, err := db.RunMigrations(cfg.MigrationsPath)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("migrations completed", "applied", applied)

	return repository.NewSettingsRepository(db), func() { db.Close() }, nil
}
