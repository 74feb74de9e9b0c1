package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sekolahku/presensi-backend/internal/config"
	"github.com/sekolahku/presensi-backend/internal/database"
	"github.com/sekolahku/presensi-backend/internal/handler"
	"github.com/sekolahku/presensi-backend/internal/logger"
	"github.com/sekolahku/presensi-backend/internal/repository"
	"github.com/sekolahku/presensi-backend/internal/router"
	"github.com/sekolahku/presensi-backend/internal/service"
	"github.com/sekolahku/presensi-backend/internal/validator"
	"github.com/sekolahku/presensi-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Presensi Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	attendanceRepo := repository.NewAttendanceRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	blockedDayRepo := repository.NewBlockedDayRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	attendanceService := service.NewAttendanceService(
		attendanceRepo, enrollmentRepo, blockedDayRepo, courseRepo, studentRepo,
		rdb, cfg.SummaryCacheTTL, log,
	)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, log)
	blockedDayService := service.NewBlockedDayService(blockedDayRepo, log)
	directoryService := service.NewDirectoryService(studentRepo, courseRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Attendance: handler.NewAttendanceHandler(attendanceService, log),
		Enrollment: handler.NewEnrollmentHandler(enrollmentService, log),
		BlockedDay: handler.NewBlockedDayHandler(blockedDayService, log),
		Directory:  handler.NewDirectoryHandler(directoryService, log),
	}

	// ─── Start Background Worker ──────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	prewarmWorker := worker.NewPrewarmWorker(attendanceService, cfg.PrewarmInterval, log)
	go prewarmWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
