package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sekolahku/presensi-backend/internal/config"
	"github.com/sekolahku/presensi-backend/internal/handler"
	"github.com/sekolahku/presensi-backend/internal/middleware"
	"github.com/sekolahku/presensi-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Attendance *handler.AttendanceHandler
	Enrollment *handler.EnrollmentHandler
	BlockedDay *handler.BlockedDayHandler
	Directory  *handler.DirectoryHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the write endpoints (60 requests per minute per IP).
	writeLimiter := middleware.NewRateLimiter(60, time.Minute)

	api := router.Group("/api/v1")
	{
		// ─── Attendance records ────────────────────────────────────────
		attendance := api.Group("/attendance")
		{
			attendance.GET("", handlers.Attendance.ListRecords)
			attendance.POST("", writeLimiter.Middleware(), handlers.Attendance.UpsertRecords)

			// Aggregations are read-heavy and poll-driven; allow short
			// client-side caching on top of the Redis result cache.
			aggregations := attendance.Group("")
			aggregations.Use(middleware.CacheControl(60))
			{
				aggregations.GET("/summary", handlers.Attendance.GetSummary)
				aggregations.GET("/summary/all", handlers.Attendance.GetAllSummaries)
				aggregations.GET("/perfect", handlers.Attendance.GetPerfect)
				aggregations.GET("/analysis", handlers.Attendance.GetAnalysis)
			}
		}

		// ─── Enrollment windows ────────────────────────────────────────
		enrollments := api.Group("/enrollments")
		{
			enrollments.GET("", handlers.Enrollment.ListEnrollments)
			enrollments.POST("", writeLimiter.Middleware(), handlers.Enrollment.CreateEnrollment)
			enrollments.POST("/:id/withdraw", writeLimiter.Middleware(), handlers.Enrollment.WithdrawEnrollment)
		}

		// ─── Blocked-day calendar ──────────────────────────────────────
		blockedDays := api.Group("/blocked-days")
		{
			blockedDays.GET("", handlers.BlockedDay.ListBlockedDays)
			blockedDays.GET("/check", handlers.BlockedDay.CheckBlockedDay)
			blockedDays.POST("", writeLimiter.Middleware(), handlers.BlockedDay.CreateBlockedDay)
			blockedDays.DELETE("/:id", writeLimiter.Middleware(), handlers.BlockedDay.DeleteBlockedDay)
		}

		// ─── Directory (read-only filters) ─────────────────────────────
		api.GET("/courses", handlers.Directory.ListCourses)
		api.GET("/students", handlers.Directory.ListStudents)
	}

	return router
}
