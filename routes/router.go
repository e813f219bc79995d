package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ruei-yu/activity-checkin-points/config"
	"github.com/ruei-yu/activity-checkin-points/controllers"
	"github.com/ruei-yu/activity-checkin-points/ledger"
	"github.com/ruei-yu/activity-checkin-points/middleware"
	"github.com/ruei-yu/activity-checkin-points/points"
	"github.com/ruei-yu/activity-checkin-points/utils"
)

// SetupRouter wires routes, middlewares, and controllers around the ledger
// handle. The ledger is passed in explicitly; no handler touches a global
// store.
func SetupRouter(l *ledger.Ledger, catalog *points.Catalog) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	eventController := controllers.NewEventController(catalog)
	checkinController := controllers.NewCheckinController(l, catalog)
	leaderboardController := controllers.NewLeaderboardController(l)
	configController := controllers.NewConfigController(catalog)

	api := r.Group("/api/v1")

	events := api.Group("/events")
	events.POST("/link", middleware.RateLimitMiddleware(), eventController.GenerateLink)
	events.GET("/qr", eventController.QR)
	events.GET("/decode", eventController.Decode)

	checkins := api.Group("/checkins")
	checkins.POST("", middleware.RateLimitMiddleware(), checkinController.Checkin)
	checkins.GET("", checkinController.List)
	checkins.GET("/export", checkinController.Export)

	api.GET("/participants/:name", checkinController.Participant)
	api.GET("/leaderboard", leaderboardController.Leaderboard)
	api.GET("/stats", leaderboardController.Stats)
	api.GET("/config/categories", configController.GetCategories)
	api.GET("/config/rewards", configController.GetRewards)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
