package routes

import (
	"github.com/gin-gonic/gin"

	"selenex/internal/api/handlers"
	"selenex/internal/api/middleware"
	"selenex/internal/config"
	"selenex/pkg/metrics"
)

func SetupRoutes(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		// Public routes (no auth required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", handlers.Login)
			auth.POST("/register", handlers.Register)
		}

		v1.GET("/health", handlers.HealthCheck)

		// Stateless generation from a posted session
		v1.POST("/scripts/generate", handlers.GenerateScript)

		// The session ID authorizes the stream
		v1.GET("/ws/recording", handlers.RecordingWebSocket)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile)
				users.PUT("/profile", handlers.UpdateProfile)
				users.PUT("/:id/password", handlers.AdminChangePassword) // Admin only
			}

			// Live recording sessions
			recording := protected.Group("/recording")
			{
				recording.POST("/start", handlers.StartRecording)
				recording.POST("/stop", handlers.StopRecording)
				recording.GET("/status", handlers.GetRecordingStatus)
				recording.POST("/save", handlers.SaveRecording)
			}

			recordings := protected.Group("/recordings")
			{
				recordings.GET("", handlers.GetRecordings)
				recordings.GET("/:id", handlers.GetRecording)
				recordings.DELETE("/:id", handlers.DeleteRecording)
				recordings.POST("/:id/generate", handlers.GenerateFromRecording)
			}

			scripts := protected.Group("/scripts")
			{
				scripts.GET("", handlers.GetScripts)
				scripts.GET("/:id", handlers.GetScript)
				scripts.GET("/:id/download", handlers.DownloadScript)
				scripts.DELETE("/:id", handlers.DeleteScript)
			}
		}
	}

	return router
}
