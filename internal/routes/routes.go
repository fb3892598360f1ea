package routes

import (
	"promarket-server/internal/ai"
	"promarket-server/internal/chat"
	"promarket-server/internal/config"
	"promarket-server/internal/handlers"
	"promarket-server/internal/middleware"
	"promarket-server/internal/models"
	"promarket-server/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, hub *ws.Hub) {
	// Initialize services and handlers
	chatService := chat.NewService(db)
	aiClient := ai.NewClient(cfg.AIServiceURL)

	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	professionalHandler := handlers.NewProfessionalHandler(db)
	chatHandler := handlers.NewChatHandler(chatService, aiClient)

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/register-professional", authHandler.RegisterProfessional)
			authRoutes.POST("/login", authHandler.Login)
		}

		// The catalog is browsable without an account
		public.GET("/professionals", professionalHandler.GetProfessionals)
		public.GET("/professionals/:id", professionalHandler.GetProfessionalByID)
		public.GET("/professional-types", professionalHandler.GetProfessionalTypes)
	}

	// Authenticated routes
	private := router.Group("/api")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User administration (admin only)
		userRoutes := private.Group("/users")
		userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			userRoutes.GET("", userHandler.GetUsers)
			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.DELETE("/:id", userHandler.DeleteUser)
		}

		// Professional type management (admin only)
		typeRoutes := private.Group("/professional-types")
		typeRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			typeRoutes.POST("", professionalHandler.CreateProfessionalType)
			typeRoutes.PUT("/:id", professionalHandler.UpdateProfessionalType)
			typeRoutes.DELETE("/:id", professionalHandler.DeleteProfessionalType)
		}

		// Chat routes
		chatRoutes := private.Group("/chat")
		{
			chatRoutes.GET("/history/:userId", chatHandler.GetHistory)
			chatRoutes.POST("/send", chatHandler.SendMessage)
			chatRoutes.GET("/unread", chatHandler.GetUnread)
			chatRoutes.PUT("/read/:senderId", chatHandler.MarkRead)
			chatRoutes.POST("/query", chatHandler.Query)
		}
	}

	// Realtime gateway. Authenticates its own handshake token so browser
	// clients can pass it as a query parameter.
	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWS(hub, chatService, cfg, c)
	})

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
