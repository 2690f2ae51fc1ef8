package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/grantbridge/grant-management-api/internal/config"
	"github.com/grantbridge/grant-management-api/internal/constants"
	"github.com/grantbridge/grant-management-api/internal/database"
	"github.com/grantbridge/grant-management-api/internal/handlers"
	"github.com/grantbridge/grant-management-api/internal/middleware"
	"github.com/grantbridge/grant-management-api/internal/notifications"
	"github.com/grantbridge/grant-management-api/internal/repository"
	"github.com/grantbridge/grant-management-api/internal/services"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)

	notifier := notifications.NewAuditRecorder(db)

	authService := services.NewAuthService(userRepo)
	onboardingService := services.NewOnboardingService(orgRepo, userRepo)
	reviewService := services.NewReviewService(orgRepo, notifier)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	sessionHandler := handlers.NewSessionHandler()
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(503, gin.H{"status": "degraded", "message": "Database unreachable"})
			return
		}
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Grant Management API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(workflow.PathPartnerLogin), authHandler.GetCurrentUser)
		}

		// Session snapshot consumed by client-side route guards
		api.GET("/session",
			middleware.RequireAuth(workflow.PathPartnerLogin),
			middleware.LoadSessionContext(),
			sessionHandler.GetSession)

		// Partner onboarding routes, gated per status
		onboarding := api.Group("/onboarding")
		onboarding.Use(middleware.RequireAuth(workflow.PathPartnerLogin), middleware.LoadSessionContext())
		{
			onboarding.POST("/verify-email",
				middleware.RequirePartnerStatus(false, workflow.StatusEmailPending),
				onboardingHandler.VerifyEmail)
			onboarding.POST("/section-a",
				middleware.RequirePartnerStatus(true, workflow.StatusSectionAPending, workflow.StatusChangesRequested),
				onboardingHandler.SubmitSectionA)
			onboarding.POST("/section-b",
				middleware.RequirePartnerStatus(true, workflow.StatusSectionBPending, workflow.StatusChangesRequested),
				onboardingHandler.SubmitSectionB)
			onboarding.POST("/section-c",
				middleware.RequirePartnerStatus(true, workflow.StatusSectionCPending, workflow.StatusChangesRequested),
				onboardingHandler.SubmitSectionC)
			onboarding.POST("/restart",
				middleware.RequirePartnerStatus(true, workflow.StatusChangesRequested),
				onboardingHandler.Restart)
			onboarding.GET("/status",
				middleware.RequireDestination(workflow.Destination{RequiredRole: workflow.RolePartner}),
				onboardingHandler.GetStatus)
		}

		// Review queue routes
		queue := api.Group("/queue")
		queue.Use(middleware.RequireAuth(workflow.PathStaffLogin), middleware.LoadSessionContext(), middleware.ResolveQueueRole())
		{
			queue.GET("/:role", reviewHandler.GetQueue)
			queue.POST("/:role/:id/decision", reviewHandler.PostDecision)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
