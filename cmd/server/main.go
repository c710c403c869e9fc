package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/photoboard/photoboard/internal/config"
	"github.com/photoboard/photoboard/internal/constants"
	"github.com/photoboard/photoboard/internal/database"
	"github.com/photoboard/photoboard/internal/handlers"
	"github.com/photoboard/photoboard/internal/middleware"
	"github.com/photoboard/photoboard/internal/repository"
	"github.com/photoboard/photoboard/internal/services"
	"github.com/photoboard/photoboard/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Configure logging
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.GinMode != "release" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			log.Fatal().Err(err).Msg("failed to create indexes")
		}
	}

	// Seed default permissions and groups
	if err := database.Seed(); err != nil {
		log.Fatal().Err(err).Msg("failed to seed roles")
	}

	// Initialize blob storage
	blobs, err := storage.NewS3Storage(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize blob storage")
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	// Setup session middleware; Redis when configured, cookies otherwise
	isProduction := cfg.GinMode == "release"
	sessionOptions := sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	}

	var store sessions.Store
	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(10, "tcp", redisAddr, "", []byte(cfg.SessionSecret))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create redis session store")
		}
		rs.Options(sessionOptions)
		store = rs
	} else {
		cs := cookie.NewStore([]byte(cfg.SessionSecret))
		cs.Options(sessionOptions)
		store = cs
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	tagRepo := repository.NewTagRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	roleRepo := repository.NewRoleRepository(db)

	// Initialize services
	authzService := services.NewAuthzService(userRepo, roleRepo)
	authService := services.NewAuthService(userRepo, services.LogMailer{})
	photoService := services.NewPhotoService(photoRepo, tagRepo, blobs, authzService)
	tagService := services.NewTagService(tagRepo)
	commentService := services.NewCommentService(commentRepo, photoRepo, authzService)
	reactionService := services.NewReactionService(reactionRepo, photoRepo)
	profileService := services.NewProfileService(userRepo, photoRepo, blobs, authzService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	photoHandler := handlers.NewPhotoHandler(photoService, reactionService)
	commentHandler := handlers.NewCommentHandler(commentService, photoService)
	tagHandler := handlers.NewTagHandler(tagService)
	profileHandler := handlers.NewProfileHandler(profileService)
	roleHandler := handlers.NewRoleHandler(authzService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Photoboard API is running",
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
			auth.POST("/password-reset", authHandler.RequestPasswordReset)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Photo routes (listing and detail public, mutations protected)
		photos := api.Group("/photos")
		{
			photos.GET("", photoHandler.ListPhotos)
			photos.GET("/:slug", photoHandler.GetPhoto)
			photos.GET("/:slug/comments", commentHandler.ListComments)
			photos.POST("", middleware.RequireAuth(), photoHandler.CreatePhoto)
			photos.PATCH("/:slug", middleware.RequireAuth(), photoHandler.UpdatePhoto)
			photos.DELETE("/:slug", middleware.RequireAuth(), photoHandler.DeletePhoto)
			photos.POST("/:slug/feature", middleware.RequireAuth(), photoHandler.SetFeatured)
			photos.POST("/:slug/reactions", middleware.RequireAuth(), photoHandler.React)
			photos.POST("/:slug/comments", middleware.RequireAuth(), commentHandler.AddComment)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(middleware.RequireAuth())
		{
			comments.PATCH("/:id", commentHandler.UpdateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}

		// Tag routes (public)
		tags := api.Group("/tags")
		{
			tags.GET("", tagHandler.ListTags)
			tags.GET("/:slug", tagHandler.GetTag)
		}

		// Stats (public)
		api.GET("/stats", photoHandler.Stats)

		// Profile routes (protected)
		profiles := api.Group("/profiles")
		profiles.Use(middleware.RequireAuth())
		{
			profiles.GET("/:id", profileHandler.GetProfile)
			profiles.PATCH("/:id", profileHandler.UpdateProfile)
			profiles.POST("/:id/avatar", profileHandler.SetAvatar)
		}

		// Role admin routes (protected, can_manage_user_roles)
		roles := api.Group("/roles")
		roles.Use(middleware.RequireAuth(), middleware.RequirePermission(authzService, constants.PermManageUserRoles))
		{
			roles.GET("/permissions", roleHandler.ListPermissions)
			roles.GET("/groups", roleHandler.ListGroups)
			roles.POST("/groups", roleHandler.CreateGroup)
			roles.POST("/groups/:id/permissions", roleHandler.SetGroupPermission)
			roles.POST("/groups/:id/members", roleHandler.SetUserGroup)
		}
	}

	// Start server
	log.Info().Str("addr", cfg.ListenAddr).Msg("server starting")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
