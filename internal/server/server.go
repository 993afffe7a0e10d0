package server

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hobbyhub/backend/internal/config"
	"github.com/hobbyhub/backend/internal/handler"
	"github.com/hobbyhub/backend/internal/middleware"
	"github.com/hobbyhub/backend/internal/repository"
	"github.com/hobbyhub/backend/internal/service"
	"github.com/hobbyhub/backend/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	userRepo := repository.NewUserRepository(db)
	hobbyRepo := repository.NewHobbyRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	postRepo := repository.NewPostRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := service.NewMeiliSearchService(meiliClient)

	userSvc := service.NewUserService(userRepo)
	activitySvc := service.NewActivityService(activityRepo, communityRepo, redisClient)
	hobbySvc := service.NewHobbyService(hobbyRepo, searchSvc)
	communitySvc := service.NewCommunityService(communityRepo, hobbyRepo, userRepo, activitySvc, imageStorage)
	postSvc := service.NewPostService(postRepo, communityRepo, userRepo, activitySvc, searchSvc, redisClient, cfg.RateLimitPost)
	dashboardSvc := service.NewDashboardService(userRepo, statsRepo, activityRepo, communityRepo, postRepo)
	statSvc := service.NewStatService(userRepo, hobbyRepo, communityRepo, postRepo)

	webhookHandler := handler.NewWebhookHandler(userSvc, cfg.WebhookSecret)
	hobbyHandler := handler.NewHobbyHandler(hobbySvc)
	communityHandler := handler.NewCommunityHandler(communitySvc)
	postHandler := handler.NewPostHandler(postSvc)
	activityHandler := handler.NewActivityHandler(activitySvc, redisClient)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	statHandler := handler.NewStatHandler(statSvc)

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userSvc, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	api.POST("/webhooks/identity", webhookHandler.HandleIdentityEvent)
	api.GET("/stats/overview", statHandler.GetOverview)
	api.GET("/hobbies", hobbyHandler.GetHobbies)
	api.GET("/hobbies/search", hobbyHandler.SearchHobbies)
	api.GET("/hobbies/:id", hobbyHandler.GetHobbyByID)
	api.GET("/hobbies/:id/communities", communityHandler.GetCommunitiesByHobby)
	api.GET("/communities/:id", communityHandler.GetCommunityByID)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/hobbies", hobbyHandler.CreateHobby)

		protected.POST("/communities", communityHandler.CreateCommunity)
		protected.POST("/communities/:id/join", communityHandler.JoinCommunity)
		protected.POST("/communities/:id/image", communityHandler.UploadCoverImage)
		protected.GET("/communities/:id/posts", postHandler.GetPostsByCommunity)
		protected.POST("/communities/:id/posts", postHandler.CreatePost)

		protected.GET("/posts/:id", postHandler.GetPostByID)
		protected.PUT("/posts/:id", postHandler.UpdatePost)
		protected.DELETE("/posts/:id", postHandler.DeletePost)
		protected.POST("/posts/:id/like", postHandler.ToggleLike)
		protected.POST("/posts/:id/comments", postHandler.CreateComment)
		protected.PUT("/comments/:comment_id", postHandler.UpdateComment)
		protected.DELETE("/comments/:comment_id", postHandler.DeleteComment)

		protected.GET("/activities", activityHandler.GetFeed)
		protected.GET("/activities/unread", activityHandler.GetUnread)
		protected.PUT("/activities/read", activityHandler.MarkRead)
		protected.PUT("/activities/read-all", activityHandler.MarkAllRead)
		protected.GET("/activities/ws", activityHandler.HandleWebSocket)

		protected.GET("/dashboard/statistics", dashboardHandler.GetStatistics)
		protected.GET("/dashboard/engagement", dashboardHandler.GetEngagementSummary)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Webhook-Secret"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
