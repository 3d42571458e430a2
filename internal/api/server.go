package api

import (
	"log/slog"
	"net/http"

	"hallbook/internal/cache"
	"hallbook/internal/config"
	"hallbook/internal/database"
	"hallbook/internal/handlers"
	"hallbook/internal/logger"
	"hallbook/internal/messaging"
	"hallbook/internal/middleware"
	"hallbook/internal/repository"
	"hallbook/internal/search"
	"hallbook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the HTTP API together.
type Server struct {
	router      *gin.Engine
	config      *config.Config
	db          *database.DB
	accessCache *cache.AccessCache
	nats        *messaging.NATSClient
	services    *service.Services
	repos       *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Cache, messaging and search are optional: the core works without
	// them, only slower and quieter.
	accessCache, err := cache.NewAccessCache(cfg.Redis)
	if err != nil {
		slog.Warn("Access cache disabled", "error", err)
		accessCache = nil
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("Messaging disabled", "error", err)
		natsClient = nil
	}

	hallIndex, err := search.NewHallIndex(cfg.Elasticsearch)
	if err != nil {
		slog.Warn("Hall search index disabled", "error", err)
		hallIndex = nil
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, accessCache, hallIndex, natsClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:      router,
		config:      cfg,
		db:          db,
		accessCache: accessCache,
		nats:        natsClient,
		services:    services,
		repos:       repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	api.Use(middleware.JWTAuth(s.config.JWTSecret))
	{
		centers := api.Group("/centers")
		{
			centers.POST("", h.CreateCenter)
			centers.GET("", h.ListCenters)
			centers.GET("/:id", h.GetCenter)
			centers.PUT("/:id", h.UpdateCenter)
			centers.DELETE("/:id", h.DeleteCenter)
		}

		halls := api.Group("/halls")
		{
			halls.POST("", h.CreateHall)
			halls.GET("", h.ListHalls)
			halls.GET("/:id", h.GetHall)
			halls.PUT("/:id", h.UpdateHall)
			halls.DELETE("/:id", h.DeleteHall)
			halls.GET("/:id/schedules", h.ListHallSchedules)
			halls.GET("/:id/access", h.ListHallAccess)
		}

		schedules := api.Group("/schedules")
		{
			schedules.POST("", h.CreateSchedule)
			schedules.PUT("/:id", h.UpdateSchedule)
			schedules.DELETE("/:id", h.DeleteSchedule)
			schedules.DELETE("", h.DeleteAllSchedules)
		}

		requests := api.Group("/requests")
		{
			requests.POST("", h.SubmitRequest)
			requests.GET("", h.ListRequests)
			requests.GET("/:id", h.GetRequest)
			requests.PATCH("/:id/approve", h.ApproveRequest)
			requests.PATCH("/:id/reject", h.RejectRequest)
			requests.PATCH("/:id/answer", h.AnswerRequest)
			requests.PUT("/:id", h.UpdateRequest)
			requests.DELETE("/:id", h.DeleteRequest)
			requests.POST("/:id/messages", h.CreateRequestMessage)
			requests.GET("/:id/messages", h.ListRequestMessages)
		}

		api.GET("/users/me", h.GetCurrentUser)
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	dbHealth := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if dbHealth.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbHealth.Status,
		"service":  "hallbook-api",
		"database": dbHealth,
	})
}

// GetRouter exposes the router; main wraps it in an http.Server so shutdown
// can drain in-flight requests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.accessCache != nil {
		if err := s.accessCache.Close(); err != nil {
			slog.Error("Error closing access cache", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
