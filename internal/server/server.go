package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/helpdesk-api/internal/config"
	"github.com/yukikurage/helpdesk-api/internal/constants"
	"github.com/yukikurage/helpdesk-api/internal/database"
	apierrors "github.com/yukikurage/helpdesk-api/internal/errors"
	"github.com/yukikurage/helpdesk-api/internal/handlers"
	"github.com/yukikurage/helpdesk-api/internal/logger"
	"github.com/yukikurage/helpdesk-api/internal/middleware"
	"github.com/yukikurage/helpdesk-api/internal/models"
	"github.com/yukikurage/helpdesk-api/internal/notify"
	"github.com/yukikurage/helpdesk-api/internal/repository"
	"github.com/yukikurage/helpdesk-api/internal/services"
	"gorm.io/gorm"
)

// Services bundles everything the router needs.
type Services struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Categories    *services.CategoryService
	Tickets       *services.TicketService
	Notifications *services.NotificationService
	Stats         *services.StatsService
	// AI is nil when no OpenAI key is configured.
	AI *services.AIService
}

// NewServices wires the services on top of a store.
func NewServices(store repository.Store, publisher notify.Publisher, ai *services.AIService, log *slog.Logger) *Services {
	notifications := services.NewNotificationService(store, publisher, log)
	return &Services{
		Auth:          services.NewAuthService(store),
		Users:         services.NewUserService(store),
		Categories:    services.NewCategoryService(store),
		Tickets:       services.NewTicketService(store, notifications, log),
		Notifications: notifications,
		Stats:         services.NewStatsService(store),
		AI:            ai,
	}
}

// Seeder returns a seeder over the same services.
func (s *Services) Seeder() *services.Seeder {
	return &services.Seeder{
		Users:         s.Users,
		Categories:    s.Categories,
		Tickets:       s.Tickets,
		Notifications: s.Notifications,
	}
}

// Server wraps the HTTP server and the resources it owns.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	db         *gorm.DB
	redis      *redis.Client
	log        *slog.Logger
}

// New builds the store, services and router from configuration.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Server, error) {
	gin.SetMode(cfg.Server.Mode)

	srv := &Server{log: logger.WithComponent(log, "server")}

	store, err := srv.openStore(cfg)
	if err != nil {
		return nil, err
	}

	var publisher notify.Publisher = notify.Nop{}
	if cfg.Notifications.Publish {
		srv.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := srv.redis.Ping(ctx).Err(); err != nil {
			srv.close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		publisher = notify.NewRedisPublisher(srv.redis)
		log.Info("publishing notifications to redis", "addr", cfg.Redis.Addr)
	}

	var ai *services.AIService
	if cfg.OpenAI.APIKey != "" {
		ai = services.NewAIService(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}

	svc := NewServices(store, publisher, ai, log)

	if cfg.Seed.Enabled {
		seeded, err := svc.Seeder().Seed(ctx)
		if err != nil {
			srv.close()
			return nil, fmt.Errorf("failed to seed data: %w", err)
		}
		if seeded {
			log.Info("seeded demo data")
		}
	}

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		srv.close()
		return nil, err
	}

	srv.router = NewRouter(svc, sessionStore, log)
	srv.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return srv, nil
}

func (s *Server) openStore(cfg *config.Config) (repository.Store, error) {
	if cfg.Database.Driver == "memory" {
		s.log.Info("using in-memory store")
		return repository.NewMemoryStore(), nil
	}

	db, err := database.Connect(cfg.Database, cfg.Server.Mode == gin.DebugMode, s.log)
	if err != nil {
		return nil, err
	}
	s.db = db
	if err := database.Migrate(db, s.log); err != nil {
		s.close()
		return nil, err
	}
	return repository.NewGormStore(db), nil
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.Session.Store {
	case "redis":
		rs, err := redisStore.NewStore(
			10,
			"tcp",
			cfg.Redis.Addr,
			"",
			cfg.Redis.Password,
			[]byte(cfg.Session.Secret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis session store: %w", err)
		}
		store = rs
	default:
		store = cookie.NewStore([]byte(cfg.Session.Secret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(svc *Services, sessionStore sessions.Store, log *slog.Logger) *gin.Engine {
	apierrors.UseJSONFieldNames()

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		sessions.Sessions(constants.SessionCookieName, sessionStore),
	)

	authHandler := handlers.NewAuthHandler(svc.Auth, log)
	userHandler := handlers.NewUserHandler(svc.Users, log)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, log)
	ticketHandler := handlers.NewTicketHandler(svc.Tickets, svc.Users, svc.Categories, svc.AI, log)
	commentHandler := handlers.NewCommentHandler(svc.Tickets, svc.Users, log)
	notificationHandler := handlers.NewNotificationHandler(svc.Notifications, log)
	statsHandler := handlers.NewStatsHandler(svc.Stats, log)

	loadTicket := middleware.LoadTicket(svc.Tickets, log)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Helpdesk API is running",
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		protected := api.Group("")
		protected.Use(middleware.RequireAuth())

		users := protected.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.POST("", adminOnly, userHandler.CreateUser)
			users.PUT("/:id", adminOnly, userHandler.UpdateUser)
			users.DELETE("/:id", adminOnly, userHandler.DeleteUser)
		}

		categories := protected.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.POST("", adminOnly, categoryHandler.CreateCategory)
			categories.PUT("/:id", adminOnly, categoryHandler.UpdateCategory)
			categories.DELETE("/:id", adminOnly, categoryHandler.DeleteCategory)
		}

		tickets := protected.Group("/tickets")
		{
			tickets.GET("", ticketHandler.ListTickets)
			tickets.POST("", ticketHandler.CreateTicket)
			tickets.POST("/triage", ticketHandler.TriageTicket)
			tickets.GET("/:id", loadTicket, ticketHandler.GetTicket)
			tickets.PUT("/:id", loadTicket, ticketHandler.UpdateTicket)
			tickets.DELETE("/:id", loadTicket, ticketHandler.DeleteTicket)
			tickets.GET("/:id/history", loadTicket, ticketHandler.GetHistory)
			tickets.GET("/:id/comments", loadTicket, commentHandler.ListComments)
			tickets.POST("/:id/comments", loadTicket, commentHandler.CreateComment)
		}

		protected.DELETE("/comments/:id", commentHandler.DeleteComment)

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread", notificationHandler.ListUnread)
			notifications.POST("/mark-read/:id", notificationHandler.MarkRead)
			notifications.POST("/mark-all-read", notificationHandler.MarkAllRead)
			notifications.DELETE("/:id", notificationHandler.DeleteNotification)
		}

		protected.GET("/stats", statsHandler.GetStats)
	}

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and releases the store and redis.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.close()
	return err
}

func (s *Server) close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.Warn("failed to close redis client", "error", err)
		}
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
