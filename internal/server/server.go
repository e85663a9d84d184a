package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"anoa.com/assignmenthub/internal/config"
	"anoa.com/assignmenthub/internal/entity"
	"anoa.com/assignmenthub/internal/middleware"
	"anoa.com/assignmenthub/pkg/clock"
	"anoa.com/assignmenthub/pkg/database"
	"anoa.com/assignmenthub/pkg/logger"
	"anoa.com/assignmenthub/pkg/password"
	"anoa.com/assignmenthub/pkg/ratelimiter"
	"anoa.com/assignmenthub/pkg/response"
	"anoa.com/assignmenthub/pkg/storage"
	"anoa.com/assignmenthub/pkg/token"

	assignmentHttp "anoa.com/assignmenthub/internal/modules/assignment/delivery/http"
	assignmentRepo "anoa.com/assignmenthub/internal/modules/assignment/repository"
	assignmentService "anoa.com/assignmenthub/internal/modules/assignment/service"

	notiHttp "anoa.com/assignmenthub/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/assignmenthub/internal/modules/notification/repository"
	notifService "anoa.com/assignmenthub/internal/modules/notification/service"

	searchService "anoa.com/assignmenthub/internal/modules/search/service"

	statHttp "anoa.com/assignmenthub/internal/modules/stat/delivery/http"
	statService "anoa.com/assignmenthub/internal/modules/stat/service"

	submissionHttp "anoa.com/assignmenthub/internal/modules/submission/delivery/http"
	submissionRepo "anoa.com/assignmenthub/internal/modules/submission/repository"
	submissionService "anoa.com/assignmenthub/internal/modules/submission/service"

	userHttp "anoa.com/assignmenthub/internal/modules/user/delivery/http"
	userRepo "anoa.com/assignmenthub/internal/modules/user/repository"
	userService "anoa.com/assignmenthub/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies is everything the HTTP layer is built from. DB, Redis and
// Index are optional.
type Dependencies struct {
	Config *config.Config

	DB    *gorm.DB
	Redis *redis.Client

	Users         userRepo.UserRepository
	Assignments   assignmentRepo.AssignmentRepository
	Submissions   submissionRepo.SubmissionRepository
	Notifications notifRepo.NotificationRepository

	Storage storage.FileStorage
	Index   searchService.AssignmentIndex
	Tokens  *token.Manager
	Hasher  *password.Hasher
	Clock   clock.Clock
}

// GormRepositories fills the repository fields of deps from db.
func GormRepositories(deps *Dependencies, db *gorm.DB) {
	deps.DB = db
	deps.Users = userRepo.NewUserRepository(db)
	deps.Assignments = assignmentRepo.NewAssignmentRepository(db)
	deps.Submissions = submissionRepo.NewSubmissionRepository(db)
	deps.Notifications = notifRepo.NewNotificationRepository(db)
}

type Server struct {
	engine  *gin.Engine
	cleanup *submissionService.CleanupJob
}

func NewServer(deps Dependencies) *Server {
	cfg := deps.Config

	authSvc := userService.NewAuthService(deps.Users, deps.Hasher, deps.Tokens)
	authHandler := userHttp.NewAuthHandler(authSvc)

	assignmentSvc := assignmentService.NewService(deps.Assignments, deps.Index)
	assignmentHandler := assignmentHttp.NewAssignmentHandler(assignmentSvc)

	// Notification Module
	notificationSvc := notifService.NewNotificationService(deps.Notifications, deps.Redis)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, deps.Redis, splitOrigins(cfg.AllowedOrigins))

	submissionSvc := submissionService.NewService(deps.Submissions, deps.Assignments, deps.Storage, submissionService.Options{
		Limiter:       ratelimiter.New(deps.Redis),
		Notifications: notificationSvc,
		Clock:         deps.Clock,
		RateWindow:    cfg.RateLimitSubmission,
	})
	submissionHandler := submissionHttp.NewSubmissionHandler(submissionSvc, cfg.MaxUploadSize)

	statSvc := statService.NewStatService(deps.Users, deps.Assignments, deps.Submissions)
	statHandler := statHttp.NewStatHandler(statSvc)

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	setupCORS(router, splitOrigins(cfg.AllowedOrigins))

	router.Use(response.RequestID())
	router.Use(logger.GinLogger("/health"))
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the assignment hub API"})
	})
	router.GET("/health", healthHandler(deps.DB))

	if cfg.StorageDriver == "local" {
		router.Static("/uploads", cfg.UploadDir)
	}

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	api := router.Group("/api")

	// Public routes (no auth required)
	api.POST("/users", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/login/token", authHandler.Login)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/users/me", authHandler.Me)
		protected.GET("/users/count", statHandler.GetTotalUsers)

		// Assignment routes
		protected.POST("/assignments", authMiddleware.RequireRole(entity.RoleLecturer), assignmentHandler.CreateAssignment)
		protected.GET("/assignments", assignmentHandler.ListAssignments)
		protected.GET("/assignments/search", assignmentHandler.SearchAssignments)
		protected.GET("/assignments/:assignment_id", assignmentHandler.GetAssignment)
		protected.GET("/assignments/:assignment_id/stats", statHandler.GetAssignmentStats)

		// Submission routes
		protected.POST("/submissions/:assignment_id", authMiddleware.RequireRole(entity.RoleStudent), submissionHandler.Submit)
		protected.GET("/submissions/assignment/:assignment_id", submissionHandler.ListForAssignment)
		protected.GET("/submissions/me/:assignment_id", submissionHandler.GetMine)
		protected.PUT("/submissions/:submission_id/grade", submissionHandler.Grade)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:  router,
		cleanup: submissionService.NewCleanupJob(deps.Submissions, deps.Storage, cfg.CleanupSchedule),
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// CleanupJob is the background job removing replaced uploads.
func (s *Server) CleanupJob() *submissionService.CleanupJob {
	return s.cleanup
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests
// for up to shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.WithField("addr", addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("could not stop server gracefully")
		return srv.Close()
	}
	return nil
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			if err := database.Ping(db); err != nil {
				logger.Log.WithError(err).Warn("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
