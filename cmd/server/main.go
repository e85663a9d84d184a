package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"anoa.com/assignmenthub/internal/bootstrap"
	"anoa.com/assignmenthub/internal/config"
	searchService "anoa.com/assignmenthub/internal/modules/search/service"
	"anoa.com/assignmenthub/internal/scheduler"
	"anoa.com/assignmenthub/internal/server"
	"anoa.com/assignmenthub/pkg/cache"
	"anoa.com/assignmenthub/pkg/clock"
	"anoa.com/assignmenthub/pkg/database"
	"anoa.com/assignmenthub/pkg/logger"
	"anoa.com/assignmenthub/pkg/password"
	"anoa.com/assignmenthub/pkg/storage"
	"anoa.com/assignmenthub/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load config")
	}

	logger.Setup(cfg.AppEnv, cfg.LogLevel)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.UsesDevelopmentSecret() {
		logger.Log.Warn("JWT_SECRET is not set, tokens are signed with the public development secret; set JWT_SECRET and APP_ENV=production before exposing this server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DSN(), cfg.IsDevelopment())
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect database")
	}
	if err := bootstrap.Migrate(db); err != nil {
		logger.Log.WithError(err).Fatal("migration failed")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Log.WithError(err).Warn("redis unavailable, rate limiting and live notifications are disabled")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	tokens, err := token.NewManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to initialize token manager")
	}

	fileStorage, err := newFileStorage(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to initialize file storage")
	}

	deps := server.Dependencies{
		Config:  cfg,
		Redis:   redisClient,
		Storage: fileStorage,
		Index:   newSearchIndex(cfg),
		Tokens:  tokens,
		Hasher:  password.NewHasher(cfg.BcryptCost),
		Clock:   clock.System(),
	}
	server.GormRepositories(&deps, db)

	if cfg.IsDevelopment() {
		if err := bootstrap.SeedDevelopmentLecturer(ctx, deps.Users, deps.Hasher); err != nil {
			logger.Log.WithError(err).Fatal("failed to seed development lecturer")
		}
	}

	srv := server.NewServer(deps)

	jobs := scheduler.New(10 * time.Minute)
	if err := jobs.Register(srv.CleanupJob()); err != nil {
		logger.Log.WithError(err).Fatal("failed to schedule cleanup job")
	}
	jobs.Start()
	defer jobs.Stop()

	if err := srv.Run(ctx, ":"+cfg.Port, 15*time.Second); err != nil {
		logger.Log.WithError(err).Fatal("server exited with error")
	}
}

func newFileStorage(cfg *config.Config) (storage.FileStorage, error) {
	if cfg.StorageDriver == "cloudinary" {
		return storage.NewCloudinaryStorage(cfg.CloudinaryUploadFolder)
	}
	return storage.NewLocalStorage(cfg.UploadDir)
}

// newSearchIndex returns nil when Meilisearch is not configured; assignment
// search then runs against the database.
func newSearchIndex(cfg *config.Config) searchService.AssignmentIndex {
	host := cfg.MeiliSearchHost
	if host == "" {
		return nil
	}
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host + ":7700"
	}

	client := meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	if !client.IsHealthy() {
		logger.Log.WithField("host", host).Warn("meilisearch is unreachable, using database search")
		return nil
	}
	return searchService.NewMeiliSearchService(client)
}
