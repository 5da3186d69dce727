package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"go-vidtube/internal/config"
	"go-vidtube/internal/database"
	"go-vidtube/internal/handler"
	"go-vidtube/internal/media"
	"go-vidtube/internal/middleware"
	"go-vidtube/internal/repository"
	"go-vidtube/internal/router"
	"go-vidtube/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, database.PoolSettings{
		MaxConns:            cfg.DBMaxConns,
		MinConns:            cfg.DBMinConns,
		MaxConnLifetime:     cfg.DBMaxConnLifetime,
		MaxConnIdleTime:     cfg.DBMaxConnIdleTime,
		HealthCheckInterval: cfg.DBHealthCheckInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	cleanup := []func(){db.Close}
	fail := func(err error) (*App, error) {
		runCleanup(cleanup)
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		return fail(fmt.Errorf("failed to migrate database: %w", err))
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	videoRepo := repository.NewVideoRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	tweetRepo := repository.NewTweetRepository(pool)
	likeRepo := repository.NewLikeRepository(pool)
	playlistRepo := repository.NewPlaylistRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)
	slog.Info("database ready")

	store, mediaRoot, err := newObjectStore(ctx, cfg)
	if err != nil {
		return fail(fmt.Errorf("failed to initialize media store: %w", err))
	}
	uploader := media.NewUploader(store)

	tokens := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	authService := service.NewAuthService(userRepo, tokens, uploader)
	userService := service.NewUserService(userRepo, videoRepo, subscriptionRepo, uploader)
	videoService := service.NewVideoService(videoRepo, userRepo, uploader)
	commentService := service.NewCommentService(commentRepo, videoRepo)
	likeService := service.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo)
	tweetService := service.NewTweetService(tweetRepo, userRepo)
	playlistService := service.NewPlaylistService(playlistRepo, videoRepo, userRepo, uploader)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo)
	dashboardService := service.NewDashboardService(dashboardRepo, subscriptionRepo, videoRepo, userRepo)

	uploads := handler.NewUploads(cfg.UploadTempDir, cfg.MaxUploadSize)
	cookies := handler.NewSessionCookies(cfg.CookieSecure, tokens.AccessTTL(), tokens.RefreshTTL())

	opts := router.Options{
		Metrics:   middleware.NewMetrics(),
		MediaRoot: mediaRoot,
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		cleanup = append(cleanup, func() { _ = client.Close() })

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			slog.Warn("redis unavailable, auth rate limit falls back to local buckets", "addr", cfg.RedisAddr, "error", err)
		}
		opts.SharedLimiter = middleware.NewRedisLimiter(client, cfg.AuthRateLimitRPM, time.Minute)
	}

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		User:         handler.NewUserHandler(authService, userService, uploads, cookies),
		Video:        handler.NewVideoHandler(videoService, uploads),
		Comment:      handler.NewCommentHandler(commentService),
		Like:         handler.NewLikeHandler(likeService),
		Tweet:        handler.NewTweetHandler(tweetService),
		Playlist:     handler.NewPlaylistHandler(playlistService, uploads),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		Health:       handler.NewHealthHandler(db),
	}, opts)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server, cleanupFuncs: cleanup}, nil
}

// newObjectStore picks the media backend. The returned root is non-empty only
// for the local backend, whose files the server also serves.
func newObjectStore(ctx context.Context, cfg *config.Config) (media.ObjectStore, string, error) {
	switch cfg.MediaBackend {
	case config.MediaBackendS3:
		store, err := media.NewS3Store(ctx, media.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, "", err
		}
		slog.Info("media backend ready", "backend", "s3", "bucket", cfg.S3Bucket)
		return store, "", nil
	default:
		store, err := media.NewLocalStore(cfg.MediaLocalRoot, cfg.MediaPublicURL)
		if err != nil {
			return nil, "", err
		}
		slog.Info("media backend ready", "backend", "local", "root", store.Root())
		return store, store.Root(), nil
	}
}

func runCleanup(funcs []func()) {
	for i := len(funcs) - 1; i >= 0; i-- {
		funcs[i]()
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)
	runCleanup(a.cleanupFuncs)

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
