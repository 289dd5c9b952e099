package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nkarpovich/duet-backend/internal/config"
	s3infra "github.com/nkarpovich/duet-backend/internal/infra/s3"
	"github.com/nkarpovich/duet-backend/internal/jobs/cleanup"
	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
	redrepo "github.com/nkarpovich/duet-backend/internal/repo/redis"
	authsvc "github.com/nkarpovich/duet-backend/internal/services/auth"
	feedsvc "github.com/nkarpovich/duet-backend/internal/services/feed"
	interactionssvc "github.com/nkarpovich/duet-backend/internal/services/interactions"
	matchessvc "github.com/nkarpovich/duet-backend/internal/services/matches"
	mediasvc "github.com/nkarpovich/duet-backend/internal/services/media"
	messagessvc "github.com/nkarpovich/duet-backend/internal/services/messages"
	profilessvc "github.com/nkarpovich/duet-backend/internal/services/profiles"
	ratesvc "github.com/nkarpovich/duet-backend/internal/services/rate"
	userssvc "github.com/nkarpovich/duet-backend/internal/services/users"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
	cleanupJob *cleanup.Job
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, cfg, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	statsRepo := redrepo.NewStatsRepo(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	interactionRepo := pgrepo.NewInteractionRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)
	photoRepo := pgrepo.NewPhotoRepo(pool)
	feedRepo := pgrepo.NewFeedRepo(pool)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, cfg.Auth.RefreshTTL)
	userService := userssvc.NewService(pool, userRepo, profileRepo)

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	mediaService := mediasvc.NewService(photoRepo, profileRepo, mediaStorage, mediasvc.Options{
		MaxSizeBytes: cfg.Upload.MaxSizeBytes,
		AllowedMIME:  cfg.Upload.AllowedMIME,
		MaxBatch:     cfg.Upload.MaxBatch,
	})

	profileService := profilessvc.NewService(profileRepo, mediaStorage)
	feedService := feedsvc.NewService(feedRepo, mediaStorage, feedsvc.Options{
		ExcludeInteracted: cfg.Feed.ExcludeInteracted,
		DefaultLimit:      cfg.Feed.DefaultLimit,
		MaxLimit:          cfg.Feed.MaxLimit,
	})
	interactionService := interactionssvc.NewService(interactionRepo, matchRepo, profileRepo, statsRepo, log)
	matchService := matchessvc.NewService(matchRepo)
	messageService := messagessvc.NewService(messageRepo, matchRepo)
	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Rate.Window, cfg.Rate.Ceiling)
	cleanupJob := cleanup.New(photoRepo, mediaStorage, cfg.Cleanup.PhotoRetention, log)

	RegisterRoutes(r, Dependencies{
		AuthService:        authService,
		UserService:        userService,
		ProfileService:     profileService,
		FeedService:        feedService,
		InteractionService: interactionService,
		MatchService:       matchService,
		MessageService:     messageService,
		MediaService:       mediaService,
		RateLimiter:        rateLimiter,
		Logger:             log,
		Config:             cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
		cleanupJob: cleanupJob,
	}, nil
}

// RunCleanup drives the photo retention sweep until ctx is cancelled.
func (a *App) RunCleanup(ctx context.Context) {
	a.cleanupJob.RunLoop(ctx, a.cfg.Cleanup.Interval)
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
