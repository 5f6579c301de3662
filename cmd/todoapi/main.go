package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/amirhosseinghanipour/todorpc/internal/config"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/auth"
	httprouter "github.com/amirhosseinghanipour/todorpc/internal/infrastructure/http"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/persistence/memory"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/persistence/migrations"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/persistence/postgres"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/queue"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/rpc"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := newLogger(cfg)
	ctx := context.Background()

	var (
		todoRepo ports.TodoRepository
		store    handlers.Pinger
	)
	switch cfg.Database.Driver {
	case config.StoreDriverMemory:
		repo := memory.NewTodoRepository()
		todoRepo, store = repo, repo
		log.Warn().Msg("using in-memory store; data is lost on restart")
	default:
		if cfg.Database.AutoMigrate {
			if err := migrations.Up(cfg.Database.URL, log); err != nil {
				log.Fatal().Err(err).Msg("apply migrations")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.Database.URL, cfg.IsProduction(), log)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to database")
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("ping database")
		}
		todoRepo, store = postgres.NewTodoRepository(pool), pool
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	var emitter ports.WebhookEmitter = webhook.NewNoopEmitter()
	if cfg.Webhook.URL != "" {
		emitter = webhook.NewHTTPEmitter(cfg.Webhook.URL, webhook.WithSigningSecret(cfg.Webhook.Secret))
	}

	var events ports.TaskEnqueuer
	var asynqWorker *queue.Worker
	if redisClient != nil {
		redisOpt, _ := redis.ParseURL(cfg.Redis.URL)
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
		asynqEnq, err := queue.NewAsynqEnqueuer(asynqOpt, log)
		if err != nil {
			log.Fatal().Err(err).Msg("create asynq enqueuer")
		}
		defer asynqEnq.Close()
		events = asynqEnq
		asynqWorker = queue.NewWorker(asynqOpt, emitter, log)
		go func() {
			if err := asynqWorker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		events = queue.NewNoopEnqueuer()
	}

	var resolver ports.IdentityResolver = auth.NewNoopResolver()
	if cfg.Supabase.JWTSecret != "" {
		resolver = auth.NewJWTResolver(cfg.Supabase.JWTSecret, cfg.SupabaseIssuer(), cfg.Supabase.JWTAudience)
	} else {
		log.Warn().Msg("SUPABASE_JWT_SECRET not set; every todo procedure will answer UNAUTHORIZED")
	}

	rpcServer, err := rpc.NewServer(rpc.ServerConfig{
		Todos:             todoRepo,
		Events:            events,
		Log:               log,
		ExposeErrorDetail: !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("register rpc services")
	}

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	userLimit, err := middleware.NewUserRateLimiter(cfg.RateLimit.RatePerUser)
	if err != nil {
		log.Fatal().Err(err).Msg("create user rate limiter")
	}

	router := httprouter.NewRouter(httprouter.RouterConfig{
		RPC:           rpcServer,
		Identity:      middleware.NewIdentity(resolver, log),
		HealthHandler: handlers.NewHealthHandler(store, redisClient),
		Log:           log,
		Version:       cfg.Server.APIVersion,
		CORSOrigins:   cfg.CORS.AllowedOrigins,
		Secure:        middleware.NewSecure(middleware.SecureOptions(!cfg.IsProduction())),
		IPRateLimit:   ipLimit,
		UserRateLimit: userLimit,
		Metrics:       true,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Str("store", cfg.Database.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
	log.Info().Msg("server stopped")
}

// newLogger writes JSON in production and human-readable output elsewhere.
func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsProduction() {
		return zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
