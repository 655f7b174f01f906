package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/threadsage/threadsage/internal/config"
	dbRedis "github.com/threadsage/threadsage/internal/db/redis"
	"github.com/threadsage/threadsage/internal/domain"
	logpkg "github.com/threadsage/threadsage/internal/logger"
	"github.com/threadsage/threadsage/internal/metrics"
	"github.com/threadsage/threadsage/internal/repository/anscache"
	"github.com/threadsage/threadsage/internal/repository/veccache"
	chiTransport "github.com/threadsage/threadsage/internal/transport/chi"
	"github.com/threadsage/threadsage/internal/transport/reddit"
	answeruc "github.com/threadsage/threadsage/internal/usecase/answer"
	generateuc "github.com/threadsage/threadsage/internal/usecase/generate"
	healthuc "github.com/threadsage/threadsage/internal/usecase/health"
	"github.com/threadsage/threadsage/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting threadsage API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("llm_provider", cfg.LLM.Provider),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache store not ready", zap.Error(err))
	}
	logger.Info("Connected to cache store")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Generative provider behind a circuit breaker — composition root
	provider, err := generateuc.NewProvider(cfg.LLM, logger)
	if err != nil {
		logger.Fatal("Failed to create generative provider", zap.Error(err))
	}
	generator := generateuc.NewBreaker(provider, generateuc.BreakerConfig{
		Name:   cfg.LLM.Provider,
		Logger: logger,
	})

	vectorCache := veccache.New(store,
		time.Duration(cfg.Cache.VectorTTLHours)*time.Hour,
		metrics.VectorCacheTotal, logger)
	answerCache := anscache.New(store,
		time.Duration(cfg.Cache.AnswerTTLMin)*time.Minute,
		metrics.AnswerCacheTotal, logger)

	forum := reddit.NewClient(reddit.Config{
		BaseURL:     cfg.Reddit.BaseURL,
		UserAgent:   cfg.Reddit.UserAgent,
		MaxPosts:    cfg.Reddit.MaxPosts,
		Timeout:     time.Duration(cfg.Reddit.RequestTimeoutSec) * time.Second,
		BackupDelay: time.Duration(cfg.Reddit.BackupDelayMs) * time.Millisecond,
		Logger:      logger,
	})

	answerSvc := answeruc.New(
		&policyForum{client: forum, policy: reddit.ParseRankPolicy(cfg.Search.RankPolicy)},
		generator, vectorCache, answerCache,
		answeruc.Config{
			BroadLimit:   cfg.Search.BroadLimit,
			FocusedLimit: cfg.Search.FocusedLimit,
			ContextTopK:  cfg.Search.ContextTopK,
			ExcerptChars: cfg.Search.ExcerptChars,
			PacingDelay:  time.Duration(cfg.Reddit.RateLimitDelayMs) * time.Millisecond,
		},
		logger,
	)

	healthSvc := healthuc.New(store, generationChecker(provider))

	server := chiTransport.NewServer(answerSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)
	r.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// policyForum binds the configured rank policy to the forum client so the
// orchestrator stays free of ranking concerns.
type policyForum struct {
	client *reddit.Client
	policy reddit.RankPolicy
}

func (f *policyForum) FindPosts(ctx context.Context, query, community string, limit int) []domain.Post {
	return f.client.FindPosts(ctx, query, community, limit, f.policy)
}

// generationChecker returns the provider as a health checker when it
// exposes one. Only the openai-compatible client has a free probe.
func generationChecker(provider generateuc.Generator) healthuc.GenerationChecker {
	if hc, ok := provider.(healthuc.GenerationChecker); ok {
		return hc
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": domain.MsgInternalError,
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
			)
		})
	}
}
