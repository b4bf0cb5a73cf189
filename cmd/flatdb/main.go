package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/flatdb/internal/config"
	"github.com/kailas-cloud/flatdb/internal/db"
	dbJSONFile "github.com/kailas-cloud/flatdb/internal/db/jsonfile"
	dbMemory "github.com/kailas-cloud/flatdb/internal/db/memory"
	dbRedis "github.com/kailas-cloud/flatdb/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/flatdb/internal/db/sqlite"
	logpkg "github.com/kailas-cloud/flatdb/internal/logger"
	"github.com/kailas-cloud/flatdb/internal/metrics"
	recordrepo "github.com/kailas-cloud/flatdb/internal/repository/record"
	chiTransport "github.com/kailas-cloud/flatdb/internal/transport/chi"
	healthuc "github.com/kailas-cloud/flatdb/internal/usecase/health"
	useruc "github.com/kailas-cloud/flatdb/internal/usecase/user"
	"github.com/kailas-cloud/flatdb/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting flatdb API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("addr", cfg.HTTP.Addr()),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("users_collection", cfg.Users.Collection),
	)

	store, err := openStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterStoreMetrics()

	records := recordrepo.New(store)
	userSvc := useruc.New(records, cfg.Users.Collection, cfg.Users.DefaultPageSize)
	healthSvc := healthuc.New(store, records, cfg.Users.Collection)

	var limiter *chiTransport.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = chiTransport.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		limiter.StartJanitor(ctx)
	}

	server := chiTransport.NewServer(userSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.RateLimitMiddleware(limiter))
	r.Use(metrics.Middleware())
	chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.BadParamHandler,
	})

	srv := newHTTPServer(ctx, cfg.HTTP, r)

	// Bind before serving so a taken port fails the process immediately.
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		logger.Fatal("Failed to bind listener", zap.String("addr", srv.Addr), zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		store.Close()
		_ = logger.Sync()
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}

// newHTTPServer builds the server. Request contexts keep ctx's values but not
// its cancellation; in-flight requests are drained by srv.Shutdown.
func newHTTPServer(ctx context.Context, cfg config.HTTPConfig, h http.Handler) *http.Server {
	base := context.WithoutCancel(ctx)
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
		BaseContext:  func(net.Listener) context.Context { return base },
	}
}

// openStore creates the collection backend selected by cfg.Driver.
func openStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverJSONFile:
		return dbJSONFile.NewStore(dbJSONFile.Config{Dir: cfg.DataDir})
	case config.DriverSQLite:
		return dbSQLite.NewStore(dbSQLite.Config{Path: cfg.SQLitePath})
	case config.DriverRedis:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: cfg.KeyPrefix,
		})
	case config.DriverMemory:
		return dbMemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
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
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
