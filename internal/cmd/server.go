package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	_ "github.com/PauloHFS/inkpress/docs"
	"github.com/PauloHFS/inkpress/internal/config"
	"github.com/PauloHFS/inkpress/internal/db"
	"github.com/PauloHFS/inkpress/internal/logging"
	"github.com/PauloHFS/inkpress/internal/middleware"
	"github.com/PauloHFS/inkpress/internal/routes"
	"github.com/PauloHFS/inkpress/internal/services"
	"github.com/PauloHFS/inkpress/internal/telemetry"
	"github.com/PauloHFS/inkpress/internal/token"
	"github.com/PauloHFS/inkpress/internal/web"
)

// @title Inkpress API
// @version 1.0
// @description Content management API with role-based authorization and draft visibility.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func RunServer() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	logging.Init(cfg.LogLevel)
	logger := logging.Get()

	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.TracingExporter)
	if err != nil {
		logger.Error("failed to set up tracing", "error", err)
		panic(err)
	}

	pool, err := db.NewDualPool(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		panic(err)
	}
	defer pool.Close()

	if err := db.RunMigrations(context.Background(), pool.Write); err != nil {
		logger.Error("failed to run migrations", "error", err)
		panic(err)
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	users := services.NewUserService(pool, cfg.ActorCacheSize, cfg.ActorCacheTTL)

	limiterCtx, cancelLimiters := context.WithCancel(context.Background())
	defer cancelLimiters()

	globalLimiter := middleware.NewRateLimiter(rate.Limit(20), 40)
	loginLimiter := middleware.NewRateLimiter(rate.Every(6*time.Second), 5)
	go globalLimiter.Cleanup(limiterCtx)
	go loginLimiter.Cleanup(limiterCtx)

	mux := http.NewServeMux()
	mux.Handle("GET "+routes.Metrics, promhttp.Handler())
	mux.Handle("GET "+routes.Swagger, httpSwagger.WrapHandler)

	web.RegisterRoutes(mux, web.HandlerDeps{
		Pool:         pool,
		Content:      services.NewContentService(pool, users),
		Users:        users,
		Auth:         services.NewAuthService(pool, tokens),
		Config:       cfg,
		LoginLimiter: loginLimiter,
	})

	handler := middleware.Logger(
		middleware.Recovery(
			middleware.SecurityHeaders(cfg.IsProd())(
				middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSAllowedOrigins))(
					globalLimiter.Handler(
						middleware.Authenticate(tokens, users)(middleware.Routed(mux)),
					),
				),
			),
		),
	)

	compressedHandler := gzhttp.GzipHandler(handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           compressedHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server started", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("server stopping")

	cancelLimiters()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}

	logger.Info("server exited properly")
}
