package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"volunteer-api/auth"
	"volunteer-api/config"
	"volunteer-api/db"
	"volunteer-api/handlers"
	"volunteer-api/metrics"
	"volunteer-api/models"
	"volunteer-api/notify"
	"volunteer-api/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Flags override the loaded configuration
	dsn := flag.String("dsn", cfg.Database.DSN, "SQLite DSN")
	addr := flag.String("addr", cfg.Addr(), "Server address")
	issueToken := flag.String("issue-token", "", "Print a bearer token for id:role[:email] and exit")
	flag.Parse()

	if *issueToken != "" {
		token, err := mintToken(cfg, *issueToken)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := db.NewDB(*dsn)
	if err != nil {
		logger.Fatal("Failed to connect to db", zap.Error(err))
	}

	// Short timeout so a locked database file cannot hang boot
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.InitSchema(ctx); err != nil {
		logger.Fatal("Failed to initialize schema", zap.Error(err))
	}
	logger.Info("Database schema initialized")

	var publisher notify.Publisher = notify.Nop{}
	if cfg.Redis.URL != "" {
		rp, err := notify.NewRedisPublisher(ctx, cfg.Redis.URL, cfg.Redis.Channel, logger)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer rp.Close()
		publisher = rp
		logger.Info("Publishing domain events", zap.String("channel", cfg.Redis.Channel))
	}

	m := metrics.New()
	svc := service.New(store, publisher, m, logger)
	h := handlers.New(svc, auth.NewVerifier(cfg.JWT.Secret), store, logger)

	router, err := handlers.NewRouter(h, m, handlers.RouterOptions{
		RateLimit:      cfg.RateLimit.Requests,
		RateWindow:     cfg.RateLimit.Window,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
	})
	if err != nil {
		logger.Fatal("Failed to build router", zap.Error(err))
	}

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", *addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 5 seconds to finish in-flight requests
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close DB connection last
	if err := store.Close(); err != nil {
		logger.Error("Failed to close db", zap.Error(err))
	}

	logger.Info("Server exited cleanly")
}

// mintToken signs a credential for local tooling. arg is id:role with an
// optional :email suffix.
func mintToken(cfg *config.Config, arg string) (string, error) {
	parts := strings.SplitN(arg, ":", 3)
	if len(parts) < 2 {
		return "", fmt.Errorf("issue-token: want id:role[:email], got %q", arg)
	}
	caller := auth.Caller{ID: parts[0], Role: models.Role(parts[1])}
	if !caller.Role.Valid() {
		return "", fmt.Errorf("issue-token: unknown role %q", parts[1])
	}
	if len(parts) == 3 {
		caller.Email = parts[2]
	}
	return auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.Expiration).Issue(caller)
}

func initLogger(level string) *zap.Logger {
	var logLevel zapcore.Level
	switch level {
	case "debug":
		logLevel = zap.DebugLevel
	case "warn":
		logLevel = zap.WarnLevel
	case "error":
		logLevel = zap.ErrorLevel
	default:
		logLevel = zap.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(logLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	return logger
}
