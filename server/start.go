package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-service/auth"
	cachepackage "task-service/cache"
	"task-service/config"
	"task-service/database"
	"task-service/handlers"
	"task-service/notify"
	"task-service/repository"
	"task-service/service"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Build wires services and handlers over dbConn and returns the routed server.
// notifier and avatars may be nil.
func Build(cfg *config.Config, dbConn *sqlx.DB, notifier service.Notifier, avatars service.AvatarCache) *Server {
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	gate := auth.NewGate(tokens, repository.NewUserRepository(dbConn))

	users := service.NewUsers(dbConn, tokens, auth.NewHasher(cfg.BcryptCost), notifier, avatars)
	tasks := service.NewTasks(dbConn)

	s := New(gate, cfg.Maintenance)
	RegisterRoutes(s, handlers.NewUserHandler(users), handlers.NewTaskHandler(tasks))
	return s
}

func StartServer(cfg *config.Config) {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting Task Service...")

	// Initialize database
	dbConn := database.InitializeDatabase(cfg)
	defer dbConn.Close()

	// Initialize cache; nil when disabled
	var avatars service.AvatarCache
	if backend := cachepackage.InitializeCache(cfg.Cache); backend != nil {
		defer backend.Close()
		avatars = cachepackage.NewAvatarCache(backend, cfg.Cache.AvatarTTL)
	}

	// Initialize mail
	mailer := notify.InitializeMailer(cfg)
	if closer, ok := mailer.(io.Closer); ok {
		defer closer.Close()
	}
	dispatcher := notify.NewDispatcher(mailer, cfg.Mail.SendTimeout)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           Build(cfg, dbConn, dispatcher, avatars),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Maintenance {
		logger.Info("Maintenance mode enabled, every request answers 503")
	}
	logger.Info("Task Service started on port " + cfg.Port)
	logger.Info("Health check: GET /health")
	logger.Info("API endpoints: /users, /users/profile, /users/profile/avatar, /tasks")

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", zap.Error(err))
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	// let queued account emails finish before the mailer is closed
	dispatcher.Wait()
	logger.Info("Task Service stopped")
}
