package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"multiuser_blog/internal/config"
	"multiuser_blog/internal/feed"
	"multiuser_blog/internal/handlers"
	"multiuser_blog/internal/logger"
	"multiuser_blog/internal/repository"
	"multiuser_blog/internal/repository/db"
	"multiuser_blog/internal/server"
	"multiuser_blog/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
)

const shutdownTimeout = 10 * time.Second

func main() {
	fs := config.Flags(os.Args[0])
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		logger.Get(logger.InfoLevel, logger.ConsoleFormat).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	// open DB
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer closeDB(conn, log)

	sessions, rdb := openSessionStore(cfg, log)
	if rdb != nil {
		defer func() {
			if cerr := rdb.Close(); cerr != nil {
				log.Errorw("failed to close redis", "err", cerr)
			}
		}()
	}

	// wire dependencies
	hub := feed.NewHub(feed.DefaultBuffer)
	repos := repository.NewRepository(conn, sessions)
	services := service.NewService(repos, hub, log, service.Options{
		Secret:     cfg.Session.Secret,
		SessionTTL: cfg.Session.TTL,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	cookies := handlers.NewCookieHelper(handlers.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.SecureCookie,
		MaxAge: cfg.Session.TTL,
	})
	apiHandler := handlers.NewHandler(services, hub, cookies, log)

	// start HTTP server
	srv := server.New(cfg.Port, apiHandler.InitRoutes())
	go func() {
		log.Infow("server_started", "addr", srv.Addr(), "session_store", cfg.Session.Store)
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()

	waitForShutdown(srv, log)
}

// openSessionStore returns the configured session store. A nil store selects SQLite.
func openSessionStore(cfg *config.Config, log *logger.Logger) (repository.SessionStore, *redis.Client) {
	if cfg.Session.Store != config.StoreRedis {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := repository.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalw("failed to connect to redis", "addr", cfg.Redis.Addr, "err", err)
	}
	return repository.NewSessionRedis(client), client
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
