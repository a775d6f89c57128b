package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"projects-system/api"
	"projects-system/config"
	"projects-system/database"
	"projects-system/logger"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load(config.DefaultPrefix)
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(cfg.Primary.Env, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("attempting to connect to database...")
	factory, err := database.New(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect")
	}
	defer factory.Close()

	service := api.NewAPI(factory, log)
	service.RegisterRoutes()

	srv := newServer(cfg.Server, service.Handler())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server stopped")
	}
}

func newServer(cfg config.ServerConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         net.JoinHostPort("", cfg.Port),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
