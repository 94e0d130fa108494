package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/leyenda/storefront/internal/api"
	"github.com/leyenda/storefront/internal/session"
	"github.com/leyenda/storefront/pkg/config"
	"github.com/leyenda/storefront/pkg/db"
	"github.com/leyenda/storefront/pkg/logger"
	"github.com/leyenda/storefront/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	dbCfg, _ := db.LoadPostgresConfig()
	conn, err := db.NewPostgresConnection(dbCfg)
	if err != nil {
		log.Error("db connect", slog.Any("err", err))
		os.Exit(1)
	}
	defer conn.Close()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	sessions := session.NewStore(cfg.SessionTTL)
	go sessions.Sweep(ctx, 5*time.Minute)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(conn, sessions, cfg, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown", slog.Any("err", err))
		}
	}()

	log.Info("storefront starting", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("listen", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("server stopped")
}
