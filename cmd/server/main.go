package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/Jaganravi131/DesignSync/internal/adapters/http"
	"github.com/Jaganravi131/DesignSync/internal/collab"
	"github.com/Jaganravi131/DesignSync/internal/config"
	"github.com/Jaganravi131/DesignSync/internal/presence"
	"github.com/Jaganravi131/DesignSync/internal/store"
	"github.com/Jaganravi131/DesignSync/internal/store/memory"
	storemongo "github.com/Jaganravi131/DesignSync/internal/store/mongo"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Durable backend when a Mongo URI is configured, volatile fallback
	// otherwise. The collaboration layer never learns which one it got.
	var st store.Store
	var mongoStore *storemongo.Store
	if cfg.MongoURI != "" {
		mongoStore, err = storemongo.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to set up mongo store")
		}
		st = mongoStore
	} else {
		log.Warn().Msg("⚠️ no mongo_uri configured - running on the in-memory store")
		st = memory.New()
	}

	mode := presence.SingleSession
	if !cfg.Collab.SingleSession {
		mode = presence.MultiSession
	}
	registry := presence.NewRegistry(mode)
	bridge := collab.NewBridge(st, st, cfg.Store.Timeout)
	controller := collab.NewController(cfg, registry, bridge)

	r := router.SetupRouter(ctx, cfg, st, controller)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Bool("durable", cfg.MongoURI != "").Msg("🚀 DesignSync server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if mongoStore != nil {
		if err := mongoStore.Close(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}
	log.Info().Msg("Server exited gracefully")
}
