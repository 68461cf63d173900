package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leadgate/leadgate/internal/config"
	"github.com/leadgate/leadgate/internal/domain"
	"github.com/leadgate/leadgate/internal/infrastructure/geoip"
	"github.com/leadgate/leadgate/internal/infrastructure/supabase"
	"github.com/leadgate/leadgate/internal/pkg/logger"
	"github.com/leadgate/leadgate/internal/service"
	"github.com/leadgate/leadgate/internal/transport/rest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	logFormat := "json"
	if cfg.AppEnv == "dev" {
		logFormat = "console"
	}
	logger.Init(cfg.LogLevel, logFormat)
	log := logger.Log.With().
		Str("service", "leadgate").
		Str("env", cfg.AppEnv).
		Logger()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Storage collaborator ----
	// Missing credentials are not fatal: the submission endpoint answers 500
	// "server not configured" per request instead.
	var store domain.LeadStore
	if cfg.StorageConfigured() {
		client := supabase.New(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseTimeout, log)
		store = supabase.NewStore(client, cfg.LeadsTable, cfg.DashboardView)
		log.Info().Str("table", cfg.LeadsTable).Msg("supabase storage configured")
	} else {
		log.Warn().Msg("SUPABASE_URL / SUPABASE_SERVICE_ROLE_KEY missing; submissions will be rejected")
	}

	// ---- Geolocation collaborator ----
	var geo domain.Geolocator
	if cfg.GeoIPEnabled {
		geo = geoip.New(cfg.GeoIPBaseURL, cfg.GeoIPTimeout)
	}

	svc := service.New(store, geo, log)
	h := rest.NewHandler(svc, cfg.DashboardLimit)

	httpHandler := rest.NewRouter(rest.RouterDeps{
		Handler:        h,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:      cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server crashed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info().Msg("shutdown complete")
}
