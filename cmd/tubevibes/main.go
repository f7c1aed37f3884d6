package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/user/tubevibes/internal/auth"
	"github.com/user/tubevibes/internal/catalog"
	"github.com/user/tubevibes/internal/config"
	"github.com/user/tubevibes/internal/media"
	"github.com/user/tubevibes/internal/model"
	"github.com/user/tubevibes/internal/notify"
	"github.com/user/tubevibes/internal/scheduler"
	"github.com/user/tubevibes/internal/server"
	"github.com/user/tubevibes/internal/settings"
	"github.com/user/tubevibes/internal/store"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout = 30 * time.Second
)

func main() {
	// Initialize structured JSON logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.Server.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Admin.JWTSecret == config.DevJWTSecret {
		log.Warn().Msg("ADMIN_JWT_SECRET not set, using development secret")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Create root context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalogStore, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open catalog store")
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("Catalog store ready")

	settingsStore, err := openSettingsStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Settings.Driver).Msg("Failed to open settings store")
	}
	siteSettings := settings.NewService(settingsStore)

	registry := media.NewRegistry(cfg.Media.URLPrefix, cfg.Media.MaxUploadBytes)
	if cfg.Store.Driver != config.StoreMemory {
		if _, err := store.DetachMedia(ctx, catalogStore, registry.Prefix()); err != nil {
			log.Error().Err(err).Msg("Failed to detach stale media")
		}
	}
	if cfg.Settings.Driver != config.SettingsMemory {
		if logo, err := siteSettings.Logo(ctx); err == nil && strings.HasPrefix(logo, registry.Prefix()+"/") {
			if _, err := siteSettings.RemoveLogo(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to remove stale logo")
			}
		}
	}

	notifier := notify.NewService(cfg.Notify.RateLimit, server.RecordNotification, openSinks(cfg)...)
	if notifier.Enabled() {
		log.Info().Msg("Notify service initialized")
	}

	catalogService := catalog.NewService(catalogStore, registry,
		catalog.WithDelays(catalog.Delays{
			List:   cfg.Catalog.ListDelay,
			Get:    cfg.Catalog.GetDelay,
			Create: cfg.Catalog.CreateDelay,
		}),
		catalog.WithPublisher(notifier),
	)

	sweeper := scheduler.NewScheduler(catalogStore, registry, siteSettings, &cfg.Media)
	sweeper.OnSweep(server.RecordSweep)

	gin.SetMode(gin.ReleaseMode)
	httpServer := server.NewServer(server.Deps{
		Catalog:        catalogService,
		Store:          catalogStore,
		Media:          registry,
		Settings:       siteSettings,
		Auth:           auth.NewAuthenticator(&cfg.Admin),
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
	})
	httpServer.RefreshVideoCount(ctx)

	// Setup signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpServer.Start(cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	sweeper.Start(ctx)
	log.Info().Msg("Media sweeper started")

	log.Info().Msg("TubeVibes started successfully")

	// Wait for shutdown signal
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	log.Info().Msg("Starting graceful shutdown...")

	// 1. Stop accepting requests
	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	} else {
		log.Info().Msg("HTTP server stopped")
	}

	// 2. Stop the media sweeper
	sweeper.Stop()

	// 3. Flush pending notifications and close sinks
	if err := notifier.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing notify sinks")
	}

	// 4. Close stores
	if err := settingsStore.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing settings store")
	}
	if err := catalogStore.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing catalog store")
	} else {
		log.Info().Msg("Catalog store closed")
	}

	cancel()

	select {
	case <-shutdownCtx.Done():
		if shutdownCtx.Err() == context.DeadlineExceeded {
			log.Warn().Msg("Shutdown timeout exceeded, forcing exit")
		}
	default:
		log.Info().Msg("Graceful shutdown completed")
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	var seed []model.Video
	if cfg.Catalog.Seed {
		seed = store.SeedVideos()
	}

	switch cfg.Store.Driver {
	case config.StoreSQLite:
		return store.NewSQLiteStore(cfg.Store.SQLitePath, seed)
	case config.StoreMySQL:
		return store.NewMySQLStore(&cfg.DB, seed)
	default:
		return store.NewMemoryStore(seed)
	}
}

func openSettingsStore(cfg *config.Config) (settings.Store, error) {
	if cfg.Settings.Driver == config.SettingsRedis {
		return settings.NewRedisStore(&cfg.Settings)
	}
	return settings.NewMemoryStore(), nil
}

// openSinks connects the configured sinks; a sink that fails to connect is skipped
func openSinks(cfg *config.Config) []notify.Sink {
	var sinks []notify.Sink

	if cfg.Notify.TelegramEnabled() {
		client, err := notify.NewClient(cfg.Notify.TelegramToken)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create Telegram client, announcements disabled")
		} else {
			sinks = append(sinks, notify.NewTelegramSink(client, cfg.Notify.TelegramChatID, cfg.Notify.PublicURL))
			log.Info().Int64("chatID", cfg.Notify.TelegramChatID).Msg("Telegram sink enabled")
		}
	}

	if cfg.Notify.AMQPURL != "" {
		sink, err := notify.DialAMQP(cfg.Notify.AMQPURL, cfg.Notify.AMQPExchange)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to AMQP broker, event publishing disabled")
		} else {
			sinks = append(sinks, sink)
		}
	}

	return sinks
}
