// Command server runs the video generation HTTP API.
//
//	@title			Video Generation API
//	@version		1.0
//	@description	User registration, audio storage and image-to-video generation.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/akashparashar014/Video-Genration/internal/config"
	httpapi "github.com/akashparashar014/Video-Genration/internal/http"
	"github.com/akashparashar014/Video-Genration/internal/observability"
	"github.com/akashparashar014/Video-Genration/internal/provider"
	"github.com/akashparashar014/Video-Genration/internal/repo"
	"github.com/akashparashar014/Video-Genration/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	shutdownTimeout = 30 * time.Second
	purgeInterval   = time.Hour
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	ver := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	sysutil.SetupLogger(os.Stdout, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName, ver)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	dsn := cfg.DBPath
	if cfg.DBDriver == "postgres" {
		dsn = cfg.DatabaseURL
	}
	db, err := repo.Open(cfg.DBDriver, dsn)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open database")
	}
	if cfg.OTEL.Enabled {
		if err := observability.InstrumentDB(db); err != nil {
			log.Fatal().Err(err).Msg("instrument database")
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go purgeIdempotency(janitorCtx, db, purgeInterval)

	if cfg.Provider.APISecret == "" {
		log.Warn().Msg("RUNWAYML_API_SECRET is empty; /api/v1/generate-video/ will fail upstream")
	}
	vp := provider.New(provider.Config{
		BaseURL:    cfg.Provider.BaseURL,
		APISecret:  cfg.Provider.APISecret,
		APIVersion: cfg.Provider.APIVersion,
		Model:      cfg.Provider.Model,
		Ratio:      cfg.Provider.Ratio,
		Timeout:    cfg.Provider.HTTPTimeout,
	})

	r := gin.New()
	httpapi.RegisterRoutes(r, db, vp, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
	if budget := cfg.PollBudget(); budget >= cfg.WriteTimeout {
		log.Warn().
			Dur("poll_budget", budget).
			Dur("write_timeout", cfg.WriteTimeout).
			Msg("generation may outlive WRITE_TIMEOUT")
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", ver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		return
	}
	log.Info().Msg("server stopped")
}

// purgeIdempotency drops expired Idempotency-Key entries every interval until
// ctx is done.
func purgeIdempotency(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency keys")
				continue
			}
			if n > 0 {
				log.Info().Int64("rows", n).Msg("purged expired idempotency keys")
			}
		}
	}
}
