package main // Entry point package

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kavya5cloud/moc/internal/config"
	"github.com/kavya5cloud/moc/internal/curator"
	"github.com/kavya5cloud/moc/internal/database"
	"github.com/kavya5cloud/moc/internal/datactx"
	"github.com/kavya5cloud/moc/internal/email"
	"github.com/kavya5cloud/moc/internal/handler"
	"github.com/kavya5cloud/moc/internal/middleware"
	"github.com/kavya5cloud/moc/internal/mirror"
	"github.com/kavya5cloud/moc/internal/payment"
	"github.com/kavya5cloud/moc/internal/queue"
	"github.com/kavya5cloud/moc/internal/remote"
	"github.com/kavya5cloud/moc/internal/repository"
	"github.com/kavya5cloud/moc/internal/router"
	"github.com/kavya5cloud/moc/internal/service"
	"github.com/kavya5cloud/moc/internal/syncer"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment

	cfg := config.Load()
	log, err := config.NewLogger(config.LoadLogConfig(cfg.Env))
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("logger setup failed")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	syncCfg := config.LoadSyncConfig()
	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	bus := syncer.NewBus()
	backend, err := openMirror(syncCfg, rdb, log)
	if err != nil {
		log.Fatal().Err(err).Msg("mirror setup failed")
	}
	store := mirror.New(backend, bus, log)

	rc := remote.Unconfigured()
	if cfg.RemoteConfigured() {
		db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			// the site keeps working from the mirror; writes stay local
			log.Error().Err(err).Str("endpoint", cfg.RemoteEndpoint()).Msg("remote store unreachable, running on the local mirror")
		} else {
			defer db.Close()
			rc = remote.NewMySQLClient(db, cfg.RemoteEndpoint(), 0)
			if err := rc.EnsureTables(ctx, repository.Tables...); err != nil {
				log.Error().Err(err).Msg("remote schema check failed")
			}
		}
	}
	engine := syncer.New(rc, store, bus, syncer.Options{ReadTimeout: syncCfg.ReadTimeout}, log)

	var notifier repository.OrderNotifier
	queueCfg := config.LoadQueueConfig()
	if queueCfg.Enabled {
		notifier = service.NewOrderPublisher(queueCfg.URL, log)
	}
	repo := repository.NewMuseumRepo(engine, notifier, log)
	if err := repo.Bootstrap(ctx); err != nil {
		log.Warn().Err(err).Msg("mirror seeding incomplete")
	}

	data := datactx.New(repo, bus, datactx.Options{PollInterval: syncCfg.PollInterval}, log)
	stopData := data.Start(ctx)
	defer stopData()

	payCfg := config.LoadPaymentConfig()
	payments := payment.NewClient(payment.Options{
		ClientID:      payCfg.ClientID,
		ClientSecret:  payCfg.ClientSecret,
		Environment:   payCfg.Environment,
		WebhookSecret: payCfg.WebhookSecret,
	})
	mailCfg := config.LoadEmailConfig()
	mailer := email.NewClient(email.Options{APIKey: mailCfg.APIKey, From: mailCfg.From})
	curCfg := config.LoadCuratorConfig()
	cur := curator.NewClient(curator.Options{APIKey: curCfg.APIKey, Model: curCfg.Model, Timeout: curCfg.Timeout}, log)

	if queueCfg.Enabled && mailer.Configured() {
		go func() {
			if err := queue.StartOrderEmailConsumer(ctx, queueCfg.URL, mailer, log); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("order mail consumer stopped")
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg))
	router.RegisterPublic(e, handler.NewPublicHandler(repo, data), handler.NewEventsHandler(bus, log))
	router.RegisterVisitor(e, handler.NewVisitorHandler(repo), limit)
	router.RegisterStaff(e, handler.NewStaffHandler(repo), cfg.JWTSecret)
	router.RegisterProxy(e, &handler.ProxyHandler{
		Payments: payments,
		Mail:     mailer,
		Curator:  cur,
		Orders:   repo,
		Log:      log.With().Str("component", "proxy").Logger(),
	}, limit)

	addr := ":" + cfg.Port
	go func() {
		log.Info().
			Str("addr", addr).
			Str("env", cfg.Env).
			Str("remote", rc.Endpoint()).
			Str("mirror", syncCfg.MirrorBackend).
			Msg("listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// openMirror picks the mirror backend.  A redis backend without a reachable
// server degrades to files.
func openMirror(c config.SyncConfig, rdb *redis.Client, log zerolog.Logger) (mirror.Backend, error) {
	switch c.MirrorBackend {
	case config.MirrorMemory:
		return mirror.NewMemoryBackend(), nil
	case config.MirrorRedis:
		if rdb != nil {
			return mirror.NewRedisBackend(rdb, c.MirrorPrefix), nil
		}
		log.Warn().Msg("redis unavailable, mirror falls back to files")
	}
	return mirror.NewFileBackend(c.MirrorDir)
}
