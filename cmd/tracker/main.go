package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"trade_tracker/internal/adparse"
	"trade_tracker/internal/config"
	"trade_tracker/internal/dedup"
	"trade_tracker/internal/discord"
	"trade_tracker/internal/freshness"
	"trade_tracker/internal/metrics"
	"trade_tracker/internal/publisher"
	"trade_tracker/internal/scheduler"
	"trade_tracker/internal/service"
	"trade_tracker/internal/source/rolimons"
	"trade_tracker/internal/storage/postgres"
	"trade_tracker/internal/tracking"
	"trade_tracker/migrations"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	if cfg.Discord.Token == "" {
		logger.Error("discord.token is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("tracker stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	logger.Info("connected to database")

	if err := postgres.Migrate(ctx, db, migrations.FS, logger); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	targetStore := postgres.NewTargetStore(db)
	whitelistStore := postgres.NewWhitelistStore(db)
	txManager := postgres.NewTransactionManager(db)

	cache, closeCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	suppressor := dedup.NewSuppressor(cache, dedup.Config{
		UserItemWindow: cfg.Monitor.UserItemWindow,
		ContentWindow:  cfg.Monitor.ContentWindow,
		PostedTTL:      cfg.Monitor.PostedTTL,
	})
	filter := freshness.NewFilter(*cfg.Monitor.MaxMinutesOld, cfg.Monitor.FreshnessWindow, cfg.Monitor.ClockSkew)

	profile, err := adparse.LookupProfile(cfg.Scraper.SelectorProfile, cfg.Scraper.Selectors)
	if err != nil {
		return fmt.Errorf("selector profile: %w", err)
	}
	parser, err := adparse.New(profile, adparse.Options{
		BaseURL:      cfg.Scraper.BaseURL,
		CDNHost:      cfg.Scraper.CDNHost,
		Placeholders: cfg.Scraper.Placeholders,
	})
	if err != nil {
		return err
	}

	srcCfg := rolimons.Config{
		BaseURL:        cfg.Scraper.BaseURL,
		FeedPath:       cfg.Scraper.FeedPath,
		ItemPath:       cfg.Scraper.ItemPath,
		UserAgent:      cfg.Scraper.UserAgent,
		Timeout:        cfg.Scraper.Timeout,
		MaxAttempts:    cfg.Scraper.Retry.MaxAttempts,
		InitialBackoff: cfg.Scraper.Retry.InitialBackoff,
		MaxBackoff:     cfg.Scraper.Retry.MaxBackoff,
	}

	var browser *rolimons.BrowserRenderer
	if cfg.Scraper.Renderer == "browser" || cfg.Scraper.Screenshots {
		browser = rolimons.NewBrowserRenderer(rolimons.BrowserConfig{
			UserAgent:           cfg.Scraper.UserAgent,
			Timeout:             cfg.Scraper.Timeout,
			WaitSelector:        cfg.Scraper.WaitSelector,
			CaptureWaitSelector: cfg.Scraper.CaptureWaitSelector,
		}, logger)
		defer browser.Close()
	}

	var renderer rolimons.Renderer = rolimons.NewHTTPRenderer(srcCfg, logger)
	if cfg.Scraper.Renderer == "browser" {
		renderer = browser
	}
	source := rolimons.New(renderer, srcCfg, logger)

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	notifier := discord.NewNotifier(session, logger, discord.NotifierConfig{
		MaxAttempts:    cfg.Discord.Retry.MaxAttempts,
		InitialBackoff: cfg.Discord.Retry.InitialBackoff,
		MaxBackoff:     cfg.Discord.Retry.MaxBackoff,
	})

	var opts []service.Option
	if cfg.Scraper.Screenshots {
		opts = append(opts, service.WithScreenshotter(browser))
	}

	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
		opts = append(opts, service.WithPublisher(rabbitMQ))
	}

	if cfg.Metrics.Addr != "" {
		m := metrics.New(prometheus.NewRegistry())
		opts = append(opts, service.WithStatsRecorder(m))
		go serveMetrics(ctx, cfg.Metrics.Addr, m.Handler(), logger)
	}

	monitor := service.NewMonitor(
		source,
		parser,
		targetStore,
		filter,
		suppressor,
		notifier,
		logger,
		service.Config{
			Mode:            cfg.Scraper.Mode,
			FetchWorkers:    cfg.Scraper.FetchWorkers,
			DeliveryWorkers: cfg.Monitor.DeliveryWorkers,
			FetchTimeout:    cfg.Scraper.Timeout,
			CaptureTimeout:  cfg.Monitor.CaptureTimeout,
		},
		opts...,
	)

	trackingService := tracking.NewService(targetStore, whitelistStore, txManager, source, cfg.Discord.OwnerID, logger)

	bot := discord.NewBot(session, trackingService, logger, discord.BotConfig{
		GuildID:        cfg.Discord.GuildID,
		CommandTimeout: cfg.Discord.CommandTimeout,
	})
	if err := bot.Start(); err != nil {
		return err
	}
	defer bot.Close()

	sched := scheduler.NewScheduler(monitor, cfg.Monitor.Interval, cfg.Monitor.MaxRuntime, logger)

	logger.Info("starting trade tracker",
		"source", rolimons.SourceName,
		"mode", cfg.Scraper.Mode,
		"renderer", cfg.Scraper.Renderer,
		"selector_profile", parser.Profile(),
		"cache_backend", cfg.Monitor.CacheBackend,
		"interval", cfg.Monitor.Interval,
	)

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (dedup.Cache, func(), error) {
	if cfg.Monitor.CacheBackend != "redis" {
		return dedup.NewMemoryCache(cfg.Monitor.CacheSize, cfg.Monitor.PostedTTL), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to redis", "addr", cfg.Redis.Addr)

	return dedup.NewRedisCache(client), func() { client.Close() }, nil
}

func serveMetrics(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", "error", err)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
