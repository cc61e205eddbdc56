package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dexboard/internal/cache"
	"dexboard/internal/config"
	"dexboard/internal/dashboard"
	"dexboard/internal/storage/postgres"
)

func runRefresh(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRefresh(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	now := time.Now().Unix()
	if cfg.Until != "" {
		now, err = config.ParseTimestamp(cfg.Until)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	views := cache.New(cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})
	defer views.Close()
	if err := views.Ping(ctx); err != nil {
		return err
	}

	builder := dashboard.NewBuilder(store, views, dashboard.Config{
		Interval: int64(cfg.Interval.Seconds()),
		Window:   int64(cfg.Window.Seconds()),
		Decimals: cfg.Decimals,
	}, logger)

	logger.Info("refresh start",
		zap.String("database_dsn", redactDSN(cfg.DatabaseDSN)),
		zap.String("redis_addr", cfg.RedisAddr),
		zap.Duration("interval", cfg.Interval),
		zap.Duration("window", cfg.Window),
		zap.Int("decimals", cfg.Decimals),
		zap.Int64("until", now),
	)

	return builder.Build(ctx, now)
}
