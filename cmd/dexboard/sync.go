package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dexboard/internal/chain"
	"dexboard/internal/config"
	"dexboard/internal/dex"
	"dexboard/internal/ingest"
	"dexboard/internal/model"
	"dexboard/internal/storage/postgres"
)

func runSync(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSync(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	addresses, err := ingest.ParseAddresses(cfg.Pools)
	if err != nil {
		return err
	}
	decoder, err := dex.NewOperationDecoder(cfg.Topic0Map)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	store, err := postgres.NewStore(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	var state ingest.StateStore
	if cfg.StateFile != "" {
		state, err = ingest.NewFileStateStore(cfg.StateFile)
		if err != nil {
			return err
		}
	} else {
		state = ingest.NewDBStateStore(store, cfg.DexID)
	}

	var failures *ingest.DecodeFailureLog
	if cfg.FailureLog != "" {
		failures, err = ingest.OpenDecodeFailureLog(cfg.FailureLog)
		if err != nil {
			return err
		}
		defer failures.Close()
	}

	runner := ingest.NewRunner(ingest.Config{
		Dex:           model.Dex{ID: cfg.DexID, Name: cfg.DexName},
		Addresses:     addresses,
		StartBlock:    cfg.StartBlock,
		EndBlock:      cfg.EndBlock,
		BatchSize:     cfg.BatchSize,
		ChainID:       cfg.ChainID,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
	}, chainClient, decoder, store, state, failures, logger)

	logger.Info("sync start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("database_dsn", redactDSN(cfg.DatabaseDSN)),
		zap.Int64("dex_id", cfg.DexID),
		zap.String("dex", cfg.DexName),
		zap.Int("pools", len(addresses)),
		zap.Uint64("start_block", cfg.StartBlock),
		zap.Uint64("end_block", cfg.EndBlock),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.String("state_file", cfg.StateFile),
	)

	return runner.Run(ctx)
}
