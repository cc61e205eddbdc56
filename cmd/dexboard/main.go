package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "dexboard",
		Short:        "DEX pool dashboard pipeline",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync pool operations from the chain into Postgres",
		RunE:  runSync,
	}

	syncCmd.Flags().String("rpc-url", "", "chain RPC URL")
	syncCmd.Flags().Uint64("chain-id", 0, "expected chain id, 0 skips the check")
	syncCmd.Flags().Int64("dex-id", 0, "dex id")
	syncCmd.Flags().String("dex-name", "", "dex name")
	syncCmd.Flags().StringSlice("pools", nil, "pool addresses (comma-separated)")
	syncCmd.Flags().String("topic0-map", "", "extra topic0->event mappings (comma-separated key=value)")
	syncCmd.Flags().Uint64("start-block", 0, "start block (inclusive)")
	syncCmd.Flags().Uint64("end-block", 0, "end block (inclusive), 0 means latest")
	syncCmd.Flags().Uint64("batch-size", 2000, "blocks per batch")
	syncCmd.Flags().String("database-dsn", "", "Postgres DSN")
	syncCmd.Flags().String("state-file", "", "local checkpoint file instead of the database")
	syncCmd.Flags().String("failure-log", "", "decode failure JSONL path")
	syncCmd.Flags().Int("retry-attempts", 3, "retry attempts for RPC calls")
	syncCmd.Flags().Duration("retry-delay", 500*time.Millisecond, "initial retry delay")
	syncCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(syncCmd)

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild cached dashboard views from stored operations",
		RunE:  runRefresh,
	}

	refreshCmd.Flags().String("database-dsn", "", "Postgres DSN")
	refreshCmd.Flags().String("redis-addr", "localhost:6379", "Redis address")
	refreshCmd.Flags().String("redis-password", "", "Redis password")
	refreshCmd.Flags().Int("redis-db", 0, "Redis database number")
	refreshCmd.Flags().Duration("cache-ttl", 0, "view TTL, 0 keeps views until the next refresh")
	refreshCmd.Flags().Duration("interval", 24*time.Hour, "chart bucket width")
	refreshCmd.Flags().Duration("window", 0, "operation lookback, 0 loads everything")
	refreshCmd.Flags().Int("decimals", 2, "chart value rounding")
	refreshCmd.Flags().String("until", "", "chart end time (unix seconds or RFC3339), empty means now")
	refreshCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(refreshCmd)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print a cached dashboard view",
		RunE:  runShow,
	}

	showCmd.Flags().String("redis-addr", "localhost:6379", "Redis address")
	showCmd.Flags().String("redis-password", "", "Redis password")
	showCmd.Flags().Int("redis-db", 0, "Redis database number")
	showCmd.Flags().String("view", "overview", "view to print (overview, dex, pair, dex-list, pair-list, pool-list)")
	showCmd.Flags().Int64("dex-id", 0, "dex id for the dex, pair and pair-list views")
	showCmd.Flags().Int64("pool-id", 0, "pool id for the pair view")
	showCmd.Flags().Int("page", 0, "list page")
	showCmd.Flags().Int("per-page", 0, "list page size")
	showCmd.Flags().String("sort", "", "list sort field")
	showCmd.Flags().String("order", "", "list sort order (asc, desc)")
	showCmd.Flags().StringSlice("filter", nil, "list filter (field=value, repeatable)")
	showCmd.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(showCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
