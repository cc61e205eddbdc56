package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dexboard/internal/cache"
	"dexboard/internal/config"
	"dexboard/internal/dashboard"
	"dexboard/internal/model"
)

// listResponse is the printed envelope for list views.
type listResponse struct {
	Data interface{} `json:"data"`
	Meta model.Meta  `json:"meta"`
}

func runShow(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadShow(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	meta, err := cfg.Meta()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	views := cache.New(cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer views.Close()
	if err := views.Ping(ctx); err != nil {
		return err
	}

	switch cfg.View {
	case config.ViewOverview:
		view, err := views.Overview(ctx)
		if err != nil {
			return err
		}
		if view == nil {
			return notCached(cfg.View)
		}
		return printJSON(view)

	case config.ViewDex:
		view, err := views.DexView(ctx, cfg.DexID)
		if err != nil {
			return err
		}
		if view == nil {
			return notCached(cfg.View)
		}
		return printJSON(view)

	case config.ViewPair:
		view, err := views.PairView(ctx, cfg.PoolID, cfg.DexID)
		if err != nil {
			return err
		}
		if view == nil {
			return notCached(cfg.View)
		}
		return printJSON(view)

	case config.ViewDexList:
		list, err := views.DexList(ctx)
		if err != nil {
			return err
		}
		if list == nil {
			return notCached(cfg.View)
		}
		page, meta := dashboard.ApplyDexes(list, meta)
		return printJSON(listResponse{Data: page, Meta: meta})

	case config.ViewPairList:
		list, err := views.PairList(ctx, cfg.DexID)
		if err != nil {
			return err
		}
		if list == nil {
			return notCached(cfg.View)
		}
		page, meta := dashboard.ApplyPairs(list, meta)
		return printJSON(listResponse{Data: page, Meta: meta})

	case config.ViewPoolList:
		pools, err := views.PoolList(ctx)
		if err != nil {
			return err
		}
		if pools == nil {
			return notCached(cfg.View)
		}
		return printJSON(pools)

	default:
		return fmt.Errorf("unknown view %q", cfg.View)
	}
}

func notCached(view string) error {
	return fmt.Errorf("view %s is not cached, run refresh first", view)
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
