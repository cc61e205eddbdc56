package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"dexboard/internal/model"
)

// Views the show command can print.
const (
	ViewOverview = "overview"
	ViewDex      = "dex"
	ViewPair     = "pair"
	ViewDexList  = "dex-list"
	ViewPairList = "pair-list"
	ViewPoolList = "pool-list"
)

// Show configures the cached-view reader command.
type Show struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	View   string
	DexID  int64
	PoolID int64

	Page      int
	PerPage   int
	SortField string
	SortOrder string
	Filters   []string

	LogLevel string
}

// LoadShow resolves the show configuration for a command invocation.
func LoadShow(configFile string, flags *pflag.FlagSet) (*Show, error) {
	v, err := newViper(configFile, flags)
	if err != nil {
		return nil, err
	}
	setShowDefaults(v)

	cfg := &Show{
		RedisAddr:     v.GetString("redis-addr"),
		RedisPassword: v.GetString("redis-password"),
		RedisDB:       v.GetInt("redis-db"),
		View:          v.GetString("view"),
		DexID:         v.GetInt64("dex-id"),
		PoolID:        v.GetInt64("pool-id"),
		Page:          v.GetInt("page"),
		PerPage:       v.GetInt("per-page"),
		SortField:     v.GetString("sort"),
		SortOrder:     v.GetString("order"),
		Filters:       getStringSlice(v, "filter"),
		LogLevel:      v.GetString("log-level"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setShowDefaults(v *viper.Viper) {
	v.SetDefault("redis-addr", "localhost:6379")
	v.SetDefault("view", ViewOverview)
	v.SetDefault("log-level", "warn")
}

// Validate checks the view name and its required ids.
func (c *Show) Validate() error {
	if c.RedisAddr == "" {
		return errors.New("redis-addr is required")
	}
	switch c.View {
	case ViewOverview, ViewDexList, ViewPoolList:
	case ViewDex, ViewPairList:
		if c.DexID <= 0 {
			return fmt.Errorf("view %s requires --dex-id", c.View)
		}
	case ViewPair:
		if c.DexID <= 0 || c.PoolID <= 0 {
			return fmt.Errorf("view %s requires --dex-id and --pool-id", c.View)
		}
	default:
		return fmt.Errorf("unknown view %q", c.View)
	}
	if _, err := c.Meta(); err != nil {
		return err
	}
	return nil
}

// Meta converts the list flags into list metadata.
func (c Show) Meta() (model.Meta, error) {
	meta := model.DefaultMeta()
	if c.Page > 0 {
		meta.Pagination.Page = c.Page
	}
	if c.PerPage > 0 {
		meta.Pagination.PerPage = c.PerPage
	}
	if c.SortField != "" {
		meta.Sort.Field = c.SortField
	}
	if c.SortOrder != "" {
		order := model.Order(strings.ToLower(c.SortOrder))
		if order != model.OrderAsc && order != model.OrderDesc {
			return model.Meta{}, fmt.Errorf("unknown sort order %q", c.SortOrder)
		}
		meta.Sort.Order = order
	}
	for _, raw := range c.Filters {
		field, value, ok := strings.Cut(raw, "=")
		field = strings.TrimSpace(field)
		value = strings.TrimSpace(value)
		if !ok || field == "" {
			return model.Meta{}, fmt.Errorf("filter %q is not field=value", raw)
		}
		meta.Filter = append(meta.Filter, model.Filter{Field: field, Value: value})
	}
	meta.Normalize()
	return meta, nil
}
