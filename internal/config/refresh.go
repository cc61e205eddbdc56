package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Refresh configures the dashboard rebuild command.
type Refresh struct {
	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Interval is the chart bucket width.
	Interval time.Duration
	// Window limits how far back operations are read. Zero reads everything.
	Window time.Duration
	// Decimals is the chart value rounding.
	Decimals int
	// Until pins the end of the charts; empty means the current time.
	Until string

	LogLevel string
}

// LoadRefresh resolves the refresh configuration for a command invocation.
func LoadRefresh(configFile string, flags *pflag.FlagSet) (*Refresh, error) {
	v, err := newViper(configFile, flags)
	if err != nil {
		return nil, err
	}
	setRefreshDefaults(v)

	cfg := &Refresh{
		DatabaseDSN:   v.GetString("database-dsn"),
		RedisAddr:     v.GetString("redis-addr"),
		RedisPassword: v.GetString("redis-password"),
		RedisDB:       v.GetInt("redis-db"),
		CacheTTL:      v.GetDuration("cache-ttl"),
		Interval:      v.GetDuration("interval"),
		Window:        v.GetDuration("window"),
		Decimals:      v.GetInt("decimals"),
		Until:         v.GetString("until"),
		LogLevel:      v.GetString("log-level"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setRefreshDefaults(v *viper.Viper) {
	v.SetDefault("redis-addr", "localhost:6379")
	v.SetDefault("interval", 24*time.Hour)
	v.SetDefault("decimals", 2)
	v.SetDefault("log-level", "info")
}

// Validate checks the required fields.
func (c *Refresh) Validate() error {
	if c.DatabaseDSN == "" {
		return errors.New("database-dsn is required")
	}
	if c.RedisAddr == "" {
		return errors.New("redis-addr is required")
	}
	if c.Interval < time.Second {
		return fmt.Errorf("interval %s is below one second", c.Interval)
	}
	if c.Window < 0 {
		return errors.New("window must not be negative")
	}
	if c.Decimals < 0 {
		return errors.New("decimals must not be negative")
	}
	if c.Until != "" {
		if _, err := ParseTimestamp(c.Until); err != nil {
			return err
		}
	}
	return nil
}

// ParseTimestamp accepts a unix timestamp in seconds or an RFC3339 time.
func ParseTimestamp(s string) (int64, error) {
	if isNumeric(s) {
		ts, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse timestamp %q: %w", s, err)
		}
		return ts, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("parse timestamp %q: expected unix seconds or RFC3339", s)
	}
	return t.Unix(), nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && (r == '-' || r == '+') {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
