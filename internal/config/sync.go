package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Sync configures the chain-to-storage sync command.
type Sync struct {
	RPCURL  string
	ChainID uint64

	DexID   int64
	DexName string
	Pools   []string
	// Topic0Map maps extra topic0 hashes onto Swap, Mint or Burn for forks
	// with renamed events.
	Topic0Map map[string]string

	StartBlock uint64
	EndBlock   uint64
	BatchSize  uint64

	DatabaseDSN string
	// StateFile overrides the database checkpoint with a local file.
	StateFile  string
	FailureLog string

	RetryAttempts int
	RetryDelay    time.Duration

	LogLevel string
}

// LoadSync resolves the sync configuration for a command invocation.
func LoadSync(configFile string, flags *pflag.FlagSet) (*Sync, error) {
	v, err := newViper(configFile, flags)
	if err != nil {
		return nil, err
	}
	setSyncDefaults(v)

	cfg := &Sync{
		RPCURL:        v.GetString("rpc-url"),
		ChainID:       v.GetUint64("chain-id"),
		DexID:         v.GetInt64("dex-id"),
		DexName:       v.GetString("dex-name"),
		Pools:         getStringSlice(v, "pools"),
		Topic0Map:     getStringMap(v, "topic0-map"),
		StartBlock:    v.GetUint64("start-block"),
		EndBlock:      v.GetUint64("end-block"),
		BatchSize:     v.GetUint64("batch-size"),
		DatabaseDSN:   v.GetString("database-dsn"),
		StateFile:     v.GetString("state-file"),
		FailureLog:    v.GetString("failure-log"),
		RetryAttempts: v.GetInt("retry-attempts"),
		RetryDelay:    v.GetDuration("retry-delay"),
		LogLevel:      v.GetString("log-level"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setSyncDefaults(v *viper.Viper) {
	v.SetDefault("batch-size", 2000)
	v.SetDefault("retry-attempts", 3)
	v.SetDefault("retry-delay", 500*time.Millisecond)
	v.SetDefault("log-level", "info")
}

// Validate checks the required fields.
func (c *Sync) Validate() error {
	if c.RPCURL == "" {
		return errors.New("rpc-url is required")
	}
	if c.DexID <= 0 {
		return errors.New("dex-id must be positive")
	}
	if c.DexName == "" {
		return errors.New("dex-name is required")
	}
	if len(c.Pools) == 0 {
		return errors.New("at least one pool address is required")
	}
	if c.DatabaseDSN == "" {
		return errors.New("database-dsn is required")
	}
	if c.BatchSize == 0 {
		return errors.New("batch-size must be positive")
	}
	if c.EndBlock != 0 && c.EndBlock < c.StartBlock {
		return fmt.Errorf("end-block %d is before start-block %d", c.EndBlock, c.StartBlock)
	}
	return nil
}

// getStringMap reads a map key, also accepting "k=v" pairs as flags and
// environment variables deliver them.
func getStringMap(v *viper.Viper, key string) map[string]string {
	if m := v.GetStringMapString(key); len(m) > 0 {
		return m
	}
	return parseStringMap(getStringSlice(v, key))
}

func parseStringMap(pairs []string) map[string]string {
	m := make(map[string]string)
	for _, pair := range pairs {
		k, val, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		val = strings.TrimSpace(val)
		if k != "" && val != "" {
			m[k] = val
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
