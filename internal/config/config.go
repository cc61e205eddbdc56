// Package config loads command configuration from flags, environment
// variables and an optional config file. Precedence follows viper: flags win
// over environment, environment over file, file over defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "DEXBOARD"

// newViper builds a viper instance bound to the command's flags. When
// configFile is empty, a dexboard.{yaml,json,toml} in the working directory
// is picked up if present.
func newViper(configFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName("dexboard")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return v, nil
}

// getStringSlice reads a slice key, splitting comma-separated elements as
// environment variables deliver them.
func getStringSlice(v *viper.Viper, key string) []string {
	var values []string
	for _, value := range v.GetStringSlice(key) {
		values = append(values, splitAndClean(value)...)
	}
	return values
}

func splitAndClean(s string) []string {
	parts := strings.Split(s, ",")
	return cleanStrings(parts)
}

func cleanStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
