package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexshd/kmeans1d"
	"github.com/spf13/viper"
)

// Configuration keys. Each maps to a flag, a config file entry and a
// KMEANS1D_ environment variable, e.g. KMEANS1D_MAX_ITER.
const (
	keyConfig    = "config"
	keyMaxIter   = "max_iter"
	keyEps       = "eps"
	keyWorkers   = "workers"
	keyLogLevel  = "log_level"
	keyLogFormat = "log_format"
)

// setDefaults registers defaults so they apply without a config file.
func setDefaults(v *viper.Viper) {
	d := kmeans1d.DefaultConfig()
	v.SetDefault(keyMaxIter, d.MaxIter)
	v.SetDefault(keyEps, d.Eps)
	v.SetDefault(keyWorkers, d.Workers)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "text")
}

// loadConfig reads the config file, if any, and enables environment
// overrides. A missing default config file is not an error; a missing
// explicit --config file is.
func loadConfig(v *viper.Viper) error {
	setDefaults(v)

	if cfgFile := v.GetString(keyConfig); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("kmeans1d")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/kmeans1d")
	}

	v.SetEnvPrefix("KMEANS1D")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// engineConfig returns the validated clustering configuration.
func engineConfig(v *viper.Viper) (kmeans1d.Config, error) {
	cfg := kmeans1d.Config{
		MaxIter: v.GetInt(keyMaxIter),
		Eps:     v.GetFloat64(keyEps),
		Workers: v.GetInt(keyWorkers),
	}
	if err := cfg.Validate(); err != nil {
		return kmeans1d.Config{}, err
	}
	return cfg, nil
}
