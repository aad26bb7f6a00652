package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	LogLevel string
	PoolFile string
	Pretty   bool
}

// flag name -> config key
var flagKeys = map[string]string{
	"log-level": "log.level",
	"pool":      "pool.file",
	"pretty":    "output.pretty",
}

// Load merges config file, GYRO_ environment variables, and flags into
// Config. Flags override the environment, which overrides the file.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GYRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("pool.file", "pool.json")
	v.SetDefault("output.pretty", false)

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("gyro")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		PoolFile: v.GetString("pool.file"),
		Pretty:   v.GetBool("output.pretty"),
	}
	if cfg.PoolFile == "" {
		return Config{}, fmt.Errorf("pool file is required")
	}
	return cfg, nil
}
