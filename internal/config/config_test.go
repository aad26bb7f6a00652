package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "info", "")
	fs.String("pool", "pool.json", "")
	fs.Bool("pretty", false, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, Config{LogLevel: "info", PoolFile: "pool.json", Pretty: false}, cfg)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "gyro.yaml")
	require.NoError(t, os.WriteFile(file, []byte("log:\n  level: warn\npool:\n  file: from-file.json\noutput:\n  pretty: true\n"), 0o600))

	cfg, err := Load(file, nil)
	require.NoError(t, err)
	require.Equal(t, Config{LogLevel: "warn", PoolFile: "from-file.json", Pretty: true}, cfg)

	t.Setenv("GYRO_LOG_LEVEL", "DEBUG")
	t.Setenv("GYRO_POOL_FILE", "from-env.json")
	cfg, err = Load(file, nil)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "from-env.json", cfg.PoolFile)

	flags := newFlags()
	require.NoError(t, flags.Set("pool", "from-flag.json"))
	cfg, err = Load(file, flags)
	require.NoError(t, err)
	require.Equal(t, "from-flag.json", cfg.PoolFile)
	require.Equal(t, "debug", cfg.LogLevel)
	require.True(t, cfg.Pretty)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)

	flags := newFlags()
	require.NoError(t, flags.Set("pool", ""))
	_, err = Load("", flags)
	require.Error(t, err)
}
