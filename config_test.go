package shardbench

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shardbench/ds"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, cfg.Validate())
	assert.Equal(t, 300, cfg.Shards)
	assert.Equal(t, ds.DefaultShardCount, cfg.Shards)
	assert.Equal(t, "halo_", cfg.Prefix)
	assert.Equal(t, 4, cfg.Writers)
	assert.Equal(t, 2000, cfg.Writes)
	assert.Equal(t, 16, cfg.Readers)
	assert.Equal(t, 8000, cfg.Reads)
	assert.Equal(t, []Strategy{StrategyLockFree, StrategySharded}, cfg.Strategies)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		isDS   bool
	}{
		{name: "zero shards", mutate: func(c *Config) { c.Shards = 0 }, isDS: true},
		{name: "negative writers", mutate: func(c *Config) { c.Writers = -1 }},
		{name: "negative reads", mutate: func(c *Config) { c.Reads = -1 }},
		{name: "zero rounds", mutate: func(c *Config) { c.Rounds = 0 }},
		{name: "no strategies", mutate: func(c *Config) { c.Strategies = nil }},
		{name: "unknown strategy", mutate: func(c *Config) { c.Strategies = []Strategy{"dashmap"} }},
		{name: "unknown hash", mutate: func(c *Config) { c.Hash = "fnv" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, ErrInvalidConfig)
			if tt.isDS {
				assert.ErrorIs(t, err, ds.ErrInvalidConfig)
			}
		})
	}
}

func TestConfig_ValidateReportsFirstInvalidCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Writers, cfg.Writes, cfg.Readers, cfg.Reads = -1, -2, -3, -4
	for i := 0; i < 20; i++ {
		err := cfg.Validate()
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "writers = -1")
	}

	cfg.Writers = 0
	assert.Contains(t, cfg.Validate().Error(), "writes = -2")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	data := []byte(`
shards: 64
writers: 2
strategies:
  - sharded
hash: xxh3
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Shards)
	assert.Equal(t, 2, cfg.Writers)
	assert.Equal(t, []Strategy{StrategySharded}, cfg.Strategies)
	assert.Equal(t, "xxh3", cfg.Hash)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, 16, cfg.Readers)
	assert.Equal(t, "halo_", cfg.Prefix)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shards: 64\n"), 0o600))
	t.Setenv("SHARDBENCH_SHARDS", "128")
	t.Setenv("SHARDBENCH_LOG_FORMAT", "json")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Shards)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
