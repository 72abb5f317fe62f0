package shardbench

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"shardbench/ds"
	"shardbench/util"
)

const (
	defaultShardCount  = ds.DefaultShardCount
	defaultKeyPrefix   = "halo_"
	defaultWriters     = 4
	defaultWriteCircle = 2000
	defaultReaders     = 16
	defaultReadCircle  = 8000
	defaultRounds      = 1

	// EnvPrefix is stripped from environment variables before they are
	// mapped onto config keys: SHARDBENCH_LOG_LEVEL -> log.level.
	EnvPrefix = "SHARDBENCH_"
)

type Config struct {
	Shards     int        `koanf:"shards" yaml:"shards"`         // shard count of the sharded strategy, presize of the lock-free one
	Prefix     string     `koanf:"prefix" yaml:"prefix"`         // key prefix, keys are prefix + decimal index
	Writers    int        `koanf:"writers" yaml:"writers"`       // writer goroutines
	Writes     int        `koanf:"writes" yaml:"writes"`         // inserts per writer, keys [0, Writes)
	Readers    int        `koanf:"readers" yaml:"readers"`       // reader goroutines
	Reads      int        `koanf:"reads" yaml:"reads"`           // gets per reader, keys [0, Reads)
	Rounds     int        `koanf:"rounds" yaml:"rounds"`         // repetitions per strategy
	Strategies []Strategy `koanf:"strategies" yaml:"strategies"` // strategies to compare, in order
	Hash       string     `koanf:"hash" yaml:"hash"`             // shard routing hash: murmur3 or xxh3
	Log        LogConfig  `koanf:"log" yaml:"log"`
}

func DefaultConfig() Config {
	return Config{
		Shards:     defaultShardCount,
		Prefix:     defaultKeyPrefix,
		Writers:    defaultWriters,
		Writes:     defaultWriteCircle,
		Readers:    defaultReaders,
		Reads:      defaultReadCircle,
		Rounds:     defaultRounds,
		Strategies: []Strategy{StrategyLockFree, StrategySharded},
		Hash:       string(util.HasherMurmur3),
		Log:        DefaultLogConfig(),
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Shards < 1 {
		return fmt.Errorf("%w: shards = %d: %w", ErrInvalidConfig, c.Shards, ds.ErrInvalidConfig)
	}
	counts := []struct {
		name string
		n    int
	}{
		{"writers", c.Writers},
		{"writes", c.Writes},
		{"readers", c.Readers},
		{"reads", c.Reads},
	}
	for _, f := range counts {
		if f.n < 0 {
			return fmt.Errorf("%w: %s = %d, must not be negative", ErrInvalidConfig, f.name, f.n)
		}
	}
	if c.Rounds < 1 {
		return fmt.Errorf("%w: rounds = %d, must be at least 1", ErrInvalidConfig, c.Rounds)
	}
	if len(c.Strategies) == 0 {
		return fmt.Errorf("%w: no strategies", ErrInvalidConfig)
	}
	for _, s := range c.Strategies {
		if !s.Valid() {
			return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownStrategy, s)
		}
	}
	if _, ok := util.HashFunc(util.Hasher(c.Hash)); !ok {
		return fmt.Errorf("%w: unknown hash %q", ErrInvalidConfig, c.Hash)
	}
	return nil
}

// LoadConfig layers the YAML file at path (skipped when path is empty or
// missing) and SHARDBENCH_* environment variables over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	k := koanf.New(".")

	if path != "" && util.PathExist(path) {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envTransformer := func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "_", ".")
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformer), nil); err != nil {
		return cfg, fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
