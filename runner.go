package shardbench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"
)

// Summary aggregates every round of one strategy.
type Summary struct {
	Strategy  Strategy      `yaml:"strategy" json:"strategy"`
	Rounds    int           `yaml:"rounds" json:"rounds"`
	Min       time.Duration `yaml:"min" json:"min"`
	Mean      time.Duration `yaml:"mean" json:"mean"`
	Max       time.Duration `yaml:"max" json:"max"`
	OpsPerSec float64       `yaml:"ops_per_sec" json:"ops_per_sec"`
}

// shardSizer is implemented by stores that can report per-shard key counts.
type shardSizer interface {
	ShardSizes() []int
}

// hottestShard returns the key count of the fullest shard.
func hottestShard(sizes []int) int {
	hottest := 0
	for _, n := range sizes {
		if n > hottest {
			hottest = n
		}
	}
	return hottest
}

// Runner compares the configured strategies. Each round gets a fresh Store.
type Runner struct {
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics
}

// NewRunner validates cfg. A nil logger discards logs and a nil metrics
// skips recording.
func NewRunner(cfg Config, logger *slog.Logger, metrics *Metrics) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &Runner{cfg: cfg, logger: logger, metrics: metrics}, nil
}

// Compare runs every strategy cfg.Rounds times, in cfg.Strategies order.
func (r *Runner) Compare(ctx context.Context) ([]Summary, error) {
	summaries := make([]Summary, 0, len(r.cfg.Strategies))
	for _, strategy := range r.cfg.Strategies {
		sum, err := r.runStrategy(ctx, strategy)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

func (r *Runner) runStrategy(ctx context.Context, strategy Strategy) (Summary, error) {
	logger := r.logger.With("strategy", strategy)
	sum := Summary{Strategy: strategy}

	var total time.Duration
	var ops int64
	for round := 0; round < r.cfg.Rounds; round++ {
		store, err := NewStore(strategy, r.cfg)
		if err != nil {
			return sum, err
		}
		res, err := Run(ctx, strategy, store, r.cfg)
		if err != nil {
			logger.Error("round failed", "round", round, "err", err)
			return sum, fmt.Errorf("%s round %d: %w", strategy, round, err)
		}
		if r.metrics != nil {
			r.metrics.observe(res)
		}
		attrs := []any{
			"round", round,
			"elapsed", res.Elapsed,
			"ops", res.Ops(),
			"hits", res.Hits,
			"size", res.Size,
		}
		if sizer, ok := store.(shardSizer); ok {
			attrs = append(attrs, "hottest_shard", hottestShard(sizer.ShardSizes()))
		}
		logger.Debug("round finished", attrs...)

		if round == 0 || res.Elapsed < sum.Min {
			sum.Min = res.Elapsed
		}
		if res.Elapsed > sum.Max {
			sum.Max = res.Elapsed
		}
		total += res.Elapsed
		ops += res.Ops()
		sum.Rounds++
	}

	sum.Mean = total / time.Duration(sum.Rounds)
	if total > 0 {
		sum.OpsPerSec = float64(ops) / total.Seconds()
	}
	logger.Info("strategy finished", "rounds", sum.Rounds, "mean", sum.Mean, "ops_per_sec", int64(sum.OpsPerSec))
	return sum, nil
}
