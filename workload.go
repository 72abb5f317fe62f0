package shardbench

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"
)

// ctxCheckInterval is how many operations a worker runs between context checks.
const ctxCheckInterval = 256

// Result describes one workload pass against one Store.
type Result struct {
	Strategy Strategy      `yaml:"strategy" json:"strategy"`
	Elapsed  time.Duration `yaml:"elapsed" json:"elapsed"`
	Inserts  int64         `yaml:"inserts" json:"inserts"`
	Gets     int64         `yaml:"gets" json:"gets"`
	Hits     int64         `yaml:"hits" json:"hits"`
	Size     int           `yaml:"size" json:"size"`
}

// Ops returns the total number of map operations performed.
func (r Result) Ops() int64 {
	return r.Inserts + r.Gets
}

// OpsPerSec returns throughput over the wall-clock duration of the pass.
func (r Result) OpsPerSec() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops()) / r.Elapsed.Seconds()
}

// GenerateKey returns prefix followed by the decimal form of index.
func GenerateKey(prefix string, index int) string {
	return prefix + strconv.Itoa(index)
}

// ExpectedSize is the number of distinct keys a workload leaves behind. All
// writers insert the same index range, so overlap collapses to Writes.
func ExpectedSize(cfg Config) int {
	if cfg.Writers == 0 {
		return 0
	}
	return cfg.Writes
}

// Run drives store with cfg.Writers writers and cfg.Readers readers running
// concurrently, then checks the final size against ExpectedSize.
func Run(ctx context.Context, strategy Strategy, store Store, cfg Config) (Result, error) {
	var (
		inserts = xsync.NewCounter()
		gets    = xsync.NewCounter()
		hits    = xsync.NewCounter()
	)
	g, ctx := errgroup.WithContext(ctx)

	start := time.Now()
	for w := 0; w < cfg.Writers; w++ {
		g.Go(func() error {
			for i := 0; i < cfg.Writes; i++ {
				if i%ctxCheckInterval == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				store.Insert(GenerateKey(cfg.Prefix, i), i)
				inserts.Inc()
			}
			return nil
		})
	}
	for r := 0; r < cfg.Readers; r++ {
		g.Go(func() error {
			for i := 0; i < cfg.Reads; i++ {
				if i%ctxCheckInterval == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				if _, ok := store.Get(GenerateKey(cfg.Prefix, i)); ok {
					hits.Inc()
				}
				gets.Inc()
			}
			return nil
		})
	}
	err := g.Wait()

	res := Result{
		Strategy: strategy,
		Elapsed:  time.Since(start),
		Inserts:  inserts.Value(),
		Gets:     gets.Value(),
		Hits:     hits.Value(),
		Size:     store.Size(),
	}
	if err != nil {
		return res, err
	}
	if want := ExpectedSize(cfg); res.Size != want {
		return res, fmt.Errorf("%w: %s has %d keys, want %d", ErrSizeMismatch, strategy, res.Size, want)
	}
	return res, nil
}
