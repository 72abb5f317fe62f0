package shardbench

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"shardbench/ds"
	"shardbench/util"
)

// Strategy names a concurrent map implementation under comparison.
type Strategy string

const (
	// StrategySharded is ds.ConcurrentMap: a fixed slice of RWMutex-guarded maps.
	StrategySharded Strategy = "sharded"
	// StrategyLockFree is xsync.MapOf.
	StrategyLockFree Strategy = "lockfree"
)

func (s Strategy) Valid() bool {
	return s == StrategySharded || s == StrategyLockFree
}

// Store is the surface the workload drives. Values are the integer suffix of
// the key that was written.
type Store interface {
	Insert(key string, value int) (int, bool)
	Get(key string) (int, bool)
	Size() int
}

// NewStore builds an empty Store for strategy, sized from cfg.
func NewStore(strategy Strategy, cfg Config) (Store, error) {
	switch strategy {
	case StrategySharded:
		hash, ok := util.HashFunc(util.Hasher(cfg.Hash))
		if !ok {
			return nil, fmt.Errorf("%w: unknown hash %q", ErrInvalidConfig, cfg.Hash)
		}
		cm, err := ds.NewWithCustomShardingFunction[string, int](cfg.Shards, hash)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return cm, nil
	case StrategyLockFree:
		return newLockFreeStore(cfg.Shards), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
}

type lockFreeStore struct {
	m *xsync.MapOf[string, int]
}

func newLockFreeStore(presize int) *lockFreeStore {
	return &lockFreeStore{m: xsync.NewMapOf[string, int](xsync.WithPresize(presize))}
}

func (s *lockFreeStore) Insert(key string, value int) (int, bool) {
	return s.m.LoadAndStore(key, value)
}

func (s *lockFreeStore) Get(key string) (int, bool) {
	return s.m.Load(key)
}

func (s *lockFreeStore) Size() int {
	return s.m.Size()
}
