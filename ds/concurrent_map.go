package ds

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/cpu"

	"shardbench/util"
)

// DefaultShardCount is the shard count the benchmark driver starts from.
const DefaultShardCount = 300

// ErrInvalidConfig is returned when a map is constructed with a shard count
// below one or without a sharding function.
var ErrInvalidConfig = errors.New("ds: invalid concurrent map config")

type mapShard[K comparable, V any] struct {
	simpleMap map[K]V
	mu        sync.RWMutex // r&w lock for every shard
	_         cpu.CacheLinePad
}

// get gets the value under a given key. Callers hold mu.
func (ms *mapShard[K, V]) get(key K) (V, bool) {
	val, ok := ms.simpleMap[key]
	return val, ok
}

// set stores value under key and returns the value it replaced, if any.
func (ms *mapShard[K, V]) set(key K, value V) (V, bool) {
	prev, ok := ms.simpleMap[key]
	ms.simpleMap[key] = value
	return prev, ok
}

func (ms *mapShard[K, V]) has(key K) bool {
	_, ok := ms.simpleMap[key]
	return ok
}

// pop deletes an element from the shard and returns it.
func (ms *mapShard[K, V]) pop(key K) (V, bool) {
	val, exist := ms.simpleMap[key]
	if exist {
		delete(ms.simpleMap, key)
	}
	return val, exist
}

// ConcurrentMap is a map split into a fixed number of shards, each guarded by
// its own sync.RWMutex. A key is always routed to shard sharding(key) % N, and
// every operation locks exactly one shard, so there is no lock ordering to get
// wrong.
type ConcurrentMap[K comparable, V any] struct {
	shards     []*mapShard[K, V]
	sharding   func(key K) uint64
	shardCount uint64
}

// NewConcurrentMap returns a ConcurrentMap with string keys routed by murmur3.
func NewConcurrentMap[V any](mapShardCount int) (*ConcurrentMap[string, V], error) {
	return NewWithCustomShardingFunction[string, V](mapShardCount, util.Murmur3Sum64)
}

// NewWithCustomShardingFunction creates a new concurrent map. sharding must be
// a pure function of the key.
func NewWithCustomShardingFunction[K comparable, V any](mapShardCount int, sharding func(key K) uint64) (*ConcurrentMap[K, V], error) {
	if mapShardCount < 1 {
		return nil, fmt.Errorf("%w: shard count %d, must be at least 1", ErrInvalidConfig, mapShardCount)
	}
	if sharding == nil {
		return nil, fmt.Errorf("%w: nil sharding function", ErrInvalidConfig)
	}

	cm := &ConcurrentMap[K, V]{
		sharding:   sharding,
		shards:     make([]*mapShard[K, V], mapShardCount),
		shardCount: uint64(mapShardCount),
	}
	for i := 0; i < mapShardCount; i++ {
		cm.shards[i] = &mapShard[K, V]{simpleMap: make(map[K]V)}
	}
	return cm, nil
}

// ShardIndex returns the index of the shard that owns key.
func (cm *ConcurrentMap[K, V]) ShardIndex(key K) int {
	return int(cm.sharding(key) % cm.shardCount)
}

// ShardCount returns the number of shards, fixed at construction.
func (cm *ConcurrentMap[K, V]) ShardCount() int {
	return len(cm.shards)
}

func (cm *ConcurrentMap[K, V]) getShard(key K) *mapShard[K, V] {
	return cm.shards[cm.ShardIndex(key)]
}

// Insert stores value under key. It returns the previous value and true if
// the key was already present.
func (cm *ConcurrentMap[K, V]) Insert(key K, value V) (V, bool) {
	shard := cm.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.set(key, value)
}

// Get gets the value under a given key.
func (cm *ConcurrentMap[K, V]) Get(key K) (V, bool) {
	shard := cm.getShard(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	return shard.get(key)
}

// Has returns if the map contains a specific key.
func (cm *ConcurrentMap[K, V]) Has(key K) bool {
	shard := cm.getShard(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	return shard.has(key)
}

// Remove deletes key and returns the value it held.
func (cm *ConcurrentMap[K, V]) Remove(key K) (V, bool) {
	shard := cm.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.pop(key)
}

// Size returns the number of keys. Shards are counted one at a time, so the
// result is not a snapshot when writers are active.
func (cm *ConcurrentMap[K, V]) Size() int {
	cnt := 0
	for _, shard := range cm.shards {
		shard.mu.RLock()
		cnt += len(shard.simpleMap)
		shard.mu.RUnlock()
	}
	return cnt
}

// ShardSizes returns the number of keys held by each shard, in shard order.
func (cm *ConcurrentMap[K, V]) ShardSizes() []int {
	sizes := make([]int, len(cm.shards))
	for i, shard := range cm.shards {
		shard.mu.RLock()
		sizes[i] = len(shard.simpleMap)
		shard.mu.RUnlock()
	}
	return sizes
}

// Range calls fn for every entry while holding the owning shard's read lock.
// Iteration stops when fn returns false. fn must not write to the map.
func (cm *ConcurrentMap[K, V]) Range(fn func(key K, value V) bool) {
	for _, shard := range cm.shards {
		if !rangeShard(shard, fn) {
			return
		}
	}
}

func rangeShard[K comparable, V any](shard *mapShard[K, V], fn func(key K, value V) bool) bool {
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	for k, v := range shard.simpleMap {
		if !fn(k, v) {
			return false
		}
	}
	return true
}

// Keys returns all keys in no particular order.
func (cm *ConcurrentMap[K, V]) Keys() []K {
	keys := make([]K, 0, cm.Size())
	cm.Range(func(key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Clear removes all entries. The shard count is unchanged.
func (cm *ConcurrentMap[K, V]) Clear() {
	for _, shard := range cm.shards {
		shard.mu.Lock()
		shard.simpleMap = make(map[K]V)
		shard.mu.Unlock()
	}
}
