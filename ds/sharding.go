package ds

// Integer is the set of key types IntegerSharding accepts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// IntegerSharding routes integer keys by their own value, mixed with a
// 64-bit finalizer so sequential keys do not land on adjacent shards in
// lockstep.
func IntegerSharding[K Integer](key K) uint64 {
	h := uint64(key)
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}
