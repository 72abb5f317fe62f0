package util

import (
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Murmur3Sum64 returns the 64-bit murmur3 hash of key. It keeps no state
// between calls, so the same key always hashes to the same value.
func Murmur3Sum64(key string) uint64 {
	return murmur3.Sum64(StringToByte(key))
}

// XXH3Sum64 returns the 64-bit xxh3 hash of key.
func XXH3Sum64(key string) uint64 {
	return xxh3.HashString(key)
}

// Hasher names a string hash usable for shard routing.
type Hasher string

const (
	HasherMurmur3 Hasher = "murmur3"
	HasherXXH3    Hasher = "xxh3"
)

// HashFunc returns the hash function registered under name, or false.
func HashFunc(name Hasher) (func(string) uint64, bool) {
	switch name {
	case HasherMurmur3:
		return Murmur3Sum64, true
	case HasherXXH3:
		return XXH3Sum64, true
	}
	return nil, false
}
