package util

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashFunc(t *testing.T) {
	tests := []struct {
		name   Hasher
		wantOk bool
	}{
		{name: HasherMurmur3, wantOk: true},
		{name: HasherXXH3, wantOk: true},
		{name: "fnv", wantOk: false},
		{name: "", wantOk: false},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			fn, ok := HashFunc(tt.name)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantOk, fn != nil)
		})
	}
}

func TestHashIsStateless(t *testing.T) {
	for _, fn := range []func(string) uint64{Murmur3Sum64, XXH3Sum64} {
		first := fn("halo_42")
		for i := 0; i < 100; i++ {
			fn("halo_" + strconv.Itoa(i))
		}
		assert.Equal(t, first, fn("halo_42"))
	}
}

func TestHashDistribution(t *testing.T) {
	const (
		buckets = 300
		keys    = 2000
	)
	for name, fn := range map[string]func(string) uint64{"murmur3": Murmur3Sum64, "xxh3": XXH3Sum64} {
		t.Run(name, func(t *testing.T) {
			counts := make([]int, buckets)
			for i := 0; i < keys; i++ {
				counts[fn("halo_"+strconv.Itoa(i))%buckets]++
			}
			empty, hottest := 0, 0
			for _, c := range counts {
				if c == 0 {
					empty++
				}
				if c > hottest {
					hottest = c
				}
			}
			// mean load is ~6.7 keys per bucket
			assert.Less(t, hottest, 25)
			assert.Less(t, empty, 10)
		})
	}
}

func TestStringToByte(t *testing.T) {
	assert.Nil(t, StringToByte(""))
	assert.Equal(t, []byte("halo_1"), StringToByte("halo_1"))
}
