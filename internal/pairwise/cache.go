package pairwise

import (
	"bytes"
	"sync"

	"github.com/zeebo/wyhash"

	"github.com/aria-lang/compseq-go/internal/alignment"
	"github.com/aria-lang/compseq-go/internal/metrics"
)

const (
	seedX = 1
	seedY = 2
)

type cacheKey struct {
	hx, hy uint64
	mode   alignment.Mode
}

type value struct {
	metrics.Result
	cigar string
}

type entry struct {
	x, y []byte
	v    value
}

// cache remembers the metrics of pairs already aligned, so duplicated
// sequences in the input are aligned once per distinct pair of contents.
type cache struct {
	mu      sync.Mutex
	entries map[cacheKey][]entry

	hits, misses int
}

func newCache() *cache {
	return &cache{entries: make(map[cacheKey][]entry)}
}

func key(x, y []byte, mode alignment.Mode) cacheKey {
	return cacheKey{hx: wyhash.Hash(x, seedX), hy: wyhash.Hash(y, seedY), mode: mode}
}

func (c *cache) get(x, y []byte, mode alignment.Mode) (value, bool) {
	k := key(x, y, mode)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries[k] {
		if bytes.Equal(e.x, x) && bytes.Equal(e.y, y) {
			c.hits++
			return e.v, true
		}
	}
	c.misses++
	return value{}, false
}

func (c *cache) put(x, y []byte, mode alignment.Mode, v value) {
	k := key(x, y, mode)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries[k] {
		if bytes.Equal(e.x, x) && bytes.Equal(e.y, y) {
			return
		}
	}
	c.entries[k] = append(c.entries[k], entry{x: x, y: y, v: v})
}
