package engine

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/tensorchess/internal/board"
)

// Number of lock shards (power of 2 for fast modulo)
const cacheShardCount = 64
const cacheShardMask = cacheShardCount - 1

type cacheEntry struct {
	key   uint64 // full hash, verified on probe
	cands []Candidate
}

// RankCache memoizes RankMoves by position hash. It is a fixed-size,
// direct-mapped table: a new entry replaces whatever shared its slot.
// It is safe for concurrent use.
type RankCache struct {
	entries []cacheEntry
	shards  [cacheShardCount]sync.RWMutex
	mask    uint64

	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewRankCache creates a cache with room for about size positions. The size
// is rounded down to a power of two, with a minimum of one slot.
func NewRankCache(size int) *RankCache {
	n := uint64(1)
	if size > 1 {
		n = roundDownToPowerOf2(uint64(size))
	}
	return &RankCache{
		entries: make([]cacheEntry, n),
		mask:    n - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

func rankKey(p *board.Position, color board.Color) uint64 {
	return p.WithTurn(color).Hash()
}

// Probe returns the cached ranking of color's moves in p.
func (rc *RankCache) Probe(p *board.Position, color board.Color) ([]Candidate, bool) {
	rc.probes.Add(1)
	key := rankKey(p, color)
	idx := key & rc.mask
	shard := &rc.shards[idx&cacheShardMask]

	shard.RLock()
	e := rc.entries[idx]
	shard.RUnlock()

	if e.cands == nil || e.key != key {
		return nil, false
	}
	rc.hits.Add(1)
	return e.cands, true
}

// Store records a ranking. The slice must not be modified afterwards.
func (rc *RankCache) Store(p *board.Position, color board.Color, cands []Candidate) {
	if cands == nil {
		cands = []Candidate{}
	}
	key := rankKey(p, color)
	idx := key & rc.mask
	shard := &rc.shards[idx&cacheShardMask]

	shard.Lock()
	rc.entries[idx] = cacheEntry{key: key, cands: cands}
	shard.Unlock()
}

// Rank returns RankMoves(p, color), computing and storing it on a miss.
// Callers receive their own copy.
func (rc *RankCache) Rank(p *board.Position, color board.Color) []Candidate {
	cands, ok := rc.Probe(p, color)
	if !ok {
		cands = RankMoves(p, color)
		rc.Store(p, color, cands)
	}
	out := make([]Candidate, len(cands))
	copy(out, cands)
	return out
}

// Clear empties the cache and resets its statistics.
func (rc *RankCache) Clear() {
	for i := range rc.shards {
		rc.shards[i].Lock()
	}
	for i := range rc.entries {
		rc.entries[i] = cacheEntry{}
	}
	for i := range rc.shards {
		rc.shards[i].Unlock()
	}
	rc.hits.Store(0)
	rc.probes.Store(0)
}

// Len returns the number of slots.
func (rc *RankCache) Len() int {
	return len(rc.entries)
}

// HitRate returns the fraction of probes that hit.
func (rc *RankCache) HitRate() float64 {
	probes := rc.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(rc.hits.Load()) / float64(probes)
}
