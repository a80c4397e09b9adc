package stringpool

import "sync/atomic"

// poolCounters holds a pool's live counters. All updates go through
// sync/atomic so the fast paths never take the pool lock just to count.
type poolCounters struct {
	Interns      uint64
	EmptyInterns uint64
	Hits         uint64
	Inserts      uint64
	Evictions    uint64
	Collections  uint64
	BytesTabled  int64
}

// PoolStats is a point-in-time snapshot of a pool's counters.
type PoolStats struct {
	// Interns counts intern requests across all four input shapes,
	// including those short-circuited to Empty.
	Interns uint64 `json:"interns"`
	// EmptyInterns counts requests answered with Empty without touching
	// the table.
	EmptyInterns uint64 `json:"emptyInterns"`
	// Hits counts lookups that found an existing entry.
	Hits uint64 `json:"hits"`
	// Inserts counts lookups that created a new entry.
	Inserts uint64 `json:"inserts"`
	// Evictions counts entries removed by collection passes.
	Evictions uint64 `json:"evictions"`
	// Collections counts collection passes, fruitful or not.
	Collections uint64 `json:"collections"`
	// BytesTabled is the content bytes currently held by the table.
	BytesTabled int64 `json:"bytesTabled"`
	// Size is the number of tabled entries at snapshot time.
	Size int `json:"size"`
}

// GetStats assembles a snapshot. Counters are loaded individually, so a
// snapshot taken under concurrent traffic is internally consistent per
// field, not across fields.
func (c *poolCounters) GetStats(size int) PoolStats {
	return PoolStats{
		Interns:      atomic.LoadUint64(&c.Interns),
		EmptyInterns: atomic.LoadUint64(&c.EmptyInterns),
		Hits:         atomic.LoadUint64(&c.Hits),
		Inserts:      atomic.LoadUint64(&c.Inserts),
		Evictions:    atomic.LoadUint64(&c.Evictions),
		Collections:  atomic.LoadUint64(&c.Collections),
		BytesTabled:  atomic.LoadInt64(&c.BytesTabled),
		Size:         size,
	}
}
