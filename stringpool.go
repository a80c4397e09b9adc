// Package stringpool provides process-wide string interning. A pool keeps
// one canonical copy of every string handed to it and returns shared
// reference-counted handles, so equal content costs one allocation no
// matter how many holders it has and comparisons between interned strings
// become pointer comparisons.
//
// The table is kept sorted and searched by binary search rather than
// hashed, so entries can be enumerated in order and lookups never degrade
// on adversarial key sets. Entries whose only remaining reference is the
// table's own are removed by collection passes, which the intern path
// triggers itself once the table is big enough and a pass has not run
// recently.
package stringpool

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Pool is a single interning table. The zero value is not usable; create
// pools with NewPool or through the registry.
//
// One mutex guards the table and the collection timestamp together. The
// collection trigger check runs inside the same critical section as the
// lookup, so no intern path ever takes the lock twice.
type Pool struct {
	mu             sync.Mutex
	table          []*InternedString
	lastCollection time.Time

	gcThreshold int
	gcInterval  time.Duration

	clock       clock.Clock
	logger      Logger
	warnLimiter *rate.Limiter
	counters    poolCounters

	id        string
	collector *collectorTask
}

// NewPool creates a pool from cfg. A nil cfg uses CreateConfig defaults.
// Invalid configurations return an error rather than a half-configured
// pool. When cfg enables AutoCollect the background collector starts
// immediately; Close stops it.
func NewPool(cfg *Config) (*Pool, error) {
	return newPool(cfg, clock.New())
}

// newPool exists so tests can supply a mock clock.
func newPool(cfg *Config, clk clock.Clock) (*Pool, error) {
	if cfg == nil {
		cfg = CreateConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pool configuration: %w", err)
	}

	var logger Logger
	if ParseLogLevel(cfg.LogLevel) == LogLevelNone {
		logger = GetSingletonNoOpLogger()
	} else {
		logger = NewLogger(cfg.LogLevel)
	}

	p := &Pool{
		gcThreshold: cfg.GCThreshold,
		gcInterval:  cfg.gcInterval(),
		clock:       clk,
		logger:      logger,
		warnLimiter: rate.NewLimiter(rate.Every(saturationWarnInterval), 1),
		id:          uuid.NewString(),
	}
	// The first interval starts at creation, so a fresh pool never
	// collects before gcInterval has genuinely passed.
	p.lastCollection = clk.Now()

	if cfg.AutoCollect {
		p.collector = newCollectorTask(p, cfg.autoCollectInterval())
		p.collector.Start()
	}
	return p, nil
}

// Intern returns the shared handle for s, inserting it on first sight.
// The returned handle carries a reference owned by the caller.
func (p *Pool) Intern(s string) *InternedString {
	return p.intern(spanFromString(s))
}

// InternBytes returns the shared handle for the content of b. The bytes
// are copied only when the content was not already tabled; b itself is
// never retained and may be reused by the caller immediately.
func (p *Pool) InternBytes(b []byte) *InternedString {
	return p.intern(spanFromBytes(b))
}

// InternRange interns s[start:end). Bounds are clamped to the string and
// an inverted range is treated as empty, so every range is a valid input.
func (p *Pool) InternRange(s string, start, end int) *InternedString {
	return p.intern(spanFromStringRange(s, start, end))
}

// InternBytesRange interns b[start:end) with the clamping of InternRange
// and the copy discipline of InternBytes.
func (p *Pool) InternBytesRange(b []byte, start, end int) *InternedString {
	return p.intern(spanFromBytesRange(b, start, end))
}

func (p *Pool) intern(sp span) *InternedString {
	atomic.AddUint64(&p.counters.Interns, 1)
	if sp.empty() {
		atomic.AddUint64(&p.counters.EmptyInterns, 1)
		return Empty
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.collectIfDue()
	return p.lookupOrInsert(sp)
}

// lookupOrInsert returns the tabled entry equal to sp, or inserts a new
// one at its sorted position. The search keeps half-open [start, end)
// bounds and compares the front of the range first, so a hit at the range
// boundary exits without bisecting and the collapse to a single element
// decides the insert position from the comparison already made.
// Must be called with p.mu held.
func (p *Pool) lookupOrInsert(sp span) *InternedString {
	start, end := 0, len(p.table)
	for {
		if start >= end {
			// Empty table; a non-empty range never exhausts itself
			// because the bounds below always keep at least one element.
			return p.insertAt(start, sp)
		}

		cmp := sp.compare(p.table[start].content)
		if cmp == 0 {
			atomic.AddUint64(&p.counters.Hits, 1)
			return p.table[start].Acquire()
		}

		halfway := (start + end) / 2
		if halfway == start {
			// Down to one element and it was not equal; the input
			// belongs directly before or after it.
			if cmp < 0 {
				return p.insertAt(start, sp)
			}
			return p.insertAt(start+1, sp)
		}

		entry := p.table[halfway]
		switch c := sp.compare(entry.content); {
		case c == 0:
			atomic.AddUint64(&p.counters.Hits, 1)
			return entry.Acquire()
		case c < 0:
			end = halfway
		default:
			start = halfway
		}
	}
}

// insertAt places a new entry at position i, shifting the tail up one
// slot. Must be called with p.mu held.
func (p *Pool) insertAt(i int, sp span) *InternedString {
	entry := newInternedString(sp.own())
	p.table = append(p.table, nil)
	copy(p.table[i+1:], p.table[i:])
	p.table[i] = entry

	atomic.AddUint64(&p.counters.Inserts, 1)
	atomic.AddInt64(&p.counters.BytesTabled, int64(len(entry.content)))
	return entry
}

// Lookup returns the handle for s only if s is already tabled. A hit
// behaves exactly like Intern, including the caller reference; a miss
// changes nothing and returns false.
func (p *Pool) Lookup(s string) (*InternedString, bool) {
	if len(s) == 0 {
		return Empty, true
	}
	sp := spanFromString(s)

	p.mu.Lock()
	defer p.mu.Unlock()
	start, end := 0, len(p.table)
	for start < end {
		halfway := (start + end) / 2
		switch c := sp.compare(p.table[halfway].content); {
		case c == 0:
			atomic.AddUint64(&p.counters.Hits, 1)
			return p.table[halfway].Acquire(), true
		case c < 0:
			end = halfway
		default:
			start = halfway + 1
		}
	}
	return nil, false
}

// Size returns the number of tabled entries.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.table)
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() PoolStats {
	return p.counters.GetStats(p.Size())
}

// ID returns the pool's instance identifier, unique per created pool.
func (p *Pool) ID() string {
	return p.id
}

// Close stops the pool's background collector if one is running and waits
// for it to exit. The pool itself stays usable afterwards; tabled entries
// and outstanding handles are unaffected. Close is idempotent.
func (p *Pool) Close() error {
	if p.collector != nil {
		p.collector.Stop()
	}
	return nil
}
