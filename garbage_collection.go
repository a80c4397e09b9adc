package stringpool

import (
	"sync/atomic"
	"time"
)

// saturationWarnInterval paces the log line emitted when collection cannot
// shrink an over-threshold table because every entry is still referenced.
const saturationWarnInterval = time.Minute

// collectIfDue runs a collection pass when both triggers hold: the table
// has grown past the configured threshold and the configured interval has
// elapsed since the previous pass. A pass always resets the interval, so a
// busy pool pays for at most one sweep per interval.
// Must be called with p.mu held.
func (p *Pool) collectIfDue() {
	if len(p.table) <= p.gcThreshold {
		return
	}
	if p.clock.Now().Sub(p.lastCollection) < p.gcInterval {
		return
	}
	p.collectLocked()
}

// Collect forces a collection pass immediately, ignoring the size and
// interval triggers, and returns the number of entries evicted.
//
// Content evicted here comes back as a fresh handle on its next intern,
// so callers must not expect identity across a forced pass for strings
// they hold no reference to.
func (p *Pool) Collect() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.collectLocked()
}

// collectLocked sweeps the table backward and removes every entry whose
// only remaining reference is the table's own. Walking backward keeps the
// index shifts from removals behind the scan position.
//
// The pass timestamp is refreshed whether or not anything was evicted, so
// a fruitless pass still opens a full interval before the next attempt.
// Must be called with p.mu held.
func (p *Pool) collectLocked() int {
	evicted := 0
	for i := len(p.table) - 1; i >= 0; i-- {
		entry := p.table[i]
		if atomic.LoadInt32(&entry.refCount) > 1 {
			continue
		}
		// The table holds the only reference, and reviving an entry
		// requires this lock, so the entry cannot come back to life
		// between the check and the removal.
		atomic.AddInt32(&entry.refCount, -1)
		atomic.AddInt64(&p.counters.BytesTabled, -int64(len(entry.content)))

		copy(p.table[i:], p.table[i+1:])
		p.table[len(p.table)-1] = nil
		p.table = p.table[:len(p.table)-1]
		evicted++
	}

	p.lastCollection = p.clock.Now()
	atomic.AddUint64(&p.counters.Collections, 1)

	if evicted > 0 {
		atomic.AddUint64(&p.counters.Evictions, uint64(evicted))
		p.logger.Debugf("pool %s: collection evicted %d entries, %d remain", p.id, evicted, len(p.table))
	} else if len(p.table) > p.gcThreshold && p.warnLimiter.Allow() {
		p.logger.Infof("pool %s: collection evicted nothing, %d entries all referenced", p.id, len(p.table))
	}
	return evicted
}
