package stringpool

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClockPool(t *testing.T, cfg *Config) (*Pool, *clock.Mock) {
	t.Helper()
	if cfg == nil {
		cfg = CreateConfig()
	}
	cfg.LogLevel = "none"
	mock := clock.NewMock()
	p, err := newPool(cfg, mock)
	require.NoError(t, err, "pool creation must succeed")
	t.Cleanup(func() { _ = p.Close() })
	return p, mock
}

// internReleased inserts values and immediately drops the caller
// reference, leaving each entry held only by the table.
func internReleased(p *Pool, values []string) {
	for _, s := range values {
		p.Intern(s).Release()
	}
}

func TestCollection_NotTriggeredAtThresholdSize(t *testing.T) {
	p, mock := newMockClockPool(t, nil)

	// Exactly the threshold number of entries: the size trigger demands
	// strictly more.
	internReleased(p, distinctStrings(300))
	mock.Add(2 * p.gcInterval)

	p.Intern("one-more").Release()

	assert.Equal(t, uint64(0), p.Stats().Collections, "no pass may run at threshold size")
	assert.Equal(t, 301, p.Size())
}

func TestCollection_NotTriggeredBeforeInterval(t *testing.T) {
	p, _ := newMockClockPool(t, nil)

	internReleased(p, distinctStrings(301))

	// Over the size threshold, but no time has passed since creation.
	p.Intern("too-soon").Release()

	assert.Equal(t, uint64(0), p.Stats().Collections, "no pass may run before the interval elapses")
	assert.Equal(t, 302, p.Size())
}

func TestCollection_TriggersAtExactBoundary(t *testing.T) {
	p, mock := newMockClockPool(t, nil)

	internReleased(p, distinctStrings(301))

	// One millisecond short of the interval: still no pass.
	mock.Add(p.gcInterval - time.Millisecond)
	p.Intern("almost").Release()
	require.Equal(t, uint64(0), p.Stats().Collections)
	require.Equal(t, 302, p.Size())

	// Exactly the interval with 302 > 300 entries: the pass runs before
	// the lookup and sweeps everything the table alone holds.
	mock.Add(time.Millisecond)
	h := p.Intern("exact")

	stats := p.Stats()
	assert.Equal(t, uint64(1), stats.Collections)
	assert.Equal(t, uint64(302), stats.Evictions, "all released entries are swept")
	assert.Equal(t, 1, p.Size(), "only the triggering intern survives")
	assert.Equal(t, "exact", h.String())
}

func TestCollect_RespectsOutstandingReferences(t *testing.T) {
	p, _ := newMockClockPool(t, nil)

	held := p.Intern("held")
	dropped := p.Intern("dropped")
	dropped.Release()

	evicted := p.Collect()
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, p.Size())

	// The held entry keeps its identity across the pass.
	assert.Same(t, held, p.Intern("held"), "held entry must survive collection")

	// The evicted handle stays readable, but the content re-interns as a
	// fresh entry.
	assert.Equal(t, "dropped", dropped.String())
	fresh := p.Intern("dropped")
	assert.NotSame(t, dropped, fresh, "evicted content must come back under a new identity")

	stats := p.Stats()
	wantBytes := int64(len("held") + len("dropped"))
	assert.Equal(t, wantBytes, stats.BytesTabled, "byte accounting must follow evictions and inserts")
}

func TestCollect_EmptyPool(t *testing.T) {
	p, _ := newMockClockPool(t, nil)
	assert.Equal(t, 0, p.Collect())
	assert.Equal(t, uint64(1), p.Stats().Collections, "a fruitless pass still counts")
}

func TestCollection_FruitlessPassStillResetsInterval(t *testing.T) {
	cfg := CreateConfig()
	cfg.GCThreshold = 1
	cfg.GCIntervalMs = 1000
	p, mock := newMockClockPool(t, cfg)

	handles := []*InternedString{
		p.Intern("aaa"), p.Intern("bbb"), p.Intern("ccc"),
	}

	// First pass: due, but every entry is held, so nothing moves except
	// the timestamp.
	mock.Add(time.Second)
	handles = append(handles, p.Intern("ddd"))
	require.Equal(t, uint64(1), p.Stats().Collections)
	require.Equal(t, 4, p.Size())

	// Half an interval later nothing is due, because the fruitless pass
	// reset the clock.
	mock.Add(500 * time.Millisecond)
	handles = append(handles, p.Intern("eee"))
	assert.Equal(t, uint64(1), p.Stats().Collections, "a pass within the interval would mean the timestamp was not reset")

	mock.Add(500 * time.Millisecond)
	handles = append(handles, p.Intern("fff"))
	assert.Equal(t, uint64(2), p.Stats().Collections)

	for _, h := range handles {
		assert.Equal(t, int32(2), h.RefCount(), "held entries must be untouched by fruitless passes")
	}
}

func TestCollect_SweepsOnlyUnreferencedAmongMixed(t *testing.T) {
	p, _ := newMockClockPool(t, nil)

	values := distinctStrings(10)
	handles := make([]*InternedString, len(values))
	for i, s := range values {
		handles[i] = p.Intern(s)
	}
	// Drop every even-indexed reference.
	for i := 0; i < len(handles); i += 2 {
		handles[i].Release()
	}

	assert.Equal(t, 5, p.Collect())
	assert.Equal(t, 5, p.Size())
	requireSorted(t, p)

	for i := 1; i < len(handles); i += 2 {
		assert.Same(t, handles[i], p.Intern(values[i]), "surviving entry lost its identity")
	}
}

func TestCollect_SaturationWarningIsRateLimited(t *testing.T) {
	cfg := CreateConfig()
	cfg.GCThreshold = 1
	p, _ := newMockClockPool(t, cfg)

	var buf bytes.Buffer
	p.logger = NewStandardLogger("info", &buf, &buf, nil)

	// Three held entries over a threshold of one: passes cannot shrink
	// the table.
	p.Intern("one")
	p.Intern("two")
	p.Intern("three")

	p.Collect()
	p.Collect()
	p.Collect()

	warnings := strings.Count(buf.String(), "evicted nothing")
	assert.Equal(t, 1, warnings, "repeated saturated passes must not repeat the warning")
}
