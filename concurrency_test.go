package stringpool

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestIntern_ConcurrentSameContent(t *testing.T) {
	p := newTestPool(t)

	const goroutines = 8
	const iterations = 200

	var mu sync.Mutex
	seen := make(map[*InternedString]struct{})

	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			for j := 0; j < iterations; j++ {
				h := p.Intern("contended-value")
				if h.String() != "contended-value" {
					return fmt.Errorf("handle holds %q", h.String())
				}
				mu.Lock()
				seen[h] = struct{}{}
				mu.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, p.Size(), "equal content must collapse to one entry")
	assert.Len(t, seen, 1, "every goroutine must receive the same handle")

	// The table reference plus one per successful intern.
	h := p.Intern("contended-value")
	assert.Equal(t, int32(goroutines*iterations+2), h.RefCount())
}

func TestIntern_ConcurrentMixedWorkload(t *testing.T) {
	p := newTestPool(t)

	values := distinctStrings(64)

	var g errgroup.Group

	// Writers intern from a shared value set, dropping some references
	// along the way so collection has work to do.
	for w := 0; w < 4; w++ {
		seed := int64(w + 1)
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 300; i++ {
				s := values[rng.Intn(len(values))]
				h := p.Intern(s)
				if h.String() != s {
					return fmt.Errorf("interned %q, handle holds %q", s, h.String())
				}
				if i%3 == 0 {
					h.Release()
				}
			}
			return nil
		})
	}

	// A collector competes with the writers.
	g.Go(func() error {
		for i := 0; i < 50; i++ {
			p.Collect()
		}
		return nil
	})

	// Readers probe without inserting.
	for r := 0; r < 2; r++ {
		g.Go(func() error {
			for i := 0; i < 300; i++ {
				if h, ok := p.Lookup(values[i%len(values)]); ok {
					if h.String() != values[i%len(values)] {
						return fmt.Errorf("lookup returned wrong content %q", h.String())
					}
					h.Release()
				}
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())

	requireSorted(t, p)
	assert.LessOrEqual(t, p.Size(), len(values), "table may never hold duplicates")

	// The table still answers correctly for every value after the storm.
	for _, s := range values {
		assert.Equal(t, s, p.Intern(s).String())
	}
	requireSorted(t, p)
}

func TestInternedString_ConcurrentAcquireRelease(t *testing.T) {
	p := newTestPool(t)
	h := p.Intern("shared")

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 1000; j++ {
				h.Acquire()
				h.Release()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(2), h.RefCount(), "balanced acquire/release must land on the original count")
}
