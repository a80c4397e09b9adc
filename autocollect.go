package stringpool

import (
	"sync"
	"time"
)

// collectorTask periodically forces collection passes on its pool. It is
// the background counterpart to the trigger on the intern path, for
// workloads that intern in bursts and then go quiet without ever tripping
// the in-line check again.
type collectorTask struct {
	pool     *Pool
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func newCollectorTask(p *Pool, interval time.Duration) *collectorTask {
	return &collectorTask{
		pool:     p,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the background collection loop.
func (t *collectorTask) Start() {
	t.wg.Add(1)
	go t.run()
}

// Stop terminates the loop and waits for it to exit. Safe to call more
// than once.
func (t *collectorTask) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
	})
	t.wg.Wait()
}

// run drives the ticker until stopped. The ticker comes from the pool's
// clock, so tests drive it with a mock.
func (t *collectorTask) run() {
	defer t.wg.Done()

	t.pool.logger.Infof("pool %s: background collector started, interval %s", t.pool.id, t.interval)
	ticker := t.pool.clock.Ticker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.pool.Collect()
		case <-t.stopChan:
			t.pool.logger.Infof("pool %s: background collector stopped", t.pool.id)
			return
		}
	}
}
