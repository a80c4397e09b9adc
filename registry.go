package stringpool

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// DefaultPoolName is the name under which Default's pool is registered.
const DefaultPoolName = "default"

// ErrShutdownTimeout is returned when registry shutdown exceeds its
// context deadline.
var ErrShutdownTimeout = &shutdownTimeoutError{}

type shutdownTimeoutError struct{}

func (e *shutdownTimeoutError) Error() string {
	return "shutdown timeout: background collectors did not stop in time"
}

// ErrRegistryClosed is returned when a pool is requested from a registry
// that has been shut down.
var ErrRegistryClosed = errors.New("registry is shut down")

// Registry owns the process's named pools. Each name maps to one pool for
// the registry's lifetime, so packages that agree on a name share a table
// without passing pool handles around.
type Registry struct {
	mu       sync.RWMutex
	pools    map[string]*Pool
	shutdown int32
}

var (
	// globalRegistry is the process-wide registry instance
	globalRegistry *Registry
	// registryOnce ensures single initialization
	registryOnce sync.Once
)

// GetRegistry returns the process-wide registry, creating it on first use.
func GetRegistry() *Registry {
	registryOnce.Do(func() {
		globalRegistry = &Registry{
			pools: make(map[string]*Pool),
		}
	})
	return globalRegistry
}

// Default returns the process-wide default pool, creating it with default
// configuration on first use. It panics only when the registry has been
// shut down, which means interning after process teardown began.
func Default() *Pool {
	return GetRegistry().MustPool(DefaultPoolName)
}

// Pool returns the named pool, creating it with default configuration on
// first use.
func (r *Registry) Pool(name string) (*Pool, error) {
	if atomic.LoadInt32(&r.shutdown) == 1 {
		return nil, ErrRegistryClosed
	}

	r.mu.RLock()
	p, exists := r.pools[name]
	r.mu.RUnlock()
	if exists {
		return p, nil
	}
	return r.create(name, CreateConfig(), false)
}

// MustPool is Pool for callers who know the registry is live; it panics
// instead of returning an error.
func (r *Registry) MustPool(name string) *Pool {
	p, err := r.Pool(name)
	if err != nil {
		panic(fmt.Sprintf("stringpool: pool %s: %v", name, err))
	}
	return p
}

// RegisterPool creates the named pool with an explicit configuration. It
// fails when the name is already taken, so configured pools cannot be
// silently replaced by a get-or-create racing ahead.
func (r *Registry) RegisterPool(name string, cfg *Config) (*Pool, error) {
	if atomic.LoadInt32(&r.shutdown) == 1 {
		return nil, ErrRegistryClosed
	}
	return r.create(name, cfg, true)
}

// create inserts a pool under name. The shutdown flag is re-checked under
// the write lock so a pool can never slip into a registry that Shutdown
// has already drained.
func (r *Registry) create(name string, cfg *Config, exclusive bool) (*Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if atomic.LoadInt32(&r.shutdown) == 1 {
		return nil, ErrRegistryClosed
	}
	if p, exists := r.pools[name]; exists {
		if exclusive {
			return nil, fmt.Errorf("pool %q already registered", name)
		}
		return p, nil
	}

	p, err := NewPool(cfg)
	if err != nil {
		return nil, err
	}
	r.pools[name] = p
	return p, nil
}

// Pools returns the names of all registered pools, sorted.
func (r *Registry) Pools() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.pools))
	for name := range r.pools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shutdown closes every registered pool, stopping their background
// collectors, and waits for them within the context deadline. Afterwards
// the registry refuses new pools; existing pools and handles keep
// working, since tabled content needs no teardown. A second Shutdown
// returns nil immediately.
func (r *Registry) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&r.shutdown, 0, 1) {
		return nil
	}

	r.mu.Lock()
	pools := make([]*Pool, 0, len(r.pools))
	for _, p := range r.pools {
		pools = append(pools, p)
	}
	r.pools = make(map[string]*Pool)
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, p := range pools {
			_ = p.Close()
		}
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ErrShutdownTimeout
	}
}

// ResetRegistryForTesting drops the process registry so tests start from
// a clean slate. Pools it held are closed; outstanding handles stay
// valid.
func ResetRegistryForTesting() {
	if globalRegistry != nil {
		_ = globalRegistry.Shutdown(context.Background())
	}
	globalRegistry = nil
	registryOnce = sync.Once{}
}

// Intern interns s in the process-wide default pool.
func Intern(s string) *InternedString {
	return Default().Intern(s)
}

// InternBytes interns the content of b in the process-wide default pool.
func InternBytes(b []byte) *InternedString {
	return Default().InternBytes(b)
}

// Collect forces a collection pass on the process-wide default pool and
// returns the number of entries evicted.
func Collect() int {
	return Default().Collect()
}
