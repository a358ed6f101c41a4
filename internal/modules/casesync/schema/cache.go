package schema

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache compiles the whole schema set on first use and keeps it for the life of the
// process. Concurrent first callers share one build; a failed build is not stored.
type Cache struct {
	loader Loader
	group  singleflight.Group

	mu    sync.RWMutex
	built map[string]*Validator
}

func NewCache(loader Loader) *Cache {
	if loader == nil {
		loader = EmbeddedLoader{}
	}
	return &Cache{loader: loader}
}

var (
	defaultOnce  sync.Once
	defaultCache *Cache
)

// Default is the process-wide cache over the embedded schemas.
func Default() *Cache {
	defaultOnce.Do(func() {
		defaultCache = NewCache(EmbeddedLoader{})
	})
	return defaultCache
}

// Validator returns the compiled validator for name, building the set if needed.
func (c *Cache) Validator(ctx context.Context, name string) (*Validator, error) {
	set, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	v, ok := set[name]
	if !ok {
		return nil, fmt.Errorf("schema %q not found", name)
	}
	return v, nil
}

// Warm forces the build so startup can fail fast.
func (c *Cache) Warm(ctx context.Context) error {
	_, err := c.load(ctx)
	return err
}

func (c *Cache) load(ctx context.Context) (map[string]*Validator, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.mu.RLock()
	set := c.built
	c.mu.RUnlock()
	if set != nil {
		return set, nil
	}

	ch := c.group.DoChan("build", func() (interface{}, error) {
		c.mu.RLock()
		existing := c.built
		c.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}
		// The build outlives any single waiter's context.
		docs, err := c.loader.LoadAll(context.WithoutCancel(ctx))
		if err != nil {
			return nil, fmt.Errorf("load schemas: %w", err)
		}
		compiled, err := compile(docs)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.built = compiled
		c.mu.Unlock()
		return compiled, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("build schema validators: %w", res.Err)
		}
		return res.Val.(map[string]*Validator), nil
	}
}
