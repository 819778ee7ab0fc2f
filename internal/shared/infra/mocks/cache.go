package mocks

import (
	"context"
	"encoding/json"
	"sync"

	sharedCache "github.com/davicafu/devcamper/internal/shared/infra/platform/cache"
)

// DummyCache guarda los valores como JSON, igual que los backends reales, e ignora el TTL.
// Lleva la cuenta de hits y misses para comprobar el cache-aside en los tests.
type DummyCache struct {
	mu      sync.RWMutex
	entries map[string]json.RawMessage
	hits    int
	misses  int
}

var _ sharedCache.Cache = (*DummyCache)(nil)

func NewDummyCache() *DummyCache {
	return &DummyCache{entries: map[string]json.RawMessage{}}
}

func (c *DummyCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	raw, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *DummyCache) Set(_ context.Context, key string, val interface{}, _ int) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *DummyCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Has sirve con assert.Eventually, ya que los servicios escriben en background.
func (c *DummyCache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Stats devuelve hits y misses acumulados.
func (c *DummyCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
