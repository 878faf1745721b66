package storage

import (
	"sync"

	"stock-trend/src/models"
)

// MemoryPriceCache is a mutex-guarded map keyed by the fetch tuple.
type MemoryPriceCache struct {
	mu      sync.RWMutex
	entries map[string]*models.MPriceSeries
}

func NewMemoryPriceCache() *MemoryPriceCache {
	return &MemoryPriceCache{entries: make(map[string]*models.MPriceSeries)}
}

func (c *MemoryPriceCache) Initialize() error {
	c.mu.Lock()
	c.entries = make(map[string]*models.MPriceSeries)
	c.mu.Unlock()
	return nil
}

func (c *MemoryPriceCache) Get(key models.MFetchKey) (*models.MPriceSeries, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[key.String()]
	return s, ok, nil
}

func (c *MemoryPriceCache) Put(key models.MFetchKey, series *models.MPriceSeries) error {
	c.mu.Lock()
	c.entries[key.String()] = series
	c.mu.Unlock()
	return nil
}

func (c *MemoryPriceCache) Len() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

func (c *MemoryPriceCache) Backend() string { return "memory" }

func (c *MemoryPriceCache) Close() error { return nil }
