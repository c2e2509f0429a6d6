package db

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/airenas/batch-transcriber-wrapper/internal/api"
)

type cacheEntry struct {
	data    []byte
	savedAt time.Time
}

// MemoryResultCache keeps completed job results in process memory.
// Used when no Redis connection is configured.
type MemoryResultCache struct {
	data map[string]cacheEntry
	ttl  time.Duration
	now  func() time.Time

	lock sync.RWMutex
}

// NewMemoryResultCache creates an in-memory result cache
func NewMemoryResultCache(ttl time.Duration) *MemoryResultCache {
	return &MemoryResultCache{
		data: make(map[string]cacheEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns a cached result or nil when there is none or it expired
func (mc *MemoryResultCache) Get(ctx context.Context, id string) (*api.JobResult, error) {
	mc.lock.RLock()
	e, ok := mc.data[id]
	mc.lock.RUnlock()
	if !ok {
		return nil, nil
	}
	if mc.now().After(e.savedAt.Add(mc.ttl)) {
		mc.lock.Lock()
		delete(mc.data, id)
		mc.lock.Unlock()
		return nil, nil
	}
	var res api.JobResult
	if err := json.Unmarshal(e.data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Save stores a result with the configured TTL
func (mc *MemoryResultCache) Save(ctx context.Context, id string, res *api.JobResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	mc.lock.Lock()
	defer mc.lock.Unlock()
	mc.data[id] = cacheEntry{data: data, savedAt: mc.now()}
	return nil
}

func (mc *MemoryResultCache) Close() error {
	return nil
}
