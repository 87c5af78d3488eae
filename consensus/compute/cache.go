// Copyright 2020 The go-simplechain Authors
// This file is part of the go-powcore library.
//
// The go-powcore library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-powcore library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-powcore library. If not, see <http://www.gnu.org/licenses/>.

package compute

import (
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/hashicorp/golang-lru/simplelru"
)

// ResourceCache tracks the datasets of recent epochs by their last use time,
// keeping at most a fixed number of them. Lookups, constructions, insertions
// and evictions all run under a single lock, so a dataset is never built twice
// for the same key while it is cached.
type ResourceCache struct {
	primitive Primitive
	capacity  int

	lock     sync.Mutex     // Guards every field below, held across dataset construction
	cache    *simplelru.LRU // Datasets keyed by epoch key
	size     uint64         // Total bytes held by cached datasets
	poisoned bool           // Set if a construction panicked while the lock was held
}

// NewResourceCache creates a least-recently-used dataset cache holding up to
// capacity datasets built by the given primitive.
func NewResourceCache(primitive Primitive, capacity int) *ResourceCache {
	if capacity <= 0 {
		log.Warn("One dataset must always be cached", "requested", capacity)
		capacity = 1
	}
	c := &ResourceCache{primitive: primitive, capacity: capacity}
	c.cache, _ = simplelru.NewLRU(capacity, c.evicted)
	return c
}

// evicted is called by the LRU with the lock held whenever a dataset drops out
// of the cache. Workers still bound to it keep it alive.
func (c *ResourceCache) evicted(key, value interface{}) {
	ds := value.(Dataset)
	c.size -= ds.Size()
	datasetEvictMeter.Mark(1)
	datasetSizeGauge.Update(int64(c.size))

	log.Debug("Evicted dataset", "key", key.(common.Hash), "size", common.StorageSize(ds.Size()))
}

// GetOrCreate returns the dataset for the given epoch key, generating and
// caching it first if it is not already present. A hit marks the key as the
// most recently used one.
func (c *ResourceCache) GetOrCreate(key common.Hash) (Dataset, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.poisoned {
		return nil, ErrCachePoisoned
	}
	if item, ok := c.cache.Get(key); ok {
		datasetHitMeter.Mark(1)
		return item.(Dataset), nil
	}
	log.Info("Generating new dataset", "key", key)

	start := time.Now()
	ds, err := c.build(key)
	if err != nil {
		log.Error("Failed to generate dataset", "key", key, "err", err)
		return nil, err
	}
	datasetBuildMeter.Mark(1)
	datasetBuildTimer.UpdateSince(start)

	c.cache.Add(key, ds)
	c.size += ds.Size()
	datasetSizeGauge.Update(int64(c.size))

	log.Debug("Generated dataset", "key", key, "size", common.StorageSize(ds.Size()), "elapsed", common.PrettyDuration(time.Since(start)))
	return ds, nil
}

// build runs the primitive's dataset generation. It must be called with the
// lock held. A panic escaping the primitive poisons the cache before it
// unwinds through the caller.
func (c *ResourceCache) build(key common.Hash) (ds Dataset, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.poisoned = true
			log.Error("Dataset generation panicked, cache poisoned", "key", key, "panic", r)
			panic(r)
		}
	}()
	ds, err = c.primitive.BuildDataset(key)
	if err != nil {
		return nil, fmt.Errorf("%w: key %x: %v", ErrDatasetConstruction, key, err)
	}
	if ds == nil {
		return nil, fmt.Errorf("%w: key %x: nil dataset", ErrDatasetConstruction, key)
	}
	return ds, nil
}

// Contains reports whether a dataset for key is cached, without updating its
// recency.
func (c *ResourceCache) Contains(key common.Hash) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.cache.Contains(key)
}

// Keys returns the cached epoch keys, from the least to the most recently used.
func (c *ResourceCache) Keys() []common.Hash {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := c.cache.Keys()
	hashes := make([]common.Hash, 0, len(keys))
	for _, key := range keys {
		hashes = append(hashes, key.(common.Hash))
	}
	return hashes
}

// Len returns the number of cached datasets.
func (c *ResourceCache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.cache.Len()
}

// Capacity returns the maximum number of datasets the cache holds.
func (c *ResourceCache) Capacity() int {
	return c.capacity
}

// Purge drops every cached dataset. Execution contexts bound to one of them
// keep working until they rebind.
func (c *ResourceCache) Purge() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.cache.Purge()
}
