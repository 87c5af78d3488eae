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
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"
)

// Engine is the entry point for proof-of-work hashing. It owns the shared
// dataset cache and a pool of idle execution contexts, lending one to every
// computation so that concurrent callers hash in parallel.
type Engine struct {
	config  Config
	cache   *ResourceCache
	digests *fastcache.Cache // Memoized digests keyed by epoch key and input, nil if disabled

	lock sync.Mutex          // Protects the idle pool, never held while hashing
	idle []*ExecutionContext // Released contexts, most recently released last
}

// New creates a compute engine hashing with the given primitive.
func New(config Config, primitive Primitive) *Engine {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	engine := &Engine{
		config: config,
		cache:  NewResourceCache(primitive, config.CachedDatasets),
	}
	if config.DigestCacheSize > 0 {
		log.Info("Digest memoization enabled", "size", common.StorageSize(config.DigestCacheSize))
		engine.digests = fastcache.New(config.DigestCacheSize)
	}
	return engine
}

// Cache returns the dataset cache shared by all contexts of the engine.
func (e *Engine) Cache() *ResourceCache {
	return e.cache
}

// NewContext creates a dedicated execution context sharing the engine's cache,
// meant for long running workers issuing many computations.
func (e *Engine) NewContext() *ExecutionContext {
	return NewExecutionContext(e.cache)
}

// acquire takes an idle context out of the pool, preferring one already bound
// to key, or creates a new one if the pool is empty.
func (e *Engine) acquire(key common.Hash) *ExecutionContext {
	e.lock.Lock()
	defer e.lock.Unlock()

	n := len(e.idle)
	if n == 0 {
		return e.NewContext()
	}
	pick := n - 1
	for i := n - 1; i >= 0; i-- {
		if bound, ok := e.idle[i].Bound(); ok && bound == key {
			pick = i
			break
		}
	}
	ec := e.idle[pick]
	e.idle = append(e.idle[:pick], e.idle[pick+1:]...)
	return ec
}

// release returns a context to the pool, dropping it if the pool is full.
func (e *Engine) release(ec *ExecutionContext) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if len(e.idle) < e.config.Workers {
		e.idle = append(e.idle, ec)
	}
}

// Compute returns the digest of input under the dataset of the given epoch
// key. The result depends on nothing but its arguments.
func (e *Engine) Compute(key common.Hash, input []byte) (common.Hash, error) {
	var memo []byte
	if e.digests != nil {
		memo = append(append(make([]byte, 0, len(key)+len(input)), key[:]...), input...)
		if enc, ok := e.digests.HasGet(nil, memo); ok {
			digestMemoMeter.Mark(1)
			return common.BytesToHash(enc), nil
		}
	}
	ec := e.acquire(key)
	digest, err := ec.Compute(key, input)
	e.release(ec)
	if err != nil {
		return common.Hash{}, err
	}
	if e.digests != nil {
		e.digests.Set(memo, digest[:])
	}
	return digest, nil
}

// Verify computes the digest of a calculation and checks it against the
// calculation's own difficulty.
func (e *Engine) Verify(key common.Hash, calc Calculation) (common.Hash, bool, error) {
	if calc.Difficulty.IsZero() {
		return common.Hash{}, false, ErrZeroDifficulty
	}
	digest, err := e.Compute(key, calc.Encode())
	if err != nil {
		return common.Hash{}, false, err
	}
	return digest, IsValidHash(digest, &calc.Difficulty), nil
}

// VerifyBatch checks a batch of calculations against the same epoch key on up
// to Workers goroutines, each with its own execution context. Calculations with
// a zero difficulty are reported invalid. Cancelling ctx stops scheduling new
// calculations but hashes already running complete.
func (e *Engine) VerifyBatch(ctx context.Context, key common.Hash, calcs []Calculation) ([]bool, error) {
	var (
		results = make([]bool, len(calcs))
		next    = int64(-1)
		workers = e.config.Workers
	)
	if len(calcs) < workers {
		workers = len(calcs)
	}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			ec := e.acquire(key)
			defer e.release(ec)

			for {
				index := atomic.AddInt64(&next, 1)
				if index >= int64(len(calcs)) {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				calc := &calcs[index]
				if calc.Difficulty.IsZero() {
					continue
				}
				digest, err := ec.Compute(key, calc.Encode())
				if err != nil {
					return err
				}
				results[index] = IsValidHash(digest, &calc.Difficulty)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close drops the cached datasets, the idle contexts and memoized digests.
func (e *Engine) Close() error {
	e.lock.Lock()
	e.idle = nil
	e.lock.Unlock()

	e.cache.Purge()
	if e.digests != nil {
		e.digests.Reset()
	}
	return nil
}
