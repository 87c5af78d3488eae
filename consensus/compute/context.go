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

	"github.com/ethereum/go-ethereum/common"
)

// ExecutionContext is a worker private execution handle bound to the dataset
// of at most one epoch key at a time. Consecutive computations against the same
// key reuse the handle without touching the shared cache. A context must only
// be used by one goroutine at a time.
type ExecutionContext struct {
	cache *ResourceCache

	bound   bool        // Whether the context is bound to any key
	key     common.Hash // Epoch key the handle was built for
	dataset Dataset     // Dataset referenced by the handle, kept alive while bound
	handle  Handle
}

// NewExecutionContext creates an unbound execution context resolving datasets
// through the given cache.
func NewExecutionContext(cache *ResourceCache) *ExecutionContext {
	return &ExecutionContext{cache: cache}
}

// Bound returns the epoch key the context is currently bound to.
func (ec *ExecutionContext) Bound() (common.Hash, bool) {
	return ec.key, ec.bound
}

// Reset unbinds the context, releasing its references to the dataset.
func (ec *ExecutionContext) Reset() {
	ec.bound, ec.key, ec.dataset, ec.handle = false, common.Hash{}, nil, nil
}

// ensureBound returns a handle for the given key, rebinding the context if it
// is bound to a different one. Rebinding always resolves the dataset through
// the cache, never by reusing a previous handle. If a new handle cannot be
// created the previous binding is left intact.
func (ec *ExecutionContext) ensureBound(key common.Hash) (Handle, error) {
	if ec.bound && ec.key == key {
		return ec.handle, nil
	}
	ds, err := ec.cache.GetOrCreate(key)
	if err != nil {
		return nil, err
	}
	handle, err := ec.cache.primitive.NewHandle(ds)
	if err != nil {
		return nil, fmt.Errorf("%w: key %x: %v", ErrHandleConstruction, key, err)
	}
	ec.bound, ec.key, ec.dataset, ec.handle = true, key, ds, handle
	contextRebindMeter.Mark(1)

	return handle, nil
}

// Compute hashes input against the dataset of the given epoch key, binding the
// context to it first if needed. The cache lock is never held while hashing.
func (ec *ExecutionContext) Compute(key common.Hash, input []byte) (common.Hash, error) {
	handle, err := ec.ensureBound(key)
	if err != nil {
		return common.Hash{}, err
	}
	if ec.key != key {
		panic(fmt.Sprintf("execution context bound to %x while computing for %x. This is a bug", ec.key, key))
	}
	hashMeter.Mark(1)
	return handle.Compute(input), nil
}
