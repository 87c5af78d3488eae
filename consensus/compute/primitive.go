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

// Package compute implements the epoch keyed proof-of-work hashing core. It
// keeps the expensive per-epoch datasets of a memory-hard hash primitive in a
// small shared LRU cache and hands every worker its own execution context
// bound to one of them, so that hashing itself never contends on a lock.
package compute

import (
	"github.com/ethereum/go-ethereum/common"
)

// Dataset is the expensive, read-only structure a primitive needs to hash for
// one epoch. Implementations must be safe for concurrent readers.
type Dataset interface {
	// Size returns the memory held by the dataset in bytes.
	Size() uint64
}

// Handle is a lightweight execution state bound to a single dataset. A handle
// is owned by one worker and is not safe for concurrent use.
type Handle interface {
	// Compute hashes the input against the handle's dataset.
	Compute(input []byte) common.Hash
}

// Primitive is the memory-hard hash algorithm the engine drives. Both
// operations must be deterministic for a given key.
type Primitive interface {
	// BuildDataset generates the dataset for an epoch key. It is expensive
	// and may take seconds for production sized datasets.
	BuildDataset(key common.Hash) (Dataset, error)

	// NewHandle creates a fresh execution handle reading from ds.
	NewHandle(ds Dataset) (Handle, error)
}
