// Copyright (c) 2019 Simplechain
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package scrypt implements a memory-hard proof-of-work primitive in pure Go.
// Every epoch key expands through scrypt into a large read-only dataset, and
// hashing walks pseudo-random items of that dataset with keccak.
package scrypt

import (
	"errors"
	"math"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/simplechain-org/go-powcore/consensus/compute"
)

var (
	// ErrDatasetSize is returned when the configured dataset size is not a
	// positive multiple of the item size.
	ErrDatasetSize = errors.New("dataset size must be a positive multiple of 64 bytes")

	// ErrRounds is returned when the configured number of rounds is not positive.
	ErrRounds = errors.New("non-positive hashing rounds")

	// ErrForeignDataset is returned when a handle is requested for a dataset
	// that was not generated by the same kind of primitive.
	ErrForeignDataset = errors.New("dataset not generated by this primitive")
)

// Config are the configuration parameters of the scrypt primitive.
type Config struct {
	DatasetSize uint64 `toml:",omitempty"` // Bytes of memory per epoch dataset
	ScryptN     int    `toml:",omitempty"` // CPU/memory cost of the seed derivation, a power of two
	Rounds      int    `toml:",omitempty"` // Dataset lookups per hash
}

var (
	// DefaultConfig contains the settings of a full sized primitive.
	DefaultConfig = Config{
		DatasetSize: 256 * 1024 * 1024,
		ScryptN:     1 << 15,
		Rounds:      64,
	}

	// TestConfig contains the settings of a small primitive useful only for
	// testing purposes.
	TestConfig = Config{
		DatasetSize: 64 * 1024,
		ScryptN:     1024,
		Rounds:      8,
	}
)

func (config Config) validate() error {
	if config.DatasetSize == 0 || config.DatasetSize%itemBytes != 0 || config.DatasetSize > math.MaxInt {
		return ErrDatasetSize
	}
	if config.Rounds <= 0 {
		return ErrRounds
	}
	return nil
}

// Primitive generates scrypt seeded datasets and hashes against them.
type Primitive struct {
	config Config
}

// New creates a primitive with the given parameters. Invalid parameters are
// reported when the first dataset is generated.
func New(config Config) *Primitive {
	return &Primitive{config: config}
}

// NewTester creates a small sized primitive useful only for testing purposes.
func NewTester() *Primitive {
	return New(TestConfig)
}

// BuildDataset implements compute.Primitive, deriving the epoch seed and
// expanding it into a freshly mapped dataset.
func (p *Primitive) BuildDataset(key common.Hash) (compute.Dataset, error) {
	if err := p.config.validate(); err != nil {
		return nil, err
	}
	logger := log.New("key", key)

	start := time.Now()
	seed, err := datasetSeed(key, p.config.ScryptN)
	if err != nil {
		return nil, err
	}
	logger.Trace("Derived dataset seed", "elapsed", common.PrettyDuration(time.Since(start)))

	ds, err := newDataset(key, p.config.DatasetSize)
	if err != nil {
		return nil, err
	}
	generateDataset(ds.data, seed)

	logger.Debug("Generated scrypt dataset", "items", len(ds.data)/itemBytes, "elapsed", common.PrettyDuration(time.Since(start)))
	return ds, nil
}

// NewHandle implements compute.Primitive.
func (p *Primitive) NewHandle(ds compute.Dataset) (compute.Handle, error) {
	d, ok := ds.(*dataset)
	if !ok {
		return nil, ErrForeignDataset
	}
	return newHandle(d, p.config.Rounds), nil
}
