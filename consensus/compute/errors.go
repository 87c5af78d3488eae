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

import "errors"

var (
	// ErrDatasetConstruction is returned when the primitive failed to build
	// the dataset of an epoch. Nothing is inserted into the cache.
	ErrDatasetConstruction = errors.New("dataset construction failed")

	// ErrHandleConstruction is returned when the primitive failed to create an
	// execution handle for a cached dataset.
	ErrHandleConstruction = errors.New("execution handle construction failed")

	// ErrCachePoisoned is returned by every cache operation after a dataset
	// construction panicked while the cache lock was held. The cache state can
	// no longer be trusted and the process should shut down.
	ErrCachePoisoned = errors.New("dataset cache poisoned by a failed construction")

	// ErrZeroDifficulty is returned when verifying a calculation that carries
	// a zero difficulty.
	ErrZeroDifficulty = errors.New("zero difficulty")

	// ErrCalculationLength is returned when decoding a calculation from a
	// buffer of the wrong size.
	ErrCalculationLength = errors.New("invalid calculation length")
)
