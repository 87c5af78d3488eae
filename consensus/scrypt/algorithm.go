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

package scrypt

import (
	"encoding/binary"
	"hash"
	"runtime"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"
)

const (
	itemBytes = 64 // Size of a single dataset item, one keccak512 output
	seedBytes = 64 // Size of the scrypt derived epoch seed
)

// datasetSeed derives the epoch seed from the key, using the key as both the
// password and the salt of scrypt.
func datasetSeed(key common.Hash, n int) ([]byte, error) {
	return scrypt.Key(key[:], key[:], n, 1, 1, seedBytes)
}

// generateDataset fills dest with keccak512(seed || le64(index)) items, splitting
// the work across all cores.
func generateDataset(dest []byte, seed []byte) {
	items := uint64(len(dest) / itemBytes)
	if items == 0 {
		return
	}
	threads := uint64(runtime.NumCPU())
	if threads > items {
		threads = items
	}
	batch := (items + threads - 1) / threads

	var pend errgroup.Group
	for first := uint64(0); first < items; first += batch {
		pend.Go(func() error {
			last := first + batch
			if last > items {
				last = items
			}
			keccak512 := sha3.NewLegacyKeccak512()
			buf := make([]byte, seedBytes+8)
			copy(buf, seed)

			for index := first; index < last; index++ {
				binary.LittleEndian.PutUint64(buf[seedBytes:], index)
				keccak512.Reset()
				keccak512.Write(buf)
				keccak512.Sum(dest[index*itemBytes : index*itemBytes])
			}
			return nil
		})
	}
	pend.Wait()
}

// handle is a worker private hashing state over one dataset. The keccak states
// and the mix buffer are reused between hashes, so a handle must never be
// shared between goroutines.
type handle struct {
	ds        *dataset
	rounds    int
	keccak512 hash.Hash
	keccak256 hash.Hash
	mix       [itemBytes]byte
}

func newHandle(ds *dataset, rounds int) *handle {
	return &handle{
		ds:        ds,
		rounds:    rounds,
		keccak512: sha3.NewLegacyKeccak512(),
		keccak256: sha3.NewLegacyKeccak256(),
	}
}

// Compute implements compute.Handle.
func (h *handle) Compute(input []byte) common.Hash {
	return hashimoto(h, input)
}

// hashimoto mixes the keccak512 of the input with rounds pseudo-randomly
// selected dataset items and returns the keccak256 of the final mix.
func hashimoto(h *handle, input []byte) common.Hash {
	var (
		data  = h.ds.data
		items = uint64(len(data) / itemBytes)
	)
	h.keccak512.Reset()
	h.keccak512.Write(input)
	h.keccak512.Sum(h.mix[:0])

	for i := 0; i < h.rounds; i++ {
		index := binary.LittleEndian.Uint64(h.mix[:8]) % items
		item := data[index*itemBytes : (index+1)*itemBytes]
		for j := range h.mix {
			h.mix[j] ^= item[j]
		}
		h.keccak512.Reset()
		h.keccak512.Write(h.mix[:])
		h.keccak512.Sum(h.mix[:0])
	}
	var digest common.Hash
	h.keccak256.Reset()
	h.keccak256.Write(h.mix[:])
	h.keccak256.Sum(digest[:0])
	return digest
}
