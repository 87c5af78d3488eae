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
	"os"
	"runtime"

	"github.com/edsrzf/mmap-go"
	"github.com/ethereum/go-ethereum/common"
)

// dataset wraps an anonymously mapped dataset with the key it was derived from.
// The mapping is released by a finalizer once neither the cache nor any handle
// references the dataset anymore.
type dataset struct {
	key  common.Hash
	mmap mmap.MMap // Memory map itself to unmap it on release, nil for heap datasets
	data []byte    // The actual dataset content, backed by the memory map
}

// newDataset maps size bytes of anonymous memory for a dataset. Datasets
// smaller than a page live on the heap.
func newDataset(key common.Hash, size uint64) (*dataset, error) {
	if size < uint64(os.Getpagesize()) {
		return &dataset{key: key, data: make([]byte, size)}, nil
	}
	mem, err := mmap.MapRegion(nil, int(size), mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, err
	}
	d := &dataset{key: key, mmap: mem, data: mem}
	runtime.SetFinalizer(d, (*dataset).finalizer)
	return d, nil
}

// Size implements compute.Dataset.
func (d *dataset) Size() uint64 {
	return uint64(len(d.data))
}

// finalizer unmaps the memory once the dataset becomes unreachable.
func (d *dataset) finalizer() {
	if d.mmap != nil {
		d.mmap.Unmap()
		d.mmap, d.data = nil, nil
	}
}
