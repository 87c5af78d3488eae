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
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var errTestBuild = errors.New("out of memory")

// testPrimitive is a cheap deterministic primitive recording how many datasets
// it generated per key.
type testPrimitive struct {
	lock   sync.Mutex
	builds map[common.Hash]int

	buildDelay  time.Duration          // Time spent generating every dataset
	failBuild   map[common.Hash]bool   // Keys whose generation returns an error
	panicBuild  map[common.Hash]bool   // Keys whose generation panics
	failHandle  map[common.Hash]bool   // Keys whose handle creation returns an error
	computeHook func()                 // Invoked at the start of every hash
	computes    int64                  // Number of hashes, updated atomically
	serials     map[common.Hash]uint64 // Last generation serial per key
}

func newTestPrimitive() *testPrimitive {
	return &testPrimitive{
		builds:     make(map[common.Hash]int),
		failBuild:  make(map[common.Hash]bool),
		panicBuild: make(map[common.Hash]bool),
		failHandle: make(map[common.Hash]bool),
		serials:    make(map[common.Hash]uint64),
	}
}

type testDataset struct {
	key    common.Hash
	serial uint64 // Generation number of this dataset for its key
}

func (ds *testDataset) Size() uint64 { return 1024 }

type testHandle struct {
	prim *testPrimitive
	ds   *testDataset
}

func (p *testPrimitive) BuildDataset(key common.Hash) (Dataset, error) {
	if p.buildDelay > 0 {
		time.Sleep(p.buildDelay)
	}
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.panicBuild[key] {
		panic("dataset generation crashed")
	}
	if p.failBuild[key] {
		return nil, errTestBuild
	}
	p.builds[key]++
	p.serials[key]++
	return &testDataset{key: key, serial: p.serials[key]}, nil
}

func (p *testPrimitive) NewHandle(ds Dataset) (Handle, error) {
	tds := ds.(*testDataset)

	p.lock.Lock()
	defer p.lock.Unlock()

	if p.failHandle[tds.key] {
		return nil, errTestBuild
	}
	return &testHandle{prim: p, ds: tds}, nil
}

func (h *testHandle) Compute(input []byte) common.Hash {
	if h.prim.computeHook != nil {
		h.prim.computeHook()
	}
	atomic.AddInt64(&h.prim.computes, 1)
	return testDigest(h.ds.key, input)
}

// buildCount returns how many datasets were generated for key.
func (p *testPrimitive) buildCount(key common.Hash) int {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.builds[key]
}

// totalBuilds returns how many datasets were generated for all keys.
func (p *testPrimitive) totalBuilds() int {
	p.lock.Lock()
	defer p.lock.Unlock()

	total := 0
	for _, n := range p.builds {
		total += n
	}
	return total
}

func testDigest(key common.Hash, input []byte) common.Hash {
	return crypto.Keccak256Hash(key[:], input)
}

var (
	key1 = common.HexToHash("0x01")
	key2 = common.HexToHash("0x02")
	key3 = common.HexToHash("0x03")
)
