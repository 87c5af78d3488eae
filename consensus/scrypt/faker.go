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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/simplechain-org/go-powcore/consensus/compute"
)

// Faker is a primitive without any memory hardness: the dataset is the key
// itself and the digest is keccak256(key || input). It is deterministic and
// cheap, meant for tests and development setups.
type Faker struct{}

// NewFaker creates a fake primitive.
func NewFaker() *Faker {
	return new(Faker)
}

type fakeDataset common.Hash

func (fakeDataset) Size() uint64 { return common.HashLength }

type fakeHandle common.Hash

func (h fakeHandle) Compute(input []byte) common.Hash {
	return crypto.Keccak256Hash(h[:], input)
}

// BuildDataset implements compute.Primitive.
func (f *Faker) BuildDataset(key common.Hash) (compute.Dataset, error) {
	return fakeDataset(key), nil
}

// NewHandle implements compute.Primitive.
func (f *Faker) NewHandle(ds compute.Dataset) (compute.Handle, error) {
	d, ok := ds.(fakeDataset)
	if !ok {
		return nil, ErrForeignDataset
	}
	return fakeHandle(d), nil
}
