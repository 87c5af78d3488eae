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
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// CalculationLength is the size of an encoded calculation in bytes.
const CalculationLength = 3 * common.HashLength

// Calculation is the canonical proof-of-work attempt: a block's pre-hash, the
// difficulty the digest must satisfy and the nonce being tried.
type Calculation struct {
	PreHash    common.Hash
	Difficulty uint256.Int
	Nonce      common.Hash
}

// Encode serializes the calculation into its fixed 96 byte layout:
//
//	pre-hash (32) | difficulty (32, little endian) | nonce (32)
func (c Calculation) Encode() []byte {
	enc := make([]byte, CalculationLength)
	copy(enc[:32], c.PreHash[:])
	for i, limb := range c.Difficulty {
		binary.LittleEndian.PutUint64(enc[32+8*i:], limb)
	}
	copy(enc[64:], c.Nonce[:])
	return enc
}

// Input returns the bytes fed to the hash primitive for this calculation.
func (c Calculation) Input() []byte {
	return c.Encode()
}

// DecodeCalculation parses a calculation from its fixed size encoding.
func DecodeCalculation(enc []byte) (Calculation, error) {
	var c Calculation
	if len(enc) != CalculationLength {
		return c, fmt.Errorf("%w: have %d, want %d", ErrCalculationLength, len(enc), CalculationLength)
	}
	copy(c.PreHash[:], enc[:32])
	for i := range c.Difficulty {
		c.Difficulty[i] = binary.LittleEndian.Uint64(enc[32+8*i:])
	}
	copy(c.Nonce[:], enc[64:])
	return c, nil
}

// MarshalText implements encoding.TextMarshaler, hex encoding the canonical
// byte layout.
func (c Calculation) MarshalText() ([]byte, error) {
	return hexutil.Bytes(c.Encode()).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Calculation) UnmarshalText(input []byte) error {
	var enc hexutil.Bytes
	if err := enc.UnmarshalText(input); err != nil {
		return err
	}
	dec, err := DecodeCalculation(enc)
	if err != nil {
		return err
	}
	*c = dec
	return nil
}

// IsValidHash reports whether a digest satisfies the difficulty, i.e. the
// digest read as a big endian 256 bit number multiplied by the difficulty
// does not overflow.
func IsValidHash(digest common.Hash, difficulty *uint256.Int) bool {
	num := new(uint256.Int).SetBytes32(digest[:])
	_, overflow := new(uint256.Int).MulOverflow(num, difficulty)
	return !overflow
}
