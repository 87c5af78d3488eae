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

// Config are the configuration parameters of the compute engine.
type Config struct {
	CachedDatasets  int `toml:",omitempty"` // Maximum number of epoch datasets kept in memory
	Workers         int `toml:",omitempty"` // Idle execution contexts retained and batch verification threads, 0 = GOMAXPROCS
	DigestCacheSize int `toml:",omitempty"` // Bytes of memory for memoized digests, 0 disables the memo
}

// DefaultConfig contains the default settings for the compute engine.
var DefaultConfig = Config{
	CachedDatasets: 2,
}
