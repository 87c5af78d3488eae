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

import "github.com/ethereum/go-ethereum/metrics"

var (
	datasetBuildMeter = metrics.NewRegisteredMeter("pow/dataset/build", nil)
	datasetBuildTimer = metrics.NewRegisteredTimer("pow/dataset/build/time", nil)
	datasetHitMeter   = metrics.NewRegisteredMeter("pow/dataset/hit", nil)
	datasetEvictMeter = metrics.NewRegisteredMeter("pow/dataset/evict", nil)
	datasetSizeGauge  = metrics.NewRegisteredGauge("pow/dataset/size", nil)

	contextRebindMeter = metrics.NewRegisteredMeter("pow/context/rebind", nil)
	hashMeter          = metrics.NewRegisteredMeter("pow/hash", nil)
	digestMemoMeter    = metrics.NewRegisteredMeter("pow/digest/memo", nil)
)
