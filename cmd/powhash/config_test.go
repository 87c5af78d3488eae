// Copyright 2020 The go-simplechain Authors
// This file is part of go-powcore.
//
// go-powcore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-powcore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-powcore. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/holiman/uint256"
	"github.com/simplechain-org/go-powcore/consensus/compute"
	"github.com/simplechain-org/go-powcore/consensus/scrypt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0600))
	return file
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := defaultConfig()
	cfg.Mode = ModeFake
	cfg.Compute.Workers = 3
	cfg.Compute.DigestCacheSize = 1024 * 1024

	var buf bytes.Buffer
	require.NoError(t, writeConfig(&buf, cfg))

	loaded := powhashConfig{}
	require.NoError(t, loadConfig(writeTempConfig(t, buf.String()), &loaded))
	assert.Equal(t, cfg, loaded)
}

func TestConfigOverlay(t *testing.T) {
	file := writeTempConfig(t, `
Mode = "test"

[Compute]
CachedDatasets = 4
`)
	cfg := defaultConfig()
	require.NoError(t, loadConfig(file, &cfg))

	assert.Equal(t, ModeTest, cfg.Mode)
	assert.Equal(t, 4, cfg.Compute.CachedDatasets)
	assert.Equal(t, scrypt.DefaultConfig, cfg.Scrypt)
}

func TestConfigUnknownField(t *testing.T) {
	file := writeTempConfig(t, "Bogus = 1\n")

	cfg := defaultConfig()
	err := loadConfig(file, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Bogus' is not defined")
}

func TestMakePrimitive(t *testing.T) {
	cfg := defaultConfig()

	primitive, err := makePrimitive(cfg)
	require.NoError(t, err)
	assert.IsType(t, &scrypt.Primitive{}, primitive)

	cfg.Mode = ModeFake
	primitive, err = makePrimitive(cfg)
	require.NoError(t, err)
	assert.IsType(t, &scrypt.Faker{}, primitive)

	cfg.Mode = "bogus"
	_, err = makePrimitive(cfg)
	assert.ErrorIs(t, err, errUnknownMode)
}

func TestParseHash(t *testing.T) {
	key, err := parseHash("key", "0x0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0x01"), key)

	for _, s := range []string{"", "0x01", "01", "0xzz"} {
		_, err := parseHash("key", s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input string
		want  *uint256.Int
	}{
		{"1", uint256.NewInt(1)},
		{"1000000", uint256.NewInt(1000000)},
		{"0xff", uint256.NewInt(255)},
	}
	for _, tt := range tests {
		d, err := parseDifficulty(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, d, "input %q", tt.input)
	}
	for _, s := range []string{"", "-1", "0xzz", "abc"} {
		_, err := parseDifficulty(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestPrintVerdict(t *testing.T) {
	color.NoColor = true

	calc := compute.Calculation{Difficulty: *uint256.NewInt(1)}
	var buf bytes.Buffer
	printVerdict(&buf, calc, common.Hash{}, true)

	enc, _ := calc.MarshalText()
	assert.Contains(t, buf.String(), string(enc))
	assert.True(t, strings.HasSuffix(buf.String(), "valid\n"))
	assert.NotContains(t, buf.String(), "invalid")
}

func TestBench(t *testing.T) {
	color.NoColor = true

	engine := compute.New(compute.Config{CachedDatasets: 2, Workers: 2}, scrypt.NewFaker())
	defer engine.Close()

	keys := []common.Hash{common.HexToHash("0x01"), common.HexToHash("0x02")}
	results := make([]benchResult, 0, len(keys))
	for _, key := range keys {
		res, err := benchKey(engine, key, 50)
		require.NoError(t, err)
		assert.Equal(t, 50, res.hashes)
		results = append(results, res)
	}
	assert.ElementsMatch(t, keys, engine.Cache().Keys())

	var buf bytes.Buffer
	printBench(&buf, results)
	assert.Contains(t, buf.String(), "Total 100 hashes")
}
