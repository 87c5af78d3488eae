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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"github.com/simplechain-org/go-powcore/consensus/compute"
	"github.com/simplechain-org/go-powcore/consensus/scrypt"
	"gopkg.in/urfave/cli.v1"
)

var dumpConfigCommand = cli.Command{
	Action:      dumpConfig,
	Name:        "dumpconfig",
	Usage:       "Show configuration values",
	ArgsUsage:   "",
	Description: `The dumpconfig command shows configuration values.`,
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// Mode defines the type of hashing primitive the tool runs.
type Mode string

const (
	ModeNormal Mode = "normal" // Full sized scrypt datasets
	ModeTest   Mode = "test"   // Small scrypt datasets
	ModeFake   Mode = "fake"   // Plain keccak without any dataset
)

var errUnknownMode = errors.New("unknown hashing mode")

type powhashConfig struct {
	Mode    Mode
	Compute compute.Config
	Scrypt  scrypt.Config
}

func defaultConfig() powhashConfig {
	return powhashConfig{
		Mode:    ModeNormal,
		Compute: compute.DefaultConfig,
		Scrypt:  scrypt.DefaultConfig,
	}
}

func loadConfig(file string, cfg *powhashConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig assembles the effective configuration: defaults, then the config
// file, then any explicitly set command line flags.
func makeConfig(ctx *cli.Context) (powhashConfig, error) {
	cfg := defaultConfig()
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if ctx.GlobalIsSet(modeFlag.Name) {
		cfg.Mode = Mode(ctx.GlobalString(modeFlag.Name))
	}
	if ctx.GlobalIsSet(datasetsFlag.Name) {
		cfg.Compute.CachedDatasets = ctx.GlobalInt(datasetsFlag.Name)
	}
	if ctx.GlobalIsSet(workersFlag.Name) {
		cfg.Compute.Workers = ctx.GlobalInt(workersFlag.Name)
	}
	if ctx.GlobalIsSet(digestCacheFlag.Name) {
		cfg.Compute.DigestCacheSize = ctx.GlobalInt(digestCacheFlag.Name) * 1024 * 1024
	}
	if cfg.Mode == ModeTest {
		cfg.Scrypt = scrypt.TestConfig
	}
	if _, err := makePrimitive(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// makePrimitive creates the hashing primitive selected by the config's mode.
func makePrimitive(cfg powhashConfig) (compute.Primitive, error) {
	switch cfg.Mode {
	case ModeNormal, ModeTest:
		return scrypt.New(cfg.Scrypt), nil
	case ModeFake:
		return scrypt.NewFaker(), nil
	default:
		return nil, fmt.Errorf("%w %q", errUnknownMode, cfg.Mode)
	}
}

// makeEngine creates a compute engine from the command line configuration.
func makeEngine(ctx *cli.Context) (*compute.Engine, error) {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return nil, err
	}
	primitive, err := makePrimitive(cfg)
	if err != nil {
		return nil, err
	}
	return compute.New(cfg.Compute, primitive), nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	return writeConfig(os.Stdout, cfg)
}

func writeConfig(w io.Writer, cfg powhashConfig) error {
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
