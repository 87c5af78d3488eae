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

// powhash is a command line tool for computing and verifying proof-of-work
// digests against epoch keyed datasets.
package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"
)

var app = cli.NewApp()

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 3,
	}
	modeFlag = cli.StringFlag{
		Name:  "mode",
		Usage: `Hashing primitive ("normal", "test" or "fake")`,
	}
	datasetsFlag = cli.IntFlag{
		Name:  "datasets",
		Usage: "Number of epoch datasets to keep in memory",
	}
	workersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "Number of hashing workers (0 = all cores)",
	}
	digestCacheFlag = cli.IntFlag{
		Name:  "digestcache",
		Usage: "Megabytes of memory allocated to memoized digests (0 = disabled)",
	}
)

func init() {
	app.Name = "powhash"
	app.Usage = "proof-of-work hashing and verification tool"
	app.Flags = []cli.Flag{
		configFileFlag, verbosityFlag, modeFlag, datasetsFlag, workersFlag, digestCacheFlag,
	}
	app.Commands = []cli.Command{
		hashCommand, verifyCommand, benchCommand, dumpConfigCommand,
	}
	app.Before = setupLogging
}

// setupLogging installs a terminal log handler on stderr at the requested
// verbosity, colored if stderr is a terminal.
func setupLogging(ctx *cli.Context) error {
	var (
		output   = colorable.NewColorableStderr()
		usecolor = (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	)
	handler := log.NewTerminalHandlerWithLevel(output, log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name)), usecolor)
	log.SetDefault(log.NewLogger(handler))
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
