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
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/holiman/uint256"
	"github.com/olekukonko/tablewriter"
	"github.com/simplechain-org/go-powcore/consensus/compute"
	"gopkg.in/urfave/cli.v1"
)

var (
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "Epoch key selecting the dataset (32 byte hex)",
	}
	inputFlag = cli.StringFlag{
		Name:  "input",
		Usage: "Hex encoded bytes to hash",
	}
	preHashFlag = cli.StringFlag{
		Name:  "prehash",
		Usage: "Block pre-hash of the calculation (32 byte hex)",
	}
	difficultyFlag = cli.StringFlag{
		Name:  "difficulty",
		Usage: "Difficulty of the calculation (decimal or 0x prefixed hex)",
		Value: "1",
	}
	nonceFlag = cli.StringFlag{
		Name:  "nonce",
		Usage: "Nonce of the calculation (32 byte hex)",
	}
	keysFlag = cli.StringSliceFlag{
		Name:  "keys",
		Usage: "Epoch keys to benchmark, one dataset each",
	}
	countFlag = cli.IntFlag{
		Name:  "count",
		Usage: "Number of hashes per key",
		Value: 1000,
	}
)

var (
	hashCommand = cli.Command{
		Action:    hashInput,
		Name:      "hash",
		Usage:     "Compute the digest of an input",
		ArgsUsage: "",
		Flags:     []cli.Flag{keyFlag, inputFlag},
	}
	verifyCommand = cli.Command{
		Action:    verifyCalculation,
		Name:      "verify",
		Usage:     "Verify a calculation against its difficulty",
		ArgsUsage: "",
		Flags:     []cli.Flag{keyFlag, preHashFlag, difficultyFlag, nonceFlag},
		Description: `
Encodes the calculation, hashes it under the dataset of the epoch key and
reports whether the digest satisfies the difficulty.`,
	}
	benchCommand = cli.Command{
		Action:    bench,
		Name:      "bench",
		Usage:     "Benchmark the hashing throughput",
		ArgsUsage: "",
		Flags:     []cli.Flag{keysFlag, countFlag},
	}
)

// parseHash decodes a 0x prefixed 32 byte hex string.
func parseHash(name, s string) (common.Hash, error) {
	enc, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid %s: %v", name, err)
	}
	if len(enc) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid %s: have %d bytes, want %d", name, len(enc), common.HashLength)
	}
	return common.BytesToHash(enc), nil
}

// parseDifficulty decodes a decimal or 0x prefixed hex difficulty.
func parseDifficulty(s string) (*uint256.Int, error) {
	var (
		d   *uint256.Int
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		d, err = uint256.FromHex(s)
	} else {
		d, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid difficulty %q: %v", s, err)
	}
	return d, nil
}

func hashInput(ctx *cli.Context) error {
	key, err := parseHash("key", ctx.String(keyFlag.Name))
	if err != nil {
		return err
	}
	input, err := hexutil.Decode(ctx.String(inputFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid input: %v", err)
	}
	engine, err := makeEngine(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	digest, err := engine.Compute(key, input)
	if err != nil {
		return err
	}
	fmt.Println(digest.Hex())
	return nil
}

func verifyCalculation(ctx *cli.Context) error {
	key, err := parseHash("key", ctx.String(keyFlag.Name))
	if err != nil {
		return err
	}
	calc, err := parseCalculation(ctx)
	if err != nil {
		return err
	}
	engine, err := makeEngine(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	digest, ok, err := engine.Verify(key, calc)
	if err != nil {
		return err
	}
	printVerdict(os.Stdout, calc, digest, ok)
	return nil
}

func parseCalculation(ctx *cli.Context) (compute.Calculation, error) {
	var calc compute.Calculation

	preHash, err := parseHash("prehash", ctx.String(preHashFlag.Name))
	if err != nil {
		return calc, err
	}
	difficulty, err := parseDifficulty(ctx.String(difficultyFlag.Name))
	if err != nil {
		return calc, err
	}
	nonce, err := parseHash("nonce", ctx.String(nonceFlag.Name))
	if err != nil {
		return calc, err
	}
	calc.PreHash, calc.Difficulty, calc.Nonce = preHash, *difficulty, nonce
	return calc, nil
}

func printVerdict(w io.Writer, calc compute.Calculation, digest common.Hash, ok bool) {
	enc, _ := calc.MarshalText()
	fmt.Fprintf(w, "calculation: %s\n", enc)
	fmt.Fprintf(w, "digest:      %s\n", digest.Hex())
	if ok {
		color.New(color.FgGreen).Fprintln(w, "valid")
	} else {
		color.New(color.FgRed).Fprintln(w, "invalid")
	}
}

// benchResult is the outcome of hashing a batch under a single key.
type benchResult struct {
	key     common.Hash
	hashes  int
	build   time.Duration
	elapsed time.Duration
}

func (r benchResult) rate() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.hashes) / r.elapsed.Seconds()
}

func bench(ctx *cli.Context) error {
	var keys []common.Hash
	for _, s := range ctx.StringSlice(keysFlag.Name) {
		key, err := parseHash("key", s)
		if err != nil {
			return err
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		keys = append(keys, common.Hash{})
	}
	count := ctx.Int(countFlag.Name)
	if count <= 0 {
		return fmt.Errorf("invalid count %d", count)
	}
	engine, err := makeEngine(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	results := make([]benchResult, 0, len(keys))
	for _, key := range keys {
		res, err := benchKey(engine, key, count)
		if err != nil {
			return err
		}
		log.Info("Benchmarked key", "key", key, "hashes", res.hashes, "elapsed", common.PrettyDuration(res.elapsed))
		results = append(results, res)
	}
	printBench(os.Stdout, results)
	return nil
}

// benchKey generates the dataset of key, then verifies count calculations with
// distinct nonces across the engine's worker pool.
func benchKey(engine *compute.Engine, key common.Hash, count int) (benchResult, error) {
	res := benchResult{key: key, hashes: count}

	start := time.Now()
	if _, err := engine.Cache().GetOrCreate(key); err != nil {
		return res, err
	}
	res.build = time.Since(start)

	calcs := make([]compute.Calculation, count)
	for i := range calcs {
		calcs[i].PreHash = key
		calcs[i].Difficulty.SetOne()
		binary.BigEndian.PutUint64(calcs[i].Nonce[common.HashLength-8:], uint64(i))
	}
	start = time.Now()
	if _, err := engine.VerifyBatch(context.Background(), key, calcs); err != nil {
		return res, err
	}
	res.elapsed = time.Since(start)
	return res, nil
}

func printBench(w io.Writer, results []benchResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Hashes", "Dataset", "Elapsed", "Rate (H/s)"})

	var (
		hashes  int
		elapsed time.Duration
	)
	for _, r := range results {
		table.Append([]string{
			r.key.TerminalString(),
			fmt.Sprint(r.hashes),
			common.PrettyDuration(r.build).String(),
			common.PrettyDuration(r.elapsed).String(),
			fmt.Sprintf("%.2f", r.rate()),
		})
		hashes += r.hashes
		elapsed += r.elapsed
	}
	table.Render()

	total := benchResult{hashes: hashes, elapsed: elapsed}
	color.New(color.FgGreen, color.Bold).Fprintf(w, "Total %d hashes in %v, %.2f H/s\n", hashes, common.PrettyDuration(elapsed), total.rate())
}
