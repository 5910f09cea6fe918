// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/tinybank/genesis"
	"github.com/vechain/tinybank/log"
	"github.com/vechain/tinybank/metrics"
	"github.com/vechain/tinybank/runtime"
	"github.com/vechain/tinybank/solo"
	"github.com/vechain/tinybank/thor"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "TinyBank"
	app.Usage = "Token ledger and staking vault on a solo chain"
	app.Commands = []cli.Command{
		{
			Name:   "genesis",
			Usage:  "print the default genesis config",
			Action: genesisAction,
		},
		{
			Name:  "run",
			Usage: "deploy the contracts and execute a script of calls",
			Flags: []cli.Flag{
				configFlag,
				scriptFlag,
				verbosityFlag,
				jsonLogsFlag,
				metricsFlag,
				dumpFlag,
			},
			Action: runAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func genesisAction(ctx *cli.Context) error {
	out, err := yaml.Marshal(genesis.DefaultConfig())
	if err != nil {
		return err
	}
	_, err = ctx.App.Writer.Write(out)
	return err
}

func runAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.Bool(metricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	cfg := genesis.DefaultConfig()
	if path := ctx.String(configFlag.Name); path != "" {
		var err error
		if cfg, err = genesis.LoadConfig(path); err != nil {
			return err
		}
	}

	var script *Script
	if path := ctx.String(scriptFlag.Name); path != "" {
		var err error
		if script, err = LoadScript(path); err != nil {
			return err
		}
	}

	chain, err := solo.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		logger.Debug("closing database...")
		chain.Close()
	}()

	w := ctx.App.Writer
	d := chain.Deployment()
	fmt.Fprintf(w, "token %v\nbank  %v\n", d.Token.Address(), d.Bank.Address())

	if script != nil {
		for i, step := range script.Steps {
			if err := runStep(w, chain, &step, ctx.Bool(dumpFlag.Name)); err != nil {
				return errors.Wrapf(err, "step %d", i)
			}
		}
	}

	if err := printSummary(w, chain, cfg); err != nil {
		return err
	}
	if ctx.Bool(metricsFlag.Name) {
		return printMetrics(w)
	}
	return nil
}

func runStep(w io.Writer, chain *solo.Chain, step *Step, dump bool) error {
	if step.Mine > 0 {
		if err := chain.Mine(step.Mine); err != nil {
			return err
		}
		fmt.Fprintf(w, "mined %d blocks, best #%d\n", step.Mine, chain.BestBlock())
		return nil
	}

	caller, clause, err := step.Resolve(chain.Deployment())
	if err != nil {
		return err
	}
	receipt, err := chain.Execute(caller, clause)
	if err != nil {
		return err
	}
	printReceipt(w, receipt)
	if dump {
		spew.Fdump(w, receipt)
	}
	return nil
}

func printReceipt(w io.Writer, r *runtime.Receipt) {
	if r.Reverted {
		fmt.Fprintf(w, "#%d %s by %v: reverted: %s\n", r.BlockNumber, r.Method, r.Caller, r.RevertReason)
		return
	}
	fmt.Fprintf(w, "#%d %s by %v: ok, %d events\n", r.BlockNumber, r.Method, r.Caller, len(r.Events))
}

func printSummary(w io.Writer, chain *solo.Chain, cfg *genesis.Config) error {
	d := chain.Deployment()
	decimals := cfg.Token.Decimals
	symbol := cfg.Token.Symbol

	supply, err := d.Token.TotalSupply()
	if err != nil {
		return err
	}
	total, err := d.Bank.TotalStaked()
	if err != nil {
		return err
	}
	rate, err := d.Bank.RewardPerBlock()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "best block     #%d\n", chain.BestBlock())
	fmt.Fprintf(w, "total supply   %s %s\n", thor.FormatUnits(supply, decimals), symbol)
	fmt.Fprintf(w, "total staked   %s %s\n", thor.FormatUnits(total, decimals), symbol)
	fmt.Fprintf(w, "reward/block   %s %s\n", thor.FormatUnits(rate, decimals), symbol)

	for i, acc := range genesis.DevAccounts() {
		bal, err := d.Token.BalanceOf(acc.Address)
		if err != nil {
			return err
		}
		staked, err := d.Bank.Staked(acc.Address)
		if err != nil {
			return err
		}
		if bal.IsZero() && staked.IsZero() {
			continue
		}
		fmt.Fprintf(w, "account %d %v balance %s staked %s\n", i, acc.Address,
			thor.FormatUnits(bal, decimals), thor.FormatUnits(staked, decimals))
	}
	return nil
}

func printMetrics(w io.Writer) error {
	values, err := metrics.Snapshot()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s %v\n", name, values[name])
	}
	return nil
}

func initLogger(ctx *cli.Context) {
	lvl := log.FromVerbosity(ctx.Int(verbosityFlag.Name))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, lvl)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandler(os.Stderr, lvl, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
}
