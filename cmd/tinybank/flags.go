// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a genesis config file, the default config is used if not set",
	}
	scriptFlag = cli.StringFlag{
		Name:  "script",
		Usage: "path to the YAML script of calls to execute",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	metricsFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "collect metrics and print them at exit",
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "dump every receipt in full",
	}
)
