// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFileFlag = cli.StringFlag{
		Name:  "config-file",
		Usage: "operator configuration file",
	}
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "directory to write output files to",
	}
	genesisFileNameFlag = cli.StringFlag{
		Name:  "genesis-file-name",
		Value: "genesis.json",
		Usage: "name of the genesis file",
	}
	privateKeyFileNameFlag = cli.StringFlag{
		Name:  "private-key-file-name",
		Value: "key.priv",
		Usage: "name of the private key file",
	}
	publicKeyFileNameFlag = cli.StringFlag{
		Name:  "public-key-file-name",
		Value: "key.pub",
		Usage: "name of the public key file",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8545",
		Usage: "trace API service listening address",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
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
)
