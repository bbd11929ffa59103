// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/doytsujin/besu/api/trace"
	"github.com/doytsujin/besu/cmd/besu/httpserver"
	"github.com/doytsujin/besu/genesis"
	"github.com/doytsujin/besu/log"
	"github.com/doytsujin/besu/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "besu",
		Usage:     "Transaction trace tooling",
		Copyright: "2024 The besu-go developers",
		Commands: []cli.Command{
			{
				Name:  "trace-api",
				Usage: "Serve the flat trace conversion REST API",
				Flags: []cli.Flag{
					apiAddrFlag,
					enableMetricsFlag,
					metricsAddrFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: traceAPIAction,
			},
			{
				Name:  "generate-blockchain-config",
				Usage: "Generate node keypairs and genesis file with RLP encoded IBFT 2.0 extra data",
				Flags: []cli.Flag{
					configFileFlag,
					toFlag,
					genesisFileNameFlag,
					privateKeyFileNameFlag,
					publicKeyFileNameFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: generateBlockchainConfigAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func traceAPIAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		logger.Info("metrics server started", "url", url)
	}

	router := mux.NewRouter()
	trace.New().Mount(router, "/traces")

	url, closeFunc, err := httpserver.StartAPIServer(ctx.String(apiAddrFlag.Name), router)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); closeFunc() }()
	logger.Info("API server started", "url", url)

	<-handleExitSignal()
	return nil
}

func generateBlockchainConfigAction(ctx *cli.Context) error {
	initLogger(ctx)

	opts := genesis.Options{
		ConfigFile:         ctx.String(configFileFlag.Name),
		OutputDir:          ctx.String(toFlag.Name),
		GenesisFileName:    ctx.String(genesisFileNameFlag.Name),
		PrivateKeyFileName: ctx.String(privateKeyFileNameFlag.Name),
		PublicKeyFileName:  ctx.String(publicKeyFileNameFlag.Name),
	}
	if opts.ConfigFile == "" {
		return errors.New("--config-file is required")
	}
	if opts.OutputDir == "" {
		return errors.New("--to is required")
	}

	validators, err := genesis.Generate(opts)
	if err != nil {
		return err
	}
	logger.Info("network configuration generated", "nodes", len(validators), "dir", opts.OutputDir)
	return nil
}
