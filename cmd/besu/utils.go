// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/doytsujin/besu/log"
)

func initLogger(ctx *cli.Context) {
	level := log.Verbosity(ctx.Int(verbosityFlag.Name))
	if ctx.Bool(jsonLogsFlag.Name) {
		log.SetRootHandler(log.JSONHandlerWithLevel(os.Stderr, level))
		return
	}
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.SetRootHandler(log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor))
}

// handleExitSignal returns a channel closed on SIGINT or SIGTERM.
func handleExitSignal() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
	}()
	return done
}
