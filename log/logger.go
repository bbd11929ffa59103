// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides the process-wide structured logger, backed by slog
// with handlers tuned for terminal and JSON output.
package log

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger is the handle packages log through.
type Logger = *slog.Logger

var root atomic.Pointer[slog.Logger]

func init() {
	var level slog.LevelVar
	level.Set(LevelInfo)
	root.Store(slog.New(NewTerminalHandlerWithLevel(os.Stderr, &level, false)))
}

// Root returns the root logger.
func Root() Logger {
	return root.Load()
}

// SetRootHandler replaces the root logger's handler. Loggers previously
// derived via WithContext keep their old handler.
func SetRootHandler(h slog.Handler) {
	root.Store(slog.New(h))
}

// WithContext derives a logger carrying the given key/value context on
// every record.
func WithContext(ctx ...any) Logger {
	return Root().With(ctx...)
}

// Verbosity converts a legacy integer verbosity (0=crit up to 5=trace) into
// a level var usable with the leveled handler constructors.
func Verbosity(v int) *slog.LevelVar {
	var level slog.LevelVar
	level.Set(FromLegacyLevel(v))
	return &level
}
