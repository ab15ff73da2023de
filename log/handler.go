// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// FromVerbosity maps the 0 (crit) ... 5 (trace) verbosity scale onto slog levels.
func FromVerbosity(verbosity int) slog.Level {
	return ethlog.FromLegacyLevel(verbosity)
}

// NewTerminalHandler returns a human readable handler emitting records at or above lvl.
func NewTerminalHandler(wr io.Writer, lvl slog.Level, useColor bool) slog.Handler {
	return ethlog.NewTerminalHandlerWithLevel(wr, lvl, useColor)
}

// NewJSONHandler returns a handler emitting one JSON object per record.
func NewJSONHandler(wr io.Writer, lvl slog.Level) slog.Handler {
	return ethlog.JSONHandlerWithLevel(wr, lvl)
}

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}
