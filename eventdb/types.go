// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/stakefactory/stakefactory/common"
)

// Event is a journaled instruction event.
type Event struct {
	Seq         uint64 // assigned on insert, strictly increasing
	Instruction string
	Name        string
	PoolID      uint64
	Member      *common.Address
	Time        uint64
	Data        []byte // JSON payload
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects events. Zero fields match everything.
type Filter struct {
	After       uint64 // only events with a greater Seq
	Instruction string
	Name        string
	PoolID      *uint64
	Member      *common.Address
	Order       Order
	Options     *Options
}
