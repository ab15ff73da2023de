// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/eventdb"
)

// Event is a journaled event. Data is the payload of the named event as recorded at commit.
type Event struct {
	Seq         uint64          `json:"seq"`
	Instruction string          `json:"instruction"`
	Name        string          `json:"name"`
	PoolID      uint64          `json:"poolId"`
	Member      *common.Address `json:"member"`
	Time        uint64          `json:"time"`
	Data        json.RawMessage `json:"data"`
}

func ConvertEvent(e *eventdb.Event) *Event {
	data := json.RawMessage(e.Data)
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return &Event{
		Seq:         e.Seq,
		Instruction: e.Instruction,
		Name:        e.Name,
		PoolID:      e.PoolID,
		Member:      e.Member,
		Time:        e.Time,
		Data:        data,
	}
}
