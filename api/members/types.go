// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package members

import (
	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/staker/member"
)

type Withdrawal struct {
	Start  uint64 `json:"start"`
	Unlock uint64 `json:"unlock"`
	Amount uint64 `json:"amount"`
}

type Member struct {
	PoolID       uint64         `json:"poolId"`
	Beneficiary  common.Address `json:"beneficiary"`
	Available    uint64         `json:"available"`
	Staked       uint64         `json:"staked"`
	Pending      uint64         `json:"pending"`
	Rewards      uint64         `json:"rewards"`
	RewardCursor *uint64        `json:"rewardCursor"`
	RegisteredAt uint64         `json:"registeredAt"`
	Withdrawal   *Withdrawal    `json:"withdrawal"`
}

func convertMember(m *member.Member, w *member.PendingWithdrawal) *Member {
	ret := &Member{
		PoolID:       m.PoolID,
		Beneficiary:  m.Beneficiary,
		Available:    m.Available,
		Staked:       m.Staked,
		Pending:      m.Pending,
		Rewards:      m.Rewards,
		RewardCursor: m.RewardCursor(),
		RegisteredAt: m.RegisteredAt,
	}
	if w.Active {
		ret.Withdrawal = &Withdrawal{
			Start:  w.Start,
			Unlock: w.Unlock,
			Amount: w.Amount,
		}
	}
	return ret
}

type Register struct {
	Beneficiary common.Address `json:"beneficiary"`
}

type Amount struct {
	Amount uint64 `json:"amount"`
}

type Withdraw struct {
	To     common.Address `json:"to"`
	Amount uint64         `json:"amount"`
}

type Claim struct {
	To common.Address `json:"to"`
}
