// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/reward"
)

// Pool is a staking pool. Formula mirrors the last epoch of the pool's timeline.
type Pool struct {
	ID           uint64
	Authority    common.Address
	StakeAsset   common.Address
	RewardAsset  common.Address
	UnstakeDelay uint64 // seconds
	Formula      reward.Params
	TotalStaked  uint64 // sum of the staked balance of all members
	CreatedAt    uint64
}

// AddStake grows the aggregate stake.
func (p *Pool) AddStake(amount uint64) error {
	total, overflow := math.SafeAdd(p.TotalStaked, amount)
	if overflow {
		return reverts.Overflow("pool stake")
	}
	p.TotalStaked = total
	return nil
}

// SubStake shrinks the aggregate stake.
func (p *Pool) SubStake(amount uint64) error {
	total, underflow := math.SafeSub(p.TotalStaked, amount)
	if underflow {
		return reverts.Overflow("pool stake")
	}
	p.TotalStaked = total
	return nil
}
