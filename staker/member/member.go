// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package member

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/staker/reverts"
)

// Member is the position of a beneficiary in a pool.
// Available, Staked and Pending move only through the member's own instructions;
// accrual only ever grows Rewards.
type Member struct {
	PoolID       uint64
	Beneficiary  common.Address
	Available    uint64
	Staked       uint64
	Pending      uint64
	Rewards      uint64 // settled but unclaimed
	CursorSet    bool   // false until the first settlement
	Cursor       uint64 // rewards are settled up to here
	RegisteredAt uint64
}

// RewardCursor returns the settlement cursor, nil until the first settlement.
func (m *Member) RewardCursor() *uint64 {
	if !m.CursorSet {
		return nil
	}
	cursor := m.Cursor
	return &cursor
}

// SetRewardCursor records that rewards are settled up to at.
func (m *Member) SetRewardCursor(at uint64) {
	m.CursorSet = true
	m.Cursor = at
}

// PendingWithdrawal is the unstake request of a member. At most one is active.
type PendingWithdrawal struct {
	Active bool
	Start  uint64
	Unlock uint64
	Amount uint64
}

// ID returns the record key of the member of a pool.
func ID(poolID uint64, beneficiary common.Address) common.Bytes32 {
	return common.Blake2b(binary.BigEndian.AppendUint64(nil, poolID), beneficiary.Bytes())
}

func (m *Member) Deposit(amount uint64) error {
	available, overflow := math.SafeAdd(m.Available, amount)
	if overflow {
		return reverts.Overflow("available balance")
	}
	m.Available = available
	return nil
}

func (m *Member) Withdraw(amount uint64) error {
	if amount > m.Available {
		return reverts.Newf(reverts.InsufficientBalance, "available %d, requested %d", m.Available, amount)
	}
	m.Available -= amount
	return nil
}

// Stake moves amount from available to staked.
func (m *Member) Stake(amount uint64) error {
	if amount > m.Available {
		return reverts.Newf(reverts.InsufficientBalance, "available %d, requested %d", m.Available, amount)
	}
	staked, overflow := math.SafeAdd(m.Staked, amount)
	if overflow {
		return reverts.Overflow("staked balance")
	}
	m.Available -= amount
	m.Staked = staked
	return nil
}

// CheckUnstake validates an unstake request before any settlement happens.
func (m *Member) CheckUnstake(w *PendingWithdrawal, amount uint64) error {
	if w.Active {
		return reverts.New(reverts.UnstakeAlreadyActive, "unstake already active")
	}
	if amount > m.Staked {
		return reverts.Newf(reverts.InsufficientBalance, "staked %d, requested %d", m.Staked, amount)
	}
	return nil
}

// StartUnstake moves amount from staked to pending, unlocking delay seconds from now.
func (m *Member) StartUnstake(w *PendingWithdrawal, amount, now, delay uint64) error {
	if err := m.CheckUnstake(w, amount); err != nil {
		return err
	}
	unlock, overflow := math.SafeAdd(now, delay)
	if overflow {
		return reverts.Overflow("unlock time")
	}
	pending, overflow := math.SafeAdd(m.Pending, amount)
	if overflow {
		return reverts.Overflow("pending balance")
	}

	m.Staked -= amount
	m.Pending = pending
	*w = PendingWithdrawal{Active: true, Start: now, Unlock: unlock, Amount: amount}
	return nil
}

// EndUnstake returns the pending amount to available once unlocked.
func (m *Member) EndUnstake(w *PendingWithdrawal, now uint64) (uint64, error) {
	if !w.Active {
		return 0, reverts.New(reverts.UnstakeNotActive, "no active unstake")
	}
	if now < w.Unlock {
		return 0, reverts.Newf(reverts.UnstakeTimelockNotElapsed, "unstake unlocks at %d", w.Unlock)
	}
	pending, underflow := math.SafeSub(m.Pending, w.Amount)
	if underflow {
		return 0, reverts.Overflow("pending balance")
	}
	available, overflow := math.SafeAdd(m.Available, w.Amount)
	if overflow {
		return 0, reverts.Overflow("available balance")
	}

	amount := w.Amount
	m.Pending = pending
	m.Available = available
	w.Active = false
	return amount, nil
}

// AddRewards credits settled rewards.
func (m *Member) AddRewards(amount uint64) error {
	rewards, overflow := math.SafeAdd(m.Rewards, amount)
	if overflow {
		return reverts.Overflow("reward balance")
	}
	m.Rewards = rewards
	return nil
}

// TakeRewards empties the unclaimed reward balance.
func (m *Member) TakeRewards() (uint64, error) {
	if m.Rewards == 0 {
		return 0, reverts.New(reverts.NothingToClaim, "nothing to claim")
	}
	total := m.Rewards
	m.Rewards = 0
	return total, nil
}
