// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package member

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/lvldb"
	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/storage"
	"github.com/stakefactory/stakefactory/state"
)

var beneficiary = common.BytesToAddress([]byte("beneficiary"))

func newSvc(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(storage.NewContext(common.BytesToAddress([]byte("staker")), state.New(db, nil)))
}

func TestService_Register(t *testing.T) {
	svc := newSvc(t)

	_, err := svc.Get(1, beneficiary)
	assert.True(t, reverts.Is(err, reverts.NotFound))

	m, err := svc.Register(1, beneficiary, 50)
	require.NoError(t, err)
	assert.Nil(t, m.RewardCursor())

	_, err = svc.Register(1, beneficiary, 60)
	assert.True(t, reverts.Is(err, reverts.AlreadyExists))

	// the same beneficiary can join another pool
	_, err = svc.Register(2, beneficiary, 60)
	assert.NoError(t, err)

	w, err := svc.Withdrawal(1, beneficiary)
	assert.NoError(t, err)
	assert.False(t, w.Active)

	m.Staked = 10
	m.SetRewardCursor(70)
	require.NoError(t, svc.Update(m))

	got, err := svc.Get(1, beneficiary)
	assert.NoError(t, err)
	assert.Equal(t, m, got)

	_, err = svc.Withdrawal(3, beneficiary)
	assert.True(t, reverts.Is(err, reverts.NotFound))
}

func TestService_CursorAtZero(t *testing.T) {
	svc := newSvc(t)

	m, err := svc.Register(1, beneficiary, 0)
	require.NoError(t, err)
	m.SetRewardCursor(0)
	require.NoError(t, svc.Update(m))

	got, err := svc.Get(1, beneficiary)
	require.NoError(t, err)
	require.NotNil(t, got.RewardCursor())
	assert.Equal(t, uint64(0), *got.RewardCursor())
}

func TestMember_Balances(t *testing.T) {
	m := &Member{}

	assert.NoError(t, m.Deposit(100))
	assert.True(t, reverts.Is(m.Stake(101), reverts.InsufficientBalance))
	assert.NoError(t, m.Stake(60))
	assert.True(t, reverts.Is(m.Withdraw(41), reverts.InsufficientBalance))
	assert.NoError(t, m.Withdraw(40))

	assert.Equal(t, uint64(0), m.Available)
	assert.Equal(t, uint64(60), m.Staked)

	assert.NoError(t, m.Deposit(1))
	assert.True(t, reverts.Is(m.Deposit(math.MaxUint64), reverts.ArithmeticOverflow))
	assert.Equal(t, uint64(1), m.Available)
}

func TestMember_UnstakeLifecycle(t *testing.T) {
	m := &Member{Staked: 100}
	w := &PendingWithdrawal{}

	assert.True(t, reverts.Is(m.StartUnstake(w, 101, 10, 50), reverts.InsufficientBalance))

	_, err := m.EndUnstake(w, 10)
	assert.True(t, reverts.Is(err, reverts.UnstakeNotActive))

	require.NoError(t, m.StartUnstake(w, 40, 10, 50))
	assert.Equal(t, PendingWithdrawal{Active: true, Start: 10, Unlock: 60, Amount: 40}, *w)
	assert.Equal(t, uint64(60), m.Staked)
	assert.Equal(t, uint64(40), m.Pending)

	assert.True(t, reverts.Is(m.StartUnstake(w, 10, 20, 50), reverts.UnstakeAlreadyActive))

	_, err = m.EndUnstake(w, 59)
	assert.True(t, reverts.Is(err, reverts.UnstakeTimelockNotElapsed))

	amount, err := m.EndUnstake(w, 60)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), amount)
	assert.False(t, w.Active)
	assert.Equal(t, uint64(0), m.Pending)
	assert.Equal(t, uint64(40), m.Available)

	// back to idle: a new request is accepted
	assert.NoError(t, m.StartUnstake(w, 60, 100, 0))
	_, err = m.EndUnstake(w, 100)
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), m.Available)
}

func TestMember_Rewards(t *testing.T) {
	m := &Member{}

	_, err := m.TakeRewards()
	assert.True(t, reverts.Is(err, reverts.NothingToClaim))

	assert.NoError(t, m.AddRewards(7))
	assert.NoError(t, m.AddRewards(3))
	assert.True(t, reverts.Is(m.AddRewards(math.MaxUint64), reverts.ArithmeticOverflow))

	total, err := m.TakeRewards()
	assert.NoError(t, err)
	assert.Equal(t, uint64(10), total)
	assert.Equal(t, uint64(0), m.Rewards)
}

func TestID(t *testing.T) {
	assert.NotEqual(t, ID(1, beneficiary), ID(2, beneficiary))
	assert.Equal(t, ID(1, beneficiary), ID(1, beneficiary))
}
