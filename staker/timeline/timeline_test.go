// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package timeline

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/reward"
)

func TestNew(t *testing.T) {
	tl, err := New(reward.InterestRate{Num: 1, Denom: 10}, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, tl.Len())
	assert.Equal(t, uint64(100), tl.Last().Start)

	_, open := tl.End(0)
	assert.False(t, open)

	_, err = New(reward.InterestRate{Num: 1}, 100)
	assert.True(t, reverts.Is(err, reverts.InvalidConfiguration))
}

func TestReconfigureKindImmutable(t *testing.T) {
	tl, err := New(reward.InterestRate{Num: 1, Denom: 10}, 100)
	require.NoError(t, err)

	_, err = tl.Reconfigure(reward.Fixed{RequiredAmount: 1, PeriodLength: 10, RewardAmount: 1}, 200)
	assert.True(t, reverts.Is(err, reverts.InvalidConfiguration))
	assert.Equal(t, 1, tl.Len())
	assert.Equal(t, reward.InterestRate{Num: 1, Denom: 10}.Params(), tl.Last().Params)
}

func TestReconfigureInvalidParams(t *testing.T) {
	tl, err := New(reward.InterestRate{Num: 1, Denom: 10}, 100)
	require.NoError(t, err)

	_, err = tl.Reconfigure(reward.InterestRate{Num: 1}, 200)
	assert.True(t, reverts.Is(err, reverts.InvalidConfiguration))
	assert.Equal(t, 1, tl.Len())
}

func TestReconfigureInterestRate(t *testing.T) {
	tl, err := New(reward.InterestRate{Num: 1, Denom: 10}, 100)
	require.NoError(t, err)

	// same second: overwrite in place
	change, err := tl.Reconfigure(reward.InterestRate{Num: 2, Denom: 10}, 100)
	require.NoError(t, err)
	assert.False(t, change.Appended)
	assert.Equal(t, 1, tl.Len())
	assert.Equal(t, reward.InterestRate{Num: 2, Denom: 10}.Params(), tl.Last().Params)

	change, err = tl.Reconfigure(reward.InterestRate{Num: 3, Denom: 10}, 150)
	require.NoError(t, err)
	assert.True(t, change.Appended)
	assert.Equal(t, uint64(150), change.Start)
	assert.Equal(t, uint64(0), change.Periods)

	end, bounded := tl.End(0)
	assert.True(t, bounded)
	assert.Equal(t, uint64(150), end)
}

func TestReconfigureProportionalAlignment(t *testing.T) {
	tl, err := New(reward.Proportional{TotalAmount: 1000, PeriodLength: 60}, 0)
	require.NoError(t, err)

	// no period completed yet: overwrite in place
	change, err := tl.Reconfigure(reward.Proportional{TotalAmount: 2000, PeriodLength: 60}, 30)
	require.NoError(t, err)
	assert.False(t, change.Appended)
	assert.Equal(t, 1, tl.Len())

	// mid period: the new epoch starts at the next boundary
	change, err = tl.Reconfigure(reward.Proportional{TotalAmount: 3000, PeriodLength: 60}, 130)
	require.NoError(t, err)
	assert.True(t, change.Appended)
	assert.Equal(t, uint64(180), change.Start)
	assert.Equal(t, uint64(3), change.Periods)

	// the pending epoch hasn't started: overwrite it
	change, err = tl.Reconfigure(reward.Proportional{TotalAmount: 4000, PeriodLength: 60}, 170)
	require.NoError(t, err)
	assert.False(t, change.Appended)
	assert.Equal(t, 2, tl.Len())
	assert.Equal(t, reward.Proportional{TotalAmount: 4000, PeriodLength: 60}.Params(), tl.Last().Params)

	// aligned: starts right away
	change, err = tl.Reconfigure(reward.Proportional{TotalAmount: 5000, PeriodLength: 60}, 300)
	require.NoError(t, err)
	assert.True(t, change.Appended)
	assert.Equal(t, uint64(300), change.Start)
	assert.Equal(t, uint64(2), change.Periods)
}

func TestReconfigureLimit(t *testing.T) {
	tl, err := New(reward.InterestRate{Num: 1, Denom: 10}, 0)
	require.NoError(t, err)

	for i := 1; i < MaxEpochs; i++ {
		_, err := tl.Reconfigure(reward.InterestRate{Num: uint64(i), Denom: 10}, uint64(i*10))
		require.NoError(t, err)
	}
	assert.Equal(t, MaxEpochs, tl.Len())

	_, err = tl.Reconfigure(reward.InterestRate{Num: 1, Denom: 10}, 1000)
	assert.True(t, reverts.Is(err, reverts.InvalidConfiguration))
	assert.Equal(t, MaxEpochs, tl.Len())

	// the strictly increasing start invariant holds
	for i := 1; i < tl.Len(); i++ {
		assert.Greater(t, tl.Epochs[i].Start, tl.Epochs[i-1].Start)
	}
}

func TestTimelineRLP(t *testing.T) {
	tl, err := New(reward.Fixed{RequiredAmount: 1, PeriodLength: 10, RewardAmount: 2}, 5)
	require.NoError(t, err)
	_, err = tl.Reconfigure(reward.Fixed{RequiredAmount: 2, PeriodLength: 10, RewardAmount: 2}, 50)
	require.NoError(t, err)

	enc, err := rlp.EncodeToBytes(tl)
	require.NoError(t, err)
	var decoded Timeline
	require.NoError(t, rlp.DecodeBytes(enc, &decoded))
	assert.Equal(t, tl.Epochs, decoded.Epochs)
}
