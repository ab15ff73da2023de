// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/reward"
)

type op struct {
	Member uint8
	Kind   uint8
	Amount uint16
	Wait   uint8
}

// Random stake and unstake sequences keep the pool aggregate equal to the sum of
// member stakes, and every member's balances add up to what it deposited.
func TestConservation(t *testing.T) {
	formulas := []reward.Formula{
		reward.InterestRate{Num: 1, Denom: 1000},
		reward.Proportional{TotalAmount: 10_000, PeriodLength: 7},
		reward.Fixed{RequiredAmount: 50, PeriodLength: 5, RewardAmount: 3},
	}
	members := []common.Address{alice, bob, carol}
	const deposit = 1 << 20

	for seed, f := range formulas {
		env := newEnv(t)
		id := env.createPool(f, 3, 0)
		for _, m := range members {
			require.NoError(t, env.staker.RegisterMember(id, m, 0))
			require.NoError(t, env.book.Mint(vet, m, deposit))
			require.NoError(t, env.staker.Deposit(id, m, deposit))
		}

		var ops []op
		fuzz.NewWithSeed(int64(seed)).NilChance(0).NumElements(200, 400).Fuzz(&ops)

		now := uint64(0)
		for _, o := range ops {
			now += uint64(o.Wait % 10)
			who := members[int(o.Member)%len(members)]
			amount := uint64(o.Amount)

			var err error
			switch o.Kind % 4 {
			case 0:
				err = env.staker.Stake(id, who, amount, now)
			case 1:
				err = env.staker.StartUnstake(id, who, amount, now)
			case 2:
				_, err = env.staker.EndUnstake(id, who, now)
			case 3:
				_, err = env.staker.PendingRewards(id, who, now)
			}
			if err != nil {
				require.True(t, reverts.IsRevertErr(err), "unexpected error %v", err)
			}

			p, err := env.staker.Pool(id)
			require.NoError(t, err)

			var sum uint64
			for _, addr := range members {
				m, err := env.staker.Member(id, addr)
				require.NoError(t, err)
				sum += m.Staked
				assert.Equal(t, uint64(deposit), m.Available+m.Staked+m.Pending)
				if cursor := m.RewardCursor(); cursor != nil {
					assert.LessOrEqual(t, *cursor, now)
				}
			}
			require.Equal(t, p.TotalStaked, sum, "kind %v", f.Kind())
		}
	}
}
