// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/binary"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/staker/reward"
)

const devBalance = 1_000_000_000

var (
	DevStakeAsset  = common.BytesToAddress([]byte("dev-stake"))
	DevRewardAsset = common.BytesToAddress([]byte("dev-reward"))
)

// DevAccounts returns the accounts funded by the dev genesis. The first one owns
// the factory and its pools.
func DevAccounts() []common.Address {
	accs := make([]common.Address, 10)
	for i := range accs {
		hash := common.Blake2b([]byte("dev-account"), binary.BigEndian.AppendUint32(nil, uint32(i)))
		accs[i] = common.BytesToAddress(hash[12:])
	}
	return accs
}

// Dev returns the genesis used in dev mode: one pool of each formula kind and
// funded dev accounts.
func Dev() *Genesis {
	accs := DevAccounts()
	owner := accs[0]

	gen := &Genesis{
		Factory: Factory{
			Authority: owner,
			Treasury:  common.BytesToAddress([]byte("dev-treasury")),
		},
		Pools: []Pool{
			{
				Authority:    owner,
				StakeAsset:   DevStakeAsset,
				RewardAsset:  DevRewardAsset,
				UnstakeDelay: 60,
				Formula:      *reward.ConvertFormula(reward.InterestRate{Num: 1, Denom: 1_000_000}),
				Funding:      devBalance,
			},
			{
				Authority:    owner,
				StakeAsset:   DevStakeAsset,
				RewardAsset:  DevRewardAsset,
				UnstakeDelay: 60,
				Formula:      *reward.ConvertFormula(reward.Proportional{TotalAmount: 1000, PeriodLength: 60}),
				Funding:      devBalance,
			},
			{
				Authority:    owner,
				StakeAsset:   DevStakeAsset,
				RewardAsset:  DevRewardAsset,
				UnstakeDelay: 60,
				Formula:      *reward.ConvertFormula(reward.Fixed{RequiredAmount: 1000, PeriodLength: 60, RewardAmount: 10}),
				Funding:      devBalance,
			},
		},
	}
	for _, acc := range accs {
		gen.Accounts = append(gen.Accounts,
			Account{Asset: DevStakeAsset, Address: acc, Balance: devBalance},
			Account{Asset: DevRewardAsset, Address: acc, Balance: devBalance},
		)
	}
	return gen
}
