// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/staker/reward"
)

// Event names.
const (
	EventInitialize     = "Initialize"
	EventCreatePool     = "CreatePool"
	EventChangeConfig   = "ChangeConfig"
	EventRegisterMember = "RegisterMember"
	EventDeposit        = "Deposit"
	EventWithdraw       = "Withdraw"
	EventStake          = "Stake"
	EventStartUnstake   = "StartUnstake"
	EventEndUnstake     = "EndUnstake"
	EventClaimReward    = "ClaimReward"
	EventFundRewards    = "FundRewards"
)

// Event records an applied instruction. Events of a failed instruction are dropped.
type Event struct {
	Name   string
	PoolID uint64
	Member *common.Address // beneficiary, if the instruction concerns a member
	Data   any
}

type InitializeData struct {
	Authority common.Address `json:"authority"`
	Treasury  common.Address `json:"treasury"`
}

type CreatePoolData struct {
	Authority    common.Address      `json:"authority"`
	StakeAsset   common.Address      `json:"stakeAsset"`
	RewardAsset  common.Address      `json:"rewardAsset"`
	UnstakeDelay uint64              `json:"unstakeDelay"`
	Formula      *reward.JSONFormula `json:"formula"`
}

type ChangeConfigData struct {
	Formula  *reward.JSONFormula `json:"formula"` // nil when nothing changed
	Appended bool                `json:"appended"`
	Start    uint64              `json:"start"`
}

type AmountData struct {
	Amount uint64 `json:"amount"`
}

type StakeData struct {
	Amount  uint64 `json:"amount"`
	Settled uint64 `json:"settled"`
}

type StartUnstakeData struct {
	Amount  uint64 `json:"amount"`
	Unlock  uint64 `json:"unlock"`
	Settled uint64 `json:"settled"`
}

type WithdrawData struct {
	To     common.Address `json:"to"`
	Amount uint64         `json:"amount"`
}

type ClaimRewardData struct {
	To            common.Address `json:"to"`
	ToBeneficiary uint64         `json:"toBeneficiary"`
	FactoryFee    uint64         `json:"factoryFee"`
}

type FundRewardsData struct {
	Funder common.Address `json:"funder"`
	Amount uint64         `json:"amount"`
}

func (s *Staker) emit(name string, poolID uint64, beneficiary *common.Address, data any) {
	s.events = append(s.events, &Event{
		Name:   name,
		PoolID: poolID,
		Member: beneficiary,
		Data:   data,
	})
}

// Events returns the events of the instructions applied so far.
func (s *Staker) Events() []*Event {
	return s.events
}
