// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/staker"
	"github.com/stakefactory/stakefactory/staker/pool"
	"github.com/stakefactory/stakefactory/staker/reward"
	"github.com/stakefactory/stakefactory/staker/timeline"
)

type Pool struct {
	ID           uint64              `json:"id"`
	Authority    common.Address      `json:"authority"`
	StakeAsset   common.Address      `json:"stakeAsset"`
	RewardAsset  common.Address      `json:"rewardAsset"`
	UnstakeDelay uint64              `json:"unstakeDelay"`
	Formula      *reward.JSONFormula `json:"formula"`
	TotalStaked  uint64              `json:"totalStaked"`
	CreatedAt    uint64              `json:"createdAt"`
}

func convertPool(p *pool.Pool) (*Pool, error) {
	f, err := p.Formula.Formula()
	if err != nil {
		return nil, err
	}
	return &Pool{
		ID:           p.ID,
		Authority:    p.Authority,
		StakeAsset:   p.StakeAsset,
		RewardAsset:  p.RewardAsset,
		UnstakeDelay: p.UnstakeDelay,
		Formula:      reward.ConvertFormula(f),
		TotalStaked:  p.TotalStaked,
		CreatedAt:    p.CreatedAt,
	}, nil
}

type Epoch struct {
	Start   uint64              `json:"start"`
	End     *uint64             `json:"end"`
	Formula *reward.JSONFormula `json:"formula"`
}

func convertTimeline(tl *timeline.Timeline) ([]*Epoch, error) {
	epochs := make([]*Epoch, 0, tl.Len())
	for i, e := range tl.Epochs {
		f, err := tl.Formula(i)
		if err != nil {
			return nil, err
		}
		epoch := &Epoch{Start: e.Start, Formula: reward.ConvertFormula(f)}
		if end, ok := tl.End(i); ok {
			epoch.End = &end
		}
		epochs = append(epochs, epoch)
	}
	return epochs, nil
}

type Snapshot struct {
	Period uint64 `json:"period"`
	Staked uint64 `json:"staked"`
}

type Snapshots struct {
	Offsets   []uint64    `json:"offsets"`
	Snapshots []*Snapshot `json:"snapshots"`
}

func convertSnapshots(offsets []uint64, taken []staker.Snapshot) *Snapshots {
	s := &Snapshots{
		Offsets:   offsets,
		Snapshots: make([]*Snapshot, 0, len(taken)),
	}
	if s.Offsets == nil {
		s.Offsets = []uint64{}
	}
	for _, t := range taken {
		s.Snapshots = append(s.Snapshots, &Snapshot{Period: t.Index, Staked: t.Sum})
	}
	return s
}

type CreatePool struct {
	Caller       common.Address      `json:"caller"`
	StakeAsset   common.Address      `json:"stakeAsset"`
	RewardAsset  common.Address      `json:"rewardAsset"`
	UnstakeDelay uint64              `json:"unstakeDelay"`
	Formula      *reward.JSONFormula `json:"formula"`
}

// ChangeConfig carries the new formula of a pool. A null formula is accepted and changes nothing.
type ChangeConfig struct {
	Caller  common.Address      `json:"caller"`
	Formula *reward.JSONFormula `json:"formula"`
}

type FundRewards struct {
	Funder common.Address `json:"funder"`
	Amount uint64         `json:"amount"`
}
