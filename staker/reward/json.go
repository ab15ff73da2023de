// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"github.com/stakefactory/stakefactory/staker/reverts"
)

// JSONFormula is the external form of a formula used by the API and genesis files.
type JSONFormula struct {
	Kind           string `json:"kind" yaml:"kind"`
	Num            uint64 `json:"num,omitempty" yaml:"num,omitempty"`
	Denom          uint64 `json:"denom,omitempty" yaml:"denom,omitempty"`
	TotalAmount    uint64 `json:"totalAmount,omitempty" yaml:"totalAmount,omitempty"`
	PeriodLength   uint64 `json:"periodLength,omitempty" yaml:"periodLength,omitempty"`
	RequiredAmount uint64 `json:"requiredAmount,omitempty" yaml:"requiredAmount,omitempty"`
	RewardAmount   uint64 `json:"rewardAmount,omitempty" yaml:"rewardAmount,omitempty"`
}

// ToFormula converts j into a formula. The result is not validated.
func (j *JSONFormula) ToFormula() (Formula, error) {
	switch j.Kind {
	case KindInterestRate.String():
		return InterestRate{Num: j.Num, Denom: j.Denom}, nil
	case KindProportional.String():
		return Proportional{TotalAmount: j.TotalAmount, PeriodLength: j.PeriodLength}, nil
	case KindFixed.String():
		return Fixed{RequiredAmount: j.RequiredAmount, PeriodLength: j.PeriodLength, RewardAmount: j.RewardAmount}, nil
	}
	return nil, reverts.Newf(reverts.InvalidConfiguration, "unknown formula kind %q", j.Kind)
}

// ConvertFormula converts f into its external form.
func ConvertFormula(f Formula) *JSONFormula {
	j := &JSONFormula{Kind: f.Kind().String()}
	switch v := f.(type) {
	case InterestRate:
		j.Num, j.Denom = v.Num, v.Denom
	case Proportional:
		j.TotalAmount, j.PeriodLength = v.TotalAmount, v.PeriodLength
	case Fixed:
		j.RequiredAmount, j.PeriodLength, j.RewardAmount = v.RequiredAmount, v.PeriodLength, v.RewardAmount
	}
	return j
}
