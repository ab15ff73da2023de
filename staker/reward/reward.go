// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward defines the reward formulas a pool can be configured with.
package reward

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/stakefactory/stakefactory/staker/reverts"
)

// Kind is the discriminant of a formula. It never changes over a pool's life.
type Kind uint8

const (
	KindInterestRate Kind = iota + 1
	KindProportional
	KindFixed
)

func (k Kind) String() string {
	switch k {
	case KindInterestRate:
		return "interest-rate"
	case KindProportional:
		return "proportional"
	case KindFixed:
		return "fixed"
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}

// Formula is one of InterestRate, Proportional or Fixed.
type Formula interface {
	Kind() Kind
	Validate() error
	Params() Params
}

// Periodic formulas pay only for completed periods.
type Periodic interface {
	Formula
	Period() uint64
}

var (
	_ Formula  = InterestRate{}
	_ Periodic = Proportional{}
	_ Periodic = Fixed{}
)

// InterestRate accrues staked * elapsed seconds * Num / Denom.
type InterestRate struct {
	Num   uint64
	Denom uint64
}

func (f InterestRate) Kind() Kind { return KindInterestRate }

func (f InterestRate) Validate() error {
	if f.Denom == 0 {
		return reverts.New(reverts.InvalidConfiguration, "interest rate denominator is zero")
	}
	return nil
}

func (f InterestRate) Params() Params {
	return Params{Kind: KindInterestRate, A: f.Num, B: f.Denom}
}

// Accrue returns the reward for holding staked over elapsed seconds.
func (f InterestRate) Accrue(staked, elapsed uint64) (uint64, error) {
	v, overflow := math.SafeMul(staked, elapsed)
	if overflow {
		return 0, reverts.Overflow("interest accrual")
	}
	if v, overflow = math.SafeMul(v, f.Num); overflow {
		return 0, reverts.Overflow("interest accrual")
	}
	return v / f.Denom, nil
}

// Proportional splits TotalAmount per period among stakers by their share of the
// period's stake snapshot.
type Proportional struct {
	TotalAmount  uint64
	PeriodLength uint64
}

func (f Proportional) Kind() Kind     { return KindProportional }
func (f Proportional) Period() uint64 { return f.PeriodLength }

func (f Proportional) Validate() error {
	if f.PeriodLength == 0 {
		return reverts.New(reverts.InvalidConfiguration, "period length is zero")
	}
	return nil
}

func (f Proportional) Params() Params {
	return Params{Kind: KindProportional, A: f.TotalAmount, B: f.PeriodLength}
}

// Share returns staked * TotalAmount / snapshot, or 0 for an empty snapshot.
func (f Proportional) Share(staked, snapshot uint64) (uint64, error) {
	if snapshot == 0 {
		return 0, nil
	}
	v, overflow := math.SafeMul(staked, f.TotalAmount)
	if overflow {
		return 0, reverts.Overflow("proportional share")
	}
	return v / snapshot, nil
}

// Fixed pays RewardAmount per period to stakers holding at least RequiredAmount.
type Fixed struct {
	RequiredAmount uint64
	PeriodLength   uint64
	RewardAmount   uint64
}

func (f Fixed) Kind() Kind     { return KindFixed }
func (f Fixed) Period() uint64 { return f.PeriodLength }

func (f Fixed) Validate() error {
	if f.PeriodLength == 0 {
		return reverts.New(reverts.InvalidConfiguration, "period length is zero")
	}
	return nil
}

func (f Fixed) Params() Params {
	return Params{Kind: KindFixed, A: f.RequiredAmount, B: f.PeriodLength, C: f.RewardAmount}
}

// Eligible reports whether staked meets the threshold.
func (f Fixed) Eligible(staked uint64) bool {
	return staked >= f.RequiredAmount
}

// Pay returns the reward for the given number of completed periods plus a trailing
// partial period of partial seconds, paid pro rata.
func (f Fixed) Pay(staked, periods, partial uint64) (uint64, error) {
	if !f.Eligible(staked) {
		return 0, nil
	}
	v, overflow := math.SafeMul(periods, f.RewardAmount)
	if overflow {
		return 0, reverts.Overflow("fixed reward")
	}
	if partial > 0 {
		p, overflow := math.SafeMul(f.RewardAmount, partial)
		if overflow {
			return 0, reverts.Overflow("fixed reward")
		}
		if v, overflow = math.SafeAdd(v, p/f.PeriodLength); overflow {
			return 0, reverts.Overflow("fixed reward")
		}
	}
	return v, nil
}

// Params is the storage form of a formula.
type Params struct {
	Kind Kind
	A    uint64
	B    uint64
	C    uint64
}

// Formula decodes p back into its variant.
func (p Params) Formula() (Formula, error) {
	switch p.Kind {
	case KindInterestRate:
		return InterestRate{Num: p.A, Denom: p.B}, nil
	case KindProportional:
		return Proportional{TotalAmount: p.A, PeriodLength: p.B}, nil
	case KindFixed:
		return Fixed{RequiredAmount: p.A, PeriodLength: p.B, RewardAmount: p.C}, nil
	}
	return nil, reverts.Newf(reverts.InvalidConfiguration, "unknown formula kind %d", p.Kind)
}
