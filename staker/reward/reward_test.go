// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakefactory/stakefactory/staker/reverts"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		formula Formula
		valid   bool
	}{
		{"interest rate", InterestRate{Num: 1, Denom: 1_000_000}, true},
		{"zero denominator", InterestRate{Num: 1}, false},
		{"proportional", Proportional{TotalAmount: 1000, PeriodLength: 60}, true},
		{"proportional zero period", Proportional{TotalAmount: 1000}, false},
		{"fixed", Fixed{RequiredAmount: 10, PeriodLength: 60, RewardAmount: 5}, true},
		{"fixed zero period", Fixed{RequiredAmount: 10, RewardAmount: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.formula.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, reverts.Is(err, reverts.InvalidConfiguration))
			}
		})
	}
}

func TestInterestRateAccrue(t *testing.T) {
	f := InterestRate{Num: 1, Denom: 1_000_000}

	r, err := f.Accrue(1_000_000, 100)
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), r)

	// floor division
	r, err = f.Accrue(999_999, 1)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), r)

	_, err = f.Accrue(math.MaxUint64, 2)
	assert.True(t, reverts.Is(err, reverts.ArithmeticOverflow))

	_, err = InterestRate{Num: math.MaxUint64, Denom: 1}.Accrue(2, 1)
	assert.True(t, reverts.Is(err, reverts.ArithmeticOverflow))
}

func TestProportionalShare(t *testing.T) {
	f := Proportional{TotalAmount: 1000, PeriodLength: 60}

	r, err := f.Share(300, 1000)
	assert.NoError(t, err)
	assert.Equal(t, uint64(300), r)

	r, err = f.Share(300, 0)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), r)

	_, err = f.Share(math.MaxUint64, 1)
	assert.True(t, reverts.Is(err, reverts.ArithmeticOverflow))
}

func TestFixedPay(t *testing.T) {
	f := Fixed{RequiredAmount: 100, PeriodLength: 60, RewardAmount: 10}

	r, err := f.Pay(100, 3, 0)
	assert.NoError(t, err)
	assert.Equal(t, uint64(30), r)

	// below threshold pays nothing, not an error
	r, err = f.Pay(99, 3, 30)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), r)

	// trailing partial period is paid pro rata
	r, err = f.Pay(500, 1, 30)
	assert.NoError(t, err)
	assert.Equal(t, uint64(15), r)

	_, err = Fixed{PeriodLength: 1, RewardAmount: math.MaxUint64}.Pay(0, 2, 0)
	assert.True(t, reverts.Is(err, reverts.ArithmeticOverflow))
}

func TestParamsRoundTrip(t *testing.T) {
	for _, f := range []Formula{
		InterestRate{Num: 3, Denom: 7},
		Proportional{TotalAmount: 1000, PeriodLength: 60},
		Fixed{RequiredAmount: 1, PeriodLength: 2, RewardAmount: 3},
	} {
		enc, err := rlp.EncodeToBytes(f.Params())
		require.NoError(t, err)

		var p Params
		require.NoError(t, rlp.DecodeBytes(enc, &p))
		decoded, err := p.Formula()
		require.NoError(t, err)
		assert.Equal(t, f, decoded)
		assert.Equal(t, f.Kind(), decoded.Kind())
	}

	_, err := Params{Kind: 9}.Formula()
	assert.True(t, reverts.Is(err, reverts.InvalidConfiguration))
}

func TestJSONFormula(t *testing.T) {
	j := ConvertFormula(Proportional{TotalAmount: 1000, PeriodLength: 60})
	assert.Equal(t, "proportional", j.Kind)

	f, err := j.ToFormula()
	require.NoError(t, err)
	assert.Equal(t, Proportional{TotalAmount: 1000, PeriodLength: 60}, f)

	_, err = (&JSONFormula{Kind: "bogus"}).ToFormula()
	assert.True(t, reverts.Is(err, reverts.InvalidConfiguration))
	assert.Equal(t, "unknown(0)", Kind(0).String())
}
