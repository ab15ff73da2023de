// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual computes the reward owed to a member between its reward cursor and
// now, walking every configuration epoch in between.
package accrual

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/reward"
	"github.com/stakefactory/stakefactory/staker/timeline"
)

// Snapshots resolves the total stake of a global proportional period, freezing
// current as its value if nobody did before.
type Snapshots interface {
	Resolve(index, current uint64) (uint64, error)
}

// Input is the pool and member state a settlement reads.
type Input struct {
	Timeline  *timeline.Timeline
	Offsets   []uint64 // first global period of each epoch, proportional pools only
	Snapshots Snapshots
	Staked    uint64 // member stake, constant since the cursor
	Aggregate uint64 // pool stake right now
}

// Settle returns the reward accrued from cursor to now and the new cursor.
//
// An unset cursor is started at now without reward. The cursor never moves
// backwards, so settling twice at the same time yields nothing the second time.
func Settle(cursor *uint64, now uint64, in *Input) (uint64, uint64, error) {
	if cursor == nil {
		return 0, now, nil
	}
	at := *cursor
	if now <= at {
		return 0, at, nil
	}

	var total uint64
	for i, epoch := range in.Timeline.Epochs {
		if epoch.Start >= now {
			break
		}
		end, bounded := in.Timeline.End(i)
		if bounded && end <= at {
			continue
		}

		from := max(at, epoch.Start)
		to := now
		if bounded && end < now {
			to = end
		}
		if from >= to {
			continue
		}

		formula, err := epoch.Params.Formula()
		if err != nil {
			return 0, 0, err
		}

		var amount uint64
		switch f := formula.(type) {
		case reward.InterestRate:
			if amount, err = f.Accrue(in.Staked, to-from); err != nil {
				return 0, 0, err
			}
			at = to
		case reward.Proportional:
			if i >= len(in.Offsets) {
				return 0, 0, errors.Errorf("no snapshot offset for epoch %d", i)
			}
			if amount, err = proportional(f, epoch.Start, from, to, in.Offsets[i], in); err != nil {
				return 0, 0, err
			}
			at = to
		case reward.Fixed:
			periods := (to - from) / f.PeriodLength
			var partial uint64
			if bounded && to == end {
				// the epoch is over: pay the tail and move on
				partial = (to - from) % f.PeriodLength
				at = end
			} else {
				at = from + periods*f.PeriodLength
			}
			if amount, err = f.Pay(in.Staked, periods, partial); err != nil {
				return 0, 0, err
			}
		default:
			return 0, 0, errors.Errorf("unsupported formula %T", formula)
		}

		var overflow bool
		if total, overflow = math.SafeAdd(total, amount); overflow {
			return 0, 0, reverts.Overflow("reward settlement")
		}
	}
	return total, at, nil
}

// proportional pays every period of the epoch whose end falls in (from, to].
func proportional(f reward.Proportional, start, from, to, offset uint64, in *Input) (uint64, error) {
	first := (from - start) / f.PeriodLength
	last := (to - start) / f.PeriodLength

	var total uint64
	for k := first; k < last; k++ {
		index, overflow := math.SafeAdd(offset, k)
		if overflow {
			return 0, reverts.Overflow("snapshot index")
		}
		sum, err := in.Snapshots.Resolve(index, in.Aggregate)
		if err != nil {
			return 0, err
		}
		share, err := f.Share(in.Staked, sum)
		if err != nil {
			return 0, err
		}
		if total, overflow = math.SafeAdd(total, share); overflow {
			return 0, reverts.Overflow("reward settlement")
		}
	}
	return total, nil
}
