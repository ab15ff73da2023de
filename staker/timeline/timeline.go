// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package timeline keeps the configuration history of a pool.
//
// Epoch i covers [Epochs[i].Start, Epochs[i+1].Start); the last epoch is open ended.
// Start times strictly increase and every epoch shares the formula kind of the first.
package timeline

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/reward"
)

// MaxEpochs bounds the number of epochs of a timeline.
const MaxEpochs = common.MaxConfigEpochs

type Epoch struct {
	Params reward.Params
	Start  uint64
}

type Timeline struct {
	Epochs []Epoch
}

// New creates a timeline whose first epoch starts at start.
func New(f reward.Formula, start uint64) (*Timeline, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &Timeline{Epochs: []Epoch{{Params: f.Params(), Start: start}}}, nil
}

func (t *Timeline) Len() int {
	return len(t.Epochs)
}

// Last returns the most recent epoch.
func (t *Timeline) Last() Epoch {
	return t.Epochs[len(t.Epochs)-1]
}

// End returns the end of epoch i. The bool result is false for the open ended last epoch.
func (t *Timeline) End(i int) (uint64, bool) {
	if i+1 < len(t.Epochs) {
		return t.Epochs[i+1].Start, true
	}
	return 0, false
}

// Formula decodes the formula of epoch i.
func (t *Timeline) Formula(i int) (reward.Formula, error) {
	return t.Epochs[i].Params.Formula()
}

// Change describes how Reconfigure applied a formula.
type Change struct {
	Appended bool
	Start    uint64 // start of the affected epoch
	// Periods is the number of proportional periods of the epoch closed by an
	// append. It is zero otherwise.
	Periods uint64
}

// Reconfigure applies f from now on.
//
// The last epoch is overwritten in place when it has not started yet, or when it is
// proportional and none of its periods has completed. Otherwise a new epoch is
// appended, starting now or, for proportional formulas, at the next period boundary.
func (t *Timeline) Reconfigure(f reward.Formula, now uint64) (Change, error) {
	last := t.Last()
	current, err := last.Params.Formula()
	if err != nil {
		return Change{}, err
	}
	if current.Kind() != f.Kind() {
		return Change{}, reverts.Newf(reverts.InvalidConfiguration,
			"formula kind %s can't be changed to %s", current.Kind(), f.Kind())
	}
	if err := f.Validate(); err != nil {
		return Change{}, err
	}

	overwrite := now <= last.Start
	next := now
	var periods uint64

	if p, ok := current.(reward.Proportional); ok && !overwrite {
		elapsed := now - last.Start
		if elapsed < p.PeriodLength {
			overwrite = true
		} else {
			if rem := elapsed % p.PeriodLength; rem != 0 {
				var overflow bool
				if next, overflow = math.SafeAdd(now, p.PeriodLength-rem); overflow {
					return Change{}, reverts.Overflow("epoch start")
				}
			}
			periods = (next - last.Start) / p.PeriodLength
		}
	}

	if overwrite {
		t.Epochs[len(t.Epochs)-1].Params = f.Params()
		return Change{Start: last.Start}, nil
	}

	if len(t.Epochs) >= MaxEpochs {
		return Change{}, reverts.Newf(reverts.InvalidConfiguration, "timeline is limited to %d epochs", MaxEpochs)
	}
	t.Epochs = append(t.Epochs, Epoch{Params: f.Params(), Start: next})
	return Change{Appended: true, Start: next, Periods: periods}, nil
}
