// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package snapshot stores the total stake of every proportional period.
//
// Periods are numbered globally per pool: epoch i starts at period Offsets[i].
// A period's snapshot is written by the first settlement that needs it, using the
// pool's aggregate stake at that moment, and never changes afterwards.
package snapshot

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/storage"
)

var (
	slotSnapshots = common.BytesToBytes32([]byte("snapshots"))
	slotOffsets   = common.BytesToBytes32([]byte("snapshot-offsets"))
)

type slotKey struct {
	pool  uint64
	index uint64
}

func (k slotKey) Bytes() []byte {
	b := binary.BigEndian.AppendUint64(nil, k.pool)
	return binary.BigEndian.AppendUint64(b, k.index)
}

type Service struct {
	slots   *storage.Mapping[slotKey, uint64]
	offsets *storage.Mapping[storage.Uint64Key, []uint64]

	taken uint64 // snapshots written through this service
}

func New(sctx *storage.Context) *Service {
	return &Service{
		slots:   storage.NewMapping[slotKey, uint64](sctx, slotSnapshots),
		offsets: storage.NewMapping[storage.Uint64Key, []uint64](sctx, slotOffsets),
	}
}

// Init prepares the store of a new pool, whose first epoch starts at period 0.
func (s *Service) Init(poolID uint64) error {
	return s.offsets.Set(storage.Uint64Key(poolID), []uint64{0})
}

// Offsets returns the first global period index of every epoch.
func (s *Service) Offsets(poolID uint64) ([]uint64, error) {
	offsets, found, err := s.offsets.Get(storage.Uint64Key(poolID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get snapshot offsets")
	}
	if !found {
		return nil, reverts.Newf(reverts.NotFound, "no snapshot store for pool %d", poolID)
	}
	return offsets, nil
}

// AppendEpoch registers a new epoch starting after the given number of periods
// of the previous one.
func (s *Service) AppendEpoch(poolID uint64, periods uint64) error {
	offsets, err := s.Offsets(poolID)
	if err != nil {
		return err
	}
	next, overflow := math.SafeAdd(offsets[len(offsets)-1], periods)
	if overflow {
		return reverts.Overflow("snapshot offset")
	}
	return s.offsets.Set(storage.Uint64Key(poolID), append(offsets, next))
}

// Get returns the snapshot of a period. The bool result is false if it was never taken.
func (s *Service) Get(poolID, index uint64) (uint64, bool, error) {
	sum, found, err := s.slots.Get(slotKey{poolID, index})
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to get snapshot")
	}
	return sum, found, nil
}

// Resolve returns the snapshot of a period, taking it from current if absent.
func (s *Service) Resolve(poolID, index, current uint64) (uint64, error) {
	sum, found, err := s.Get(poolID, index)
	if err != nil {
		return 0, err
	}
	if found {
		return sum, nil
	}
	if err := s.slots.Set(slotKey{poolID, index}, current); err != nil {
		return 0, errors.Wrap(err, "failed to set snapshot")
	}
	s.taken++
	return current, nil
}

// Taken returns the number of snapshots Resolve has written.
func (s *Service) Taken() uint64 {
	return s.taken
}

// Forget rolls the taken count back to n after the writes beyond it were reverted.
func (s *Service) Forget(n uint64) {
	s.taken = min(s.taken, n)
}

// Bind returns the snapshots of a single pool.
func (s *Service) Bind(poolID uint64) *Pool {
	return &Pool{s, poolID}
}

// Pool is the snapshot store of one pool.
type Pool struct {
	svc    *Service
	poolID uint64
}

func (p *Pool) Resolve(index, current uint64) (uint64, error) {
	return p.svc.Resolve(p.poolID, index, current)
}
