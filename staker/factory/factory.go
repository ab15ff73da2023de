// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package factory holds the singleton record that owns every pool: the fee
// treasury and the pool id counter.
package factory

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/storage"
)

var slotFactory = common.BytesToBytes32([]byte("factory"))

type Factory struct {
	Initialized bool
	Authority   common.Address
	Treasury    common.Address
	PoolCount   uint64
}

type Service struct {
	record *storage.Raw[Factory]
}

func New(sctx *storage.Context) *Service {
	return &Service{record: storage.NewRaw[Factory](sctx, slotFactory)}
}

// Get returns the factory, or a NotFound revert before initialization.
func (s *Service) Get() (*Factory, error) {
	f, err := s.record.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get factory")
	}
	if !f.Initialized {
		return nil, reverts.New(reverts.NotFound, "factory not initialized")
	}
	return &f, nil
}

// Initialize creates the factory. It can be done once only.
func (s *Service) Initialize(authority, treasury common.Address) (*Factory, error) {
	f, err := s.record.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get factory")
	}
	if f.Initialized {
		return nil, reverts.New(reverts.AlreadyExists, "factory already initialized")
	}
	if treasury.IsZero() {
		return nil, reverts.New(reverts.InvalidConfiguration, "treasury must not be zero")
	}
	f = Factory{Initialized: true, Authority: authority, Treasury: treasury}
	if err := s.record.Set(f); err != nil {
		return nil, errors.Wrap(err, "failed to set factory")
	}
	return &f, nil
}

// NextPoolID allocates a pool id. Ids start from 0 and are never reused.
func (s *Service) NextPoolID() (uint64, error) {
	f, err := s.Get()
	if err != nil {
		return 0, err
	}
	id := f.PoolCount
	count, overflow := math.SafeAdd(id, 1)
	if overflow {
		return 0, reverts.Overflow("pool count")
	}
	f.PoolCount = count
	if err := s.record.Set(*f); err != nil {
		return 0, errors.Wrap(err, "failed to set factory")
	}
	return id, nil
}
