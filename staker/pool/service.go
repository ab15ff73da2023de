// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/storage"
	"github.com/stakefactory/stakefactory/staker/timeline"
)

var (
	slotPools     = common.BytesToBytes32([]byte("pools"))
	slotTimelines = common.BytesToBytes32([]byte("pool-timelines"))
)

type Service struct {
	pools     *storage.Mapping[storage.Uint64Key, *Pool]
	timelines *storage.Mapping[storage.Uint64Key, *timeline.Timeline]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		pools:     storage.NewMapping[storage.Uint64Key, *Pool](sctx, slotPools),
		timelines: storage.NewMapping[storage.Uint64Key, *timeline.Timeline](sctx, slotTimelines),
	}
}

// Get returns the pool or a NotFound revert.
func (s *Service) Get(id uint64) (*Pool, error) {
	p, found, err := s.pools.Get(storage.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	if !found {
		return nil, reverts.Newf(reverts.NotFound, "pool %d not found", id)
	}
	return p, nil
}

// Add stores a new pool with its initial timeline.
func (s *Service) Add(p *Pool, tl *timeline.Timeline) error {
	if _, found, err := s.pools.Get(storage.Uint64Key(p.ID)); err != nil {
		return errors.Wrap(err, "failed to get pool")
	} else if found {
		return reverts.Newf(reverts.AlreadyExists, "pool %d already exists", p.ID)
	}
	if err := s.pools.Set(storage.Uint64Key(p.ID), p); err != nil {
		return errors.Wrap(err, "failed to set pool")
	}
	return s.SetTimeline(p.ID, tl)
}

func (s *Service) Update(p *Pool) error {
	return errors.Wrap(s.pools.Set(storage.Uint64Key(p.ID), p), "failed to set pool")
}

// Timeline returns the configuration history of a pool.
func (s *Service) Timeline(id uint64) (*timeline.Timeline, error) {
	tl, found, err := s.timelines.Get(storage.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get timeline")
	}
	if !found {
		return nil, reverts.Newf(reverts.NotFound, "timeline of pool %d not found", id)
	}
	return tl, nil
}

func (s *Service) SetTimeline(id uint64, tl *timeline.Timeline) error {
	return errors.Wrap(s.timelines.Set(storage.Uint64Key(id), tl), "failed to set timeline")
}
