// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package member

import (
	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/storage"
)

var (
	slotMembers     = common.BytesToBytes32([]byte("members"))
	slotWithdrawals = common.BytesToBytes32([]byte("pending-withdrawals"))
)

type Service struct {
	members     *storage.Mapping[common.Bytes32, *Member]
	withdrawals *storage.Mapping[common.Bytes32, *PendingWithdrawal]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		members:     storage.NewMapping[common.Bytes32, *Member](sctx, slotMembers),
		withdrawals: storage.NewMapping[common.Bytes32, *PendingWithdrawal](sctx, slotWithdrawals),
	}
}

// Register creates the member and its idle pending withdrawal.
func (s *Service) Register(poolID uint64, beneficiary common.Address, now uint64) (*Member, error) {
	id := ID(poolID, beneficiary)
	if _, found, err := s.members.Get(id); err != nil {
		return nil, errors.Wrap(err, "failed to get member")
	} else if found {
		return nil, reverts.Newf(reverts.AlreadyExists, "%v is already a member of pool %d", beneficiary, poolID)
	}

	m := &Member{PoolID: poolID, Beneficiary: beneficiary, RegisteredAt: now}
	if err := s.members.Set(id, m); err != nil {
		return nil, errors.Wrap(err, "failed to set member")
	}
	if err := s.withdrawals.Set(id, &PendingWithdrawal{}); err != nil {
		return nil, errors.Wrap(err, "failed to set pending withdrawal")
	}
	return m, nil
}

// Get returns the member or a NotFound revert.
func (s *Service) Get(poolID uint64, beneficiary common.Address) (*Member, error) {
	m, found, err := s.members.Get(ID(poolID, beneficiary))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get member")
	}
	if !found {
		return nil, reverts.Newf(reverts.NotFound, "%v is not a member of pool %d", beneficiary, poolID)
	}
	return m, nil
}

func (s *Service) Update(m *Member) error {
	return errors.Wrap(s.members.Set(ID(m.PoolID, m.Beneficiary), m), "failed to set member")
}

// Withdrawal returns the pending withdrawal of a member.
func (s *Service) Withdrawal(poolID uint64, beneficiary common.Address) (*PendingWithdrawal, error) {
	w, found, err := s.withdrawals.Get(ID(poolID, beneficiary))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pending withdrawal")
	}
	if !found {
		return nil, reverts.Newf(reverts.NotFound, "%v is not a member of pool %d", beneficiary, poolID)
	}
	return w, nil
}

func (s *Service) UpdateWithdrawal(m *Member, w *PendingWithdrawal) error {
	return errors.Wrap(s.withdrawals.Set(ID(m.PoolID, m.Beneficiary), w), "failed to set pending withdrawal")
}
