// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/log"
	"github.com/stakefactory/stakefactory/staker/accrual"
	"github.com/stakefactory/stakefactory/staker/factory"
	"github.com/stakefactory/stakefactory/staker/member"
	"github.com/stakefactory/stakefactory/staker/pool"
	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/reward"
	"github.com/stakefactory/stakefactory/staker/snapshot"
	"github.com/stakefactory/stakefactory/staker/storage"
	"github.com/stakefactory/stakefactory/staker/timeline"
	"github.com/stakefactory/stakefactory/state"
	"github.com/stakefactory/stakefactory/token"
)

var (
	logger = log.WithContext("pkg", "staker")

	// Address owns the staker records.
	Address = common.BytesToAddress([]byte("staker"))
)

func SetLogger(l log.Logger) {
	logger = l
}

// Staker applies staking instructions to a state.
type Staker struct {
	state  *state.State
	tokens token.Transferrer

	factoryService  *factory.Service
	poolService     *pool.Service
	snapshotService *snapshot.Service
	memberService   *member.Service

	events []*Event
}

// New create a new instance.
func New(st *state.State, tokens token.Transferrer) *Staker {
	sctx := storage.NewContext(Address, st)
	return &Staker{
		state:  st,
		tokens: tokens,

		factoryService:  factory.New(sctx),
		poolService:     pool.New(sctx),
		snapshotService: snapshot.New(sctx),
		memberService:   member.New(sctx),
	}
}

// atomic runs fn so that either all of its changes and events stay or none does.
func (s *Staker) atomic(fn func() error) error {
	checkpoint := s.state.NewCheckpoint()
	n := len(s.events)
	taken := s.snapshotService.Taken()
	if err := fn(); err != nil {
		s.state.RevertTo(checkpoint)
		s.events = s.events[:n]
		s.snapshotService.Forget(taken)
		return err
	}
	return nil
}

// settle credits the rewards the member earned up to now.
func (s *Staker) settle(p *pool.Pool, m *member.Member, now uint64) (uint64, error) {
	tl, err := s.poolService.Timeline(p.ID)
	if err != nil {
		return 0, err
	}
	offsets, err := s.snapshotService.Offsets(p.ID)
	if err != nil {
		return 0, err
	}
	amount, cursor, err := accrual.Settle(m.RewardCursor(), now, &accrual.Input{
		Timeline:  tl,
		Offsets:   offsets,
		Snapshots: s.snapshotService.Bind(p.ID),
		Staked:    m.Staked,
		Aggregate: p.TotalStaked,
	})
	if err != nil {
		return 0, err
	}
	m.SetRewardCursor(cursor)
	if err := m.AddRewards(amount); err != nil {
		return 0, err
	}
	return amount, nil
}

// SnapshotsTaken returns how many period snapshots the applied instructions froze.
func (s *Staker) SnapshotsTaken() uint64 {
	return s.snapshotService.Taken()
}

func (s *Staker) load(poolID uint64, beneficiary common.Address) (*pool.Pool, *member.Member, error) {
	p, err := s.poolService.Get(poolID)
	if err != nil {
		return nil, nil, err
	}
	m, err := s.memberService.Get(poolID, beneficiary)
	if err != nil {
		return nil, nil, err
	}
	return p, m, nil
}

//
// Getters - no state change
//

// Factory returns the factory record.
func (s *Staker) Factory() (*factory.Factory, error) {
	return s.factoryService.Get()
}

// Pool returns a pool.
func (s *Staker) Pool(poolID uint64) (*pool.Pool, error) {
	return s.poolService.Get(poolID)
}

// Timeline returns the configuration history of a pool.
func (s *Staker) Timeline(poolID uint64) (*timeline.Timeline, error) {
	if _, err := s.poolService.Get(poolID); err != nil {
		return nil, err
	}
	return s.poolService.Timeline(poolID)
}

// Snapshot is a taken proportional snapshot.
type Snapshot struct {
	Index uint64
	Sum   uint64
}

// Snapshots returns the epoch offsets of a pool and the snapshots taken
// among the limit periods starting at from.
func (s *Staker) Snapshots(poolID, from, limit uint64) ([]uint64, []Snapshot, error) {
	if _, err := s.poolService.Get(poolID); err != nil {
		return nil, nil, err
	}
	offsets, err := s.snapshotService.Offsets(poolID)
	if err != nil {
		return nil, nil, err
	}
	to, overflow := math.SafeAdd(from, limit)
	if overflow {
		to = ^uint64(0)
	}
	var taken []Snapshot
	for i := from; i < to; i++ {
		sum, found, err := s.snapshotService.Get(poolID, i)
		if err != nil {
			return nil, nil, err
		}
		if found {
			taken = append(taken, Snapshot{Index: i, Sum: sum})
		}
	}
	return offsets, taken, nil
}

// Member returns a member of a pool.
func (s *Staker) Member(poolID uint64, beneficiary common.Address) (*member.Member, error) {
	return s.memberService.Get(poolID, beneficiary)
}

// PendingWithdrawal returns the unstake request record of a member.
func (s *Staker) PendingWithdrawal(poolID uint64, beneficiary common.Address) (*member.PendingWithdrawal, error) {
	return s.memberService.Withdrawal(poolID, beneficiary)
}

// PendingRewards returns what a claim at now would pay in total, fee included.
// It settles in the state it is given, which the caller is expected to discard.
func (s *Staker) PendingRewards(poolID uint64, beneficiary common.Address, now uint64) (uint64, error) {
	p, m, err := s.load(poolID, beneficiary)
	if err != nil {
		return 0, err
	}
	if _, err := s.settle(p, m, now); err != nil {
		return 0, err
	}
	return m.Rewards, nil
}

//
// Setters - state change
//

// Initialize creates the factory, naming the treasury that collects claim fees.
func (s *Staker) Initialize(authority, treasury common.Address) error {
	logger.Debug("initializing factory", "authority", authority, "treasury", treasury)

	err := s.atomic(func() error {
		if _, err := s.factoryService.Initialize(authority, treasury); err != nil {
			return err
		}
		s.emit(EventInitialize, 0, nil, &InitializeData{Authority: authority, Treasury: treasury})
		return nil
	})
	if err != nil {
		logger.Info("initialize failed", "error", err)
		return err
	}

	logger.Info("initialized factory", "treasury", treasury)
	return nil
}

// CreatePool creates a pool owned by caller and returns its id.
func (s *Staker) CreatePool(
	caller common.Address,
	stakeAsset common.Address,
	rewardAsset common.Address,
	unstakeDelay uint64,
	formula reward.Formula,
	now uint64,
) (uint64, error) {
	logger.Debug("creating pool", "caller", caller,
		"stakeAsset", stakeAsset,
		"rewardAsset", rewardAsset,
		"unstakeDelay", unstakeDelay,
	)

	var id uint64
	err := s.atomic(func() error {
		if formula == nil {
			return reverts.New(reverts.InvalidConfiguration, "formula is required")
		}
		tl, err := timeline.New(formula, now)
		if err != nil {
			return err
		}
		if id, err = s.factoryService.NextPoolID(); err != nil {
			return err
		}
		p := &pool.Pool{
			ID:           id,
			Authority:    caller,
			StakeAsset:   stakeAsset,
			RewardAsset:  rewardAsset,
			UnstakeDelay: unstakeDelay,
			Formula:      formula.Params(),
			CreatedAt:    now,
		}
		if err := s.poolService.Add(p, tl); err != nil {
			return err
		}
		if err := s.snapshotService.Init(id); err != nil {
			return err
		}
		s.emit(EventCreatePool, id, nil, &CreatePoolData{
			Authority:    caller,
			StakeAsset:   stakeAsset,
			RewardAsset:  rewardAsset,
			UnstakeDelay: unstakeDelay,
			Formula:      reward.ConvertFormula(formula),
		})
		return nil
	})
	if err != nil {
		logger.Info("create pool failed", "caller", caller, "error", err)
		return 0, err
	}

	logger.Info("created pool", "poolID", id, "kind", formula.Kind())
	return id, nil
}

// ChangeConfig applies a new formula to a pool from now on. A nil formula
// changes nothing but is still recorded.
func (s *Staker) ChangeConfig(caller common.Address, poolID uint64, formula reward.Formula, now uint64) error {
	logger.Debug("changing config", "caller", caller, "poolID", poolID)

	err := s.atomic(func() error {
		p, err := s.poolService.Get(poolID)
		if err != nil {
			return err
		}
		if p.Authority != caller {
			return reverts.Newf(reverts.Unauthorized, "%v is not the authority of pool %d", caller, poolID)
		}

		data := &ChangeConfigData{}
		if formula != nil {
			tl, err := s.poolService.Timeline(poolID)
			if err != nil {
				return err
			}
			change, err := tl.Reconfigure(formula, now)
			if err != nil {
				return err
			}
			if change.Appended {
				if err := s.snapshotService.AppendEpoch(poolID, change.Periods); err != nil {
					return err
				}
			}
			if err := s.poolService.SetTimeline(poolID, tl); err != nil {
				return err
			}
			p.Formula = formula.Params()
			if err := s.poolService.Update(p); err != nil {
				return err
			}
			data.Formula = reward.ConvertFormula(formula)
			data.Appended = change.Appended
			data.Start = change.Start
		}
		s.emit(EventChangeConfig, poolID, nil, data)
		return nil
	})
	if err != nil {
		logger.Info("change config failed", "poolID", poolID, "error", err)
		return err
	}

	logger.Info("changed config", "poolID", poolID)
	return nil
}

// RegisterMember opens a position for beneficiary in a pool.
func (s *Staker) RegisterMember(poolID uint64, beneficiary common.Address, now uint64) error {
	logger.Debug("registering member", "poolID", poolID, "beneficiary", beneficiary)

	err := s.atomic(func() error {
		if _, err := s.poolService.Get(poolID); err != nil {
			return err
		}
		if _, err := s.memberService.Register(poolID, beneficiary, now); err != nil {
			return err
		}
		s.emit(EventRegisterMember, poolID, &beneficiary, nil)
		return nil
	})
	if err != nil {
		logger.Info("register member failed", "poolID", poolID, "beneficiary", beneficiary, "error", err)
		return err
	}

	logger.Info("registered member", "poolID", poolID, "beneficiary", beneficiary)
	return nil
}

// Deposit moves amount of the stake asset from the beneficiary's wallet into its member vault.
func (s *Staker) Deposit(poolID uint64, beneficiary common.Address, amount uint64) error {
	logger.Debug("depositing", "poolID", poolID, "beneficiary", beneficiary, "amount", amount)

	err := s.atomic(func() error {
		p, m, err := s.load(poolID, beneficiary)
		if err != nil {
			return err
		}
		if err := m.Deposit(amount); err != nil {
			return err
		}
		if err := s.tokens.Transfer(p.StakeAsset, beneficiary, token.MemberVault(poolID, beneficiary), amount); err != nil {
			return err
		}
		if err := s.memberService.Update(m); err != nil {
			return err
		}
		s.emit(EventDeposit, poolID, &beneficiary, &AmountData{Amount: amount})
		return nil
	})
	if err != nil {
		logger.Info("deposit failed", "poolID", poolID, "beneficiary", beneficiary, "error", err)
		return err
	}

	logger.Info("deposited", "poolID", poolID, "beneficiary", beneficiary)
	return nil
}

// Withdraw sends amount of the available balance to the given address.
func (s *Staker) Withdraw(poolID uint64, beneficiary, to common.Address, amount uint64) error {
	logger.Debug("withdrawing", "poolID", poolID, "beneficiary", beneficiary, "to", to, "amount", amount)

	err := s.atomic(func() error {
		p, m, err := s.load(poolID, beneficiary)
		if err != nil {
			return err
		}
		if err := m.Withdraw(amount); err != nil {
			return err
		}
		vault := token.NewCapability(token.MemberVault(poolID, beneficiary), s.tokens)
		if err := vault.Pay(p.StakeAsset, to, amount); err != nil {
			return err
		}
		if err := s.memberService.Update(m); err != nil {
			return err
		}
		s.emit(EventWithdraw, poolID, &beneficiary, &WithdrawData{To: to, Amount: amount})
		return nil
	})
	if err != nil {
		logger.Info("withdraw failed", "poolID", poolID, "beneficiary", beneficiary, "error", err)
		return err
	}

	logger.Info("withdrew", "poolID", poolID, "beneficiary", beneficiary)
	return nil
}

// Stake settles the member and locks amount of its available balance.
func (s *Staker) Stake(poolID uint64, beneficiary common.Address, amount, now uint64) error {
	logger.Debug("staking", "poolID", poolID, "beneficiary", beneficiary, "amount", amount)

	err := s.atomic(func() error {
		p, m, err := s.load(poolID, beneficiary)
		if err != nil {
			return err
		}
		settled, err := s.settle(p, m, now)
		if err != nil {
			return err
		}
		if err := m.Stake(amount); err != nil {
			return err
		}
		if err := p.AddStake(amount); err != nil {
			return err
		}
		if err := s.memberService.Update(m); err != nil {
			return err
		}
		if err := s.poolService.Update(p); err != nil {
			return err
		}
		s.emit(EventStake, poolID, &beneficiary, &StakeData{Amount: amount, Settled: settled})
		return nil
	})
	if err != nil {
		logger.Info("stake failed", "poolID", poolID, "beneficiary", beneficiary, "error", err)
		return err
	}

	logger.Info("staked", "poolID", poolID, "beneficiary", beneficiary)
	return nil
}

// StartUnstake settles the member and moves amount of its stake into a pending
// withdrawal that unlocks after the pool's delay.
func (s *Staker) StartUnstake(poolID uint64, beneficiary common.Address, amount, now uint64) error {
	logger.Debug("starting unstake", "poolID", poolID, "beneficiary", beneficiary, "amount", amount)

	err := s.atomic(func() error {
		p, m, err := s.load(poolID, beneficiary)
		if err != nil {
			return err
		}
		w, err := s.memberService.Withdrawal(poolID, beneficiary)
		if err != nil {
			return err
		}
		if err := m.CheckUnstake(w, amount); err != nil {
			return err
		}
		settled, err := s.settle(p, m, now)
		if err != nil {
			return err
		}
		if err := m.StartUnstake(w, amount, now, p.UnstakeDelay); err != nil {
			return err
		}
		if err := p.SubStake(amount); err != nil {
			return err
		}
		if err := s.memberService.UpdateWithdrawal(m, w); err != nil {
			return err
		}
		if err := s.memberService.Update(m); err != nil {
			return err
		}
		if err := s.poolService.Update(p); err != nil {
			return err
		}
		s.emit(EventStartUnstake, poolID, &beneficiary, &StartUnstakeData{Amount: amount, Unlock: w.Unlock, Settled: settled})
		return nil
	})
	if err != nil {
		logger.Info("start unstake failed", "poolID", poolID, "beneficiary", beneficiary, "error", err)
		return err
	}

	logger.Info("started unstake", "poolID", poolID, "beneficiary", beneficiary)
	return nil
}

// EndUnstake releases an unlocked pending withdrawal into the available balance.
func (s *Staker) EndUnstake(poolID uint64, beneficiary common.Address, now uint64) (uint64, error) {
	logger.Debug("ending unstake", "poolID", poolID, "beneficiary", beneficiary)

	var amount uint64
	err := s.atomic(func() error {
		_, m, err := s.load(poolID, beneficiary)
		if err != nil {
			return err
		}
		w, err := s.memberService.Withdrawal(poolID, beneficiary)
		if err != nil {
			return err
		}
		if amount, err = m.EndUnstake(w, now); err != nil {
			return err
		}
		if err := s.memberService.UpdateWithdrawal(m, w); err != nil {
			return err
		}
		if err := s.memberService.Update(m); err != nil {
			return err
		}
		s.emit(EventEndUnstake, poolID, &beneficiary, &AmountData{Amount: amount})
		return nil
	})
	if err != nil {
		logger.Info("end unstake failed", "poolID", poolID, "beneficiary", beneficiary, "error", err)
		return 0, err
	}

	logger.Info("ended unstake", "poolID", poolID, "beneficiary", beneficiary, "amount", amount)
	return amount, nil
}

// ClaimReward settles the member and pays out all its rewards from the pool vault,
// less the factory fee which goes to the treasury.
func (s *Staker) ClaimReward(poolID uint64, beneficiary, to common.Address, now uint64) (uint64, uint64, error) {
	logger.Debug("claiming reward", "poolID", poolID, "beneficiary", beneficiary, "to", to)

	var toBeneficiary, fee uint64
	err := s.atomic(func() error {
		f, err := s.factoryService.Get()
		if err != nil {
			return err
		}
		p, m, err := s.load(poolID, beneficiary)
		if err != nil {
			return err
		}
		if _, err := s.settle(p, m, now); err != nil {
			return err
		}
		total, err := m.TakeRewards()
		if err != nil {
			return err
		}
		scaled, overflow := math.SafeMul(total, common.FactoryFeeNumerator)
		if overflow {
			return reverts.Overflow("factory fee")
		}
		fee = scaled / common.FactoryFeeDenominator
		toBeneficiary = total - fee

		vault := token.NewCapability(token.PoolVault(poolID), s.tokens)
		if err := vault.Pay(p.RewardAsset, f.Treasury, fee); err != nil {
			return err
		}
		if err := vault.Pay(p.RewardAsset, to, toBeneficiary); err != nil {
			return err
		}
		if err := s.memberService.Update(m); err != nil {
			return err
		}
		s.emit(EventClaimReward, poolID, &beneficiary, &ClaimRewardData{
			To:            to,
			ToBeneficiary: toBeneficiary,
			FactoryFee:    fee,
		})
		return nil
	})
	if err != nil {
		logger.Info("claim reward failed", "poolID", poolID, "beneficiary", beneficiary, "error", err)
		return 0, 0, err
	}

	logger.Info("claimed reward", "poolID", poolID, "beneficiary", beneficiary, "amount", toBeneficiary, "fee", fee)
	return toBeneficiary, fee, nil
}

// FundRewards moves amount of the reward asset from funder into the pool vault.
func (s *Staker) FundRewards(poolID uint64, funder common.Address, amount uint64) error {
	logger.Debug("funding rewards", "poolID", poolID, "funder", funder, "amount", amount)

	err := s.atomic(func() error {
		p, err := s.poolService.Get(poolID)
		if err != nil {
			return err
		}
		if err := s.tokens.Transfer(p.RewardAsset, funder, token.PoolVault(poolID), amount); err != nil {
			return err
		}
		s.emit(EventFundRewards, poolID, nil, &FundRewardsData{Funder: funder, Amount: amount})
		return nil
	})
	if err != nil {
		logger.Info("fund rewards failed", "poolID", poolID, "error", err)
		return err
	}

	logger.Info("funded rewards", "poolID", poolID, "amount", amount)
	return nil
}
