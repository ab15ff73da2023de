// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package members serves the member instructions of a pool.
//
// Instructions are addressed to /pools/{id}/members/{address}. The address is the
// beneficiary the instruction acts for; the API performs no signature checks and
// is expected to sit behind a trusted gateway.
package members

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/api/utils"
	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/runtime"
)

type Members struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Members {
	return &Members{rt}
}

func parseTarget(req *http.Request) (uint64, common.Address, error) {
	vars := mux.Vars(req)
	id, err := utils.ParsePoolID(vars["id"])
	if err != nil {
		return 0, common.Address{}, err
	}
	addr, err := utils.ParseAddress(vars["address"], "address")
	if err != nil {
		return 0, common.Address{}, err
	}
	return id, addr, nil
}

func (m *Members) handleRegister(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParsePoolID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	var body Register
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	receipt, err := m.rt.Execute([]runtime.Key{runtime.PoolKey(id)}, func(env *runtime.Env) error {
		return env.Staker.RegisterMember(id, body.Beneficiary, env.Now)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"instruction": receipt.Instruction})
}

func (m *Members) handleGetMember(w http.ResponseWriter, req *http.Request) error {
	id, addr, err := parseTarget(req)
	if err != nil {
		return err
	}
	var ret *Member
	err = m.rt.View([]runtime.Key{runtime.PoolKey(id)}, func(env *runtime.Env) error {
		mem, err := env.Staker.Member(id, addr)
		if err != nil {
			return err
		}
		wd, err := env.Staker.PendingWithdrawal(id, addr)
		if err != nil {
			return err
		}
		ret = convertMember(mem, wd)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, ret)
}

func (m *Members) handleGetRewards(w http.ResponseWriter, req *http.Request) error {
	id, addr, err := parseTarget(req)
	if err != nil {
		return err
	}
	var (
		pending uint64
		now     uint64
	)
	err = m.rt.View([]runtime.Key{runtime.PoolKey(id)}, func(env *runtime.Env) (err error) {
		now = env.Now
		pending, err = env.Staker.PendingRewards(id, addr, env.Now)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"pending": pending, "time": now})
}

func (m *Members) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	id, addr, err := parseTarget(req)
	if err != nil {
		return err
	}
	var body Amount
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	keys := []runtime.Key{runtime.PoolKey(id), runtime.WalletKey(addr)}
	receipt, err := m.rt.Execute(keys, func(env *runtime.Env) error {
		return env.Staker.Deposit(id, addr, body.Amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"instruction": receipt.Instruction})
}

func (m *Members) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	id, addr, err := parseTarget(req)
	if err != nil {
		return err
	}
	var body Withdraw
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	keys := []runtime.Key{runtime.PoolKey(id), runtime.WalletKey(body.To)}
	receipt, err := m.rt.Execute(keys, func(env *runtime.Env) error {
		return env.Staker.Withdraw(id, addr, body.To, body.Amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"instruction": receipt.Instruction})
}

func (m *Members) handleStake(w http.ResponseWriter, req *http.Request) error {
	id, addr, err := parseTarget(req)
	if err != nil {
		return err
	}
	var body Amount
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	receipt, err := m.rt.Execute([]runtime.Key{runtime.PoolKey(id)}, func(env *runtime.Env) error {
		return env.Staker.Stake(id, addr, body.Amount, env.Now)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"instruction": receipt.Instruction})
}

func (m *Members) handleStartUnstake(w http.ResponseWriter, req *http.Request) error {
	id, addr, err := parseTarget(req)
	if err != nil {
		return err
	}
	var body Amount
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	receipt, err := m.rt.Execute([]runtime.Key{runtime.PoolKey(id)}, func(env *runtime.Env) error {
		return env.Staker.StartUnstake(id, addr, body.Amount, env.Now)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"instruction": receipt.Instruction})
}

func (m *Members) handleEndUnstake(w http.ResponseWriter, req *http.Request) error {
	id, addr, err := parseTarget(req)
	if err != nil {
		return err
	}

	var amount uint64
	receipt, err := m.rt.Execute([]runtime.Key{runtime.PoolKey(id)}, func(env *runtime.Env) (err error) {
		amount, err = env.Staker.EndUnstake(id, addr, env.Now)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"instruction": receipt.Instruction, "amount": amount})
}

func (m *Members) handleClaim(w http.ResponseWriter, req *http.Request) error {
	id, addr, err := parseTarget(req)
	if err != nil {
		return err
	}
	var body Claim
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	treasury, err := m.rt.TreasuryKey()
	if err != nil {
		return err
	}

	var toBeneficiary, fee uint64
	keys := []runtime.Key{runtime.PoolKey(id), runtime.WalletKey(body.To), treasury}
	receipt, err := m.rt.Execute(keys, func(env *runtime.Env) (err error) {
		toBeneficiary, fee, err = env.Staker.ClaimReward(id, addr, body.To, env.Now)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{
		"instruction": receipt.Instruction,
		"amount":      toBeneficiary,
		"fee":         fee,
	})
}

// Mount registers the member routes. It must be mounted before the pool routes
// sharing the same prefix.
func (m *Members) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("members_register").
		HandlerFunc(utils.WrapHandlerFunc(m.handleRegister))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("members_get_member").
		HandlerFunc(utils.WrapHandlerFunc(m.handleGetMember))
	sub.Path("/{address}/rewards").
		Methods(http.MethodGet).
		Name("members_get_rewards").
		HandlerFunc(utils.WrapHandlerFunc(m.handleGetRewards))
	sub.Path("/{address}/deposit").
		Methods(http.MethodPost).
		Name("members_deposit").
		HandlerFunc(utils.WrapHandlerFunc(m.handleDeposit))
	sub.Path("/{address}/withdraw").
		Methods(http.MethodPost).
		Name("members_withdraw").
		HandlerFunc(utils.WrapHandlerFunc(m.handleWithdraw))
	sub.Path("/{address}/stake").
		Methods(http.MethodPost).
		Name("members_stake").
		HandlerFunc(utils.WrapHandlerFunc(m.handleStake))
	sub.Path("/{address}/unstake").
		Methods(http.MethodPost).
		Name("members_start_unstake").
		HandlerFunc(utils.WrapHandlerFunc(m.handleStartUnstake))
	sub.Path("/{address}/unstake/end").
		Methods(http.MethodPost).
		Name("members_end_unstake").
		HandlerFunc(utils.WrapHandlerFunc(m.handleEndUnstake))
	sub.Path("/{address}/claim").
		Methods(http.MethodPost).
		Name("members_claim").
		HandlerFunc(utils.WrapHandlerFunc(m.handleClaim))
}
