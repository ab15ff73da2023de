// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/api/utils"
	"github.com/stakefactory/stakefactory/runtime"
	"github.com/stakefactory/stakefactory/staker/reward"
)

const (
	defaultSnapshotsLimit = 100
	maxSnapshotsLimit     = 1000
)

type Pools struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Pools {
	return &Pools{rt}
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParsePoolID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	var pool *Pool
	err = p.rt.View([]runtime.Key{runtime.PoolKey(id)}, func(env *runtime.Env) error {
		raw, err := env.Staker.Pool(id)
		if err != nil {
			return err
		}
		pool, err = convertPool(raw)
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, pool)
}

func (p *Pools) handleGetTimeline(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParsePoolID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	var epochs []*Epoch
	err = p.rt.View([]runtime.Key{runtime.PoolKey(id)}, func(env *runtime.Env) error {
		tl, err := env.Staker.Timeline(id)
		if err != nil {
			return err
		}
		epochs, err = convertTimeline(tl)
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, epochs)
}

func (p *Pools) handleGetSnapshots(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParsePoolID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	query := req.URL.Query()
	from, err := utils.ParseUint(query.Get("from"), 0)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "from"))
	}
	limit, err := utils.ParseUint(query.Get("limit"), defaultSnapshotsLimit)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "limit"))
	}
	if limit > maxSnapshotsLimit {
		return utils.Forbidden(errors.Errorf("limit exceeds the maximum of %d", maxSnapshotsLimit))
	}

	var snapshots *Snapshots
	err = p.rt.View([]runtime.Key{runtime.PoolKey(id)}, func(env *runtime.Env) error {
		offsets, taken, err := env.Staker.Snapshots(id, from, limit)
		if err != nil {
			return err
		}
		snapshots = convertSnapshots(offsets, taken)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, snapshots)
}

func (p *Pools) handleCreatePool(w http.ResponseWriter, req *http.Request) error {
	var body CreatePool
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Formula == nil {
		return utils.BadRequest(errors.New("body: formula required"))
	}
	formula, err := body.Formula.ToFormula()
	if err != nil {
		return err
	}

	var id uint64
	receipt, err := p.rt.Execute([]runtime.Key{runtime.FactoryKey}, func(env *runtime.Env) (err error) {
		id, err = env.Staker.CreatePool(body.Caller, body.StakeAsset, body.RewardAsset, body.UnstakeDelay, formula, env.Now)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"instruction": receipt.Instruction, "id": id})
}

func (p *Pools) handleChangeConfig(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParsePoolID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	var body ChangeConfig
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	var formula reward.Formula
	if body.Formula != nil {
		if formula, err = body.Formula.ToFormula(); err != nil {
			return err
		}
	}

	receipt, err := p.rt.Execute([]runtime.Key{runtime.PoolKey(id)}, func(env *runtime.Env) error {
		return env.Staker.ChangeConfig(body.Caller, id, formula, env.Now)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"instruction": receipt.Instruction})
}

func (p *Pools) handleFundRewards(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParsePoolID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	var body FundRewards
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	keys := []runtime.Key{runtime.PoolKey(id), runtime.WalletKey(body.Funder)}
	receipt, err := p.rt.Execute(keys, func(env *runtime.Env) error {
		return env.Staker.FundRewards(id, body.Funder, body.Amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"instruction": receipt.Instruction})
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("pools_create").
		HandlerFunc(utils.WrapHandlerFunc(p.handleCreatePool))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("pools_get_pool").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{id}/timeline").
		Methods(http.MethodGet).
		Name("pools_get_timeline").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetTimeline))
	sub.Path("/{id}/snapshots").
		Methods(http.MethodGet).
		Name("pools_get_snapshots").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetSnapshots))
	sub.Path("/{id}/config").
		Methods(http.MethodPost).
		Name("pools_change_config").
		HandlerFunc(utils.WrapHandlerFunc(p.handleChangeConfig))
	sub.Path("/{id}/rewards").
		Methods(http.MethodPost).
		Name("pools_fund_rewards").
		HandlerFunc(utils.WrapHandlerFunc(p.handleFundRewards))
}
