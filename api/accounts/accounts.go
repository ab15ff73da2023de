// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/api/utils"
	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/runtime"
)

type Balance struct {
	Asset   common.Address `json:"asset"`
	Address common.Address `json:"address"`
	Balance uint64         `json:"balance"`
}

type Faucet struct {
	Asset  common.Address `json:"asset"`
	To     common.Address `json:"to"`
	Amount uint64         `json:"amount"`
}

type Accounts struct {
	rt  *runtime.Runtime
	dev bool
}

// New creates the account handlers. The faucet is only served when dev is set.
func New(rt *runtime.Runtime, dev bool) *Accounts {
	return &Accounts{rt, dev}
}

func (a *Accounts) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	asset, err := utils.ParseAddress(vars["asset"], "asset")
	if err != nil {
		return err
	}
	addr, err := utils.ParseAddress(vars["address"], "address")
	if err != nil {
		return err
	}

	var bal uint64
	// vault balances are written under pool keys, so no single key covers every address
	err = a.rt.Peek(func(env *runtime.Env) (err error) {
		bal, err = env.Tokens.Balance(asset, addr)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{Asset: asset, Address: addr, Balance: bal})
}

// handleFaucet mints into a wallet. Vault addresses are not guarded against; minting
// into one races the pool instructions that hold it.
func (a *Accounts) handleFaucet(w http.ResponseWriter, req *http.Request) error {
	if !a.dev {
		return utils.Forbidden(errors.New("faucet is only available in dev mode"))
	}
	var body Faucet
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	receipt, err := a.rt.Execute([]runtime.Key{runtime.WalletKey(body.To)}, func(env *runtime.Env) error {
		return env.Tokens.Mint(body.Asset, body.To, body.Amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"instruction": receipt.Instruction})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/faucet").
		Methods(http.MethodPost).
		Name("accounts_faucet").
		HandlerFunc(utils.WrapHandlerFunc(a.handleFaucet))
	sub.Path("/{asset}/{address}").
		Methods(http.MethodGet).
		Name("accounts_get_balance").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))
}
