// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package factory

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stakefactory/stakefactory/api/utils"
	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/runtime"
)

type Factory struct {
	Authority common.Address `json:"authority"`
	Treasury  common.Address `json:"treasury"`
	PoolCount uint64         `json:"poolCount"`
	// fee taken from every claim, in parts of FeeDenominator
	FeeNumerator   uint64 `json:"feeNumerator"`
	FeeDenominator uint64 `json:"feeDenominator"`
}

type Handler struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Handler {
	return &Handler{rt}
}

func (h *Handler) handleGetFactory(w http.ResponseWriter, _ *http.Request) error {
	var ret *Factory
	err := h.rt.View([]runtime.Key{runtime.FactoryKey}, func(env *runtime.Env) error {
		f, err := env.Staker.Factory()
		if err != nil {
			return err
		}
		ret = &Factory{
			Authority:      f.Authority,
			Treasury:       f.Treasury,
			PoolCount:      f.PoolCount,
			FeeNumerator:   common.FactoryFeeNumerator,
			FeeDenominator: common.FactoryFeeDenominator,
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, ret)
}

func (h *Handler) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("factory_get").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetFactory))
}
