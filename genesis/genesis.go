// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis bootstraps an empty store from a YAML description of the
// factory, its initial pools and the initial token balances.
package genesis

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/log"
	"github.com/stakefactory/stakefactory/runtime"
	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/reward"
	"github.com/stakefactory/stakefactory/token"
)

var logger = log.WithContext("pkg", "genesis")

type Genesis struct {
	Factory  Factory   `yaml:"factory"`
	Accounts []Account `yaml:"accounts"`
	Pools    []Pool    `yaml:"pools"`
}

type Factory struct {
	Authority common.Address `yaml:"authority"`
	Treasury  common.Address `yaml:"treasury"`
}

// Account is an initial token balance.
type Account struct {
	Asset   common.Address `yaml:"asset"`
	Address common.Address `yaml:"address"`
	Balance uint64         `yaml:"balance"`
}

// Pool is created in order, so the i-th pool gets id i.
type Pool struct {
	Authority    common.Address     `yaml:"authority"`
	StakeAsset   common.Address     `yaml:"stakeAsset"`
	RewardAsset  common.Address     `yaml:"rewardAsset"`
	UnstakeDelay uint64             `yaml:"unstakeDelay"`
	Formula      reward.JSONFormula `yaml:"formula"`
	// reward asset minted straight into the pool vault
	Funding uint64 `yaml:"funding"`
}

// Parse decodes a genesis document. Unknown fields are rejected.
func Parse(data []byte) (*Genesis, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var gen Genesis
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if gen.Factory.Treasury.IsZero() {
		return nil, errors.New("factory.treasury must be set")
	}
	for i, p := range gen.Pools {
		f, err := p.Formula.ToFormula()
		if err != nil {
			return nil, errors.WithMessage(err, fmt.Sprintf("pools[%d]", i))
		}
		if err := f.Validate(); err != nil {
			return nil, errors.WithMessage(err, fmt.Sprintf("pools[%d]", i))
		}
	}
	return &gen, nil
}

// Load reads and parses the genesis file at path.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (g *Genesis) keys() []runtime.Key {
	keys := []runtime.Key{runtime.FactoryKey, runtime.WalletKey(g.Factory.Treasury)}
	for i := range g.Pools {
		keys = append(keys, runtime.PoolKey(uint64(i)))
	}
	for _, a := range g.Accounts {
		keys = append(keys, runtime.WalletKey(a.Address))
	}
	return keys
}

// Apply writes the genesis into rt as a single instruction. A store whose factory
// is already initialized is left untouched, and applied reports false.
func (g *Genesis) Apply(rt *runtime.Runtime) (applied bool, err error) {
	err = rt.View([]runtime.Key{runtime.FactoryKey}, func(env *runtime.Env) error {
		_, err := env.Staker.Factory()
		return err
	})
	if err == nil {
		logger.Debug("factory already initialized, skipping genesis")
		return false, nil
	}
	if !reverts.Is(err, reverts.NotFound) {
		return false, err
	}

	receipt, err := rt.Execute(g.keys(), func(env *runtime.Env) error {
		if err := env.Staker.Initialize(g.Factory.Authority, g.Factory.Treasury); err != nil {
			return err
		}
		for _, a := range g.Accounts {
			if err := env.Tokens.Mint(a.Asset, a.Address, a.Balance); err != nil {
				return errors.WithMessage(err, "account "+a.Address.String())
			}
		}
		for i, p := range g.Pools {
			f, err := p.Formula.ToFormula()
			if err != nil {
				return err
			}
			id, err := env.Staker.CreatePool(p.Authority, p.StakeAsset, p.RewardAsset, p.UnstakeDelay, f, env.Now)
			if err != nil {
				return errors.WithMessage(err, fmt.Sprintf("pools[%d]", i))
			}
			if err := env.Tokens.Mint(p.RewardAsset, token.PoolVault(id), p.Funding); err != nil {
				return errors.WithMessage(err, fmt.Sprintf("pools[%d]", i))
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	logger.Info("genesis applied",
		"instruction", receipt.Instruction,
		"pools", len(g.Pools),
		"accounts", len(g.Accounts),
	)
	return true, nil
}
