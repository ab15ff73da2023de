// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/log"
	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/storage"
	"github.com/stakefactory/stakefactory/state"
)

var (
	logger = log.WithContext("pkg", "token")

	// Address owns the balance records of the book.
	Address = common.BytesToAddress([]byte("token-book"))

	slotBalances = common.BytesToBytes32([]byte("balances"))
)

type balanceKey struct {
	asset, owner common.Address
}

func (k balanceKey) Bytes() []byte {
	return append(k.asset.Bytes(), k.owner.Bytes()...)
}

// Book keeps per asset balances inside the state, so transfers commit or revert
// together with the instruction that makes them.
type Book struct {
	balances *storage.Mapping[balanceKey, uint64]
}

func NewBook(st *state.State) *Book {
	sctx := storage.NewContext(Address, st)
	return &Book{balances: storage.NewMapping[balanceKey, uint64](sctx, slotBalances)}
}

// Balance returns the balance of owner in asset.
func (b *Book) Balance(asset, owner common.Address) (uint64, error) {
	bal, _, err := b.balances.Get(balanceKey{asset, owner})
	if err != nil {
		return 0, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

func (b *Book) setBalance(asset, owner common.Address, amount uint64) error {
	return errors.Wrap(b.balances.Set(balanceKey{asset, owner}, amount), "failed to set balance")
}

// Mint creates amount of asset out of thin air. Used by genesis and the dev faucet.
func (b *Book) Mint(asset, to common.Address, amount uint64) error {
	bal, err := b.Balance(asset, to)
	if err != nil {
		return err
	}
	bal, overflow := math.SafeAdd(bal, amount)
	if overflow {
		return reverts.Overflow("token balance")
	}
	logger.Trace("mint", "asset", asset, "to", to, "amount", amount)
	return b.setBalance(asset, to, bal)
}

// Transfer implements Transferrer.
func (b *Book) Transfer(asset, from, to common.Address, amount uint64) error {
	fromBal, err := b.Balance(asset, from)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return reverts.Newf(reverts.TransferFailed, "%v holds %d of %v, needs %d", from, fromBal, asset, amount)
	}
	if amount == 0 || from == to {
		return nil
	}
	toBal, err := b.Balance(asset, to)
	if err != nil {
		return err
	}
	toBal, overflow := math.SafeAdd(toBal, amount)
	if overflow {
		return reverts.Overflow("token balance")
	}
	if err := b.setBalance(asset, from, fromBal-amount); err != nil {
		return err
	}
	logger.Trace("transfer", "asset", asset, "from", from, "to", to, "amount", amount)
	return b.setBalance(asset, to, toBal)
}
