// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token is the asset collaborator of the staker. Vaults are addresses
// nobody holds a key for; value leaves a vault only through a Capability.
package token

import (
	"encoding/binary"

	"github.com/stakefactory/stakefactory/common"
)

// Transferrer moves amount of asset between two owners.
type Transferrer interface {
	Transfer(asset, from, to common.Address, amount uint64) error
}

// PoolVault returns the reward vault of a pool.
func PoolVault(poolID uint64) common.Address {
	h := common.Blake2b([]byte("pool-vault"), binary.BigEndian.AppendUint64(nil, poolID))
	return common.BytesToAddress(h.Bytes())
}

// MemberVault returns the vault holding the available and locked balance of a member.
func MemberVault(poolID uint64, beneficiary common.Address) common.Address {
	h := common.Blake2b([]byte("member-vault"), binary.BigEndian.AppendUint64(nil, poolID), beneficiary.Bytes())
	return common.BytesToAddress(h.Bytes())
}

// Capability is the right to spend from a single vault.
type Capability struct {
	vault common.Address
	t     Transferrer
}

func NewCapability(vault common.Address, t Transferrer) *Capability {
	return &Capability{vault: vault, t: t}
}

func (c *Capability) Vault() common.Address {
	return c.vault
}

// Pay sends amount of asset from the vault. Zero amounts are skipped.
func (c *Capability) Pay(asset, to common.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	return c.t.Transfer(asset, c.vault, to, amount)
}
