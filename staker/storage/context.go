// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/state"
)

// Context binds record storage to an owner address inside a state.
// Records of different owners never collide.
type Context struct {
	address common.Address
	state   *state.State
}

func NewContext(address common.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() common.Address {
	return c.address
}

func (c *Context) slot(parts ...[]byte) common.Bytes32 {
	return common.Blake2b(append([][]byte{c.address.Bytes()}, parts...)...)
}
