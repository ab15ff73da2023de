// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/common"
)

type Key interface {
	Bytes() []byte
}

// Uint64Key is a Key for numeric identifiers.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// Mapping is a key/value record store, RLP encoded.
// Absent keys read as not found; a record can't be removed once written.
type Mapping[K Key, V any] struct {
	context *Context
	basePos common.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos common.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) common.Bytes32 {
	return m.context.slot(m.basePos.Bytes(), key.Bytes())
}

// Get returns the value stored at key. The bool result is false if key was never set.
func (m *Mapping[K, V]) Get(key K) (value V, found bool, err error) {
	err = m.context.state.DecodeStorage(m.position(key), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		found = true
		return rlp.DecodeBytes(raw, &value)
	})
	if err != nil {
		err = errors.Wrap(err, "decode record")
	}
	return
}

// Set stores value at key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	err := m.context.state.EncodeStorage(m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
	return errors.Wrap(err, "encode record")
}

// Raw is a single RLP encoded value at a fixed slot.
type Raw[V any] struct {
	context *Context
	pos     common.Bytes32
}

func NewRaw[V any](context *Context, pos common.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

// Get returns the stored value, or the zero value if never set.
func (r *Raw[V]) Get() (value V, err error) {
	err = r.context.state.DecodeStorage(r.context.slot(r.pos.Bytes()), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	if err != nil {
		err = errors.Wrap(err, "decode record")
	}
	return
}

func (r *Raw[V]) Set(value V) error {
	err := r.context.state.EncodeStorage(r.context.slot(r.pos.Bytes()), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
	return errors.Wrap(err, "encode record")
}
