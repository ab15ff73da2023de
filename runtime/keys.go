// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"slices"
	"strconv"
	"sync"

	"github.com/stakefactory/stakefactory/common"
)

// Key names a group of records an instruction reads or writes.
//
// A pool key covers the pool with its timeline, snapshots, members and vaults.
// A wallet key covers the token balances of one address. The factory key covers
// the factory record.
type Key string

const FactoryKey Key = "factory"

func PoolKey(id uint64) Key {
	return Key("pool/" + strconv.FormatUint(id, 10))
}

func WalletKey(addr common.Address) Key {
	return Key("wallet/" + addr.String())
}

type keyLock struct {
	sync.Mutex
	refs int
}

// keyLocks is a set of mutexes created on demand, one per key.
type keyLocks struct {
	lock  sync.Mutex
	locks map[Key]*keyLock
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[Key]*keyLock)}
}

// Lock acquires the given keys in sorted order, so that two callers never wait
// on each other in a cycle. It returns the function releasing them.
func (k *keyLocks) Lock(keys []Key) func() {
	keys = slices.Clone(keys)
	slices.Sort(keys)
	keys = slices.Compact(keys)

	held := make([]*keyLock, 0, len(keys))
	for _, key := range keys {
		k.lock.Lock()
		l, ok := k.locks[key]
		if !ok {
			l = &keyLock{}
			k.locks[key] = l
		}
		l.refs++
		k.lock.Unlock()

		l.Lock()
		held = append(held, l)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
			k.lock.Lock()
			if held[i].refs--; held[i].refs == 0 {
				delete(k.locks, keys[i])
			}
			k.lock.Unlock()
		}
	}
}
