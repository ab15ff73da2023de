// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/stakefactory/stakefactory/cache"
	"github.com/stakefactory/stakefactory/clock"
	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/eventdb"
	"github.com/stakefactory/stakefactory/kv"
	"github.com/stakefactory/stakefactory/lvldb"
	"github.com/stakefactory/stakefactory/staker"
	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/reward"
)

var (
	authority = common.BytesToAddress([]byte("authority"))
	treasury  = common.BytesToAddress([]byte("treasury"))
	vet       = common.BytesToAddress([]byte("vet"))
	vtho      = common.BytesToAddress([]byte("vtho"))
	alice     = common.BytesToAddress([]byte("alice"))
)

func newRuntime(t *testing.T, now uint64) (*Runtime, kv.Store, *clock.Manual) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	journal, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })

	c, err := cache.NewLRU(128)
	require.NoError(t, err)

	clk := clock.NewManual(now)
	rt := New(db, c, clk, journal)

	_, err = rt.Execute([]Key{FactoryKey}, func(env *Env) error {
		return env.Staker.Initialize(authority, treasury)
	})
	require.NoError(t, err)
	return rt, db, clk
}

func dump(t *testing.T, db kv.Store) map[string]string {
	it := db.Iterate(kv.Range{})
	defer it.Release()

	m := make(map[string]string)
	for it.Next() {
		m[string(it.Key())] = string(it.Value())
	}
	require.NoError(t, it.Error())
	return m
}

func createPool(t *testing.T, rt *Runtime) uint64 {
	var id uint64
	_, err := rt.Execute([]Key{FactoryKey}, func(env *Env) (err error) {
		id, err = env.Staker.CreatePool(authority, vet, vtho, 10, reward.InterestRate{Num: 1, Denom: 1000}, env.Now)
		return
	})
	require.NoError(t, err)
	return id
}

func TestExecute(t *testing.T) {
	rt, _, clk := newRuntime(t, 1000)
	id := createPool(t, rt)

	committed := rt.Committed()
	receipt, err := rt.Execute([]Key{PoolKey(id), WalletKey(alice)}, func(env *Env) error {
		if err := env.Staker.RegisterMember(id, alice, env.Now); err != nil {
			return err
		}
		if err := env.Tokens.Mint(vet, alice, 1000); err != nil {
			return err
		}
		if err := env.Staker.Deposit(id, alice, 1000); err != nil {
			return err
		}
		return env.Staker.Stake(id, alice, 1000, env.Now)
	})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.Instruction)
	assert.Equal(t, uint64(1000), receipt.Time)
	require.Len(t, receipt.Events, 3)
	assert.Equal(t, staker.EventStake, receipt.Events[2].Name)

	var stake staker.StakeData
	require.NoError(t, json.Unmarshal(receipt.Events[2].Data, &stake))
	assert.Equal(t, uint64(1000), stake.Amount)

	select {
	case <-committed:
	case <-time.After(time.Second):
		t.Fatal("commit not signalled")
	}

	events, err := rt.Journal().Filter(context.Background(), &eventdb.Filter{Instruction: receipt.Instruction})
	require.NoError(t, err)
	assert.Equal(t, receipt.Events, events)

	clk.Advance(100)
	err = rt.View([]Key{PoolKey(id)}, func(env *Env) error {
		pending, err := env.Staker.PendingRewards(id, alice, env.Now)
		assert.Equal(t, uint64(100), pending)
		return err
	})
	require.NoError(t, err)

	// the preview did not move the cursor
	err = rt.View([]Key{PoolKey(id)}, func(env *Env) error {
		m, err := env.Staker.Member(id, alice)
		if err != nil {
			return err
		}
		assert.Equal(t, uint64(1000), *m.RewardCursor())
		return nil
	})
	require.NoError(t, err)
}

func TestExecute_FailureLeavesStoreUntouched(t *testing.T) {
	rt, db, _ := newRuntime(t, 0)
	id := createPool(t, rt)

	before := dump(t, db)
	seq, err := rt.Journal().LastSeq(context.Background())
	require.NoError(t, err)

	_, err = rt.Execute([]Key{PoolKey(id), WalletKey(alice)}, func(env *Env) error {
		if err := env.Staker.RegisterMember(id, alice, env.Now); err != nil {
			return err
		}
		// no funds to deposit
		return env.Staker.Deposit(id, alice, 1)
	})
	assert.True(t, reverts.Is(err, reverts.TransferFailed))

	assert.Equal(t, before, dump(t, db))
	after, err := rt.Journal().LastSeq(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seq, after)
}

func TestTreasuryKey(t *testing.T) {
	rt, _, _ := newRuntime(t, 0)
	key, err := rt.TreasuryKey()
	require.NoError(t, err)
	assert.Equal(t, WalletKey(treasury), key)
}

func TestTreasuryKey_Uninitialized(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	rt := New(db, nil, clock.NewManual(0), nil)
	_, err = rt.TreasuryKey()
	assert.True(t, reverts.Is(err, reverts.NotFound))
}

func TestExecute_Concurrent(t *testing.T) {
	rt, _, clk := newRuntime(t, 0)
	id := createPool(t, rt)

	members := make([]common.Address, 8)
	for i := range members {
		members[i] = common.BytesToAddress([]byte{byte(i + 1)})
		_, err := rt.Execute([]Key{PoolKey(id), WalletKey(members[i])}, func(env *Env) error {
			if err := env.Staker.RegisterMember(id, members[i], env.Now); err != nil {
				return err
			}
			if err := env.Tokens.Mint(vet, members[i], 100); err != nil {
				return err
			}
			return env.Staker.Deposit(id, members[i], 100)
		})
		require.NoError(t, err)
	}

	var g errgroup.Group
	for _, m := range members {
		m := m
		g.Go(func() error {
			for i := 0; i < 10; i++ {
				clk.Advance(1)
				if _, err := rt.Execute([]Key{PoolKey(id)}, func(env *Env) error {
					return env.Staker.Stake(id, m, 10, env.Now)
				}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	err := rt.View([]Key{PoolKey(id)}, func(env *Env) error {
		p, err := env.Staker.Pool(id)
		if err != nil {
			return err
		}
		assert.Equal(t, uint64(800), p.TotalStaked)
		return nil
	})
	require.NoError(t, err)
}

func TestKeyLocks(t *testing.T) {
	locks := newKeyLocks()

	unlock := locks.Lock([]Key{PoolKey(1), FactoryKey, PoolKey(1)})
	acquired := make(chan struct{})
	go func() {
		release := locks.Lock([]Key{PoolKey(2), PoolKey(1)})
		close(acquired)
		release()
	}()

	// an unrelated key is not blocked
	locks.Lock([]Key{PoolKey(3)})()

	select {
	case <-acquired:
		t.Fatal("acquired a held key")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()
	<-acquired

	locks.lock.Lock()
	assert.Empty(t, locks.locks)
	locks.lock.Unlock()
}

func TestPeek(t *testing.T) {
	rt, _, _ := newRuntime(t, 0)
	_, err := rt.Execute([]Key{WalletKey(alice)}, func(env *Env) error {
		return env.Tokens.Mint(vet, alice, 42)
	})
	require.NoError(t, err)

	err = rt.Peek(func(env *Env) error {
		bal, err := env.Tokens.Balance(vet, alice)
		assert.Equal(t, uint64(42), bal)
		return err
	})
	assert.NoError(t, err)
}
