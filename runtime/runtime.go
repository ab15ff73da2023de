// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime hosts the execution of instructions against the committed store.
//
// An instruction declares the keys it touches, runs against a private state
// overlay, and is committed in a single batch only if it succeeds. Instructions
// with disjoint keys run in parallel.
package runtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/cache"
	"github.com/stakefactory/stakefactory/clock"
	"github.com/stakefactory/stakefactory/co"
	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/eventdb"
	"github.com/stakefactory/stakefactory/kv"
	"github.com/stakefactory/stakefactory/log"
	"github.com/stakefactory/stakefactory/staker"
	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/state"
	"github.com/stakefactory/stakefactory/token"
)

var logger = log.WithContext("pkg", "runtime")

// Env is what an instruction runs against.
type Env struct {
	Staker *staker.Staker
	Tokens *token.Book
	Now    uint64
}

// Receipt describes a committed instruction.
type Receipt struct {
	Instruction string
	Time        uint64
	Events      []*eventdb.Event
}

type Runtime struct {
	db      kv.Store
	cache   *cache.LRU
	clock   clock.Source
	journal *eventdb.EventDB
	locks   *keyLocks

	committed co.Signal

	treasuryLock sync.Mutex
	treasury     *common.Address
}

// New creates a runtime. The cache and the journal are optional.
func New(db kv.Store, c *cache.LRU, src clock.Source, journal *eventdb.EventDB) *Runtime {
	return &Runtime{
		db:      db,
		cache:   c,
		clock:   src,
		journal: journal,
		locks:   newKeyLocks(),
	}
}

func (r *Runtime) Journal() *eventdb.EventDB {
	return r.journal
}

// Committed returns a channel closed when the next instruction commits.
func (r *Runtime) Committed() <-chan struct{} {
	return r.committed.Wait()
}

func (r *Runtime) newEnv(now uint64) (*Env, *state.State) {
	st := state.New(r.db, r.cache)
	book := token.NewBook(st)
	return &Env{
		Staker: staker.New(st, book),
		Tokens: book,
		Now:    now,
	}, st
}

// Execute runs fn holding the given keys and commits its changes if it returns nil.
func (r *Runtime) Execute(keys []Key, fn func(env *Env) error) (*Receipt, error) {
	unlock := r.locks.Lock(keys)
	defer unlock()

	start := time.Now()
	env, st := r.newEnv(r.clock.Now())

	if err := fn(env); err != nil {
		status := "failed"
		if reverts.IsRevertErr(err) {
			status = "reverted"
		}
		metricInstructionCount().AddWithLabel(1, map[string]string{"status": status})
		return nil, err
	}

	stage := st.Stage()
	if err := stage.Commit(r.db); err != nil {
		metricInstructionCount().AddWithLabel(1, map[string]string{"status": "failed"})
		return nil, errors.Wrap(err, "commit")
	}
	metricCommittedRecords().Add(int64(stage.Len()))
	metricSnapshotsTaken().Add(int64(env.Staker.SnapshotsTaken()))

	receipt := &Receipt{
		Instruction: uuid.New(),
		Time:        env.Now,
	}
	for _, ev := range env.Staker.Events() {
		data, err := json.Marshal(ev.Data)
		if err != nil {
			return nil, errors.Wrap(err, "encode event")
		}
		receipt.Events = append(receipt.Events, &eventdb.Event{
			Instruction: receipt.Instruction,
			Name:        ev.Name,
			PoolID:      ev.PoolID,
			Member:      ev.Member,
			Time:        env.Now,
			Data:        data,
		})
	}
	if r.journal != nil {
		// the ledger is already committed, a journal failure must not undo it
		if err := r.journal.Insert(receipt.Events); err != nil {
			logger.Error("failed to journal events", "instruction", receipt.Instruction, "err", err)
		}
	}

	metricInstructionCount().AddWithLabel(1, map[string]string{"status": "committed"})
	metricInstructionDuration().Observe(time.Since(start).Milliseconds())
	logger.Debug("instruction committed",
		"instruction", receipt.Instruction,
		"records", stage.Len(),
		"events", len(receipt.Events),
	)

	r.committed.Broadcast()
	return receipt, nil
}

// View runs fn holding the given keys and discards whatever it changes.
func (r *Runtime) View(keys []Key, fn func(env *Env) error) error {
	unlock := r.locks.Lock(keys)
	defer unlock()

	env, _ := r.newEnv(r.clock.Now())
	return fn(env)
}

// Peek runs fn without holding any key. Reads of a single record are
// consistent; anything wider should use View.
func (r *Runtime) Peek(fn func(env *Env) error) error {
	env, _ := r.newEnv(r.clock.Now())
	return fn(env)
}

// TreasuryKey returns the wallet key of the factory treasury, which claims pay fees to.
func (r *Runtime) TreasuryKey() (Key, error) {
	r.treasuryLock.Lock()
	defer r.treasuryLock.Unlock()

	// the treasury never changes once the factory exists
	if r.treasury == nil {
		err := r.View([]Key{FactoryKey}, func(env *Env) error {
			f, err := env.Staker.Factory()
			if err != nil {
				return err
			}
			r.treasury = &f.Treasury
			return nil
		})
		if err != nil {
			return "", err
		}
	}
	return WalletKey(*r.treasury), nil
}
