// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/stakefactory/stakefactory/cache"
	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/kv"
)

// Stage abstracts changes on the record storage.
type Stage struct {
	changes map[common.Bytes32][]byte
	cache   *cache.LRU
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Keys returns the changed slots in ascending order.
func (s *Stage) Keys() []common.Bytes32 {
	keys := make([]common.Bytes32, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys
}

// Commit writes all changes into db in one batch.
// The cache is refreshed only after the batch is written.
func (s *Stage) Commit(db kv.Store) error {
	if len(s.changes) == 0 {
		return nil
	}

	batch := db.NewBatch()
	putter := RecordBucket.NewPutter(batch)
	for _, k := range s.Keys() {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = putter.Delete(k[:])
		} else {
			err = putter.Put(k[:], v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}

	if s.cache != nil {
		for k, v := range s.changes {
			s.cache.Add(k, v)
		}
	}
	metricCommitCounter().Add(1)
	return nil
}
