// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/stakefactory/stakefactory/cache"
	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/kv"
	"github.com/stakefactory/stakefactory/stackedmap"
)

// RecordBucket is the kv bucket holding all records.
const RecordBucket = kv.Bucket("r")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// State is a revertable view of records keyed by 32-byte slots.
// Absent slots read as empty values.
type State struct {
	src   kv.Getter
	cache *cache.LRU // optional, filled by commits only
	sm    *stackedmap.StackedMap[common.Bytes32, []byte]
}

// New create state object.
func New(db kv.Getter, c *cache.LRU) *State {
	s := &State{
		src:   RecordBucket.NewGetter(db),
		cache: c,
	}
	s.sm = stackedmap.New(s.load)
	return s
}

// load implements stackedmap.MapGetter.
func (s *State) load(key common.Bytes32) ([]byte, bool, error) {
	fetch := func(any) (any, error) {
		v, err := s.src.Get(key[:])
		if err != nil {
			if s.src.IsNotFound(err) {
				return []byte(nil), nil
			}
			return nil, err
		}
		return v, nil
	}

	var (
		v   any
		err error
	)
	if s.cache != nil {
		// a read may race a commit of the same slot made under another key,
		// so only Stage.Commit admits values
		v, err = s.cache.GetOrLoad(key, fetch, false)
	} else {
		v, err = fetch(key)
	}
	if err != nil {
		return nil, false, err
	}
	metricRecordCounter().AddWithLabel(1, map[string]string{"type": "read"})
	return v.([]byte), true, nil
}

// GetRawStorage returns the raw value of the slot.
func (s *State) GetRawStorage(key common.Bytes32) ([]byte, error) {
	v, _, err := s.sm.Get(key)
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// SetRawStorage sets the raw value of the slot. An empty value deletes the slot on commit.
func (s *State) SetRawStorage(key common.Bytes32, raw []byte) {
	s.sm.Put(key, raw)
	metricRecordCounter().AddWithLabel(1, map[string]string{"type": "write"})
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(key common.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be passed through.
func (s *State) DecodeStorage(key common.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(key)
	if err != nil {
		return err
	}
	return dec(raw)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage builds the net changes made since the state was created.
func (s *State) Stage() *Stage {
	changes := make(map[common.Bytes32][]byte)
	s.sm.Journal(func(k common.Bytes32, v []byte) bool {
		changes[k] = v
		return true
	})
	return &Stage{changes: changes, cache: s.cache}
}
