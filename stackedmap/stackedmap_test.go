// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stakefactory/stakefactory/stackedmap"
)

func M(a ...any) []any {
	return a
}

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := make(map[string]string)
	src["foo"] = "bar"

	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, r := src[key]
		return v, r, nil
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []any
	}{
		{func() {}, 1, "", "", "foo", M("bar", true, nil)},
		{func() { sm.Push() }, 2, "foo", "baz", "foo", M("baz", true, nil)},
		{func() {}, 2, "foo", "baz1", "foo", M("baz1", true, nil)},
		{func() { sm.Push() }, 3, "foo", "qux", "foo", M("qux", true, nil)},
		{func() { sm.Pop() }, 2, "", "", "foo", M("baz1", true, nil)},
		{func() { sm.Pop() }, 1, "", "", "foo", M("bar", true, nil)},

		{func() { sm.Push(); sm.Push() }, 3, "", "", "", nil},
		{func() { sm.PopTo(0) }, 0, "", "", "", nil},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(test.getReturn, M(sm.Get(test.getKey)))
		}
	}
}

func TestStackedMapJournal(t *testing.T) {
	assert := assert.New(t)
	sm := stackedmap.New(func(key string) (string, bool, error) {
		return "", false, nil
	})

	kvs := []struct {
		k, v string
	}{
		{"a", "b"},
		{"a", "b"},
		{"a1", "b1"},
		{"a2", "b2"},
	}

	for _, kv := range kvs {
		sm.Push()
		sm.Put(kv.k, kv.v)
	}

	var journal []string
	sm.Journal(func(k, v string) bool {
		journal = append(journal, k+"="+v)
		return true
	})
	assert.Equal([]string{"a=b", "a=b", "a1=b1", "a2=b2"}, journal)

	sm.PopTo(2)
	journal = journal[:0]
	sm.Journal(func(k, v string) bool {
		journal = append(journal, k+"="+v)
		return true
	})
	assert.Equal([]string{"a=b"}, journal)

	v, ok, err := sm.Get("a1")
	assert.NoError(err)
	assert.False(ok)
	assert.Empty(v)
}

func TestStackedMapOverwriteAndRevert(t *testing.T) {
	assert := assert.New(t)
	sm := stackedmap.New(func(key string) (int, bool, error) {
		return 0, false, nil
	})

	sm.Put("k", 1)
	rev := sm.Push()
	sm.Put("k", 2)
	sm.Put("k", 3)

	v, _, _ := sm.Get("k")
	assert.Equal(3, v)

	sm.PopTo(rev)
	v, _, _ = sm.Get("k")
	assert.Equal(1, v)
}

func TestStackedMapSourceError(t *testing.T) {
	boom := errors.New("boom")
	sm := stackedmap.New(func(key string) (int, bool, error) {
		return 0, false, boom
	})

	_, _, err := sm.Get("missing")
	assert.Equal(t, boom, err)

	sm.Put("missing", 1)
	v, ok, err := sm.Get("missing")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}
