// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errNotFound = errors.New("not found")

type memStore map[string][]byte

func (m memStore) Get(k []byte) ([]byte, error) {
	if v, ok := m[string(k)]; ok {
		return v, nil
	}
	return nil, errNotFound
}

func (m memStore) Has(k []byte) (bool, error) {
	_, ok := m[string(k)]
	return ok, nil
}

func (m memStore) IsNotFound(err error) bool { return err == errNotFound }

func (m memStore) Put(k, v []byte) error {
	m[string(k)] = v
	return nil
}

func (m memStore) Delete(k []byte) error {
	delete(m, string(k))
	return nil
}

func TestBucket(t *testing.T) {
	src := memStore{}
	b := Bucket("r")

	putter := b.NewPutter(src)
	getter := b.NewGetter(src)

	assert.NoError(t, putter.Put([]byte("k"), []byte("v")))
	assert.Equal(t, []byte("v"), src["rk"])

	v, err := getter.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	has, err := getter.Has([]byte("k"))
	assert.NoError(t, err)
	assert.True(t, has)

	assert.NoError(t, putter.Delete([]byte("k")))
	_, err = getter.Get([]byte("k"))
	assert.True(t, getter.IsNotFound(err))
}

func TestBucketRange(t *testing.T) {
	assert.Equal(t, Range{Start: []byte("r"), Limit: []byte("s")}, Bucket("r").Range())
	assert.Equal(t, Range{Start: []byte{0x01, 0xff}, Limit: []byte{0x02}}, Bucket([]byte{0x01, 0xff}).Range())
}
