// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"
)

// Bucket provides logical bucket for kv store.
type Bucket string

// Key returns the full key of k inside the bucket.
func (b Bucket) Key(k []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(k)), b...), k...)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &bucketGetter{b, src}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &bucketPutter{b, src}
}

// Range returns the range covering all keys of the bucket.
func (b Bucket) Range() Range {
	start := []byte(b)
	limit := make([]byte, len(start))
	copy(limit, start)
	for i := len(limit) - 1; i >= 0; i-- {
		if limit[i] < 0xff {
			limit[i]++
			return Range{Start: start, Limit: limit[:i+1]}
		}
	}
	return Range{Start: start}
}

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) {
	buf := bufPool.Get().(*buf)
	defer bufPool.Put(buf)
	buf.k = append(append(buf.k[:0], g.b...), key...)

	return g.src.Get(buf.k)
}

func (g *bucketGetter) Has(key []byte) (bool, error) {
	buf := bufPool.Get().(*buf)
	defer bufPool.Put(buf)
	buf.k = append(append(buf.k[:0], g.b...), key...)

	return g.src.Has(buf.k)
}

func (g *bucketGetter) IsNotFound(err error) bool {
	return g.src.IsNotFound(err)
}

type bucketPutter struct {
	b   Bucket
	src Putter
}

// Put copies the key since batches may retain it.
func (p *bucketPutter) Put(key, val []byte) error {
	return p.src.Put(p.b.Key(key), val)
}

func (p *bucketPutter) Delete(key []byte) error {
	return p.src.Delete(p.b.Key(key))
}

type buf struct {
	k []byte
}

var bufPool = sync.Pool{
	New: func() any {
		return &buf{}
	},
}
