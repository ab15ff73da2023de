// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts the hits and misses of record lookups.
type Stats struct {
	hit, miss atomic.Int64
	reported  atomic.Int32 // hit rate in permille at the last Changed call
}

func (s *Stats) Hit()  { s.hit.Add(1) }
func (s *Stats) Miss() { s.miss.Add(1) }

// Counts returns the number of hits and misses so far.
func (s *Stats) Counts() (hit, miss int64) {
	return s.hit.Load(), s.miss.Load()
}

// HitRate returns hits over lookups, 0 before the first lookup.
func (s *Stats) HitRate() float64 {
	hit, miss := s.Counts()
	if hit+miss == 0 {
		return 0
	}
	return float64(hit) / float64(hit+miss)
}

// Changed reports whether the hit rate moved by at least 0.1% since the previous call.
func (s *Stats) Changed() bool {
	rate := int32(s.HitRate() * 1000)
	return s.reported.Swap(rate) != rate
}
