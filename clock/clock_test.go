// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonotonic(t *testing.T) {
	wall := time.Unix(1000, 0)
	m := &Monotonic{wall: func() time.Time { return wall }}

	assert.Equal(t, uint64(1000), m.Now())

	wall = time.Unix(990, 0)
	assert.Equal(t, uint64(1000), m.Now(), "must not step backwards")

	wall = time.Unix(1005, 0)
	assert.Equal(t, uint64(1005), m.Now())
}

func TestManual(t *testing.T) {
	m := NewManual(10)
	m.Advance(5)
	assert.Equal(t, uint64(15), m.Now())

	m.Set(12)
	assert.Equal(t, uint64(15), m.Now())
	m.Set(20)
	assert.Equal(t, uint64(20), m.Now())

	var _ Source = m
	var _ Source = NewMonotonic()
}
