// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock supplies the timestamps instructions are applied at.
package clock

import (
	"sync"
	"time"

	"github.com/beevik/ntp"

	"github.com/stakefactory/stakefactory/log"
)

var logger = log.WithContext("pkg", "clock")

// Source returns unix timestamps in seconds that never decrease.
type Source interface {
	Now() uint64
}

// Monotonic follows the wall clock, holding still while it steps backwards.
type Monotonic struct {
	lock sync.Mutex
	last uint64
	wall func() time.Time
}

func NewMonotonic() *Monotonic {
	return &Monotonic{wall: time.Now}
}

func (m *Monotonic) Now() uint64 {
	m.lock.Lock()
	defer m.lock.Unlock()

	if t := m.wall().Unix(); t > 0 && uint64(t) > m.last {
		m.last = uint64(t)
	}
	return m.last
}

// Manual is a clock moved by hand, for tests and replays.
type Manual struct {
	lock sync.Mutex
	now  uint64
}

func NewManual(now uint64) *Manual {
	return &Manual{now: now}
}

func (m *Manual) Now() uint64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.now
}

// Advance moves the clock forward by d seconds.
func (m *Manual) Advance(d uint64) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.now += d
}

// Set moves the clock to t. Earlier times are ignored.
func (m *Manual) Set(t uint64) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if t > m.now {
		m.now = t
	}
}

// CheckOffset queries an NTP server and warns if the local clock is off by more
// than tolerance.
func CheckOffset(server string, tolerance time.Duration) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return 0, err
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > tolerance {
		logger.Warn("clock offset detected", "offset", resp.ClockOffset)
	}
	return resp.ClockOffset, nil
}
