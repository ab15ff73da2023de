// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Signal announces that something happened to any number of waiters.
// Unlike sync.Cond it is channel based, so waiting can be combined in a select.
// The zero value is ready to use.
type Signal struct {
	lock sync.Mutex
	ch   chan struct{}
}

func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes every waiter obtained before the call.
func (s *Signal) Broadcast() {
	s.lock.Lock()
	defer s.lock.Unlock()

	close(s.current())
	s.ch = make(chan struct{})
}

// Wait returns a channel closed by the next Broadcast.
func (s *Signal) Wait() <-chan struct{} {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.current()
}
