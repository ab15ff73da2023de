// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoes(t *testing.T) {
	var (
		g       Goes
		stopped atomic.Int32
	)
	for i := 0; i < 3; i++ {
		g.Go(func(ctx context.Context) {
			<-ctx.Done()
			stopped.Add(1)
		})
	}

	select {
	case <-g.Done():
		t.Fatal("goroutines returned before stop")
	case <-time.After(10 * time.Millisecond):
	}

	g.Stop()
	assert.Equal(t, int32(3), stopped.Load())
	<-g.Done()
}

func TestGoes_StopIdle(t *testing.T) {
	var g Goes
	g.Stop()
	g.Wait()
}

func TestSignal(t *testing.T) {
	var s Signal

	w1 := s.Wait()
	w2 := s.Wait()
	select {
	case <-w1:
		t.Fatal("woken before broadcast")
	default:
	}

	s.Broadcast()
	for _, w := range []<-chan struct{}{w1, w2} {
		select {
		case <-w:
		case <-time.After(time.Second):
			t.Fatal("waiter not woken")
		}
	}

	// waiters obtained after a broadcast wait for the next one
	w3 := s.Wait()
	select {
	case <-w3:
		t.Fatal("woken by an earlier broadcast")
	default:
	}
}
