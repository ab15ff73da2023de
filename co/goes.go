// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync"
)

// Goes runs goroutines that share one cancellation and manages their life-cycle.
type Goes struct {
	wg     sync.WaitGroup
	once   sync.Once
	ctx    context.Context
	cancel context.CancelFunc
}

func (g *Goes) init() {
	g.once.Do(func() {
		g.ctx, g.cancel = context.WithCancel(context.Background())
	})
}

// Go runs f in a goroutine. The context passed to f is cancelled by Stop.
func (g *Goes) Go(f func(ctx context.Context)) {
	g.init()
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f(g.ctx)
	}()
}

// Stop cancels all goroutines started by Go and waits for them to return.
func (g *Goes) Stop() {
	g.init()
	g.cancel()
	g.wg.Wait()
}

// Wait waits for all goroutines started by Go to return.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done returns a channel closed once all goroutines have returned.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}
