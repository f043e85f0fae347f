/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package sinks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/shared/logging"
)

// PresenceFunc asks the transport whether a channel currently has consumers.
type PresenceFunc func(ctx context.Context) (bool, error)

// Presence caches the answer of a PresenceFunc and refreshes it in the background, so the
// per chunk gate never waits on the network.
type Presence struct {
	name     string
	check    PresenceFunc
	interval time.Duration
	present  *atomic.Bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewPresence returns a Presence reporting no consumer until the first check completes.
func NewPresence(name string, check PresenceFunc, interval time.Duration) *Presence {
	if interval <= 0 {
		interval = time.Second
	}
	return &Presence{
		name:     name,
		check:    check,
		interval: interval,
		present:  atomic.NewBool(false),
	}
}

// Start runs a first check synchronously, then keeps refreshing until Stop.
func (p *Presence) Start(ctx context.Context) {
	log := logging.FromContext(ctx).With("presence", p.name)
	ctx, p.cancel = context.WithCancel(ctx)
	p.refresh(ctx, log)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.refresh(ctx, log)
			}
		}
	}()
}

func (p *Presence) refresh(ctx context.Context, log *zap.SugaredLogger) {
	present, err := p.check(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if p.present.Swap(false) {
			log.Warnw("Presence check failed, treating channel as unconsumed", zap.Error(err))
		}
		return
	}
	if prev := p.present.Swap(present); prev != present {
		log.Infow("Consumer presence changed", zap.Bool("present", present))
	}
}

// Present returns the last known answer.
func (p *Presence) Present() bool {
	return p.present.Load()
}

// Stop ends the background refresh.
func (p *Presence) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}
