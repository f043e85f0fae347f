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

package window

import (
	"time"

	"github.com/numaproj/cdstream/pkg/clock"
	"github.com/numaproj/cdstream/pkg/events"
)

// Accumulator maintains the open batch and applies the window policy.
type Accumulator struct {
	anchor *clock.Anchor
	opts   *Options
	// events of the open batch; empty iff no window is open
	events      []events.Event
	windowStart time.Time
	lastSeen    time.Time
	// lastRelT is the relative time of the last accepted event, -1 before the first one.
	// It survives window resets so ordering is checked across batches too.
	lastRelT int64
}

// NewAccumulator returns an Accumulator converting event times through anchor.
func NewAccumulator(anchor *clock.Anchor, opts ...Option) (*Accumulator, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return &Accumulator{
		anchor:   anchor,
		opts:     o,
		lastRelT: -1,
	}, nil
}

// DeltaT returns the configured window threshold.
func (a *Accumulator) DeltaT() time.Duration {
	return a.opts.deltaT
}

// OnEventChunk feeds one delivered chunk into the open batch.
//
// When hasConsumer is false the chunk is dropped and nothing else happens. Otherwise the
// chunk is appended and, if the open batch now spans at least the delta, the batch is
// returned and the accumulator starts over. On error the open batch is left exactly as it
// was before the call.
func (a *Accumulator) OnEventChunk(chunk events.Chunk, hasConsumer bool) (*CompletedBatch, error) {
	if !hasConsumer {
		return nil, nil
	}
	streamStart, err := a.anchor.Start()
	if err != nil {
		return nil, err
	}
	if err := events.ValidateChunk(chunk, a.lastRelT); err != nil {
		return nil, err
	}
	first, err := a.anchor.ToAbsolute(chunk.First().T)
	if err != nil {
		return nil, err
	}
	last, err := a.anchor.ToAbsolute(chunk.Last().T)
	if err != nil {
		return nil, err
	}

	if len(a.events) == 0 {
		a.windowStart = first
		if a.events == nil {
			a.events = make([]events.Event, 0, max(a.opts.initialCapacity, len(chunk)))
		}
	}
	a.events = append(a.events, chunk...)
	a.lastSeen = last
	a.lastRelT = chunk.Last().T

	if a.lastSeen.Sub(a.windowStart) < a.opts.deltaT {
		return nil, nil
	}
	return a.handOff(streamStart, false), nil
}

// Flush hands off the open batch even if it has not reached the delta, marking it
// partial. It returns nil when no window is open. Hosts call it when the stream ends so the
// trailing events are not lost.
func (a *Accumulator) Flush() *CompletedBatch {
	if len(a.events) == 0 {
		return nil
	}
	streamStart, err := a.anchor.Start()
	if err != nil {
		// events are only ever accepted once anchored
		return nil
	}
	return a.handOff(streamStart, true)
}

// Pending returns the number of events in the open batch.
func (a *Accumulator) Pending() int {
	return len(a.events)
}

// OpenWindow returns the bounds of the open batch, ok is false when none is open.
func (a *Accumulator) OpenWindow() (start, lastSeen time.Time, ok bool) {
	if len(a.events) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return a.windowStart, a.lastSeen, true
}

func (a *Accumulator) handOff(streamStart time.Time, partial bool) *CompletedBatch {
	b := &CompletedBatch{
		StreamStart: streamStart,
		WindowStart: a.windowStart,
		WindowEnd:   a.lastSeen,
		Events:      a.events,
		Partial:     partial,
	}
	a.events = nil
	a.windowStart = time.Time{}
	a.lastSeen = time.Time{}
	return b
}
