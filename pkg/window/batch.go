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

	"github.com/numaproj/cdstream/pkg/events"
)

// CompletedBatch is a closed window handed off to a batch sink. The receiver owns Events;
// the Accumulator never touches the slice again.
type CompletedBatch struct {
	// StreamStart is the clock anchor, used to turn event times into wall clock times.
	StreamStart time.Time
	// WindowStart is the absolute time of the first event of the window.
	WindowStart time.Time
	// WindowEnd is the absolute time of the last event of the window.
	WindowEnd time.Time
	// Events in arrival order.
	Events []events.Event
	// Partial is set on a batch flushed before it reached the delta.
	Partial bool
}

// Span returns the wall clock time covered by the batch.
func (b *CompletedBatch) Span() time.Duration {
	return b.WindowEnd.Sub(b.WindowStart)
}

// Len returns the number of events in the batch.
func (b *CompletedBatch) Len() int {
	return len(b.Events)
}

// EventTime returns the absolute time of the i-th event.
func (b *CompletedBatch) EventTime(i int) time.Time {
	return b.StreamStart.Add(time.Duration(b.Events[i].T) * time.Microsecond)
}
