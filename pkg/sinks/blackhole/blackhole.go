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

package blackhole

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/atomic"

	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/frames"
	"github.com/numaproj/cdstream/pkg/metrics"
	"github.com/numaproj/cdstream/pkg/sinks"
	"github.com/numaproj/cdstream/pkg/status"
	"github.com/numaproj/cdstream/pkg/window"
)

// sinkWriteCount counts the events discarded by the blackhole sink
var sinkWriteCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "blackhole_sink",
	Name:      "write_total",
	Help:      "Total number of messages written to blackhole sink",
}, []string{metrics.LabelCamera, metrics.LabelChannel})

// Blackhole is a sink to emulate /dev/null. It claims a consumer on every channel, which
// makes it useful to measure the pipeline without a transport.
type Blackhole struct {
	camera  string
	batches *atomic.Int64
	events  *atomic.Int64
	frames  *atomic.Int64
	status  *atomic.Int64
}

// NewBlackhole returns a new Blackhole sink.
func NewBlackhole(info events.SensorInfo) *Blackhole {
	return &Blackhole{
		camera:  info.CameraName,
		batches: atomic.NewInt64(0),
		events:  atomic.NewInt64(0),
		frames:  atomic.NewInt64(0),
		status:  atomic.NewInt64(0),
	}
}

// GetName returns the name.
func (b *Blackhole) GetName() string {
	return "blackhole"
}

func (b *Blackhole) HasBatchConsumer(context.Context) bool {
	return true
}

func (b *Blackhole) HasStatusConsumer(context.Context) bool {
	return true
}

func (b *Blackhole) WriteBatch(_ context.Context, batch *window.CompletedBatch) error {
	sinkWriteCount.WithLabelValues(b.camera, string(sinks.ChannelEvents)).Inc()
	b.batches.Inc()
	b.events.Add(int64(batch.Len()))
	return nil
}

func (b *Blackhole) WriteFrame(context.Context, *frames.Frame) error {
	sinkWriteCount.WithLabelValues(b.camera, string(sinks.ChannelFrames)).Inc()
	b.frames.Inc()
	return nil
}

func (b *Blackhole) WriteStatus(context.Context, *status.Status) error {
	sinkWriteCount.WithLabelValues(b.camera, string(sinks.ChannelInfo)).Inc()
	b.status.Inc()
	return nil
}

// Counts returns the number of batches, events, frames and status messages swallowed so far.
func (b *Blackhole) Counts() (batches, events, frames, status int64) {
	return b.batches.Load(), b.events.Load(), b.frames.Load(), b.status.Load()
}

func (b *Blackhole) Close() error {
	return nil
}

var _ sinks.Sinker = (*Blackhole)(nil)
