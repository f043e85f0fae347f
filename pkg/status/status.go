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

// Package status periodically republishes the sensor's identity and geometry, together with
// a short history of recently emitted batches, while somebody is listening.
package status

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/shared/logging"
	"github.com/numaproj/cdstream/pkg/shared/queue"
)

const (
	// DefaultInterval republishes status at 5Hz.
	DefaultInterval = 200 * time.Millisecond
	// DefaultHistory is the number of recent batches carried in a status message.
	DefaultHistory = 16
)

// BatchSummary describes one emitted batch.
type BatchSummary struct {
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
	Events      int       `json:"events"`
	Partial     bool      `json:"partial,omitempty"`
}

// Status is one status message.
type Status struct {
	Stamp         time.Time         `json:"stamp"`
	Sensor        events.SensorInfo `json:"sensor"`
	RecentBatches []BatchSummary    `json:"recentBatches,omitempty"`
}

// Publisher delivers status messages.
type Publisher interface {
	HasStatusConsumer(ctx context.Context) bool
	WriteStatus(ctx context.Context, s *Status) error
}

// Reporter owns the status side channel of one sensor.
type Reporter struct {
	info      events.SensorInfo
	publisher Publisher
	interval  time.Duration
	recent    *queue.OverflowQueue[BatchSummary]
	now       func() time.Time
}

type Option func(*Reporter)

// WithInterval sets the republish period.
func WithInterval(d time.Duration) Option {
	return func(r *Reporter) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithHistory sets how many recent batches a status message carries.
func WithHistory(n int) Option {
	return func(r *Reporter) {
		r.recent = queue.New[BatchSummary](n)
	}
}

// NewReporter returns a Reporter for the given sensor.
func NewReporter(info events.SensorInfo, publisher Publisher, opts ...Option) *Reporter {
	r := &Reporter{
		info:      info,
		publisher: publisher,
		interval:  DefaultInterval,
		recent:    queue.New[BatchSummary](DefaultHistory),
		now:       time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RecordBatch remembers an emitted batch. Safe to call from any goroutine.
func (r *Reporter) RecordBatch(s BatchSummary) {
	r.recent.Append(s)
}

// Snapshot builds the status message for the current instant.
func (r *Reporter) Snapshot() *Status {
	return &Status{
		Stamp:         r.now(),
		Sensor:        r.info,
		RecentBatches: r.recent.Items(),
	}
}

// Run publishes a status message every interval until ctx is done. Ticks without a
// consumer are skipped silently.
func (r *Reporter) Run(ctx context.Context) {
	log := logging.FromContext(ctx).With("component", "status")
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.publishOnce(ctx, log)
		}
	}
}

func (r *Reporter) publishOnce(ctx context.Context, log *zap.SugaredLogger) {
	if !r.publisher.HasStatusConsumer(ctx) {
		return
	}
	if err := r.publisher.WriteStatus(ctx, r.Snapshot()); err != nil && ctx.Err() == nil {
		log.Warnw("Failed to publish sensor status", zap.Error(err))
	}
}
