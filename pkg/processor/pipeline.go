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

package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/clock"
	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/frames"
	"github.com/numaproj/cdstream/pkg/metrics"
	"github.com/numaproj/cdstream/pkg/shared/logging"
	"github.com/numaproj/cdstream/pkg/sinks"
	"github.com/numaproj/cdstream/pkg/sources"
	"github.com/numaproj/cdstream/pkg/status"
	"github.com/numaproj/cdstream/pkg/window"
)

// Pipeline moves the event stream of one sensor from its source to a sink. Every chunk is
// handled on the source's delivery goroutine: it goes to the batch accumulator, gated on
// batch consumer presence, and to the frame driver, ungated. Completed batches are written
// synchronously, so a slow sink slows down delivery instead of growing a queue.
type Pipeline struct {
	camera      string
	source      sources.Sourcer
	sink        sinks.Sinker
	anchor      *clock.Anchor
	accumulator *window.Accumulator
	// driver is nil when frames are not published
	driver        *frames.Driver
	reporter      *status.Reporter
	publishEvents bool
	flushOnStop   bool
	running       *atomic.Bool
	log           *zap.SugaredLogger
}

type PipelineOption func(*Pipeline)

// WithRenderer publishes frames produced by renderer.
func WithRenderer(renderer frames.Renderer) PipelineOption {
	return func(p *Pipeline) {
		p.driver = frames.NewDriver(renderer, &frameEmitter{camera: p.camera, sink: p.sink}, p.anchor,
			frames.WithErrorHandler(func(error) {
				metrics.WriteErrors.WithLabelValues(p.camera, p.sink.GetName()).Inc()
			}))
	}
}

// WithoutEvents stops publishing batches, the accumulator is never fed.
func WithoutEvents() PipelineOption {
	return func(p *Pipeline) {
		p.publishEvents = false
	}
}

// WithFlushOnStop sets whether the trailing partial batch is written when the stream ends.
func WithFlushOnStop(flush bool) PipelineOption {
	return func(p *Pipeline) {
		p.flushOnStop = flush
	}
}

// WithStatusOptions configures the status reporter.
func WithStatusOptions(opts ...status.Option) PipelineOption {
	return func(p *Pipeline) {
		p.reporter = status.NewReporter(p.source.Info(), &statusPublisher{camera: p.camera, sink: p.sink}, opts...)
	}
}

// NewPipeline returns a pipeline batching events every deltaT.
func NewPipeline(source sources.Sourcer, sink sinks.Sinker, deltaT time.Duration, opts ...PipelineOption) (*Pipeline, error) {
	anchor := clock.NewAnchor()
	acc, err := window.NewAccumulator(anchor, window.WithDeltaT(deltaT))
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		camera:        source.Info().CameraName,
		source:        source,
		sink:          sink,
		anchor:        anchor,
		accumulator:   acc,
		publishEvents: true,
		flushOnStop:   true,
		running:       atomic.NewBool(false),
	}
	p.reporter = status.NewReporter(source.Info(), &statusPublisher{camera: p.camera, sink: sink})
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Run anchors the stream clock and streams until the source ends or ctx is done. It can be
// called once.
func (p *Pipeline) Run(ctx context.Context) error {
	p.log = logging.FromContext(ctx).With("camera", p.camera, "source", p.source.GetName(), "sink", p.sink.GetName())
	ctx = logging.WithLogger(ctx, p.log)
	if p.driver != nil {
		if err := p.driver.Start(ctx); err != nil {
			return fmt.Errorf("failed to start frame driver, %w", err)
		}
		defer p.driver.Stop()
	}

	statusCtx, cancelStatus := context.WithCancel(ctx)
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.reporter.Run(statusCtx)
	}()
	defer func() {
		cancelStatus()
		wg.Wait()
	}()

	if err := p.anchor.Establish(time.Now()); err != nil {
		return err
	}
	start, _ := p.anchor.Start()
	p.log.Infow("Start streaming", zap.Time("streamStart", start), zap.Duration("deltaT", p.accumulator.DeltaT()), zap.Bool("publishEvents", p.publishEvents), zap.Bool("publishFrames", p.driver != nil))
	p.running.Store(true)
	err := p.source.Run(ctx, p.onChunk)
	p.running.Store(false)
	if err != nil {
		p.log.Errorw("Source failed", zap.Error(err))
	}

	if p.flushOnStop {
		if b := p.accumulator.Flush(); b != nil {
			// the stream context may be done already, the trailing batch still gets a chance
			p.handOff(context.WithoutCancel(ctx), b)
		}
	}
	metrics.OpenBatchEvents.WithLabelValues(p.camera).Set(float64(p.accumulator.Pending()))
	p.log.Info("Streaming stopped")
	return err
}

// Running reports whether the source is streaming.
func (p *Pipeline) Running() bool {
	return p.running.Load()
}

// HealthCheck fails when the source is not streaming.
func (p *Pipeline) HealthCheck(context.Context) error {
	if !p.Running() {
		return errors.New("source is not streaming")
	}
	return nil
}

func (p *Pipeline) onChunk(ctx context.Context, chunk events.Chunk) {
	metrics.ChunksReceived.WithLabelValues(p.camera).Inc()
	metrics.EventsReceived.WithLabelValues(p.camera).Add(float64(len(chunk)))

	if p.publishEvents {
		hasConsumer := p.sink.HasBatchConsumer(ctx)
		batch, err := p.accumulator.OnEventChunk(chunk, hasConsumer)
		switch {
		case err != nil:
			metrics.EventsDropped.WithLabelValues(p.camera, metrics.ReasonRejected).Add(float64(len(chunk)))
			p.log.Warnw("Rejected event chunk", zap.Int("events", len(chunk)), zap.Error(err))
		case !hasConsumer:
			metrics.EventsDropped.WithLabelValues(p.camera, metrics.ReasonNoConsumer).Add(float64(len(chunk)))
		case batch != nil:
			p.handOff(ctx, batch)
		}
		metrics.OpenBatchEvents.WithLabelValues(p.camera).Set(float64(p.accumulator.Pending()))
	}

	if p.driver != nil {
		if err := p.driver.Forward(chunk); err != nil && !errors.Is(err, frames.ErrDriverStopped) {
			p.log.Errorw("Failed to forward chunk to the frame driver", zap.Error(err))
		}
	}
}

func (p *Pipeline) handOff(ctx context.Context, b *window.CompletedBatch) {
	summary := status.BatchSummary{WindowStart: b.WindowStart, WindowEnd: b.WindowEnd, Events: b.Len(), Partial: b.Partial}
	metrics.BatchEvents.WithLabelValues(p.camera).Observe(float64(b.Len()))
	metrics.BatchSpan.WithLabelValues(p.camera).Observe(float64(b.Span().Microseconds()))
	start := time.Now()
	err := p.sink.WriteBatch(ctx, b)
	metrics.HandoffTime.WithLabelValues(p.camera, p.sink.GetName()).Observe(float64(time.Since(start).Microseconds()))
	if err != nil {
		metrics.WriteErrors.WithLabelValues(p.camera, p.sink.GetName()).Inc()
		p.log.Errorw("Failed to write batch", zap.Int("events", summary.Events), zap.Time("windowEnd", summary.WindowEnd), zap.Error(err))
		return
	}
	metrics.BatchesWritten.WithLabelValues(p.camera, p.sink.GetName()).Inc()
	p.reporter.RecordBatch(summary)
}

// frameEmitter counts frames on their way to the sink.
type frameEmitter struct {
	camera string
	sink   sinks.Sinker
}

func (e *frameEmitter) WriteFrame(ctx context.Context, f *frames.Frame) error {
	if err := e.sink.WriteFrame(ctx, f); err != nil {
		return err
	}
	metrics.FramesWritten.WithLabelValues(e.camera, e.sink.GetName()).Inc()
	return nil
}

// statusPublisher counts status messages on their way to the sink.
type statusPublisher struct {
	camera string
	sink   sinks.Sinker
}

func (s *statusPublisher) HasStatusConsumer(ctx context.Context) bool {
	return s.sink.HasStatusConsumer(ctx)
}

func (s *statusPublisher) WriteStatus(ctx context.Context, st *status.Status) error {
	if err := s.sink.WriteStatus(ctx, st); err != nil {
		metrics.WriteErrors.WithLabelValues(s.camera, s.sink.GetName()).Inc()
		return err
	}
	metrics.StatusWritten.WithLabelValues(s.camera, s.sink.GetName()).Inc()
	return nil
}
