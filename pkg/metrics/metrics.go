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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelVersion   = "version"
	LabelPlatform  = "platform"
	LabelCamera    = "camera"
	LabelSink      = "sink"
	LabelSinkType  = "sink_type"
	LabelReason    = "reason"
	LabelComponent = "component"
	LabelChannel   = "channel"
)

const (
	// ReasonNoConsumer labels events dropped because nobody was listening.
	ReasonNoConsumer = "no_consumer"
	// ReasonRejected labels events of a chunk that failed validation.
	ReasonRejected = "rejected"
)

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "A metric with a constant value '1', labeled by cdstream binary version and platform",
	}, []string{LabelComponent, LabelVersion, LabelPlatform})
)

// Event ingestion metrics
var (
	// EventsReceived counts every event delivered by the sensor source
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "source",
		Name:      "events_total",
		Help:      "Total number of CD events delivered by the source",
	}, []string{LabelCamera})

	// ChunksReceived counts delivered chunks
	ChunksReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "source",
		Name:      "chunks_total",
		Help:      "Total number of event chunks delivered by the source",
	}, []string{LabelCamera})

	// EventsDropped counts events that never made it into a batch
	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "batcher",
		Name:      "drop_total",
		Help:      "Total number of CD events dropped",
	}, []string{LabelCamera, LabelReason})

	// OpenBatchEvents is the size of the open batch after the last chunk
	OpenBatchEvents = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Subsystem: "batcher",
		Name:      "open_batch_events",
		Help:      "Number of events buffered in the open batch",
	}, []string{LabelCamera})

	// BatchEvents observes the number of events per completed batch
	BatchEvents = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: "batcher",
		Name:      "batch_events",
		Help:      "Number of events per completed batch (1 to 1 million)",
		Buckets:   prometheus.ExponentialBucketsRange(1, 1000000, 10),
	}, []string{LabelCamera})

	// BatchSpan observes the wall clock span of completed batches
	BatchSpan = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: "batcher",
		Name:      "batch_span_microseconds",
		Help:      "Wall clock span of completed batches (1 microsecond to 1 second)",
		Buckets:   prometheus.ExponentialBucketsRange(1, 1000000, 10),
	}, []string{LabelCamera})
)

// Sink metrics
var (
	// BatchesWritten counts batches handed to a sink successfully
	BatchesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "sink",
		Name:      "batch_write_total",
		Help:      "Total number of batches written",
	}, []string{LabelCamera, LabelSink})

	// FramesWritten counts frames handed to a sink successfully
	FramesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "sink",
		Name:      "frame_write_total",
		Help:      "Total number of frames written",
	}, []string{LabelCamera, LabelSink})

	// StatusWritten counts sensor status publications
	StatusWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "sink",
		Name:      "status_write_total",
		Help:      "Total number of sensor status messages written",
	}, []string{LabelCamera, LabelSink})

	// WriteErrors counts failed hand offs of any kind
	WriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "sink",
		Name:      "write_error_total",
		Help:      "Total number of sink write errors",
	}, []string{LabelCamera, LabelSink})

	// HandoffTime is a histogram of the time the delivery goroutine is blocked by a sink
	HandoffTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: "sink",
		Name:      "handoff_time",
		Help:      "Time spent handing a batch to a sink (10 microseconds to 10 seconds)",
		Buckets:   prometheus.ExponentialBucketsRange(10, 10000000, 10),
	}, []string{LabelCamera, LabelSink})
)
