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

package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/frames"
	"github.com/numaproj/cdstream/pkg/shared/logging"
	"github.com/numaproj/cdstream/pkg/sinks"
	"github.com/numaproj/cdstream/pkg/status"
	"github.com/numaproj/cdstream/pkg/window"
)

// ToLog prints a summary of every output to the log. It always has a consumer.
type ToLog struct {
	name   string
	camera string
	logger *zap.SugaredLogger
}

type Option func(*ToLog) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToLog) error {
		t.logger = log
		return nil
	}
}

// NewToLog returns ToLog type.
func NewToLog(info events.SensorInfo, opts ...Option) (*ToLog, error) {
	toLog := &ToLog{name: "log", camera: info.CameraName}
	for _, o := range opts {
		if err := o(toLog); err != nil {
			return nil, err
		}
	}
	if toLog.logger == nil {
		toLog.logger = logging.NewLogger()
	}
	toLog.logger = toLog.logger.With("sinkType", "log", "camera", info.CameraName)
	return toLog, nil
}

// GetName returns the name.
func (t *ToLog) GetName() string {
	return t.name
}

func (t *ToLog) HasBatchConsumer(context.Context) bool {
	return true
}

func (t *ToLog) HasStatusConsumer(context.Context) bool {
	return true
}

// WriteBatch logs the window of a batch.
func (t *ToLog) WriteBatch(_ context.Context, b *window.CompletedBatch) error {
	logSinkWriteCount.WithLabelValues(t.camera, string(sinks.ChannelEvents)).Inc()
	t.logger.Infow("Batch",
		zap.Int("events", b.Len()),
		zap.Time("windowStart", b.WindowStart),
		zap.Time("windowEnd", b.WindowEnd),
		zap.Duration("span", b.Span()),
		zap.Bool("partial", b.Partial))
	return nil
}

// WriteFrame logs the timestamps of a frame.
func (t *ToLog) WriteFrame(_ context.Context, f *frames.Frame) error {
	logSinkWriteCount.WithLabelValues(t.camera, string(sinks.ChannelFrames)).Inc()
	t.logger.Debugw("Frame", zap.Int64("t", f.T), zap.Time("stamp", f.Stamp), zap.Int("bytes", len(f.Data)))
	return nil
}

// WriteStatus logs a status message.
func (t *ToLog) WriteStatus(_ context.Context, s *status.Status) error {
	logSinkWriteCount.WithLabelValues(t.camera, string(sinks.ChannelInfo)).Inc()
	t.logger.Debugw("Status", zap.Time("stamp", s.Stamp), zap.String("serial", s.Sensor.SerialNumber), zap.Int("recentBatches", len(s.RecentBatches)))
	return nil
}

func (t *ToLog) Close() error {
	// stdout can not be synced on every platform
	_ = t.logger.Sync()
	return nil
}

var _ sinks.Sinker = (*ToLog)(nil)
