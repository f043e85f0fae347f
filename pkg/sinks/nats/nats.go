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

// Package nats publishes camera outputs on NATS subjects. When a JetStream stream is
// configured, the number of consumers bound to it decides whether anybody is listening.
package nats

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/config"
	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/frames"
	natsclient "github.com/numaproj/cdstream/pkg/shared/clients/nats"
	"github.com/numaproj/cdstream/pkg/shared/logging"
	"github.com/numaproj/cdstream/pkg/sinks"
	"github.com/numaproj/cdstream/pkg/status"
	"github.com/numaproj/cdstream/pkg/window"
)

// ToNATS publishes every output on the camera's subjects.
type ToNATS struct {
	camera   string
	client   *natsclient.Client
	encoder  *sinks.Encoder
	presence *sinks.Presence
	log      *zap.SugaredLogger
}

type Option func(*ToNATS) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToNATS) error {
		t.log = log
		return nil
	}
}

// WithClient replaces the client built from the configuration.
func WithClient(c *natsclient.Client) Option {
	return func(t *ToNATS) error {
		t.client = c
		return nil
	}
}

// NewToNATS connects to NATS and, with a stream configured, starts watching its consumers.
func NewToNATS(ctx context.Context, info events.SensorInfo, natsSink config.NATSConfig, presenceInterval time.Duration, opts ...Option) (*ToNATS, error) {
	t := &ToNATS{
		camera:  info.CameraName,
		encoder: sinks.NewEncoder(info),
	}
	for _, o := range opts {
		if err := o(t); err != nil {
			return nil, err
		}
	}
	if t.log == nil {
		t.log = logging.FromContext(ctx)
	}
	t.log = t.log.With("sinkType", "nats", "camera", info.CameraName)
	if t.client == nil {
		c, err := natsclient.NewNATSClient(logging.WithLogger(ctx, t.log), natsSink.URL)
		if err != nil {
			return nil, err
		}
		t.client = c
	}
	if natsSink.Stream != "" {
		stream := natsSink.Stream
		t.presence = sinks.NewPresence("nats:"+stream, func(ctx context.Context) (bool, error) {
			n, err := t.client.ConsumerCount(ctx, stream)
			return n > 0, err
		}, presenceInterval)
		t.presence.Start(logging.WithLogger(ctx, t.log))
	}
	return t, nil
}

// GetName returns the name.
func (t *ToNATS) GetName() string {
	return "nats"
}

// HasBatchConsumer is always true on core NATS, publishing to a subject nobody subscribed
// to costs nothing.
func (t *ToNATS) HasBatchConsumer(context.Context) bool {
	return t.presence == nil || t.presence.Present()
}

func (t *ToNATS) HasStatusConsumer(ctx context.Context) bool {
	return t.HasBatchConsumer(ctx)
}

func (t *ToNATS) WriteBatch(_ context.Context, b *window.CompletedBatch) error {
	payload, err := t.encoder.EncodeBatch(b)
	if err != nil {
		return fmt.Errorf("failed to encode batch, %w", err)
	}
	return t.publish(sinks.ChannelEvents, payload)
}

func (t *ToNATS) WriteFrame(_ context.Context, f *frames.Frame) error {
	payload, err := t.encoder.EncodeFrame(f)
	if err != nil {
		return fmt.Errorf("failed to encode frame, %w", err)
	}
	return t.publish(sinks.ChannelFrames, payload)
}

func (t *ToNATS) WriteStatus(_ context.Context, s *status.Status) error {
	payload, err := t.encoder.EncodeStatus(s)
	if err != nil {
		return fmt.Errorf("failed to encode status, %w", err)
	}
	return t.publish(sinks.ChannelInfo, payload)
}

func (t *ToNATS) publish(ch sinks.Channel, payload []byte) error {
	subject := sinks.TopicName(t.camera, ch)
	if err := t.client.Publish(subject, payload); err != nil {
		natsSinkWriteErrors.WithLabelValues(t.camera, string(ch)).Inc()
		return fmt.Errorf("failed to publish to %s, %w", subject, err)
	}
	natsSinkWriteCount.WithLabelValues(t.camera, string(ch)).Inc()
	return nil
}

// Close stops the presence watch, flushes pending publications and closes the connection.
func (t *ToNATS) Close() error {
	if t.presence != nil {
		t.presence.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := t.client.Flush(ctx)
	if err != nil {
		t.log.Warnw("Failed to flush nats connection", zap.Error(err))
	}
	t.client.Close()
	return err
}

var _ sinks.Sinker = (*ToNATS)(nil)
