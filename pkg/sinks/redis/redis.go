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

// Package redis publishes camera outputs on redis pub/sub channels. The subscriber count of
// a channel, as reported by PUBSUB NUMSUB, decides whether anybody is listening.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/config"
	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/frames"
	redisclient "github.com/numaproj/cdstream/pkg/shared/clients/redis"
	"github.com/numaproj/cdstream/pkg/shared/logging"
	"github.com/numaproj/cdstream/pkg/sinks"
	"github.com/numaproj/cdstream/pkg/status"
	"github.com/numaproj/cdstream/pkg/window"
)

// RedisSink is a sink to publish to redis.
type RedisSink struct {
	camera         string
	client         *redisclient.RedisClient
	encoder        *sinks.Encoder
	batchPresence  *sinks.Presence
	statusPresence *sinks.Presence
	logger         *zap.SugaredLogger
}

type Option func(sink *RedisSink) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(rs *RedisSink) error {
		rs.logger = log
		return nil
	}
}

// WithClient replaces the client built from the configuration.
func WithClient(c *redisclient.RedisClient) Option {
	return func(rs *RedisSink) error {
		rs.client = c
		return nil
	}
}

// NewRedisSink returns RedisSink type, watching subscriber counts every presenceInterval.
func NewRedisSink(ctx context.Context, info events.SensorInfo, redisSink config.RedisConfig, presenceInterval time.Duration, opts ...Option) (*RedisSink, error) {
	rs := &RedisSink{
		camera:  info.CameraName,
		encoder: sinks.NewEncoder(info),
	}
	for _, o := range opts {
		if err := o(rs); err != nil {
			return nil, err
		}
	}
	if rs.logger == nil {
		rs.logger = logging.FromContext(ctx)
	}
	rs.logger = rs.logger.With("sinkType", "redis", "camera", info.CameraName)
	if rs.client == nil {
		rs.client = redisclient.NewRedisClient(&goredis.UniversalOptions{
			Addrs:    redisSink.Addrs,
			Username: redisSink.Username,
			Password: redisSink.Password,
		})
		if err := rs.client.Ping(ctx); err != nil {
			rs.logger.Warnw("Redis is not reachable yet", zap.Error(err))
		}
	}
	ctx = logging.WithLogger(ctx, rs.logger)
	rs.batchPresence = rs.watch(sinks.ChannelEvents, presenceInterval)
	rs.batchPresence.Start(ctx)
	rs.statusPresence = rs.watch(sinks.ChannelInfo, presenceInterval)
	rs.statusPresence.Start(ctx)
	return rs, nil
}

func (rs *RedisSink) watch(ch sinks.Channel, interval time.Duration) *sinks.Presence {
	channel := sinks.TopicName(rs.camera, ch)
	return sinks.NewPresence("redis:"+channel, func(ctx context.Context) (bool, error) {
		n, err := rs.client.NumSubscribers(ctx, channel)
		return n > 0, err
	}, interval)
}

// GetName returns the name.
func (rs *RedisSink) GetName() string {
	return "redis"
}

func (rs *RedisSink) HasBatchConsumer(context.Context) bool {
	return rs.batchPresence.Present()
}

func (rs *RedisSink) HasStatusConsumer(context.Context) bool {
	return rs.statusPresence.Present()
}

func (rs *RedisSink) WriteBatch(ctx context.Context, b *window.CompletedBatch) error {
	payload, err := rs.encoder.EncodeBatch(b)
	if err != nil {
		return fmt.Errorf("failed to encode batch, %w", err)
	}
	return rs.publish(ctx, sinks.ChannelEvents, payload)
}

// WriteFrame publishes a frame. Frames are not gated, a frame published to a channel with no
// subscriber is dropped by redis.
func (rs *RedisSink) WriteFrame(ctx context.Context, f *frames.Frame) error {
	payload, err := rs.encoder.EncodeFrame(f)
	if err != nil {
		return fmt.Errorf("failed to encode frame, %w", err)
	}
	return rs.publish(ctx, sinks.ChannelFrames, payload)
}

func (rs *RedisSink) WriteStatus(ctx context.Context, s *status.Status) error {
	payload, err := rs.encoder.EncodeStatus(s)
	if err != nil {
		return fmt.Errorf("failed to encode status, %w", err)
	}
	return rs.publish(ctx, sinks.ChannelInfo, payload)
}

func (rs *RedisSink) publish(ctx context.Context, ch sinks.Channel, payload []byte) error {
	channel := sinks.TopicName(rs.camera, ch)
	receivers, err := rs.client.Publish(ctx, channel, payload)
	if err != nil {
		return fmt.Errorf("failed to publish to %s, %w", channel, err)
	}
	redisSinkWriteCount.WithLabelValues(rs.camera, string(ch)).Inc()
	redisSinkReceivers.WithLabelValues(rs.camera, string(ch)).Set(float64(receivers))
	return nil
}

// Close stops watching subscriber counts and closes the client.
func (rs *RedisSink) Close() error {
	rs.batchPresence.Stop()
	rs.statusPresence.Stop()
	return rs.client.Close()
}

var _ sinks.Sinker = (*RedisSink)(nil)
