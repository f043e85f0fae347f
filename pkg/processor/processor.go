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

// Package processor runs one camera: it builds the configured source and sink, wires them
// through a Pipeline and serves metrics until the stream ends or the context is cancelled.
package processor

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/config"
	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/frames/periodic"
	"github.com/numaproj/cdstream/pkg/metrics"
	"github.com/numaproj/cdstream/pkg/shared/logging"
	"github.com/numaproj/cdstream/pkg/sinks"
	"github.com/numaproj/cdstream/pkg/sinks/blackhole"
	kafkasink "github.com/numaproj/cdstream/pkg/sinks/kafka"
	logsink "github.com/numaproj/cdstream/pkg/sinks/logger"
	natssink "github.com/numaproj/cdstream/pkg/sinks/nats"
	redissink "github.com/numaproj/cdstream/pkg/sinks/redis"
	"github.com/numaproj/cdstream/pkg/sources"
	"github.com/numaproj/cdstream/pkg/sources/generator"
	"github.com/numaproj/cdstream/pkg/sources/replay"
	"github.com/numaproj/cdstream/pkg/status"
)

type CameraProcessor struct {
	Config *config.Config
}

func (u *CameraProcessor) Start(ctx context.Context) (err error) {
	log := logging.FromContext(ctx).With("camera", u.Config.CameraName)
	ctx = logging.WithLogger(ctx, log)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	source, err := u.getSourcer(log)
	if err != nil {
		return fmt.Errorf("failed to create a source, error: %w", err)
	}
	info := source.Info()
	sinker, err := u.getSinker(ctx, info, log)
	if err != nil {
		return fmt.Errorf("failed to find a sink, error: %w", err)
	}
	defer func() {
		if cerr := sinker.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close sink %s, %w", sinker.GetName(), cerr))
		}
	}()

	opts := []PipelineOption{
		WithFlushOnStop(u.Config.FlushOnStop),
		WithStatusOptions(status.WithInterval(u.Config.StatusInterval)),
	}
	if !u.Config.PublishEvents {
		opts = append(opts, WithoutEvents())
	}
	if u.Config.PublishFrames {
		renderer, err := periodic.New(info.Geometry,
			periodic.WithAccumulationTime(u.Config.FrameAccumulationTime),
			periodic.WithFPS(u.Config.FrameRate))
		if err != nil {
			return fmt.Errorf("failed to create the frame renderer, %w", err)
		}
		opts = append(opts, WithRenderer(renderer))
	}
	pipeline, err := NewPipeline(source, sinker, u.Config.DeltaT, opts...)
	if err != nil {
		return err
	}

	shutdown, err := metrics.NewMetricsServer(
		metrics.WithPort(u.Config.MetricsPort),
		metrics.WithHealthCheckExecutor(pipeline.HealthCheck),
	).Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start metrics server, error: %w", err)
	}
	defer func() {
		if serr := shutdown(context.Background()); serr != nil {
			err = multierr.Append(err, serr)
		}
	}()

	log.Infow("Start processing camera events", zap.String("source", source.GetName()), zap.String("sink", sinker.GetName()), zap.Any("sensor", info))
	err = pipeline.Run(ctx)
	log.Info("Exited...")
	return err
}

// getSourcer builds the configured source.
func (u *CameraProcessor) getSourcer(log *zap.SugaredLogger) (sources.Sourcer, error) {
	src := u.Config.Source
	switch src.Type {
	case config.SourceTypeGenerator:
		return generator.NewEventGen(u.Config.CameraName, src.Generator, generator.WithLogger(log))
	case config.SourceTypeReplay:
		return replay.NewReplay(u.Config.CameraName, src.Replay, replay.WithLogger(log))
	}
	return nil, fmt.Errorf("invalid source type %q", src.Type)
}

// getSinker takes in the logger from the parent context
func (u *CameraProcessor) getSinker(ctx context.Context, info events.SensorInfo, log *zap.SugaredLogger) (sinks.Sinker, error) {
	sink := u.Config.Sink
	switch sink.Type {
	case config.SinkTypeLog:
		return logsink.NewToLog(info, logsink.WithLogger(log))
	case config.SinkTypeBlackhole:
		return blackhole.NewBlackhole(info), nil
	case config.SinkTypeKafka:
		return kafkasink.NewToKafka(ctx, info, sink.Kafka, kafkasink.WithLogger(log))
	case config.SinkTypeNATS:
		return natssink.NewToNATS(ctx, info, sink.NATS, sink.PresenceInterval, natssink.WithLogger(log))
	case config.SinkTypeRedis:
		return redissink.NewRedisSink(ctx, info, sink.Redis, sink.PresenceInterval, redissink.WithLogger(log))
	}
	return nil, fmt.Errorf("invalid sink type %q", sink.Type)
}
