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

// Package generator produces a synthetic CD event stream. Every tick covers one chunk period
// of event time and carries events with random coordinates, polarities and times inside the
// period, in non-decreasing time order.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/config"
	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/shared/logging"
	"github.com/numaproj/cdstream/pkg/shared/util"
	"github.com/numaproj/cdstream/pkg/sources"
)

// EventGen is the synthetic sensor.
type EventGen struct {
	info events.SensorInfo
	eventRate      int64
	periodMicros   int64
	period         time.Duration
	// durationMicros ends the stream, zero runs forever.
	durationMicros int64
	seed           int64
	paced          bool
	log            *zap.SugaredLogger
}

type Option func(*EventGen)

// WithoutPacing delivers chunks as fast as the handler takes them.
func WithoutPacing() Option {
	return func(g *EventGen) {
		g.paced = false
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(g *EventGen) {
		g.log = log
	}
}

// NewEventGen returns a generator for the given camera.
func NewEventGen(camera string, cfg config.GeneratorConfig, opts ...Option) (*EventGen, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > 1<<16 || cfg.Height > 1<<16 {
		return nil, fmt.Errorf("invalid generator geometry %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.EventRate <= 0 {
		return nil, fmt.Errorf("generator eventRate must be positive, got %d", cfg.EventRate)
	}
	if cfg.ChunkPeriod < time.Microsecond {
		return nil, fmt.Errorf("generator chunkPeriod must be at least 1us, got %v", cfg.ChunkPeriod)
	}
	g := &EventGen{
		info: events.SensorInfo{
			CameraName:   camera,
			SerialNumber: fmt.Sprintf("generator-%d", cfg.Seed),
			FrameID:      camera + "_optical_frame",
			Geometry:     events.Geometry{Width: cfg.Width, Height: cfg.Height},
		},
		eventRate:      int64(cfg.EventRate),
		periodMicros:   cfg.ChunkPeriod.Microseconds(),
		period:         cfg.ChunkPeriod,
		durationMicros: cfg.Duration.Microseconds(),
		seed:           cfg.Seed,
		paced:          true,
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

func (g *EventGen) GetName() string {
	return "generator"
}

func (g *EventGen) Info() events.SensorInfo {
	return g.info
}

// Run generates chunks until the configured duration of event time has been produced.
func (g *EventGen) Run(ctx context.Context, handler sources.Handler) error {
	log := g.log
	if log == nil {
		log = logging.FromContext(ctx)
	}
	log = log.With("source", "generator", "camera", g.info.CameraName)
	rnd := rand.New(rand.NewSource(g.seed))
	start := time.Now()
	emitted := int64(0)
	log.Infow("Start generating events", zap.Int64("eventRate", g.eventRate), zap.Duration("chunkPeriod", g.period))
	for tick := int64(0); ; tick++ {
		t0 := tick * g.periodMicros
		if g.durationMicros > 0 && t0 >= g.durationMicros {
			log.Infow("Generator reached its duration", zap.Int64("ticks", tick))
			return nil
		}
		if g.paced {
			if !util.SleepUntil(ctx, start.Add(time.Duration(tick+1)*g.period)) {
				return nil
			}
		} else if ctx.Err() != nil {
			return nil
		}
		// a fractional rate per chunk is spread over the following chunks
		due := g.eventRate * (t0 + g.periodMicros) / 1000000
		n := int(due - emitted)
		emitted = due
		eventgenSourceCount.WithLabelValues(g.info.CameraName).Inc()
		if n == 0 {
			continue
		}
		handler(ctx, g.chunk(rnd, t0, n))
		eventgenSourceReadCount.WithLabelValues(g.info.CameraName).Add(float64(n))
	}
}

func (g *EventGen) chunk(rnd *rand.Rand, t0 int64, n int) events.Chunk {
	offsets := make([]int64, n)
	for i := range offsets {
		offsets[i] = rnd.Int63n(g.periodMicros)
	}
	slices.Sort(offsets)
	chunk := make(events.Chunk, n)
	for i := range chunk {
		chunk[i] = events.Event{
			X:        uint16(rnd.Intn(g.info.Geometry.Width)),
			Y:        uint16(rnd.Intn(g.info.Geometry.Height)),
			Polarity: uint8(rnd.Intn(2)),
			T:        t0 + offsets[i],
		}
	}
	return chunk
}

var _ sources.Sourcer = (*EventGen)(nil)
