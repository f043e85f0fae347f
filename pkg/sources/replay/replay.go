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

// Package replay plays back a recorded event file. A recording is CSV text with one event per
// line, "t,x,y,p", t being microseconds since the start of the recording. Lines starting with
// '#' and a leading "t,x,y,p" header are ignored.
package replay

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/config"
	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/shared/logging"
	"github.com/numaproj/cdstream/pkg/shared/util"
	"github.com/numaproj/cdstream/pkg/sources"
	sourceerrors "github.com/numaproj/cdstream/pkg/sources/errors"
)

// Replay reads a recording and delivers it in chunks of at most chunkSize events.
type Replay struct {
	path      string
	info      events.SensorInfo
	chunkSize int
	realtime  bool
	log       *zap.SugaredLogger
}

type Option func(*Replay)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Replay) {
		r.log = log
	}
}

// NewReplay checks the recording exists and returns a source for it.
func NewReplay(camera string, cfg config.ReplayConfig, opts ...Option) (*Replay, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid replay geometry %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("replay chunkSize must be positive, got %d", cfg.ChunkSize)
	}
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, fmt.Errorf("failed to open recording, %w", err)
	}
	r := &Replay{
		path: cfg.Path,
		info: events.SensorInfo{
			CameraName:   camera,
			SerialNumber: "replay:" + filepath.Base(cfg.Path),
			FrameID:      camera + "_optical_frame",
			Geometry:     events.Geometry{Width: cfg.Width, Height: cfg.Height},
		},
		chunkSize: cfg.ChunkSize,
		realtime:  cfg.Realtime,
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

func (r *Replay) GetName() string {
	return "replay"
}

func (r *Replay) Info() events.SensorInfo {
	return r.info
}

// Run delivers the recording once, from the top.
func (r *Replay) Run(ctx context.Context, handler sources.Handler) error {
	log := r.log
	if log == nil {
		log = logging.FromContext(ctx)
	}
	log = log.With("source", "replay", "path", r.path)
	f, err := os.Open(r.path)
	if err != nil {
		return &sourceerrors.SourceReadErr{Source: r.path, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comment = '#'
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	start := time.Now()
	chunk := make(events.Chunk, 0, r.chunkSize)
	total := 0
	deliver := func() bool {
		if len(chunk) == 0 {
			return true
		}
		if r.realtime {
			due := start.Add(time.Duration(chunk.Last().T) * time.Microsecond)
			if !util.SleepUntil(ctx, due) {
				return false
			}
			replaySourceLag.WithLabelValues(r.info.CameraName).Set(time.Since(due).Seconds())
		} else if ctx.Err() != nil {
			return false
		}
		handler(ctx, chunk)
		replaySourceReadCount.WithLabelValues(r.info.CameraName).Add(float64(len(chunk)))
		total += len(chunk)
		chunk = make(events.Chunk, 0, r.chunkSize)
		return true
	}

	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &sourceerrors.SourceReadErr{Source: r.path, Err: err}
		}
		line, _ := reader.FieldPos(0)
		if first {
			first = false
			if strings.EqualFold(record[0], "t") {
				continue
			}
		}
		ev, err := r.parse(record)
		if err != nil {
			return &sourceerrors.SourceReadErr{Source: r.path, Line: line, Err: err}
		}
		chunk = append(chunk, ev)
		if len(chunk) == r.chunkSize && !deliver() {
			return nil
		}
	}
	if !deliver() {
		return nil
	}
	log.Infow("Recording finished", zap.Int("events", total), zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (r *Replay) parse(record []string) (events.Event, error) {
	t, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return events.Event{}, fmt.Errorf("invalid timestamp %q", record[0])
	}
	if t < 0 {
		return events.Event{}, fmt.Errorf("negative timestamp %d", t)
	}
	x, err := strconv.ParseUint(record[1], 10, 16)
	if err != nil {
		return events.Event{}, fmt.Errorf("invalid x %q", record[1])
	}
	y, err := strconv.ParseUint(record[2], 10, 16)
	if err != nil {
		return events.Event{}, fmt.Errorf("invalid y %q", record[2])
	}
	p, err := strconv.ParseUint(record[3], 10, 8)
	if err != nil {
		return events.Event{}, fmt.Errorf("invalid polarity %q", record[3])
	}
	ev := events.Event{X: uint16(x), Y: uint16(y), Polarity: uint8(p), T: t}
	if !r.info.Geometry.Contains(ev.X, ev.Y) {
		return events.Event{}, fmt.Errorf("pixel (%d,%d) outside of %dx%d", ev.X, ev.Y, r.info.Geometry.Width, r.info.Geometry.Height)
	}
	return ev, nil
}

var _ sources.Sourcer = (*Replay)(nil)
