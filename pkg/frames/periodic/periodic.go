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

// Package periodic implements a frames.Renderer emitting frames at a fixed rate of event
// time. Each frame shows the events of the last accumulation period, painted with the
// polarity of the most recent event at every pixel.
package periodic

import (
	"fmt"
	"math"
	"time"

	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/frames"
)

const (
	DefaultAccumulationTime = 20 * time.Millisecond
	DefaultFPS              = 30.0
)

// BGR colors of the default palette.
var (
	ColorBackground = [3]byte{52, 37, 30}
	ColorOn         = [3]byte{255, 255, 255}
	ColorOff        = [3]byte{200, 126, 64}
)

type options struct {
	accumulationTime time.Duration
	fps              float64
}

type Option func(*options) error

// WithAccumulationTime sets how far back in event time a frame looks.
func WithAccumulationTime(d time.Duration) Option {
	return func(o *options) error {
		if d < time.Microsecond {
			return fmt.Errorf("accumulation time must be at least 1us, got %v", d)
		}
		o.accumulationTime = d
		return nil
	}
}

// WithFPS sets the number of frames per second of event time.
func WithFPS(fps float64) Option {
	return func(o *options) error {
		if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
			return fmt.Errorf("frame rate must be positive, got %v", fps)
		}
		o.fps = fps
		return nil
	}
}

// Renderer is a frames.Renderer. It is not safe for concurrent use.
type Renderer struct {
	geometry events.Geometry
	// accUs is the accumulation time in microseconds
	accUs int64
	// periodUs is the frame period in microseconds
	periodUs int64
	// nextT is the event time at which the next frame is due
	nextT int64
	// pending holds the events that can still show up in a future frame
	pending []events.Event
	output  func(*frames.Frame)
}

var _ frames.Renderer = (*Renderer)(nil)

// New returns a Renderer for a sensor of the given geometry.
func New(geometry events.Geometry, opts ...Option) (*Renderer, error) {
	if geometry.Width <= 0 || geometry.Height <= 0 {
		return nil, fmt.Errorf("invalid sensor geometry %dx%d", geometry.Width, geometry.Height)
	}
	o := &options{
		accumulationTime: DefaultAccumulationTime,
		fps:              DefaultFPS,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	period := int64(math.Round(1e6 / o.fps))
	if period < 1 {
		period = 1
	}
	return &Renderer{
		geometry: geometry,
		accUs:    o.accumulationTime.Microseconds(),
		periodUs: period,
		nextT:    period,
	}, nil
}

// Period returns the frame period in event time.
func (r *Renderer) Period() time.Duration {
	return time.Duration(r.periodUs) * time.Microsecond
}

// SetOutputCallback sets the function receiving finished frames.
func (r *Renderer) SetOutputCallback(f func(*frames.Frame)) {
	r.output = f
}

// Process accumulates the chunk, emitting every frame whose due time is reached.
func (r *Renderer) Process(chunk events.Chunk) {
	for _, ev := range chunk {
		for ev.T >= r.nextT {
			r.flush()
		}
		r.pending = append(r.pending, ev)
	}
}

// flush renders the frame due at nextT and advances to the next one.
func (r *Renderer) flush() {
	from := r.nextT - r.accUs
	start := 0
	for start < len(r.pending) && r.pending[start].T < from {
		start++
	}
	if r.output != nil {
		r.output(r.render(r.pending[start:], r.nextT))
	}
	r.nextT += r.periodUs
	// events older than the next frame's accumulation start are never painted again
	keepFrom := r.nextT - r.accUs
	for start < len(r.pending) && r.pending[start].T < keepFrom {
		start++
	}
	r.pending = append(r.pending[:0], r.pending[start:]...)
}

func (r *Renderer) render(evs []events.Event, t int64) *frames.Frame {
	w, h := r.geometry.Width, r.geometry.Height
	data := make([]byte, w*h*3)
	for i := 0; i < len(data); i += 3 {
		copy(data[i:i+3], ColorBackground[:])
	}
	for _, ev := range evs {
		if !r.geometry.Contains(ev.X, ev.Y) {
			continue
		}
		off := (int(ev.Y)*w + int(ev.X)) * 3
		if ev.Polarity == events.PolarityOn {
			copy(data[off:off+3], ColorOn[:])
		} else {
			copy(data[off:off+3], ColorOff[:])
		}
	}
	return &frames.Frame{
		T:        t,
		Width:    w,
		Height:   h,
		Encoding: frames.EncodingBGR8,
		Data:     data,
	}
}
