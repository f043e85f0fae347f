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

package frames

import (
	"context"
	"errors"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/clock"
	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/shared/logging"
)

var (
	ErrDriverNotStarted = errors.New("frame driver not started")
	ErrDriverStopped    = errors.New("frame driver stopped")
)

// State of the Driver.
type State int32

const (
	NotStarted State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Driver wires a Renderer between the event stream and a frame Emitter.
// Forward must be called from the single delivery goroutine.
type Driver struct {
	renderer Renderer
	emitter  Emitter
	anchor   *clock.Anchor
	state    *atomic.Int32
	done     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	log      *zap.SugaredLogger
	// onError is called for every frame the emitter fails to take
	onError func(error)
}

type DriverOption func(*Driver)

// WithErrorHandler sets the callback invoked when the emitter rejects a frame.
func WithErrorHandler(f func(error)) DriverOption {
	return func(d *Driver) {
		d.onError = f
	}
}

// NewDriver returns a Driver in the NotStarted state. anchor may be nil, in which case
// frames are emitted without a wall clock stamp.
func NewDriver(renderer Renderer, emitter Emitter, anchor *clock.Anchor, opts ...DriverOption) *Driver {
	d := &Driver{
		renderer: renderer,
		emitter:  emitter,
		anchor:   anchor,
		state:    atomic.NewInt32(int32(NotStarted)),
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Start moves the driver to Running. The driver stops on its own when ctx is cancelled.
func (d *Driver) Start(ctx context.Context) error {
	if !d.state.CompareAndSwap(int32(NotStarted), int32(Running)) {
		if d.State() == Stopped {
			return ErrDriverStopped
		}
		return nil
	}
	d.log = logging.FromContext(ctx).With("component", "frame-driver")
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.renderer.SetOutputCallback(d.emit)
	go func() {
		<-d.ctx.Done()
		d.Stop()
	}()
	d.log.Info("Frame driver started")
	return nil
}

// Forward hands a chunk to the renderer. Any frames it completes are emitted before
// Forward returns.
func (d *Driver) Forward(chunk events.Chunk) error {
	switch d.State() {
	case NotStarted:
		return ErrDriverNotStarted
	case Stopped:
		return ErrDriverStopped
	}
	if len(chunk) == 0 {
		return nil
	}
	d.renderer.Process(chunk)
	return nil
}

// Stop moves the driver to the terminal Stopped state. It is safe to call more than once.
func (d *Driver) Stop() {
	prev := State(d.state.Swap(int32(Stopped)))
	if prev == Stopped {
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	if d.log != nil {
		d.log.Info("Frame driver stopped")
	}
	close(d.done)
}

// Done is closed once the driver has stopped.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// State returns the current driver state.
func (d *Driver) State() State {
	return State(d.state.Load())
}

func (d *Driver) emit(f *Frame) {
	if d.anchor != nil {
		if ts, err := d.anchor.ToAbsolute(f.T); err == nil {
			f.Stamp = ts
		}
	}
	if f.Stamp.IsZero() {
		f.Stamp = time.Now()
	}
	if err := d.emitter.WriteFrame(d.ctx, f); err != nil {
		if d.onError != nil {
			d.onError(err)
		}
		d.log.Errorw("Failed to emit frame", zap.Int64("t", f.T), zap.Error(err))
	}
}
