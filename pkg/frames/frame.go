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

// Package frames drives a stateful frame renderer from the CD event stream.
//
// The renderer decides on its own when a frame is finished, based on its configured
// accumulation time and frame rate; the Driver only forwards every chunk in and every
// finished frame out. Chunks are forwarded whether or not anybody consumes the frames, so
// the renderer state stays consistent with the stream.
package frames

import (
	"context"
	"time"

	"github.com/numaproj/cdstream/pkg/events"
)

// Encoding of Frame.Data.
const EncodingBGR8 = "bgr8"

// Frame is a rendered image summarizing recent event activity.
type Frame struct {
	// T is the renderer's own timestamp, in microseconds of event time.
	T int64
	// Stamp is T converted to wall clock time when the stream is anchored.
	Stamp    time.Time
	Width    int
	Height   int
	Encoding string
	// Data holds Height rows of Width*3 bytes.
	Data []byte
}

// Renderer is a stateful frame generator. Process accumulates events; finished frames are
// delivered to the output callback, from within Process, at a cadence driven by event time.
type Renderer interface {
	Process(chunk events.Chunk)
	SetOutputCallback(func(*Frame))
}

// Emitter receives finished frames.
type Emitter interface {
	WriteFrame(ctx context.Context, frame *Frame) error
}
