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

// Package sinks delivers completed batches, rendered frames and sensor status to a
// transport. Every transport publishes on three channels, named after the camera.
package sinks

import (
	"context"
	"fmt"

	"github.com/numaproj/cdstream/pkg/frames"
	"github.com/numaproj/cdstream/pkg/status"
	"github.com/numaproj/cdstream/pkg/window"
)

// Channel is one of the output streams of a camera.
type Channel string

const (
	ChannelEvents Channel = "cd_events_buffer"
	ChannelFrames Channel = "frames"
	ChannelInfo   Channel = "camera_info"
)

// TopicName returns the transport level name of a camera channel.
func TopicName(camera string, ch Channel) string {
	return fmt.Sprintf("cdstream.%s.%s", camera, ch)
}

// Sinker is a transport for every output of one camera.
//
// Write calls happen on the event delivery goroutine and block it until the transport has
// taken the message. HasBatchConsumer is called once per delivered chunk and must be cheap.
type Sinker interface {
	// GetName returns the name of the sink.
	GetName() string
	// HasBatchConsumer reports whether anybody currently wants event batches.
	HasBatchConsumer(ctx context.Context) bool
	// HasStatusConsumer reports whether anybody currently wants sensor status.
	HasStatusConsumer(ctx context.Context) bool
	WriteBatch(ctx context.Context, batch *window.CompletedBatch) error
	WriteFrame(ctx context.Context, frame *frames.Frame) error
	WriteStatus(ctx context.Context, s *status.Status) error
	// Close releases the transport.
	Close() error
}

var (
	_ frames.Emitter   = (Sinker)(nil)
	_ status.Publisher = (Sinker)(nil)
)
